package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSACRate(t *testing.T) {
	tests := []struct {
		in         string
		rates      []string
		conditions []string
	}{
		{"18%", []string{"18"}, []string{""}},
		{"Exempt", []string{"0"}, []string{"exempt"}},
		{"12%-18%", []string{"12", "18"}, []string{"", ""}},
		{"1% (without ITC) or 5% (without ITC)", []string{"1", "5"}, []string{"without ITC", "without ITC"}},
		{"2.5 %", []string{"2.5"}, []string{""}},
		{"as applicable", nil, nil},
		{"", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := parseSACRate(tt.in)
			require.Len(t, got, len(tt.rates))
			for i := range got {
				assert.Equal(t, tt.rates[i], got[i].rate.String())
				assert.Equal(t, tt.conditions[i], got[i].condition)
			}
		})
	}
}

func TestEntrySet_Goods(t *testing.T) {
	header := make([][]string, 5)
	row := make([]string, 14)
	row[5], row[7] = "7214", "Bars and rods of iron"
	row[8], row[9] = "721420", "With indentations"
	row[10], row[12] = "72142010", "Of alloy steel"
	row[13] = "18%"
	dup := append([]string(nil), row...)
	noRate := make([]string, 14)
	noRate[5] = "7215"

	s := newEntrySet()
	n := s.addGoods(append(header, row, dup, noRate))

	assert.Equal(t, 3, n)
	require.Len(t, s.entries, 3)
	assert.Equal(t, "72142010", s.entries[0].Code)
	assert.Equal(t, "7214", s.entries[2].Code)
	assert.Equal(t, "18", s.entries[0].GSTRate.String())
}

func TestEntrySet_Services(t *testing.T) {
	rows := [][]string{{}, {}, {},
		{"9983", "Other professional services", "998311", "Management consulting", "18%"},
		{"9963", "Accommodation", "996311", "Room or unit accommodation", "12%-18%"},
		{"99", "heading", "", "", "Exempt"},
	}

	s := newEntrySet()
	n := s.addServices(rows)

	assert.Equal(t, 7, n)
	assert.Equal(t, "998311", s.entries[0].Code)
	assert.Equal(t, "Management consulting", s.entries[0].Description)
}
