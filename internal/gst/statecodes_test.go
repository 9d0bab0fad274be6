package gst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateCode(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"27", "27", true},
		{"7", "07", true},
		{"27-Maharashtra", "27", true},
		{"29 - Karnataka", "29", true},
		{"Maharashtra", "27", true},
		{"  tamil nadu ", "33", true},
		{"Jammu & Kashmir", "01", true},
		{"Orissa", "21", true},
		{"Ladakh", "38", true},
		{"Other Territory", "97", true},
		{"Dadra & Nagar Haveli and Daman & Diu", "26", true},
		{"99", "", false},
		{"Atlantis", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := StateCode(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStateName(t *testing.T) {
	name, ok := StateName("36")
	assert.True(t, ok)
	assert.Equal(t, "Telangana", name)

	_, ok = StateName("00")
	assert.False(t, ok)
}

func TestSameState(t *testing.T) {
	same, resolved := SameState("27", "Maharashtra")
	assert.True(t, same)
	assert.True(t, resolved)

	same, resolved = SameState("Delhi", "07-Delhi")
	assert.True(t, same)
	assert.True(t, resolved)

	same, resolved = SameState("Karnataka", "Kerala")
	assert.False(t, same)
	assert.True(t, resolved)

	same, resolved = SameState("Narnia", "narnia")
	assert.True(t, same)
	assert.False(t, resolved)
}

func TestValidGSTIN(t *testing.T) {
	assert.True(t, ValidGSTIN("29ABCDE1234F1Z5"))
	assert.True(t, ValidGSTIN(" 29abcde1234f1z5 "))
	assert.False(t, ValidGSTIN("99ABCDE1234F1Z5"))
	assert.False(t, ValidGSTIN("29ABCDE1234F1X5"))
	assert.False(t, ValidGSTIN(""))

	code, ok := GSTINStateCode("07FGHIJ5678K2Z3")
	assert.True(t, ok)
	assert.Equal(t, "07", code)
}
