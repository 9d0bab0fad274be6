package gst

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"gstledger/internal/port"
)

// HSNRate is a valid GST rate for an HSN code with its optional condition.
type HSNRate struct {
	Rate          decimal.Decimal
	ConditionDesc string
}

// HSNLookup answers HSN existence, description and rate questions in memory.
// It is immutable after construction and safe for concurrent access.
type HSNLookup struct {
	rates        map[string][]HSNRate
	descriptions map[string]string
}

// NewHSNLookup builds an HSNLookup from the master entries.
func NewHSNLookup(entries []port.HSNEntry) *HSNLookup {
	h := &HSNLookup{
		rates:        make(map[string][]HSNRate, len(entries)),
		descriptions: make(map[string]string, len(entries)),
	}
	for idx := range entries {
		e := &entries[idx]
		h.rates[e.Code] = append(h.rates[e.Code], HSNRate{
			Rate:          e.GSTRate,
			ConditionDesc: e.ConditionDesc,
		})
		if _, ok := h.descriptions[e.Code]; !ok && e.Description != "" {
			h.descriptions[e.Code] = e.Description
		}
	}
	return h
}

// LoadHSNLookup reads the full master from repo.
func LoadHSNLookup(ctx context.Context, repo port.HSNRepository) (*HSNLookup, error) {
	entries, err := repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading HSN master: %w", err)
	}
	return NewHSNLookup(entries), nil
}

// Len returns the number of distinct codes in the master.
func (h *HSNLookup) Len() int {
	if h == nil {
		return 0
	}
	return len(h.rates)
}

// resolve finds the master key for code: exact match, then 6 and 4 digit prefixes.
func (h *HSNLookup) resolve(code string) (string, bool) {
	if h == nil || len(h.rates) == 0 || code == "" {
		return "", false
	}
	if _, ok := h.rates[code]; ok {
		return code, true
	}
	for _, prefixLen := range []int{6, 4} {
		if len(code) > prefixLen {
			if _, ok := h.rates[code[:prefixLen]]; ok {
				return code[:prefixLen], true
			}
		}
	}
	return "", false
}

// Exists reports whether the code (or one of its prefixes) is in the master list.
func (h *HSNLookup) Exists(code string) bool {
	_, ok := h.resolve(code)
	return ok
}

// Description returns the master description for the code, if any.
func (h *HSNLookup) Description(code string) string {
	key, ok := h.resolve(code)
	if !ok {
		return ""
	}
	return h.descriptions[key]
}

// Rates returns the valid rates for the code with prefix fallback.
func (h *HSNLookup) Rates(code string) []HSNRate {
	key, ok := h.resolve(code)
	if !ok {
		return nil
	}
	return h.rates[key]
}

// RateMatches reports whether rate is one of the valid rates for code.
// Unknown codes return matched=false with no valid rates.
func (h *HSNLookup) RateMatches(code string, rate decimal.Decimal) (matched bool, validRates []HSNRate) {
	validRates = h.Rates(code)
	if len(validRates) == 0 {
		return false, nil
	}
	tolerance := decimal.RequireFromString("0.01")
	for idx := range validRates {
		if validRates[idx].Rate.Sub(rate).Abs().LessThan(tolerance) {
			return true, validRates
		}
	}
	return false, validRates
}
