package gst

import (
	"fmt"
	"strings"

	"gstledger/internal/domain"
)

// ZeroRatedRule decides whether a taxable line with zero rates is a
// zero-rated supply (export or SEZ) rather than a 0% taxable one.
type ZeroRatedRule interface {
	Name() string
	ZeroRated(line *domain.TaxLine) bool
}

// ExportFlagRule requires the voucher's export/SEZ flag. It is the default.
type ExportFlagRule struct{}

func (ExportFlagRule) Name() string { return "export_flag" }

func (ExportFlagRule) ZeroRated(line *domain.TaxLine) bool {
	return line.ExportOrSEZ && zeroRatedShape(line)
}

// RateInferenceRule treats every taxable line with zero rates as zero-rated.
type RateInferenceRule struct{}

func (RateInferenceRule) Name() string { return "rate_inference" }

func (RateInferenceRule) ZeroRated(line *domain.TaxLine) bool {
	return zeroRatedShape(line)
}

// zeroRatedShape holds for any non-zero value so that negated credit notes
// follow the invoice they correct.
func zeroRatedShape(line *domain.TaxLine) bool {
	return line.CGSTRate.IsZero() && line.SGSTRate.IsZero() && line.IGSTRate.IsZero() &&
		!line.TaxableValue.IsZero()
}

// ZeroRatedRuleByName maps the configured rule name to an implementation.
func ZeroRatedRuleByName(name string) (ZeroRatedRule, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "export_flag":
		return ExportFlagRule{}, nil
	case "rate_inference":
		return RateInferenceRule{}, nil
	}
	return nil, fmt.Errorf("unknown zero-rated rule %q", name)
}

// Classifier maps tax lines to their statutory classification. It holds only
// immutable configuration and is safe for concurrent use.
type Classifier struct {
	zeroRated ZeroRatedRule
	hsn       *HSNLookup
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithZeroRatedRule overrides the default export-flag rule.
func WithZeroRatedRule(r ZeroRatedRule) ClassifierOption {
	return func(c *Classifier) {
		if r != nil {
			c.zeroRated = r
		}
	}
}

// WithHSNLookup enables HSN description fill-in and rate cross-checks.
func WithHSNLookup(h *HSNLookup) ClassifierOption {
	return func(c *Classifier) { c.hsn = h }
}

// NewClassifier creates a Classifier.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{zeroRated: ExportFlagRule{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HSN returns the configured lookup, which may be nil.
func (c *Classifier) HSN() *HSNLookup {
	return c.hsn
}

// Classify returns the single classification of line. supplierState, when
// non-empty, overrides the line's own supplier state. Missing data never
// fails classification: safe defaults are used and warnings are returned.
func (c *Classifier) Classify(line *domain.TaxLine, supplierState string) (domain.Classification, []domain.Warning) {
	var warnings []domain.Warning
	cls := domain.DefaultClassification

	gstin := NormalizeGSTIN(line.GSTIN())
	if gstin == "" {
		warnings = append(warnings, domain.NewLineWarning(domain.WarnMissingGSTIN, line, "party_gstin",
			"party GSTIN missing; treated as unregistered"))
	} else {
		cls.Registration = domain.RegistrationRegistered
		if !ValidGSTIN(gstin) {
			warnings = append(warnings, domain.NewLineWarning(domain.WarnInvalidGSTIN, line, "party_gstin",
				fmt.Sprintf("party GSTIN %q is malformed", gstin)))
		}
	}

	if supplierState == "" {
		supplierState = line.SupplierState
	}
	region, regionWarnings := c.region(line, supplierState)
	cls.Region = region
	warnings = append(warnings, regionWarnings...)

	supply, supplyWarnings := c.supply(line)
	cls.Supply = supply
	warnings = append(warnings, supplyWarnings...)

	if strings.TrimSpace(line.HSNCode) == "" {
		warnings = append(warnings, domain.NewLineWarning(domain.WarnMissingHSN, line, "hsn_code",
			"HSN/SAC code missing; reported under an empty code"))
	} else if c.hsn != nil && supply == domain.SupplyTaxable {
		rate := line.GSTRate()
		if matched, valid := c.hsn.RateMatches(line.HSNCode, rate); !matched && len(valid) > 0 {
			warnings = append(warnings, domain.NewLineWarning(domain.WarnHSNRateMismatch, line, "gst_rate",
				fmt.Sprintf("rate %s%% is not a listed rate for HSN %s", rate.String(), line.HSNCode)))
		}
	}

	return cls, warnings
}

func (c *Classifier) region(line *domain.TaxLine, supplierState string) (domain.Region, []domain.Warning) {
	partyState := strings.TrimSpace(line.PartyState)
	switch {
	case partyState == "":
		return domain.RegionInterstate, []domain.Warning{domain.NewLineWarning(domain.WarnMissingPartyState, line,
			"party_state", "party state missing; treated as interstate")}
	case strings.TrimSpace(supplierState) == "":
		return domain.RegionInterstate, []domain.Warning{domain.NewLineWarning(domain.WarnMissingSupplierState, line,
			"supplier_state", "supplier state missing; treated as interstate")}
	}

	var warnings []domain.Warning
	same, resolved := SameState(supplierState, partyState)
	if !resolved {
		warnings = append(warnings, domain.NewLineWarning(domain.WarnUnknownState, line, "party_state",
			fmt.Sprintf("state %q or %q is not in the state code table; compared by name", supplierState, partyState)))
	}
	if same {
		return domain.RegionIntrastate, warnings
	}
	return domain.RegionInterstate, warnings
}

func (c *Classifier) supply(line *domain.TaxLine) (domain.SupplyType, []domain.Warning) {
	var warnings []domain.Warning
	switch normalizeTaxType(line.TaxType) {
	case "exempt":
		return domain.SupplyExempt, nil
	case "nilrated", "nil":
		return domain.SupplyNilRated, nil
	case "", "taxable":
	default:
		warnings = append(warnings, domain.NewLineWarning(domain.WarnUnknownTaxType, line, "tax_type",
			fmt.Sprintf("tax type %q not recognised; treated as taxable", line.TaxType)))
	}

	if c.zeroRated.ZeroRated(line) {
		return domain.SupplyZeroRated, warnings
	}
	if zeroRatedShape(line) && !line.ExportOrSEZ {
		warnings = append(warnings, domain.NewLineWarning(domain.WarnZeroRateUnflagged, line, "export_or_sez",
			"zero rates on a taxable line without export/SEZ flag; reported as 0% taxable"))
	}
	return domain.SupplyTaxable, warnings
}

func normalizeTaxType(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
	return s
}
