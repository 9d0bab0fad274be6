package domain

// SupplyType is the statutory nature of a supply.
type SupplyType string

const (
	SupplyTaxable   SupplyType = "taxable"
	SupplyNilRated  SupplyType = "nil_rated"
	SupplyExempt    SupplyType = "exempt"
	SupplyZeroRated SupplyType = "zero_rated"
)

// Region tells whether supplier and recipient are in the same state.
type Region string

const (
	RegionIntrastate Region = "intrastate"
	RegionInterstate Region = "interstate"
)

// Registration tells whether the counterparty holds a GSTIN.
type Registration string

const (
	RegistrationRegistered   Registration = "registered"
	RegistrationUnregistered Registration = "unregistered"
)

// Classification is the single statutory bucket a TaxLine belongs to.
// It is derived, never stored on the line.
type Classification struct {
	Supply       SupplyType   `json:"supply"`
	Region       Region       `json:"region"`
	Registration Registration `json:"registration"`
}

// DefaultClassification is used when a line carries too little data to classify.
var DefaultClassification = Classification{
	Supply:       SupplyTaxable,
	Region:       RegionInterstate,
	Registration: RegistrationUnregistered,
}

// Group is the aggregation key component for rate buckets.
func (c Classification) Group() string {
	return string(c.Supply) + "/" + string(c.Region) + "/" + string(c.Registration)
}

// Interstate reports whether the supply crosses state lines.
func (c Classification) Interstate() bool {
	return c.Region == RegionInterstate
}

// Registered reports whether the counterparty is a registered (B2B) party.
func (c Classification) Registered() bool {
	return c.Registration == RegistrationRegistered
}

// OutwardRow maps a supply type to its GSTR-3B table 3.1 row.
type OutwardRow string

const (
	OutwardRowA OutwardRow = "a" // outward taxable
	OutwardRowB OutwardRow = "b" // zero rated
	OutwardRowC OutwardRow = "c" // nil rated and exempted
)

// OutwardRow returns the 3.1 row this classification reports under.
func (c Classification) OutwardRow() OutwardRow {
	switch c.Supply {
	case SupplyZeroRated:
		return OutwardRowB
	case SupplyNilRated, SupplyExempt:
		return OutwardRowC
	default:
		return OutwardRowA
	}
}
