package gst

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gstledger/internal/domain"
)

// AssembleInput is everything needed to build one period's return.
type AssembleInput struct {
	Period  domain.ReturnPeriod
	Company domain.Company
	// Lines may include lines outside the period; they are filtered out.
	Lines      []domain.TaxLine
	Manual     *domain.ManualSections
	Amendments []domain.AmendmentRecord
	// Extra warnings raised while reading lines (e.g. voucher-level tax only).
	SourceWarnings []domain.Warning
}

// Assembler combines classification, aggregation and manual sections into
// a complete return document.
type Assembler struct {
	classifier *Classifier
	gstr1      GSTR1Builder
	now        func() time.Time
}

// NewAssembler creates an Assembler. A nil classifier uses the defaults.
func NewAssembler(classifier *Classifier, b2clThreshold decimal.Decimal) *Assembler {
	if classifier == nil {
		classifier = defaultClassifier
	}
	return &Assembler{
		classifier: classifier,
		gstr1:      GSTR1Builder{B2CLThreshold: b2clThreshold},
		now:        time.Now,
	}
}

// Classifier returns the classifier used for outward lines.
func (a *Assembler) Classifier() *Classifier {
	return a.classifier
}

// Assemble builds the return for in.Period. The period is validated before
// any line is looked at. The result is always in draft status; an empty
// period yields zero totals and no warnings.
func (a *Assembler) Assemble(in AssembleInput) (*domain.AssembledReturn, error) {
	if err := in.Period.Validate(); err != nil {
		return nil, err
	}

	var outward, inward []domain.TaxLine
	for i := range in.Lines {
		line := in.Lines[i]
		if !in.Period.Contains(line.VoucherDate) {
			continue
		}
		if isInward(&line) {
			inward = append(inward, line)
		} else {
			outward = append(outward, line)
		}
	}

	agg := a.classifier.Aggregate(outward, in.Company.State)

	ret := &domain.AssembledReturn{
		ID:     uuid.New(),
		Period: in.Period,
		Status: domain.ReturnStatusDraft,
		BasicInfo: domain.BasicInfo{
			GSTIN:     in.Company.GSTIN,
			LegalName: in.Company.LegalName,
			TradeName: in.Company.TradeName,
			State:     in.Company.State,
		},
		Outward:     agg.Outward,
		RateBuckets: agg.RateBuckets,
		HSNSummary:  agg.HSNRows,
		Totals:      agg.Totals,
		GSTR1:       a.gstr1.Build(outward, agg.Classifications),
		Amendments:  []domain.AmendmentRecord{},
		Payments:    []domain.PaymentEntry{},
		Warnings:    append(agg.Warnings, in.SourceWarnings...),
		LineCount:   len(outward) + len(inward),
		ComputedAt:  a.now().UTC(),
	}

	reverseCharge, itc := inwardFigures(inward)
	manual := in.Manual
	if manual == nil {
		manual = &domain.ManualSections{}
	}
	ret.Outward.ReverseCharge = reverseCharge.Add(manual.ReverseChargeInward)
	ret.ITC = domain.ITCSection{
		Computed:   itc,
		Available:  itc.Add(manual.ITCAvailable),
		Reversed:   manual.ITCReversed,
		Ineligible: manual.ITCIneligible,
	}
	ret.ITC.Net = ret.ITC.Available.Sub(ret.ITC.Reversed)
	ret.InterestAndFees = domain.InterestAndFees{Interest: manual.Interest, LateFee: manual.LateFee}
	if len(manual.Payments) > 0 {
		ret.Payments = append(ret.Payments, manual.Payments...)
	}

	for i := range in.Amendments {
		am := in.Amendments[i]
		if am.ReportedIn.Year != in.Period.Year || am.ReportedIn.Month != in.Period.Month {
			continue
		}
		ret.Amendments = append(ret.Amendments, am)
		ret.AmendmentTotal = ret.AmendmentTotal.Add(am.Delta)
	}

	ret.Liability = ComputeLiability(ret)
	return ret, nil
}

func isInward(line *domain.TaxLine) bool {
	return line.Direction == domain.DirectionInward || line.VoucherType == domain.VoucherTypePurchase
}

// inwardFigures splits inward lines into reverse-charge supplies (3.1(d))
// and input tax credit claimable from registered suppliers. Reverse-charge
// tax paid is also creditable.
func inwardFigures(inward []domain.TaxLine) (reverseCharge, itc domain.TaxFigures) {
	for i := range inward {
		line := &inward[i]
		f := line.Figures()
		switch {
		case line.ReverseCharge:
			reverseCharge = reverseCharge.Add(f)
			itc = itc.Add(f)
		case NormalizeGSTIN(line.GSTIN()) != "":
			itc = itc.Add(f)
		}
	}
	return reverseCharge, itc
}

// ComputeLiability derives the liability summary from a return's sections:
//
//	net = outwardTax - eligibleITC + itcReversed + interestAndFees
//
// where outward tax covers rows 3.1(a), (b), (d) and amendment deltas.
func ComputeLiability(r *domain.AssembledReturn) domain.LiabilitySummary {
	outward := r.Outward.Taxable.
		Add(r.Outward.ZeroRated).
		Add(r.Outward.ReverseCharge).
		Add(r.AmendmentTotal)

	s := domain.LiabilitySummary{
		OutwardTax:      outward.Tax(),
		EligibleITC:     r.ITC.Available.Tax(),
		ITCReversed:     r.ITC.Reversed.Tax(),
		InterestAndFees: r.InterestAndFees.Total(),
	}
	s.NetLiability = NetLiability(s.OutwardTax, s.EligibleITC, s.ITCReversed, s.InterestAndFees)

	byHead := outward.
		Sub(r.ITC.Available).
		Add(r.ITC.Reversed).
		Add(r.InterestAndFees.Interest).
		Add(r.InterestAndFees.LateFee)
	byHead.TaxableValue = decimal.Zero
	s.ByHead = byHead

	for i := range r.Payments {
		s.PaidTotal = s.PaidTotal.Add(r.Payments[i].Amount)
	}
	s.Balance = s.NetLiability.Sub(s.PaidTotal)
	return s
}

// NetLiability is outwardTax - eligibleITC + itcReversed + interestAndFees.
func NetLiability(outwardTax, eligibleITC, itcReversed, interestAndFees decimal.Decimal) decimal.Decimal {
	return outwardTax.Sub(eligibleITC).Add(itcReversed).Add(interestAndFees)
}
