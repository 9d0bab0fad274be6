package export

import (
	"gstledger/internal/domain"
	"gstledger/internal/gst"
)

// GSTR3BDocument is the GSTR-3B summary JSON. The outward supplies block
// keeps the 3.1 keys a, b, c, d expected by existing consumers.
type GSTR3BDocument struct {
	GSTIN           string            `json:"gstin"`
	RetPeriod       string            `json:"ret_period"`
	LegalName       string            `json:"legal_name"`
	TradeName       *string           `json:"trade_name"`
	Status          string            `json:"status"`
	ARN             *string           `json:"arn"`
	OutwardSupplies OutwardSupplies31 `json:"outward_supplies"`
	ITC             ITCDetails        `json:"itc"`
	InterestAndFees InterestLateFee   `json:"interest_late_fee"`
	Amendments      []AmendmentRow    `json:"amendments"`
	Payments        []PaymentRow      `json:"payments"`
	Liability       LiabilityDetails  `json:"liability"`
	Warnings        []domain.Warning  `json:"warnings"`
}

// OutwardSupplies31 is table 3.1.
type OutwardSupplies31 struct {
	A TaxHeads  `json:"a"`
	B Total     `json:"b"`
	C NilExempt `json:"c"`
	D TaxHeads  `json:"d"`
}

type TaxHeads struct {
	TaxableValue  Amount `json:"taxable_value"`
	IntegratedTax Amount `json:"integrated_tax"`
	CentralTax    Amount `json:"central_tax"`
	StateTax      Amount `json:"state_tax"`
}

type Total struct {
	Total Amount `json:"total"`
}

type NilExempt struct {
	Nil      Total `json:"nil"`
	Exempted Total `json:"exempted"`
}

type ITCHeads struct {
	IntegratedTax Amount `json:"integrated_tax"`
	CentralTax    Amount `json:"central_tax"`
	StateTax      Amount `json:"state_tax"`
	Cess          Amount `json:"cess"`
}

type ITCDetails struct {
	Available  ITCHeads `json:"available"`
	Reversed   ITCHeads `json:"reversed"`
	Ineligible ITCHeads `json:"ineligible"`
	Net        ITCHeads `json:"net"`
}

type InterestLateFee struct {
	Interest ITCHeads `json:"interest"`
	LateFee  ITCHeads `json:"late_fee"`
}

type AmendmentRow struct {
	OriginalPeriod string   `json:"original_period"`
	Reason         string   `json:"reason"`
	Delta          TaxHeads `json:"delta"`
}

type PaymentRow struct {
	Head   string `json:"head"`
	Mode   string `json:"mode"`
	Amount Amount `json:"amount"`
}

type LiabilityDetails struct {
	OutwardTax      Amount   `json:"outward_tax"`
	EligibleITC     Amount   `json:"eligible_itc"`
	ITCReversed     Amount   `json:"itc_reversed"`
	InterestAndFees Amount   `json:"interest_and_fees"`
	NetLiability    Amount   `json:"net_liability"`
	ByHead          ITCHeads `json:"by_head"`
	Paid            Amount   `json:"paid"`
	Balance         Amount   `json:"balance"`
}

// GSTR3B renders the summary return.
func GSTR3B(r *domain.AssembledReturn) (*GSTR3BDocument, error) {
	gstin := gst.NormalizeGSTIN(r.BasicInfo.GSTIN)
	if gstin == "" {
		return nil, violation("gstr3b", "gstin", "supplier GSTIN is required")
	}
	doc := &GSTR3BDocument{
		GSTIN:     gstin,
		RetPeriod: r.Period.FilingPeriod(),
		LegalName: r.BasicInfo.LegalName,
		TradeName: optString(r.BasicInfo.TradeName),
		Status:    string(r.Status),
		ARN:       optString(r.ARN),
		OutwardSupplies: OutwardSupplies31{
			A: taxHeads(r.Outward.Taxable),
			B: Total{Total: amt(r.Outward.ZeroRated.TaxableValue)},
			C: NilExempt{
				Nil:      Total{Total: amt(r.Outward.NilExempt.Nil)},
				Exempted: Total{Total: amt(r.Outward.NilExempt.Exempt)},
			},
			D: taxHeads(r.Outward.ReverseCharge),
		},
		ITC: ITCDetails{
			Available:  itcHeads(r.ITC.Available),
			Reversed:   itcHeads(r.ITC.Reversed),
			Ineligible: itcHeads(r.ITC.Ineligible),
			Net:        itcHeads(r.ITC.Net),
		},
		InterestAndFees: InterestLateFee{
			Interest: itcHeads(r.InterestAndFees.Interest),
			LateFee:  itcHeads(r.InterestAndFees.LateFee),
		},
		Amendments: make([]AmendmentRow, 0, len(r.Amendments)),
		Payments:   make([]PaymentRow, 0, len(r.Payments)),
		Liability: LiabilityDetails{
			OutwardTax:      amt(r.Liability.OutwardTax),
			EligibleITC:     amt(r.Liability.EligibleITC),
			ITCReversed:     amt(r.Liability.ITCReversed),
			InterestAndFees: amt(r.Liability.InterestAndFees),
			NetLiability:    amt(r.Liability.NetLiability),
			ByHead:          itcHeads(r.Liability.ByHead),
			Paid:            amt(r.Liability.PaidTotal),
			Balance:         amt(r.Liability.Balance),
		},
		Warnings: r.Warnings,
	}
	if doc.Warnings == nil {
		doc.Warnings = []domain.Warning{}
	}
	for i := range r.Amendments {
		am := &r.Amendments[i]
		doc.Amendments = append(doc.Amendments, AmendmentRow{
			OriginalPeriod: am.OriginalPeriod.FilingPeriod(),
			Reason:         am.Reason,
			Delta:          taxHeads(am.Delta),
		})
	}
	for i := range r.Payments {
		p := &r.Payments[i]
		doc.Payments = append(doc.Payments, PaymentRow{Head: p.Head, Mode: p.Mode, Amount: amt(p.Amount)})
	}
	return doc, nil
}

func taxHeads(f domain.TaxFigures) TaxHeads {
	return TaxHeads{
		TaxableValue:  amt(f.TaxableValue),
		IntegratedTax: amt(f.IGST),
		CentralTax:    amt(f.CGST),
		StateTax:      amt(f.SGST),
	}
}

func itcHeads(f domain.TaxFigures) ITCHeads {
	return ITCHeads{
		IntegratedTax: amt(f.IGST),
		CentralTax:    amt(f.CGST),
		StateTax:      amt(f.SGST),
		Cess:          amt(f.Cess),
	}
}

// ReturnJSON picks the document matching the period's return type.
func ReturnJSON(r *domain.AssembledReturn) (any, error) {
	if r.Period.ReturnType == domain.ReturnTypeGSTR1 {
		doc, err := GSTR1(r)
		if err != nil {
			return nil, err
		}
		return doc, nil
	}
	doc, err := GSTR3B(r)
	if err != nil {
		return nil, err
	}
	return doc, nil
}
