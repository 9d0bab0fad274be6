package export

import (
	"sort"

	"github.com/shopspring/decimal"

	"gstledger/internal/domain"
	"gstledger/internal/gst"
)

const portalDateLayout = "02-01-2006"

// GSTR1Document is the GSTR-1 offline-tool JSON.
type GSTR1Document struct {
	GSTIN string      `json:"gstin"`
	FP    string      `json:"fp"`
	B2B   []GSTR1B2B  `json:"b2b"`
	B2CL  []GSTR1B2CL `json:"b2cl"`
	B2CS  []GSTR1B2CS `json:"b2cs"`
	CDNR  []GSTR1CDNR `json:"cdnr"`
	CDNUR []GSTR1Note `json:"cdnur"`
	EXP   []GSTR1EXP  `json:"exp"`
	Nil   GSTR1Nil    `json:"nil"`
	HSN   GSTR1HSN    `json:"hsn"`
}

type GSTR1B2B struct {
	CTIN string         `json:"ctin"`
	Inv  []GSTR1Invoice `json:"inv"`
}

type GSTR1B2CL struct {
	POS string         `json:"pos"`
	Inv []GSTR1Invoice `json:"inv"`
}

type GSTR1Invoice struct {
	Inum   string      `json:"inum"`
	Idt    string      `json:"idt"`
	Val    Amount      `json:"val"`
	POS    string      `json:"pos,omitempty"`
	Rchrg  string      `json:"rchrg,omitempty"`
	InvTyp string      `json:"inv_typ,omitempty"`
	Itms   []GSTR1Item `json:"itms"`
}

type GSTR1Item struct {
	Num    int          `json:"num"`
	ItmDet GSTR1ItemDet `json:"itm_det"`
}

type GSTR1ItemDet struct {
	Txval Amount `json:"txval"`
	Rt    Amount `json:"rt"`
	Iamt  Amount `json:"iamt"`
	Camt  Amount `json:"camt"`
	Samt  Amount `json:"samt"`
	Csamt Amount `json:"csamt"`
}

type GSTR1B2CS struct {
	SplyTy string `json:"sply_ty"`
	POS    string `json:"pos"`
	Typ    string `json:"typ"`
	Rt     Amount `json:"rt"`
	Txval  Amount `json:"txval"`
	Iamt   Amount `json:"iamt"`
	Camt   Amount `json:"camt"`
	Samt   Amount `json:"samt"`
	Csamt  Amount `json:"csamt"`
}

type GSTR1CDNR struct {
	CTIN string      `json:"ctin"`
	Nt   []GSTR1Note `json:"nt"`
}

type GSTR1Note struct {
	Typ    string      `json:"typ,omitempty"`
	Ntty   string      `json:"ntty"`
	NtNum  string      `json:"nt_num"`
	NtDt   string      `json:"nt_dt"`
	Val    Amount      `json:"val"`
	POS    string      `json:"pos"`
	Rchrg  string      `json:"rchrg,omitempty"`
	InvTyp string      `json:"inv_typ,omitempty"`
	Itms   []GSTR1Item `json:"itms"`
}

type GSTR1EXP struct {
	ExpTyp string         `json:"exp_typ"`
	Inv    []GSTR1Invoice `json:"inv"`
}

type GSTR1Nil struct {
	Inv []GSTR1NilRow `json:"inv"`
}

type GSTR1NilRow struct {
	SplyTy   string `json:"sply_ty"`
	ExptAmt  Amount `json:"expt_amt"`
	NilAmt   Amount `json:"nil_amt"`
	NgsupAmt Amount `json:"ngsup_amt"`
}

type GSTR1HSN struct {
	Data []GSTR1HSNRow `json:"data"`
}

type GSTR1HSNRow struct {
	Num   int     `json:"num"`
	HsnSc string  `json:"hsn_sc"`
	Desc  *string `json:"desc"`
	UQC   string  `json:"uqc"`
	Qty   Amount  `json:"qty"`
	Val   Amount  `json:"val"`
	Txval Amount  `json:"txval"`
	Iamt  Amount  `json:"iamt"`
	Camt  Amount  `json:"camt"`
	Samt  Amount  `json:"samt"`
	Csamt Amount  `json:"csamt"`
}

// defaultUQC is reported for HSN rows without a unit, as the portal requires one.
const defaultUQC = "OTH"

// GSTR1 renders the outward-supply tables of an assembled return.
func GSTR1(r *domain.AssembledReturn) (*GSTR1Document, error) {
	gstin := gst.NormalizeGSTIN(r.BasicInfo.GSTIN)
	if gstin == "" {
		return nil, violation("gstr1", "gstin", "supplier GSTIN is required")
	}
	t := &r.GSTR1
	doc := &GSTR1Document{
		GSTIN: gstin,
		FP:    r.Period.FilingPeriod(),
		B2B:   make([]GSTR1B2B, 0, len(t.B2B)),
		B2CL:  make([]GSTR1B2CL, 0, len(t.B2CL)),
		B2CS:  make([]GSTR1B2CS, 0, len(t.B2CS)),
		CDNR:  make([]GSTR1CDNR, 0, len(t.CDNR)),
		CDNUR: make([]GSTR1Note, 0, len(t.CDNUR)),
		EXP:   []GSTR1EXP{},
		Nil:   GSTR1Nil{Inv: make([]GSTR1NilRow, 0, len(t.Nil))},
		HSN:   GSTR1HSN{Data: make([]GSTR1HSNRow, 0, len(r.HSNSummary))},
	}

	for i := range t.B2B {
		e := GSTR1B2B{CTIN: t.B2B[i].CounterpartyGSTIN}
		for j := range t.B2B[i].Invoices {
			e.Inv = append(e.Inv, gstr1Invoice(&t.B2B[i].Invoices[j], true))
		}
		doc.B2B = append(doc.B2B, e)
	}
	for i := range t.B2CL {
		e := GSTR1B2CL{POS: t.B2CL[i].PlaceOfSupply}
		for j := range t.B2CL[i].Invoices {
			inv := gstr1Invoice(&t.B2CL[i].Invoices[j], false)
			inv.POS = ""
			e.Inv = append(e.Inv, inv)
		}
		doc.B2CL = append(doc.B2CL, e)
	}
	for i := range t.B2CS {
		e := &t.B2CS[i]
		doc.B2CS = append(doc.B2CS, GSTR1B2CS{
			SplyTy: e.SupplyType,
			POS:    e.PlaceOfSupply,
			Typ:    "OE",
			Rt:     amt(e.Rate),
			Txval:  amt(e.TaxableValue),
			Iamt:   amt(e.IGST),
			Camt:   amt(e.CGST),
			Samt:   amt(e.SGST),
			Csamt:  amt(e.Cess),
		})
	}
	for i := range t.CDNR {
		e := GSTR1CDNR{CTIN: t.CDNR[i].CounterpartyGSTIN}
		for j := range t.CDNR[i].Invoices {
			n := gstr1Note(&t.CDNR[i].Invoices[j])
			n.Rchrg = yesNo(t.CDNR[i].Invoices[j].ReverseCharge)
			n.InvTyp = t.CDNR[i].Invoices[j].InvoiceType
			e.Nt = append(e.Nt, n)
		}
		doc.CDNR = append(doc.CDNR, e)
	}
	for i := range t.CDNUR {
		n := gstr1Note(&t.CDNUR[i])
		n.Typ = "B2CL"
		if t.CDNUR[i].ExportType != "" {
			n.Typ = "EXP" + t.CDNUR[i].ExportType
		}
		doc.CDNUR = append(doc.CDNUR, n)
	}

	byExpType := map[string][]GSTR1Invoice{}
	for i := range t.EXP {
		inv := gstr1Invoice(&t.EXP[i], false)
		inv.POS = ""
		byExpType[t.EXP[i].ExportType] = append(byExpType[t.EXP[i].ExportType], inv)
	}
	for typ, invs := range byExpType {
		doc.EXP = append(doc.EXP, GSTR1EXP{ExpTyp: typ, Inv: invs})
	}
	sort.Slice(doc.EXP, func(i, j int) bool { return doc.EXP[i].ExpTyp < doc.EXP[j].ExpTyp })

	for i := range t.Nil {
		doc.Nil.Inv = append(doc.Nil.Inv, GSTR1NilRow{
			SplyTy:   t.Nil[i].SupplyType,
			ExptAmt:  amt(t.Nil[i].Exempt),
			NilAmt:   amt(t.Nil[i].NilRated),
			NgsupAmt: amt(decimal.Zero),
		})
	}

	for i := range r.HSNSummary {
		row := &r.HSNSummary[i]
		uqc := row.UQC
		if uqc == "" {
			uqc = defaultUQC
		}
		doc.HSN.Data = append(doc.HSN.Data, GSTR1HSNRow{
			Num:   i + 1,
			HsnSc: row.HSNCode,
			Desc:  optString(row.Description),
			UQC:   uqc,
			Qty:   amt(row.TotalQuantity),
			Val:   amt(row.TotalValue),
			Txval: amt(row.TaxableValue),
			Iamt:  amt(row.IGST),
			Camt:  amt(row.CGST),
			Samt:  amt(row.SGST),
			Csamt: amt(row.Cess),
		})
	}
	return doc, nil
}

func gstr1Invoice(inv *domain.GSTR1Invoice, b2b bool) GSTR1Invoice {
	out := GSTR1Invoice{
		Inum: inv.Number,
		Idt:  inv.Date.Format(portalDateLayout),
		Val:  amt(inv.Value),
		POS:  inv.PlaceOfSupply,
		Itms: gstr1Items(inv.Items),
	}
	if b2b {
		out.Rchrg = yesNo(inv.ReverseCharge)
		out.InvTyp = inv.InvoiceType
	}
	return out
}

func gstr1Note(inv *domain.GSTR1Invoice) GSTR1Note {
	return GSTR1Note{
		Ntty:  inv.NoteType,
		NtNum: inv.Number,
		NtDt:  inv.Date.Format(portalDateLayout),
		Val:   amt(inv.Value),
		POS:   inv.PlaceOfSupply,
		Itms:  gstr1Items(inv.Items),
	}
}

// gstr1Items numbers items as rate*100+1, the convention the offline tool uses.
func gstr1Items(items []domain.RateItem) []GSTR1Item {
	out := make([]GSTR1Item, 0, len(items))
	for i := range items {
		it := &items[i]
		out = append(out, GSTR1Item{
			Num: int(it.Rate.Mul(hundred).IntPart()) + 1,
			ItmDet: GSTR1ItemDet{
				Txval: amt(it.TaxableValue),
				Rt:    amt(it.Rate),
				Iamt:  amt(it.IGST),
				Camt:  amt(it.CGST),
				Samt:  amt(it.SGST),
				Csamt: amt(it.Cess),
			},
		})
	}
	return out
}
