package gst

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"gstledger/internal/domain"
)

// DefaultB2CLThreshold is the invoice value above which an interstate B2C
// invoice is reported individually in table B2CL.
var DefaultB2CLThreshold = decimal.NewFromInt(100000)

// GSTR-1 supply type codes for B2CS and nil tables.
const (
	supplyIntra = "INTRA"
	supplyInter = "INTER"
)

// Invoice type codes used in B2B/CDNR rows.
const (
	InvoiceTypeRegular    = "R"
	InvoiceTypeSEZWithPay = "SEWP"
	InvoiceTypeSEZWithout = "SEWOP"
	ExportTypeWithPayment = "WPAY"
	ExportTypeWithoutPay  = "WOPAY"
	NoteTypeCredit        = "C"
	NoteTypeDebit         = "D"
)

// GSTR1Builder splits classified outward lines into the GSTR-1 tables.
type GSTR1Builder struct {
	B2CLThreshold decimal.Decimal
}

type invoiceAcc struct {
	inv   domain.GSTR1Invoice
	items map[string]*domain.RateItem
}

type gstr1Acc struct {
	b2b   map[string]map[string]*invoiceAcc
	cdnr  map[string]map[string]*invoiceAcc
	b2cl  map[string]map[string]*invoiceAcc
	cdnur map[string]*invoiceAcc
	exp   map[string]*invoiceAcc
	b2cs  map[string]*domain.B2CSEntry
	nils  map[string]*domain.NilEntry
}

// Build produces the tables. classifications must be indexed like lines.
// Inward lines are ignored. Note amounts are reported as positive values
// with a note type, as the portal expects.
func (b GSTR1Builder) Build(lines []domain.TaxLine, classifications []domain.Classification) domain.GSTR1Tables {
	threshold := b.B2CLThreshold
	if !threshold.IsPositive() {
		threshold = DefaultB2CLThreshold
	}
	acc := &gstr1Acc{
		b2b:   map[string]map[string]*invoiceAcc{},
		cdnr:  map[string]map[string]*invoiceAcc{},
		b2cl:  map[string]map[string]*invoiceAcc{},
		cdnur: map[string]*invoiceAcc{},
		exp:   map[string]*invoiceAcc{},
		b2cs:  map[string]*domain.B2CSEntry{},
		nils:  map[string]*domain.NilEntry{},
	}

	for i := range lines {
		line := &lines[i]
		if line.Direction == domain.DirectionInward || line.VoucherType == domain.VoucherTypePurchase {
			continue
		}
		cls := domain.DefaultClassification
		if i < len(classifications) {
			cls = classifications[i]
		}
		pos := placeOfSupply(line)
		ctin := NormalizeGSTIN(line.GSTIN())

		switch {
		case cls.Supply == domain.SupplyNilRated || cls.Supply == domain.SupplyExempt:
			acc.addNil(line, cls)
		case line.VoucherType.IsNote() && cls.Registered():
			acc.addInvoice(grouped(acc.cdnr, ctin), line, cls, pos)
		case line.VoucherType.IsNote() && (cls.Supply == domain.SupplyZeroRated || isLarge(line, cls, threshold)):
			acc.addInvoice(acc.cdnur, line, cls, pos)
		case cls.Registered():
			acc.addInvoice(grouped(acc.b2b, ctin), line, cls, pos)
		case cls.Supply == domain.SupplyZeroRated:
			acc.addInvoice(acc.exp, line, cls, pos)
		case isLarge(line, cls, threshold):
			acc.addInvoice(grouped(acc.b2cl, pos), line, cls, pos)
		default:
			acc.addB2CS(line, cls, pos)
		}
	}

	return acc.tables()
}

// isLarge reports an interstate B2C document above the B2CL threshold.
// Unregistered notes below it net into B2CS with their negative figures.
func isLarge(line *domain.TaxLine, cls domain.Classification, threshold decimal.Decimal) bool {
	return cls.Interstate() && line.VoucherTotal.Abs().GreaterThan(threshold)
}

func grouped(m map[string]map[string]*invoiceAcc, key string) map[string]*invoiceAcc {
	inner, ok := m[key]
	if !ok {
		inner = map[string]*invoiceAcc{}
		m[key] = inner
	}
	return inner
}

// placeOfSupply is the state code of the place of supply, falling back to
// the party state.
func placeOfSupply(line *domain.TaxLine) string {
	for _, s := range []string{line.PlaceOfSupply, line.PartyState} {
		if code, ok := StateCode(s); ok {
			return code
		}
	}
	return ""
}

func invoiceKey(line *domain.TaxLine) string {
	return line.VoucherID.String() + "|" + line.VoucherNumber
}

func (a *gstr1Acc) addInvoice(m map[string]*invoiceAcc, line *domain.TaxLine, cls domain.Classification, pos string) {
	key := invoiceKey(line)
	ia, ok := m[key]
	if !ok {
		ia = &invoiceAcc{
			inv: domain.GSTR1Invoice{
				VoucherID:     line.VoucherID,
				Number:        line.VoucherNumber,
				Date:          line.VoucherDate,
				Value:         line.VoucherTotal.Abs(),
				PlaceOfSupply: pos,
				ReverseCharge: line.ReverseCharge,
				InvoiceType:   invoiceType(line, cls),
			},
			items: map[string]*domain.RateItem{},
		}
		switch line.VoucherType {
		case domain.VoucherTypeCreditNote:
			ia.inv.NoteType = NoteTypeCredit
		case domain.VoucherTypeDebitNote:
			ia.inv.NoteType = NoteTypeDebit
		}
		if cls.Supply == domain.SupplyZeroRated && !cls.Registered() {
			ia.inv.ExportType = ExportTypeWithoutPay
			if line.IGSTAmount.IsPositive() {
				ia.inv.ExportType = ExportTypeWithPayment
			}
		}
		m[key] = ia
	}
	rate := line.GSTRate().Round(RatePlaces)
	rk := rate.StringFixed(RatePlaces)
	item, ok := ia.items[rk]
	if !ok {
		item = &domain.RateItem{Rate: rate}
		ia.items[rk] = item
	}
	item.TaxFigures = item.TaxFigures.Add(absFigures(line.Figures()))
}

func invoiceType(line *domain.TaxLine, cls domain.Classification) string {
	if cls.Supply != domain.SupplyZeroRated {
		return InvoiceTypeRegular
	}
	if line.IGSTAmount.IsPositive() {
		return InvoiceTypeSEZWithPay
	}
	return InvoiceTypeSEZWithout
}

func (a *gstr1Acc) addB2CS(line *domain.TaxLine, cls domain.Classification, pos string) {
	sply := supplyIntra
	if cls.Interstate() {
		sply = supplyInter
	}
	rate := line.GSTRate().Round(RatePlaces)
	key := sply + "|" + pos + "|" + rate.StringFixed(RatePlaces)
	e, ok := a.b2cs[key]
	if !ok {
		e = &domain.B2CSEntry{SupplyType: sply, PlaceOfSupply: pos, Rate: rate}
		a.b2cs[key] = e
	}
	e.TaxFigures = e.TaxFigures.Add(line.Figures())
}

func (a *gstr1Acc) addNil(line *domain.TaxLine, cls domain.Classification) {
	var sb strings.Builder
	if cls.Interstate() {
		sb.WriteString("INTR")
	} else {
		sb.WriteString("INTRA")
	}
	if cls.Registered() {
		sb.WriteString("B2B")
	} else {
		sb.WriteString("B2C")
	}
	key := sb.String()
	e, ok := a.nils[key]
	if !ok {
		e = &domain.NilEntry{SupplyType: key}
		a.nils[key] = e
	}
	if cls.Supply == domain.SupplyNilRated {
		e.NilRated = e.NilRated.Add(line.TaxableValue)
	} else {
		e.Exempt = e.Exempt.Add(line.TaxableValue)
	}
}

func absFigures(f domain.TaxFigures) domain.TaxFigures {
	return domain.TaxFigures{
		TaxableValue: f.TaxableValue.Abs(),
		IGST:         f.IGST.Abs(),
		CGST:         f.CGST.Abs(),
		SGST:         f.SGST.Abs(),
		Cess:         f.Cess.Abs(),
	}
}

func (a *gstr1Acc) tables() domain.GSTR1Tables {
	t := domain.GSTR1Tables{
		B2B:   partyEntries(a.b2b),
		CDNR:  partyEntries(a.cdnr),
		B2CL:  []domain.B2CLEntry{},
		B2CS:  []domain.B2CSEntry{},
		CDNUR: flatten(a.cdnur),
		EXP:   flatten(a.exp),
		Nil:   []domain.NilEntry{},
	}
	for pos, invs := range a.b2cl {
		t.B2CL = append(t.B2CL, domain.B2CLEntry{PlaceOfSupply: pos, Invoices: flatten(invs)})
	}
	sort.Slice(t.B2CL, func(i, j int) bool { return t.B2CL[i].PlaceOfSupply < t.B2CL[j].PlaceOfSupply })

	for _, e := range a.b2cs {
		t.B2CS = append(t.B2CS, *e)
	}
	sort.Slice(t.B2CS, func(i, j int) bool {
		x, y := t.B2CS[i], t.B2CS[j]
		if x.SupplyType != y.SupplyType {
			return x.SupplyType < y.SupplyType
		}
		if x.PlaceOfSupply != y.PlaceOfSupply {
			return x.PlaceOfSupply < y.PlaceOfSupply
		}
		return x.Rate.LessThan(y.Rate)
	})

	for _, e := range a.nils {
		t.Nil = append(t.Nil, *e)
	}
	sort.Slice(t.Nil, func(i, j int) bool { return t.Nil[i].SupplyType < t.Nil[j].SupplyType })
	return t
}

func partyEntries(m map[string]map[string]*invoiceAcc) []domain.B2BEntry {
	out := make([]domain.B2BEntry, 0, len(m))
	for ctin, invs := range m {
		out = append(out, domain.B2BEntry{CounterpartyGSTIN: ctin, Invoices: flatten(invs)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CounterpartyGSTIN < out[j].CounterpartyGSTIN })
	return out
}

func flatten(m map[string]*invoiceAcc) []domain.GSTR1Invoice {
	out := make([]domain.GSTR1Invoice, 0, len(m))
	for _, ia := range m {
		inv := ia.inv
		inv.Items = make([]domain.RateItem, 0, len(ia.items))
		for _, item := range ia.items {
			inv.Items = append(inv.Items, *item)
		}
		sort.Slice(inv.Items, func(i, j int) bool { return inv.Items[i].Rate.LessThan(inv.Items[j].Rate) })
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Number < out[j].Number
	})
	return out
}
