package export

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"gstledger/internal/domain"
	"gstledger/internal/gst"
)

// DefaultEInvoiceVersion is the IRP schema version emitted when none is configured.
const DefaultEInvoiceVersion = "1.1"

// EInvoiceOptions controls optional parts of the e-invoice document.
type EInvoiceOptions struct {
	Version string
	// GenerateEWB adds the EwbDtls block; Transport must then be set.
	GenerateEWB bool
	Transport   *domain.TransportDetails
}

// EInvoiceDocument is the IRP e-invoice JSON. Key names are fixed by the schema.
type EInvoiceDocument struct {
	Version    string         `json:"Version"`
	TranDtls   TranDtls       `json:"TranDtls"`
	DocDtls    DocDtls        `json:"DocDtls"`
	SellerDtls PartyDtls      `json:"SellerDtls"`
	BuyerDtls  PartyDtls      `json:"BuyerDtls"`
	ShipToDtls *PartyDtls     `json:"ShipToDtls"`
	ItemList   []EInvoiceItem `json:"ItemList"`
	ValDtls    ValDtls        `json:"ValDtls"`
	EwbDtls    *EwbDtls       `json:"EwbDtls,omitempty"`
}

type TranDtls struct {
	TaxSch      string  `json:"TaxSch"`
	SupTyp      string  `json:"SupTyp"`
	RegRev      string  `json:"RegRev"`
	EcmGstin    *string `json:"EcmGstin"`
	IgstOnIntra string  `json:"IgstOnIntra"`
}

type DocDtls struct {
	Typ string `json:"Typ"`
	No  string `json:"No"`
	Dt  string `json:"Dt"`
}

// PartyDtls serves seller, buyer and ship-to blocks. Pos is only set for the buyer.
type PartyDtls struct {
	Gstin string  `json:"Gstin"`
	LglNm string  `json:"LglNm"`
	TrdNm *string `json:"TrdNm"`
	Pos   string  `json:"Pos,omitempty"`
	Addr1 string  `json:"Addr1"`
	Addr2 *string `json:"Addr2"`
	Loc   string  `json:"Loc"`
	Pin   *int    `json:"Pin"`
	Stcd  string  `json:"Stcd"`
	Ph    *string `json:"Ph"`
	Em    *string `json:"Em"`
}

type EInvoiceItem struct {
	SlNo       string  `json:"SlNo"`
	PrdDesc    *string `json:"PrdDesc"`
	IsServc    string  `json:"IsServc"`
	HsnCd      string  `json:"HsnCd"`
	Qty        Amount  `json:"Qty"`
	Unit       *string `json:"Unit"`
	UnitPrice  Amount  `json:"UnitPrice"`
	TotAmt     Amount  `json:"TotAmt"`
	Discount   Amount  `json:"Discount"`
	AssAmt     Amount  `json:"AssAmt"`
	GstRt      Amount  `json:"GstRt"`
	IgstAmt    Amount  `json:"IgstAmt"`
	CgstAmt    Amount  `json:"CgstAmt"`
	SgstAmt    Amount  `json:"SgstAmt"`
	CesRt      Amount  `json:"CesRt"`
	CesAmt     Amount  `json:"CesAmt"`
	TotItemVal Amount  `json:"TotItemVal"`
}

type ValDtls struct {
	AssVal    Amount `json:"AssVal"`
	CgstVal   Amount `json:"CgstVal"`
	SgstVal   Amount `json:"SgstVal"`
	IgstVal   Amount `json:"IgstVal"`
	CesVal    Amount `json:"CesVal"`
	Discount  Amount `json:"Discount"`
	OthChrg   Amount `json:"OthChrg"`
	RndOffAmt Amount `json:"RndOffAmt"`
	TotInvVal Amount `json:"TotInvVal"`
}

type EwbDtls struct {
	TransID    *string `json:"TransId"`
	TransName  *string `json:"TransName"`
	Distance   int     `json:"Distance"`
	TransDocNo *string `json:"TransDocNo"`
	TransDocDt *string `json:"TransDocDt"`
	VehNo      *string `json:"VehNo"`
	VehType    *string `json:"VehType"`
	TransMode  *string `json:"TransMode"`
}

const (
	exportStateCode = "96"
	urpGSTIN        = "URP"
	irpDateLayout   = "02/01/2006"
)

var hundred = decimal.NewFromInt(100)

// EInvoice renders a voucher as an IRP e-invoice. Required fields that
// cannot be populated fail with a *domain.SchemaViolationError rather than
// producing a document the portal would reject.
func EInvoice(v *domain.Voucher, seller *domain.Company, opts EInvoiceOptions) (*EInvoiceDocument, error) {
	sellerGSTIN := gst.NormalizeGSTIN(seller.GSTIN)
	if sellerGSTIN == "" {
		return nil, violation("einvoice", "SellerDtls.Gstin", "supplier GSTIN is required")
	}
	if !gst.ValidGSTIN(sellerGSTIN) {
		return nil, violation("einvoice", "SellerDtls.Gstin", "supplier GSTIN is malformed")
	}
	sellerState, ok := gst.StateCode(seller.State)
	if !ok {
		sellerState, _ = gst.GSTINStateCode(sellerGSTIN)
	}
	if strings.TrimSpace(v.Number) == "" {
		return nil, violation("einvoice", "DocDtls.No", "document number is required")
	}
	docType, ok := docTypes[v.Type]
	if !ok {
		return nil, violation("einvoice", "DocDtls.Typ", "voucher type "+string(v.Type)+" cannot be e-invoiced")
	}
	if len(v.Items) == 0 {
		return nil, violation("einvoice", "ItemList", "at least one item is required")
	}

	buyer, err := buyerDtls(v)
	if err != nil {
		return nil, err
	}

	version := opts.Version
	if version == "" {
		version = DefaultEInvoiceVersion
	}
	doc := &EInvoiceDocument{
		Version: version,
		TranDtls: TranDtls{
			TaxSch:      "GST",
			SupTyp:      supplyType(v),
			RegRev:      yesNo(v.ReverseCharge),
			IgstOnIntra: "N",
		},
		DocDtls: DocDtls{
			Typ: docType,
			No:  strings.TrimSpace(v.Number),
			Dt:  v.Date.Format(irpDateLayout),
		},
		SellerDtls: PartyDtls{
			Gstin: sellerGSTIN,
			LglNm: seller.LegalName,
			TrdNm: optString(seller.TradeName),
			Addr1: seller.Address1,
			Addr2: optString(seller.Address2),
			Loc:   seller.Location,
			Pin:   pin(seller.Pin),
			Stcd:  sellerState,
			Ph:    optString(seller.Phone),
			Em:    optString(seller.Email),
		},
		BuyerDtls: buyer,
	}
	if v.ShipTo != nil {
		ship := partyDtls(v.ShipTo, v.ExportOrSEZ)
		doc.ShipToDtls = &ship
	}

	interstate := buyer.Pos != sellerState
	var totals struct {
		ass, cgst, sgst, igst, cess decimal.Decimal
	}
	for i := range v.Items {
		item := itemRow(i+1, &v.Items[i], interstate, v.ExportOrSEZ)
		doc.ItemList = append(doc.ItemList, item)
		totals.ass = totals.ass.Add(item.AssAmt.Decimal())
		totals.cgst = totals.cgst.Add(item.CgstAmt.Decimal())
		totals.sgst = totals.sgst.Add(item.SgstAmt.Decimal())
		totals.igst = totals.igst.Add(item.IgstAmt.Decimal())
		totals.cess = totals.cess.Add(item.CesAmt.Decimal())
	}
	other := v.OtherCharges.Round(2)
	roundOff := v.RoundOff.Round(2)
	doc.ValDtls = ValDtls{
		AssVal:    amt(totals.ass),
		CgstVal:   amt(totals.cgst),
		SgstVal:   amt(totals.sgst),
		IgstVal:   amt(totals.igst),
		CesVal:    amt(totals.cess),
		Discount:  amt(decimal.Zero),
		OthChrg:   amt(other),
		RndOffAmt: amt(roundOff),
		TotInvVal: amt(totals.ass.Add(totals.cgst).Add(totals.sgst).Add(totals.igst).Add(totals.cess).Add(other).Add(roundOff)),
	}

	if opts.GenerateEWB {
		if opts.Transport == nil {
			return nil, violation("einvoice", "EwbDtls", "transport details are required to generate an e-way bill")
		}
		doc.EwbDtls = ewbDtls(opts.Transport)
	}
	return doc, nil
}

var docTypes = map[domain.VoucherType]string{
	domain.VoucherTypeSales:      "INV",
	domain.VoucherTypeCreditNote: "CRN",
	domain.VoucherTypeDebitNote:  "DBN",
}

func supplyType(v *domain.Voucher) string {
	if !v.ExportOrSEZ {
		return "B2B"
	}
	withPayment := false
	for i := range v.Items {
		if v.Items[i].GSTRate.IsPositive() {
			withPayment = true
			break
		}
	}
	prefix := "EXP"
	if gst.NormalizeGSTIN(v.Buyer.GSTIN) != "" {
		prefix = "SEZ"
	}
	if withPayment {
		return prefix + "WP"
	}
	return prefix + "WOP"
}

func buyerDtls(v *domain.Voucher) (PartyDtls, error) {
	b := partyDtls(&v.Buyer, v.ExportOrSEZ)
	if b.Gstin == "" {
		if !v.ExportOrSEZ {
			return b, violation("einvoice", "BuyerDtls.Gstin", "buyer GSTIN is required for a B2B e-invoice")
		}
		b.Gstin = urpGSTIN
	}
	if b.Stcd == "" {
		return b, violation("einvoice", "BuyerDtls.Stcd", "buyer state "+strings.TrimSpace(v.Buyer.State)+" is not a known state")
	}
	b.Pos = b.Stcd
	if v.ShipTo != nil && !v.ExportOrSEZ {
		if code, ok := gst.StateCode(v.ShipTo.State); ok {
			b.Pos = code
		}
	}
	return b, nil
}

func partyDtls(p *domain.Party, export bool) PartyDtls {
	d := PartyDtls{
		Gstin: gst.NormalizeGSTIN(p.GSTIN),
		LglNm: p.Name,
		Addr1: p.Address1,
		Addr2: optString(p.Address2),
		Loc:   p.Location,
		Pin:   pin(p.Pin),
		Ph:    optString(p.Phone),
		Em:    optString(p.Email),
	}
	switch code, ok := gst.StateCode(p.State); {
	case export && d.Gstin == "":
		d.Stcd = exportStateCode
	case ok:
		d.Stcd = code
	default:
		d.Stcd, _ = gst.GSTINStateCode(d.Gstin)
	}
	return d
}

// itemRow computes an item's amounts: TotAmt = UnitPrice x Qty and
// AssAmt = TotAmt - Discount. Exports without payment carry no tax.
func itemRow(n int, it *domain.VoucherItem, interstate, export bool) EInvoiceItem {
	total := it.UnitPrice.Mul(it.Quantity).Round(2)
	discount := it.Discount.Round(2)
	ass := total.Sub(discount)

	var igst, cgst, sgst decimal.Decimal
	tax := ass.Mul(it.GSTRate).Div(hundred)
	switch {
	case interstate || export:
		igst = tax.Round(2)
	default:
		cgst = tax.Div(decimal.NewFromInt(2)).Round(2)
		sgst = cgst
	}
	cess := ass.Mul(it.CessRate).Div(hundred).Round(2)

	return EInvoiceItem{
		SlNo:       strconv.Itoa(n),
		PrdDesc:    optString(it.Description),
		IsServc:    yesNo(it.IsService),
		HsnCd:      strings.TrimSpace(it.HSNCode),
		Qty:        amt(it.Quantity),
		Unit:       optString(strings.ToUpper(it.Unit)),
		UnitPrice:  amt(it.UnitPrice),
		TotAmt:     amt(total),
		Discount:   amt(discount),
		AssAmt:     amt(ass),
		GstRt:      amt(it.GSTRate),
		IgstAmt:    amt(igst),
		CgstAmt:    amt(cgst),
		SgstAmt:    amt(sgst),
		CesRt:      amt(it.CessRate),
		CesAmt:     amt(cess),
		TotItemVal: amt(ass.Add(igst).Add(cgst).Add(sgst).Add(cess)),
	}
}

func ewbDtls(t *domain.TransportDetails) *EwbDtls {
	e := &EwbDtls{
		TransID:    optString(t.TransporterID),
		TransName:  optString(t.TransporterName),
		Distance:   t.Distance,
		TransDocNo: optString(t.TransDocNo),
		VehNo:      optString(t.VehicleNo),
		VehType:    optString(t.VehicleType),
		TransMode:  optString(t.TransMode),
	}
	if t.TransDocDate != nil {
		e.TransDocDt = optString(t.TransDocDate.Format(irpDateLayout))
	}
	return e
}

func pin(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}

func violation(document, field, reason string) error {
	return &domain.SchemaViolationError{Document: document, Field: field, Reason: reason}
}
