package export

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstledger/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var seller = domain.Company{
	ID:        uuid.MustParse("6c1f1c64-1d0e-4f54-9c1f-8f0c8d0b2a11"),
	GSTIN:     "27AAACR5055K1Z5",
	LegalName: "Rama Steels Pvt Ltd",
	Address1:  "Plot 4, MIDC",
	Location:  "Pune",
	Pin:       "411019",
	State:     "Maharashtra",
}

func zeroRatedVoucher() *domain.Voucher {
	return &domain.Voucher{
		ID:     uuid.New(),
		Number: "INV-0042",
		Date:   time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
		Type:   domain.VoucherTypeSales,
		Buyer: domain.Party{
			Name:     "Acme Traders",
			GSTIN:    "27ABCDE1234F1Z5",
			Address1: "12 Market Road",
			Location: "Mumbai",
			Pin:      "400001",
			State:    "Maharashtra",
		},
		Items: []domain.VoucherItem{{
			Description: "Consulting",
			HSNCode:     "998311",
			IsService:   true,
			Quantity:    dec("2"),
			Unit:        "nos",
			UnitPrice:   dec("1000"),
		}},
	}
}

func TestEInvoice_AssessableValue(t *testing.T) {
	doc, err := EInvoice(zeroRatedVoucher(), &seller, EInvoiceOptions{})
	require.NoError(t, err)

	assert.Equal(t, "1.1", doc.Version)
	assert.Equal(t, "INV", doc.DocDtls.Typ)
	assert.Equal(t, "15/07/2024", doc.DocDtls.Dt)
	require.Len(t, doc.ItemList, 1)
	assert.True(t, doc.ItemList[0].TotAmt.Decimal().Equal(dec("2000")))
	assert.True(t, doc.ItemList[0].AssAmt.Decimal().Equal(dec("2000")))
	assert.True(t, doc.ValDtls.AssVal.Decimal().Equal(dec("2000")))
	assert.True(t, doc.ValDtls.TotInvVal.Decimal().Equal(dec("2000")))

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	val := generic["ValDtls"].(map[string]any)
	assert.Equal(t, 2000.0, val["AssVal"])
	assert.Contains(t, string(raw), `"AssVal":2000.00`)
	assert.Contains(t, string(raw), `"TotInvVal":2000.00`)
}

func TestEInvoice_NullsAndOmittedEwb(t *testing.T) {
	doc, err := EInvoice(zeroRatedVoucher(), &seller, EInvoiceOptions{})
	require.NoError(t, err)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))

	_, hasEwb := generic["EwbDtls"]
	assert.False(t, hasEwb)
	shipTo, hasShipTo := generic["ShipToDtls"]
	assert.True(t, hasShipTo)
	assert.Nil(t, shipTo)

	sellerDtls := generic["SellerDtls"].(map[string]any)
	assert.Nil(t, sellerDtls["TrdNm"])
	assert.Nil(t, sellerDtls["Addr2"])
	assert.Equal(t, 411019.0, sellerDtls["Pin"])
	assert.Equal(t, "27", sellerDtls["Stcd"])

	tran := generic["TranDtls"].(map[string]any)
	assert.Nil(t, tran["EcmGstin"])
	assert.Equal(t, "B2B", tran["SupTyp"])
}

func TestEInvoice_TaxSplit(t *testing.T) {
	v := zeroRatedVoucher()
	v.Items[0].GSTRate = dec("18")

	doc, err := EInvoice(v, &seller, EInvoiceOptions{})
	require.NoError(t, err)
	item := doc.ItemList[0]
	assert.True(t, item.CgstAmt.Decimal().Equal(dec("180")))
	assert.True(t, item.SgstAmt.Decimal().Equal(dec("180")))
	assert.True(t, item.IgstAmt.Decimal().IsZero())
	assert.True(t, doc.ValDtls.TotInvVal.Decimal().Equal(dec("2360")))

	v.Buyer.GSTIN = "29ABCDE1234F1Z5"
	v.Buyer.State = "Karnataka"
	doc, err = EInvoice(v, &seller, EInvoiceOptions{})
	require.NoError(t, err)
	item = doc.ItemList[0]
	assert.True(t, item.IgstAmt.Decimal().Equal(dec("360")))
	assert.True(t, item.CgstAmt.Decimal().IsZero())
	assert.Equal(t, "29", doc.BuyerDtls.Pos)
}

func TestEInvoice_Discount(t *testing.T) {
	v := zeroRatedVoucher()
	v.Items[0].Discount = dec("100")
	v.OtherCharges = dec("50")

	doc, err := EInvoice(v, &seller, EInvoiceOptions{})
	require.NoError(t, err)
	assert.True(t, doc.ItemList[0].AssAmt.Decimal().Equal(dec("1900")))
	assert.True(t, doc.ValDtls.AssVal.Decimal().Equal(dec("1900")))
	assert.True(t, doc.ValDtls.TotInvVal.Decimal().Equal(dec("1950")))
}

func TestEInvoice_ExportUnregisteredBuyer(t *testing.T) {
	v := zeroRatedVoucher()
	v.ExportOrSEZ = true
	v.Buyer.GSTIN = ""
	v.Buyer.State = ""

	doc, err := EInvoice(v, &seller, EInvoiceOptions{})
	require.NoError(t, err)
	assert.Equal(t, "URP", doc.BuyerDtls.Gstin)
	assert.Equal(t, "96", doc.BuyerDtls.Stcd)
	assert.Equal(t, "EXPWOP", doc.TranDtls.SupTyp)
}

func TestEInvoice_EwbDtls(t *testing.T) {
	v := zeroRatedVoucher()

	_, err := EInvoice(v, &seller, EInvoiceOptions{GenerateEWB: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrExportSchemaViolation))

	docDate := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	doc, err := EInvoice(v, &seller, EInvoiceOptions{
		GenerateEWB: true,
		Transport: &domain.TransportDetails{
			TransporterID: "27AAACT1234K1Z2",
			Distance:      120,
			TransDocDate:  &docDate,
			VehicleNo:     "MH12AB1234",
			TransMode:     "1",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, doc.EwbDtls)
	assert.Equal(t, 120, doc.EwbDtls.Distance)
	require.NotNil(t, doc.EwbDtls.TransDocDt)
	assert.Equal(t, "15/07/2024", *doc.EwbDtls.TransDocDt)
	assert.Nil(t, doc.EwbDtls.TransName)
}

func TestEInvoice_SchemaViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(v *domain.Voucher, c *domain.Company)
		field  string
	}{
		{"missing seller gstin", func(_ *domain.Voucher, c *domain.Company) { c.GSTIN = "" }, "SellerDtls.Gstin"},
		{"malformed seller gstin", func(_ *domain.Voucher, c *domain.Company) { c.GSTIN = "27AAACR5055K" }, "SellerDtls.Gstin"},
		{"missing document number", func(v *domain.Voucher, _ *domain.Company) { v.Number = " " }, "DocDtls.No"},
		{"purchase voucher", func(v *domain.Voucher, _ *domain.Company) { v.Type = domain.VoucherTypePurchase }, "DocDtls.Typ"},
		{"no items", func(v *domain.Voucher, _ *domain.Company) { v.Items = nil }, "ItemList"},
		{"missing buyer gstin", func(v *domain.Voucher, _ *domain.Company) { v.Buyer.GSTIN = "" }, "BuyerDtls.Gstin"},
		{"unknown buyer state", func(v *domain.Voucher, _ *domain.Company) {
			v.Buyer.GSTIN = "99ABCDE1234F1Z5"
			v.Buyer.State = "Atlantis"
		}, "BuyerDtls.Stcd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := zeroRatedVoucher()
			c := seller
			tt.mutate(v, &c)

			doc, err := EInvoice(v, &c, EInvoiceOptions{})
			require.Error(t, err)
			assert.Nil(t, doc)
			var sv *domain.SchemaViolationError
			require.True(t, errors.As(err, &sv))
			assert.Equal(t, tt.field, sv.Field)
			assert.True(t, errors.Is(err, domain.ErrExportSchemaViolation))
		})
	}
}

func TestEInvoice_CreditNote(t *testing.T) {
	v := zeroRatedVoucher()
	v.Type = domain.VoucherTypeCreditNote
	doc, err := EInvoice(v, &seller, EInvoiceOptions{Version: "1.03"})
	require.NoError(t, err)
	assert.Equal(t, "CRN", doc.DocDtls.Typ)
	assert.Equal(t, "1.03", doc.Version)
}

func TestAmount_MarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2000", "2000.00"},
		{"0", "0.00"},
		{"12.345", "12.35"},
		{"-4.5", "-4.50"},
	}
	for _, tt := range tests {
		b, err := json.Marshal(amt(dec(tt.in)))
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(b))
	}

	var a Amount
	require.NoError(t, json.Unmarshal([]byte("18.50"), &a))
	assert.True(t, a.Decimal().Equal(dec("18.5")))
}
