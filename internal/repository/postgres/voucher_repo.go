package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"gstledger/internal/domain"
	"gstledger/internal/port"
	"gstledger/internal/voucher"
)

type voucherRepo struct {
	db *sqlx.DB
}

// NewVoucherRepo creates a new PostgreSQL-backed VoucherSource.
func NewVoucherRepo(db *sqlx.DB) port.VoucherSource {
	return &voucherRepo{db: db}
}

// taxLineQuery reads one row per voucher line. Vouchers without line rows
// come back once with a NULL line_no and their voucher-level amounts.
const taxLineQuery = `SELECT v.id AS voucher_id, v.voucher_number, v.voucher_type, v.voucher_date,
		v.total AS voucher_total, v.reverse_charge, v.export_or_sez, c.state AS supplier_state,
		v.place_of_supply, v.party_name, v.customer_name, v.gstin, v.party_gstin, v.state, v.party_state,
		l.line_no, l.hsn, l.hsn_code, l.description, l.quantity, l.uqc, l.tax_type,
		CASE WHEN l.id IS NULL THEN v.taxable_value ELSE l.taxable_value END AS taxable_value,
		l.cgst_rate, l.sgst_rate, l.igst_rate,
		CASE WHEN l.id IS NULL THEN v.cgst_amount ELSE l.cgst_amount END AS cgst_amount,
		CASE WHEN l.id IS NULL THEN v.sgst_amount ELSE l.sgst_amount END AS sgst_amount,
		CASE WHEN l.id IS NULL THEN v.igst_amount ELSE l.igst_amount END AS igst_amount,
		CASE WHEN l.id IS NULL THEN v.cess_amount ELSE l.cess_amount END AS cess_amount
	FROM vouchers v
	JOIN companies c ON c.id = v.company_id
	LEFT JOIN voucher_lines l ON l.voucher_id = v.id
	WHERE v.company_id = $1 AND c.owner_type = $2 AND c.owner_id = $3
	  AND v.voucher_date BETWEEN $4 AND $5
	ORDER BY v.voucher_date, v.voucher_number, l.line_no`

func (r *voucherRepo) GetTaxLines(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod) ([]domain.TaxLine, []domain.Warning, error) {
	start, end := period.Bounds()
	var rows []voucher.RawLine
	err := r.db.SelectContext(ctx, &rows, taxLineQuery,
		tenant.CompanyID, string(tenant.OwnerType), tenant.OwnerID, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("voucherRepo.GetTaxLines: %w", err)
	}
	lines, warnings := voucher.Normalize(rows)
	return lines, warnings, nil
}

type voucherHeader struct {
	ID            uuid.UUID       `db:"id"`
	CompanyID     uuid.UUID       `db:"company_id"`
	Number        string          `db:"voucher_number"`
	Type          string          `db:"voucher_type"`
	Date          time.Time       `db:"voucher_date"`
	PartyName     sql.NullString  `db:"party_name"`
	CustomerName  sql.NullString  `db:"customer_name"`
	PartyGSTIN    sql.NullString  `db:"party_gstin"`
	GSTIN         sql.NullString  `db:"gstin"`
	PartyState    sql.NullString  `db:"party_state"`
	State         sql.NullString  `db:"state"`
	Address1      string          `db:"buyer_address1"`
	Address2      string          `db:"buyer_address2"`
	Location      string          `db:"buyer_location"`
	Pin           string          `db:"buyer_pin"`
	Phone         string          `db:"buyer_phone"`
	Email         string          `db:"buyer_email"`
	ShipTo        []byte          `db:"ship_to"`
	ReverseCharge bool            `db:"reverse_charge"`
	ExportOrSEZ   bool            `db:"export_or_sez"`
	OtherCharges  decimal.Decimal `db:"other_charges"`
	RoundOff      decimal.Decimal `db:"round_off"`
	Total         decimal.Decimal `db:"total"`
}

type voucherItemRow struct {
	Description sql.NullString      `db:"description"`
	HSNCode     sql.NullString      `db:"hsn_code"`
	HSN         sql.NullString      `db:"hsn"`
	IsService   bool                `db:"is_service"`
	Quantity    decimal.NullDecimal `db:"quantity"`
	UQC         sql.NullString      `db:"uqc"`
	UnitPrice   decimal.NullDecimal `db:"unit_price"`
	Discount    decimal.NullDecimal `db:"discount"`
	CGSTRate    decimal.NullDecimal `db:"cgst_rate"`
	SGSTRate    decimal.NullDecimal `db:"sgst_rate"`
	IGSTRate    decimal.NullDecimal `db:"igst_rate"`
	CessRate    decimal.NullDecimal `db:"cess_rate"`
}

func (r *voucherRepo) GetVoucher(ctx context.Context, tenant domain.TenantContext, voucherID uuid.UUID) (*domain.Voucher, error) {
	var h voucherHeader
	err := r.db.GetContext(ctx, &h,
		`SELECT v.id, v.company_id, v.voucher_number, v.voucher_type, v.voucher_date,
			v.party_name, v.customer_name, v.party_gstin, v.gstin, v.party_state, v.state,
			v.buyer_address1, v.buyer_address2, v.buyer_location, v.buyer_pin, v.buyer_phone, v.buyer_email,
			v.ship_to, v.reverse_charge, v.export_or_sez, v.other_charges, v.round_off, v.total
		 FROM vouchers v
		 JOIN companies c ON c.id = v.company_id
		 WHERE v.id = $1 AND v.company_id = $2 AND c.owner_type = $3 AND c.owner_id = $4`,
		voucherID, tenant.CompanyID, string(tenant.OwnerType), tenant.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVoucherNotFound
		}
		return nil, fmt.Errorf("voucherRepo.GetVoucher: %w", err)
	}

	var items []voucherItemRow
	err = r.db.SelectContext(ctx, &items,
		`SELECT description, hsn_code, hsn, is_service, quantity, uqc, unit_price, discount,
			cgst_rate, sgst_rate, igst_rate, cess_rate
		 FROM voucher_lines WHERE voucher_id = $1 ORDER BY line_no`, voucherID)
	if err != nil {
		return nil, fmt.Errorf("voucherRepo.GetVoucher items: %w", err)
	}

	vt, _ := voucher.ParseVoucherType(h.Type)
	v := &domain.Voucher{
		ID:        h.ID,
		CompanyID: h.CompanyID,
		Number:    h.Number,
		Date:      h.Date,
		Type:      vt,
		Buyer: domain.Party{
			Name:     coalesce(h.PartyName, h.CustomerName),
			GSTIN:    coalesce(h.PartyGSTIN, h.GSTIN),
			Address1: h.Address1,
			Address2: h.Address2,
			Location: h.Location,
			Pin:      h.Pin,
			State:    coalesce(h.PartyState, h.State),
			Phone:    h.Phone,
			Email:    h.Email,
		},
		OtherCharges:  h.OtherCharges,
		RoundOff:      h.RoundOff,
		Total:         h.Total,
		ReverseCharge: h.ReverseCharge,
		ExportOrSEZ:   h.ExportOrSEZ,
		Items:         make([]domain.VoucherItem, 0, len(items)),
	}
	if len(h.ShipTo) > 0 {
		var ship domain.Party
		if err := json.Unmarshal(h.ShipTo, &ship); err != nil {
			return nil, fmt.Errorf("voucherRepo.GetVoucher ship_to: %w", err)
		}
		v.ShipTo = &ship
	}
	for i := range items {
		it := &items[i]
		rate := it.IGSTRate.Decimal
		if !rate.IsPositive() {
			rate = it.CGSTRate.Decimal.Add(it.SGSTRate.Decimal)
		}
		v.Items = append(v.Items, domain.VoucherItem{
			Description: it.Description.String,
			HSNCode:     coalesce(it.HSNCode, it.HSN),
			IsService:   it.IsService,
			Quantity:    it.Quantity.Decimal,
			Unit:        it.UQC.String,
			UnitPrice:   it.UnitPrice.Decimal,
			Discount:    it.Discount.Decimal,
			GSTRate:     rate,
			CessRate:    it.CessRate.Decimal,
		})
	}
	return v, nil
}

func coalesce(values ...sql.NullString) string {
	for _, v := range values {
		if v.Valid && v.String != "" {
			return v.String
		}
	}
	return ""
}
