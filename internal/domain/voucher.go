package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Company is the supplier master record a return is filed for.
type Company struct {
	ID        uuid.UUID `db:"id" json:"id"`
	GSTIN     string    `db:"gstin" json:"gstin"`
	LegalName string    `db:"legal_name" json:"legal_name"`
	TradeName string    `db:"trade_name" json:"trade_name"`
	Address1  string    `db:"address1" json:"address1"`
	Address2  string    `db:"address2" json:"address2"`
	Location  string    `db:"location" json:"location"`
	Pin       string    `db:"pin" json:"pin"`
	State     string    `db:"state" json:"state"`
	Phone     string    `db:"phone" json:"phone"`
	Email     string    `db:"email" json:"email"`
}

// Party is a buyer or ship-to counterparty on a voucher.
type Party struct {
	Name     string `json:"name"`
	GSTIN    string `json:"gstin"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	Location string `json:"location"`
	Pin      string `json:"pin"`
	State    string `json:"state"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

// VoucherItem is an item row on a sales voucher, used for e-invoice export.
type VoucherItem struct {
	Description string          `json:"description"`
	HSNCode     string          `json:"hsn_code"`
	IsService   bool            `json:"is_service"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	GSTRate     decimal.Decimal `json:"gst_rate"`
	CessRate    decimal.Decimal `json:"cess_rate"`
}

// Voucher is a sales voucher with its item rows.
type Voucher struct {
	ID            uuid.UUID       `json:"id"`
	CompanyID     uuid.UUID       `json:"company_id"`
	Number        string          `json:"number"`
	Date          time.Time       `json:"date"`
	Type          VoucherType     `json:"type"`
	Buyer         Party           `json:"buyer"`
	ShipTo        *Party          `json:"ship_to"`
	Items         []VoucherItem   `json:"items"`
	OtherCharges  decimal.Decimal `json:"other_charges"`
	RoundOff      decimal.Decimal `json:"round_off"`
	Total         decimal.Decimal `json:"total"`
	ReverseCharge bool            `json:"reverse_charge"`
	ExportOrSEZ   bool            `json:"export_or_sez"`
}

// TransportDetails feeds the EwbDtls block of an e-invoice.
type TransportDetails struct {
	TransporterID   string     `json:"transporter_id"`
	TransporterName string     `json:"transporter_name"`
	Distance        int        `json:"distance"`
	TransDocNo      string     `json:"trans_doc_no"`
	TransDocDate    *time.Time `json:"trans_doc_date"`
	VehicleNo       string     `json:"vehicle_no"`
	VehicleType     string     `json:"vehicle_type"`
	TransMode       string     `json:"trans_mode"`
}
