package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"gstledger/internal/domain"
	"gstledger/internal/gst"
)

// Sheet names follow the GSTR-1 offline Excel template.
const (
	sheetB2B  = "b2b"
	sheetB2CL = "b2cl"
	sheetB2CS = "b2cs"
	sheetCDNR = "cdnr"
	sheetEXP  = "exp"
	sheetNil  = "exemp"
	sheetHSN  = "hsn"
)

var workbookHeaders = map[string][]string{
	sheetB2B:  {"GSTIN/UIN of Recipient", "Invoice Number", "Invoice date", "Invoice Value", "Place Of Supply", "Reverse Charge", "Invoice Type", "Rate", "Taxable Value", "Integrated Tax", "Central Tax", "State/UT Tax", "Cess Amount"},
	sheetB2CL: {"Invoice Number", "Invoice date", "Invoice Value", "Place Of Supply", "Rate", "Taxable Value", "Integrated Tax", "Cess Amount"},
	sheetB2CS: {"Type", "Supply Type", "Place Of Supply", "Rate", "Taxable Value", "Integrated Tax", "Central Tax", "State/UT Tax", "Cess Amount"},
	sheetCDNR: {"GSTIN/UIN of Recipient", "Note Number", "Note date", "Note Type", "Place Of Supply", "Note Value", "Rate", "Taxable Value", "Integrated Tax", "Central Tax", "State/UT Tax", "Cess Amount"},
	sheetEXP:  {"Export Type", "Invoice Number", "Invoice date", "Invoice Value", "Rate", "Taxable Value", "Integrated Tax", "Cess Amount"},
	sheetNil:  {"Description", "Nil Rated Supplies", "Exempted (other than nil rated/non GST supply)", "Non-GST supplies"},
	sheetHSN:  {"HSN", "Description", "UQC", "Total Quantity", "Total Value", "Taxable Value", "Integrated Tax Amount", "Central Tax Amount", "State/UT Tax Amount", "Cess Amount"},
}

var workbookOrder = []string{sheetB2B, sheetB2CL, sheetB2CS, sheetCDNR, sheetEXP, sheetNil, sheetHSN}

// GSTR1Workbook builds the GSTR-1 Excel workbook, one sheet per table.
// The caller owns the returned file and must Close it.
func GSTR1Workbook(r *domain.AssembledReturn) (*excelize.File, error) {
	if gst.NormalizeGSTIN(r.BasicInfo.GSTIN) == "" {
		return nil, violation("gstr1.xlsx", "gstin", "supplier GSTIN is required")
	}
	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(0)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for _, name := range workbookOrder {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
		if err := writeRow(f, name, 1, toCells(workbookHeaders[name])); err != nil {
			_ = f.Close()
			return nil, err
		}
		last, _ := excelize.CoordinatesToCellName(len(workbookHeaders[name]), 1)
		if err := f.SetCellStyle(name, "A1", last, bold); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("style sheet %s: %w", name, err)
		}
	}
	if err := f.DeleteSheet(defaultSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("remove default sheet: %w", err)
	}

	if err := fillWorkbook(f, r); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// WriteGSTR1Workbook builds the workbook and streams it to w.
func WriteGSTR1Workbook(w io.Writer, r *domain.AssembledReturn) error {
	f, err := GSTR1Workbook(r)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func fillWorkbook(f *excelize.File, r *domain.AssembledReturn) error {
	t := &r.GSTR1
	rows := map[string]int{}
	next := func(sheet string) int {
		if rows[sheet] == 0 {
			rows[sheet] = 1
		}
		rows[sheet]++
		return rows[sheet]
	}

	for i := range t.B2B {
		for j := range t.B2B[i].Invoices {
			inv := &t.B2B[i].Invoices[j]
			for k := range inv.Items {
				it := &inv.Items[k]
				cells := []any{t.B2B[i].CounterpartyGSTIN, inv.Number, inv.Date.Format(portalDateLayout), num(inv.Value),
					posLabel(inv.PlaceOfSupply), yesNo(inv.ReverseCharge), inv.InvoiceType, num(it.Rate),
					num(it.TaxableValue), num(it.IGST), num(it.CGST), num(it.SGST), num(it.Cess)}
				if err := writeRow(f, sheetB2B, next(sheetB2B), cells); err != nil {
					return err
				}
			}
		}
	}
	for i := range t.B2CL {
		for j := range t.B2CL[i].Invoices {
			inv := &t.B2CL[i].Invoices[j]
			for k := range inv.Items {
				it := &inv.Items[k]
				cells := []any{inv.Number, inv.Date.Format(portalDateLayout), num(inv.Value), posLabel(t.B2CL[i].PlaceOfSupply),
					num(it.Rate), num(it.TaxableValue), num(it.IGST), num(it.Cess)}
				if err := writeRow(f, sheetB2CL, next(sheetB2CL), cells); err != nil {
					return err
				}
			}
		}
	}
	for i := range t.B2CS {
		e := &t.B2CS[i]
		cells := []any{"OE", e.SupplyType, posLabel(e.PlaceOfSupply), num(e.Rate), num(e.TaxableValue),
			num(e.IGST), num(e.CGST), num(e.SGST), num(e.Cess)}
		if err := writeRow(f, sheetB2CS, next(sheetB2CS), cells); err != nil {
			return err
		}
	}
	for i := range t.CDNR {
		for j := range t.CDNR[i].Invoices {
			n := &t.CDNR[i].Invoices[j]
			for k := range n.Items {
				it := &n.Items[k]
				cells := []any{t.CDNR[i].CounterpartyGSTIN, n.Number, n.Date.Format(portalDateLayout), n.NoteType,
					posLabel(n.PlaceOfSupply), num(n.Value), num(it.Rate), num(it.TaxableValue),
					num(it.IGST), num(it.CGST), num(it.SGST), num(it.Cess)}
				if err := writeRow(f, sheetCDNR, next(sheetCDNR), cells); err != nil {
					return err
				}
			}
		}
	}
	for i := range t.EXP {
		inv := &t.EXP[i]
		for k := range inv.Items {
			it := &inv.Items[k]
			cells := []any{inv.ExportType, inv.Number, inv.Date.Format(portalDateLayout), num(inv.Value),
				num(it.Rate), num(it.TaxableValue), num(it.IGST), num(it.Cess)}
			if err := writeRow(f, sheetEXP, next(sheetEXP), cells); err != nil {
				return err
			}
		}
	}
	for i := range t.Nil {
		e := &t.Nil[i]
		cells := []any{nilDescriptions[e.SupplyType], num(e.NilRated), num(e.Exempt), 0.0}
		if err := writeRow(f, sheetNil, next(sheetNil), cells); err != nil {
			return err
		}
	}
	for i := range r.HSNSummary {
		h := &r.HSNSummary[i]
		cells := []any{h.HSNCode, h.Description, h.UQC, h.TotalQuantity.InexactFloat64(), num(h.TotalValue),
			num(h.TaxableValue), num(h.IGST), num(h.CGST), num(h.SGST), num(h.Cess)}
		if err := writeRow(f, sheetHSN, next(sheetHSN), cells); err != nil {
			return err
		}
	}
	return nil
}

var nilDescriptions = map[string]string{
	"INTRB2B":  "Inter-State supplies to registered persons",
	"INTRAB2B": "Intra-State supplies to registered persons",
	"INTRB2C":  "Inter-State supplies to unregistered persons",
	"INTRAB2C": "Intra-State supplies to unregistered persons",
}

func writeRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toCells(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// num converts a rounded amount to float64 for spreadsheet cells.
func num(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// posLabel renders a state code as "27-Maharashtra", the template's format.
func posLabel(code string) string {
	if name, ok := gst.StateName(code); ok {
		return code + "-" + name
	}
	return code
}
