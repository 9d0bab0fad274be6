package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"gstledger/internal/domain"
)

// BOM is the UTF-8 byte order mark Excel needs to read the CSV as UTF-8 on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// hsnColumns defines the HSN summary CSV header row.
var hsnColumns = []string{
	"Sr No",
	"HSN",
	"Description",
	"UQC",
	"Total Quantity",
	"Total Value",
	"Taxable Value",
	"Integrated Tax",
	"Central Tax",
	"State/UT Tax",
	"Cess",
}

// HSNWriter wraps csv.Writer for the HSN-wise summary.
type HSNWriter struct {
	csv *csv.Writer
}

// NewHSNWriter creates an HSNWriter that writes CSV to w.
func NewHSNWriter(w io.Writer) *HSNWriter {
	return &HSNWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *HSNWriter) WriteHeader() error {
	return w.csv.Write(hsnColumns)
}

// WriteRows writes one row per HSN summary row.
func (w *HSNWriter) WriteRows(rows []domain.HSNSummaryRow) error {
	for i := range rows {
		r := &rows[i]
		record := []string{
			strconv.Itoa(i + 1),
			r.HSNCode,
			r.Description,
			r.UQC,
			formatQuantity(r.TotalQuantity),
			formatMoney(r.TotalValue),
			formatMoney(r.TaxableValue),
			formatMoney(r.IGST),
			formatMoney(r.CGST),
			formatMoney(r.SGST),
			formatMoney(r.Cess),
		}
		if err := w.csv.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *HSNWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *HSNWriter) Error() error {
	return w.csv.Error()
}

// WriteHSNCSV writes the BOM, header and rows, then flushes.
func WriteHSNCSV(out io.Writer, rows []domain.HSNSummaryRow) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewHSNWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteRows(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatQuantity(d decimal.Decimal) string {
	return d.StringFixed(3)
}
