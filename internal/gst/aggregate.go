package gst

import (
	"sort"
	"strings"

	"gstledger/internal/domain"
)

// RatePlaces is the precision used to key rate buckets.
const RatePlaces = 2

var defaultClassifier = NewClassifier()

// Classify classifies a line with the default export-flag rule and no HSN master.
func Classify(line *domain.TaxLine, supplierState string) (domain.Classification, []domain.Warning) {
	return defaultClassifier.Classify(line, supplierState)
}

// Aggregate groups lines with the default classifier.
func Aggregate(lines []domain.TaxLine, supplierState string) *Aggregation {
	return defaultClassifier.Aggregate(lines, supplierState)
}

// Aggregation is the grouped view of a set of outward lines. Every line
// contributes to exactly one rate bucket, one HSN row and one 3.1 row.
type Aggregation struct {
	RateBuckets     []domain.RateBucket
	HSNRows         []domain.HSNSummaryRow
	Totals          domain.TaxFigures
	Outward         domain.OutwardSupplies
	Classifications []domain.Classification
	Warnings        []domain.Warning
}

type bucketKey struct {
	rate  string
	group string
}

// Aggregate classifies each line once and accumulates rate buckets, HSN
// summary rows, totals and the GSTR-3B 3.1 split. Amounts are summed at full
// precision; rounding is left to presentation. Classifications is indexed
// like lines.
func (c *Classifier) Aggregate(lines []domain.TaxLine, supplierState string) *Aggregation {
	agg := &Aggregation{
		RateBuckets:     []domain.RateBucket{},
		HSNRows:         []domain.HSNSummaryRow{},
		Classifications: make([]domain.Classification, len(lines)),
		Warnings:        []domain.Warning{},
	}
	buckets := make(map[bucketKey]*domain.RateBucket)
	hsnRows := make(map[string]*domain.HSNSummaryRow)

	for i := range lines {
		line := &lines[i]
		cls, warnings := c.Classify(line, supplierState)
		agg.Classifications[i] = cls
		agg.Warnings = append(agg.Warnings, warnings...)
		figures := line.Figures()

		rate := line.GSTRate().Round(RatePlaces)
		key := bucketKey{rate: rate.StringFixed(RatePlaces), group: cls.Group()}
		b, ok := buckets[key]
		if !ok {
			b = &domain.RateBucket{Rate: rate, Group: cls.Group(), Classification: cls}
			buckets[key] = b
		}
		b.TaxFigures = b.TaxFigures.Add(figures)
		b.LineCount++

		code := strings.TrimSpace(line.HSNCode)
		row, ok := hsnRows[code]
		if !ok {
			row = &domain.HSNSummaryRow{HSNCode: code}
			hsnRows[code] = row
		}
		if row.Description == "" {
			row.Description = strings.TrimSpace(line.Description)
			if row.Description == "" {
				row.Description = c.hsn.Description(code)
			}
		}
		if row.UQC == "" {
			row.UQC = strings.TrimSpace(line.UQC)
		}
		row.TotalQuantity = row.TotalQuantity.Add(line.Quantity)
		row.TotalValue = row.TotalValue.Add(figures.TaxableValue).Add(figures.Tax())
		row.TaxFigures = row.TaxFigures.Add(figures)
		row.LineCount++

		switch cls.OutwardRow() {
		case domain.OutwardRowB:
			agg.Outward.ZeroRated = agg.Outward.ZeroRated.Add(figures)
		case domain.OutwardRowC:
			if cls.Supply == domain.SupplyNilRated {
				agg.Outward.NilExempt.Nil = agg.Outward.NilExempt.Nil.Add(figures.TaxableValue)
			} else {
				agg.Outward.NilExempt.Exempt = agg.Outward.NilExempt.Exempt.Add(figures.TaxableValue)
			}
		default:
			agg.Outward.Taxable = agg.Outward.Taxable.Add(figures)
		}
	}

	for _, b := range buckets {
		agg.RateBuckets = append(agg.RateBuckets, *b)
		agg.Totals = agg.Totals.Add(b.TaxFigures)
	}
	sort.Slice(agg.RateBuckets, func(i, j int) bool {
		bi, bj := agg.RateBuckets[i], agg.RateBuckets[j]
		if cmp := bi.Rate.Cmp(bj.Rate); cmp != 0 {
			return cmp < 0
		}
		return bi.Group < bj.Group
	})

	for _, row := range hsnRows {
		agg.HSNRows = append(agg.HSNRows, *row)
	}
	sort.Slice(agg.HSNRows, func(i, j int) bool {
		return agg.HSNRows[i].HSNCode < agg.HSNRows[j].HSNCode
	})

	return agg
}

// SumBuckets adds up bucket figures; it always equals Aggregation.Totals.
func SumBuckets(buckets []domain.RateBucket) domain.TaxFigures {
	var total domain.TaxFigures
	for i := range buckets {
		total = total.Add(buckets[i].TaxFigures)
	}
	return total
}

// SumHSNRows adds up HSN row figures; it always equals Aggregation.Totals.
func SumHSNRows(rows []domain.HSNSummaryRow) domain.TaxFigures {
	var total domain.TaxFigures
	for i := range rows {
		total = total.Add(rows[i].TaxFigures)
	}
	return total
}
