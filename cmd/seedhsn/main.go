// Command seedhsn loads the GST HSN/SAC master workbook into hsn_codes.
// Goods come from the first sheet (HSN_Master_v1), services from SAC_Master.
//
// Usage: go run ./cmd/seedhsn -xlsx "GST_HSN Code summary.xlsx"
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"gstledger/internal/config"
	"gstledger/internal/logger"
	"gstledger/internal/port"
	"gstledger/internal/repository/postgres"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	xlsxPath := flag.String("xlsx", "GST_HSN Code summary.xlsx", "path to the HSN/SAC master workbook")
	dryRun := flag.Bool("dry-run", false, "parse the workbook without writing to the database")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	zl, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	f, err := excelize.OpenFile(*xlsxPath)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	set := newEntrySet()
	goods, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return fmt.Errorf("read HSN sheet: %w", err)
	}
	nGoods := set.addGoods(goods)

	services, err := f.GetRows("SAC_Master")
	if err != nil {
		return fmt.Errorf("read SAC sheet: %w", err)
	}
	nServices := set.addServices(services)

	zl.Info("parsed HSN master",
		zap.String("file", *xlsxPath),
		zap.Int("goods", nGoods),
		zap.Int("services", nServices),
	)
	if *dryRun {
		return nil
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := postgres.InsertEntries(context.Background(), db, set.entries); err != nil {
		return err
	}
	zl.Info("hsn_codes replaced", zap.Int("rows", len(set.entries)))
	return nil
}

// entrySet collects unique (code, rate, condition) entries in sheet order.
type entrySet struct {
	seen    map[string]bool
	entries []port.HSNEntry
}

func newEntrySet() *entrySet {
	return &entrySet{seen: make(map[string]bool)}
}

func (s *entrySet) add(code, description string, r sacRate) bool {
	code = strings.TrimSpace(code)
	if !isNumeric(code) {
		return false
	}
	key := code + "|" + r.rate.StringFixed(2) + "|" + r.condition
	if s.seen[key] {
		return false
	}
	s.seen[key] = true
	s.entries = append(s.entries, port.HSNEntry{
		Code:          code,
		Description:   strings.TrimSpace(description),
		GSTRate:       r.rate,
		ConditionDesc: r.condition,
	})
	return true
}

// addGoods reads HSN_Master_v1. Data starts at row 6; columns F/H hold the
// 4-digit code and description, I/J the 6-digit, K/M the 8-digit and N the rate.
func (s *entrySet) addGoods(rows [][]string) int {
	n := 0
	for i := 5; i < len(rows); i++ {
		row := rows[i]
		raw := strings.TrimSuffix(strings.TrimSpace(cell(row, 13)), "%")
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			continue
		}
		r := sacRate{rate: rate}
		for _, cols := range [][2]int{{10, 12}, {8, 9}, {5, 7}} {
			if s.add(cell(row, cols[0]), cell(row, cols[1]), r) {
				n++
			}
		}
	}
	return n
}

// addServices reads SAC_Master. Data starts at row 4; columns A/B hold the
// 4-digit SAC, C/D the 6-digit and E a free-text rate.
func (s *entrySet) addServices(rows [][]string) int {
	n := 0
	for i := 3; i < len(rows); i++ {
		row := rows[i]
		for _, r := range parseSACRate(cell(row, 4)) {
			if s.add(cell(row, 2), cell(row, 3), r) {
				n++
			}
			if s.add(cell(row, 0), cell(row, 1), r) {
				n++
			}
		}
	}
	return n
}

type sacRate struct {
	rate      decimal.Decimal
	condition string
}

// ratePattern matches a percentage with an optional parenthesised condition,
// e.g. "5% (without ITC)".
var ratePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%\s*(?:\(([^)]*)\))?`)

// parseSACRate extracts the rates from a SAC rate cell:
//
//	"18%"                                 -> 18
//	"Exempt"                              -> 0
//	"12%-18%"                             -> 12, 18
//	"1% (without ITC) or 5% (without ITC)" -> 1 "without ITC", 5 "without ITC"
func parseSACRate(s string) []sacRate {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return nil
	case "exempt", "nil":
		return []sacRate{{rate: decimal.Zero, condition: strings.ToLower(s)}}
	}

	var rates []sacRate
	seen := make(map[string]bool)
	for _, m := range ratePattern.FindAllStringSubmatch(s, -1) {
		rate, err := decimal.NewFromString(m[1])
		if err != nil {
			continue
		}
		r := sacRate{rate: rate, condition: strings.TrimSpace(m[2])}
		key := r.rate.String() + "|" + r.condition
		if seen[key] {
			continue
		}
		seen[key] = true
		rates = append(rates, r)
	}
	return rates
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
