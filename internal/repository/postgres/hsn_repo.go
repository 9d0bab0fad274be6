package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gstledger/internal/port"
)

type hsnRepo struct {
	db *sqlx.DB
}

// NewHSNRepo creates a new PostgreSQL-backed HSNRepository.
func NewHSNRepo(db *sqlx.DB) port.HSNRepository {
	return &hsnRepo{db: db}
}

// LoadAll returns the HSN master rows in force today, one row per
// (code, rate) pair.
func (r *hsnRepo) LoadAll(ctx context.Context) ([]port.HSNEntry, error) {
	var entries []port.HSNEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT code, description, gst_rate, condition_desc
		 FROM hsn_codes
		 WHERE effective_to IS NULL OR effective_to >= CURRENT_DATE
		 ORDER BY code, gst_rate`)
	if err != nil {
		return nil, fmt.Errorf("hsnRepo.LoadAll: %w", err)
	}
	return entries, nil
}

// InsertEntries bulk-loads HSN master rows inside one transaction. The
// existing master is replaced.
func InsertEntries(ctx context.Context, db *sqlx.DB, entries []port.HSNEntry) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("hsn seed begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM hsn_codes"); err != nil {
		return fmt.Errorf("hsn seed clear: %w", err)
	}
	for i := range entries {
		e := &entries[i]
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO hsn_codes (code, description, gst_rate, condition_desc)
			 VALUES (:code, :description, :gst_rate, :condition_desc)`, e); err != nil {
			return fmt.Errorf("hsn seed insert %s: %w", e.Code, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("hsn seed commit: %w", err)
	}
	return nil
}
