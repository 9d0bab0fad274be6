package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstledger/internal/domain"
	"gstledger/internal/port"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

var testTenant = domain.TenantContext{
	CompanyID: uuid.MustParse("6c1f1c64-1d0e-4f54-9c1f-8f0c8d0b2a11"),
	OwnerType: domain.OwnerTypeOrganization,
	OwnerID:   uuid.MustParse("0b7e7a0e-54f3-4a34-8f0e-3f8c1a7c9d21"),
}

func TestCompanyRepo_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCompanyRepo(db)

	rows := sqlmock.NewRows([]string{"id", "gstin", "legal_name", "trade_name", "address1", "address2",
		"location", "pin", "state", "phone", "email"}).
		AddRow(testTenant.CompanyID.String(), "27AAACR5055K1Z5", "Rama Steels Pvt Ltd", "Rama Steels", "Plot 4",
			"", "Pune", "411019", "Maharashtra", "", "")
	mock.ExpectQuery("SELECT (.+) FROM companies WHERE id = \\$1 AND owner_type = \\$2 AND owner_id = \\$3").
		WithArgs(testTenant.CompanyID, "organization", testTenant.OwnerID).
		WillReturnRows(rows)

	company, err := repo.Get(context.Background(), testTenant)
	require.NoError(t, err)
	assert.Equal(t, testTenant.CompanyID, company.ID)
	assert.Equal(t, "27AAACR5055K1Z5", company.GSTIN)
	assert.Equal(t, "Maharashtra", company.State)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepo_Get_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCompanyRepo(db)

	mock.ExpectQuery("SELECT (.+) FROM companies").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Get(context.Background(), testTenant)
	assert.True(t, errors.Is(err, domain.ErrCompanyNotFound))
}

func TestHSNRepo_LoadAll(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHSNRepo(db)

	rows := sqlmock.NewRows([]string{"code", "description", "gst_rate", "condition_desc"}).
		AddRow("7214", "Bars and rods of iron", "18.00", "").
		AddRow("0401", "Milk and cream", "0.00", "")
	mock.ExpectQuery("SELECT code, description, gst_rate, condition_desc FROM hsn_codes").WillReturnRows(rows)

	entries, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].GSTRate.Equal(decimal.NewFromInt(18)))
	assert.True(t, entries[1].GSTRate.IsZero())
}

func TestInsertEntries(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM hsn_codes").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO hsn_codes").
		WithArgs("7214", "Bars and rods", decimal.NewFromInt(18), "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := InsertEntries(context.Background(), db, []port.HSNEntry{
		{Code: "7214", Description: "Bars and rods", GSTRate: decimal.NewFromInt(18)},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoucherRepo_GetTaxLines(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVoucherRepo(db)

	period := domain.ReturnPeriod{CompanyID: testTenant.CompanyID, Month: 7, Year: 2024, ReturnType: domain.ReturnTypeGSTR3B}
	start, end := period.Bounds()
	voucherID := uuid.New()
	date := time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)

	cols := []string{"voucher_id", "voucher_number", "voucher_type", "voucher_date", "voucher_total",
		"reverse_charge", "export_or_sez", "supplier_state", "place_of_supply", "party_name", "customer_name",
		"gstin", "party_gstin", "state", "party_state", "line_no", "hsn", "hsn_code", "description",
		"quantity", "uqc", "tax_type", "taxable_value", "cgst_rate", "sgst_rate", "igst_rate",
		"cgst_amount", "sgst_amount", "igst_amount", "cess_amount"}
	rows := sqlmock.NewRows(cols).
		AddRow(voucherID.String(), "INV-1", "Sales", date, "1180.00", false, false, "Maharashtra", nil,
			nil, "Acme Traders", "27ABCDE1234F1Z5", nil, "Maharashtra", nil, int64(1), "7214", nil, "Steel rods",
			"10.000", "kgs", nil, "1000.00", "9.00", "9.00", nil, "90.00", "90.00", nil, nil).
		AddRow(uuid.New().String(), "INV-2", "Sales", date, "590.00", false, false, "Maharashtra", nil,
			"Walk-in", nil, nil, nil, nil, "Karnataka", nil, nil, nil, nil,
			nil, nil, nil, "500.00", nil, nil, nil, nil, nil, "90.00", nil)
	mock.ExpectQuery("SELECT (.+) FROM vouchers v JOIN companies c (.+) LEFT JOIN voucher_lines l").
		WithArgs(testTenant.CompanyID, "organization", testTenant.OwnerID, start, end).
		WillReturnRows(rows)

	lines, warnings, err := repo.GetTaxLines(context.Background(), testTenant, period)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	first := lines[0]
	assert.Equal(t, voucherID, first.VoucherID)
	assert.Equal(t, domain.VoucherTypeSales, first.VoucherType)
	assert.Equal(t, "Acme Traders", first.PartyName)
	assert.Equal(t, "27ABCDE1234F1Z5", first.GSTIN())
	assert.Equal(t, "7214", first.HSNCode)
	assert.Equal(t, "KGS", first.UQC)
	assert.True(t, first.TaxableValue.Equal(decimal.NewFromInt(1000)))

	second := lines[1]
	assert.True(t, second.IGSTRate.Equal(decimal.NewFromInt(18)))
	require.Len(t, warnings, 1)
	assert.Equal(t, domain.WarnVoucherLevelOnly, warnings[0].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoucherRepo_GetVoucher(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVoucherRepo(db)
	voucherID := uuid.New()

	header := sqlmock.NewRows([]string{"id", "company_id", "voucher_number", "voucher_type", "voucher_date",
		"party_name", "customer_name", "party_gstin", "gstin", "party_state", "state",
		"buyer_address1", "buyer_address2", "buyer_location", "buyer_pin", "buyer_phone", "buyer_email",
		"ship_to", "reverse_charge", "export_or_sez", "other_charges", "round_off", "total"}).
		AddRow(voucherID.String(), testTenant.CompanyID.String(), "INV-0042", "sales", time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
			"Acme Traders", nil, nil, "27ABCDE1234F1Z5", nil, "Maharashtra",
			"12 Market Road", "", "Mumbai", "400001", "", "",
			[]byte(`{"name":"Acme Warehouse","state":"Gujarat"}`), false, false, "0", "0", "2000.00")
	mock.ExpectQuery("SELECT (.+) FROM vouchers v JOIN companies c").
		WithArgs(voucherID, testTenant.CompanyID, "organization", testTenant.OwnerID).
		WillReturnRows(header)

	items := sqlmock.NewRows([]string{"description", "hsn_code", "hsn", "is_service", "quantity", "uqc",
		"unit_price", "discount", "cgst_rate", "sgst_rate", "igst_rate", "cess_rate"}).
		AddRow("Consulting", "998311", nil, true, "2", "NOS", "1000.00", nil, "9", "9", nil, nil)
	mock.ExpectQuery("SELECT (.+) FROM voucher_lines WHERE voucher_id = \\$1").
		WithArgs(voucherID).
		WillReturnRows(items)

	v, err := repo.GetVoucher(context.Background(), testTenant, voucherID)
	require.NoError(t, err)
	assert.Equal(t, "INV-0042", v.Number)
	assert.Equal(t, "27ABCDE1234F1Z5", v.Buyer.GSTIN)
	assert.Equal(t, "Maharashtra", v.Buyer.State)
	require.NotNil(t, v.ShipTo)
	assert.Equal(t, "Gujarat", v.ShipTo.State)
	require.Len(t, v.Items, 1)
	assert.True(t, v.Items[0].GSTRate.Equal(decimal.NewFromInt(18)))
	assert.True(t, v.Items[0].Discount.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoucherRepo_GetVoucher_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVoucherRepo(db)

	mock.ExpectQuery("SELECT (.+) FROM vouchers").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetVoucher(context.Background(), testTenant, uuid.New())
	assert.True(t, errors.Is(err, domain.ErrVoucherNotFound))
}

func TestReturnRepo_CreateSubmission_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReturnRepo(db)

	mock.ExpectExec("INSERT INTO return_submissions").
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "uq_return_submissions_period"`))

	err := repo.CreateSubmission(context.Background(), &domain.Submission{
		CompanyID:  testTenant.CompanyID,
		Year:       2024,
		Month:      7,
		ReturnType: domain.ReturnTypeGSTR3B,
		ARN:        "AA270724ABCDEFZ",
		Snapshot:   []byte(`{}`),
	})
	assert.True(t, errors.Is(err, domain.ErrSubmittedReturnImmutable))
}

func TestReturnRepo_CreateSubmission(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReturnRepo(db)

	mock.ExpectExec("INSERT INTO return_submissions").WillReturnResult(sqlmock.NewResult(1, 1))

	sub := &domain.Submission{CompanyID: testTenant.CompanyID, Year: 2024, Month: 7, ReturnType: domain.ReturnTypeGSTR1, Snapshot: []byte(`{}`)}
	require.NoError(t, repo.CreateSubmission(context.Background(), sub))
	assert.NotEqual(t, uuid.Nil, sub.ID)
	assert.False(t, sub.SubmittedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReturnRepo_GetSubmission(t *testing.T) {
	period := domain.ReturnPeriod{CompanyID: testTenant.CompanyID, Month: 6, Year: 2024, ReturnType: domain.ReturnTypeGSTR3B}

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewReturnRepo(db)
		id := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "company_id", "year", "month", "return_type", "arn", "snapshot",
			"archive_key", "submitted_by", "net_liability", "submitted_at"}).
			AddRow(id.String(), testTenant.CompanyID.String(), int64(2024), int64(6), "GSTR3B", "AA270624ABCDEFZ",
				[]byte(`{"status":"submitted"}`), "returns/x.json", testTenant.OwnerID.String(), "1800.00", time.Now())
		mock.ExpectQuery("SELECT (.+) FROM return_submissions WHERE company_id = \\$1").
			WithArgs(testTenant.CompanyID, 2024, 6, "GSTR3B").
			WillReturnRows(rows)

		sub, err := repo.GetSubmission(context.Background(), period)
		require.NoError(t, err)
		assert.Equal(t, id, sub.ID)
		assert.Equal(t, domain.ReturnTypeGSTR3B, sub.ReturnType)
		assert.True(t, sub.NetLiability.Equal(decimal.NewFromInt(1800)))
		assert.JSONEq(t, `{"status":"submitted"}`, string(sub.Snapshot))
		assert.Equal(t, period, sub.Period())
	})

	t.Run("not submitted", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewReturnRepo(db)
		mock.ExpectQuery("SELECT (.+) FROM return_submissions").WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetSubmission(context.Background(), period)
		assert.True(t, errors.Is(err, domain.ErrReturnNotSubmitted))
	})
}

func TestReturnRepo_Amendments(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReturnRepo(db)

	reported := domain.ReturnPeriod{CompanyID: testTenant.CompanyID, Month: 8, Year: 2024, ReturnType: domain.ReturnTypeGSTR3B}
	original := domain.ReturnPeriod{CompanyID: testTenant.CompanyID, Month: 6, Year: 2024, ReturnType: domain.ReturnTypeGSTR3B}

	mock.ExpectExec("INSERT INTO return_amendments").WillReturnResult(sqlmock.NewResult(1, 1))
	am := &domain.AmendmentRecord{
		CompanyID:      testTenant.CompanyID,
		OriginalPeriod: original,
		ReportedIn:     reported,
		Reason:         "missed invoice",
		Delta:          domain.TaxFigures{TaxableValue: decimal.NewFromInt(100), IGST: decimal.NewFromInt(18)},
	}
	require.NoError(t, repo.CreateAmendment(context.Background(), am))
	assert.NotEqual(t, uuid.Nil, am.ID)

	rows := sqlmock.NewRows([]string{"id", "company_id", "return_type", "original_year", "original_month",
		"reported_year", "reported_month", "reason", "taxable_value", "igst", "cgst", "sgst", "cess", "created_at"}).
		AddRow(am.ID.String(), testTenant.CompanyID.String(), "GSTR3B", int64(2024), int64(6), int64(2024), int64(8),
			"missed invoice", "100.00", "18.00", "0", "0", "0", time.Now())
	mock.ExpectQuery("SELECT (.+) FROM return_amendments").
		WithArgs(testTenant.CompanyID, "GSTR3B", 2024, 8).
		WillReturnRows(rows)

	records, err := repo.ListAmendments(context.Background(), reported)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, original, records[0].OriginalPeriod)
	assert.Equal(t, reported, records[0].ReportedIn)
	assert.True(t, records[0].Delta.IGST.Equal(decimal.NewFromInt(18)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
