package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintel/internal/model"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestVendorPostgres_RecordInvoice(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewVendorPostgres(db)
	ctx := context.Background()

	seen := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	profile := &model.VendorProfile{
		GSTNumber:       "24AAACC1206D1ZM",
		VendorName:      "ACME SUPPLIES",
		TotalAmount:     1180,
		LastInvoiceDate: seen,
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO vendor_profiles").
			WithArgs(profile.GSTNumber, profile.VendorName, profile.TotalAmount, seen).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.RecordInvoice(ctx, profile)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO vendor_profiles").
			WillReturnError(errors.New("connection reset"))

		err := repo.RecordInvoice(ctx, profile)

		assert.Error(t, err)
	})
}

func TestVendorPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewVendorPostgres(db)
	ctx := context.Background()

	columns := []string{"gst_number", "vendor_name", "total_invoices", "total_amount",
		"first_invoice_date", "last_invoice_date"}

	t.Run("success", func(t *testing.T) {
		first := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
		last := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
		rows := sqlmock.NewRows(columns).
			AddRow("24AAACC1206D1ZM", "ACME SUPPLIES", 12, 45000.0, first, last).
			AddRow("27AABCU9603R1ZX", "UMBRELLA CORP", 3, 9000.0, first, last)

		mock.ExpectQuery("SELECT (.+) FROM vendor_profiles").
			WillReturnRows(rows)

		got, err := repo.List(ctx)

		assert.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, 12, got[0].TotalInvoices)
		assert.Equal(t, first, got[0].FirstInvoiceDate)
	})

	t.Run("empty", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM vendor_profiles").
			WillReturnRows(sqlmock.NewRows(columns))

		got, err := repo.List(ctx)

		assert.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
	})
}
