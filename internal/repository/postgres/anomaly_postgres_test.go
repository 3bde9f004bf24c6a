package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintel/internal/model"
	"fintel/internal/repository"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestAnomalyPostgres_ReplaceForInvoice(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAnomalyPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	anomalies := []model.Anomaly{
		{
			InvoiceNumber: "INV-1",
			VendorName:    "ACME",
			AnomalyType:   model.AnomalyDuplicateInvoice,
			Severity:      model.SeverityHigh,
			Description:   "Duplicate of invoice INV-1",
			DetectedAt:    now,
			Status:        model.AnomalyStatusOpen,
		},
		{
			InvoiceNumber: "INV-1",
			VendorName:    "ACME",
			AnomalyType:   model.AnomalyPriceOutlier,
			Severity:      model.SeverityLow,
			Description:   "Keyboard billed 40% above reference",
			DetectedAt:    now,
			Status:        model.AnomalyStatusOpen,
		},
	}

	t.Run("replaces prior set", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM anomalies WHERE invoice_id").
			WithArgs("inv-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		for _, a := range anomalies {
			mock.ExpectExec("INSERT INTO anomalies").
				WithArgs("inv-1", a.InvoiceNumber, a.VendorName, a.AnomalyType,
					a.Severity, a.Description, a.DetectedAt, a.Status).
				WillReturnResult(sqlmock.NewResult(1, 1))
		}
		mock.ExpectCommit()

		err := repo.ReplaceForInvoice(ctx, "inv-1", anomalies)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty set only deletes", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM anomalies WHERE invoice_id").
			WithArgs("inv-2").
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectCommit()

		err := repo.ReplaceForInvoice(ctx, "inv-2", nil)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM anomalies WHERE invoice_id").
			WithArgs("inv-3").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO anomalies").
			WillReturnError(errors.New("constraint violation"))
		mock.ExpectRollback()

		err := repo.ReplaceForInvoice(ctx, "inv-3", anomalies[:1])

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAnomalyPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAnomalyPostgres(db)
	ctx := context.Background()

	columns := []string{"id", "invoice_id", "invoice_number", "vendor_name",
		"anomaly_type", "severity", "description", "detected_at", "status"}

	t.Run("success", func(t *testing.T) {
		now := time.Now().UTC()
		rows := sqlmock.NewRows(columns).
			AddRow("an-1", "inv-1", "INV-1", "ACME", model.AnomalyMissingGST,
				model.SeverityMedium, "No GST number found on invoice", now, model.AnomalyStatusOpen)

		mock.ExpectQuery("SELECT (.+) FROM anomalies").
			WithArgs(sqlmock.AnyArg(), 25).
			WillReturnRows(rows)

		got, err := repo.List(ctx, repository.HistoryQuery{Limit: 25})

		assert.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, model.AnomalyMissingGST, got[0].AnomalyType)
	})

	t.Run("default limit", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM anomalies").
			WithArgs(sqlmock.AnyArg(), 200).
			WillReturnRows(sqlmock.NewRows(columns))

		got, err := repo.List(ctx, repository.HistoryQuery{})

		assert.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
	})
}

func TestAnomalyPostgres_Count(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAnomalyPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM anomalies").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.Count(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 42, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
