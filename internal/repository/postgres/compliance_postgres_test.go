package postgres

import (
	"context"
	"errors"
	"testing"

	"fintel/internal/model"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestCompliancePostgres_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewCompliancePostgres(db)
	ctx := context.Background()

	res := &model.ComplianceResult{
		InvoiceNumber:     "INV-1",
		ComplianceScore:   83.3,
		ComplianceStatus:  model.StatusMinorIssues,
		ChecksPassedCount: 5,
		TotalChecksCount:  6,
		RiskScore:         30,
		RiskLevel:         model.RiskMedium,
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO compliance_results").
			WithArgs("inv-1", res.ComplianceScore, res.ComplianceStatus, res.RiskScore,
				res.RiskLevel, res.ChecksPassedCount, res.TotalChecksCount, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Upsert(ctx, "inv-1", res)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO compliance_results").
			WillReturnError(errors.New("connection reset"))

		err := repo.Upsert(ctx, "inv-1", res)

		assert.Error(t, err)
	})
}

func TestCompliancePostgres_AverageScore(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewCompliancePostgres(db)
	ctx := context.Background()

	t.Run("with results", func(t *testing.T) {
		mock.ExpectQuery("SELECT COALESCE\\(AVG\\(score\\), 0\\) FROM compliance_results").
			WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(76.5))

		avg, err := repo.AverageScore(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 76.5, avg)
	})

	t.Run("empty table", func(t *testing.T) {
		mock.ExpectQuery("SELECT COALESCE\\(AVG\\(score\\), 0\\) FROM compliance_results").
			WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(0.0))

		avg, err := repo.AverageScore(ctx)

		assert.NoError(t, err)
		assert.Zero(t, avg)
	})
}
