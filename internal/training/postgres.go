package training

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"altcred/internal/common/database"
	"altcred/internal/common/errors"
	"altcred/internal/models"
)

// DatasetTable holds the synthetic applicants when Postgres is enabled.
const DatasetTable = "synthetic_applicants"

const createDatasetTable = `
CREATE TABLE IF NOT EXISTS synthetic_applicants (
	id                    UUID PRIMARY KEY,
	row_num               INTEGER NOT NULL,
	age                   DOUBLE PRECISION NOT NULL,
	income                DOUBLE PRECISION NOT NULL,
	upi_txn_count         DOUBLE PRECISION NOT NULL,
	bill_payment_score    DOUBLE PRECISION NOT NULL,
	mobile_recharge_score DOUBLE PRECISION NOT NULL,
	ecommerce_spend       DOUBLE PRECISION NOT NULL,
	loan_default          BOOLEAN NOT NULL,
	created_at            TIMESTAMPTZ NOT NULL
)`

// PostgresStore persists the synthetic dataset.
type PostgresStore struct {
	pg  *database.PostgresClient
	now func() time.Time
}

func NewPostgresStore(pg *database.PostgresClient) *PostgresStore {
	return &PostgresStore{pg: pg, now: time.Now}
}

// EnsureSchema creates the dataset table if needed.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pg.DB.ExecContext(ctx, createDatasetTable); err != nil {
		return errors.NewDatasetWriteFailedError(DatasetTable, fmt.Errorf("create table: %w", err))
	}
	return nil
}

// Replace swaps the stored dataset for rows in one transaction using COPY.
func (s *PostgresStore) Replace(ctx context.Context, rows []models.LabeledApplicant) error {
	createdAt := s.now().UTC()

	err := s.pg.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+DatasetTable); err != nil {
			return fmt.Errorf("clear table: %w", err)
		}

		columns := append([]string{"id", "row_num"}, models.FeatureNames()...)
		columns = append(columns, models.LabelLoanDefault, "created_at")

		stmt, err := tx.PrepareContext(ctx, pq.CopyIn(DatasetTable, columns...))
		if err != nil {
			return fmt.Errorf("prepare copy: %w", err)
		}
		defer stmt.Close()

		for i, row := range rows {
			f := row.Features
			if _, err := stmt.ExecContext(ctx,
				uuid.New(), i,
				f.Age, f.Income, f.UPITxnCount, f.BillPaymentScore, f.MobileRechargeScore, f.EcommerceSpend,
				row.LoanDefault, createdAt,
			); err != nil {
				return fmt.Errorf("copy row %d: %w", i, err)
			}
		}
		if _, err := stmt.ExecContext(ctx); err != nil {
			return fmt.Errorf("flush copy: %w", err)
		}
		return nil
	})
	if err != nil {
		return errors.NewDatasetWriteFailedError(DatasetTable, err)
	}
	return nil
}

// Load returns the stored dataset in insertion order.
func (s *PostgresStore) Load(ctx context.Context) ([]models.LabeledApplicant, error) {
	rs, err := s.pg.DB.QueryContext(ctx, `
		SELECT age, income, upi_txn_count, bill_payment_score,
		       mobile_recharge_score, ecommerce_spend, loan_default
		FROM synthetic_applicants
		ORDER BY row_num`)
	if err != nil {
		return nil, errors.NewDatasetReadFailedError(DatasetTable, err)
	}
	defer rs.Close()

	var rows []models.LabeledApplicant
	for rs.Next() {
		var row models.LabeledApplicant
		f := &row.Features
		if err := rs.Scan(&f.Age, &f.Income, &f.UPITxnCount, &f.BillPaymentScore,
			&f.MobileRechargeScore, &f.EcommerceSpend, &row.LoanDefault); err != nil {
			return nil, errors.NewDatasetReadFailedError(DatasetTable, err)
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, errors.NewDatasetReadFailedError(DatasetTable, err)
	}
	return rows, nil
}
