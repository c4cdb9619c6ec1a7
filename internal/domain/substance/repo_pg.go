package substance

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type sourcePG struct {
	pool *pgxpool.Pool
}

// NewSourcePG returns the Postgres-backed substance-history provider.
func NewSourcePG(pool *pgxpool.Pool) Source {
	return &sourcePG{pool: pool}
}

func (s *sourcePG) Name() string { return "real" }

const recordColumns = `patient_id, substance, COALESCE(use_flag, ''), COALESCE(pattern_of_use, ''), COALESCE(recorded_date, '')`

func (s *sourcePG) ListByPatient(ctx context.Context, patientID string) ([]Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+recordColumns+`
		FROM substance_history
		WHERE patient_id = $1
		ORDER BY recorded_date DESC, substance`, patientID)
	if err != nil {
		return nil, fmt.Errorf("list substance history for %s: %w", patientID, err)
	}
	return scanRecords(rows)
}

func (s *sourcePG) ListAll(ctx context.Context) ([]Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+recordColumns+`
		FROM substance_history
		ORDER BY patient_id, substance`)
	if err != nil {
		return nil, fmt.Errorf("list substance history: %w", err)
	}
	return scanRecords(rows)
}

func scanRecords(rows pgx.Rows) ([]Record, error) {
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.PatientID, &r.Substance, &r.UseFlag, &r.PatternOfUse, &r.RecordedDate); err != nil {
			return nil, fmt.Errorf("scan substance record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
