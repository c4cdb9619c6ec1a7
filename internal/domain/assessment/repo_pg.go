package assessment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type sourcePG struct {
	pool *pgxpool.Pool
}

// NewSourcePG returns the Postgres-backed data provider. Responses live in
// the assessment_response table with answers stored as JSONB; malformed
// answer blobs are quarantined (skipped) at this boundary rather than
// propagated as loosely-typed data.
func NewSourcePG(pool *pgxpool.Pool) Source {
	return &sourcePG{pool: pool}
}

func (s *sourcePG) Name() string { return "real" }

func (s *sourcePG) ListResponses(ctx context.Context, patientID string, f Filter) ([]RawItemResponse, error) {
	instruments := f.Instruments
	if len(instruments) == 0 {
		instruments = All()
	}

	var out []RawItemResponse
	for _, inst := range instruments {
		query := `
			SELECT patient_id, instrument, COALESCE(assessment_date, ''), answers
			FROM assessment_response
			WHERE patient_id = $1 AND instrument = $2`
		args := []interface{}{patientID, string(inst)}

		if f.StartDate != "" {
			args = append(args, f.StartDate)
			query += fmt.Sprintf(" AND assessment_date >= $%d", len(args))
		}
		if f.EndDate != "" {
			args = append(args, f.EndDate)
			query += fmt.Sprintf(" AND assessment_date <= $%d", len(args))
		}
		query += " ORDER BY assessment_date DESC"
		if f.Limit > 0 {
			args = append(args, f.Limit)
			query += fmt.Sprintf(" LIMIT $%d", len(args))
		}

		rows, err := s.pool.Query(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("list %s responses for %s: %w", inst, patientID, err)
		}
		batch, err := scanResponses(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

func (s *sourcePG) ListAllResponses(ctx context.Context, inst Instrument) ([]RawItemResponse, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT patient_id, instrument, COALESCE(assessment_date, ''), answers
		FROM assessment_response
		WHERE instrument = $1
		ORDER BY assessment_date DESC`, string(inst))
	if err != nil {
		return nil, fmt.Errorf("list all %s responses: %w", inst, err)
	}
	return scanResponses(rows)
}

func (s *sourcePG) ListPatients(ctx context.Context) ([]PatientSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT patient_id, COALESCE(MAX(assessment_date), '')
		FROM assessment_response
		GROUP BY patient_id
		ORDER BY patient_id`)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	var out []PatientSummary
	for rows.Next() {
		var p PatientSummary
		if err := rows.Scan(&p.PatientID, &p.LatestAssessment); err != nil {
			return nil, fmt.Errorf("scan patient summary: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanResponses(rows pgx.Rows) ([]RawItemResponse, error) {
	defer rows.Close()

	var out []RawItemResponse
	for rows.Next() {
		var r RawItemResponse
		var inst string
		var answers []byte
		if err := rows.Scan(&r.PatientID, &inst, &r.AssessmentDate, &answers); err != nil {
			return nil, fmt.Errorf("scan response row: %w", err)
		}
		r.Instrument = Instrument(inst)
		if err := json.Unmarshal(answers, &r.Answers); err != nil {
			// Quarantine rows whose answer blob is not a JSON object.
			continue
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
