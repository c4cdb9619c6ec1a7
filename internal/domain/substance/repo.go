package substance

import "context"

// Source provides substance-history rows. Zero rows means "nothing
// charted", never an error.
type Source interface {
	Name() string
	ListByPatient(ctx context.Context, patientID string) ([]Record, error)
	ListAll(ctx context.Context) ([]Record, error)
}
