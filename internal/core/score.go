package core

import (
	"context"

	"github.com/crmhealth/importer/internal/schema"
)

// Scorer computes a derived health score for a validated customer
// record. The arithmetic lives outside this module; the pipeline only
// guarantees that records handed to a Scorer have passed validation and
// sanitization.
type Scorer interface {
	Score(rec schema.CustomerRecord) (float64, error)
}

// ImportLogRepository persists import outcomes for audit and history.
// Implementations live outside this module; the pipeline itself performs
// no I/O.
type ImportLogRepository interface {
	RecordImport(ctx context.Context, report *ImportReport) error
}
