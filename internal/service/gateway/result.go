package gateway

import "github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"

// View is the merged read model for a single record: the record itself plus
// its READY suggestions. PENDING and FAILED suggestions are never surfaced;
// from the reader's side a computation that has not finished does not exist.
type View struct {
	Record      *domain.Record
	Suggestions []domain.Suggestion

	// DisclaimerRequired is set when the actor has not acknowledged the
	// current AI content policy. In that case Suggestions is empty even if
	// READY rows exist.
	DisclaimerRequired bool
}
