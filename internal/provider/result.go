package provider

import "github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"

// EnrichmentRequest carries the record snapshot a suggestion is computed from.
// The snapshot is taken at enqueue time so a concurrent edit cannot change
// the inputs mid-computation.
type EnrichmentRequest struct {
	Kind       domain.SuggestionKind
	RecordType domain.RecordType
	Title      string
	Payload    map[string]any
}

// EnrichmentResult is the structured result from an AI enrichment provider.
type EnrichmentResult struct {
	Kind    domain.SuggestionKind
	Payload map[string]any
	Model   string
}
