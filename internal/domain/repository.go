package domain

import (
	"context"
	"time"
)

// CatalogSource defines the interface for retrieving the upstream product catalog
type CatalogSource interface {
	Fetch(ctx context.Context) (*FetchResult, error)
}

// Fetch outcomes reported to PipelineMetrics
const (
	FetchOutcomeSuccess     = "success"
	FetchOutcomeFetchError  = "fetch_error"
	FetchOutcomeDecodeError = "decode_error"
)

// PipelineMetrics receives observations from the request pipeline.
// Implementations must be safe for concurrent use.
type PipelineMetrics interface {
	ObserveFetch(outcome string, duration time.Duration)
	IncCredentialMismatch()
	ObserveResultSize(count int)
}
