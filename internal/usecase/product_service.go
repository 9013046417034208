package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/productfilter/backend/internal/domain"
)

// Warnings attached to a FilteredResponse
const (
	WarningInvalidCredential = "upstream credentials failed validation"
	WarningEmptyCatalog      = "upstream catalog is empty"
	WarningNoMatches         = "no products matched the filter"
)

// ProductServiceConfig holds configuration for the product service
type ProductServiceConfig struct {
	Metadata MetadataConfig
}

// ProductService runs the filter pipeline for a single request
type ProductService struct {
	source   domain.CatalogSource
	metadata *MetadataGenerator
	metrics  domain.PipelineMetrics
	logger   *zap.Logger
}

// NewProductService creates a new product service with dependencies.
// metrics and logger may be nil.
func NewProductService(
	source domain.CatalogSource,
	metrics domain.PipelineMetrics,
	config ProductServiceConfig,
	logger *zap.Logger,
) *ProductService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ProductService{
		source:   source,
		metadata: NewMetadataGenerator(config.Metadata),
		metrics:  metrics,
		logger:   logger,
	}
}

// GetFilteredProducts fetches the catalog and returns the filtered, highlighted products.
// Flow: fetch -> filter -> summarize (unhighlighted) -> highlight -> assemble.
// Nothing is kept between calls.
func (s *ProductService) GetFilteredProducts(
	ctx context.Context,
	criteria domain.FilterCriteria,
	highlight string,
) (*domain.FilteredResponse, error) {
	if s.source == nil {
		return nil, domain.ErrFetchFailed
	}

	start := time.Now()
	fetched, err := s.source.Fetch(ctx)
	s.metrics.ObserveFetch(fetchOutcome(err), time.Since(start))
	if err != nil {
		return nil, err
	}

	var warnings []string
	products := fetched.Catalog.Products

	if !fetched.CredentialsValid {
		s.metrics.IncCredentialMismatch()
		s.logger.Error("Bad request. Invalid API key", zap.Error(domain.ErrInvalidCredential))
		warnings = append(warnings, WarningInvalidCredential)
	} else if len(products) == 0 {
		s.logger.Error("No data found")
	}
	if len(products) == 0 {
		warnings = append(warnings, WarningEmptyCatalog)
	}

	filtered := FilterProducts(products, criteria)
	s.metrics.ObserveResultSize(len(filtered))
	s.logger.Debug("Filtered products",
		zap.Int("total", len(products)),
		zap.Int("matched", len(filtered)),
	)

	metadata, err := s.metadata.Summarize(filtered)
	if err != nil {
		if !errors.Is(err, domain.ErrEmptySet) {
			return nil, err
		}
		if len(products) > 0 {
			warnings = append(warnings, WarningNoMatches)
		}
	}

	return &domain.FilteredResponse{
		Products: HighlightProducts(filtered, highlight),
		Filter:   metadata,
		Warnings: warnings,
	}, nil
}

// fetchOutcome classifies a fetch error for metrics
func fetchOutcome(err error) string {
	switch {
	case err == nil:
		return domain.FetchOutcomeSuccess
	case errors.Is(err, domain.ErrDecodeFailed):
		return domain.FetchOutcomeDecodeError
	default:
		return domain.FetchOutcomeFetchError
	}
}

type noopMetrics struct{}

func (noopMetrics) ObserveFetch(string, time.Duration) {}
func (noopMetrics) IncCredentialMismatch()             {}
func (noopMetrics) ObserveResultSize(int)              {}
