package port

import (
	"context"

	"github.com/wahajaslm/tarco/internal/domain"
)

// ReferenceRepository is the read-only contract over the canonical reference
// store. The deterministic builder consumes it exclusively; nothing in the
// classification path writes through it.
type ReferenceRepository interface {
	// GetItem returns the nomenclature item for an exact code, or
	// domain.ErrNotFound when no such row exists.
	GetItem(ctx context.Context, code string) (*domain.ReferenceItem, error)
	// ListLeafItems returns every leaf nomenclature item, for index seeding.
	ListLeafItems(ctx context.Context) ([]domain.ReferenceItem, error)
	// ImportMeasures returns measures for the code whose origin group is
	// either the specific origin or the universal ERGA OMNES group.
	ImportMeasures(ctx context.Context, code, origin string) ([]domain.ImportMeasure, error)
	ExportMeasures(ctx context.Context, code, destination string) ([]domain.ExportMeasure, error)
	VATRates(ctx context.Context, country string) ([]domain.VATRate, error)
	MeasureConditions(ctx context.Context, code string) ([]domain.MeasureCondition, error)
	// HasReachMapping reports whether a substance-restriction mapping exists
	// for the code's 6-character prefix.
	HasReachMapping(ctx context.Context, prefix string) (bool, error)
	// LatestExchangeRates returns the most recent stored rate per ISO code.
	LatestExchangeRates(ctx context.Context, isos []string) ([]domain.ExchangeRate, error)
	Ping(ctx context.Context) error
}
