package fare

import (
	"context"
	"time"
)

// PredictionLog persists every quoted itinerary together with its price.
type PredictionLog interface {
	Append(ctx context.Context, record PredictionRecord) error
	Recent(ctx context.Context, limit int) ([]PredictionRecord, error)
}

// PriceCache stores prices keyed by FeatureVector.Key.
type PriceCache interface {
	Get(ctx context.Context, key string) (Price, bool, error)
	Set(ctx context.Context, key string, price Price, ttl time.Duration) error
}
