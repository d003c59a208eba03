package fare

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/flight-fare/pkg/errors"
	"github.com/yanqian/flight-fare/pkg/util"
)

// TimestampLayout is how itinerary times are rendered in logs and responses.
const TimestampLayout = "2006-01-02 15:04:05"

const (
	dateLayout          = "2006-01-02"
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
)

var timeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Service exposes flight fare estimation.
type Service interface {
	Quote(ctx context.Context, req QuoteRequest) (QuoteResponse, error)
	History(ctx context.Context, limit int) ([]PredictionRecord, error)
	Catalog() Catalog
}

type service struct {
	cfg     Config
	invoker *Invoker
	log     PredictionLog
	cache   PriceCache
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// NewService wires up the fare domain. cache may be nil.
func NewService(cfg Config, invoker *Invoker, log PredictionLog, cache PriceCache, logger *slog.Logger) Service {
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	return &service{
		cfg:     cfg,
		invoker: invoker,
		log:     log,
		cache:   cache,
		logger:  logger.With("component", "fare.service"),
		now:     util.NowUTC,
		newID:   uuid.NewString,
	}
}

func (s *service) Quote(ctx context.Context, req QuoteRequest) (QuoteResponse, error) {
	it, err := ParseItinerary(req)
	if err != nil {
		return QuoteResponse{}, err
	}
	departure, arrival := it.Departure, it.Arrival

	recognized := Recognized{
		Airline:     Airlines.Contains(it.Airline),
		Origin:      Origins.Contains(it.Origin),
		Destination: Destinations.Contains(it.Destination),
	}
	if !recognized.Airline || !recognized.Origin || !recognized.Destination {
		s.logger.Warn("unrecognized category encoded as zeros",
			"airline", it.Airline, "origin", it.Origin, "destination", it.Destination)
	}

	vector := Encode(it)
	price, source, err := s.score(ctx, it, vector)
	if err != nil {
		return QuoteResponse{}, apperrors.Wrap("prediction_failed", "model prediction failed", err)
	}

	record := PredictionRecord{
		ID:          s.newID(),
		Departure:   departure,
		Arrival:     arrival,
		Stops:       it.Stops,
		Airline:     it.Airline,
		Origin:      it.Origin,
		Destination: it.Destination,
		Price:       price,
		Features:    vector,
		CreatedAt:   s.now(),
	}
	if s.log != nil {
		if err := s.log.Append(ctx, record); err != nil {
			s.logger.Warn("prediction log append failed", "id", record.ID, "error", err)
		}
	}
	s.logger.Info("fare quoted", "id", record.ID, "price", float64(price), "source", source)

	return QuoteResponse{
		ID:          record.ID,
		Price:       price,
		Currency:    s.cfg.Currency,
		Message:     fmt.Sprintf("Your Flight price is Rs. %s", price),
		Source:      source,
		Departure:   departure.Format(TimestampLayout),
		Arrival:     arrival.Format(TimestampLayout),
		Features:    vector,
		Recognized:  recognized,
		GeneratedAt: record.CreatedAt,
	}, nil
}

// score consults the cache before running the model. Keys are scoped to the
// loaded model so a shared cache never serves another model's price.
func (s *service) score(ctx context.Context, it Itinerary, vector FeatureVector) (Price, string, error) {
	key := s.invoker.ModelID() + "|" + vector.Key()
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("price cache lookup failed", "error", err)
		} else if ok {
			return cached, sourceCache, nil
		}
	}

	price, err := PredictFlightPrice(s.invoker, it.Departure, it.Arrival, it.Stops, it.Airline, it.Origin, it.Destination)
	if err != nil {
		return 0, "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, price, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("price cache store failed", "error", err)
		}
	}
	return price, sourceModel, nil
}

func (s *service) History(ctx context.Context, limit int) ([]PredictionRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if s.log == nil {
		return nil, nil
	}
	records, err := s.log.Recent(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap("history_failed", "failed to read prediction log", err)
	}
	return records, nil
}

func (s *service) Catalog() Catalog {
	return DefaultCatalog()
}

// ParseItinerary validates the form fields and builds an Itinerary.
// Category names are passed through unchecked; Encode handles unknown ones.
func ParseItinerary(req QuoteRequest) (Itinerary, error) {
	departure, arrival, err := resolveTimes(req)
	if err != nil {
		return Itinerary{}, err
	}
	if req.Stops < 0 {
		return Itinerary{}, apperrors.Wrap("invalid_input", "stops cannot be negative", nil)
	}
	return Itinerary{
		Departure:   departure,
		Arrival:     arrival,
		Stops:       req.Stops,
		Airline:     req.Airline,
		Origin:      req.Origin,
		Destination: req.Destination,
	}, nil
}

func resolveTimes(req QuoteRequest) (time.Time, time.Time, error) {
	if strings.TrimSpace(req.DepartureTime) != "" || strings.TrimSpace(req.ArrivalTime) != "" {
		departure, err := parseTimestamp(req.DepartureTime)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.Wrap("invalid_input", "departureTime must be formatted as YYYY-MM-DD HH:MM", err)
		}
		arrival, err := parseTimestamp(req.ArrivalTime)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.Wrap("invalid_input", "arrivalTime must be formatted as YYYY-MM-DD HH:MM", err)
		}
		return departure, arrival, nil
	}

	departure, err := combine("departure", req.DepartureDate, req.DepartureHour, req.DepartureMinute)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	arrival, err := combine("arrival", req.ArrivalDate, req.ArrivalHour, req.ArrivalMinute)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return departure, arrival, nil
}

func combine(field, date string, hour, minute int) (time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(date), time.UTC)
	if err != nil {
		return time.Time{}, apperrors.Wrap("invalid_input", field+"Date must be formatted as YYYY-MM-DD", err)
	}
	if hour < 0 || hour > 23 {
		return time.Time{}, apperrors.Wrap("invalid_input", field+"Hour must be between 0 and 23", nil)
	}
	if minute < 0 || minute > 59 {
		return time.Time{}, apperrors.Wrap("invalid_input", field+"Minute must be between 0 and 59", nil)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC), nil
}

// parseTimestamp keeps the wall clock of the input. An RFC3339 offset is
// dropped, never applied.
func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range timeLayouts {
		ts, err := time.ParseInLocation(layout, raw, time.UTC)
		if err == nil {
			return util.NaiveWallClock(ts), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
