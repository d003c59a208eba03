package predictionlog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/yanqian/flight-fare/internal/domain/fare"
)

const schemaSQL = `
CREATE EXTENSION IF NOT EXISTS vector;
CREATE TABLE IF NOT EXISTS predictions (
	id              UUID PRIMARY KEY,
	departure_time  TIMESTAMP NOT NULL,
	arrival_time    TIMESTAMP NOT NULL,
	total_stops     INTEGER NOT NULL,
	airline         TEXT NOT NULL,
	source          TEXT NOT NULL,
	destination     TEXT NOT NULL,
	predicted_price DOUBLE PRECISION NOT NULL,
	features        vector(%d) NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS predictions_created_at_idx ON predictions (created_at DESC);
`

// Querier is the subset of *pgxpool.Pool the log needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresLog implements fare.PredictionLog using pgx. The encoded vector is
// stored as a pgvector column next to the seven logged fields.
type PostgresLog struct {
	pool Querier
}

// NewPostgresLog constructs the log.
func NewPostgresLog(pool Querier) *PostgresLog {
	return &PostgresLog{pool: pool}
}

// EnsureSchema creates the predictions table when missing.
func (l *PostgresLog) EnsureSchema(ctx context.Context) error {
	_, err := l.pool.Exec(ctx, fmt.Sprintf(schemaSQL, fare.FeatureWidth))
	return err
}

// Append implements fare.PredictionLog.
func (l *PostgresLog) Append(ctx context.Context, record fare.PredictionRecord) error {
	id, err := uuid.Parse(record.ID)
	if err != nil {
		id = uuid.New()
	}
	_, err = l.pool.Exec(ctx, `
		INSERT INTO predictions
			(id, departure_time, arrival_time, total_stops, airline, source, destination, predicted_price, features, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, id, record.Departure, record.Arrival, record.Stops, record.Airline, record.Origin, record.Destination,
		float64(record.Price), pgvector.NewVector(toFloat32(record.Features)), record.CreatedAt)
	return err
}

// Recent implements fare.PredictionLog, newest first.
func (l *PostgresLog) Recent(ctx context.Context, limit int) ([]fare.PredictionRecord, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT id, departure_time, arrival_time, total_stops, airline, source, destination, predicted_price, created_at
		FROM predictions
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []fare.PredictionRecord
	for rows.Next() {
		var (
			rec   fare.PredictionRecord
			id    uuid.UUID
			price float64
		)
		if err := rows.Scan(&id, &rec.Departure, &rec.Arrival, &rec.Stops, &rec.Airline, &rec.Origin, &rec.Destination, &price, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.ID = id.String()
		rec.Price = fare.Price(price)
		rec.Features = fare.Encode(rec.Itinerary())
		out = append(out, rec)
	}
	return out, rows.Err()
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}

var (
	_ fare.PredictionLog = (*PostgresLog)(nil)
	_ Querier            = (*pgxpool.Pool)(nil)
)
