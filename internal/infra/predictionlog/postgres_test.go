package predictionlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/flight-fare/internal/domain/fare"
)

func newMockLog(t *testing.T) (*PostgresLog, pgxmock.PgxPoolIface) {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewPostgresLog(pool), pool
}

func TestPostgresLogEnsureSchema(t *testing.T) {
	log, pool := newMockLog(t)

	pool.ExpectExec(`CREATE EXTENSION IF NOT EXISTS vector;.*features vector\(29\)`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, log.EnsureSchema(context.Background()))
	require.NoError(t, pool.ExpectationsWereMet())
}

func TestPostgresLogAppend(t *testing.T) {
	log, pool := newMockLog(t)
	id := uuid.New()
	rec := sampleRecord(9, 5873.12)
	rec.ID = id.String()
	rec.CreatedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	pool.ExpectExec(`INSERT INTO predictions`).
		WithArgs(id, rec.Departure, rec.Arrival, 1, "IndiGo", "Delhi", "Cochin", 5873.12, pgxmock.AnyArg(), rec.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, log.Append(context.Background(), rec))
	require.NoError(t, pool.ExpectationsWereMet())
}

func TestPostgresLogAppendReplacesNonUUIDID(t *testing.T) {
	log, pool := newMockLog(t)
	rec := sampleRecord(9, 100)
	rec.ID = "quote-1"

	pool.ExpectExec(`INSERT INTO predictions`).
		WithArgs(pgxmock.AnyArg(), rec.Departure, rec.Arrival, 1, "IndiGo", "Delhi", "Cochin", 100.0, pgxmock.AnyArg(), rec.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, log.Append(context.Background(), rec))
	require.NoError(t, pool.ExpectationsWereMet())
}

func TestPostgresLogAppendError(t *testing.T) {
	log, pool := newMockLog(t)
	dbErr := errors.New("relation \"predictions\" does not exist")

	pool.ExpectExec(`INSERT INTO predictions`).WillReturnError(dbErr)

	err := log.Append(context.Background(), sampleRecord(9, 100))
	require.ErrorIs(t, err, dbErr)
}

func TestPostgresLogRecent(t *testing.T) {
	log, pool := newMockLog(t)
	newer, older := uuid.New(), uuid.New()
	dep := time.Date(2024, 3, 10, 9, 15, 0, 0, time.UTC)
	arr := time.Date(2024, 3, 10, 14, 45, 0, 0, time.UTC)
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{"id", "departure_time", "arrival_time", "total_stops", "airline", "source", "destination", "predicted_price", "created_at"}).
		AddRow(newer, dep, arr, 1, "IndiGo", "Delhi", "Cochin", 5873.12, created.Add(time.Minute)).
		AddRow(older, dep, arr, 0, "Trujet", "Pune", "Goa", 3000.0, created)
	pool.ExpectQuery(`SELECT id, departure_time.* FROM predictions ORDER BY created_at DESC LIMIT \$1`).
		WithArgs(2).
		WillReturnRows(rows)

	records, err := log.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, newer.String(), records[0].ID)
	require.Equal(t, fare.Price(5873.12), records[0].Price)
	require.Equal(t, fare.Encode(fare.Itinerary{
		Departure: dep, Arrival: arr, Stops: 1, Airline: "IndiGo", Origin: "Delhi", Destination: "Cochin",
	}), records[0].Features)

	require.Equal(t, older.String(), records[1].ID)
	require.Equal(t, make([]float64, 11), records[1].Features.AirlineSegment())
	require.NoError(t, pool.ExpectationsWereMet())
}
