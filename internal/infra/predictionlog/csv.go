package predictionlog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/yanqian/flight-fare/internal/domain/fare"
)

// DefaultCSVPath is used when no path is configured.
const DefaultCSVPath = "flight_data.csv"

// csvRow fixes the seven-column layout of the log file.
type csvRow struct {
	DepartureTime  string  `csv:"Departure Time"`
	ArrivalTime    string  `csv:"Arrival Time"`
	TotalStops     int     `csv:"Total Stops"`
	Airline        string  `csv:"Airline"`
	Source         string  `csv:"Source"`
	Destination    string  `csv:"Destination"`
	PredictedPrice float64 `csv:"Predicted Price"`
}

// CSVLog appends predictions to a CSV file, writing the header when the file
// does not exist yet.
type CSVLog struct {
	mu   sync.Mutex
	path string
}

// NewCSVLog constructs a log at path, creating parent directories.
func NewCSVLog(path string) (*CSVLog, error) {
	if path == "" {
		path = DefaultCSVPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	return &CSVLog{path: path}, nil
}

// Append implements fare.PredictionLog.
func (l *CSVLog) Append(_ context.Context, record fare.PredictionRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows := []*csvRow{toCSVRow(record)}

	info, err := os.Stat(l.path)
	switch {
	case errors.Is(err, fs.ErrNotExist) || (err == nil && info.Size() == 0):
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		return gocsv.MarshalFile(&rows, f)
	case err != nil:
		return err
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalWithoutHeaders(&rows, f)
}

// Recent implements fare.PredictionLog, newest first.
func (l *CSVLog) Recent(_ context.Context, limit int) ([]fare.PredictionRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []*csvRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("read prediction log: %w", err)
	}

	out := make([]fare.PredictionRecord, 0, min(limit, len(rows)))
	for i := len(rows) - 1; i >= 0 && len(out) < limit; i-- {
		rec, err := fromCSVRow(rows[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func toCSVRow(r fare.PredictionRecord) *csvRow {
	return &csvRow{
		DepartureTime:  r.Departure.Format(fare.TimestampLayout),
		ArrivalTime:    r.Arrival.Format(fare.TimestampLayout),
		TotalStops:     r.Stops,
		Airline:        r.Airline,
		Source:         r.Origin,
		Destination:    r.Destination,
		PredictedPrice: float64(r.Price),
	}
}

func fromCSVRow(row *csvRow) (fare.PredictionRecord, error) {
	departure, err := time.ParseInLocation(fare.TimestampLayout, row.DepartureTime, time.UTC)
	if err != nil {
		return fare.PredictionRecord{}, err
	}
	arrival, err := time.ParseInLocation(fare.TimestampLayout, row.ArrivalTime, time.UTC)
	if err != nil {
		return fare.PredictionRecord{}, err
	}
	rec := fare.PredictionRecord{
		Departure:   departure,
		Arrival:     arrival,
		Stops:       row.TotalStops,
		Airline:     row.Airline,
		Origin:      row.Source,
		Destination: row.Destination,
		Price:       fare.Price(row.PredictedPrice),
	}
	rec.Features = fare.Encode(rec.Itinerary())
	return rec, nil
}

var _ fare.PredictionLog = (*CSVLog)(nil)
