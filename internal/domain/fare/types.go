package fare

import "time"

// QuoteRequest captures the form fields submitted by a client. Either the
// split date/hour/minute fields or the combined time strings may be used.
type QuoteRequest struct {
	DepartureDate   string `json:"departureDate"`
	DepartureHour   int    `json:"departureHour"`
	DepartureMinute int    `json:"departureMinute"`
	ArrivalDate     string `json:"arrivalDate"`
	ArrivalHour     int    `json:"arrivalHour"`
	ArrivalMinute   int    `json:"arrivalMinute"`

	DepartureTime string `json:"departureTime,omitempty"`
	ArrivalTime   string `json:"arrivalTime,omitempty"`

	Stops       int    `json:"stops"`
	Airline     string `json:"airline"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// QuoteResponse is returned to API consumers.
type QuoteResponse struct {
	ID          string     `json:"id"`
	Price       Price      `json:"price"`
	Currency    string     `json:"currency"`
	Message     string     `json:"message"`
	Source      string     `json:"source"`
	Departure   string     `json:"departure"`
	Arrival     string     `json:"arrival"`
	Features    []float64  `json:"features"`
	Recognized  Recognized `json:"recognized"`
	GeneratedAt time.Time  `json:"generatedAt"`
}

// Recognized flags which categorical inputs matched a known value.
type Recognized struct {
	Airline     bool `json:"airline"`
	Origin      bool `json:"origin"`
	Destination bool `json:"destination"`
}

// PredictionRecord is one row of the prediction log.
type PredictionRecord struct {
	ID          string
	Departure   time.Time
	Arrival     time.Time
	Stops       int
	Airline     string
	Origin      string
	Destination string
	Price       Price
	Features    FeatureVector
	CreatedAt   time.Time
}

// Itinerary returns the inputs the record was priced from.
func (r PredictionRecord) Itinerary() Itinerary {
	return Itinerary{
		Departure:   r.Departure,
		Arrival:     r.Arrival,
		Stops:       r.Stops,
		Airline:     r.Airline,
		Origin:      r.Origin,
		Destination: r.Destination,
	}
}

// Config holds runtime knobs for the pricing service.
type Config struct {
	Currency string
	CacheTTL time.Duration
}

const (
	sourceModel = "model"
	sourceCache = "cache"
)
