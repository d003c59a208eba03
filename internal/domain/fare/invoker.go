package fare

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrModelUnavailable is returned when no regressor has been injected.
var ErrModelUnavailable = errors.New("fare: regression model not loaded")

// ErrEmptyPrediction is returned when the model yields no value for the row.
var ErrEmptyPrediction = errors.New("fare: model returned no prediction")

// Regressor scores a batch of feature rows. Implementations must be safe for
// concurrent use once loaded.
type Regressor interface {
	PredictBatch(rows [][]float64) ([]float64, error)
}

// Price is a fare in the model's currency, rounded to two decimals.
type Price float64

// String renders the shortest decimal form with at least one fractional
// digit, e.g. 5230.5, 4012.27 or 3000.0.
func (p Price) String() string {
	s := strconv.FormatFloat(float64(p), 'f', -1, 64)
	if strings.ContainsAny(s, ".NI") {
		return s
	}
	return s + ".0"
}

// Fingerprinter is implemented by models that can name the artefact they
// were loaded from. Equal fingerprints mean equal predictions.
type Fingerprinter interface {
	Fingerprint() string
}

// Invoker submits encoded vectors to a loaded regressor.
type Invoker struct {
	model   Regressor
	modelID string
}

// NewInvoker wraps an already-loaded model. The model is never mutated.
// Models without a fingerprint get an identity private to this invoker.
func NewInvoker(model Regressor) *Invoker {
	id := ""
	if fp, ok := model.(Fingerprinter); ok {
		id = fp.Fingerprint()
	}
	if id == "" {
		id = "local-" + uuid.NewString()
	}
	return &Invoker{model: model, modelID: id}
}

// ModelID identifies the loaded model for cache scoping.
func (i *Invoker) ModelID() string {
	if i == nil {
		return ""
	}
	return i.modelID
}

// Predict scores a single vector. Errors from the model are returned as is.
func (i *Invoker) Predict(v FeatureVector) (Price, error) {
	if i == nil || i.model == nil {
		return 0, ErrModelUnavailable
	}
	out, err := i.model.PredictBatch([][]float64{v})
	if err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, ErrEmptyPrediction
	}
	return roundPrice(out[0]), nil
}

// PredictFlightPrice encodes the itinerary and scores it.
func PredictFlightPrice(inv *Invoker, departure, arrival time.Time, stops int, airline, origin, destination string) (Price, error) {
	v := Encode(Itinerary{
		Departure:   departure,
		Arrival:     arrival,
		Stops:       stops,
		Airline:     airline,
		Origin:      origin,
		Destination: destination,
	})
	return inv.Predict(v)
}

// roundPrice scales by 100, rounds half to even and scales back, so a raw
// 2.675 (which scales to exactly 267.5) becomes 2.68.
func roundPrice(x float64) Price {
	return Price(math.RoundToEven(x*100) / 100)
}

// Key returns a stable textual form of the vector, used for caching.
func (v FeatureVector) Key() string {
	var b strings.Builder
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return b.String()
}
