package fare

import "time"

// Offsets of each segment inside a FeatureVector.
const (
	idxStops = iota
	idxJourneyDay
	idxJourneyMonth
	idxDepHour
	idxDepMinute
	idxArrHour
	idxArrMinute
	idxDurHour
	idxDurMinute
	idxAirline
)

var (
	idxOrigin      = idxAirline + Airlines.Width()
	idxDestination = idxOrigin + Origins.Width()

	// FeatureWidth is the number of columns the regressor was trained on.
	FeatureWidth = idxDestination + Destinations.Width()
)

// FeatureVector is the ordered model input for one itinerary.
type FeatureVector []float64

// Itinerary is a raw flight description. Times are read as naive wall-clock
// values; no zone conversion is applied.
type Itinerary struct {
	Departure   time.Time
	Arrival     time.Time
	Stops       int
	Airline     string
	Origin      string
	Destination string
}

// Encode maps an itinerary to the model's feature layout. It never fails:
// unknown categories encode as zero segments.
//
// Duration is |arrHour-depHour| and |arrMinute-depMinute| computed
// independently, without day rollover or borrowing. The model was fit on
// features built this way, so it must not be corrected here.
func Encode(it Itinerary) FeatureVector {
	v := make(FeatureVector, FeatureWidth)

	v[idxStops] = float64(it.Stops)
	v[idxJourneyDay] = float64(it.Departure.Day())
	v[idxJourneyMonth] = float64(it.Departure.Month())

	depHour, depMinute := it.Departure.Hour(), it.Departure.Minute()
	arrHour, arrMinute := it.Arrival.Hour(), it.Arrival.Minute()
	v[idxDepHour] = float64(depHour)
	v[idxDepMinute] = float64(depMinute)
	v[idxArrHour] = float64(arrHour)
	v[idxArrMinute] = float64(arrMinute)
	v[idxDurHour] = float64(absInt(arrHour - depHour))
	v[idxDurMinute] = float64(absInt(arrMinute - depMinute))

	copy(v[idxAirline:idxOrigin], Airlines.OneHot(it.Airline))
	copy(v[idxOrigin:idxDestination], Origins.OneHot(it.Origin))
	copy(v[idxDestination:], Destinations.OneHot(it.Destination))
	return v
}

// Segments of the vector, returned as sub-slices sharing v's storage.
func (v FeatureVector) AirlineSegment() []float64 { return v[idxAirline:idxOrigin] }

func (v FeatureVector) OriginSegment() []float64 { return v[idxOrigin:idxDestination] }

func (v FeatureVector) DestinationSegment() []float64 { return v[idxDestination:] }

// DurationHours and DurationMinutes return the approximated duration fields.
func (v FeatureVector) DurationHours() float64 { return v[idxDurHour] }

func (v FeatureVector) DurationMinutes() float64 { return v[idxDurMinute] }

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
