package fare

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEncodeReferenceItinerary(t *testing.T) {
	v := Encode(Itinerary{
		Departure:   mustTime(t, "2024-03-10 09:15"),
		Arrival:     mustTime(t, "2024-03-10 14:45"),
		Stops:       1,
		Airline:     "IndiGo",
		Origin:      "Delhi",
		Destination: "Cochin",
	})

	want := FeatureVector{
		1, 10, 3, 9, 15, 14, 45, 5, 30,
		0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		1, 0, 0, 0,
		1, 0, 0, 0, 0,
	}
	require.Equal(t, want, v)
}

func TestEncodeWidthIsFixed(t *testing.T) {
	require.Equal(t, 29, FeatureWidth)
	require.Equal(t, 11, Airlines.Width())
	require.Equal(t, 4, Origins.Width())
	require.Equal(t, 5, Destinations.Width())

	inputs := []Itinerary{
		{},
		{Airline: "Unknown Airline", Origin: "Pune", Destination: "Goa"},
		{Airline: "Trujet", Origin: "Chennai", Destination: "Kolkata", Stops: 3},
	}
	for _, it := range inputs {
		require.Len(t, Encode(it), FeatureWidth)
	}
}

func TestEncodeOneHotSegments(t *testing.T) {
	base := Itinerary{
		Departure: mustTime(t, "2024-01-01 00:00"),
		Arrival:   mustTime(t, "2024-01-01 00:00"),
	}

	for i, name := range Airlines.Values() {
		it := base
		it.Airline = name
		assertOneHot(t, Encode(it).AirlineSegment(), i, name)
	}
	for i, name := range Origins.Values() {
		it := base
		it.Origin = name
		assertOneHot(t, Encode(it).OriginSegment(), i, name)
	}
	for i, name := range Destinations.Values() {
		it := base
		it.Destination = name
		assertOneHot(t, Encode(it).DestinationSegment(), i, name)
	}
}

func TestEncodeUnknownCategoriesAreZero(t *testing.T) {
	tests := []struct {
		name string
		it   Itinerary
	}{
		{"unknown airline", Itinerary{Airline: "Unknown Airline", Origin: "Delhi", Destination: "Cochin"}},
		{"case sensitive", Itinerary{Airline: "indigo", Origin: "delhi", Destination: "cochin"}},
		{"whitespace sensitive", Itinerary{Airline: " IndiGo", Origin: "Delhi ", Destination: "New  Delhi"}},
		{"empty", Itinerary{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := Encode(tc.it)
			require.Len(t, v, FeatureWidth)
			if !Airlines.Contains(tc.it.Airline) {
				require.Equal(t, make([]float64, 11), v.AirlineSegment())
			}
			if !Origins.Contains(tc.it.Origin) {
				require.Equal(t, make([]float64, 4), v.OriginSegment())
			}
			if !Destinations.Contains(tc.it.Destination) {
				require.Equal(t, make([]float64, 5), v.DestinationSegment())
			}
		})
	}
}

func TestEncodeMumbaiToDelhi(t *testing.T) {
	v := Encode(Itinerary{Origin: "Mumbai", Destination: "Delhi"})
	require.Equal(t, []float64{0, 0, 1, 0}, v.OriginSegment())
	require.Equal(t, []float64{0, 1, 0, 0, 0}, v.DestinationSegment())
}

func TestEncodeDurationIsComponentDifference(t *testing.T) {
	tests := []struct {
		name      string
		departure string
		arrival   string
		hours     float64
		minutes   float64
	}{
		{"overnight does not wrap", "2024-03-10 23:00", "2024-03-11 01:00", 22, 0},
		{"no minute borrow", "2024-03-10 09:50", "2024-03-10 11:05", 2, 45},
		{"arrival before departure", "2024-03-10 14:45", "2024-03-10 09:15", 5, 30},
		{"multi day ignored", "2024-03-10 08:00", "2024-03-12 08:00", 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := Encode(Itinerary{
				Departure: mustTime(t, tc.departure),
				Arrival:   mustTime(t, tc.arrival),
			})
			require.Equal(t, tc.hours, v.DurationHours())
			require.Equal(t, tc.minutes, v.DurationMinutes())
		})
	}
}

func TestEncodeStopsPassThrough(t *testing.T) {
	for _, stops := range []int{0, 2, 7, -1} {
		v := Encode(Itinerary{Stops: stops})
		require.Equal(t, float64(stops), v[0])
	}
}

func TestEncodeUsesWallClockFields(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)
	v := Encode(Itinerary{
		Departure: time.Date(2024, 12, 31, 23, 30, 0, 0, ist),
		Arrival:   time.Date(2025, 1, 1, 2, 10, 0, 0, ist),
	})
	require.Equal(t, FeatureVector{0, 31, 12, 23, 30, 2, 10, 21, 20}, v[:9])
}

func TestEncodeIsDeterministic(t *testing.T) {
	it := Itinerary{
		Departure:   mustTime(t, "2024-06-01 06:05"),
		Arrival:     mustTime(t, "2024-06-01 10:40"),
		Stops:       2,
		Airline:     "Vistara Premium economy",
		Origin:      "Kolkata",
		Destination: "New Delhi",
	}
	first := Encode(it)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Encode(it))
	}
	require.Equal(t, first.Key(), Encode(it).Key())
}

func TestEncodeSegmentsDoNotAliasTables(t *testing.T) {
	v := Encode(Itinerary{Airline: "Jet Airways"})
	v.AirlineSegment()[0] = 42
	require.Equal(t, float64(1), Encode(Itinerary{Airline: "Jet Airways"}).AirlineSegment()[0])
}

func assertOneHot(t *testing.T, segment []float64, want int, name string) {
	t.Helper()
	ones := 0
	for i, x := range segment {
		switch x {
		case 1:
			ones++
			require.Equal(t, want, i, "category %q", name)
		case 0:
		default:
			t.Fatalf("category %q: unexpected value %v at %d", name, x, i)
		}
	}
	require.Equal(t, 1, ones, "category %q", name)
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", value)
	require.NoError(t, err)
	return ts
}
