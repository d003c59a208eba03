package fare

// Category is an ordered, fixed enumeration. A name's position in the list
// is the index of its 1 in the one-hot segment.
type Category struct {
	name   string
	values []string
	index  map[string]int
}

func newCategory(name string, values ...string) Category {
	index := make(map[string]int, len(values))
	for i, v := range values {
		index[v] = i
	}
	return Category{name: name, values: values, index: index}
}

var (
	// Airlines in model column order.
	Airlines = newCategory("airline",
		"Jet Airways",
		"IndiGo",
		"Air India",
		"Multiple carriers",
		"SpiceJet",
		"Vistara",
		"GoAir",
		"Multiple carriers Premium economy",
		"Jet Airways Business",
		"Vistara Premium economy",
		"Trujet",
	)
	// Origins (the "Source" column of the training data).
	Origins = newCategory("origin",
		"Delhi",
		"Kolkata",
		"Mumbai",
		"Chennai",
	)
	// Destinations in model column order.
	Destinations = newCategory("destination",
		"Cochin",
		"Delhi",
		"New Delhi",
		"Hyderabad",
		"Kolkata",
	)
)

// StopOptions lists the stop counts offered to users. The encoder accepts any value.
var StopOptions = []int{0, 1, 2, 3}

// Name identifies the category in logs and responses.
func (c Category) Name() string { return c.name }

// Width is the length of the one-hot segment.
func (c Category) Width() int { return len(c.values) }

// Values returns a copy of the names in encoding order.
func (c Category) Values() []string {
	out := make([]string, len(c.values))
	copy(out, c.values)
	return out
}

// Index reports the position of value. Matching is exact.
func (c Category) Index(value string) (int, bool) {
	i, ok := c.index[value]
	return i, ok
}

// Contains reports whether value is a known member.
func (c Category) Contains(value string) bool {
	_, ok := c.index[value]
	return ok
}

// OneHot returns a vector of Width() with a single 1 at the value's index.
// Unknown values produce all zeros.
func (c Category) OneHot(value string) []float64 {
	out := make([]float64, len(c.values))
	if i, ok := c.index[value]; ok {
		out[i] = 1
	}
	return out
}

// Catalog is the set of selectable options served to clients.
type Catalog struct {
	Airlines     []string `json:"airlines"`
	Origins      []string `json:"origins"`
	Destinations []string `json:"destinations"`
	Stops        []int    `json:"stops"`
}

// DefaultCatalog mirrors the encoder tables.
func DefaultCatalog() Catalog {
	stops := make([]int, len(StopOptions))
	copy(stops, StopOptions)
	return Catalog{
		Airlines:     Airlines.Values(),
		Origins:      Origins.Values(),
		Destinations: Destinations.Values(),
		Stops:        stops,
	}
}
