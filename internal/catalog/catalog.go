package catalog

import (
	"time"

	"github.com/Domenick1991/vshuttle/internal/domain"
)

const (
	// Capacity is the seat count of every shuttle: 10 rows x 5 seats.
	Capacity = 50

	// StopInterval is the scheduled spacing between consecutive stops.
	StopInterval = 10 * time.Minute
)

var routeNames = []string{"Alandur", "Tambaram", "Velachery", "Sholinganallur"}

// baselineOccupied is the pre-seeded occupancy per route. Rider bookings are
// layered on top of this when availability is computed.
var baselineOccupied = map[string][]string{
	"Alandur":        {"A1", "B2", "C4", "D1", "E3", "A5", "C7", "B8"},
	"Tambaram":       {"A2", "C1", "D3", "E2", "B5", "C6", "A9", "D8"},
	"Sholinganallur": {"B1", "C2", "E1", "A4", "D5", "B7", "C9", "E6"},
	"Velachery":      {"C3", "D2", "A3", "E4", "B6", "A8", "C8", "D9"},
}

// Catalog holds the compiled-in route reference data. It is immutable after
// construction; accessors hand out copies.
type Catalog struct {
	routes   map[string]domain.Route
	ordered  []domain.Route
	baseline map[string][]string
}

func New() *Catalog {
	c := &Catalog{
		routes:   make(map[string]domain.Route, len(routeNames)),
		baseline: baselineOccupied,
	}
	for _, name := range routeNames {
		r := domain.Route{
			Name:     name,
			Capacity: Capacity,
			Stops:    stopsTo(name),
		}
		c.routes[name] = r
		c.ordered = append(c.ordered, r)
	}
	return c
}

// Every line runs the same corridor from campus and ends at its namesake stop.
func stopsTo(destination string) []domain.Stop {
	return []domain.Stop{
		{Name: "VIT Campus", Scheduled: "1:30 PM"},
		{Name: "Kelambakkam", Scheduled: "1:40 PM"},
		{Name: "Velachery Toll", Scheduled: "1:50 PM"},
		{Name: destination, Scheduled: "2:00 PM"},
	}
}

// Routes returns all routes in a stable order.
func (c *Catalog) Routes() []domain.Route {
	out := make([]domain.Route, len(c.ordered))
	copy(out, c.ordered)
	return out
}

func (c *Catalog) Get(name string) (domain.Route, error) {
	r, ok := c.routes[name]
	if !ok {
		return domain.Route{}, domain.ErrRouteNotFound
	}
	return r, nil
}

// StopsFor returns the ordered stop sequence of a route.
func (c *Catalog) StopsFor(name string) ([]domain.Stop, error) {
	r, err := c.Get(name)
	if err != nil {
		return nil, err
	}
	stops := make([]domain.Stop, len(r.Stops))
	copy(stops, r.Stops)
	return stops, nil
}

// Baseline returns the pre-seeded occupied seats of a route.
func (c *Catalog) Baseline(name string) ([]string, error) {
	if _, err := c.Get(name); err != nil {
		return nil, err
	}
	seats := c.baseline[name]
	out := make([]string, len(seats))
	copy(out, seats)
	return out, nil
}
