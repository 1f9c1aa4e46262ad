// Package stores provides the grocery store catalog and travel estimation
// used by the planner and the /api/stores endpoint.
package stores

import (
	"math"

	"git.home.luguber.info/inful/shopplan/internal/planner"
)

// Catalog is a store source with a full listing.
type Catalog interface {
	planner.StoreSource
	// All returns every store in the catalog.
	All() []planner.Store
}

// StaticCatalog serves a fixed list of stores with a flat travel estimate.
// When a home location is set, All and Nearby annotate stores with their
// haversine distance from it.
type StaticCatalog struct {
	stores            []planner.Store
	travelTimeMinutes int
	homeLat, homeLng  float64
	hasHome           bool
}

// Option configures a StaticCatalog.
type Option func(*StaticCatalog)

// WithHomeLocation enables distance annotation from the given coordinates.
func WithHomeLocation(lat, lng float64) Option {
	return func(c *StaticCatalog) {
		c.homeLat, c.homeLng = lat, lng
		c.hasHome = true
	}
}

// WithStores replaces the built-in store list.
func WithStores(stores []planner.Store) Option {
	return func(c *StaticCatalog) { c.stores = stores }
}

// NewStaticCatalog creates a catalog with the built-in store list.
func NewStaticCatalog(travelTimeMinutes int, opts ...Option) *StaticCatalog {
	if travelTimeMinutes <= 0 {
		travelTimeMinutes = 15
	}
	c := &StaticCatalog{
		stores:            defaultStores(),
		travelTimeMinutes: travelTimeMinutes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// All returns a copy of every store, with distances when a home is set.
func (c *StaticCatalog) All() []planner.Store {
	out := make([]planner.Store, len(c.stores))
	copy(out, c.stores)
	if c.hasHome {
		for i := range out {
			out[i].DistanceKM = roundKM(haversineKM(c.homeLat, c.homeLng, out[i].Lat, out[i].Lng))
		}
	}
	return out
}

// Nearby returns up to limit stores considered close to the location.
func (c *StaticCatalog) Nearby(_ string, limit int) []planner.Store {
	all := c.All()
	if limit > len(all) {
		limit = len(all)
	}
	return all[:limit]
}

// TravelTimeMinutes estimates travel from a location to a store.
func (c *StaticCatalog) TravelTimeMinutes(_ string, _ planner.Store) int {
	return c.travelTimeMinutes
}

const earthRadiusKM = 6371.0

// haversineKM computes the great-circle distance between two coordinates.
func haversineKM(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKM * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func roundKM(km float64) float64 {
	return math.Round(km*10) / 10
}

func defaultStores() []planner.Store {
	return []planner.Store{
		{ID: "1", Name: "Whole Foods Market", Address: "100 Organic St", Lat: 40.7128, Lng: -74.0060},
		{ID: "2", Name: "Trader Joe's", Address: "200 Affordable Ave", Lat: 40.7589, Lng: -73.9851},
		{ID: "3", Name: "Safeway", Address: "300 Convenient Blvd", Lat: 40.7505, Lng: -73.9934},
		{ID: "4", Name: "Target Grocery", Address: "400 Everything Dr", Lat: 40.7282, Lng: -73.7949},
	}
}
