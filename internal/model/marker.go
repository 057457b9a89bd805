package model

import "math"

const (
	DefaultMarkerType     = "N/A"
	DefaultMarkerCategory = "Unknown"
)

// Marker is a venue pinned on the map or saved to the itinerary.
// Two markers are the same place iff latitude and longitude are equal.
type Marker struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Type      string  `json:"type"`
	Category  string  `json:"category"`
}

// NewMarker fills in the default type and category when they are empty.
func NewMarker(name string, lat, lon float64, placeType, category string) Marker {
	if placeType == "" {
		placeType = DefaultMarkerType
	}
	if category == "" {
		category = DefaultMarkerCategory
	}
	return Marker{
		Name:      name,
		Latitude:  lat,
		Longitude: lon,
		Type:      placeType,
		Category:  category,
	}
}

// HasCoordinates reports whether both coordinates are finite numbers.
func (m Marker) HasCoordinates() bool {
	return isFinite(m.Latitude) && isFinite(m.Longitude)
}

// SamePlace compares coordinates exactly, without tolerance.
func (m Marker) SamePlace(other Marker) bool {
	return m.Latitude == other.Latitude && m.Longitude == other.Longitude
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Venue is a seed venue resolved through the geocoder by address.
type Venue struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// MarkerRequest is the body of a toggle request. Coordinates are pointers so
// a marker without coordinates can be told apart from one at 0,0.
type MarkerRequest struct {
	Name      string   `json:"name" validate:"required,min=1,max=120"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
	Type      string   `json:"type" validate:"max=60"`
	Category  string   `json:"category" validate:"max=60"`
}

// Marker converts the request, using NaN for missing coordinates.
func (r MarkerRequest) Marker() Marker {
	lat, lon := math.NaN(), math.NaN()
	if r.Latitude != nil {
		lat = *r.Latitude
	}
	if r.Longitude != nil {
		lon = *r.Longitude
	}
	return NewMarker(r.Name, lat, lon, r.Type, r.Category)
}

type ItineraryResponse struct {
	Markers []Marker `json:"markers"`
	Count   int      `json:"count"`
}

type RouteResponse struct {
	Polyline string `json:"polyline"`
	Points   int    `json:"points"`
}
