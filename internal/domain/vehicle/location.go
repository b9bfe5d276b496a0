package vehicle

import "fmt"

// Address is a reverse-geocoded postal address.
type Address struct {
	Line  string `json:"address"`
	City  string `json:"city"`
	State string `json:"state"`
	Zip   string `json:"zip"`
}

// Location places a vehicle on the map. Only the coordinates are stored;
// the address block is derived from them on every enriched read.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`

	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
}

// NewLocation returns a location holding only the given coordinates.
func NewLocation(lat, lon float64) Location {
	return Location{Latitude: lat, Longitude: lon}
}

// Validate checks that the coordinates are on the globe.
func (l Location) Validate() error {
	return ValidateCoordinates(l.Latitude, l.Longitude)
}

// Coordinates returns a copy of l without the derived address block.
func (l Location) Coordinates() Location {
	return NewLocation(l.Latitude, l.Longitude)
}

// WithAddress returns a copy of l with the derived block replaced by a.
func (l Location) WithAddress(a Address) Location {
	l.Address = a.Line
	l.City = a.City
	l.State = a.State
	l.Zip = a.Zip
	return l
}

// ValidateCoordinates checks latitude and longitude ranges.
func ValidateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("invalid latitude: %f", lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("invalid longitude: %f", lon)
	}
	return nil
}
