package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// Caterer is a food vendor with a physical location and a weekly
// operating schedule. Name and email are unique across the system.
type Caterer struct {
	ID           uuid.UUID
	Name         string // Unique vendor name.
	Description  string
	Manager      string
	Email        string // Unique contact email.
	Phone        string
	Location     Location
	WorkingTimes WorkingTimes
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks the invariants a caterer record must satisfy before it
// can be persisted or snapshotted: a valid geo point and a well-formed
// weekly schedule.
func (c *Caterer) Validate() error {
	if c.Name == "" {
		return errors.New("caterer name is required")
	}
	if c.Email == "" {
		return errors.New("caterer email is required")
	}
	if err := c.Location.Geo.Validate(); err != nil {
		return errors.Wrap(err, "caterer location")
	}
	if err := c.WorkingTimes.Validate(); err != nil {
		return errors.Wrap(err, "caterer working times")
	}

	return nil
}

// Location combines a human-readable address with a GeoJSON point.
type Location struct {
	Address Address `json:"address"`
	Geo     Geo     `json:"geo"`
}

// Address is the human-readable part of a caterer location.
type Address struct {
	Label       string `json:"label"`
	HouseNumber string `json:"houseNumber"`
	Street      string `json:"street"`
	City        string `json:"city"`
	PostalCode  int    `json:"postalCode"`
	State       string `json:"state"`
	Country     string `json:"country"`
}

// Geo is a GeoJSON point. Coordinates are [longitude, latitude] per the
// GeoJSON convention, matching the persisted record shape.
type Geo struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// GeoPointType is the only geometry type a caterer location may carry.
const GeoPointType = "Point"

// NewGeoPoint builds a GeoJSON point from a longitude/latitude pair.
func NewGeoPoint(lng, lat float64) Geo {
	return Geo{Type: GeoPointType, Coordinates: [2]float64{lng, lat}}
}

// Point converts the GeoJSON representation to an orb.Point.
func (g Geo) Point() orb.Point {
	return orb.Point{g.Coordinates[0], g.Coordinates[1]}
}

// Lng returns the longitude component.
func (g Geo) Lng() float64 { return g.Coordinates[0] }

// Lat returns the latitude component.
func (g Geo) Lat() float64 { return g.Coordinates[1] }

// Validate checks that the point is a well-formed WGS84 coordinate.
func (g Geo) Validate() error {
	if g.Type != GeoPointType {
		return errors.Errorf("geo type must be %q, got %q", GeoPointType, g.Type)
	}
	lng, lat := g.Lng(), g.Lat()
	if lng < -180 || lng > 180 {
		return errors.Errorf("longitude %f out of range [-180, 180]", lng)
	}
	if lat < -90 || lat > 90 {
		return errors.Errorf("latitude %f out of range [-90, 90]", lat)
	}

	return nil
}
