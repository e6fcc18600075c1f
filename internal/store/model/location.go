package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Location is a [longitude, latitude] pair. The longitude comes first so the
// stored value can be fed to geospatial indexes as is.
type Location [2]float64

func NewLocation(lon, lat float64) Location {
	return Location{lon, lat}
}

func (l Location) Lon() float64 {
	return l[0]
}

func (l Location) Lat() float64 {
	return l[1]
}

func (l Location) Value() (driver.Value, error) {
	b, err := json.Marshal([2]float64(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *Location) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("Location.Scan: expected string or []byte, got %T", value)
	}
	var pair [2]float64
	if err := json.Unmarshal(raw, &pair); err != nil {
		return fmt.Errorf("Location.Scan: %w", err)
	}
	*l = pair
	return nil
}

func (Location) GormDataType() string {
	return "text"
}

// Bounds is the south-west/north-east box enclosing a set of locations.
type Bounds struct {
	SW Location `json:"sw"`
	NE Location `json:"ne"`
}

// Center returns the midpoint of the box, computed per axis as sw + (ne - sw) / 2.
func (b Bounds) Center() Location {
	return Location{
		(b.NE[0]-b.SW[0])/2 + b.SW[0],
		(b.NE[1]-b.SW[1])/2 + b.SW[1],
	}
}

// Contains reports whether loc lies inside the box, edges included.
func (b Bounds) Contains(loc Location) bool {
	return loc[0] >= b.SW[0] && loc[0] <= b.NE[0] && loc[1] >= b.SW[1] && loc[1] <= b.NE[1]
}

func (b Bounds) Value() (driver.Value, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (b *Bounds) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("Bounds.Scan: expected string or []byte, got %T", value)
	}
	return json.Unmarshal(raw, b)
}

func (Bounds) GormDataType() string {
	return "text"
}
