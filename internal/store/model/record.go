package model

import "gorm.io/datatypes"

// Record is a typed, enriched row of one GTFS file.
type Record interface {
	TableName() string
	SetAgencyKey(key string)
	SetExtras(extras datatypes.JSONMap)
}

// Located is implemented by records carrying a geographic point.
type Located interface {
	Location() *Location
}

// Base holds the columns shared by every imported record. Extras keeps the
// non-empty feed columns that the typed schema does not name.
type Base struct {
	ID        uint              `gorm:"primaryKey;autoIncrement" json:"-"`
	AgencyKey string            `gorm:"column:agency_key;type:VARCHAR(255);not null;index" json:"agency_key"`
	Extras    datatypes.JSONMap `gorm:"column:extras" json:"extras,omitempty"`
}

func (b *Base) SetAgencyKey(key string) {
	b.AgencyKey = key
}

func (b *Base) SetExtras(extras datatypes.JSONMap) {
	if len(extras) == 0 {
		b.Extras = nil
		return
	}
	b.Extras = extras
}
