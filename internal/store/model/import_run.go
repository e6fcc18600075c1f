package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Import run status constants
const (
	ImportRunStatusRunning   = "running"
	ImportRunStatusCompleted = "completed"
	ImportRunStatusFailed    = "failed"
)

// ImportRun records one execution of the agency pipeline.
type ImportRun struct {
	ID          uuid.UUID `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	AgencyKey   string    `gorm:"type:VARCHAR(255);not null;index"`
	URL         string    `gorm:"not null"`
	Status      string    `gorm:"type:VARCHAR(50);not null"`
	Stage       string    `gorm:"type:VARCHAR(50)"`
	Error       *string
	RecordCount int64
	StartedAt   time.Time `gorm:"not null"`
	FinishedAt  *time.Time
}

type ImportRunList []ImportRun

func (r ImportRun) String() string {
	val, _ := json.Marshal(r)
	return string(val)
}

func (ImportRun) TableName() string {
	return "import_runs"
}
