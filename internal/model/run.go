package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Run is an archived conversion run
type Run struct {
	ID           int       `json:"-"`
	RID          uuid.UUID `json:"rid"`
	Source       string    `json:"source"`
	Schema       string    `json:"schema"`
	LengthUnit   string    `json:"length_unit"`
	NodeCount    int       `json:"node_count"`
	ElementCount int       `json:"element_count"`
	Summary      Summary   `json:"summary"`
	CreatedAt    time.Time `json:"created_at"`
}

// Value implements the driver.Valuer interface for database storage
func (s Summary) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface for database retrieval
func (s *Summary) Scan(value interface{}) error {
	if value == nil {
		*s = Summary{}
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return errors.New("summary: type assertion to []byte failed")
	}
	return json.Unmarshal(b, s)
}
