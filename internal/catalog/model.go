// Package catalog manages the medical departments ("services") that
// appointments are booked against.
package catalog

import (
	"time"

	"github.com/google/uuid"
)

type Service struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`

	// KeyServices is the ordered list of headline offerings shown on the
	// service card.
	KeyServices []string `json:"keyServices"`

	// IconName is resolved against the UI icon library at render time; the
	// backend treats it as an opaque identifier.
	IconName string `json:"iconName"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
