package model

import "time"

// Fridge represents a tracked community refrigerator location.
type Fridge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address,omitempty"`
	Contact     string    `json:"contact,omitempty"`
	Capacity    string    `json:"capacity,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	Status      string    `json:"status"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	PhotoMime   string    `json:"photo_mime,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}
