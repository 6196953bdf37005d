package domain

import "time"

type Hotel struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Phone       *string   `json:"phone"`
	Email       *string   `json:"email"`
	Website     *string   `json:"website"`
	Description *string   `json:"description"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HotelSummary is the list row: the hotel plus how many inspections it has.
type HotelSummary struct {
	Hotel
	InspectionCount int `json:"inspectionCount"`
}

// HotelDetail carries the hotel with its most recent inspections.
type HotelDetail struct {
	Hotel
	Inspections []InspectionSummary `json:"inspections"`
}
