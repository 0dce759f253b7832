package models

import "strconv"

// Media is one attachment on a listing: an object-storage key plus a
// coarse type tag. The fetchable URL is the storage base URL + MediaURL.
type Media struct {
	ID        int64  `json:"id,omitempty"`
	MediaURL  string `json:"media_url"`
	MediaType string `json:"media_type"`
}

// Key identifies a media item for removal in the edit flow. Items loaded
// from the API carry a numeric ID; freshly uploaded ones only have their
// storage key.
func (m Media) Key() string {
	if m.ID != 0 {
		return "id:" + strconv.FormatInt(m.ID, 10)
	}
	return "url:" + m.MediaURL
}

type Listing struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Location    string  `json:"location"`
	IsAvailable bool    `json:"is_available"`
	Media       []Media `json:"media"`
}

type Booking struct {
	ID               int64  `json:"id,omitempty"`
	ListingID        int64  `json:"listing_id"`
	CustomerID       int64  `json:"customer_id"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	Status           string `json:"status"`
	PaymentReference string `json:"payment_reference"`
}

const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)
