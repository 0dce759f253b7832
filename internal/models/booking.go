package models

// UserState is the per-user conversation scratch held in Redis for the
// lifetime of one flow. Exactly one draft is populated at a time,
// matching the current Step prefix.
type UserState struct {
	UserID  int64         `json:"user_id"`
	Step    string        `json:"step"`
	Booking *BookingDraft `json:"booking,omitempty"`
	Listing *ListingDraft `json:"listing,omitempty"`
	Signup  *SignupDraft  `json:"signup,omitempty"`
	Login   *LoginDraft   `json:"login,omitempty"`
}

// BookingDraft accumulates the booking form. Dates are calendar dates in
// ISO form (2006-01-02); the checkout date is exclusive.
type BookingDraft struct {
	ListingID    int64   `json:"listing_id"`
	ListingTitle string  `json:"listing_title"`
	NightlyPrice float64 `json:"nightly_price"`
	Email        string  `json:"email" validate:"required,nest_email"`
	Name         string  `json:"name" validate:"required"`
	Phone        string  `json:"phone" validate:"required,booking_phone"`
	CheckIn      string  `json:"check_in" validate:"required"`
	CheckOut     string  `json:"check_out" validate:"required"`
	Payload      string  `json:"payload,omitempty"` // invoice payload once issued
}

// PhotoRef is a file the user attached in a create/edit flow, still
// sitting on Telegram's servers until the upload pipeline runs.
type PhotoRef struct {
	FileID      string `json:"file_id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
}

type ListingDraft struct {
	EditID      int64      `json:"edit_id,omitempty"` // 0 for create
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description" validate:"required"`
	Price       float64    `json:"price" validate:"required,gt=0"`
	Location    string     `json:"location" validate:"required"`
	Photos      []PhotoRef `json:"photos,omitempty"`
	// Edit flow only: media already on the listing and the keys the user
	// chose to remove. The final payload is Existing minus Removed plus
	// whatever Photos upload to.
	Existing []Media  `json:"existing,omitempty"`
	Removed  []string `json:"removed,omitempty"`
}

// KeptMedia returns Existing with every removed item excluded, by
// identity.
func (d *ListingDraft) KeptMedia() []Media {
	removed := make(map[string]struct{}, len(d.Removed))
	for _, k := range d.Removed {
		removed[k] = struct{}{}
	}
	kept := make([]Media, 0, len(d.Existing))
	for _, m := range d.Existing {
		if _, gone := removed[m.Key()]; !gone {
			kept = append(kept, m)
		}
	}
	return kept
}

type SignupDraft struct {
	Email       string `json:"email" validate:"required,nest_email"`
	Password    string `json:"password" validate:"required,nest_password"`
	FirstName   string `json:"first_name" validate:"required,letters_name"`
	LastName    string `json:"last_name" validate:"required,letters_name"`
	Phone       string `json:"phone" validate:"required,e164_loose"`
	EmailStatus string `json:"email_status,omitempty"` // "", "valid", "error"
}

type LoginDraft struct {
	Email string `json:"email"`
}
