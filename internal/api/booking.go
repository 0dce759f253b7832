package api

import (
	"context"

	"urbannest-bot/internal/models"
)

// CreateBooking records a booking after a successful charge. Not
// retried: the payment reference is single-use and the caller surfaces
// this failure as its own terminal state.
func (c *Client) CreateBooking(ctx context.Context, token string, b models.Booking) (*models.Booking, error) {
	var resp struct {
		Booking *models.Booking `json:"booking"`
	}
	if err := c.postJSON(ctx, "/booking", token, b, &resp); err != nil {
		return nil, err
	}
	if resp.Booking == nil {
		// Some deployments echo the record bare.
		return &b, nil
	}
	return resp.Booking, nil
}
