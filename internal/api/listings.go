package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"urbannest-bot/internal/models"
)

// ListListings fetches the whole collection. A missing or null
// "listings" field is an empty collection, not an error.
func (c *Client) ListListings(ctx context.Context) ([]models.Listing, error) {
	var resp struct {
		Listings []models.Listing `json:"listings"`
	}
	if err := c.getJSON(ctx, "/listings", &resp); err != nil {
		return nil, err
	}
	return resp.Listings, nil
}

// GetListing fetches one listing by id. The backend has served both
// {"listing": {...}} and a bare object over time, so both decode.
func (c *Client) GetListing(ctx context.Context, id int64) (*models.Listing, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, fmt.Sprintf("/listings/%d", id), &raw); err != nil {
		return nil, err
	}

	var wrapped struct {
		Listing *models.Listing `json:"listing"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Listing != nil {
		return wrapped.Listing, nil
	}

	var bare models.Listing
	if err := json.Unmarshal(raw, &bare); err != nil {
		return nil, err
	}
	if bare.ID == 0 && bare.Title == "" {
		return nil, fmt.Errorf("listing %d not found", id)
	}
	return &bare, nil
}

// ListingPayload is the create/update body.
type ListingPayload struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Location    string         `json:"location"`
	IsAvailable bool           `json:"is_available"`
	Media       []models.Media `json:"media"`
}

func (c *Client) CreateListing(ctx context.Context, token string, payload ListingPayload) (*models.Listing, error) {
	var raw json.RawMessage
	if err := c.postJSON(ctx, "/listings", token, payload, &raw); err != nil {
		return nil, err
	}

	var wrapped struct {
		Listing *models.Listing `json:"listing"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Listing != nil {
		return wrapped.Listing, nil
	}
	var bare models.Listing
	if err := json.Unmarshal(raw, &bare); err != nil {
		return nil, err
	}
	return &bare, nil
}

func (c *Client) UpdateListing(ctx context.Context, token string, id int64, payload ListingPayload) error {
	return c.putJSON(ctx, fmt.Sprintf("/listings/%d", id), token, payload, nil)
}

// UploadURL asks the backend for a single-use presigned URL for a direct
// PUT to object storage.
func (c *Client) UploadURL(ctx context.Context, filename string) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	path := "/api/upload-url?filename=" + url.QueryEscape(filename)
	if err := c.doJSON(ctx, http.MethodGet, path, "", nil, &resp); err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", fmt.Errorf("empty upload url for %s", filename)
	}
	return resp.URL, nil
}
