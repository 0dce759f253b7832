package api

import (
	"context"
	"fmt"
)

type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// Signup creates an account and returns the issued token.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.postJSON(ctx, "/signup", "", req, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("signup succeeded but no token returned")
	}
	return resp.Token, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.postJSON(ctx, "/login", "", body, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login succeeded but no token returned")
	}
	return resp.Token, nil
}

// VerifyEmail asks the deliverability service whether the address
// exists. Status is "valid" when it does; anything else blocks signup
// while the check is enabled.
func (c *Client) VerifyEmail(ctx context.Context, email string) (string, error) {
	body := map[string]string{"email": email}
	var resp struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := c.postJSON(ctx, "/verify-email", "", body, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return resp.Status, fmt.Errorf("%s", resp.Error)
	}
	return resp.Status, nil
}
