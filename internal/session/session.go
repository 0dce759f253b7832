// Package session keeps per-user state in Redis: the auth session
// (token plus the identity claims pulled from it) and the transient
// conversation state for whichever flow the user is in. Nothing here
// outlives its TTL; there is no local data cache.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"urbannest-bot/internal/models"
)

var ErrTokenExpired = errors.New("auth token expired")

// Session is the resolved identity behind a bearer token. CustomerID
// comes from the token's user_id claim; requests never carry a
// hardcoded account id.
type Session struct {
	Token      string    `json:"token"`
	Email      string    `json:"email"`
	CustomerID int64     `json:"customer_id"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type Store struct {
	rdb      *redis.Client
	stateTTL time.Duration
}

func NewStore(rdb *redis.Client, stateTTL time.Duration) *Store {
	return &Store{rdb: rdb, stateTTL: stateTTL}
}

func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

func sessionKey(userID int64) string { return fmt.Sprintf("sess:%d", userID) }
func stateKey(userID int64) string   { return fmt.Sprintf("state:%d", userID) }

// SaveToken parses the JWT claims and stores the session until the
// token's own expiry.
func (s *Store) SaveToken(ctx context.Context, userID int64, token string) (*Session, error) {
	sess, err := FromToken(token)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}
	ttl := time.Until(sess.ExpiresAt)
	if err := s.rdb.Set(ctx, sessionKey(userID), data, ttl).Err(); err != nil {
		return nil, err
	}
	return sess, nil
}

// Session returns the stored session, or nil when the user never logged
// in (or the entry expired with the token).
func (s *Store) Session(ctx context.Context, userID int64) (*Session, error) {
	data, err := s.rdb.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	if time.Now().After(sess.ExpiresAt) {
		return nil, nil
	}
	return &sess, nil
}

func (s *Store) ClearSession(ctx context.Context, userID int64) error {
	return s.rdb.Del(ctx, sessionKey(userID)).Err()
}

func (s *Store) SetState(ctx context.Context, state *models.UserState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, stateKey(state.UserID), data, s.stateTTL).Err()
}

func (s *Store) State(ctx context.Context, userID int64) (*models.UserState, error) {
	data, err := s.rdb.Get(ctx, stateKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state models.UserState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *Store) ClearState(ctx context.Context, userID int64) error {
	return s.rdb.Del(ctx, stateKey(userID)).Err()
}

// FromToken extracts the identity claims without verifying the
// signature - verification is the backend's job, the client only needs
// user_id and the expiry. Expired tokens are rejected here so a dead
// session never reaches the API.
func FromToken(token string) (*Session, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	sess := &Session{Token: token}
	if email, ok := claims["email"].(string); ok {
		sess.Email = email
	}
	if id, ok := claims["user_id"].(float64); ok {
		sess.CustomerID = int64(id)
	}
	if sess.CustomerID == 0 {
		return nil, fmt.Errorf("token has no user_id claim")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("token has no expiry")
	}
	sess.ExpiresAt = exp.Time
	if time.Now().After(sess.ExpiresAt) {
		return nil, ErrTokenExpired
	}
	return sess, nil
}
