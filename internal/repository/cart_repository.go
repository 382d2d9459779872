package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"glamour-boutique/internal/domain"

	"github.com/redis/go-redis/v9"
)

// GuestIdentity is the cart identity used when no user is logged in
const GuestIdentity = "guest"

const cartKeyPrefix = "glamour_cart_"

// CartRepository stores one JSON blob of cart lines per identity (the
// lowercased user email, or "guest"). A corrupted blob is treated as an
// empty cart rather than an error, so a bad write can never wedge the
// storefront.
type CartRepository interface {
	Get(ctx context.Context, identity string) ([]domain.CartLine, error)
	Save(ctx context.Context, identity string, lines []domain.CartLine) error
	Clear(ctx context.Context, identity string) error
}

type cartRepository struct {
	client *redis.Client
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(client *redis.Client) CartRepository {
	return &cartRepository{client: client}
}

// CartKey returns the storage key for an identity
func CartKey(identity string) string {
	return cartKeyPrefix + NormalizeIdentity(identity)
}

// NormalizeIdentity lowercases and trims an identity so "User@X.com " and
// "user@x.com" address the same cart
func NormalizeIdentity(identity string) string {
	identity = strings.ToLower(strings.TrimSpace(identity))
	if identity == "" {
		return GuestIdentity
	}
	return identity
}

// Get reads all cart lines for an identity
func (r *cartRepository) Get(ctx context.Context, identity string) ([]domain.CartLine, error) {
	data, err := r.client.Get(ctx, CartKey(identity)).Bytes()
	if err == redis.Nil {
		return []domain.CartLine{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		// Corrupted blob: treated as absent
		return []domain.CartLine{}, nil
	}

	return lines, nil
}

// Save replaces the stored cart for an identity. An empty cart deletes the
// key instead of storing an empty blob.
func (r *cartRepository) Save(ctx context.Context, identity string, lines []domain.CartLine) error {
	if len(lines) == 0 {
		return r.Clear(ctx, identity)
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := r.client.Set(ctx, CartKey(identity), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write cart: %w", err)
	}

	return nil
}

// Clear deletes the cart for an identity
func (r *cartRepository) Clear(ctx context.Context, identity string) error {
	if err := r.client.Del(ctx, CartKey(identity)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
