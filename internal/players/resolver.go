// Package players resolves player ids to display names through the user
// endpoint, backed by a process-lifetime cache so every distinct id is looked
// up at most once.
package players

import (
	"context"
	"strings"
)

// UserLookup is the remote side of name resolution.
type UserLookup interface {
	LookupUser(ctx context.Context, playerID string) (string, error)
}

// GuestPolicy decides whether an id is a literal guest name rather than a
// registered account id. Guest names are used as display names without any
// remote lookup.
type GuestPolicy struct {
	// MarkerChars are characters that appear in registered-account ids.
	// An id containing any of them is never treated as a guest name.
	MarkerChars string
	// MaxLen is the length at or above which an id is never a guest name.
	MaxLen int
}

// DefaultGuestPolicy matches how speedrun.com account ids tend to look.
func DefaultGuestPolicy() GuestPolicy {
	return GuestPolicy{MarkerChars: "xj", MaxLen: 8}
}

// IsGuestName reports whether id looks like a guest name under the policy.
func (p GuestPolicy) IsGuestName(id string) bool {
	return !strings.ContainsAny(id, p.MarkerChars) && len(id) < p.MaxLen
}

// Resolver maps player ids to display names with a write-once cache.
type Resolver struct {
	lookup UserLookup
	policy GuestPolicy
	cache  map[string]string
}

// NewResolver creates a resolver around the given lookup.
func NewResolver(lookup UserLookup, policy GuestPolicy) *Resolver {
	return &Resolver{
		lookup: lookup,
		policy: policy,
		cache:  make(map[string]string),
	}
}

// Resolve returns the display name for a player id. Cache hits and guest
// names are answered without I/O; remote lookup failures fall back to the id
// itself. Every distinct id ends up cached exactly once.
func (r *Resolver) Resolve(ctx context.Context, playerID string) string {
	if name, ok := r.cache[playerID]; ok {
		return name
	}

	if r.policy.IsGuestName(playerID) {
		r.cache[playerID] = playerID
		return playerID
	}

	name, err := r.lookup.LookupUser(ctx, playerID)
	if err != nil || name == "" {
		name = playerID
	}

	r.cache[playerID] = name
	return name
}

// Cached reports whether an id has already been resolved.
func (r *Resolver) Cached(playerID string) bool {
	_, ok := r.cache[playerID]
	return ok
}

// Len returns the number of distinct players resolved so far.
func (r *Resolver) Len() int {
	return len(r.cache)
}
