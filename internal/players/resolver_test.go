package players

import (
	"context"
	"errors"
	"testing"
)

type fakeLookup struct {
	names map[string]string
	err   error
	calls int
}

func (f *fakeLookup) LookupUser(_ context.Context, playerID string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.names[playerID], nil
}

func TestResolve_RemoteLookupCachedOnce(t *testing.T) {
	lookup := &fakeLookup{names: map[string]string{"px8k2j1q": "SpeedKing"}}
	resolver := NewResolver(lookup, DefaultGuestPolicy())

	first := resolver.Resolve(context.Background(), "px8k2j1q")
	second := resolver.Resolve(context.Background(), "px8k2j1q")

	if first != "SpeedKing" || second != "SpeedKing" {
		t.Errorf("expected SpeedKing both times, got %q then %q", first, second)
	}
	if lookup.calls != 1 {
		t.Errorf("expected exactly 1 remote lookup, got %d", lookup.calls)
	}
	if resolver.Len() != 1 {
		t.Errorf("expected 1 cached entry, got %d", resolver.Len())
	}
}

func TestResolve_GuestNameSkipsLookup(t *testing.T) {
	lookup := &fakeLookup{}
	resolver := NewResolver(lookup, DefaultGuestPolicy())

	// No marker chars and short: a literal guest name.
	name := resolver.Resolve(context.Background(), "Bob")

	if name != "Bob" {
		t.Errorf("expected guest name returned unchanged, got %q", name)
	}
	if lookup.calls != 0 {
		t.Errorf("expected no remote lookup for a guest name, got %d", lookup.calls)
	}
	if !resolver.Cached("Bob") {
		t.Error("expected guest name to be cached")
	}
}

func TestResolve_LookupFailureFallsBackToID(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("boom")}
	resolver := NewResolver(lookup, DefaultGuestPolicy())

	name := resolver.Resolve(context.Background(), "px8k2j1q")

	if name != "px8k2j1q" {
		t.Errorf("expected fallback to id, got %q", name)
	}

	// The failure is cached too; no second lookup.
	resolver.Resolve(context.Background(), "px8k2j1q")
	if lookup.calls != 1 {
		t.Errorf("expected 1 lookup despite failure, got %d", lookup.calls)
	}
}

func TestResolve_EmptyNameFallsBackToID(t *testing.T) {
	lookup := &fakeLookup{names: map[string]string{}}
	resolver := NewResolver(lookup, DefaultGuestPolicy())

	if name := resolver.Resolve(context.Background(), "px8k2j1q"); name != "px8k2j1q" {
		t.Errorf("expected id fallback for empty remote name, got %q", name)
	}
}

func TestGuestPolicy(t *testing.T) {
	policy := DefaultGuestPolicy()

	cases := []struct {
		id    string
		guest bool
	}{
		{"Bob", true},          // short, no markers
		{"player1", true},      // short, no markers
		{"px8k2j1q", false},    // contains x and j
		{"abcdefgh", false},    // 8 chars, too long
		{"mr_x", false},        // contains x
		{"jon", false},         // contains j
		{"zzzzzzz", true},      // 7 chars, no markers
	}

	for _, tc := range cases {
		if got := policy.IsGuestName(tc.id); got != tc.guest {
			t.Errorf("IsGuestName(%q) = %v, want %v", tc.id, got, tc.guest)
		}
	}
}

func TestGuestPolicy_Configurable(t *testing.T) {
	policy := GuestPolicy{MarkerChars: "q", MaxLen: 4}

	if !policy.IsGuestName("Bob") {
		t.Error("expected Bob to be a guest under MaxLen 4")
	}
	if policy.IsGuestName("Bobby") {
		t.Error("expected Bobby to be too long under MaxLen 4")
	}
	if policy.IsGuestName("qqq") {
		t.Error("expected qqq to carry a marker char")
	}
}
