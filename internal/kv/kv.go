// Package kv owns the per-customer persisted collections (cart payload,
// saved addresses, selected address, one-time flags). Absence of a key is a
// valid empty state; readers are responsible for tolerating malformed
// payloads. All operations are synchronous read-modify-write within a single
// handler invocation.
package kv

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("key not found")

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	SetTTL(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Session key layout. One customer session owns one cart, one address book
// and one selected-address pointer.

func CartKey(session string) string {
	return fmt.Sprintf("cart:%s", session)
}

func AddressesKey(session string) string {
	return fmt.Sprintf("addresses:%s", session)
}

func SelectedAddressKey(session string) string {
	return fmt.Sprintf("selected_address:%s", session)
}

func StatusToastKey(session string) string {
	return fmt.Sprintf("status_toast:%s", session)
}

// Login state lives alongside the session keys but is keyed by email (pending
// codes) or by the opaque token handed to the client.

func AuthCodeKey(email string) string {
	return fmt.Sprintf("authcode:%s", email)
}

func AuthTokenKey(token string) string {
	return fmt.Sprintf("authtoken:%s", token)
}
