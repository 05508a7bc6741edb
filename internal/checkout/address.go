package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmoreira/storefront/internal/kv"
)

// Address is a saved delivery address. CreatedAt is epoch millis; it is
// refreshed when a duplicate save touches the record.
type Address struct {
	ID         string `json:"id"`
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	CEP        string `json:"cep"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	District   string `json:"district"`
	Complement string `json:"complement,omitempty"`
	CreatedAt  int64  `json:"createdAt"`
}

// SameLocation implements the duplicate rule: digits-only CEP plus
// case/space-insensitive street, number, district and complement.
func (a Address) SameLocation(b Address) bool {
	fold := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	return DigitsOnly(a.CEP) == DigitsOnly(b.CEP) &&
		fold(a.Street) == fold(b.Street) &&
		fold(a.Number) == fold(b.Number) &&
		fold(a.District) == fold(b.District) &&
		fold(a.Complement) == fold(b.Complement)
}

// AddressBook stores the saved-address collection and the selected-address
// pointer in the session key-value store.
type AddressBook struct {
	store kv.Store
}

func NewAddressBook(store kv.Store) *AddressBook {
	return &AddressBook{store: store}
}

// List returns the saved addresses, newest first. Malformed or non-array
// payloads read as an empty collection.
func (b *AddressBook) List(ctx context.Context, session string) ([]Address, error) {
	raw, err := b.store.Get(ctx, kv.AddressesKey(session))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read addresses: %w", err)
	}

	var parsed []*Address
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, nil
	}

	var list []Address
	for _, a := range parsed {
		if a != nil {
			list = append(list, *a)
		}
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt > list[j].CreatedAt
	})
	return list, nil
}

// Upsert saves addr after a successful submission. A duplicate (by
// SameLocation) updates the existing record in place, refreshing its
// timestamp, instead of inserting a second copy. The chosen record becomes
// the selected address; its id is returned.
func (b *AddressBook) Upsert(ctx context.Context, session string, addr Address) (string, error) {
	list, err := b.List(ctx, session)
	if err != nil {
		return "", err
	}

	addr.FullName = strings.TrimSpace(addr.FullName)
	addr.Phone = strings.TrimSpace(addr.Phone)
	addr.CEP = strings.TrimSpace(addr.CEP)
	addr.Street = strings.TrimSpace(addr.Street)
	addr.Number = strings.TrimSpace(addr.Number)
	addr.District = strings.TrimSpace(addr.District)
	addr.Complement = strings.TrimSpace(addr.Complement)
	addr.CreatedAt = time.Now().UnixMilli()

	chosenID := ""
	for i, existing := range list {
		if existing.SameLocation(addr) {
			addr.ID = existing.ID
			list[i] = addr
			chosenID = existing.ID
			break
		}
	}
	if chosenID == "" {
		addr.ID = uuid.NewString()
		list = append([]Address{addr}, list...)
		chosenID = addr.ID
	}

	if err := b.save(ctx, session, list); err != nil {
		return "", err
	}
	if err := b.store.Set(ctx, kv.SelectedAddressKey(session), chosenID); err != nil {
		return "", fmt.Errorf("select address: %w", err)
	}
	return chosenID, nil
}

// Select marks id as the active address for the session.
func (b *AddressBook) Select(ctx context.Context, session, id string) error {
	if err := b.store.Set(ctx, kv.SelectedAddressKey(session), id); err != nil {
		return fmt.Errorf("select address: %w", err)
	}
	return nil
}

// Selected resolves the active address, if any. A dangling pointer (the
// record was deleted) reads as no selection.
func (b *AddressBook) Selected(ctx context.Context, session string) (*Address, error) {
	id, err := b.store.Get(ctx, kv.SelectedAddressKey(session))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read selected address: %w", err)
	}

	list, err := b.List(ctx, session)
	if err != nil {
		return nil, err
	}
	for _, a := range list {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, nil
}

// ClearSelection drops the selected-address pointer, as when the user opts
// to enter a new address.
func (b *AddressBook) ClearSelection(ctx context.Context, session string) error {
	if err := b.store.Del(ctx, kv.SelectedAddressKey(session)); err != nil {
		return fmt.Errorf("clear selected address: %w", err)
	}
	return nil
}

// Delete removes the address with the given id. Deleting the selected
// address clears the selection.
func (b *AddressBook) Delete(ctx context.Context, session, id string) error {
	list, err := b.List(ctx, session)
	if err != nil {
		return err
	}

	kept := list[:0]
	for _, a := range list {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	if err := b.save(ctx, session, kept); err != nil {
		return err
	}

	selected, err := b.store.Get(ctx, kv.SelectedAddressKey(session))
	if err == nil && selected == id {
		return b.ClearSelection(ctx, session)
	}
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("read selected address: %w", err)
	}
	return nil
}

func (b *AddressBook) save(ctx context.Context, session string, list []Address) error {
	if len(list) == 0 {
		if err := b.store.Del(ctx, kv.AddressesKey(session)); err != nil {
			return fmt.Errorf("clear addresses: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode addresses: %w", err)
	}
	if err := b.store.Set(ctx, kv.AddressesKey(session), string(data)); err != nil {
		return fmt.Errorf("write addresses: %w", err)
	}
	return nil
}
