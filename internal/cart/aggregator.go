package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmoreira/storefront/internal/kv"
)

// Aggregator owns the persisted cart collection for every session. All
// operations are synchronous read-modify-write; there are no concurrent
// writers within a session.
type Aggregator struct {
	store kv.Store
}

func NewAggregator(store kv.Store) *Aggregator {
	return &Aggregator{store: store}
}

// Add merges item into the persisted cart. An existing line with the same
// merge key has its quantity incremented and its fields overwritten by the
// incoming item, except the image reference, which falls back through the
// incoming fields to the existing ones so a known image never gets lost by a
// call that omits it.
func (a *Aggregator) Add(ctx context.Context, session string, item Line) error {
	lines, err := a.readRaw(ctx, session)
	if err != nil {
		return err
	}

	qtyToAdd := item.Qty
	if qtyToAdd <= 0 {
		qtyToAdd = 1
	}

	key := item.MergeKey()
	idx := -1
	for i, l := range lines {
		if l.MergeKey() == key {
			idx = i
			break
		}
	}

	if idx >= 0 {
		existing := lines[idx]
		merged := item
		merged.Qty = existing.Qty + qtyToAdd
		merged.Image = firstNonEmpty(item.Image, item.Img, existing.Image, existing.Img)
		merged.Img = firstNonEmpty(item.Img, item.Image, existing.Img, existing.Image)
		lines[idx] = merged
	} else {
		line := item
		line.Qty = qtyToAdd
		line.Image = firstNonEmpty(item.Image, item.Img)
		line.Img = firstNonEmpty(item.Img, item.Image)
		lines = append(lines, line)
	}

	return a.persist(ctx, session, lines)
}

// Load reads the persisted payload, collapses duplicate keys by summing
// quantities and backfilling missing image/subtitle/note from later entries,
// writes the canonical collection back (self-healing any drift) and removes
// the key entirely when the result is empty.
func (a *Aggregator) Load(ctx context.Context, session string) ([]Line, error) {
	raw, err := a.readRaw(ctx, session)
	if err != nil {
		return nil, err
	}

	var (
		order  []string
		merged = make(map[string]Line)
	)
	for _, l := range raw {
		key := l.MergeKey()
		existing, ok := merged[key]
		if !ok {
			if l.Name == "" {
				l.Name = "Item"
			}
			merged[key] = l
			order = append(order, key)
			continue
		}

		existing.Qty += l.Qty
		existing.Image = firstNonEmpty(existing.Image, l.Image)
		existing.Img = firstNonEmpty(existing.Img, l.Img)
		existing.Subtitle = firstNonEmpty(existing.Subtitle, l.Subtitle)
		existing.Note = firstNonEmpty(existing.Note, l.Note)
		merged[key] = existing
	}

	lines := make([]Line, 0, len(order))
	for _, key := range order {
		lines = append(lines, merged[key])
	}

	if err := a.persist(ctx, session, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// SetQuantity applies delta to the line matching target's merge key. The
// quantity floors at 1: decrementing below 1 is a no-op, never an implicit
// removal.
func (a *Aggregator) SetQuantity(ctx context.Context, session string, target Line, delta int) ([]Line, error) {
	lines, err := a.Load(ctx, session)
	if err != nil {
		return nil, err
	}

	key := target.MergeKey()
	for i, l := range lines {
		if l.MergeKey() != key {
			continue
		}
		qty := l.Qty + delta
		if qty < 1 {
			qty = 1
		}
		lines[i].Qty = qty
	}

	if err := a.persist(ctx, session, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Remove deletes the line matching target's merge key. An empty result
// removes the persisted key rather than storing an empty collection.
func (a *Aggregator) Remove(ctx context.Context, session string, target Line) ([]Line, error) {
	lines, err := a.Load(ctx, session)
	if err != nil {
		return nil, err
	}

	key := target.MergeKey()
	kept := lines[:0]
	for _, l := range lines {
		if l.MergeKey() != key {
			kept = append(kept, l)
		}
	}

	if err := a.persist(ctx, session, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// Clear drops the whole persisted cart, as happens after a checkout
// submission.
func (a *Aggregator) Clear(ctx context.Context, session string) error {
	return a.store.Del(ctx, kv.CartKey(session))
}

func (a *Aggregator) readRaw(ctx context.Context, session string) ([]Line, error) {
	raw, err := a.store.Get(ctx, kv.CartKey(session))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	return decodePayload(raw), nil
}

func (a *Aggregator) persist(ctx context.Context, session string, lines []Line) error {
	if len(lines) == 0 {
		if err := a.store.Del(ctx, kv.CartKey(session)); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := a.store.Set(ctx, kv.CartKey(session), string(data)); err != nil {
		return fmt.Errorf("write cart: %w", err)
	}
	return nil
}
