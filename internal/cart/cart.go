// Package cart maintains the deduplicated, quantity-accumulated list of
// order lines persisted in the per-session key-value store. Adds happen from
// several independent views (listing card, detail page, complement
// suggestions), so merging is key-based, idempotent and order-independent.
package cart

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Line is one cart entry. ID zero means the catalog item had no id and the
// line is identified by its normalized name instead. Image and Img are the
// same reference under the two historical field names; both are kept
// populated so older payloads keep resolving.
type Line struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Qty      int             `json:"qty"`
	Note     string          `json:"note,omitempty"`
	Subtitle string          `json:"subtitle,omitempty"`
	Image    string          `json:"image"`
	Img      string          `json:"img,omitempty"`
}

// MergeKey is the deduplication identity: "id:<n>" for lines with a positive
// id, otherwise "name:<normalized>" with "unknown" standing in for empty
// names.
func (l Line) MergeKey() string {
	return mergeKey(l.ID, l.Name)
}

func mergeKey(id int64, name string) string {
	if id > 0 {
		return fmt.Sprintf("id:%d", id)
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		normalized = "unknown"
	}
	return "name:" + normalized
}

func (l Line) lineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// Subtotal sums price times quantity over all lines.
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.lineTotal())
	}
	return total
}

// Total adds the delivery fee to the subtotal. The fee only applies to
// non-empty carts.
func Total(lines []Line, deliveryFee decimal.Decimal) decimal.Decimal {
	if len(lines) == 0 {
		return decimal.Zero
	}
	return Subtotal(lines).Add(deliveryFee)
}

// decodePayload turns a persisted cart payload into lines, tolerating the
// drift older writers produced: malformed JSON yields an empty cart, a lone
// object is wrapped into a one-element collection, null entries are dropped,
// quantity may appear under "qty" or "quantity" and the image under "image"
// or "img". Quantities that are missing, non-numeric or non-positive default
// to 1.
func decodePayload(raw string) []Line {
	if raw == "" {
		return nil
	}

	var entries []map[string]any
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		var single map[string]any
		if err := json.Unmarshal([]byte(raw), &single); err != nil || single == nil {
			return nil
		}
		entries = []map[string]any{single}
	}

	var lines []Line
	for _, m := range entries {
		if m == nil {
			continue
		}
		lines = append(lines, Line{
			ID:       entryID(m),
			Name:     entryString(m, "name"),
			Price:    entryPrice(m),
			Qty:      entryQty(m),
			Note:     entryString(m, "note"),
			Subtitle: entryString(m, "subtitle"),
			Image:    firstNonEmpty(entryString(m, "image"), entryString(m, "img")),
			Img:      firstNonEmpty(entryString(m, "img"), entryString(m, "image")),
		})
	}
	return lines
}

func entryID(m map[string]any) int64 {
	n, ok := asNumber(m["id"])
	if !ok || n <= 0 {
		return 0
	}
	return int64(n)
}

func entryQty(m map[string]any) int {
	v, ok := m["qty"]
	if !ok || v == nil {
		v = m["quantity"]
	}
	n, numOK := asNumber(v)
	if !numOK || n <= 0 {
		return 1
	}
	return int(n)
}

func entryPrice(m map[string]any) decimal.Decimal {
	n, ok := asNumber(m["price"])
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromFloat(n)
}

func entryString(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
