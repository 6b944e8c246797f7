package models

import (
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// NormalizeCart coerces a raw, possibly-legacy cart mapping into the canonical
// form: product id -> positive integer quantity.
//
// Three entry shapes exist in stored carts:
//   - a plain number (the canonical shape), kept as-is
//   - a nested size -> quantity map written by old clients; the quantities are
//     summed, and the entry is dropped when no member is a positive number
//   - a corrupted string, parsed by stripping every non-digit character
//
// Entries with an empty key or a resolved quantity <= 0 are omitted, never
// retained as zeros. The function is idempotent: normalizing an already
// canonical cart returns an equal cart.
func NormalizeCart(raw map[string]interface{}) map[string]int {
	clean := make(map[string]int)
	for itemID, value := range raw {
		if itemID == "" {
			continue
		}

		quantity := 0
		switch v := value.(type) {
		case map[string]interface{}:
			q, ok := sumLegacyEntry(v)
			if !ok {
				continue
			}
			quantity = q
		case bson.M:
			q, ok := sumLegacyEntry(v)
			if !ok {
				continue
			}
			quantity = q
		case string:
			digits := strings.Map(keepDigit, v)
			if n, err := strconv.Atoi(digits); err == nil {
				quantity = n
			}
		default:
			if n, ok := asInt(value); ok {
				quantity = n
			}
		}

		if quantity > 0 {
			clean[itemID] = quantity
		}
	}
	return clean
}

// sumLegacyEntry collapses a size -> quantity map into a single quantity.
// Returns false when the map holds no positive numeric member, in which case
// the whole entry must be dropped rather than stored as zero.
func sumLegacyEntry(sizes map[string]interface{}) (int, bool) {
	total := 0
	valid := false
	for size, v := range sizes {
		if size == "" {
			continue
		}
		if n, ok := asInt(v); ok && n > 0 {
			total += n
			valid = true
		}
	}
	return total, valid
}

// asInt accepts the numeric types produced by JSON and BSON decoding.
func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func keepDigit(r rune) rune {
	if r >= '0' && r <= '9' {
		return r
	}
	return -1
}

// DropUnknown removes cart entries whose product id is absent from the known
// set. It reports whether anything was removed so callers can propagate the
// cleanup to persisted state.
func DropUnknown(cart map[string]int, known map[string]bool) bool {
	removed := false
	for itemID := range cart {
		if !known[itemID] {
			delete(cart, itemID)
			removed = true
		}
	}
	return removed
}

// RawCart converts a canonical cart back into the raw storage shape.
func RawCart(cart map[string]int) map[string]interface{} {
	raw := make(map[string]interface{}, len(cart))
	for itemID, quantity := range cart {
		raw[itemID] = quantity
	}
	return raw
}
