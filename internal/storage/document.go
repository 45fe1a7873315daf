package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront-cart/internal/cart"
)

// CurrentVersion is the cart document schema written by Save.
const CurrentVersion = 1

var (
	errFutureVersion  = errors.New("cart document written by a newer schema")
	errInvalidVersion = errors.New("cart document has an invalid version")
)

type cartDocument struct {
	Version int             `json:"version"`
	UserID  string          `json:"userId"`
	Items   []cart.LineItem `json:"items"`
}

type storedDocument struct {
	Version *int              `json:"version"`
	UserID  string            `json:"userId"`
	Items   []json.RawMessage `json:"items"`
}

// decodeResult reports what decodeCart had to repair.
type decodeResult struct {
	Items   []cart.LineItem
	Legacy  bool
	Dropped int
	Merged  int
}

func encodeCart(userID string, items []cart.LineItem) ([]byte, error) {
	if items == nil {
		items = []cart.LineItem{}
	}
	return json.Marshal(cartDocument{Version: CurrentVersion, UserID: userID, Items: items})
}

// decodeCart parses a stored cart document. Documents without a version are
// read as the legacy unversioned layout. Invalid items are dropped one by one
// and duplicate variants are merged so the result holds one line per key.
func decodeCart(raw []byte) (decodeResult, error) {
	var doc storedDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return decodeResult{}, fmt.Errorf("decode cart document: %w", err)
	}

	res := decodeResult{Legacy: doc.Version == nil}
	if doc.Version != nil {
		switch {
		case *doc.Version > CurrentVersion:
			return res, fmt.Errorf("%w: version %d", errFutureVersion, *doc.Version)
		case *doc.Version < 1:
			return res, fmt.Errorf("%w: version %d", errInvalidVersion, *doc.Version)
		}
	}

	index := map[cart.VariantKey]int{}
	items := make([]cart.LineItem, 0, len(doc.Items))
	for _, entry := range doc.Items {
		var item cart.LineItem
		if err := json.Unmarshal(entry, &item); err != nil || !validItem(item) {
			res.Dropped++
			continue
		}
		if pos, ok := index[item.Key()]; ok {
			items[pos].Quantity += item.Quantity
			res.Merged++
			continue
		}
		index[item.Key()] = len(items)
		items = append(items, item)
	}
	res.Items = items
	return res, nil
}

func validItem(item cart.LineItem) bool {
	return item.ID != "" &&
		item.Quantity >= 1 &&
		!item.Price.IsNegative() &&
		!item.OriginalPrice.IsNegative()
}

func encodeOpen(isOpen bool) ([]byte, error) {
	return json.Marshal(isOpen)
}

func decodeOpen(raw []byte) (bool, error) {
	var isOpen bool
	if err := json.Unmarshal(raw, &isOpen); err != nil {
		return false, fmt.Errorf("decode cart open flag: %w", err)
	}
	return isOpen, nil
}
