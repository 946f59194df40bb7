package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ListName selects one of the two per-user item lists.
type ListName string

// The two lists a user owns. They share semantics but are fully independent.
const (
	Watchlist  ListName = "watchlist"
	Favourites ListName = "favourites"
)

// Valid reports whether the name refers to a known list.
func (n ListName) Valid() bool {
	return n == Watchlist || n == Favourites
}

// List is an ordered sequence of opaque list items, stored and returned
// verbatim. Insertion order is preserved.
type List []json.RawMessage

func (l List) orEmpty() List {
	if l == nil {
		return List{}
	}
	return l
}

// ItemID extracts the stringified id field from a raw list item. Numeric and
// string ids that stringify identically are considered equal, so 5 and "5"
// collide. The second return is false when the item carries no usable id.
func ItemID(item json.RawMessage) (string, bool) {
	var probe struct {
		ID any `json:"id"`
	}
	dec := json.NewDecoder(bytes.NewReader(item))
	dec.UseNumber()
	if err := dec.Decode(&probe); err != nil {
		return "", false
	}
	return StringifyID(probe.ID)
}

// StringifyID normalises an id value to the string form used for equality.
func StringifyID(v any) (string, bool) {
	switch id := v.(type) {
	case nil:
		return "", false
	case string:
		if id == "" {
			return "", false
		}
		return id, true
	case json.Number:
		return id.String(), true
	case float64:
		return strconv.FormatFloat(id, 'g', -1, 64), true
	default:
		return fmt.Sprint(id), true
	}
}
