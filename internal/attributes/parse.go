package attributes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type rawGroup struct {
	AttributeID   json.RawMessage `json:"attributeId"`
	AttributeName json.RawMessage `json:"attributeName"`
	Options       []rawOption     `json:"options"`
}

type rawOption struct {
	ID        json.RawMessage `json:"id"`
	Name      json.RawMessage `json:"name"`
	Color     json.RawMessage `json:"color"`
	Price     json.RawMessage `json:"price"`
	IsDefault json.RawMessage `json:"isDefault"`
	Images    json.RawMessage `json:"images"`
}

// ParseGroups converts loosely typed attribute JSON into validated groups.
// Ids and prices may arrive as numbers or strings. Groups without a usable
// attribute id and options without a usable id are dropped, bad prices become
// zero and missing image lists become empty. Empty or null input yields no
// groups; only input that is not a JSON array is an error.
func ParseGroups(raw []byte) ([]Group, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var rawGroups []json.RawMessage
	if err := json.Unmarshal(trimmed, &rawGroups); err != nil {
		return nil, fmt.Errorf("decode attribute groups: %w", err)
	}

	groups := make([]Group, 0, len(rawGroups))
	for _, entry := range rawGroups {
		var rg rawGroup
		if err := json.Unmarshal(entry, &rg); err != nil {
			continue
		}
		attrID, ok := parseInt(rg.AttributeID)
		if !ok {
			continue
		}
		group := Group{
			AttributeID:   attrID,
			AttributeName: parseString(rg.AttributeName),
			Options:       make([]Option, 0, len(rg.Options)),
		}
		for _, ro := range rg.Options {
			id, ok := parseInt(ro.ID)
			if !ok {
				continue
			}
			group.Options = append(group.Options, Option{
				ID:          id,
				Name:        parseString(ro.Name),
				Color:       parseString(ro.Color),
				Price:       parsePrice(ro.Price),
				IsDefault:   parseBool(ro.IsDefault),
				Images:      parseImages(ro.Images),
				AttributeID: attrID,
			})
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// scalar returns the text of a JSON number, string or bool literal.
func scalar(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", false
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false
		}
		return strings.TrimSpace(s), true
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return "", false
	}
	return string(trimmed), true
}

func parseInt(raw json.RawMessage) (int, bool) {
	text, ok := scalar(raw)
	if !ok || text == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(text); err == nil {
		return n, true
	}
	d, err := decimal.NewFromString(text)
	if err != nil || !d.IsInteger() {
		return 0, false
	}
	return int(d.IntPart()), true
}

func parsePrice(raw json.RawMessage) decimal.Decimal {
	text, ok := scalar(raw)
	if !ok || text == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(text)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func parseString(raw json.RawMessage) string {
	text, ok := scalar(raw)
	if !ok {
		return ""
	}
	return text
}

func parseBool(raw json.RawMessage) bool {
	text, ok := scalar(raw)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(strings.ToLower(text))
	return err == nil && b
}

func parseImages(raw json.RawMessage) []string {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return []string{}
	}
	images := make([]string, 0, len(entries))
	for _, entry := range entries {
		var url string
		if err := json.Unmarshal(entry, &url); err != nil {
			continue
		}
		if url = strings.TrimSpace(url); url != "" {
			images = append(images, url)
		}
	}
	return images
}
