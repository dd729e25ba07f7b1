package cart

import (
	"encoding/json"
	"fmt"
	"math"
)

// EncodeLines renders the persisted form of the cart.
func EncodeLines(lines []Line) (string, error) {
	if lines == nil {
		lines = []Line{}
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("encode cart: %w", err)
	}
	return string(b), nil
}

// DecodeLines parses a persisted cart. Entries that do not look like a cart line
// are skipped and counted in dropped. A value that is not a JSON array is an error.
func DecodeLines(raw string) (lines []Line, dropped int, err error) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return nil, 0, fmt.Errorf("decode cart: %w", err)
	}
	if elems == nil {
		return nil, 0, fmt.Errorf("decode cart: not an array")
	}

	lines = make([]Line, 0, len(elems))
	for _, el := range elems {
		line, ok := decodeLine(el)
		if !ok {
			dropped++
			continue
		}
		lines = append(lines, line)
	}
	return lines, dropped, nil
}

func decodeLine(raw json.RawMessage) (Line, bool) {
	var shape map[string]any
	if err := json.Unmarshal(raw, &shape); err != nil || !validShape(shape) {
		return Line{}, false
	}

	var line Line
	if err := json.Unmarshal(raw, &line); err != nil {
		return Line{}, false
	}
	return line, true
}

// validShape checks the fields the cart relies on: a positive whole quantity,
// a size label and price, and the product id and image.
func validShape(m map[string]any) bool {
	qty, ok := m["quantity"].(float64)
	if !ok || qty < 1 || qty != math.Trunc(qty) {
		return false
	}

	size, ok := m["selectedSize"].(map[string]any)
	if !ok {
		return false
	}
	if _, ok := size["size"].(string); !ok {
		return false
	}
	if _, ok := size["price"].(float64); !ok {
		return false
	}

	product, ok := m["product"].(map[string]any)
	if !ok {
		return false
	}
	if _, ok := product["id"].(string); !ok {
		return false
	}
	if _, ok := product["image"].(string); !ok {
		return false
	}
	return true
}
