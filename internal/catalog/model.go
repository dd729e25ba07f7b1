package catalog

import "strings"

const (
	DefaultCategory = "unisex"
	DefaultImage    = "/placeholder.jpg"

	// CategoryAll is accepted by List as "no filter".
	CategoryAll = "all"

	relatedLimit = 4
)

// Size is a purchasable variant of a product. Labels are unique within a product.
type Size struct {
	Size  string  `json:"size"`
	Price float64 `json:"price"`
}

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Sizes       []Size `json:"sizes"`
	Description string `json:"description,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Purchasable reports whether the product offers at least one size.
func (p Product) Purchasable() bool {
	return len(p.Sizes) > 0
}

// Size looks up a variant by label.
func (p Product) Size(label string) (Size, bool) {
	for _, s := range p.Sizes {
		if s.Size == label {
			return s, true
		}
	}
	return Size{}, false
}

// Input is the admin payload for create and update.
type Input struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	ImageData   string `json:"imageData,omitempty"`
	Sizes       []Size `json:"sizes"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
}

// ValidationError lists the problems found in an admin payload.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}
