package checkout

import (
	"strings"

	"github.com/google/uuid"
)

// Form is the delivery information collected before an order is placed.
type Form struct {
	City     string `json:"city"`
	Street   string `json:"street"`
	Building string `json:"building"`
	Floor    string `json:"floor"`
	Phone    string `json:"phone"`
	Details  string `json:"details,omitempty"`
}

type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// Validate requires every field except Details.
func (f Form) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"city", f.City},
		{"street", f.Street},
		{"building", f.Building},
		{"floor", f.Floor},
		{"phone", f.Phone},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Address joins the form into "{city}, {street}, {building}, {floor}[, {details}]".
func (f Form) Address() string {
	parts := []string{
		strings.TrimSpace(f.City),
		strings.TrimSpace(f.Street),
		strings.TrimSpace(f.Building),
		strings.TrimSpace(f.Floor),
	}
	if d := strings.TrimSpace(f.Details); d != "" {
		parts = append(parts, d)
	}
	return strings.Join(parts, ", ")
}

// NewOrderID returns a short code customers can read out over the phone.
func NewOrderID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ORD-" + strings.ToUpper(id[:8])
}
