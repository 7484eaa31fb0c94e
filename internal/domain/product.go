package domain

import (
	"net/url"
	"strings"
)

// CategoryGeneral is the catch-all category applied when a product has no
// usable category value.
const CategoryGeneral = "General"

// StatusActive is the status written to new products when the products table
// carries a status column.
const StatusActive = "active"

// Categories is the fixed set of product categories.
func Categories() []string {
	return []string{CategoryGeneral, "Textiles", "Ceramics", "Woodwork", "Leatherwork"}
}

// IsValidCategory checks whether the given value is one of the fixed categories.
func IsValidCategory(value string) bool {
	for _, c := range Categories() {
		if c == value {
			return true
		}
	}
	return false
}

// NormalizeCategory maps arbitrary input onto the fixed category set.
// Empty, whitespace-only, and unknown values normalize to CategoryGeneral;
// valid values are returned trimmed.
func NormalizeCategory(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || !IsValidCategory(trimmed) {
		return CategoryGeneral
	}
	return trimmed
}

// Product is a listed item owned by a seller. Optional fields are pointers
// because older generations of the products table lack their columns; a nil
// value means the column was absent or NULL.
type Product struct {
	ID             string  `json:"id"`
	SellerID       string  `json:"sellerId"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Category       *string `json:"category"`
	Price          float64 `json:"price"`
	ImageURL       *string `json:"imageUrl"`
	ImageSourceURL *string `json:"imageSourceUrl"`
	Status         *string `json:"status"`
}

// ProductImageSource is one entry on the image attribution page: the product
// name plus the image and its original source, either of which may be absent.
type ProductImageSource struct {
	Name           string  `json:"name"`
	ImageURL       *string `json:"imageUrl"`
	ImageSourceURL *string `json:"imageSourceUrl"`
}

// IsValidImageSourceURL reports whether value is an absolute http or https
// URL, the only schemes the attribution page links out to.
func IsValidImageSourceURL(value string) bool {
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
