package domain

import (
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MaxImages is the most secondary image URLs a product may carry
const MaxImages = 5

// Product represents a catalog record as the admin API returns it
type Product struct {
	ID          string   `json:"id,omitempty" csv:"id"`
	Title       string   `json:"title" csv:"title"`
	Category    string   `json:"category" csv:"category"`
	OriginPrice float64  `json:"origin_price" csv:"origin_price"`
	Price       float64  `json:"price" csv:"price"`
	Unit        string   `json:"unit" csv:"unit"`
	Description string   `json:"description" csv:"description"`
	Content     string   `json:"content" csv:"content"`
	IsEnabled   Flag     `json:"is_enabled" csv:"is_enabled"`
	ImageURL    string   `json:"imageUrl" csv:"image_url"`
	ImagesURL   []string `json:"imagesUrl" csv:"-"`
}

// ProductPayload is the shape submitted on create and update.
// Prices are nil when the typed text was not a number.
type ProductPayload struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	OriginPrice *float64 `json:"origin_price" validate:"required"`
	Price       *float64 `json:"price" validate:"required"`
	Unit        string   `json:"unit" validate:"required"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	IsEnabled   int      `json:"is_enabled" validate:"oneof=0 1"`
	ImageURL    string   `json:"imageUrl"`
	ImagesURL   []string `json:"imagesUrl" validate:"max=5"`
}

// ProductEnvelope wraps a payload the way the API expects it
type ProductEnvelope struct {
	Data ProductPayload `json:"data" validate:"required"`
}

// ToProduct converts a submitted payload into a stored product
func (p ProductPayload) ToProduct() Product {
	product := Product{
		ID:          p.ID,
		Title:       p.Title,
		Category:    p.Category,
		Unit:        p.Unit,
		Description: p.Description,
		Content:     p.Content,
		IsEnabled:   p.IsEnabled == 1,
		ImageURL:    p.ImageURL,
		ImagesURL:   append([]string{}, p.ImagesURL...),
	}
	if p.OriginPrice != nil {
		product.OriginPrice = *p.OriginPrice
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	return product
}

// Flag is the enabled state. It is written as 0/1 and reads
// either 0/1 or true/false.
type Flag bool

// MarshalJSON encodes the flag as 0 or 1
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// UnmarshalJSON accepts numbers, booleans, numeric strings and null
func (f *Flag) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case nil:
		*f = false
	case bool:
		*f = Flag(v)
	case float64:
		*f = v != 0
	case string:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			b, berr := strconv.ParseBool(v)
			if berr != nil {
				return fmt.Errorf("invalid is_enabled value %q", v)
			}
			*f = Flag(b)
			return nil
		}
		*f = n != 0
	default:
		return fmt.Errorf("invalid is_enabled value %s", string(data))
	}

	return nil
}

// MarshalCSV renders the flag for exports
func (f Flag) MarshalCSV() (string, error) {
	if f {
		return "1", nil
	}
	return "0", nil
}
