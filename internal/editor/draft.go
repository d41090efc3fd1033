// Package editor holds the in-progress product record edited in the dialog.
package editor

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"catalog-admin/internal/domain"

	"github.com/spf13/cast"
)

var (
	ErrUnknownField   = errors.New("unknown draft field")
	ErrSlotOutOfRange = errors.New("image slot out of range")
)

// Field names accepted by SetField
const (
	FieldTitle       = "title"
	FieldCategory    = "category"
	FieldOriginPrice = "origin_price"
	FieldPrice       = "price"
	FieldUnit        = "unit"
	FieldDescription = "description"
	FieldContent     = "content"
	FieldImageURL    = "imageUrl"
	FieldIsEnabled   = "is_enabled"
)

// Fields lists the editable fields in display order
var Fields = []string{
	FieldTitle, FieldCategory, FieldUnit, FieldOriginPrice, FieldPrice,
	FieldDescription, FieldContent, FieldImageURL, FieldIsEnabled,
}

// Draft is a working copy of a product. Prices stay as typed text
// until the draft is turned into a payload.
type Draft struct {
	ID          string
	Title       string
	Category    string
	OriginPrice string
	Price       string
	Unit        string
	Description string
	Content     string
	IsEnabled   bool
	ImageURL    string
	ImagesURL   []string
}

// Template returns the blank draft used for new products
func Template() *Draft {
	return &Draft{ImagesURL: []string{}}
}

// FromProduct copies p into a new draft
func FromProduct(p domain.Product) *Draft {
	return &Draft{
		ID:          p.ID,
		Title:       p.Title,
		Category:    p.Category,
		OriginPrice: cast.ToString(p.OriginPrice),
		Price:       cast.ToString(p.Price),
		Unit:        p.Unit,
		Description: p.Description,
		Content:     p.Content,
		IsEnabled:   bool(p.IsEnabled),
		ImageURL:    p.ImageURL,
		ImagesURL:   append([]string{}, p.ImagesURL...),
	}
}

// Clone returns a copy that shares nothing with d
func (d *Draft) Clone() *Draft {
	c := *d
	c.ImagesURL = append([]string{}, d.ImagesURL...)
	return &c
}

// SetField assigns a text value to the named field
func (d *Draft) SetField(name, value string) error {
	switch name {
	case FieldTitle:
		d.Title = value
	case FieldCategory:
		d.Category = value
	case FieldOriginPrice:
		d.OriginPrice = value
	case FieldPrice:
		d.Price = value
	case FieldUnit:
		d.Unit = value
	case FieldDescription:
		d.Description = value
	case FieldContent:
		d.Content = value
	case FieldImageURL:
		d.ImageURL = value
	case FieldIsEnabled:
		enabled, err := cast.ToBoolE(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("is_enabled: %w", err)
		}
		d.IsEnabled = enabled
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return nil
}

// Field returns the text value of the named field
func (d *Draft) Field(name string) (string, error) {
	switch name {
	case FieldTitle:
		return d.Title, nil
	case FieldCategory:
		return d.Category, nil
	case FieldOriginPrice:
		return d.OriginPrice, nil
	case FieldPrice:
		return d.Price, nil
	case FieldUnit:
		return d.Unit, nil
	case FieldDescription:
		return d.Description, nil
	case FieldContent:
		return d.Content, nil
	case FieldImageURL:
		return d.ImageURL, nil
	case FieldIsEnabled:
		return cast.ToString(d.IsEnabled), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
}

// Payload coerces the draft into the submitted shape
func (d *Draft) Payload() domain.ProductPayload {
	enabled := 0
	if d.IsEnabled {
		enabled = 1
	}

	return domain.ProductPayload{
		ID:          d.ID,
		Title:       d.Title,
		Category:    d.Category,
		OriginPrice: ToNumber(d.OriginPrice),
		Price:       ToNumber(d.Price),
		Unit:        d.Unit,
		Description: d.Description,
		Content:     d.Content,
		IsEnabled:   enabled,
		ImageURL:    d.ImageURL,
		ImagesURL:   CompactImages(d.ImagesURL),
	}
}

// ToNumber converts typed text to a number. Blank text is 0 and
// anything that is not a number yields nil.
func ToNumber(text string) *float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		zero := 0.0
		return &zero
	}

	n, err := cast.ToFloat64E(text)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}
