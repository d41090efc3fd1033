package editor

import (
	"fmt"

	"catalog-admin/internal/domain"
)

// SetImage writes value into slot index and then adjusts the list:
//   - filling the last slot appends a fresh empty slot while below MaxImages
//   - clearing any slot other than the last drops the last slot
func (d *Draft) SetImage(index int, value string) error {
	if index < 0 || index >= len(d.ImagesURL) {
		return fmt.Errorf("%w: %d of %d", ErrSlotOutOfRange, index, len(d.ImagesURL))
	}

	images := append([]string{}, d.ImagesURL...)
	images[index] = value

	last := len(images) - 1
	if value != "" && index == last && len(images) < domain.MaxImages {
		images = append(images, "")
	}
	// NOTE: the edited slot stays put; it is the trailing slot that goes
	if value == "" && index < last {
		images = images[:last]
	}

	d.ImagesURL = images
	return nil
}

// CanAddImage reports whether an empty slot may be appended by hand
func (d *Draft) CanAddImage() bool {
	n := len(d.ImagesURL)
	if n >= domain.MaxImages {
		return false
	}
	return n == 0 || d.ImagesURL[n-1] != ""
}

// AddImage appends an empty slot when CanAddImage allows it
func (d *Draft) AddImage() bool {
	if !d.CanAddImage() {
		return false
	}
	d.ImagesURL = append(append([]string{}, d.ImagesURL...), "")
	return true
}

// RemoveImage drops the last slot, whatever it holds
func (d *Draft) RemoveImage() bool {
	n := len(d.ImagesURL)
	if n == 0 {
		return false
	}
	d.ImagesURL = append([]string{}, d.ImagesURL[:n-1]...)
	return true
}

// CompactImages returns the non-empty URLs in their original order
func CompactImages(images []string) []string {
	out := make([]string, 0, len(images))
	for _, url := range images {
		if url != "" {
			out = append(out, url)
		}
	}
	return out
}
