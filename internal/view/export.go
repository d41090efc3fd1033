package view

import (
	"fmt"
	"io"
	"os"

	"catalog-admin/internal/domain"

	"github.com/gocarina/gocsv"
)

// Export writes products to w as CSV with a header row
func Export(w io.Writer, products []domain.Product) error {
	if products == nil {
		products = []domain.Product{}
	}
	return gocsv.Marshal(&products, w)
}

// ExportFile writes products to the named file and returns how many were written
func ExportFile(name string, products []domain.Product) (int, error) {
	f, err := os.Create(name)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	if err := Export(f, products); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", name, err)
	}
	return len(products), nil
}
