package view

import (
	"strconv"
	"strings"
	"text/tabwriter"

	"catalog-admin/internal/dialog"
	"catalog-admin/internal/domain"
	"catalog-admin/internal/editor"
)

func (v *View) renderProducts(products []domain.Product) {
	if len(products) == 0 {
		v.printf("No products.\n")
		return
	}

	tw := tabwriter.NewWriter(v.out, 0, 4, 2, ' ', 0)
	tw.Write([]byte("CATEGORY\tTITLE\tORIGIN PRICE\tPRICE\tENABLED\tID\n"))
	for _, p := range products {
		tw.Write([]byte(strings.Join([]string{
			p.Category,
			p.Title,
			formatPrice(p.OriginPrice),
			formatPrice(p.Price),
			enabledLabel(bool(p.IsEnabled)),
			p.ID,
		}, "\t") + "\n"))
	}
	tw.Flush()
}

func (v *View) renderDialog(mode dialog.Mode) {
	switch m := mode.(type) {
	case dialog.Delete:
		v.printf("Delete %q? This cannot be undone. Type confirm or cancel.\n", m.Product.Title)
	case dialog.Create:
		v.printf("New product\n")
		v.renderDraft(m.Draft)
	case dialog.Edit:
		v.printf("Edit product %s\n", m.Draft.ID)
		v.renderDraft(m.Draft)
	}
}

func (v *View) renderDraft(d *editor.Draft) {
	tw := tabwriter.NewWriter(v.out, 0, 4, 2, ' ', 0)
	for _, name := range editor.Fields {
		value, _ := d.Field(name)
		tw.Write([]byte("  " + name + "\t" + value + "\n"))
	}
	for i, url := range d.ImagesURL {
		if url == "" {
			url = "(empty)"
		}
		tw.Write([]byte("  image " + strconv.Itoa(i+1) + "\t" + url + "\n"))
	}
	tw.Flush()

	if d.CanAddImage() {
		v.printf("  image add: new image slot\n")
	}
	v.printf("Type confirm to save or cancel to discard.\n")
}

func (v *View) renderHelp() {
	tw := tabwriter.NewWriter(v.out, 0, 4, 2, ' ', 0)
	for _, line := range helpLines {
		tw.Write([]byte(line + "\n"))
	}
	tw.Flush()
}

var helpLines = []string{
	"login <username> <password>\tsign in",
	"list\treload products",
	"show\tprint products and the open dialog",
	"new\tstart a new product",
	"edit <id>\tedit a product",
	"delete <id>\tdelete a product",
	"set <field> <value...>\tset a draft field (" + strings.Join(editor.Fields, ", ") + ")",
	"enable | disable\ttoggle the draft's enabled flag",
	"image <n> [url]\tset image slot n, or clear it without url",
	"image add | image remove\tadd or drop the last image slot",
	"confirm | cancel\tsubmit or close the dialog",
	"export <file.csv>\twrite products as CSV",
	"quit\texit",
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func enabledLabel(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
