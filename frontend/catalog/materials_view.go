package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"slabquote/frontend/shared/html"
	"slabquote/frontend/shared/nav"
)

// MaterialsPage renders the material search screen.
func MaterialsPage(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(nav.RenderTopNav(nav.TopNavData{}))
		b.WriteString(`<main><h1>Materials</h1>`)

		if data.FromFallback {
			b.WriteString(`<div class="notice warn">Showing bundled prices; the live price sheet could not be reached.</div>`)
		}
		if data.Notice != "" {
			b.WriteString(`<div class="notice info">` + templ.EscapeString(data.Notice) + `</div>`)
		}

		b.WriteString(`<form method="GET" action="/shop/materials" class="filters">`)
		b.WriteString(`<input type="search" name="q" placeholder="Search name, material, vendor" value="` + templ.EscapeString(data.Query) + `">`)
		writeSelect(&b, "vendor", "All vendors", data.Vendors, data.Vendor)
		writeSelect(&b, "material", "All materials", data.Materials, data.Material)
		writeSelect(&b, "thickness", "All thicknesses", data.Thicknesses, data.Thickness)
		b.WriteString(`<input type="text" name="color" placeholder="Color" value="` + templ.EscapeString(data.Color) + `">`)
		b.WriteString(`<button type="submit">Search</button>`)
		b.WriteString(`</form>`)

		if len(data.Rows) == 0 {
			b.WriteString(`<p>No materials match the current filters.</p>`)
		} else {
			b.WriteString(`<table><thead><tr><th>Code</th><th>Name</th><th>Vendor</th><th>Material</th><th>Color</th><th>Thickness</th><th class="num">Price</th><th></th></tr></thead><tbody>`)
			for _, row := range data.Rows {
				b.WriteString(`<tr>`)
				b.WriteString(`<td>` + templ.EscapeString(row.Code) + `</td>`)
				b.WriteString(`<td>` + templ.EscapeString(row.Name))
				if data.Query != "" && row.Score > 0 {
					b.WriteString(fmt.Sprintf(` <span class="score">%.0f%%</span>`, row.Score*100))
				}
				b.WriteString(`</td>`)
				b.WriteString(`<td>` + templ.EscapeString(row.Vendor) + `</td>`)
				b.WriteString(`<td>` + templ.EscapeString(row.Material) + `</td>`)
				b.WriteString(`<td>` + templ.EscapeString(row.Color) + `</td>`)
				b.WriteString(`<td>` + templ.EscapeString(row.Thickness) + `</td>`)
				b.WriteString(fmt.Sprintf(`<td class="num">$%.2f / %s</td>`, row.Price, templ.EscapeString(row.Unit)))
				b.WriteString(`<td><form method="POST" action="/shop/quote/items">`)
				b.WriteString(`<input type="hidden" name="code" value="` + templ.EscapeString(row.Code) + `">`)
				b.WriteString(`<input type="number" name="quantity" value="1" min="0.01" step="0.01" style="width:5rem">`)
				if row.Unit == "LF" {
					b.WriteString(`<select name="measure"><option value="ft">ft</option><option value="in">in</option></select>`)
				}
				b.WriteString(`<button type="submit" class="secondary">Add</button>`)
				b.WriteString(`</form></td>`)
				b.WriteString(`</tr>`)
			}
			b.WriteString(`</tbody></table>`)
		}
		b.WriteString(`</main>`)

		_, err := io.WriteString(w, html.RenderLayout("Materials", b.String()))
		return err
	})
}

func writeSelect(b *strings.Builder, name, blankLabel string, options []string, selected string) {
	b.WriteString(`<select name="` + name + `"><option value="">` + templ.EscapeString(blankLabel) + `</option>`)
	for _, opt := range options {
		b.WriteString(`<option value="` + templ.EscapeString(opt) + `"`)
		if opt == selected {
			b.WriteString(` selected`)
		}
		b.WriteString(`>` + templ.EscapeString(opt) + `</option>`)
	}
	b.WriteString(`</select>`)
}
