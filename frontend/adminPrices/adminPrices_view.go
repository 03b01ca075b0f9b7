package adminprices

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"slabquote/frontend/shared/html"
	"slabquote/frontend/shared/nav"
)

// PricesPage renders the editable price book.
func PricesPage(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(nav.RenderTopNav(nav.TopNavData{Username: data.Username, IsAdmin: true}))
		b.WriteString(`<main><h1>Price book</h1>`)

		if data.FromFallback {
			b.WriteString(`<div class="notice warn">Currently serving bundled prices; refresh to retry the live sheet.</div>`)
		}
		if data.Notice != "" {
			b.WriteString(`<div class="notice info">` + templ.EscapeString(data.Notice) + `</div>`)
		}
		if data.Error != "" {
			b.WriteString(`<div class="notice error">` + templ.EscapeString(data.Error) + `</div>`)
		}

		b.WriteString(`<form method="POST" action="/admin/prices/refresh"><button type="submit">Refresh from sheet</button></form>`)

		b.WriteString(`<table><thead><tr><th>Code</th><th>Name</th><th>Vendor</th><th>Unit</th><th class="num">Price</th><th>Description</th><th></th></tr></thead><tbody>`)
		for _, row := range data.Rows {
			b.WriteString(`<tr>`)
			b.WriteString(`<td>` + templ.EscapeString(row.Code) + `</td>`)
			b.WriteString(`<td>` + templ.EscapeString(row.Name) + `</td>`)
			b.WriteString(`<td>` + templ.EscapeString(row.Vendor) + `</td>`)
			b.WriteString(`<td>` + templ.EscapeString(row.Unit) + `</td>`)
			b.WriteString(`<td colspan="3"><form method="POST" action="/admin/prices/` + templ.EscapeString(row.Code) + `">`)
			b.WriteString(fmt.Sprintf(`<input type="number" name="price" value="%.2f" min="0" step="0.01" style="width:6rem">`, row.Price))
			b.WriteString(` <input type="text" name="description" value="` + templ.EscapeString(row.Description) + `" style="width:20rem">`)
			b.WriteString(` <button type="submit" class="secondary">Save</button>`)
			b.WriteString(`</form></td>`)
			b.WriteString(`</tr>`)
		}
		b.WriteString(`</tbody></table></main>`)

		_, err := io.WriteString(w, html.RenderLayout("Price book", b.String()))
		return err
	})
}
