package adminquotes

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"slabquote/frontend/shared/html"
	"slabquote/frontend/shared/nav"
)

// QuotesPage renders the submitted estimates list.
func QuotesPage(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(nav.RenderTopNav(nav.TopNavData{Username: data.Username, IsAdmin: true}))
		b.WriteString(`<main><h1>Submitted estimates</h1>`)
		b.WriteString(`<p><a href="/admin/quotes.csv">Download CSV</a></p>`)

		if len(data.Rows) == 0 {
			b.WriteString(`<p>No estimates have been submitted yet.</p>`)
		} else {
			b.WriteString(`<table><thead><tr><th>Reference</th><th>Submitted</th><th>Name</th><th>Email</th><th>Region</th><th>ZIP</th><th class="num">Items</th><th class="num">Subtotal</th><th class="num">Total</th><th>Pro</th></tr></thead><tbody>`)
			for _, row := range data.Rows {
				b.WriteString(`<tr>`)
				b.WriteString(`<td>` + templ.EscapeString(row.Reference) + `</td>`)
				b.WriteString(`<td>` + templ.EscapeString(row.SubmittedAt) + `</td>`)
				b.WriteString(`<td>` + templ.EscapeString(row.Name) + `</td>`)
				b.WriteString(`<td>` + templ.EscapeString(row.Email) + `</td>`)
				b.WriteString(`<td>` + templ.EscapeString(row.Region) + `</td>`)
				b.WriteString(`<td>` + templ.EscapeString(row.Zip) + `</td>`)
				b.WriteString(fmt.Sprintf(`<td class="num">%d</td>`, row.ItemCount))
				b.WriteString(fmt.Sprintf(`<td class="num">$%.2f</td>`, row.Subtotal))
				b.WriteString(fmt.Sprintf(`<td class="num">$%.2f</td>`, row.Total))
				if row.ProMode {
					b.WriteString(`<td>yes</td>`)
				} else {
					b.WriteString(`<td></td>`)
				}
				b.WriteString(`</tr>`)
			}
			b.WriteString(`</tbody></table>`)
		}
		b.WriteString(`</main>`)

		_, err := io.WriteString(w, html.RenderLayout("Submitted estimates", b.String()))
		return err
	})
}
