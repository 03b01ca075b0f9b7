package quote

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"slabquote/frontend/shared/html"
	"slabquote/frontend/shared/nav"
)

// QuotePage renders the working estimate with its intake form.
func QuotePage(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(nav.RenderTopNav(nav.TopNavData{}))
		b.WriteString(`<main><h1>Estimate ` + templ.EscapeString(data.Reference) + `</h1>`)

		if data.Notice != "" {
			b.WriteString(`<div class="notice info">` + templ.EscapeString(data.Notice) + `</div>`)
		}
		if data.Error != "" {
			b.WriteString(`<div class="notice error">` + templ.EscapeString(data.Error) + `</div>`)
		}

		if len(data.Rows) == 0 {
			b.WriteString(`<p>Your quote is empty. Browse <a href="/shop/materials">materials</a> to get started.</p>`)
		} else {
			b.WriteString(`<table><thead><tr><th>Item</th><th>Category</th><th class="num">Qty</th><th class="num">Unit price</th><th class="num">Waste</th><th class="num">Cost</th><th></th></tr></thead><tbody>`)
			for _, row := range data.Rows {
				b.WriteString(`<tr><td>`)
				if row.Missing {
					b.WriteString(templ.EscapeString(row.Code) + ` <span class="score">(no longer priced)</span>`)
				} else {
					b.WriteString(templ.EscapeString(row.Name) + ` <span class="score">` + templ.EscapeString(row.Code) + `</span>`)
				}
				b.WriteString(`</td>`)
				b.WriteString(`<td>` + templ.EscapeString(row.Category) + `</td>`)
				b.WriteString(`<td class="num"><form method="POST" action="/shop/quote/items/` + templ.EscapeString(row.Code) + `/update">`)
				b.WriteString(fmt.Sprintf(`<input type="number" name="quantity" value="%g" min="0.01" step="0.01" style="width:5rem">`, row.Quantity))
				b.WriteString(` <button type="submit" class="secondary">Set</button></form></td>`)
				if row.Missing {
					b.WriteString(`<td class="num">-</td><td class="num">-</td>`)
				} else {
					b.WriteString(fmt.Sprintf(`<td class="num">$%.2f / %s</td>`, row.UnitPrice, templ.EscapeString(row.Unit)))
					if row.WasteFactor > 0 {
						b.WriteString(fmt.Sprintf(`<td class="num">&times;%.2f</td>`, row.WasteFactor))
					} else {
						b.WriteString(`<td class="num">-</td>`)
					}
				}
				b.WriteString(fmt.Sprintf(`<td class="num">$%.2f</td>`, row.Cost))
				b.WriteString(`<td><form method="POST" action="/shop/quote/items/` + templ.EscapeString(row.Code) + `/remove"><button type="submit" class="danger">Remove</button></form></td>`)
				b.WriteString(`</tr>`)
			}
			b.WriteString(`</tbody></table>`)

			b.WriteString(`<form method="POST" action="/shop/quote/pro"><label><input type="checkbox" name="enabled"`)
			if data.ProMode {
				b.WriteString(` checked`)
			}
			b.WriteString(`> Contractor pricing</label> <button type="submit" class="secondary">Apply</button></form>`)

			b.WriteString(`<table class="totals"><tbody>`)
			b.WriteString(fmt.Sprintf(`<tr><td>Subtotal</td><td>$%.2f</td></tr>`, data.Subtotal))
			if data.ProMode {
				b.WriteString(fmt.Sprintf(`<tr><td>Profit</td><td>$%.2f</td></tr>`, data.Profit))
			}
			b.WriteString(fmt.Sprintf(`<tr class="grand"><td>Total</td><td>$%.2f</td></tr>`, data.Total))
			b.WriteString(`</tbody></table>`)

			b.WriteString(`<p><a href="/shop/quote/estimate.pdf">Download estimate PDF</a></p>`)

			b.WriteString(`<h2>Send to our team</h2>`)
			b.WriteString(`<form method="POST" action="/shop/quote/submit">`)
			b.WriteString(`<label>Name <input type="text" name="name" value="` + templ.EscapeString(data.Contact.Name) + `" required></label> `)
			b.WriteString(`<label>Email <input type="email" name="email" value="` + templ.EscapeString(data.Contact.Email) + `" required></label> `)
			b.WriteString(`<label>Phone <input type="tel" name="phone" value="` + templ.EscapeString(data.Contact.Phone) + `"></label> `)
			b.WriteString(`<label>Region <input type="text" name="region" value="` + templ.EscapeString(data.Contact.Region) + `"></label> `)
			b.WriteString(`<label>ZIP <input type="text" name="zip" value="` + templ.EscapeString(data.Contact.Zip) + `"></label><br>`)
			b.WriteString(`<label>Notes<br><textarea name="notes" rows="3" cols="60">` + templ.EscapeString(data.Contact.Notes) + `</textarea></label><br>`)
			b.WriteString(`<button type="submit">Submit estimate</button>`)
			b.WriteString(`</form>`)
		}

		b.WriteString(`<div class="chat-box"><h2>Ask the remodeling assistant</h2><div id="chat-log" class="chat-log"></div>`)
		b.WriteString(`<form id="chat-form"><input id="chat-input" type="text" placeholder="Ask about materials or pricing" style="width:70%"> <button type="submit" class="secondary">Send</button></form></div>`)

		b.WriteString(`</main>`)

		_, err := io.WriteString(w, html.RenderLayout("My Quote", b.String()))
		return err
	})
}
