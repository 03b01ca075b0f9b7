package nav

import (
	"strings"

	"slabquote/models"
)

// TopNavData is shared with page renderers.
type TopNavData struct {
	Username string
	IsAdmin  bool
}

func BuildTopNavData(session models.Session) TopNavData {
	return TopNavData{Username: session.User.Username, IsAdmin: session.UserID > 0}
}

// RenderTopNav builds the shared navigation bar. Admin links only show for
// signed-in back-office users.
func RenderTopNav(data TopNavData) string {
	var b strings.Builder
	b.WriteString(`<nav class="topnav"><a class="brand" href="/shop/materials">SlabQuote</a>`)
	b.WriteString(`<a href="/shop/materials">Materials</a>`)
	b.WriteString(`<a href="/shop/quote">My Quote</a>`)
	if data.IsAdmin {
		b.WriteString(`<a href="/admin/prices">Prices</a>`)
		b.WriteString(`<a href="/admin/quotes">Quotes</a>`)
		b.WriteString(`<form method="POST" action="/logout" style="margin-left:auto"><button class="secondary" type="submit">Log out</button></form>`)
	}
	b.WriteString(`</nav>`)
	return b.String()
}
