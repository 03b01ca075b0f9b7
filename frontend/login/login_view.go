package login

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"slabquote/frontend/shared/html"
)

// GetLoginScreen renders the back-office login form.
func GetLoginScreen(errorMessage string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="login-card"><h1>Back office</h1>`)
		if errorMessage != "" {
			b.WriteString(`<div class="notice error">` + templ.EscapeString(errorMessage) + `</div>`)
		}
		b.WriteString(`<form method="POST" action="/login">`)
		b.WriteString(`<label>Username<input type="text" name="username" autocomplete="username" required></label>`)
		b.WriteString(`<label>Password<input type="password" name="password" autocomplete="current-password" required></label>`)
		b.WriteString(`<button type="submit">Sign in</button>`)
		b.WriteString(`</form></div>`)

		_, err := io.WriteString(w, html.RenderLayout("Sign in", b.String()))
		return err
	})
}
