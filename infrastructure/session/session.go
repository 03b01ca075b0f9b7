package session

import (
	"net/http"
	"time"
)

// CookieName carries the admin session token.
const CookieName = "X-Session-Token"

// QuoteCookieName carries the visitor's draft-quote token. It is long-lived
// so an in-progress quote survives browser restarts.
const QuoteCookieName = "X-Quote-Token"

func SessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
	}
}

func QuoteCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     QuoteCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
	}
}

func DefaultExpiry() time.Time {
	return time.Now().Add(12 * time.Hour)
}

// QuoteCookieMaxAge keeps draft quotes around for thirty days.
const QuoteCookieMaxAge = 30 * 24 * 60 * 60
