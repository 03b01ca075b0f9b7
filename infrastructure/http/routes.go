package http

import (
	adminprices "slabquote/frontend/adminPrices"
	adminquotes "slabquote/frontend/adminQuotes"
	"slabquote/frontend/catalog"
	"slabquote/frontend/chat"
	"slabquote/frontend/login"
	quotecart "slabquote/frontend/quote"

	"github.com/go-chi/chi/v5"
)

// RegisterLoginRoutes registers login/logout routes.
func (s *Server) RegisterLoginRoutes() {
	s.router.Get("/login", login.GetLoginScreenHandler)
	s.router.Post("/login", login.CreateLoginHandler(s.DB, s.SessionCache))
	s.router.Post("/logout", login.LogoutHandler(s.DB, s.SessionCache))
}

// RegisterShopRoutes registers the public storefront: material search and
// the quote cart.
func (s *Server) RegisterShopRoutes() {
	s.router.Get("/shop/materials", catalog.MaterialsPageQueryHandler(s.Books))

	s.router.Get("/shop/quote", quotecart.QuotePageQueryHandler(s.DB, s.Books, s.Pricing))
	s.router.Post("/shop/quote/items", quotecart.AddItemCommandHandler(s.DB, s.Books, s.Pricing))
	s.router.Post("/shop/quote/items/{code}/update", quotecart.UpdateItemCommandHandler(s.DB, s.Books, s.Pricing))
	s.router.Post("/shop/quote/items/{code}/remove", quotecart.RemoveItemCommandHandler(s.DB, s.Books, s.Pricing))
	s.router.Post("/shop/quote/pro", quotecart.ProModeCommandHandler(s.DB, s.Books, s.Pricing))
	s.router.Post("/shop/quote/submit", quotecart.SubmitQuoteCommandHandler(s.DB, s.Books, s.Pricing, s.Intake, s.Audit))
	s.router.Get("/shop/quote/estimate.pdf", quotecart.EstimatePDFQueryHandler(s.DB, s.Books))
}

// RegisterChatRoutes registers the remodeling assistant endpoint.
func (s *Server) RegisterChatRoutes() {
	s.router.Post("/api/chat", chat.ChatCommandHandler(s.Chat, s.Books))
}

// RegisterAdminRoutes registers authenticated back-office routes.
func (s *Server) RegisterAdminRoutes(r chi.Router) chi.Router {
	r.Get("/prices", adminprices.PricesPageQueryHandler(s.DB, s.Books))
	r.Post("/prices/refresh", adminprices.RefreshPricesCommandHandler(s.DB, s.Books, s.Loader, s.Audit))
	r.Post("/prices/{code}", adminprices.UpdatePriceCommandHandler(s.DB, s.Books, s.Audit))

	r.Get("/quotes", adminquotes.QuotesPageQueryHandler(s.DB))
	r.Get("/quotes.csv", adminquotes.QuotesExportCSVHandler(s.DB))
	return r
}
