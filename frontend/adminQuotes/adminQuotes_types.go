package adminquotes

// QuoteRow is one submitted estimate on the admin screen.
type QuoteRow struct {
	Reference   string
	Name        string
	Email       string
	Phone       string
	Region      string
	Zip         string
	ProMode     bool
	ItemCount   int
	Subtotal    float64
	Profit      float64
	Total       float64
	SubmittedAt string
}

// PageData feeds the admin quotes renderer.
type PageData struct {
	Rows     []QuoteRow
	Username string
}
