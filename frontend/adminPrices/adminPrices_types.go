package adminprices

// PriceRow is one editable price book entry on the admin screen.
type PriceRow struct {
	Code        string
	Name        string
	Description string
	Unit        string
	Price       float64
	Vendor      string
	Material    string
	Color       string
	Thickness   string
}

// PageData feeds the admin prices renderer.
type PageData struct {
	Rows         []PriceRow
	FromFallback bool
	Notice       string
	Error        string
	Username     string
}
