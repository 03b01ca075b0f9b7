package catalog

// MaterialRow is one search result on the materials page.
type MaterialRow struct {
	Code        string
	Name        string
	Description string
	Unit        string
	Price       float64
	Vendor      string
	Material    string
	Color       string
	Thickness   string
	Score       float64
}

// PageData feeds the materials page renderer.
type PageData struct {
	Query        string
	Vendor       string
	Material     string
	Color        string
	Thickness    string
	Vendors      []string
	Materials    []string
	Thicknesses  []string
	Rows         []MaterialRow
	FromFallback bool
	Notice       string
}
