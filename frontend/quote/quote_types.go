package quote

// ItemRow is one priced line on the quote screen.
type ItemRow struct {
	Code        string
	Name        string
	Category    string
	Unit        string
	UnitPrice   float64
	Quantity    float64
	WasteFactor float64
	Cost        float64
	Missing     bool
}

// ContactForm carries the intake fields the visitor fills in before
// submitting.
type ContactForm struct {
	Name   string
	Email  string
	Phone  string
	Notes  string
	Region string
	Zip    string
}

// PageData feeds the quote page renderer.
type PageData struct {
	Reference string
	ProMode   bool
	Rows      []ItemRow
	Subtotal  float64
	Profit    float64
	Total     float64
	Contact   ContactForm
	Notice    string
	Error     string
}
