package quote

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"net/http"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"

	"slabquote/infrastructure/cache"
	sessioncookie "slabquote/infrastructure/session"
	"slabquote/infrastructure/sqlite"
)

// EstimatePDFQueryHandler streams the current draft as a printable
// estimate.
func EstimatePDFQueryHandler(db *sqlite.DB, books *cache.PriceBookCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		book := books.Get()
		if book == nil {
			http.Error(w, "price book unavailable", http.StatusServiceUnavailable)
			return
		}

		cookie, err := r.Cookie(sessioncookie.QuoteCookieName)
		if err != nil || cookie.Value == "" {
			http.Error(w, "no quote in progress", http.StatusNotFound)
			return
		}

		quote, items, err := LoadDraftWithItems(r.Context(), db, cookie.Value)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "no quote in progress", http.StatusNotFound)
				return
			}
			http.Error(w, "failed to load quote", http.StatusInternalServerError)
			return
		}

		data := PageData{
			Reference: quote.Reference,
			ProMode:   quote.ProMode,
			Rows:      buildItemRows(book, items),
			Subtotal:  quote.Subtotal,
			Profit:    quote.Profit,
			Total:     quote.Total,
		}
		pdfBytes, err := renderEstimatePDF(data, time.Now())
		if err != nil {
			http.Error(w, "failed to render estimate", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", quote.Reference+".pdf"))
		_, _ = w.Write(pdfBytes)
	}
}

func renderEstimatePDF(data PageData, printedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Countertop Estimate", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 12, "Countertop Estimate", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, "Reference: "+data.Reference, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Printed: "+printedAt.Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(70, 8, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Category", "B", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Unit price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Cost", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range data.Rows {
		name := row.Name
		if row.Missing {
			name = row.Code + " (no longer priced)"
		}
		pdf.CellFormat(70, 7, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, row.Category, "", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%.2f %s", row.Quantity, row.Unit), "", 0, "R", false, 0, "")
		if row.Missing {
			pdf.CellFormat(30, 7, "-", "", 0, "R", false, 0, "")
		} else {
			pdf.CellFormat(30, 7, fmt.Sprintf("$%.2f", row.UnitPrice), "", 0, "R", false, 0, "")
		}
		pdf.CellFormat(30, 7, fmt.Sprintf("$%.2f", row.Cost), "", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(155, 7, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, fmt.Sprintf("$%.2f", data.Subtotal), "", 1, "R", false, 0, "")
	if data.ProMode {
		pdf.CellFormat(155, 7, "Profit", "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("$%.2f", data.Profit), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(155, 9, "Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(30, 9, fmt.Sprintf("$%.2f", data.Total), "T", 1, "R", false, 0, "")

	qrPNG, err := renderQRPNG(data.Reference, 300)
	if err != nil {
		return nil, err
	}
	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	imageName := "estimate-qr-" + data.Reference
	pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(qrPNG))
	pageW, pageH := pdf.GetPageSize()
	pdf.ImageOptions(imageName, pageW-44, pageH-44, 30, 30, false, opt, 0, "")
	pdf.SetY(pageH - 13)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 5, "Scan to reference this estimate: "+data.Reference, "", 1, "R", false, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func renderQRPNG(value string, size int) ([]byte, error) {
	code, err := qr.Encode(value, qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, size, size)
	if err != nil {
		return nil, err
	}
	normalized := toNRGBA(scaled)
	var buf bytes.Buffer
	if err := png.Encode(&buf, normalized); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
