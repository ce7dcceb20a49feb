package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/ukprop/clearance/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Arial"}
}

// Generate renders the client-facing quote document for a booking.
func (g *Generator) Generate(quote model.Quote, job model.Job) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 16)
	pdf.CellFormat(0, 10, "Property Clearance Quote", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Booking reference: %s", job.ReferenceID), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Issued %s, valid until %s", formatDate(quote.CreatedAt), formatDate(quote.ValidUntil)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Booking details", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	details := []string{
		fmt.Sprintf("Service: %s", serviceLabel(quote.ServiceType)),
		fmt.Sprintf("Property address: %s", safeValue(quote.PropertyAddress)),
		fmt.Sprintf("Preferred date: %s", formatDate(quote.PreferredDate)),
	}
	for _, line := range details {
		pdf.MultiCell(0, 6, line, "", "L", false)
	}
	pdf.Ln(2)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Pricing", "", 1, "L", false, 0, "")

	headers := []string{"Description", "Amount"}
	colWidths := []float64{130, 50}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)
	drawTableRow(pdf, g.fontName, []string{"Fixed quote", formatAmount(quote.QuoteAmount)}, colWidths, false)
	drawTableRow(pdf, g.fontName, []string{"Deposit due on acceptance", formatAmount(quote.DepositAmount)}, colWidths, false)
	drawTableRow(pdf, g.fontName, []string{"Balance due on completion", formatAmount(quote.QuoteAmount - quote.DepositAmount)}, colWidths, false)

	if strings.TrimSpace(quote.QuoteNotes) != "" {
		pdf.Ln(2)
		pdf.SetFont(g.fontName, "B", 12)
		pdf.CellFormat(0, 8, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont(g.fontName, "", 11)
		pdf.MultiCell(0, 6, quote.QuoteNotes, "", "L", false)
	}

	pdf.Ln(4)
	pdf.SetFont(g.fontName, "", 10)
	pdf.MultiCell(0, 5, "Accepting this quote confirms your booking and authorises collection of the deposit. The quote lapses automatically after the validity date shown above.", "", "L", false)

	pdf.Ln(6)
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, "Client acceptance: ______________________  Date: ______________", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func serviceLabel(service model.ServiceType) string {
	parts := strings.Split(string(service), "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2 January 2006")
}

func formatAmount(value float64) string {
	return fmt.Sprintf("GBP %.2f", value)
}
