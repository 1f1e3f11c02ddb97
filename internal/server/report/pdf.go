package report

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrijs2005/clinicportal/internal/server/models"
	"github.com/go-pdf/fpdf"
)

const dateLayout = "02/01/2006"

// compressPDF is a seam so tests can inspect page text.
var compressPDF = true

type Report struct {
	Label      string
	Confidence float64
	Summary    string
	PDF        []byte
}

// Build decides the finding for preds and renders it as a one page PDF.
func Build(patientName string, date time.Time, preds []models.Prediction) (*Report, error) {
	finding, err := Decide(preds)
	if err != nil {
		return nil, err
	}

	pdf, err := render(patientName, date, finding, preds)
	if err != nil {
		return nil, err
	}

	return &Report{
		Label:      finding.Label,
		Confidence: finding.Confidence,
		Summary:    finding.Summary(),
		PDF:        pdf,
	}, nil
}

func render(patientName string, date time.Time, f Finding, preds []models.Prediction) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compressPDF)
	pdf.SetTitle("X-ray diagnosis", true)
	pdf.SetCreator("clinicportal", true)
	pdf.SetCreationDate(date)

	// Core fonts are cp1252; names may carry accents.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "X-ray diagnosis report", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(40, 8, "Patient:", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 8, tr(patientName), "", 1, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Date:", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 8, date.Format(dateLayout), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("Result: %s, confidence %.2f%%", f.Label, f.Confidence), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, "Probability breakdown:", "", 1, "L", false, 0, "")
	for _, p := range preds {
		pdf.CellFormat(10, 7, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, fmt.Sprintf("%s: %.2f%%", strings.ToUpper(p.Label), p.Probability*100), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "This report was generated automatically from the uploaded image and "+
		"does not replace the judgement of a qualified physician.", "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

var unsafeRef = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// FileName returns "<dni>-<yyyy-mm-dd>-<ref>.pdf" with ref reduced to
// filename-safe characters. An empty ref is left out.
func FileName(dni string, date time.Time, ref string) string {
	ref = strings.Trim(unsafeRef.ReplaceAllString(ref, "_"), "_")
	name := dni + "-" + date.Format("2006-01-02")
	if ref != "" {
		name += "-" + ref
	}
	return name + ".pdf"
}
