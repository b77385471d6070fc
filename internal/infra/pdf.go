package infra

// Arqueo closing-report PDF, A5 portrait. Attached to the escalation email
// when a supervisor authorizes a close outside the variance threshold.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// ArqueoPDF holds the figures rendered on the closing report.
type ArqueoPDF struct {
	AperturaID    string
	MontoEsperado decimal.Decimal
	MontoContado  decimal.Decimal
	Diferencia    decimal.Decimal
	ClosedAt      string
}

// GenerarArqueoPDF writes the closing report under storagePath (created if
// needed) and returns the absolute path of the generated file.
func GenerarArqueoPDF(a ArqueoPDF, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("arqueo_%s.pdf", a.AperturaID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Arqueo de Caja", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Apertura %s", a.AperturaID), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Cerrada: %s", a.ClosedAt), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	row := func(label string, value decimal.Decimal, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(contentW*0.6, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 6, value.StringFixed(2), "", 1, "R", false, 0, "")
	}
	row("Monto esperado", a.MontoEsperado, false)
	row("Monto contado", a.MontoContado, false)
	pdf.Line(12, pdf.GetY()+1, pageW-12, pdf.GetY()+1)
	pdf.Ln(2)
	row("Diferencia", a.Diferencia, true)

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
