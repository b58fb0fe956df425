// Package report renders the employee summary as a PDF document. The layout
// is a single linear traversal: a centered title, then one block per employee
// in the order the rows were fetched.
package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"bancohoras/models"
)

const (
	Title    = "Relatório de Funcionários"
	Filename = "relatorio.pdf"
)

func Generate(w io.Writer, employees []models.Employee) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; translate the UTF-8 strings.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(Title), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 12)
	for _, e := range employees {
		for _, line := range employeeLines(e) {
			pdf.CellFormat(0, 6, tr(line), "", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}

	return pdf.Output(w)
}

func employeeLines(e models.Employee) []string {
	return []string{
		fmt.Sprintf("Nome: %s", e.Nome),
		fmt.Sprintf("Horas Extras: %d", e.HorasExtras),
		fmt.Sprintf("Horas Folga: %d", e.HorasFolga),
	}
}
