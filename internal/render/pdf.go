package render

import (
    "strings"

    "github.com/jung-kurt/gofpdf"

    "github.com/hyperifyio/pagechat/internal/extract"
)

// WritePDF renders doc to a simple A4 PDF at outPath. Text outside the
// cp1252 range is replaced by the translator.
func WritePDF(doc extract.Document, outPath string) error {
    pdf := gofpdf.New("P", "mm", "A4", "")
    tr := pdf.UnicodeTranslatorFromDescriptor("")
    pdf.SetTitle(doc.Title, true)
    pdf.AddPage()

    pdf.SetFont("Helvetica", "B", 16)
    pdf.MultiCell(0, 8, tr(doc.Title), "", "L", false)
    pdf.Ln(2)
    pdf.SetFont("Helvetica", "I", 11)
    pdf.MultiCell(0, 5, tr(doc.Description), "", "L", false)
    pdf.Ln(4)

    if doc.HeadingCount() > 0 {
        pdf.SetFont("Helvetica", "B", 13)
        pdf.CellFormat(0, 8, "Headings", "", 1, "L", false, 0, "")
        for _, lvl := range extract.HeadingLevels {
            items := doc.Headings[lvl]
            if len(items) == 0 {
                continue
            }
            pdf.SetFont("Helvetica", "B", 11)
            pdf.CellFormat(0, 6, strings.ToUpper(lvl), "", 1, "L", false, 0, "")
            pdf.SetFont("Helvetica", "", 11)
            for _, h := range items {
                pdf.MultiCell(0, 5, tr("- "+h), "", "L", false)
            }
        }
        pdf.Ln(4)
    }

    paras := nonEmpty(doc.Paragraphs)
    if len(paras) > 0 {
        pdf.SetFont("Helvetica", "B", 13)
        pdf.CellFormat(0, 8, "Paragraphs", "", 1, "L", false, 0, "")
        pdf.SetFont("Helvetica", "", 11)
        for _, p := range paras {
            pdf.MultiCell(0, 5, tr(p), "", "L", false)
            pdf.Ln(3)
        }
    }
    return pdf.OutputFileAndClose(outPath)
}
