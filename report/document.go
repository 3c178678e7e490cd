package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"prayer-attendance-server/attendance"
)

const (
	// NoDataText is written instead of class sections when nothing was recorded.
	NoDataText = "No attendance data available."

	SheetName = "Attendance"

	pageHeight = 297.0 // A4 portrait, mm
	margin     = 10.0
	lineHeight = 8.0
	titleY     = 20.0
	classGap   = 5.0
)

// StudentReport is the per-student standing of every class at a point in time.
type StudentReport struct {
	Generated time.Time
	Classes   []attendance.ClassStanding
	// Recorded is the number of class records in the attendance store.
	Recorded int
}

func (r StudentReport) empty() bool { return r.Recorded == 0 }

type pdfLine struct {
	Y    float64
	Text string
	Bold bool
	// Indent shifts student lines right of the class header.
	Indent float64
}

// layoutPages positions every line of the PDF body. A class section that
// would cross the bottom margin starts on a new page; a section taller than
// a page continues on the next one.
func layoutPages(r StudentReport) [][]pdfLine {
	limit := pageHeight - margin
	pages := [][]pdfLine{nil}
	y := titleY + 15

	add := func(l pdfLine) {
		pages[len(pages)-1] = append(pages[len(pages)-1], l)
	}
	newPage := func() {
		pages = append(pages, nil)
		y = margin
	}

	if r.empty() {
		add(pdfLine{Y: y, Text: NoDataText})
		return pages
	}

	for _, cls := range r.Classes {
		if y+float64(len(cls.Students))*lineHeight > limit && len(pages[len(pages)-1]) > 0 {
			newPage()
		}
		add(pdfLine{Y: y, Text: cls.Name, Bold: true})
		y += lineHeight
		for _, st := range cls.Students {
			if y > limit {
				newPage()
			}
			add(pdfLine{Y: y, Text: fmt.Sprintf("%d. %s - %d%%", st.RollNo, st.Name, st.Percentage), Indent: 5})
			y += lineHeight
		}
		y += classGap
	}
	return pages
}

// WritePDF renders the report as an A4 document.
func WritePDF(w io.Writer, r StudentReport) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, margin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, page := range layoutPages(r) {
		pdf.AddPage()
		if i == 0 {
			pdf.SetFont("Helvetica", "B", 16)
			pdf.Text(margin, titleY, "Student Attendance Report")
			pdf.SetFont("Helvetica", "", 9)
			pdf.Text(margin, titleY+6, "Generated "+FormatDay(r.Generated))
		}
		for _, l := range page {
			style := ""
			if l.Bold {
				style = "B"
			}
			pdf.SetFont("Helvetica", style, 10)
			pdf.Text(margin+l.Indent, l.Y, tr(l.Text))
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf report: %w", err)
	}
	return nil
}

// excelRows lays the report out as spreadsheet rows: a class row, one row
// per student and a blank separator row after each class.
func excelRows(r StudentReport) [][]string {
	rows := [][]string{{"Class", "Student", "Percentage"}}
	if r.empty() {
		return append(rows, []string{NoDataText, "", ""})
	}
	for _, cls := range r.Classes {
		rows = append(rows, []string{cls.Name, "", ""})
		for _, st := range cls.Students {
			rows = append(rows, []string{"", fmt.Sprintf("%d. %s", st.RollNo, st.Name), fmt.Sprintf("%d%%", st.Percentage)})
		}
		rows = append(rows, []string{"", "", ""})
	}
	return rows
}

// WriteExcel renders the report as an xlsx workbook with a single sheet.
func WriteExcel(w io.Writer, r StudentReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	for col, width := range map[string]float64{"A": 15, "B": 25, "C": 12} {
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}

	for i, row := range excelRows(r) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write excel report: %w", err)
	}
	return nil
}
