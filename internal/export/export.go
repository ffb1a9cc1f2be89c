// Package export serializes a run's final records to CSV, JSON, or
// XLSX. The column set is fixed; every exporter writes the same fields
// in the same order.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"scrapster-engine/internal/domain"
)

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

var header = []string{
	"Name", "Email", "Job Title", "Company", "Profile URL",
	"Source", "Profile Type", "Relevance Score",
}

// ContentType returns the MIME type for a format, empty for unknown.
func ContentType(format string) string {
	switch format {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return ""
}

func Write(w io.Writer, format string, records []domain.Record) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, records)
	case FormatJSON:
		return writeJSON(w, records)
	case FormatXLSX:
		return writeXLSX(w, records)
	}
	return fmt.Errorf("export: unknown format %q", format)
}

func row(r domain.Record) []string {
	return []string{
		r.Name, r.Email, r.JobTitle, r.Company, r.ProfileURL,
		r.Source, r.ProfileType,
		strconv.FormatFloat(r.RelevanceScore, 'f', 2, 64),
	}
}

func writeCSV(w io.Writer, records []domain.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, records []domain.Record) error {
	if records == nil {
		records = []domain.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func writeXLSX(w io.Writer, records []domain.Record) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Leads"
	f.SetSheetName("Sheet1", sheet)

	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for rowIdx, r := range records {
		cells := row(r)
		for colIdx, v := range cells {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			var val any = v
			if colIdx == len(cells)-1 {
				val = r.RelevanceScore
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}
