// Package excel renders listening reports into a downloadable workbook,
// one sheet per year plus a per-year summary block.
package excel

import (
	"bytes"
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/xuri/excelize/v2"

	"soundwell/domain/report"
	"soundwell/internal/errors"
)

var listeningHeaders = []string{"Date", "Duration", "Pause", "Interruptions", "Sessions"}

// ListeningWorkbook writes a listening report to an in-memory xlsx
// workbook. Years keep the report's descending order.
func ListeningWorkbook(clientName string, years []report.ListeningYear) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, year := range years {
		sheet := fmt.Sprintf("%d", year.Year)
		if i == 0 {
			// Rename the default sheet instead of leaving it dangling.
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, errors.Wrap(err, "failed to name sheet")
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, errors.Wrap(err, "failed to add sheet")
			}
		}

		if err := writeYear(f, sheet, clientName, year); err != nil {
			return nil, err
		}
	}

	if len(years) == 0 {
		if err := f.SetCellValue("Sheet1", "A1", "No listening sessions recorded"); err != nil {
			return nil, errors.Wrap(err, "failed to write empty report")
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize workbook")
	}
	return buf, nil
}

func writeYear(f *excelize.File, sheet, clientName string, year report.ListeningYear) error {
	title := fmt.Sprintf("Listening report %d - %s", year.Year, clientName)
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return errors.Wrap(err, "failed to write title")
	}

	for i, h := range listeningHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return errors.Wrap(err, "failed to write header")
		}
	}

	durations := make([]float64, 0, len(year.Items))
	for r, day := range year.Items {
		row := r + 3
		values := []interface{}{day.Date, day.Duration, day.Pause, day.Interruptions, day.Sessions}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return errors.Wrap(err, "failed to write row")
			}
		}
		durations = append(durations, float64(day.Duration))
	}

	return writeSummary(f, sheet, len(year.Items)+4, durations)
}

// writeSummary appends total, mean and median daily listening time under
// the data rows.
func writeSummary(f *excelize.File, sheet string, startRow int, durations []float64) error {
	total, err := stats.Sum(durations)
	if err != nil {
		total = 0
	}
	mean, err := stats.Mean(durations)
	if err != nil {
		mean = 0
	}
	median, err := stats.Median(durations)
	if err != nil {
		median = 0
	}

	rows := []struct {
		label string
		value float64
	}{
		{"Total duration", total},
		{"Mean daily duration", mean},
		{"Median daily duration", median},
	}
	for i, r := range rows {
		labelCell, _ := excelize.CoordinatesToCellName(1, startRow+i)
		valueCell, _ := excelize.CoordinatesToCellName(2, startRow+i)
		if err := f.SetCellValue(sheet, labelCell, r.label); err != nil {
			return errors.Wrap(err, "failed to write summary")
		}
		if err := f.SetCellValue(sheet, valueCell, r.value); err != nil {
			return errors.Wrap(err, "failed to write summary")
		}
	}
	return nil
}
