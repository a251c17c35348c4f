package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/albapepper/fpl-league-report/internal/aggregate"
)

const (
	// HighlightColor fills "Yes" cells in the triple-captain column.
	HighlightColor = "C6EFCE"

	// tripleCaptainColumn is "Triple Captain Used" (column F) on the
	// Captaincy sheet; data rows start below the header.
	tripleCaptainColumn = 6
	firstDataRow        = 2
)

// WriteFile writes the three-sheet workbook to path, then reopens it and
// highlights triple-captain gameweeks in place.
func WriteFile(path string, t *aggregate.Tables) error {
	f, err := build(Sheets(t))
	if err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		f.Close()
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close workbook: %w", err)
	}

	f, err = excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("reopen workbook %s: %w", path, err)
	}
	defer f.Close()

	if _, err := highlightTripleCaptain(f); err != nil {
		return err
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("save highlighted workbook: %w", err)
	}
	return nil
}

// Render produces the same workbook as WriteFile, in memory.
func Render(t *aggregate.Tables) ([]byte, error) {
	f, err := build(Sheets(t))
	if err != nil {
		return nil, err
	}
	base, err := f.WriteToBuffer()
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}

	f, err = excelize.OpenReader(bytes.NewReader(base.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("reopen workbook: %w", err)
	}
	defer f.Close()

	if _, err := highlightTripleCaptain(f); err != nil {
		return nil, err
	}
	out, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode highlighted workbook: %w", err)
	}
	return out.Bytes(), nil
}

// build lays out every sheet in order. An empty sheet has no rows at all,
// not even a header.
func build(sheets []Sheet) (*excelize.File, error) {
	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(0)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, s.Name); err != nil {
				f.Close()
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", s.Name, err)
		}

		if len(s.Rows) == 0 {
			continue
		}
		if err := writeSheet(f, s, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, s Sheet, headerStyle int) error {
	header := make([]interface{}, len(s.Header))
	for i, h := range s.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(s.Name, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", s.Name, err)
	}
	last, err := excelize.CoordinatesToCellName(len(s.Header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(s.Name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", s.Name, err)
	}

	for i, row := range s.Rows {
		cell, err := excelize.CoordinatesToCellName(1, firstDataRow+i)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.Name, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", s.Name, i+1, err)
		}
	}

	for i, h := range s.Header {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(s.Name, col, col, float64(len(h)+4)); err != nil {
			return fmt.Errorf("size %s column %s: %w", s.Name, col, err)
		}
	}
	return nil
}

// highlightTripleCaptain fills every "Yes" cell of the Captaincy sheet's
// triple-captain column and returns how many cells it styled.
func highlightTripleCaptain(f *excelize.File) (int, error) {
	style, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{HighlightColor}},
	})
	if err != nil {
		return 0, fmt.Errorf("create highlight style: %w", err)
	}

	rows, err := f.GetRows(SheetCaptaincy)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", SheetCaptaincy, err)
	}

	styled := 0
	for r := firstDataRow; r <= len(rows); r++ {
		cells := rows[r-1]
		if len(cells) < tripleCaptainColumn || cells[tripleCaptainColumn-1] != Yes {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(tripleCaptainColumn, r)
		if err != nil {
			return styled, err
		}
		if err := f.SetCellStyle(SheetCaptaincy, cell, cell, style); err != nil {
			return styled, fmt.Errorf("highlight %s: %w", cell, err)
		}
		styled++
	}
	return styled, nil
}
