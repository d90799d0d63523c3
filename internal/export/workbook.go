// Package export writes a session's vehicle list to an .xlsx workbook.
package export

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/vburojevic/platescan/internal/domain"
)

// ContentType is the MIME type of the generated workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SheetName is the title of the only worksheet
const SheetName = "Vehicles"

// ErrNoVehicles is returned when there is nothing to export
var ErrNoVehicles = errors.New("no vehicles to export")

var headers = []string{"Plate", "Odometer", "Recorded At"}

var columnWidths = map[string]float64{"A": 15, "B": 15, "C": 20}

// Filename returns the download name for an export made at t
func Filename(t time.Time) string {
	return fmt.Sprintf("vehicles_%s.xlsx", t.Format("20060102_150405"))
}

// WriteWorkbook writes one header row plus one row per vehicle
func WriteWorkbook(w io.Writer, vehicles []domain.Vehicle) error {
	if len(vehicles) == 0 {
		return ErrNoVehicles
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range headers {
		if err := setCell(f, i+1, 1, h); err != nil {
			return err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "C1", bold); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for i, v := range vehicles {
		row := i + 2
		for col, value := range []string{v.Plate, v.Odometer, v.RecordedAtString()} {
			if err := setCell(f, col+1, row, value); err != nil {
				return err
			}
		}
	}

	for col, width := range columnWidths {
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("column width %s: %w", col, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellStr(SheetName, cell, value); err != nil {
		return fmt.Errorf("set %s: %w", cell, err)
	}
	return nil
}
