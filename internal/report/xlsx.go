package report

import (
	"fmt"
	"io"

	"github.com/farm-operations-api/internal/domain"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Departments"

var departmentHeaders = []any{
	"Department",
	"Description",
	"Total employees",
	"Active employees",
	"Total tools",
	"Available tools",
	"Assigned tools",
	"Total tasks",
	"Pending tasks",
	"Completed tasks",
}

// WriteDepartmentReport записывает отчёт по отделам в формате XLSX
func WriteDepartmentReport(w io.Writer, reports []domain.DepartmentReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &departmentHeaders); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(sheetName, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, r := range reports {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			r.DepartmentName,
			r.Description,
			r.TotalEmployees,
			r.ActiveEmployees,
			r.TotalTools,
			r.AvailableTools,
			r.AssignedTools,
			r.TotalTasks,
			r.PendingTasks,
			r.CompletedTasks,
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "B", 24); err != nil {
		return err
	}

	return f.Write(w)
}
