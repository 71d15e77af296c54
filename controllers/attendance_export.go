package controllers

import (
	"fmt"
	"strconv"

	"academy_go/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

var statusShort = map[string]string{
	models.AttendancePresent: "P",
	models.AttendanceAbsent:  "A",
	models.AttendanceLate:    "L",
	models.AttendanceExcused: "E",
}

// ExportMonthlyMatrix renders the monthly grid for a batch as an
// .xlsx download: one row per student, one column per day of the
// month, single-letter status codes in the cells.
func (ac *AttendanceController) ExportMonthlyMatrix(c *fiber.Ctx) error {
	batchID, err := c.ParamsInt("batchId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid batch ID"})
	}
	year, _ := strconv.Atoi(c.Query("year"))
	month, _ := strconv.Atoi(c.Query("month"))

	matrix, err := ac.service.Monthly(uint(batchID), year, month, nil)
	if err != nil {
		return ac.respondError(c, err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	f.SetCellValue(sheet, "A1", fmt.Sprintf("%s — %04d-%02d", matrix.BatchName, year, month))
	f.SetCellValue(sheet, "A2", "Student")
	for i, col := range matrix.DateColumns {
		cell, _ := excelize.CoordinatesToCellName(i+2, 2)
		f.SetCellValue(sheet, cell, fmt.Sprintf("%d\n%s", col.Date.Day(), col.DayLabel))
	}

	for r, row := range matrix.Students {
		nameCell, _ := excelize.CoordinatesToCellName(1, r+3)
		f.SetCellValue(sheet, nameCell, row.StudentName)
		for i, cell := range row.Cells {
			if !cell.Marked {
				continue
			}
			code := statusShort[cell.Status]
			if cell.EntryType == models.EntryMakeup {
				code += "*"
			}
			addr, _ := excelize.CoordinatesToCellName(i+2, r+3)
			f.SetCellValue(sheet, addr, code)
		}
	}

	f.SetColWidth(sheet, "A", "A", 28)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return ac.respondError(c, err)
	}

	filename := fmt.Sprintf("attendance_batch%d_%04d-%02d.xlsx", batchID, year, month)
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}
