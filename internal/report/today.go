// Package report renders dashboard data as spreadsheet files.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"

	"github.com/Kerhoff/MessBoT/internal/models"
)

// ContentType is the MIME type of generated workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TodaySheet is the name of the sheet holding the daily summary
const TodaySheet = "Today"

var todayHeader = []interface{}{
	"Name", "Email", "Phone", "Plan", "Meal type", "Breakfast", "Lunch", "Dinner",
}

// TodaySummary renders the daily summary as an xlsx workbook: a header row,
// one row per subscriber and a totals row.
func TodaySummary(summary *models.TodaySummary) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), TodaySheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(TodaySheet, "A1", &todayHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	row := 2
	for _, d := range summary.Details {
		var name, email, phone string
		if d.User != nil {
			name, email = d.User.Name, d.User.Email
			if d.User.Phone != nil {
				phone = *d.User.Phone
			}
		}

		excelRow := []interface{}{
			name,
			email,
			phone,
			d.Plan.Name,
			string(d.Plan.MealType),
			yesNo(d.Attendance.Breakfast),
			yesNo(d.Attendance.Lunch),
			yesNo(d.Attendance.Dinner),
		}
		if err := setRow(f, row, excelRow); err != nil {
			return nil, err
		}
		row++
	}

	totals := []interface{}{
		fmt.Sprintf("Total (%d active)", summary.Summary.TotalActiveSubscriptions),
		"", "", "", "",
		summary.Summary.BreakfastCount,
		summary.Summary.LunchCount,
		summary.Summary.DinnerCount,
	}
	if err := setRow(f, row, totals); err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// TodaySummaryFilename names the export file after the mess and the day
func TodaySummaryFilename(summary *models.TodaySummary) string {
	return fmt.Sprintf("today_%s_%s.xlsx", slug(summary.Mess.Name), summary.Date.Format(time.DateOnly))
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", row, err)
	}
	if err := f.SetSheetRow(TodaySheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func slug(name string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	s := strings.TrimSuffix(b.String(), "_")
	if s == "" {
		return "mess"
	}
	return s
}
