package analytics

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	dailySheet    = "Daily"
	servicesSheet = "Services"
)

var (
	dailyHeaders    = []interface{}{"Date", "Bookings", "Completed", "Cancelled", "Pending", "Revenue", "Avg response (min)", "New customers", "Returning customers"}
	servicesHeaders = []interface{}{"Service", "Bookings", "Revenue"}
)

// WriteXLSX writes a workbook with the daily snapshots and the service ranking
func (r *Reports) WriteXLSX(ctx context.Context, w io.Writer, days int) error {
	days = NormalizeDays(days)
	snapshots, err := r.window(ctx, days)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dailySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(servicesSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}

	if err := writeRow(f, dailySheet, 1, dailyHeaders); err != nil {
		return err
	}
	for i, s := range snapshots {
		row := []interface{}{
			r.dateKey(s.Date),
			s.Totals.Bookings,
			s.Totals.Completed,
			s.Totals.Cancelled,
			s.Totals.Pending,
			s.Totals.Revenue,
			s.Totals.AvgResponseMinutes,
			s.Customers.New,
			s.Customers.Returning,
		}
		if err := writeRow(f, dailySheet, i+2, row); err != nil {
			return err
		}
	}

	if err := writeRow(f, servicesSheet, 1, servicesHeaders); err != nil {
		return err
	}
	for i, stat := range mergeServices(snapshots) {
		if err := writeRow(f, servicesSheet, i+2, []interface{}{stat.Service, stat.Count, stat.Revenue}); err != nil {
			return err
		}
	}

	for sheet, cols := range map[string]int{dailySheet: len(dailyHeaders), servicesSheet: len(servicesHeaders)} {
		last, _ := excelize.ColumnNumberToName(cols)
		if err := f.SetCellStyle(sheet, "A1", last+"1", headerStyle); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "A", last, 18); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
