package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"smartstudio/internal/clock"

	"github.com/xuri/excelize/v2"
)

// exportToExcel writes one sheet with every booking in [startDate, endDate].
func (b *Bot) exportToExcel(ctx context.Context, startDate, endDate time.Time) (string, error) {
	if err := os.MkdirAll(b.config.Exports.Path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Periode: %s - %s",
		startDate.Format(clock.DateLayout), endDate.Format(clock.DateLayout)))

	headers := []string{"ID", "Nama", "Telepon", "Tanggal", "Jam Mulai", "Durasi", "Alat", "Harga", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A2", "I2", headerStyle)

	row := 3
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		bookings, err := b.bookings.BookingsForDate(ctx, d.Format(clock.DateLayout))
		if err != nil {
			return "", fmt.Errorf("error getting bookings: %w", err)
		}
		for i := range bookings {
			bk := &bookings[i]
			values := []interface{}{
				bk.ID, bk.CustomerName, bk.Phone, bk.Date,
				fmt.Sprintf("%02d:00", bk.StartHour), bk.DurationHours,
				bk.Equipment, bk.Price, bk.Status,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				_ = f.SetCellValue(sheetName, cell, v)
			}
			row++
		}
	}

	_ = f.SetColWidth(sheetName, "B", "C", 20)
	_ = f.SetColWidth(sheetName, "D", "G", 16)
	_ = f.MergeCell(sheetName, "A1", "I1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("export_%s_to_%s.xlsx",
		startDate.Format(clock.DateLayout), endDate.Format(clock.DateLayout))
	filePath := filepath.Join(b.config.Exports.Path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	b.logger.Info().Str("file_path", filePath).Msg("Excel file created")
	return filePath, nil
}
