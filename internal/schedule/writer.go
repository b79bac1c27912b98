package schedule

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/zhangkeAstrus/autoschedule-import/internal/model"
)

// WriteCSV serializes the table as UTF-8 comma-separated text with the
// column names as the header row. This is the only export format produced.
func WriteCSV(w io.Writer, table *model.ScheduleTable) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range table.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile writes the table to the given path.
func WriteFile(path string, table *model.ScheduleTable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	if err := WriteCSV(f, table); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
