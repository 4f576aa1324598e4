package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/planforge/planforge/internal/core/domain"
)

// WriteCSV streams the tabular plan view as CSV, header first. The column
// set matches BuildTable so spreadsheet imports line up with the JSON view.
func WriteCSV(w io.Writer, plan *domain.Plan) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range BuildTable(plan).Rows {
		record := []string{
			row.ID, row.Name, row.Active, row.TaskMode, row.Duration,
			row.Start, row.Finish, row.Predecessors, row.OutlineLevel, row.Notes,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
