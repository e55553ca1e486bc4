package steps

import (
	"fmt"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"
)

// getCellValue returns the cell of row under the header named columnName,
// or "" when the table has no such column
func getCellValue(table *godog.Table, row *messages.PickleTableRow, columnName string) string {
	if len(table.Rows) == 0 {
		return ""
	}

	for i, headerCell := range table.Rows[0].Cells {
		if headerCell.Value == columnName {
			if i < len(row.Cells) {
				return row.Cells[i].Value
			}
			return ""
		}
	}
	return ""
}

// dataRows returns every row after the header
func dataRows(table *godog.Table) ([]*messages.PickleTableRow, error) {
	if table == nil || len(table.Rows) < 2 {
		return nil, fmt.Errorf("table must have header and data rows")
	}
	return table.Rows[1:], nil
}

// columnValues returns the values of one column, in row order
func columnValues(table *godog.Table, columnName string) ([]string, error) {
	rows, err := dataRows(table)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		values = append(values, getCellValue(table, row, columnName))
	}
	return values, nil
}
