package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"salesledger/internal/domain"
)

const SheetName = "Sales"

type XLSX struct{}

func (XLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSX) Extension() string { return "xlsx" }

func (XLSX) Export(w io.Writer, rows []domain.Sale, cols []Column) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c.Header()
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, s := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		line := make([]any, len(cols))
		for j, c := range cols {
			line[j] = value(s, c)
		}
		if err := f.SetSheetRow(SheetName, cell, &line); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if len(rows) > 0 {
		if err := f.SetPanes(SheetName, &excelize.Panes{
			Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
		}); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}
