package export

import (
	"encoding/csv"
	"io"

	"salesledger/internal/domain"
)

type CSV struct{}

func (CSV) ContentType() string { return "text/csv; charset=utf-8" }
func (CSV) Extension() string   { return "csv" }

func (CSV) Export(w io.Writer, rows []domain.Sale, cols []Column) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Header()
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range rows {
		line := make([]string, len(cols))
		for i, c := range cols {
			line[i] = text(s, c)
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
