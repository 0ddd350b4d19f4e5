package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
)

var errNoColumns = errors.New("dataset has no columns")

// CSVExporter writes a header line followed by one line per row. Dataset
// titles only appear in PDF output.
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render encodes the dataset, quoting fields as encoding/csv requires.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv export: %w", errNoColumns)
	}

	records := make([][]string, 0, len(data.Rows)+1)
	records = append(records, data.Headers)
	for _, row := range data.Rows {
		records = append(records, data.Record(row))
	}

	var out bytes.Buffer
	w := csv.NewWriter(&out)
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("csv export %q: %w", data.Title, err)
	}
	return out.Bytes(), nil
}
