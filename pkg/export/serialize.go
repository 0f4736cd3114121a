package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"

	"igharvest/pkg/errors"
)

// Format is the serialization target for an export
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// xlsxSheetName is the sheet the tabular data lands on
const xlsxSheetName = "Data"

// Artifact is a serialized export ready to be written or served
type Artifact struct {
	Data     []byte
	Filename string
	MIME     string
}

// Serialize renders a flattened table in the requested format. An empty
// table is an error: silently producing an empty file hides a harvest that
// yielded nothing.
func Serialize(table Table, dataType DataType, format Format) (*Artifact, error) {
	if len(table.Rows) == 0 {
		return nil, errors.New(errors.ErrorTypeEmptyExport, fmt.Sprintf("no %s rows to export", dataType), 0)
	}

	switch format {
	case FormatJSON:
		return serializeJSON(table, dataType)
	case FormatCSV:
		return serializeCSV(table, dataType)
	case FormatXLSX:
		return serializeXLSX(table, dataType)
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

func serializeJSON(table Table, dataType DataType) (*Artifact, error) {
	data, err := json.MarshalIndent(table.Rows, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON export: %w", err)
	}

	return &Artifact{
		Data:     data,
		Filename: fmt.Sprintf("%s.json", dataType),
		MIME:     "application/json",
	}, nil
}

func serializeCSV(table Table, dataType DataType) (*Artifact, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(table.Columns); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range table.Rows {
		fields := make([]string, len(table.Columns))
		for i, column := range table.Columns {
			fields[i] = cellString(row[column])
		}
		if err := writer.Write(fields); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV export: %w", err)
	}

	return &Artifact{
		Data:     buf.Bytes(),
		Filename: fmt.Sprintf("%s.csv", dataType),
		MIME:     "text/csv",
	}, nil
}

func serializeXLSX(table Table, dataType DataType) (*Artifact, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", xlsxSheetName); err != nil {
		return nil, fmt.Errorf("failed to name worksheet: %w", err)
	}

	for i, column := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := file.SetCellValue(xlsxSheetName, cell, column); err != nil {
			return nil, fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	for rowIdx, row := range table.Rows {
		for colIdx, column := range table.Columns {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, fmt.Errorf("failed to address cell: %w", err)
			}
			if err := file.SetCellValue(xlsxSheetName, cell, row[column]); err != nil {
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode XLSX export: %w", err)
	}

	return &Artifact{
		Data:     buf.Bytes(),
		Filename: fmt.Sprintf("%s.xlsx", dataType),
		MIME:     "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}, nil
}

func cellString(value interface{}) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
