package dataset

import (
	"fmt"
	"io"
	"math"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"stockig/internal/files"
)

// SheetName is the worksheet holding the table in XLSX copies
const SheetName = "Dataset"

// WriteXLSX writes the dataset as a single-sheet workbook. Numeric cells are
// stored as numbers; missing values are left blank.
func WriteXLSX(path string, ds *Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range ds.Records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.Company, r.Period}
		for _, col := range Header[2:] {
			v, _ := r.Value(col)
			row = append(row, xlsxNumber(v))
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	return files.WriteAtomic(path, func(w io.Writer) error {
		if err := f.Write(w); err != nil {
			return fmt.Errorf("save workbook: %w", err)
		}
		return nil
	})
}

// ReadXLSX loads a dataset from the first sheet that carries the header
func ReadXLSX(path string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if idx, _ := f.GetSheetIndex(SheetName); idx >= 0 {
		sheets = append([]string{SheetName}, sheets...)
	}

	var lastErr error = ErrEmptyFile
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			lastErr = err
			continue
		}
		if len(rows) == 0 {
			continue
		}
		ds, err := decodeRows(rows[0], rows[1:])
		if err != nil {
			lastErr = err
			continue
		}
		return ds, nil
	}

	return nil, fmt.Errorf("%s: %w", filepath.Base(path), lastErr)
}

func xlsxNumber(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
