package spreadsheet

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// SheetName is the single sheet every export carries.
const SheetName = "Registros"

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Write builds a one-sheet workbook with a header row followed by rows and
// saves it to dest, overwriting any existing file.
func Write(dest string, header []string, rows [][]any) error {
	x := excelize.NewFile()
	defer x.Close()

	if err := x.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerCells := make([]any, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := setRow(x, 1, headerCells); err != nil {
		return err
	}
	for r, row := range rows {
		if err := setRow(x, r+2, row); err != nil {
			return err
		}
	}

	dir := filepath.Dir(dest)
	if dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("create export dir %s: %w", dir, err)
		}
	}
	return saveAtomic(x, dir, dest)
}

// saveAtomic writes the workbook to a temporary file next to dest and renames
// it into place, so readers of dest only ever see a complete workbook.
func saveAtomic(x *excelize.File, dir, dest string) error {
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+"-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", dest, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp for %s: %w", dest, err)
	}
	if err := x.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", dest, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("replace %s: %w", dest, err)
	}
	return nil
}

func setRow(x *excelize.File, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := x.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}

// ReadRows returns every row of the export sheet as formatted text.
func ReadRows(path string) ([][]string, error) {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer x.Close()

	return x.GetRows(SheetName)
}
