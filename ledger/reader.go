package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var ErrNoSheet = errors.New("workbook has no readable sheet")

// Reader reads all rows of the first non-empty sheet of a file, header row included
type Reader interface {
	Name() string
	ReadRows(path string) ([][]string, error)
}

// XLSXReader reads office open xml workbooks
type XLSXReader struct{}

func (XLSXReader) Name() string { return "xlsx" }

func (XLSXReader) ReadRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// raw values keep date cells as serial day numbers rather than their display format
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("unable to read sheet %q, %w", sheet, err)
		}
		if len(rows) > 0 {
			return rows, nil
		}
	}
	return nil, ErrNoSheet
}

// XLSReader reads legacy binary excel workbooks
type XLSReader struct{}

func (XLSReader) Name() string { return "xls" }

func (XLSReader) ReadRows(path string) (rows [][]string, err error) {
	// the xls decoder panics on some corrupt workbooks
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("corrupt xls workbook, %v", r)
		}
	}()

	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, err
	}

	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		rows = make([][]string, 0, int(sheet.MaxRow)+1)
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, 0, row.LastCol()+1)
			for c := 0; c < row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			rows = append(rows, cells)
		}
		if len(rows) > 0 && !isBlank(rows[0]) {
			return rows, nil
		}
	}
	return nil, ErrNoSheet
}

// CSVReader reads comma separated text
type CSVReader struct{}

func (CSVReader) Name() string { return "csv" }

func (CSVReader) ReadRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	return r.ReadAll()
}

// ReadersFor selects the primary and optional secondary reader from the file extension
func ReadersFor(path string) []Reader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return []Reader{CSVReader{}}
	case ".xls":
		return []Reader{XLSReader{}, XLSXReader{}}
	default:
		return []Reader{XLSXReader{}, XLSReader{}}
	}
}

// Load reads a ledger file into records. The primary reader is tried first; on failure its
// error is kept, a warning is logged and the secondary reader is tried. The primary error is
// only surfaced if every reader fails.
func Load(path string) ([]Record, error) {
	return LoadWith(path, ReadersFor(path)...)
}

// LoadWith reads a ledger file trying each reader in order
func LoadWith(path string, readers ...Reader) ([]Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w, %w", ErrInputAccess, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, %w", path, ErrInputAccess)
	}
	if len(readers) == 0 {
		return nil, fmt.Errorf("no reader for %s, %w", path, ErrInputAccess)
	}

	var readErrs []error
	for i, r := range readers {
		rows, err := r.ReadRows(path)
		if err != nil {
			readErrs = append(readErrs, fmt.Errorf("%s reader, %w", r.Name(), err))
			if i < len(readers)-1 {
				slog.Warn("unable to read ledger, trying next reader",
					"path", path, "reader", r.Name(), "next_reader", readers[i+1].Name(), "error", err.Error())
			}
			continue
		}
		return NewRecords(rows)
	}
	return nil, fmt.Errorf("unable to read %s, %w", path, errors.Join(append([]error{ErrInputAccess}, readErrs...)...))
}
