package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var testRows = [][]string{
	{"Row ID", "Order ID", "Order Date", "Ship Date", "Ship Mode", "Customer ID", "Category", "Sales"},
	{"1", "CA-1", "2014-01-06", "2014-01-09", "Second Class", "CG-1", "Furniture", "261.96"},
	{"2", "CA-2", "2014-01-07", "2014-01-10", "Standard Class", "CG-2", "Office Supplies", "14.62"},
	{"", "", "", "", "", "", "", ""},
	{"3", "CA-3", "2014-01-08", "2014-01-11", "First Class", "CG-3", "Furniture"},
}

func writeCSV(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	var content string
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				content += ","
			}
			content += cell
		}
		content += "\n"
	}
	require.Nil(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeXLSX(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cells := make([]interface{}, 0, len(row))
		for _, cell := range row {
			cells = append(cells, cell)
		}
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.Nil(t, err)
		require.Nil(t, f.SetSheetRow("Sheet1", axis, &cells))
	}
	require.Nil(t, f.SaveAs(path))
	return path
}

func TestNewRecords(t *testing.T) {
	testData := map[string]struct {
		rows     [][]string
		expected []Record
		err      error
	}{
		"no rows": {
			err: ErrMalformedInput,
		},
		"missing sales column": {
			rows: [][]string{{"Order Date", "Category"}, {"2014-01-06", "Furniture"}},
			err:  ErrMalformedInput,
		},
		"pads short rows and skips blank rows": {
			rows: [][]string{
				{"Order Date", " Category ", "Sales", "Row ID"},
				{"2014-01-06", "Furniture", "10"},
				{" ", ""},
				{"2014-01-07", "Technology", "20", "7"},
			},
			expected: []Record{
				{"Order Date": "2014-01-06", "Category": "Furniture", "Sales": "10", "Row ID": ""},
				{"Order Date": "2014-01-07", "Category": "Technology", "Sales": "20", "Row ID": "7"},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			records, err := NewRecords(td.rows)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, records)
		})
	}
}

func TestRecordSelect(t *testing.T) {
	rec := Record{"Order Date": "2014-01-06", "Ship Mode": "First Class", "Sales": "1"}
	res := rec.Select(ColumnOrderDate, ColumnSales, ColumnCategory)
	assert.Equal(t, Record{"Order Date": "2014-01-06", "Sales": "1"}, res)

	_, err := res.Get(ColumnCategory)
	assert.ErrorIs(t, err, ErrMalformedInput)

	val, err := Record{"Sales": " 1.5 "}.Get(ColumnSales)
	require.Nil(t, err)
	assert.Equal(t, "1.5", val)
}

func TestReadersFor(t *testing.T) {
	testData := map[string]struct {
		path     string
		expected []string
	}{
		"csv":     {"ledger.csv", []string{"csv"}},
		"xls":     {"ledger.XLS", []string{"xls", "xlsx"}},
		"xlsx":    {"ledger.xlsx", []string{"xlsx", "xls"}},
		"unknown": {"ledger", []string{"xlsx", "xls"}},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			var names []string
			for _, r := range ReadersFor(td.path) {
				names = append(names, r.Name())
			}
			assert.Equal(t, td.expected, names)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("csv", func(t *testing.T) {
		records, err := Load(writeCSV(t, dir, "ledger.csv", testRows))
		require.Nil(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "Furniture", records[0][ColumnCategory])
		assert.Equal(t, "", records[2][ColumnSales])
	})

	t.Run("xlsx", func(t *testing.T) {
		records, err := Load(writeXLSX(t, dir, "ledger.xlsx", testRows))
		require.Nil(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "261.96", records[0][ColumnSales])
		assert.Equal(t, "Office Supplies", records[1][ColumnCategory])
	})

	t.Run("xlsx typed cells", func(t *testing.T) {
		path := filepath.Join(dir, "typed.xlsx")
		f := excelize.NewFile()
		defer f.Close()
		for i, row := range [][]interface{}{
			{"Order Date", "Category", "Sales"},
			{time.Date(2014, 11, 8, 0, 0, 0, 0, time.UTC), "Furniture", 261.96},
		} {
			axis, err := excelize.CoordinatesToCellName(1, i+1)
			require.Nil(t, err)
			require.Nil(t, f.SetSheetRow("Sheet1", axis, &row))
		}
		require.Nil(t, f.SaveAs(path))

		records, err := Load(path)
		require.Nil(t, err)
		require.Len(t, records, 1)
		// date cells arrive as excel serial days instead of their display format
		assert.Equal(t, "41951", records[0][ColumnOrderDate])
		assert.Equal(t, "261.96", records[0][ColumnSales])
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "missing.xlsx"))
		assert.ErrorIs(t, err, ErrInputAccess)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := Load(dir)
		assert.ErrorIs(t, err, ErrInputAccess)
	})

	t.Run("both readers fail", func(t *testing.T) {
		path := filepath.Join(dir, "garbage.xlsx")
		require.Nil(t, os.WriteFile(path, []byte("not a workbook"), 0o644))
		_, err := Load(path)
		assert.ErrorIs(t, err, ErrInputAccess)
	})

	t.Run("missing required column", func(t *testing.T) {
		_, err := Load(writeCSV(t, dir, "nosales.csv", [][]string{{"Order Date", "Category"}, {"2014-01-06", "Furniture"}}))
		assert.ErrorIs(t, err, ErrMalformedInput)
		assert.NotErrorIs(t, err, ErrInputAccess)
	})
}

type failingReader struct {
	err error
}

func (f failingReader) Name() string { return "failing" }

func (f failingReader) ReadRows(string) ([][]string, error) { return nil, f.err }

func TestLoadWithFallback(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "ledger.csv", testRows)
	primaryErr := errors.New("primary exploded")

	records, err := LoadWith(path, failingReader{primaryErr}, CSVReader{})
	require.Nil(t, err)
	assert.Len(t, records, 3)

	secondaryErr := errors.New("secondary exploded")
	_, err = LoadWith(path, failingReader{primaryErr}, failingReader{secondaryErr})
	assert.ErrorIs(t, err, ErrInputAccess)
	assert.ErrorIs(t, err, primaryErr)
	assert.ErrorIs(t, err, secondaryErr)

	_, err = LoadWith(path)
	assert.ErrorIs(t, err, ErrInputAccess)
}
