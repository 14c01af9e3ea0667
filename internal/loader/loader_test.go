package loader

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const groceries = `Member_number,Date,itemDescription
1808,21-07-2015,tropical fruit
2552,05-01-2015,whole milk
2300,19-09-2015,pip fruit
1808,21-07-2015,whole milk
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_CSV(t *testing.T) {
	path := writeFile(t, "groceries.csv", groceries)

	purchases, err := Load(context.Background(), path, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, purchases, 4)

	first := purchases[0]
	assert.Equal(t, "1808", first.CustomerID)
	assert.Equal(t, "tropical fruit", first.Item)
	assert.Equal(t, time.Date(2015, time.July, 21, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, 5, purchases[3].Line)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
		errMsg  string
	}{
		{
			name:    "missing item column",
			file:    "log.csv",
			content: "Member_number,Date,product\n1,01-01-2015,milk\n",
			wantErr: ErrMissingColumn,
			errMsg:  "itemDescription",
		},
		{
			name:    "empty file",
			file:    "log.csv",
			content: "",
			wantErr: ErrMissingColumn,
		},
		{
			name:    "empty customer",
			file:    "log.csv",
			content: "Member_number,itemDescription\n,milk\n",
			wantErr: ErrMalformedRow,
			errMsg:  "line 2",
		},
		{
			name:    "short row",
			file:    "log.csv",
			content: "Member_number,itemDescription\n1\n",
			wantErr: ErrMalformedRow,
		},
		{
			name:    "control character in item",
			file:    "log.csv",
			content: "Member_number,itemDescription\n1,\"milk\x1fbread\"\n",
			wantErr: ErrMalformedRow,
			errMsg:  "control character",
		},
		{
			name:    "unsupported extension",
			file:    "log.parquet",
			content: "x",
			wantErr: ErrUnsupportedFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := Load(context.Background(), path, DefaultOptions())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.errMsg != "" {
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}
}

func TestLoad_UnparseableDatesAreKept(t *testing.T) {
	content := "Member_number,Date,itemDescription\n1,2015-07-21,milk\n1,21-07-2015,bread\n2,,eggs\n"
	path := writeFile(t, "iso.csv", content)

	purchases, err := Load(context.Background(), path, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, purchases, 3)

	assert.Equal(t, "milk", purchases[0].Item)
	assert.True(t, purchases[0].Date.IsZero(), "dates outside the layout are dropped, not fatal")
	assert.Equal(t, time.Date(2015, time.July, 21, 0, 0, 0, 0, time.UTC), purchases[1].Date)
	assert.True(t, purchases[2].Date.IsZero())
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_HeaderMatching(t *testing.T) {
	content := "\ufeff member_number ,ITEMDESCRIPTION\n7,eggs\n,\n8,bread\n"
	path := writeFile(t, "log.csv", content)

	purchases, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	require.Len(t, purchases, 2, "blank rows are skipped")
	assert.Equal(t, "7", purchases[0].CustomerID)
	assert.True(t, purchases[0].Date.IsZero(), "no date column means zero dates")
}

func TestLoad_TSVAndCustomColumns(t *testing.T) {
	path := writeFile(t, "log.tsv", "customer\tsku\nc1\tmilk\nc2\tbread\n")
	opts := Options{Columns: Columns{Customer: "customer", Item: "sku"}}

	purchases, err := Load(context.Background(), path, opts)
	require.NoError(t, err)
	require.Len(t, purchases, 2)
	assert.Equal(t, "bread", purchases[1].Item)
}

func TestLoad_ProgressWriter(t *testing.T) {
	path := writeFile(t, "groceries.csv", groceries)
	var progress bytes.Buffer

	opts := DefaultOptions()
	opts.Progress = &progress
	purchases, err := Load(context.Background(), path, opts)
	require.NoError(t, err)
	assert.Len(t, purchases, 4)
	assert.NotEmpty(t, progress.String())
}

func TestLoad_Canceled(t *testing.T) {
	path := writeFile(t, "groceries.csv", groceries)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, path, DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoad_Workbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Member_number", "Date", "itemDescription"},
		{1808, "21-07-2015", "tropical fruit"},
		{2552, 42009, "whole milk"}, // Excel serial for 2015-01-05
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "groceries.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	purchases, err := Load(context.Background(), path, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, purchases, 2)
	assert.Equal(t, "1808", purchases[0].CustomerID)
	assert.Equal(t, 2015, purchases[1].Date.Year())
	assert.Equal(t, time.January, purchases[1].Date.Month())
	assert.Equal(t, 5, purchases[1].Date.Day())
}

func TestLoad_WorkbookMissingColumn(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"customer", "item"}))
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := Load(context.Background(), path, DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.True(t, strings.Contains(err.Error(), "Member_number"))
}
