package loader

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Veraticus/basket/internal/model"
	"github.com/xuri/excelize/v2"
)

func loadWorkbook(ctx context.Context, path string, opts Options) ([]model.Purchase, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", ErrMissingColumn)
		}
		sheet = sheets[0]
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	slog.Debug("Reading workbook", "sheet", sheet)

	parseDate := workbookDateParser(opts.DateLayout)

	var (
		rp        *rowParser
		haveHead  bool
		purchases []model.Purchase
	)
	for line := 1; rows.Next(); line++ {
		if line%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		// Raw values keep date cells as serial numbers regardless of the
		// workbook's display format.
		cells, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}

		if !haveHead {
			if isBlank(cells) {
				continue
			}
			h, err := resolveHeader(cells, opts.Columns)
			if err != nil {
				return nil, err
			}
			haveHead = true
			rp = newRowParser(h, parseDate)
			continue
		}

		p, ok, err := rp.parse(cells, line)
		if err != nil {
			return nil, err
		}
		if ok {
			purchases = append(purchases, p)
		}
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate sheet %q: %w", sheet, err)
	}
	if !haveHead {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrMissingColumn, sheet)
	}

	rp.finish()
	return purchases, nil
}

// workbookDateParser accepts Excel serial dates as well as text cells in
// the configured layout.
func workbookDateParser(layout string) dateParser {
	text := layoutParser(layout)
	return func(raw string) (time.Time, error) {
		if serial, err := strconv.ParseFloat(raw, 64); err == nil {
			date, convErr := excelize.ExcelDateToTime(serial, false)
			if convErr != nil {
				return time.Time{}, fmt.Errorf("serial date %v: %w", serial, convErr)
			}
			return date, nil
		}
		return text(raw)
	}
}
