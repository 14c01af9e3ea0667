// Package loader reads transaction logs (delimited text or Excel workbooks)
// into purchase rows.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/Veraticus/basket/internal/model"
)

// Loader errors.
var (
	ErrFileNotFound      = errors.New("transaction file not found")
	ErrMissingColumn     = errors.New("required column missing")
	ErrMalformedRow      = errors.New("malformed row")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Default column names, matching the public Groceries dataset.
const (
	DefaultCustomerColumn = "Member_number"
	DefaultItemColumn     = "itemDescription"
	DefaultDateColumn     = "Date"
	DefaultDateLayout     = "02-01-2006"
)

// Columns names the header fields the loader looks for.
type Columns struct {
	Customer string
	Item     string
	Date     string // Optional; ignored when absent from the header
}

// Options configures how a log is read.
type Options struct {
	Progress   io.Writer // Receives a progress bar when non-nil
	Columns    Columns
	DateLayout string
	Sheet      string // Excel sheet; defaults to the first one
	Delimiter  rune   // 0 picks one from the file extension
}

// DefaultOptions returns options for the Groceries dataset layout.
func DefaultOptions() Options {
	return Options{
		Columns: Columns{
			Customer: DefaultCustomerColumn,
			Item:     DefaultItemColumn,
			Date:     DefaultDateColumn,
		},
		DateLayout: DefaultDateLayout,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Columns.Customer == "" {
		o.Columns.Customer = def.Columns.Customer
	}
	if o.Columns.Item == "" {
		o.Columns.Item = def.Columns.Item
	}
	if o.DateLayout == "" {
		o.DateLayout = def.DateLayout
	}
	return o
}

// Load reads the transaction log at path.
func Load(ctx context.Context, path string, opts Options) ([]model.Purchase, error) {
	opts = opts.withDefaults()

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrFileNotFound, path, err)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnsupportedFormat, path)
	}

	start := time.Now()
	var purchases []model.Purchase

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		purchases, err = loadWorkbook(ctx, path, opts)
	case ".csv", ".tsv", ".txt", "":
		if opts.Delimiter == 0 {
			opts.Delimiter = delimiterFor(ext)
		}
		purchases, err = loadDelimited(ctx, path, info.Size(), opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	slog.Debug("Loaded transaction log",
		"file", filepath.Base(path),
		"rows", len(purchases),
		"duration", time.Since(start))

	return purchases, nil
}

func delimiterFor(ext string) rune {
	if ext == ".tsv" {
		return '\t'
	}
	return ','
}

// header maps the configured column names to their indexes.
type header struct {
	customer int
	item     int
	date     int // -1 when the log carries no date
}

func resolveHeader(fields []string, cols Columns) (header, error) {
	h := header{customer: -1, item: -1, date: -1}
	for i, field := range fields {
		name := normalizeHeader(field)
		switch {
		case h.customer < 0 && strings.EqualFold(name, cols.Customer):
			h.customer = i
		case h.item < 0 && strings.EqualFold(name, cols.Item):
			h.item = i
		case h.date < 0 && cols.Date != "" && strings.EqualFold(name, cols.Date):
			h.date = i
		}
	}

	var missing []string
	if h.customer < 0 {
		missing = append(missing, cols.Customer)
	}
	if h.item < 0 {
		missing = append(missing, cols.Item)
	}
	if len(missing) > 0 {
		return h, fmt.Errorf("%w: %s (header: %s)",
			ErrMissingColumn, strings.Join(missing, ", "), strings.Join(fields, ", "))
	}
	return h, nil
}

func normalizeHeader(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))
}

// rowParser converts records into purchases. Dates are informational, so a
// date that does not match the layout leaves Purchase.Date zero.
type rowParser struct {
	h         header
	parseDate dateParser
	badDates  int
}

func newRowParser(h header, parseDate dateParser) *rowParser {
	return &rowParser{h: h, parseDate: parseDate}
}

// parse converts one record into a purchase. It returns ok=false for blank
// rows, which are skipped.
func (rp *rowParser) parse(fields []string, line int) (model.Purchase, bool, error) {
	if isBlank(fields) {
		return model.Purchase{}, false, nil
	}

	h := rp.h
	last := max(h.customer, h.item)
	if len(fields) <= last {
		return model.Purchase{}, false, fmt.Errorf("%w: line %d: expected at least %d fields, got %d",
			ErrMalformedRow, line, last+1, len(fields))
	}

	p := model.Purchase{
		CustomerID: strings.TrimSpace(fields[h.customer]),
		Item:       strings.TrimSpace(fields[h.item]),
		Line:       line,
	}
	if p.CustomerID == "" {
		return model.Purchase{}, false, fmt.Errorf("%w: line %d: empty customer id", ErrMalformedRow, line)
	}
	if p.Item == "" {
		return model.Purchase{}, false, fmt.Errorf("%w: line %d: empty item", ErrMalformedRow, line)
	}
	if strings.ContainsFunc(p.CustomerID+p.Item, unicode.IsControl) {
		return model.Purchase{}, false, fmt.Errorf("%w: line %d: control character in customer id or item", ErrMalformedRow, line)
	}

	if h.date >= 0 && h.date < len(fields) {
		if raw := strings.TrimSpace(fields[h.date]); raw != "" {
			date, err := rp.parseDate(raw)
			if err != nil {
				if rp.badDates == 0 {
					slog.Debug("Keeping rows with unparseable dates", "line", line, "value", raw, "error", err)
				}
				rp.badDates++
			} else {
				p.Date = date
			}
		}
	}

	return p, true, nil
}

// finish reports how many dates were dropped.
func (rp *rowParser) finish() {
	if rp.badDates > 0 {
		slog.Debug("Rows loaded without a date", "count", rp.badDates)
	}
}

// dateParser turns a raw date cell into a time.
type dateParser func(raw string) (time.Time, error)

func layoutParser(layout string) dateParser {
	return func(raw string) (time.Time, error) {
		return time.Parse(layout, raw)
	}
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
