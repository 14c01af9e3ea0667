package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/basket/internal/model"
	"github.com/schollz/progressbar/v3"
)

// cancelCheckInterval is how many rows are read between context checks.
const cancelCheckInterval = 4096

func loadDelimited(ctx context.Context, path string, size int64, opts Options) ([]model.Purchase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var src io.Reader = f
	if opts.Progress != nil {
		bar := newProgressBar(opts.Progress, size)
		defer func() { _ = bar.Finish() }()
		reader := progressbar.NewReader(f, bar)
		src = &reader
	}

	return readDelimited(ctx, src, opts)
}

// readDelimited parses a delimited log whose first record is the header.
func readDelimited(ctx context.Context, r io.Reader, opts Options) ([]model.Purchase, error) {
	cr := csv.NewReader(r)
	cr.Comma = opts.Delimiter
	if cr.Comma == 0 {
		cr.Comma = ','
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	head, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: file is empty", ErrMissingColumn)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	h, err := resolveHeader(head, opts.Columns)
	if err != nil {
		return nil, err
	}

	rp := newRowParser(h, layoutParser(opts.DateLayout))
	purchases := make([]model.Purchase, 0, 1024)
	for row := 0; ; row++ {
		if row%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, parseErr.Line, parseErr.Err)
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		line, _ := cr.FieldPos(0)

		p, ok, err := rp.parse(record, line)
		if err != nil {
			return nil, err
		}
		if ok {
			purchases = append(purchases, p)
		}
	}

	rp.finish()
	return purchases, nil
}

func newProgressBar(w io.Writer, size int64) *progressbar.ProgressBar {
	return progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Reading transactions...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)
}
