package fetcher

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

// XLSXOptions configures the spreadsheet reader.
type XLSXOptions struct {
	// SheetName selects a sheet by name. When the named sheet is absent the
	// reader falls back to the first sheet; synthetic datasets do not always
	// keep the default "Sheet1" name. Empty selects the first sheet.
	SheetName string
}

// ReadXLSX reads one sheet of a spreadsheet and returns the header row and
// data rows as strings. Trailing fully-empty rows are dropped.
func ReadXLSX(path string, opts XLSXOptions) (header []string, rows [][]string, err error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "xlsx: open %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, nil, eris.Errorf("xlsx: %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	if opts.SheetName != "" {
		if s, ok := f.Sheet[opts.SheetName]; ok {
			sheet = s
		} else {
			zap.L().Warn("xlsx: sheet not found, falling back to first sheet",
				zap.String("sheet", opts.SheetName),
				zap.String("fallback", sheet.Name),
			)
		}
	}

	for i, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		empty := true
		for j, cell := range row.Cells {
			cells[j] = cell.String()
			if strings.TrimSpace(cells[j]) != "" {
				empty = false
			}
		}

		if i == 0 {
			header = cells
			continue
		}
		if empty {
			continue
		}
		rows = append(rows, cells)
	}

	if header == nil {
		return nil, nil, eris.Errorf("xlsx: sheet %q is empty", sheet.Name)
	}
	return header, rows, nil
}
