// Package importer bulk-loads items from an Excel workbook.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"item-tracker/internal/models"

	"github.com/tealeg/xlsx/v3"
)

const defaultMaxErrors = 50

var (
	ErrNoSheets     = errors.New("workbook has no sheets")
	ErrNoNameColumn = errors.New("header row has no name column")
)

// ItemCreator is satisfied by every store.Store.
type ItemCreator interface {
	Create(ctx context.Context, name string, description *string) (models.Item, error)
}

// ImportOptions defines the configuration for Excel import operations
type ImportOptions struct {
	Sheet     string // default: first sheet
	DryRun    bool
	MaxErrors int // default 50
}

// RowError represents an error that occurred during row processing
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportSummary contains the import statistics
type ImportSummary struct {
	Sheet    string     `json:"sheet"`
	Inserted int        `json:"inserted"`
	Skipped  int        `json:"skipped"`
	Errors   int        `json:"errors"`
	Samples  []RowError `json:"error_samples,omitempty"`
	DryRun   bool       `json:"dry_run"`
}

var columnAliases = map[string]string{
	"NAME":        "name",
	"ITEM":        "name",
	"TITLE":       "name",
	"DESCRIPTION": "description",
	"NOTES":       "description",
	"DETAILS":     "description",
}

// ImportExcel reads an .xlsx workbook and creates one item per data row.
func ImportExcel(ctx context.Context, creator ItemCreator, r io.Reader, opts ImportOptions) (ImportSummary, error) {
	summary := ImportSummary{DryRun: opts.DryRun}
	if opts.MaxErrors <= 0 {
		opts.MaxErrors = defaultMaxErrors
	}

	// xlsx needs random access, so the whole workbook is buffered.
	data, err := io.ReadAll(r)
	if err != nil {
		return summary, fmt.Errorf("failed to read Excel file: %w", err)
	}
	xlFile, err := xlsx.OpenBinary(data)
	if err != nil {
		return summary, fmt.Errorf("failed to open Excel file: %w", err)
	}

	sheet, err := pickSheet(xlFile, opts.Sheet)
	if err != nil {
		return summary, err
	}
	summary.Sheet = sheet.Name

	columns, err := readHeader(sheet)
	if err != nil {
		return summary, err
	}

	for rowIdx := 1; rowIdx < sheet.MaxRow; rowIdx++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		row, err := sheet.Row(rowIdx)
		if err != nil {
			return summary, fmt.Errorf("read row %d: %w", rowIdx+1, err)
		}

		name, description, empty := readRow(row, columns, sheet.MaxCol)
		if empty {
			summary.Skipped++
			continue
		}

		if err := createRow(ctx, creator, name, description, opts.DryRun); err != nil {
			summary.Errors++
			summary.Samples = append(summary.Samples, RowError{Row: rowIdx + 1, Message: err.Error()})
			if summary.Errors > opts.MaxErrors {
				return summary, fmt.Errorf("too many errors (%d), stopping import", summary.Errors)
			}
			continue
		}
		summary.Inserted++
	}

	return summary, nil
}

func pickSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, fmt.Errorf("sheet %q not found", name)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, ErrNoSheets
	}
	return f.Sheets[0], nil
}

// readHeader maps field name to column index.
func readHeader(sheet *xlsx.Sheet) (map[string]int, error) {
	if sheet.MaxRow == 0 {
		return nil, ErrNoNameColumn
	}
	header, err := sheet.Row(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	columns := make(map[string]int)
	for colIdx := 0; colIdx < sheet.MaxCol; colIdx++ {
		title := strings.ToUpper(strings.TrimSpace(header.GetCell(colIdx).String()))
		field, ok := columnAliases[title]
		if !ok {
			continue
		}
		// First matching column wins.
		if _, seen := columns[field]; !seen {
			columns[field] = colIdx
		}
	}

	if _, ok := columns["name"]; !ok {
		return nil, ErrNoNameColumn
	}
	return columns, nil
}

func readRow(row *xlsx.Row, columns map[string]int, maxCol int) (name string, description *string, empty bool) {
	empty = true
	for colIdx := 0; colIdx < maxCol; colIdx++ {
		if strings.TrimSpace(row.GetCell(colIdx).String()) != "" {
			empty = false
			break
		}
	}
	if empty {
		return "", nil, true
	}

	name = strings.TrimSpace(row.GetCell(columns["name"]).String())
	if col, ok := columns["description"]; ok {
		if d := strings.TrimSpace(row.GetCell(col).String()); d != "" {
			description = &d
		}
	}
	return name, description, false
}

func createRow(ctx context.Context, creator ItemCreator, name string, description *string, dryRun bool) error {
	if name == "" {
		return errors.New("name is required")
	}
	if dryRun {
		return nil
	}
	if _, err := creator.Create(ctx, name, description); err != nil {
		return err
	}
	return nil
}
