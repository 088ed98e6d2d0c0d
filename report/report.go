// Package report writes order tables to XLSX workbooks.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/keerthikaa27/factory-order-dashboard/api"
)

// Column is one exported column: a header and how to read the cell.
type Column struct {
	Header string
	Width  float64
	Value  func(api.Order) any
}

// SearchColumns mirror the search results table.
var SearchColumns = []Column{
	{"SO No", 14, func(o api.Order) any { return str(o.SONumber) }},
	{"Customer", 28, func(o api.Order) any { return str(o.CustomerName) }},
	{"Part", 18, func(o api.Order) any { return str(o.PartNumber) }},
	{"Status", 12, func(o api.Order) any { return statusLabel(o) }},
	{"Delivery Date", 14, func(o api.Order) any { return str(o.DeliveryDate) }},
	{"Financial Year", 14, func(o api.Order) any { return str(o.FinancialYear) }},
	{"Source", 12, func(o api.Order) any { return o.SourceType }},
}

// OpenColumns mirror the open-orders table.
var OpenColumns = []Column{
	{"SO No", 14, func(o api.Order) any { return str(o.SONumber) }},
	{"Customer", 28, func(o api.Order) any { return str(o.CustomerName) }},
	{"Part", 18, func(o api.Order) any { return str(o.PartNumber) }},
	{"Order Qty", 10, func(o api.Order) any { return num(o.OrderQty) }},
	{"Open Qty", 10, func(o api.Order) any { return num(o.OSOrderQty) }},
	{"Delivery Date", 14, func(o api.Order) any { return str(o.DeliveryDate) }},
}

// WriteOrders writes a single-sheet workbook with a bold header row and one
// row per order. Null fields are left blank.
func WriteOrders(w io.Writer, sheet string, cols []Column, orders []api.Order) error {
	f := excelize.NewFile()
	defer f.Close()

	if len(cols) == 0 {
		return fmt.Errorf("report: no columns")
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("report: rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("report: header style: %w", err)
	}

	for i, c := range cols {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, col+"1", c.Header); err != nil {
			return fmt.Errorf("report: header %s: %w", c.Header, err)
		}
		if c.Width > 0 {
			if err := f.SetColWidth(sheet, col, col, c.Width); err != nil {
				return fmt.Errorf("report: width %s: %w", c.Header, err)
			}
		}
	}
	last, err := excelize.ColumnNumberToName(len(cols))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", bold); err != nil {
		return fmt.Errorf("report: header style: %w", err)
	}

	for r, o := range orders {
		for i, c := range cols {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			v := c.Value(o)
			if v == nil {
				continue
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("report: cell %s: %w", cell, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("report: write workbook: %w", err)
	}
	return nil
}

func str(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func num(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func statusLabel(o api.Order) any {
	if o.Status == nil {
		return nil
	}
	if o.Dispatched() {
		return "Dispatched"
	}
	return "Pending"
}
