package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/keerthikaa27/factory-order-dashboard/api"
	"github.com/keerthikaa27/factory-order-dashboard/report"
	"github.com/keerthikaa27/factory-order-dashboard/views"
)

const barWidth = 30

var (
	brown      = lipgloss.Color("#6f4e37")
	cream      = lipgloss.Color("#f3e6d8")
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(brown)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	headStyle  = lipgloss.NewStyle().Bold(true).Foreground(cream).Background(brown).Padding(0, 1)
	cellStyle  = lipgloss.NewStyle().Padding(0, 1)
	greenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	amberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
	barStyle   = lipgloss.NewStyle().Foreground(brown)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headStyle
			}
			return cellStyle
		})
}

func searchTable(orders []api.Order) string {
	t := newTable("SO No", "Customer", "Part", "Status", "Delivery Date")
	for _, o := range orders {
		status := amberStyle.Render("Pending")
		if o.Dispatched() {
			status = greenStyle.Render("Dispatched")
		}
		t.Row(dash(o.SONumber), dash(o.CustomerName), dash(o.PartNumber), status, dash(o.DeliveryDate))
	}
	return t.Render()
}

func openTable(orders []api.Order) string {
	t := newTable("SO No", "Customer", "Part", "Order Qty", "Open Qty", "Delivery Date")
	for _, o := range orders {
		t.Row(dash(o.SONumber), dash(o.CustomerName), dash(o.PartNumber), qty(o.OrderQty), qty(o.OSOrderQty), dash(o.DeliveryDate))
	}
	return t.Render()
}

func summaryLine(s views.OpenSummary) string {
	return fmt.Sprintf("%s %s   %s %s   %s %s",
		mutedStyle.Render("Pending orders:"), titleStyle.Render(report.Count(s.PendingOrders)),
		mutedStyle.Render("Open quantity:"), titleStyle.Render(report.Count(s.OpenQuantity)),
		mutedStyle.Render("Customers:"), titleStyle.Render(report.Count(s.Customers)))
}

type barRow struct {
	label  string
	amount decimal.Decimal
}

func productBars(rows []api.ProductSales) string {
	out := make([]barRow, len(rows))
	for i, r := range rows {
		out[i] = barRow{r.PartNumber, r.TotalAmount}
	}
	return bars(out)
}

func customerBars(rows []api.CustomerSales) string {
	out := make([]barRow, len(rows))
	for i, r := range rows {
		out[i] = barRow{r.CustomerName, r.TotalAmount}
	}
	return bars(out)
}

// bars draws a horizontal bar per row scaled to the largest amount.
func bars(rows []barRow) string {
	top := decimal.Zero
	labelW := 0
	for _, r := range rows {
		top = decimal.Max(top, r.amount)
		labelW = max(labelW, lipgloss.Width(r.label))
	}
	var sb strings.Builder
	for _, r := range rows {
		n := 0
		if top.IsPositive() && r.amount.IsPositive() {
			n = int(r.amount.Div(top).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
		}
		fmt.Fprintf(&sb, "%s %s %s\n",
			lipgloss.NewStyle().Width(labelW).Render(r.label),
			barStyle.Render(strings.Repeat("█", n)+strings.Repeat(" ", barWidth-n)),
			report.Money(r.amount))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func dash(p *string) string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return "-"
	}
	return *p
}

func qty(p *int) string {
	if p == nil {
		return "-"
	}
	return report.Count(*p)
}
