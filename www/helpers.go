package www

import (
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/keerthikaa27/factory-order-dashboard/api"
	"github.com/keerthikaa27/factory-order-dashboard/report"
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"orDash": func(p *string) string {
			if p == nil || strings.TrimSpace(*p) == "" {
				return "-"
			}
			return *p
		},
		"qty": func(p *int) string {
			if p == nil {
				return "-"
			}
			return report.Count(*p)
		},
		"count": func(n any) string {
			switch v := n.(type) {
			case int:
				return report.Count(v)
			case int64:
				return report.Count(v)
			}
			return "-"
		},
		"money": report.Money,
		"barWidth": func(v, top decimal.Decimal) string {
			if top.IsZero() || v.IsNegative() {
				return "0"
			}
			return v.Div(top).Mul(decimal.NewFromInt(100)).Round(1).String()
		},
		"dispatched": func(o api.Order) bool { return o.Dispatched() },
	}
}
