package www

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/keerthikaa27/factory-order-dashboard/api"
	"github.com/keerthikaa27/factory-order-dashboard/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handlers) handleExportSearch(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	h.writeXLSX(w, "search-orders", "Search", report.SearchColumns, ws.Search.State().Results)
}

func (h *Handlers) handleExportOpen(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	h.writeXLSX(w, "open-orders", "Open Orders", report.OpenColumns, ws.Open.State().Orders)
}

// writeXLSX exports the rows the view currently holds; it never calls the
// backend.
func (h *Handlers) writeXLSX(w http.ResponseWriter, base, sheet string, cols []report.Column, orders []api.Order) {
	var buf bytes.Buffer
	if err := report.WriteOrders(&buf, sheet, cols, orders); err != nil {
		h.logger.Error("export failed", zap.String("sheet", sheet), zap.Error(err))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	name := fmt.Sprintf("%s-%s.xlsx", base, time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	buf.WriteTo(w)
}
