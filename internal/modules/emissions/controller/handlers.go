package controller

import (
	"log/slog"
	"net/http"

	"greenpulse/internal/dashboard/chart"
	"greenpulse/internal/modules/emissions/types"
	"greenpulse/internal/modules/emissions/views"
	"greenpulse/internal/utils"
)

// RefreshService produces the dashboard payload.
type RefreshService interface {
	Refresh() (*types.RefreshResponse, error)
}

type EmissionsController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type emissionsControllerImpl struct {
	service   RefreshService
	stationID int
	livePush  bool
}

func NewEmissionsController(service RefreshService, stationID int, livePush bool) EmissionsController {
	return &emissionsControllerImpl{service: service, stationID: stationID, livePush: livePush}
}

func (c *emissionsControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", c.handleDashboard)
	mux.HandleFunc("GET /api/refresh-data", c.handleRefreshData)
	mux.HandleFunc("GET /api/chart.png", c.handleChartPNG)
}

func (c *emissionsControllerImpl) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := views.DashboardData{StationID: c.stationID, LivePush: c.livePush}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.RenderDashboard(w, &data); err != nil {
		slog.Error("dashboard template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
}

func (c *emissionsControllerImpl) handleRefreshData(w http.ResponseWriter, r *http.Request) {
	resp, err := c.service.Refresh()
	if err != nil {
		slog.Error("refresh data failed", "station_id", c.stationID, "error", err)
		utils.WriteRefreshError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// handleChartPNG renders the historical series server-side, for clients
// without a canvas (terminal watch, embeds).
func (c *emissionsControllerImpl) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	resp, err := c.service.Refresh()
	if err != nil {
		slog.Error("chart data failed", "station_id", c.stationID, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load chart data")
		return
	}
	png, err := chart.LinePNG(resp.Historical, 900, 300)
	if err != nil {
		slog.Error("chart render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(png); err != nil {
		slog.Error("chart: write response failed", "error", err)
	}
}
