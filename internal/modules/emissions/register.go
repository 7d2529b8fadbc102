package emissions

import (
	"database/sql"
	"log/slog"
	"net/http"

	"greenpulse/internal/config"
	"greenpulse/internal/modules/emissions/controller"
	"greenpulse/internal/modules/emissions/repository"
	"greenpulse/internal/modules/emissions/service"
)

// RegisterFeature wires the emissions feature into the mux and, when a
// subscriber is given, attaches the live telemetry ingest. hub may be nil
// when live push is disabled.
func RegisterFeature(mux *http.ServeMux, db *sql.DB, cfg config.Config, subscriber service.TelemetrySubscriber, hub service.Broadcaster, logger *slog.Logger) {
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, cfg.StationID)
	if subscriber != nil {
		svc.RegisterIngest(subscriber, hub, logger)
	}
	ctrl := controller.NewEmissionsController(svc, cfg.StationID, cfg.LivePush)
	ctrl.RegisterRoutes(mux)
}
