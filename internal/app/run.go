package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"greenpulse/internal/config"
	"greenpulse/internal/db"
	"greenpulse/internal/httpapi"
	"greenpulse/internal/migrate"
	"greenpulse/internal/modules/emissions"
	"greenpulse/internal/modules/emissions/service"
	"greenpulse/internal/modules/emissions/views"
	"greenpulse/internal/mqtt"
	"greenpulse/internal/ws"
)

// Run starts the greenpulse server and blocks until ctx is cancelled or
// the HTTP listener fails.
func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"stationID", cfg.StationID,
		"sqliteDriver", cfg.SQLiteDriver,
		"sqlitePath", cfg.SQLitePath,
		"mqttBroker", cfg.MQTTBroker,
		"mqttPort", cfg.MQTTPort,
		"mqttTopic", cfg.MQTTTopic,
		"livePush", cfg.LivePush,
	)

	dbConn, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(dbConn); closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	if err := migrate.Run(dbConn); err != nil {
		return err
	}

	var ok int
	err = dbConn.QueryRow(`SELECT 1`).Scan(&ok)
	if err != nil {
		return err
	}
	if ok != 1 {
		return errors.New("database connection failed")
	}
	slog.Info("database connection successful")

	if err := views.LoadTemplates(); err != nil {
		return err
	}

	hub := ws.NewHub(slog.Default())
	mux := httpapi.NewMux(dbConn)
	if cfg.LivePush {
		mux.HandleFunc("GET /ws", hub.HandleWebSocket)
	}

	// Attach the ingest handler before Connect: the broker may deliver
	// queued messages right after CONNACK.
	var subscriber *mqtt.Subscriber
	var ingest service.TelemetrySubscriber
	if cfg.MQTTBroker != "" {
		subscriber = mqtt.NewSubscriber(cfg, slog.Default())
		ingest = subscriber
	}
	emissions.RegisterFeature(mux, dbConn, cfg, ingest, hub, slog.Default())

	if subscriber != nil {
		// Short timeout so a dead broker doesn't block startup; the
		// dashboard still works on stored and synthetic data.
		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		err = subscriber.Connect(connectCtx)
		connectCancel()
		if err != nil {
			slog.Warn("mqtt connection failed (continuing without live ingest)", "error", err)
		}
	}

	srv := httpapi.NewServer(cfg, mux)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if subscriber != nil {
		slog.Info("mqtt disconnecting")
		subscriber.Disconnect()
	}

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
