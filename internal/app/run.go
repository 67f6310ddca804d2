package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"weatherboard/internal/config"
	"weatherboard/internal/db"
	"weatherboard/internal/httpapi"
	"weatherboard/internal/migrate"
	"weatherboard/internal/modules/dashboard"
	"weatherboard/internal/modules/weather"
	"weatherboard/internal/mqtt"
	"weatherboard/internal/observability"
)

func Run(ctx context.Context, cfg config.Config) error {
	return run(ctx, cfg, observability.NewMetrics())
}

func run(ctx context.Context, cfg config.Config, metrics *observability.Metrics) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"sqliteDriver", cfg.SQLiteDriver,
		"sqlitePath", cfg.SQLitePath,
		"sqliteMaxOpenConns", cfg.SQLiteMaxOpenConns,
		"sqliteMaxIdleConns", cfg.SQLiteMaxIdleConns,
		"sqliteConnMaxLifetime", cfg.SQLiteConnMaxLifetime,
		"sqliteLogQueries", cfg.SQLiteLogQueries,
		"queryTimeout", cfg.QueryTimeout,
		"mqttEnabled", cfg.MQTTEnabled,
		"mqttBroker", cfg.MQTTBroker,
		"mqttPort", cfg.MQTTPort,
		"mqttTopic", cfg.MQTTTopic,
	)
	dbConn, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := db.Close(dbConn)
		if closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	if err := migrate.Run(ctx, dbConn); err != nil {
		return err
	}
	slog.Info("database ready")

	// Set the MQTT handler before Connect so the subscription made on connect
	// delivers straight into the weather module.
	var (
		subscriber *mqtt.Subscriber
		ingest     mqtt.MQTTSubscriber
		mqttStatus httpapi.MQTTStatus
	)
	if cfg.MQTTEnabled {
		subscriber = mqtt.NewSubscriber(cfg, slog.Default().With("component", "mqtt"), metrics)
		ingest = subscriber
		mqttStatus = subscriber
	}

	mux := httpapi.NewMux(dbConn, metrics, mqttStatus)
	weather.RegisterFeature(mux, dbConn, ingest, metrics, cfg)
	dashboard.RegisterFeature(mux, dbConn, metrics, cfg)

	if subscriber != nil {
		// Short timeout so a missing broker does not block startup.
		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		err = subscriber.Connect(connectCtx)
		connectCancel()
		if err != nil {
			slog.Warn("mqtt connection failed (continuing without mqtt)", "error", err)
		}
	}

	srv := httpapi.NewServer(cfg, mux, metrics)

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
