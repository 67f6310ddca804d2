package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"weatherboard/internal/modules/weather/repository"
	"weatherboard/internal/modules/weather/types"
	"weatherboard/internal/mqtt"
	"weatherboard/internal/observability"
)

const insertTimeout = 5 * time.Second

// errInvalidSample marks payloads that are dropped without touching the store.
var errInvalidSample = errors.New("invalid sample")

// registerMQTTHandler sets up the weather module's MQTT message handler.
func registerMQTTHandler(subscriber mqtt.MQTTSubscriber, repo repository.WeatherRepository, metrics *observability.Metrics, logger *slog.Logger) {
	subscriber.SetMessageHandler(newIngestHandler(repo, metrics, logger))
}

func newIngestHandler(repo repository.WeatherRepository, metrics *observability.Metrics, logger *slog.Logger) mqtt.MessageHandler {
	count := func(outcome string) {
		if metrics != nil {
			metrics.IngestMessages.WithLabelValues(outcome).Inc()
		}
	}

	return func(topic string, payload []byte) error {
		sample, err := decodeSample(payload)
		if err != nil {
			logger.Warn("invalid weather sample",
				"topic", topic,
				"error", err,
				"payload", string(payload),
			)
			count(observability.OutcomeInvalid)
			return nil
		}

		logger.Debug("processing weather sample", "id", sample.ID, "city", sample.City)

		ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
		defer cancel()
		if err := repo.Insert(ctx, sample); err != nil {
			logger.Error("failed to insert sample", "id", sample.ID, "city", sample.City, "error", err)
			count(observability.OutcomeError)
			return err
		}

		logger.Debug("successfully stored sample", "id", sample.ID)
		count(observability.OutcomeSuccess)
		return nil
	}
}

// decodeSample parses and validates a SampleMessage. A missing id is filled
// with a fresh UUID.
func decodeSample(payload []byte) (types.WeatherSample, error) {
	var msg types.SampleMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return types.WeatherSample{}, fmt.Errorf("%w: %v", errInvalidSample, err)
	}
	if err := validateSample(msg); err != nil {
		return types.WeatherSample{}, err
	}

	id := strings.TrimSpace(msg.ID)
	if id == "" {
		id = uuid.NewString()
	}
	return types.WeatherSample{
		ID:          id,
		City:        strings.TrimSpace(msg.City),
		Temp:        *msg.Temp,
		Humidity:    *msg.Humidity,
		PressurePsi: *msg.PressurePsi,
	}, nil
}

func validateSample(m types.SampleMessage) error {
	if strings.TrimSpace(m.City) == "" {
		return fmt.Errorf("%w: city is required", errInvalidSample)
	}
	if m.Temp == nil || m.Humidity == nil || m.PressurePsi == nil {
		return fmt.Errorf("%w: temp, humidity and pressure_psi are required", errInvalidSample)
	}
	if *m.Humidity < 0 || *m.Humidity > 100 {
		return fmt.Errorf("%w: humidity out of range: %f (must be 0-100)", errInvalidSample, *m.Humidity)
	}
	if *m.PressurePsi <= 0 {
		return fmt.Errorf("%w: pressure_psi must be positive: %f", errInvalidSample, *m.PressurePsi)
	}
	return nil
}
