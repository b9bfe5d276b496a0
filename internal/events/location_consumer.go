package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/application"
	vehicleDomain "github.com/Kilat-Pet-Delivery/service-vehicles/internal/domain/vehicle"
	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/platform/domain"
	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/platform/kafka"
)

// LocationUpdater moves a stored vehicle to new coordinates.
type LocationUpdater interface {
	UpdateLocation(ctx context.Context, id int64, lat, lon float64) (*application.VehicleDTO, error)
}

// LocationReportConsumer applies tracker position reports to stored vehicles.
type LocationReportConsumer struct {
	consumer *kafka.Consumer
	service  LocationUpdater
	logger   *zap.Logger
}

// NewLocationReportConsumer creates a new LocationReportConsumer.
func NewLocationReportConsumer(
	brokers []string,
	groupID string,
	service LocationUpdater,
	logger *zap.Logger,
) *LocationReportConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, vehicleDomain.TopicVehicleTelemetry, logger)
	return &LocationReportConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming location reports. This blocks until the context is cancelled.
func (c *LocationReportConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *LocationReportConsumer) Close() error {
	return c.consumer.Close()
}

func (c *LocationReportConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from telemetry topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // malformed messages are never retried
	}

	switch cloudEvent.Type {
	case vehicleDomain.EventVehicleLocationReported:
		return c.handleLocationReported(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled telemetry event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *LocationReportConsumer) handleLocationReported(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt vehicleDomain.LocationReportedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse LocationReportedEvent data", zap.Error(err))
		return nil
	}

	_, err := c.service.UpdateLocation(ctx, evt.VehicleID, evt.Latitude, evt.Longitude)
	switch {
	case err == nil:
		c.logger.Debug("vehicle location applied", zap.Int64("vehicle_id", evt.VehicleID))
		return nil
	case domain.IsNotFound(err), domain.IsValidation(err):
		c.logger.Warn("dropping location report",
			zap.Int64("vehicle_id", evt.VehicleID),
			zap.Error(err),
		)
		return nil
	default:
		c.logger.Error("failed to apply location report",
			zap.Int64("vehicle_id", evt.VehicleID),
			zap.Error(err),
		)
		return err
	}
}
