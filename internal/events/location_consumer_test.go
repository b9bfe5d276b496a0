package events

import (
	"context"
	"encoding/json"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/application"
	vehicleDomain "github.com/Kilat-Pet-Delivery/service-vehicles/internal/domain/vehicle"
	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/platform/domain"
	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/platform/kafka"
)

type MockLocationUpdater struct {
	mock.Mock
}

func (m *MockLocationUpdater) UpdateLocation(ctx context.Context, id int64, lat, lon float64) (*application.VehicleDTO, error) {
	args := m.Called(ctx, id, lat, lon)
	dto, _ := args.Get(0).(*application.VehicleDTO)
	return dto, args.Error(1)
}

func newTestConsumer(svc LocationUpdater) *LocationReportConsumer {
	return &LocationReportConsumer{service: svc, logger: zap.NewNop()}
}

func locationMessage(t *testing.T, eventType string, data interface{}) kafkago.Message {
	t.Helper()
	ce, err := kafka.NewCloudEvent("tracker", eventType, data)
	require.NoError(t, err)
	value, err := json.Marshal(ce)
	require.NoError(t, err)
	return kafkago.Message{Value: value}
}

func TestHandleMessage_AppliesLocation(t *testing.T) {
	svc := new(MockLocationUpdater)
	svc.On("UpdateLocation", mock.Anything, int64(4), 51.5, -0.12).Return(&application.VehicleDTO{ID: 4}, nil)

	msg := locationMessage(t, vehicleDomain.EventVehicleLocationReported,
		vehicleDomain.LocationReportedEvent{VehicleID: 4, Latitude: 51.5, Longitude: -0.12})

	assert.NoError(t, newTestConsumer(svc).handleMessage(context.Background(), msg))
	svc.AssertExpectations(t)
}

func TestHandleMessage_DropsPermanentFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"unknown vehicle", domain.NewNotFoundError("Vehicle", "4")},
		{"bad coordinates", domain.NewValidationError("invalid latitude")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockLocationUpdater)
			svc.On("UpdateLocation", mock.Anything, int64(4), mock.Anything, mock.Anything).Return(nil, tt.err)

			msg := locationMessage(t, vehicleDomain.EventVehicleLocationReported,
				vehicleDomain.LocationReportedEvent{VehicleID: 4, Latitude: 1, Longitude: 2})

			assert.NoError(t, newTestConsumer(svc).handleMessage(context.Background(), msg))
		})
	}
}

func TestHandleMessage_StoreFailureIsRetried(t *testing.T) {
	svc := new(MockLocationUpdater)
	svc.On("UpdateLocation", mock.Anything, int64(4), mock.Anything, mock.Anything).Return(nil, assert.AnError)

	msg := locationMessage(t, vehicleDomain.EventVehicleLocationReported,
		vehicleDomain.LocationReportedEvent{VehicleID: 4, Latitude: 1, Longitude: 2})

	assert.ErrorIs(t, newTestConsumer(svc).handleMessage(context.Background(), msg), assert.AnError)
}

func TestHandleMessage_IgnoresMalformedAndUnknown(t *testing.T) {
	svc := new(MockLocationUpdater)
	c := newTestConsumer(svc)

	assert.NoError(t, c.handleMessage(context.Background(), kafkago.Message{Value: []byte("not json")}))
	assert.NoError(t, c.handleMessage(context.Background(), locationMessage(t, "vehicle.engine_started", map[string]int{"rpm": 900})))
	assert.NoError(t, c.handleMessage(context.Background(), locationMessage(t, vehicleDomain.EventVehicleLocationReported, "not an object")))
	svc.AssertNotCalled(t, "UpdateLocation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
