package application

import (
	"context"

	"github.com/stretchr/testify/mock"

	vehicleDomain "github.com/Kilat-Pet-Delivery/service-vehicles/internal/domain/vehicle"
	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/platform/kafka"
)

type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) FindAll(ctx context.Context) ([]*vehicleDomain.Vehicle, error) {
	args := m.Called(ctx)
	vehicles, _ := args.Get(0).([]*vehicleDomain.Vehicle)
	return vehicles, args.Error(1)
}

func (m *MockVehicleRepository) FindByID(ctx context.Context, id int64) (*vehicleDomain.Vehicle, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*vehicleDomain.Vehicle)
	return v, args.Error(1)
}

func (m *MockVehicleRepository) Save(ctx context.Context, v *vehicleDomain.Vehicle) (*vehicleDomain.Vehicle, error) {
	args := m.Called(ctx, v)
	if fn, ok := args.Get(0).(func(context.Context, *vehicleDomain.Vehicle) *vehicleDomain.Vehicle); ok {
		return fn(ctx, v), args.Error(1)
	}
	saved, _ := args.Get(0).(*vehicleDomain.Vehicle)
	return saved, args.Error(1)
}

func (m *MockVehicleRepository) Update(ctx context.Context, v *vehicleDomain.Vehicle) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockVehicleRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockPriceLookup struct {
	mock.Mock
}

func (m *MockPriceLookup) FetchPrice(ctx context.Context, vehicleID int64) (*vehicleDomain.PriceQuote, error) {
	args := m.Called(ctx, vehicleID)
	q, _ := args.Get(0).(*vehicleDomain.PriceQuote)
	return q, args.Error(1)
}

type MockGeocodeLookup struct {
	mock.Mock
}

func (m *MockGeocodeLookup) FetchAddress(ctx context.Context, lat, lon float64) (*vehicleDomain.Address, error) {
	args := m.Called(ctx, lat, lon)
	a, _ := args.Get(0).(*vehicleDomain.Address)
	return a, args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishEvent(ctx context.Context, topic, key string, event kafka.CloudEvent) error {
	return m.Called(ctx, topic, key, event).Error(0)
}
