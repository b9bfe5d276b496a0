package application

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	vehicleDomain "github.com/Kilat-Pet-Delivery/service-vehicles/internal/domain/vehicle"
	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/platform/domain"
	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/platform/kafka"
)

const eventSource = "service-vehicles"

// SaveVehicleRequest carries the caller-editable fields of a vehicle.
// ID is zero for a create and set from the path for an update.
type SaveVehicleRequest struct {
	ID        int64                  `json:"-"`
	Details   vehicleDomain.Details  `json:"details"`
	Condition string                 `json:"condition" binding:"required"`
	Location  vehicleDomain.Location `json:"location"`
}

// VehicleDTO is the API response representation of a vehicle.
type VehicleDTO struct {
	ID        int64                  `json:"id"`
	Details   vehicleDomain.Details  `json:"details"`
	Condition string                 `json:"condition"`
	Location  vehicleDomain.Location `json:"location"`
	Price     string                 `json:"price,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"modifiedAt"`
}

// EventPublisher publishes CloudEvents to a topic.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event kafka.CloudEvent) error
}

// VehicleService implements the catalog use cases. Single reads are enriched
// with a price quote and a reverse-geocoded address on a best-effort basis.
type VehicleService struct {
	repo      vehicleDomain.VehicleRepository
	prices    vehicleDomain.PriceLookup
	geocoder  vehicleDomain.GeocodeLookup
	publisher EventPublisher
	logger    *zap.Logger
}

// NewVehicleService creates a new VehicleService. publisher may be nil.
func NewVehicleService(
	repo vehicleDomain.VehicleRepository,
	prices vehicleDomain.PriceLookup,
	geocoder vehicleDomain.GeocodeLookup,
	publisher EventPublisher,
	logger *zap.Logger,
) *VehicleService {
	return &VehicleService{
		repo:      repo,
		prices:    prices,
		geocoder:  geocoder,
		publisher: publisher,
		logger:    logger,
	}
}

// List returns every vehicle in store order, without enrichment.
func (s *VehicleService) List(ctx context.Context) ([]VehicleDTO, error) {
	vehicles, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	dtos := make([]VehicleDTO, len(vehicles))
	for i, v := range vehicles {
		dtos[i] = toVehicleDTO(v)
	}
	return dtos, nil
}

// FindByID returns a vehicle with its current price and address attached when
// the lookups succeed. Lookup failures never fail the read.
func (s *VehicleService) FindByID(ctx context.Context, id int64) (*VehicleDTO, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.enrich(ctx, v)

	result := toVehicleDTO(v)
	return &result, nil
}

// Save creates the vehicle when req.ID is zero. Otherwise it overlays details,
// location coordinates and condition onto the stored vehicle. The condition is
// checked before the store is touched, so a bad condition is a validation error
// even when the id does not exist.
func (s *VehicleService) Save(ctx context.Context, req SaveVehicleRequest) (*VehicleDTO, error) {
	condition, err := vehicleDomain.ParseCondition(req.Condition)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	if req.ID == 0 {
		return s.create(ctx, req.Details, condition, req.Location)
	}
	return s.update(ctx, req.ID, req.Details, condition, req.Location)
}

// Delete removes a stored vehicle.
func (s *VehicleService) Delete(ctx context.Context, id int64) error {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete vehicle", zap.Int64("vehicle_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	s.logger.Info("vehicle deleted", zap.Int64("vehicle_id", id))
	s.publishChanged(ctx, vehicleDomain.EventVehicleDeleted, v)
	return nil
}

// UpdateLocation moves a stored vehicle to new coordinates.
func (s *VehicleService) UpdateLocation(ctx context.Context, id int64, lat, lon float64) (*VehicleDTO, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := v.Relocate(lat, lon); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, v); err != nil {
		s.logger.Error("failed to relocate vehicle", zap.Int64("vehicle_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to relocate vehicle: %w", err)
	}

	s.logger.Info("vehicle relocated", zap.Int64("vehicle_id", id))
	s.publishChanged(ctx, vehicleDomain.EventVehicleUpdated, v)
	result := toVehicleDTO(v)
	return &result, nil
}

func (s *VehicleService) create(
	ctx context.Context,
	details vehicleDomain.Details,
	condition vehicleDomain.Condition,
	loc vehicleDomain.Location,
) (*VehicleDTO, error) {
	v, err := vehicleDomain.NewVehicle(details, condition, loc)
	if err != nil {
		return nil, err
	}

	saved, err := s.repo.Save(ctx, v)
	if err != nil {
		s.logger.Error("failed to create vehicle", zap.Error(err))
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	s.logger.Info("vehicle created", zap.Int64("vehicle_id", saved.ID()))
	s.publishChanged(ctx, vehicleDomain.EventVehicleCreated, saved)
	result := toVehicleDTO(saved)
	return &result, nil
}

func (s *VehicleService) update(
	ctx context.Context,
	id int64,
	details vehicleDomain.Details,
	condition vehicleDomain.Condition,
	loc vehicleDomain.Location,
) (*VehicleDTO, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := v.ApplyUpdate(details, condition, loc); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, v); err != nil {
		s.logger.Error("failed to update vehicle", zap.Int64("vehicle_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update vehicle: %w", err)
	}

	s.logger.Info("vehicle updated", zap.Int64("vehicle_id", id))
	s.publishChanged(ctx, vehicleDomain.EventVehicleUpdated, v)
	result := toVehicleDTO(v)
	return &result, nil
}

// enrich runs the price and address lookups concurrently. Each lookup applies
// only its own result; the group has no shared context, so one failing never
// cancels the other.
func (s *VehicleService) enrich(ctx context.Context, v *vehicleDomain.Vehicle) {
	var (
		g     errgroup.Group
		quote *vehicleDomain.PriceQuote
		addr  *vehicleDomain.Address
	)
	id := v.ID()
	loc := v.Location()

	if s.prices != nil {
		g.Go(func() error {
			quote = s.fetchQuote(ctx, id)
			return nil
		})
	}
	if s.geocoder != nil {
		g.Go(func() error {
			addr = s.fetchAddress(ctx, id, loc)
			return nil
		})
	}
	// Both lookups report failure through their results, never through the group.
	g.Wait()

	if quote != nil {
		v.AttachPrice(*quote)
	}
	if addr != nil {
		v.AttachAddress(*addr)
	}
}

func (s *VehicleService) fetchQuote(ctx context.Context, id int64) (quote *vehicleDomain.PriceQuote) {
	defer s.recoverLookup("price", id, func() { quote = nil })

	q, err := s.prices.FetchPrice(ctx, id)
	if err != nil {
		s.logEnrichmentFailure("price", id, err)
		return nil
	}
	return q
}

func (s *VehicleService) fetchAddress(ctx context.Context, id int64, loc vehicleDomain.Location) (addr *vehicleDomain.Address) {
	defer s.recoverLookup("address", id, func() { addr = nil })

	a, err := s.geocoder.FetchAddress(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		s.logEnrichmentFailure("address", id, err)
		return nil
	}
	return a
}

func (s *VehicleService) recoverLookup(kind string, id int64, reset func()) {
	if r := recover(); r != nil {
		reset()
		s.logEnrichmentFailure(kind, id, fmt.Errorf("lookup panicked: %v", r))
	}
}

func (s *VehicleService) logEnrichmentFailure(kind string, id int64, err error) {
	s.logger.Warn("vehicle enrichment skipped",
		zap.String("enrichment", kind),
		zap.Int64("vehicle_id", id),
		zap.NamedError("outcome", vehicleDomain.ErrEnrichmentUnavailable),
		zap.Error(err),
	)
}

func (s *VehicleService) publishChanged(ctx context.Context, eventType string, v *vehicleDomain.Vehicle) {
	loc := v.Location()
	evt := vehicleDomain.ChangedEvent{
		VehicleID:  v.ID(),
		Condition:  string(v.Condition()),
		Latitude:   loc.Latitude,
		Longitude:  loc.Longitude,
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, vehicleDomain.TopicVehicleEvents, eventType, strconv.FormatInt(v.ID(), 10), evt)
}

func (s *VehicleService) publishEvent(ctx context.Context, topic, eventType, key string, data interface{}) {
	if s.publisher == nil {
		return
	}

	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.publisher.PublishEvent(ctx, topic, key, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

// toVehicleDTO converts a vehicle aggregate to its API representation.
func toVehicleDTO(v *vehicleDomain.Vehicle) VehicleDTO {
	return VehicleDTO{
		ID:        v.ID(),
		Details:   v.Details(),
		Condition: string(v.Condition()),
		Location:  v.Location(),
		Price:     v.Price(),
		CreatedAt: v.CreatedAt(),
		UpdatedAt: v.UpdatedAt(),
	}
}
