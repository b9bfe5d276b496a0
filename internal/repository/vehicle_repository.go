package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	vehicleDomain "github.com/Kilat-Pet-Delivery/service-vehicles/internal/domain/vehicle"
	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/platform/domain"
)

// VehicleModel is the GORM model for the vehicles table.
// The location's address block is derived per read and has no column.
type VehicleModel struct {
	ID        int64          `gorm:"primaryKey;autoIncrement"`
	Details   datatypes.JSON `gorm:"type:jsonb;not null"`
	Condition string         `gorm:"type:varchar(10);not null"`
	Latitude  float64        `gorm:"not null"`
	Longitude float64        `gorm:"not null"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (VehicleModel) TableName() string { return "vehicles" }

// GormVehicleRepository implements VehicleRepository using GORM.
type GormVehicleRepository struct {
	db *gorm.DB
}

// NewGormVehicleRepository creates a new GormVehicleRepository.
func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

// FindAll returns every vehicle ordered by id.
func (r *GormVehicleRepository) FindAll(ctx context.Context) ([]*vehicleDomain.Vehicle, error) {
	var models []VehicleModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	vehicles := make([]*vehicleDomain.Vehicle, len(models))
	for i := range models {
		v, err := toVehicleDomain(&models[i])
		if err != nil {
			return nil, err
		}
		vehicles[i] = v
	}
	return vehicles, nil
}

// FindByID retrieves a vehicle by id.
func (r *GormVehicleRepository) FindByID(ctx context.Context, id int64) (*vehicleDomain.Vehicle, error) {
	var model VehicleModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Vehicle", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to find vehicle by ID: %w", err)
	}
	return toVehicleDomain(&model)
}

// Save inserts a transient vehicle; the database assigns its id.
func (r *GormVehicleRepository) Save(ctx context.Context, v *vehicleDomain.Vehicle) (*vehicleDomain.Vehicle, error) {
	if v.IsPersisted() {
		return nil, fmt.Errorf("vehicle %d is already persisted", v.ID())
	}

	model, err := toVehicleModel(v)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, fmt.Errorf("failed to save vehicle: %w", err)
	}

	v.AssignID(model.ID)
	return v, nil
}

// Update writes the editable columns of a stored vehicle.
func (r *GormVehicleRepository) Update(ctx context.Context, v *vehicleDomain.Vehicle) error {
	model, err := toVehicleModel(v)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&VehicleModel{}).
		Where("id = ?", v.ID()).
		Updates(map[string]interface{}{
			"details":    model.Details,
			"condition":  model.Condition,
			"latitude":   model.Latitude,
			"longitude":  model.Longitude,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update vehicle: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Vehicle", strconv.FormatInt(v.ID(), 10))
	}
	return nil
}

// Delete removes a vehicle by id.
func (r *GormVehicleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&VehicleModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete vehicle: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Vehicle", strconv.FormatInt(id, 10))
	}
	return nil
}

// --- Conversions ---

func toVehicleModel(v *vehicleDomain.Vehicle) (*VehicleModel, error) {
	details, err := json.Marshal(v.Details())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal vehicle details: %w", err)
	}
	loc := v.Location()
	return &VehicleModel{
		ID:        v.ID(),
		Details:   datatypes.JSON(details),
		Condition: string(v.Condition()),
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		CreatedAt: v.CreatedAt(),
		UpdatedAt: v.UpdatedAt(),
	}, nil
}

func toVehicleDomain(m *VehicleModel) (*vehicleDomain.Vehicle, error) {
	var details vehicleDomain.Details
	if len(m.Details) > 0 {
		if err := json.Unmarshal(m.Details, &details); err != nil {
			return nil, fmt.Errorf("failed to unmarshal vehicle details: %w", err)
		}
	}

	condition, err := vehicleDomain.ParseCondition(m.Condition)
	if err != nil {
		return nil, err
	}

	return vehicleDomain.Reconstruct(
		m.ID,
		details,
		condition,
		m.Latitude, m.Longitude,
		m.CreatedAt, m.UpdatedAt,
	), nil
}
