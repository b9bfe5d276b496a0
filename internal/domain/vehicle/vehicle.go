package vehicle

import (
	"time"

	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/platform/domain"
)

// Vehicle is the aggregate root for a catalog entry.
//
// A vehicle with id 0 is transient: it has not been stored yet. Price and the
// location's address block are derived per read and never persisted.
type Vehicle struct {
	id        int64
	details   Details
	condition Condition
	location  Location
	price     string
	createdAt time.Time
	updatedAt time.Time
}

// NewVehicle creates a transient vehicle with validated fields.
// Any address data on loc is dropped; only coordinates are kept.
func NewVehicle(details Details, condition Condition, loc Location) (*Vehicle, error) {
	if err := validate(condition, loc); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Vehicle{
		details:   details,
		condition: condition,
		location:  loc.Coordinates(),
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Vehicle from persistence data (no validation).
func Reconstruct(
	id int64,
	details Details,
	condition Condition,
	lat, lon float64,
	createdAt, updatedAt time.Time,
) *Vehicle {
	return &Vehicle{
		id:        id,
		details:   details,
		condition: condition,
		location:  NewLocation(lat, lon),
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

func (v *Vehicle) ID() int64            { return v.id }
func (v *Vehicle) Details() Details     { return v.details }
func (v *Vehicle) Condition() Condition { return v.condition }
func (v *Vehicle) Location() Location   { return v.location }
func (v *Vehicle) Price() string        { return v.price }
func (v *Vehicle) CreatedAt() time.Time { return v.createdAt }
func (v *Vehicle) UpdatedAt() time.Time { return v.updatedAt }

// IsPersisted reports whether the vehicle has been given an id by the store.
func (v *Vehicle) IsPersisted() bool {
	return v.id != 0
}

// --- Behavior ---

// ApplyUpdate overlays the caller-editable fields onto a stored vehicle:
// details, location coordinates and condition. Identity, timestamps and
// derived fields are left alone.
func (v *Vehicle) ApplyUpdate(details Details, condition Condition, loc Location) error {
	if err := validate(condition, loc); err != nil {
		return err
	}
	v.details = details
	v.condition = condition
	v.location = loc.Coordinates()
	v.updatedAt = time.Now().UTC()
	return nil
}

// Relocate moves the vehicle to new coordinates and clears any derived address.
func (v *Vehicle) Relocate(lat, lon float64) error {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return domain.NewValidationError(err.Error())
	}
	v.location = NewLocation(lat, lon)
	v.updatedAt = time.Now().UTC()
	return nil
}

// AttachPrice sets the display price from a quote.
func (v *Vehicle) AttachPrice(q PriceQuote) {
	v.price = q.Display()
}

// AttachAddress overwrites the location's derived address block.
func (v *Vehicle) AttachAddress(a Address) {
	v.location = v.location.WithAddress(a)
}

// AssignID records the identity handed out by the store.
func (v *Vehicle) AssignID(id int64) {
	v.id = id
}

func validate(condition Condition, loc Location) error {
	if !condition.IsValid() {
		return domain.NewValidationError("condition must be NEW or USED")
	}
	if err := loc.Validate(); err != nil {
		return domain.NewValidationError(err.Error())
	}
	return nil
}
