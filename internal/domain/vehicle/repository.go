package vehicle

import "context"

// VehicleRepository defines persistence operations for vehicle records.
type VehicleRepository interface {
	// FindAll returns every stored vehicle in ascending id order.
	FindAll(ctx context.Context) ([]*Vehicle, error)

	// FindByID returns the vehicle with the given id or a not-found error.
	FindByID(ctx context.Context, id int64) (*Vehicle, error)

	// Save inserts a transient vehicle and returns it with its assigned id.
	Save(ctx context.Context, v *Vehicle) (*Vehicle, error)

	// Update persists details, condition and coordinates of a stored vehicle.
	Update(ctx context.Context, v *Vehicle) error

	// Delete removes the vehicle with the given id.
	Delete(ctx context.Context, id int64) error
}
