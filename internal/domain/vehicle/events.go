package vehicle

import "time"

// Kafka topics owned or consumed by the vehicle catalog.
const (
	TopicVehicleEvents    = "vehicle.events"
	TopicVehicleTelemetry = "vehicle.telemetry"
)

// CloudEvent types.
const (
	EventVehicleCreated          = "vehicle.created"
	EventVehicleUpdated          = "vehicle.updated"
	EventVehicleDeleted          = "vehicle.deleted"
	EventVehicleLocationReported = "vehicle.location_reported"
)

// ChangedEvent is published after a vehicle is created, updated or deleted.
type ChangedEvent struct {
	VehicleID  int64     `json:"vehicle_id"`
	Condition  string    `json:"condition,omitempty"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	OccurredAt time.Time `json:"occurred_at"`
}

// LocationReportedEvent carries a position reported by a vehicle's tracker.
type LocationReportedEvent struct {
	VehicleID  int64     `json:"vehicle_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	ReportedAt time.Time `json:"reported_at"`
}
