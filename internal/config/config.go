package config

import (
	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/platform/config"
)

// ServiceConfig holds all configuration for the vehicles service.
type ServiceConfig struct {
	Port          string
	AppEnv        string
	DBConfig      config.DatabaseConfig
	KafkaConfig   config.KafkaConfig
	PricingConfig config.UpstreamConfig
	MapsConfig    config.UpstreamConfig
	TracingConfig config.TracingConfig
}

// Load reads configuration from environment variables.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("VEHICLES")
	if err != nil {
		return nil, err
	}
	v.SetDefault("DB_NAME", "vehicles")

	return &ServiceConfig{
		Port:          config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:        config.GetAppEnv(v),
		DBConfig:      config.LoadDatabaseConfig(v, "DB_NAME"),
		KafkaConfig:   config.LoadKafkaConfig(v),
		PricingConfig: config.LoadUpstreamConfig(v, "PRICING", "http://localhost:8082"),
		MapsConfig:    config.LoadUpstreamConfig(v, "MAPS", "http://localhost:9191"),
		TracingConfig: config.LoadTracingConfig(v),
	}, nil
}
