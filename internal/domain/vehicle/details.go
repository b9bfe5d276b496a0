package vehicle

// Details holds the descriptive attributes of a vehicle. The catalog stores
// them as one document and never interprets them.
type Details struct {
	Body           string `json:"body"`
	Model          string `json:"model"`
	Manufacturer   string `json:"manufacturer"`
	NumberOfDoors  int    `json:"numberOfDoors,omitempty"`
	FuelType       string `json:"fuelType,omitempty"`
	Engine         string `json:"engine,omitempty"`
	Mileage        int    `json:"mileage,omitempty"`
	ModelYear      int    `json:"modelYear,omitempty"`
	ProductionYear int    `json:"productionYear,omitempty"`
	ExternalColor  string `json:"externalColor,omitempty"`
}
