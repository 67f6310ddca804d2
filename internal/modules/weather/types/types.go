package types

// WeatherSample is one row of the weatherdata table.
type WeatherSample struct {
	ID          string  `json:"id"`
	City        string  `json:"city"`
	Temp        float64 `json:"temp"`
	Humidity    float64 `json:"humidity"`
	PressurePsi float64 `json:"pressurePsi"`
}

// SampleMessage is the JSON payload published by stations on the ingest topic.
type SampleMessage struct {
	ID          string   `json:"id,omitempty"`
	City        string   `json:"city"`
	Temp        *float64 `json:"temp"`
	Humidity    *float64 `json:"humidity"`
	PressurePsi *float64 `json:"pressure_psi"`
}
