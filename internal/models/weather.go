// internal/models/weather.go
package models

// WeatherSnapshot is the provider-agnostic view of current conditions.
// Condition is one of clear, clouds, rain, snow, drizzle, thunderstorm or other.
// WindSpeed is in km/h.
type WeatherSnapshot struct {
	Condition    string  `json:"condition"`
	TemperatureC float64 `json:"temperatureC"`
	WindSpeed    float64 `json:"windSpeed"`
}
