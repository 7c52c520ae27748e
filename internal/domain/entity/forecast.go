package entity

// Trend направление тренда
type Trend string

const (
	TrendUpward Trend = "UPWARD"
	TrendStable Trend = "STABLE"
)

// Confidence уверенность прогноза
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
)

const (
	RecommendLoadShifting = "Advance load shifting recommended"
	RecommendNoAction     = "No immediate action"
)

// EnergyReading одно показание потребления энергии
type EnergyReading struct {
	Energy float64 `json:"energy"`
}

// ForecastResult прогноз следующего пика потребления
type ForecastResult struct {
	ExpectedNextPeak float64    `json:"expected_next_peak"`
	Trend            Trend      `json:"trend"`
	Confidence       Confidence `json:"confidence"`
	Recommendation   string     `json:"recommendation"`
}
