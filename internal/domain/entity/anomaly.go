package entity

// UsageTable таблица журнала потребления. Используется только вторая колонка.
type UsageTable struct {
	Header []string
	Rows   [][]string
}

// AnomalyResult итог поиска выбросов по правилу двух сигм
type AnomalyResult struct {
	MeanUsage       float64 `json:"mean_usage"`
	Threshold       float64 `json:"threshold"`
	AnomalyDetected bool    `json:"anomaly_detected"`
	AnomalyIndices  []int   `json:"anomaly_indices"`
}
