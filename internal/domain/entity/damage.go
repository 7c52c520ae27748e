package entity

import (
	"math"

	"github.com/shopspring/decimal"
)

// DamageType тип повреждения дорожного покрытия
type DamageType string

const (
	DamageNormal  DamageType = "normal"
	DamageCrack   DamageType = "crack"
	DamagePothole DamageType = "pothole"
)

// SeverityThresholds пороги классификации по доле повреждённой площади.
// Проверяются сверху вниз, первое совпадение выигрывает.
type SeverityThresholds struct {
	Pothole float64
	Crack   float64
}

var (
	// HeuristicThresholds пороги для пиксельной маски.
	HeuristicThresholds = SeverityThresholds{Pothole: 0.25, Crack: 0.08}
	// ModelThresholds пороги для рамок детектора: объединение рамок
	// обычно меньше плотной маски, поэтому пороги мягче.
	ModelThresholds = SeverityThresholds{Pothole: 0.35, Crack: 0.12}
)

// Classify возвращает тип повреждения для severity.
func (t SeverityThresholds) Classify(severity float64) DamageType {
	switch {
	case severity > t.Pothole:
		return DamagePothole
	case severity > t.Crack:
		return DamageCrack
	default:
		return DamageNormal
	}
}

// DamageResult итог оценки повреждения дороги
type DamageResult struct {
	DamageType    DamageType `json:"damage_type"`
	Severity      float64    `json:"severity"`
	HealthScore   int        `json:"health_score"`
	BoxesDetected *int       `json:"boxes_detected,omitempty"` // только для модели
}

// NewDamageResult считает severity, health_score и тип по площади повреждения.
// Тип и health_score считаются по точному значению, наружу severity уходит
// округлённой до трёх знаков.
func NewDamageResult(damageArea float64, totalArea int, thresholds SeverityThresholds) DamageResult {
	severity := 0.0
	if totalArea > 0 && damageArea > 0 {
		severity = math.Min(damageArea/float64(totalArea), 1.0)
	}

	return DamageResult{
		DamageType:  thresholds.Classify(severity),
		Severity:    roundTo(severity, 3),
		HealthScore: HealthScore(severity),
	}
}

// WithBoxes добавляет количество рамок детектора.
func (r DamageResult) WithBoxes(n int) DamageResult {
	r.BoxesDetected = &n
	return r
}

// HealthScore переводит severity в шкалу 0..100.
func HealthScore(severity float64) int {
	score := int(math.Round((1 - severity) * 100))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func roundTo(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
