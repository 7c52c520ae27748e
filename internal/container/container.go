package container

import (
	app "smartcity-ml/internal/application"
	"smartcity-ml/internal/domain/port"
)

type Container struct {
	UserService      *app.UserService
	DamageService    *app.DamageService
	AnalyticsService *app.AnalyticsService
}

// Scorers реализации оценки повреждений. Model и Highlighter могут быть nil.
type Scorers struct {
	Heuristic   port.DamageScorer
	Model       port.BoxDetector
	Highlighter port.Highlighter
}

func New(userRepo port.UserRepository, scorers Scorers, obs port.Observability, damageOpts app.DamageOptions) *Container {
	userService := app.NewUserService(userRepo)
	damageService := app.NewDamageService(scorers.Heuristic, scorers.Model, scorers.Highlighter, obs, damageOpts)
	analyticsService := app.NewAnalyticsService(obs)

	return &Container{
		UserService:      userService,
		DamageService:    damageService,
		AnalyticsService: analyticsService,
	}
}
