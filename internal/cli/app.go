package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"tempowise/internal/bot"
	"tempowise/internal/config"
	"tempowise/internal/insight"
	"tempowise/internal/logger"
	"tempowise/internal/repository"
	"tempowise/internal/service"
	"tempowise/internal/timer"
)

// app holds what every command needs: config, logger, database and repositories.
type app struct {
	cfg config.Config
	log zerolog.Logger
	loc *time.Location
	db  *gorm.DB

	users      *repository.UserRepository
	categories *repository.CategoryRepository
	activities *repository.ActivityRepository
	goals      *repository.GoalRepository
	energy     *repository.EnergyRepository
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log := logger.New("tempowise", cfg.Log)

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL, log)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	return &app{
		cfg:        cfg,
		log:        log,
		loc:        loc,
		db:         db,
		users:      repository.NewUserRepository(db),
		categories: repository.NewCategoryRepository(db),
		activities: repository.NewActivityRepository(db),
		goals:      repository.NewGoalRepository(db),
		energy:     repository.NewEnergyRepository(db),
	}, nil
}

// services builds the service layer. ticker drives timer sessions.
func (a *app) services(ticker timer.Ticker) bot.Services {
	categorySvc := service.NewCategoryService(a.categories, a.users)
	activitySvc := service.NewActivityService(a.activities, a.categories)
	goalSvc := service.NewGoalService(a.goals, a.categories, a.activities)
	gen := insight.NewService(insight.New(a.cfg.AI), a.cfg.AI.Timeout, a.log.With().Str("component", "insight").Logger())

	return bot.Services{
		Users:      a.users,
		Categories: categorySvc,
		Activities: activitySvc,
		Goals:      goalSvc,
		Stats:      service.NewStatsService(a.activities, a.categories),
		Energy:     service.NewEnergyService(a.energy),
		Timer:      service.NewTimerService(activitySvc, a.categories, ticker, timer.SystemClock, a.log.With().Str("component", "timer").Logger()),
		Pomodoro:   service.NewPomodoroService(ticker, a.log.With().Str("component", "pomodoro").Logger()),
		Insights:   service.NewInsightService(gen, a.activities, a.categories, a.energy),
		Reports:    service.NewReportService(a.activities, a.categories, goalSvc),
	}
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
