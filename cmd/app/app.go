package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"
	"github.com/studorg/membership-service/internal/adapters/config"
	httpapi "github.com/studorg/membership-service/internal/adapters/controller/http"
	"github.com/studorg/membership-service/internal/adapters/database/postgres"
	"github.com/studorg/membership-service/internal/domain/service"
	"github.com/studorg/membership-service/internal/domain/watch"
	"github.com/studorg/membership-service/internal/jobs"
	"github.com/studorg/membership-service/pkg/logger"
	"github.com/studorg/membership-service/pkg/smtp"
)

type App struct {
	server    *httpapi.Server
	retention *jobs.Retention
}

func New(cfg *config.Config) (*App, error) {
	apiLogger, err := logger.Named("api")
	if err != nil {
		return nil, err
	}
	jobsLogger, err := logger.Named("jobs")
	if err != nil {
		return nil, err
	}
	serviceLogger, err := logger.Named("service")
	if err != nil {
		return nil, err
	}

	bus := watch.NewBus()
	smtpClient := smtp.NewClient(cfg.SMTPDialer)

	profileStorage := postgres.NewProfileStorage(cfg.Database)
	roleStorage := postgres.NewRoleStorage(cfg.Database)
	semesterStorage := postgres.NewSemesterStorage(cfg.Database)
	projectStorage := postgres.NewProjectStorage(cfg.Database)
	projectMemberStorage := postgres.NewProjectMemberStorage(cfg.Database)
	classStorage := postgres.NewClassStorage(cfg.Database)
	classEnrollmentStorage := postgres.NewClassEnrollmentStorage(cfg.Database)
	applicationStorage := postgres.NewApplicationStorage(cfg.Database)
	eventStorage := postgres.NewEventStorage(cfg.Database)
	attendanceStorage := postgres.NewEventAttendanceStorage(cfg.Database)
	lectureStorage := postgres.NewLectureStorage(cfg.Database)

	profileService := service.NewProfileService(
		profileStorage, applicationStorage, cfg.Redis.Codes, smtpClient, cfg.Storage)
	roleService := service.NewRoleService(roleStorage, bus)
	projectService := service.NewProjectService(projectStorage, projectMemberStorage, bus)
	classService := service.NewClassService(classStorage, classEnrollmentStorage, bus)
	semesterService := service.NewSemesterService(semesterStorage)
	applicationService := service.NewApplicationService(
		serviceLogger, applicationStorage, roleStorage, profileStorage, cfg.Storage, smtpClient, bus)
	eventService := service.NewEventService(
		serviceLogger, eventStorage, attendanceStorage, profileStorage, cfg.Storage, bus)
	lectureService := service.NewLectureService(lectureStorage)
	profileContextService := service.NewProfileContextService(
		serviceLogger, roleStorage, projectService, classService, applicationService, eventService, bus)

	server := httpapi.NewServer(apiLogger, httpapi.Options{
		Address:   viper.GetString("service.http.address"),
		Debug:     viper.GetBool("settings.debug"),
		JWTSecret: cfg.JWTSecret,
		Storage:   cfg.Storage,
		Sessions:  cfg.Redis.Sessions,
		Bus:       bus,
	}, httpapi.Services{
		Profile:        profileService,
		Role:           roleService,
		Application:    applicationService,
		Event:          eventService,
		Project:        projectService,
		Class:          classService,
		Semester:       semesterService,
		Lecture:        lectureService,
		ProfileContext: profileContextService,
	})

	retention := jobs.NewRetention(jobsLogger, applicationStorage, cfg.Storage)

	return &App{
		server:    server,
		retention: retention,
	}, nil
}

// Start runs the API server and the background jobs until SIGINT/SIGTERM,
// then shuts both down gracefully.
func (a *App) Start() {
	if err := a.retention.Start(); err != nil {
		logger.Log.Panicf("Failed to start retention job: %v", err)
	}

	go func() {
		logger.Log.Info("API server starting")
		if err := a.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Panicf("API server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a.retention.Stop()
	if err := a.server.Shutdown(ctx); err != nil {
		logger.Log.Errorf("Shutdown error: %v", err)
	}
}
