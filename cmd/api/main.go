package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"reclamation-api/internal/core/auth"
	"reclamation-api/internal/core/cache"
	"reclamation-api/internal/core/config"
	"reclamation-api/internal/core/database"
	"reclamation-api/internal/core/logger"
	"reclamation-api/internal/core/server"
	"reclamation-api/internal/domain"
	"reclamation-api/internal/repo"
	"reclamation-api/internal/schedule"
	"reclamation-api/internal/service"
	"reclamation-api/internal/transport/http/handler"
	"reclamation-api/internal/transport/http/router"
	"reclamation-api/pkg/utils"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := newLogger(cfg)
	defer cleanup()

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(&domain.User{}, &domain.Complaint{}, &domain.Meeting{}); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	var statsCache *cache.Cache
	if cfg.Redis.Addr != "" {
		statsCache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		log.Info("stats cache enabled", zap.String("redis", cfg.Redis.Addr))
	}

	sched := schedule.Config{
		Booking:    schedule.Hours{Open: cfg.Schedule.OpenHour, Close: cfg.Schedule.CloseHour},
		Display:    schedule.Hours{Open: cfg.Schedule.DisplayOpenHour, Close: cfg.Schedule.DisplayCloseHour},
		SlotEvery:  time.Duration(cfg.Schedule.SlotMinutes) * time.Minute,
		JoinWindow: time.Duration(cfg.Schedule.JoinWindowMin) * time.Minute,
	}

	userRepo := repo.NewUserRepo(db)
	complaintRepo := repo.NewComplaintRepo(db)
	meetingRepo := repo.NewMeetingRepo(db)
	statsRepo := repo.NewStatsRepo(db)

	userSvc := service.NewUserService(userRepo, nil, utils.NewID)
	complaintSvc := service.NewComplaintService(complaintRepo, userRepo, utils.NewID)
	meetingSvc := service.NewMeetingService(meetingRepo, userRepo, sched, cfg.Schedule.LinkBaseURL, utils.NewID, nil)
	statsSvc := service.NewStatsService(statsRepo, statsCache,
		time.Duration(cfg.Stats.CacheTTLSec)*time.Second, cfg.Stats.TopLimit, nil)

	r := router.NewAPIEngine(log, router.APIDeps{
		Auth:       handler.NewAuthHandler(userSvc, jwter),
		Meetings:   handler.NewMeetingHandler(meetingSvc),
		Complaints: handler.NewComplaintHandler(complaintSvc),
		Stats:      handler.NewStatsHandler(statsSvc),
		JWTer:      jwter,
		CORSOrigin: cfg.App.CORSOrigin,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api start FAILED", zap.Error(err))
		}
	}()
	log.Info("api started SUCCESS")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("api stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	if cfg.Log.File != "" {
		return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File,
			cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays, cfg.Log.Compress)
	}
	return logger.New(cfg.Log.Level, cfg.Log.JSON)
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
