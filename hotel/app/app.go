package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Astemirdum/hotel-service/hotel/config"
	"github.com/Astemirdum/hotel-service/hotel/internal/handler"
	"github.com/Astemirdum/hotel-service/hotel/internal/repository"
	"github.com/Astemirdum/hotel-service/hotel/internal/server"
	"github.com/Astemirdum/hotel-service/hotel/internal/service"
	"github.com/Astemirdum/hotel-service/hotel/migrations"
	"github.com/Astemirdum/hotel-service/pkg/auth"
	"github.com/Astemirdum/hotel-service/pkg/logger"
	"github.com/Astemirdum/hotel-service/pkg/postgres"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "hotel")
	defer log.Sync() //nolint:errcheck

	ctx := context.Background()
	pool, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	db := postgres.NewSqlx(pool)

	events, closeEvents := newEventPublisher(cfg.Kafka, log)
	denylist, closeDenylist := newDenylist(ctx, cfg.Redis, log)
	tokens := auth.NewTokenManager(cfg.Auth)

	reservationRepo := repository.NewReservationRepository(db, log)
	roomRepo := repository.NewRoomRepository(pool, log)
	userRepo := repository.NewUserRepository(pool, log)

	reservationSvc := service.NewReservationService(reservationRepo, roomRepo, userRepo, events, log,
		service.WithLeadTimeDays(cfg.Reservation.LeadTimeDays))
	roomSvc := service.NewRoomService(roomRepo, log)
	userSvc := service.NewUserService(userRepo, tokens, denylist, log)
	if err := userSvc.SeedAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatal("seed admin", zap.Error(err))
	}

	h := handler.New(reservationSvc, roomSvc, userSvc, tokens, denylist, log,
		handler.WithCORSOrigins(cfg.Server.CORSOrigins))
	srv := server.NewServer(cfg.Server, h.NewRouter())

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gCtx := errgroup.WithContext(sigCtx)
	g.Go(func() error {
		log.Info("http server start ON: ",
			zap.String("addr",
				net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
		return srv.Run()
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Debug("Graceful shutdown")

		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		return srv.Stop(closeCtx)
	})
	if err := g.Wait(); err != nil {
		log.Error("server", zap.Error(err))
	}

	closeEvents()
	closeDenylist()
	if err := db.Close(); err != nil {
		log.Warn("sqlx close", zap.Error(err))
	}
	pool.Close()
	log.Info("Graceful shutdown finished")
}

func newDenylist(ctx context.Context, cfg auth.RedisConfig, log *zap.Logger) (auth.Denylist, func()) {
	if cfg.Addr == "" {
		log.Info("redis not configured, logout only clears the cookie")
		return auth.NopDenylist(), func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Fatal("redis ping", zap.Error(err))
	}
	return auth.NewRedisDenylist(client), func() {
		if err := client.Close(); err != nil {
			log.Warn("redis close", zap.Error(err))
		}
	}
}
