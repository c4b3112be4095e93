package server

import (
	"context"
	"net"

	"github.com/dset/Cloud-Market/pkg/grpclib/health"
	"github.com/dset/Cloud-Market/pkg/httplib/healthcheck"
	"github.com/dset/Cloud-Market/pkg/logger"
	"github.com/dset/Cloud-Market/pkg/postgresql"
	"github.com/dset/Cloud-Market/pkg/redis"
	"github.com/dset/Cloud-Market/services/venue/internal/bootstrap"
	tradepublisher "github.com/dset/Cloud-Market/services/venue/internal/infrastructure/kafka/trade-publisher"
	"github.com/dset/Cloud-Market/services/venue/internal/rest"
	"github.com/dset/Cloud-Market/services/venue/pkg/config"
	"github.com/gofiber/fiber/v2"
	"github.com/segmentio/kafka-go"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

// Server runs the venue HTTP API next to a gRPC health endpoint.
type Server struct {
	App  *fiber.App
	GRPC *grpc.Server

	config      config.Config
	logger      logger.Interface
	health      *health.Server
	postgres    *postgresql.Client
	redis       *redis.Redis
	tradeWriter *kafka.Writer
}

// NewServer connects the dependencies and wires the service.
func NewServer(ctx context.Context, cfg config.Config, log logger.Interface) (*Server, error) {
	s := &Server{
		config: cfg,
		logger: log,
	}

	pg, err := postgresql.NewClient(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}
	s.postgres = pg

	rds := redis.NewClient(log, &cfg.Redis)
	if err := rds.Connect(ctx); err != nil {
		pg.Close()
		return nil, err
	}
	s.redis = rds

	bootCfg := bootstrap.BoostrapConfig{
		Config:   cfg,
		Postgres: pg,
		Redis:    rds,
		Logger:   log,
	}
	if cfg.TradeKafka.Enabled {
		s.tradeWriter = tradepublisher.NewWriter(cfg.TradeKafka)
		bootCfg.TradeWriter = s.tradeWriter
	}

	b := &bootstrap.Bootstrap{}
	boot, err := b.Init(bootCfg)
	if err != nil {
		s.close(ctx)
		return nil, err
	}

	s.App = rest.NewRouter(rest.RouterConfig{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
	}, log, boot.REST.Authenticator, healthcheck.New(cfg.App.ReadyTimeout, pg, rds), boot.REST.Handler)

	s.GRPC = grpc.NewServer()
	s.health = health.NewServer(cfg.App.Name)
	s.health.Register(s.GRPC)
	if cfg.App.Environment == "development" {
		reflection.Register(s.GRPC)
	}

	return s, nil
}

// Run serves HTTP and gRPC until ctx ends or a listener fails.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.config.App.GRPCAddress)
	if err != nil {
		return err
	}

	errCh := make(chan error, 2)
	go func() {
		errCh <- s.GRPC.Serve(lis)
	}()
	go func() {
		errCh <- s.App.Listen(s.config.App.HTTPAddress)
	}()

	s.health.SetServing(true)
	s.logger.Info("Venue service started",
		logger.Field{Key: "http_address", Value: s.config.App.HTTPAddress},
		logger.Field{Key: "grpc_address", Value: s.config.App.GRPCAddress},
		logger.Field{Key: "trade_events", Value: s.config.TradeKafka.Enabled},
	)

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown stops accepting requests, drains in-flight ones and releases
// the connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.health.Shutdown()

	err := s.App.ShutdownWithContext(ctx)
	s.GRPC.GracefulStop()
	s.close(ctx)

	return err
}

func (s *Server) close(ctx context.Context) {
	if s.tradeWriter != nil {
		if err := s.tradeWriter.Close(); err != nil {
			s.logger.Error(err, logger.Field{Key: "action", Value: "close_trade_writer"})
		}
	}
	if s.redis != nil {
		if err := s.redis.Disconnect(ctx); err != nil {
			s.logger.Error(err, logger.Field{Key: "action", Value: "disconnect_redis"})
		}
	}
	if s.postgres != nil {
		s.postgres.Close()
	}
}
