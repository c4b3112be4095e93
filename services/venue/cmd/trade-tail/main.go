package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/dset/Cloud-Market/pkg/logger"
	tradepublisherv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/trade-publisher/v1"
	"github.com/dset/Cloud-Market/services/venue/pkg/config"
	"github.com/segmentio/kafka-go"
)

func main() {
	var (
		instrument    = flag.String("instrument", "", "Only print trades of this instrument")
		fromBeginning = flag.Bool("from-beginning", false, "Read the topic from the first offset")
		limit         = flag.Int("limit", 0, "Stop after this many trades (0 = unlimited)")
	)
	flag.Parse()

	cfg := &config.TradeTailConfig{}
	config.MustLoad(cfg)

	log, err := logger.NewLogger(
		logger.WithLoggingLevel(logger.ParseLevel(cfg.App.LogLevel)),
		logger.WithServiceName(cfg.App.Name+"-trade-tail", cfg.App.Environment),
	)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	startOffset := kafka.LastOffset
	if *fromBeginning {
		startOffset = kafka.FirstOffset
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.TradeKafka.Brokers,
		Topic:       cfg.TradeKafka.Topic,
		GroupID:     cfg.GroupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: startOffset,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Tailing trades",
		logger.Field{Key: "brokers", Value: cfg.TradeKafka.Brokers},
		logger.Field{Key: "topic", Value: cfg.TradeKafka.Topic},
	)

	seen := 0
	for *limit == 0 || seen < *limit {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			log.Error(err, logger.Field{Key: "action", Value: "read_message"})
			continue
		}

		event := tradepublisherv1.FromBytes(msg.Value)
		if event == nil {
			log.Warn("Skipping malformed trade event",
				logger.Field{Key: "partition", Value: msg.Partition},
				logger.Field{Key: "offset", Value: msg.Offset},
			)
			continue
		}
		if *instrument != "" && event.Instrument != *instrument {
			continue
		}

		seen++
		log.Info("Trade",
			logger.Field{Key: "trade_id", Value: event.TradeID},
			logger.Field{Key: "instrument", Value: event.Instrument},
			logger.Field{Key: "taker_side", Value: string(event.TakerSide)},
			logger.Field{Key: "volume", Value: event.Volume.String()},
			logger.Field{Key: "price", Value: event.Price.String()},
			logger.Field{Key: "taker_order_id", Value: event.TakerOrderID},
			logger.Field{Key: "maker_order_id", Value: event.MakerOrderID},
			logger.Field{Key: "executed_at", Value: event.ExecutedAt},
		)
	}

	log.Info("Trade tail stopped", logger.Field{Key: "trades", Value: seen})
}
