package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/eshbtc/finport/internal/models"
)

// MarketDataRepository defines the database operations the consumer needs
type MarketDataRepository interface {
	SecurityBySymbol(ctx context.Context, symbol string) (*models.Security, error)
	CreateSecurity(ctx context.Context, s *models.Security) error
	UpsertPricePoints(ctx context.Context, points []*models.PricePoint) error
	UpsertFTDPoints(ctx context.Context, points []*models.FTDPoint) error
}

// Consumer ingests validated market-data events and upserts them into the
// store. Unknown symbols are registered on first sight; re-delivered events
// land on the same natural key, so processing is idempotent.
type Consumer struct {
	reader *kafka.Reader
	repo   MarketDataRepository
	log    *zap.Logger
}

// NewConsumer creates a new Kafka consumer for market-data events
func NewConsumer(brokers []string, topic, groupID string, repo MarketDataRepository, log *zap.Logger) *Consumer {
	if log == nil {
		log = zap.NewNop()
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	return &Consumer{
		reader: reader,
		repo:   repo,
		log:    log,
	}
}

// Start begins consuming messages from Kafka
func (c *Consumer) Start(ctx context.Context) error {
	c.log.Info("starting kafka consumer", zap.String("topic", c.reader.Config().Topic))

	for {
		select {
		case <-ctx.Done():
			c.log.Info("kafka consumer shutting down")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil // Context cancelled, normal shutdown
				}
				c.log.Error("failed to read message", zap.Error(err))
				continue
			}

			if err := c.processMessage(ctx, msg); err != nil {
				c.log.Error("failed to process message",
					zap.Int("partition", msg.Partition),
					zap.Int64("offset", msg.Offset),
					zap.Error(err))
				// Continue processing other messages
			}
		}
	}
}

// processMessage handles a single Kafka message
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) error {
	var event models.MarketDataEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal market data event: %w", err)
	}

	switch event.EventType {
	case models.EventTypePriceBar, models.EventTypeFTDRecord:
	default:
		c.log.Debug("ignoring event type", zap.String("event_type", event.EventType))
		return nil
	}

	if event.Symbol == "" {
		return fmt.Errorf("event is missing symbol")
	}
	date, err := time.Parse("2006-01-02", event.Date)
	if err != nil {
		return fmt.Errorf("invalid event date %q: %w", event.Date, err)
	}

	sec, err := c.ensureSecurity(ctx, event.Symbol)
	if err != nil {
		return err
	}

	switch event.EventType {
	case models.EventTypePriceBar:
		point := &models.PricePoint{
			SecurityID: sec.ID,
			Date:       date,
			Open:       event.Open,
			High:       event.High,
			Low:        event.Low,
			Close:      event.Close,
			Volume:     event.Volume,
			VWAP:       event.VWAP,
		}
		if err := c.repo.UpsertPricePoints(ctx, []*models.PricePoint{point}); err != nil {
			return fmt.Errorf("failed to save price bar: %w", err)
		}
		c.log.Info("saved price bar",
			zap.String("symbol", sec.Symbol),
			zap.String("date", event.Date))

	case models.EventTypeFTDRecord:
		point := &models.FTDPoint{
			SecurityID: sec.ID,
			Date:       date,
			Quantity:   event.Quantity,
			Price:      event.Price,
			Value:      event.Price.Mul(decimal.NewFromInt(event.Quantity)),
		}
		if err := c.repo.UpsertFTDPoints(ctx, []*models.FTDPoint{point}); err != nil {
			return fmt.Errorf("failed to save ftd record: %w", err)
		}
		c.log.Info("saved ftd record",
			zap.String("symbol", sec.Symbol),
			zap.String("date", event.Date))
	}

	return nil
}

// ensureSecurity looks up the symbol and registers it when unseen
func (c *Consumer) ensureSecurity(ctx context.Context, symbol string) (*models.Security, error) {
	sec, err := c.repo.SecurityBySymbol(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to look up security %s: %w", symbol, err)
	}
	if sec != nil {
		return sec, nil
	}

	sec = &models.Security{
		Symbol:   symbol,
		Type:     models.SecurityTypeStock,
		IsActive: true,
	}
	if err := c.repo.CreateSecurity(ctx, sec); err != nil {
		return nil, fmt.Errorf("failed to register security %s: %w", symbol, err)
	}
	c.log.Info("registered new security", zap.String("symbol", sec.Symbol))
	return sec, nil
}

// Close closes the Kafka consumer
func (c *Consumer) Close() error {
	return c.reader.Close()
}
