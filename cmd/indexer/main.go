// Command indexer consumes post index events from RabbitMQ and applies
// them to Elasticsearch.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/config"
	"github.com/oksasatya/go-ddd-blog/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-blog/pkg/helpers"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-indexer", cfg.Env)
	if cfg.RabbitMQURL == "" || cfg.RabbitMQPostsQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	addrs := cfg.ESAddrs()
	if len(addrs) == 0 {
		log.Fatal("Elasticsearch not configured")
	}

	es, err := helpers.NewESClient(helpers.ESOptions{
		Addrs:    addrs,
		Username: cfg.ElasticsearchUser,
		Password: cfg.ElasticsearchPass,
		Timeout:  cfg.ESTimeout,
	})
	if err != nil {
		log.Fatalf("elasticsearch client: %v", err)
	}
	index := search.NewESIndex(es, cfg.ESPostsIndex, logger)

	conn, ch, err := helpers.DialQueue(cfg.RabbitMQURL, cfg.RabbitMQPostsQueue)
	if err != nil {
		log.Fatalf("amqp: %v", err)
	}
	defer func() { _ = conn.Close() }()
	defer func() { _ = ch.Close() }()

	// Prefetch for fair dispatch across workers
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}
	msgs, err := ch.Consume(cfg.RabbitMQPostsQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			handle(index, logger, msg)
		}
	}()

	logger.Infof("indexer consuming %s", cfg.RabbitMQPostsQueue)
	select {
	case <-stop:
		logger.Info("indexer shutting down")
	case <-done:
		logger.Warn("delivery channel closed")
	}
}

// handle acks applied events, drops undecodable ones and requeues events
// that failed against Elasticsearch.
func handle(index *search.ESIndex, logger *logrus.Logger, msg amqp.Delivery) {
	var ev search.Event
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		logger.WithError(err).Warn("bad message")
		_ = msg.Nack(false, false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := index.Apply(ctx, ev); err != nil {
		logger.WithError(err).WithFields(logrus.Fields{"action": ev.Action, "post_id": ev.PostID}).Error("apply event failed")
		_ = msg.Nack(false, !msg.Redelivered)
		return
	}
	_ = msg.Ack(false)
	logger.WithFields(logrus.Fields{"action": ev.Action, "post_id": ev.PostID}).Debug("event applied")
}
