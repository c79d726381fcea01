package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	config "github.com/NordCoder/Noteboard/internal/config/notes-api"
	"github.com/NordCoder/Noteboard/internal/obs"
	"github.com/NordCoder/Noteboard/internal/repository/kafka"
	"go.uber.org/zap"
)

// kafka-init creates the user events topic before the services start.
func main() {
	configPath := flag.String("config", os.Getenv("NOTES_API_CONFIG"), "path to the notes-api yaml config")
	partitions := flag.Int("partitions", 1, "partitions per topic")
	rf := flag.Int("rf", 1, "replication factor")
	extra := flag.String("topics", "", "comma separated extra topics")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	l, err := obs.NewLogger(obs.LogConfig{Level: cfg.Log.Level, App: "noteboard/kafka-init", Env: cfg.App.Env})
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	topics := []string{cfg.Kafka.Topic}
	for _, t := range strings.Split(*extra, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}

	for _, t := range topics {
		if err := kafka.EnsureTopic(ctx, cfg.Kafka.Brokers, kafka.TopicSpec{
			Name:              t,
			NumPartitions:     *partitions,
			ReplicationFactor: *rf,
			MaxWait:           30 * time.Second,
		}, l); err != nil {
			l.Fatal("ensure topic", zap.String("topic", t), zap.Error(err))
		}
	}
	l.Info("kafka-init ok", zap.Strings("topics", topics))
}
