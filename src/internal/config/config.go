package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const defaultConnectionString = "host=localhost port=5432 dbname=finpay_payments user=postgres password=postgres sslmode=disable"
const defaultHTTPAddr = ":8084"
const defaultChannelID = "FinPayApp"
const defaultChannelKey = "FinPayChannelKey001"
const defaultFraudThreshold = "10000"
const defaultKafkaTopic = "transactions-topic"
const defaultCallTimeout = 5 * time.Second

type Config struct {
	DatabaseDSN   string
	MigrationsDir string
	HTTPAddr      string
	ChannelID     string
	ChannelKey    string

	// FraudThreshold is the fixed amount above which a transaction is flagged.
	FraudThreshold decimal.Decimal

	// CallTimeout bounds each remote collaborator call made by the
	// transfer orchestrator.
	CallTimeout time.Duration

	// Empty KafkaBrokers falls back to the in-memory event log.
	KafkaBrokers []string
	KafkaTopic   string

	// When a collaborator URL is set, the orchestrator reaches that
	// collaborator over HTTP instead of in-process.
	AccountServiceURL      string
	FraudServiceURL        string
	NotificationServiceURL string
}

func Load() (Config, error) {
	// Missing .env is fine; env vars and defaults still apply.
	_ = godotenv.Load()

	conn := strings.TrimSpace(os.Getenv("DATABASE_DSN"))
	if conn == "" {
		conn = defaultConnectionString
	}

	addr := strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if addr == "" {
		addr = defaultHTTPAddr
	}

	channelID := strings.TrimSpace(os.Getenv("CHANNEL_ID"))
	if channelID == "" {
		channelID = defaultChannelID
	}

	channelKey := strings.TrimSpace(os.Getenv("CHANNEL_KEY"))
	if channelKey == "" {
		channelKey = defaultChannelKey
	}

	threshold := strings.TrimSpace(os.Getenv("FRAUD_THRESHOLD"))
	if threshold == "" {
		threshold = defaultFraudThreshold
	}
	fraudThreshold, err := decimal.NewFromString(threshold)
	if err != nil {
		return Config{}, err
	}

	callTimeout := defaultCallTimeout
	if raw := strings.TrimSpace(os.Getenv("CALL_TIMEOUT_SECONDS")); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, err
		}
		callTimeout = time.Duration(seconds) * time.Second
	}

	var brokers []string
	for _, broker := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		if trimmed := strings.TrimSpace(broker); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}

	topic := strings.TrimSpace(os.Getenv("KAFKA_TOPIC"))
	if topic == "" {
		topic = defaultKafkaTopic
	}

	return Config{
		DatabaseDSN:            conn,
		MigrationsDir:          "migrations",
		HTTPAddr:               addr,
		ChannelID:              channelID,
		ChannelKey:             channelKey,
		FraudThreshold:         fraudThreshold,
		CallTimeout:            callTimeout,
		KafkaBrokers:           brokers,
		KafkaTopic:             topic,
		AccountServiceURL:      strings.TrimSpace(os.Getenv("ACCOUNT_SERVICE_URL")),
		FraudServiceURL:        strings.TrimSpace(os.Getenv("FRAUD_SERVICE_URL")),
		NotificationServiceURL: strings.TrimSpace(os.Getenv("NOTIFICATION_SERVICE_URL")),
	}, nil
}
