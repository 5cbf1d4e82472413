package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"github.com/G-P-x/IoT-project/pkg/common"
	"github.com/G-P-x/IoT-project/pkg/db"
	twinHttp "github.com/G-P-x/IoT-project/pkg/http"
	"github.com/G-P-x/IoT-project/pkg/ingest"
	"github.com/G-P-x/IoT-project/pkg/twin"
)

func envSeconds(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	seconds, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Fatalf("Invalid %s, should be an integer number of seconds", key)
	}
	return time.Duration(seconds) * time.Second
}

func main() {
	var err error

	err = godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	var dbInstance *db.DB
	twinDbType := os.Getenv(common.EnvKeyTwinDBType)
	switch twinDbType {
	case "file":
		dbInstance = db.GetInstance(db.UseSqliteDialector())
	case "memory":
		dbInstance = db.GetInstance(db.UseMemorySqliteDialector())
	default:
		log.Fatal("Unknown TWIN_DB_TYPE: " + twinDbType)
	}

	httpHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyTwinHttpHostPort))
	mqttBroker := strings.TrimSpace(os.Getenv(common.EnvKeyMqttBroker))

	var defaultRate float64
	var defaultBurst int64

	if defaultRate, err = strconv.ParseFloat(os.Getenv(common.EnvKeyTwinDefaultRate), 64); err != nil {
		log.Fatal("Invalid TWIN_DEFAULT_RATE, or not set in .env, should be a float64 value")
	}

	if defaultBurst, err = strconv.ParseInt(os.Getenv(common.EnvKeyTwinDefaultBurst), 10, 64); err != nil {
		log.Fatal("Invalid TWIN_DEFAULT_BURST, or not set in .env, should be an int value")
	}

	heartbeatWindow := envSeconds(common.EnvKeyHeartbeatWindowSec, 0)
	commandDeadline := envSeconds(common.EnvKeyCommandDeadlineSec, 0)
	if heartbeatWindow <= 0 {
		log.Fatal("TWIN_HEARTBEAT_WINDOW_SEC must be set to a positive number of seconds")
	}
	if commandDeadline <= 0 {
		log.Fatal("TWIN_COMMAND_DEADLINE_SEC must be set to a positive number of seconds")
	}

	queueCapacity := 1024
	if raw := strings.TrimSpace(os.Getenv(common.EnvKeyEventQueueCapacity)); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Fatal("Invalid TWIN_EVENT_QUEUE_CAPACITY, should be an int value")
		}
		queueCapacity = int(parsed)
	}

	logger := common.GetLogger()

	engine := twin.Engine{
		Db:              *dbInstance,
		Notifier:        twin.NewHub(),
		HeartbeatWindow: heartbeatWindow,
		CommandDeadline: commandDeadline,
	}
	engine.WithServices(twin.ServiceOpts{
		Telemetry: engine.GetITelemetry(),
		Health:    engine.GetIHealth(),
		Anomaly:   engine.GetIAnomaly(),
		Command:   engine.GetICommand(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine.StartPipeline(ctx, twin.PipelineOpts{
		QueueCapacity:      queueCapacity,
		LivenessSweepEvery: envSeconds(common.EnvKeyLivenessSweepSec, 10*time.Second),
		CommandSweepEvery:  envSeconds(common.EnvKeyCommandSweepSec, 10*time.Second),
	})

	// operator push channel: mirror health/anomaly/command notifications
	// into the structured log
	go twin.LogNotifications(ctx, engine.Notifier, "operator_log", 256)

	if mqttBroker != "" {
		clientID := strings.TrimSpace(os.Getenv(common.EnvKeyMqttClientID))
		if clientID == "" {
			clientID = "twin-engine"
		}

		opts := mqtt.NewClientOptions().
			AddBroker(mqttBroker).
			SetClientID(clientID).
			SetAutoReconnect(true)
		client := mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			log.Fatalf("failed to connect to MQTT broker: %v", token.Error())
		}

		engine.Dispatcher = &ingest.MQTTDispatcher{
			Client: client,
			Topic:  os.Getenv(common.EnvKeyTopicCmdDownlink),
		}

		bridge := &ingest.Bridge{
			Client: client,
			Engine: &engine,
			Decoder: &ingest.Decoder{Topics: ingest.Topics{
				Telemetry:     os.Getenv(common.EnvKeyTopicTelemetry),
				OnDemand:      os.Getenv(common.EnvKeyTopicOnDemand),
				Health:        os.Getenv(common.EnvKeyTopicHealth),
				CommandResult: os.Getenv(common.EnvKeyTopicCmdResult),
			}},
			Limiters: twin.NewRateLimiterStore(rate.Limit(defaultRate), int(defaultBurst)),
		}
		if err := bridge.Start(); err != nil {
			log.Fatalf("failed to subscribe to ingestion topics: %v", err)
		}

		logger.Info("MQTT bridge started", zap.String("broker", mqttBroker))
	}

	if httpHostPort == "" {
		// fallback to default http port
		httpHostPort = ":1080"
	}

	logger.Info("Starting HTTP server on port " + httpHostPort)
	rs := &twinHttp.RestfulServer{
		Server:           gin.Default(),
		Engine:           &engine,
		RateLimiterStore: twin.NewRateLimiterStore(rate.Limit(defaultRate), int(defaultBurst)),
	}
	rs.Setup()

	logger.Info("http server created with:",
		zap.String("default_limiter",
			fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", defaultRate, defaultBurst)))

	logger.Info("Starting HTTP server on: " + httpHostPort)
	if err := rs.Server.Run(httpHostPort); err != nil {
		log.Fatalf("http server failed to serve: %v", err)
	}
}
