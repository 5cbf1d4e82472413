package ingest

import (
	"encoding/json"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
	"github.com/G-P-x/IoT-project/pkg/common"
	"github.com/G-P-x/IoT-project/pkg/models"
	"github.com/G-P-x/IoT-project/pkg/twin"
)

// Bridge subscribes the engine to the edge-facing MQTT topics. A message
// that fails to decode is logged and dropped; it never stops the pipeline.
type Bridge struct {
	Client   mqtt.Client
	Engine   *twin.Engine
	Decoder  *Decoder
	Limiters *twin.RateLimiterStore
}

func (b *Bridge) Start() error {
	topics := []string{
		b.Decoder.Topics.Telemetry,
		b.Decoder.Topics.OnDemand,
		b.Decoder.Topics.Health,
		b.Decoder.Topics.CommandResult,
	}
	for _, topic := range topics {
		if topic == "" {
			continue
		}
		token := b.Client.Subscribe(topic, 1, b.HandleMessage)
		token.Wait()
		if token.Error() != nil {
			return token.Error()
		}
	}
	return nil
}

func (b *Bridge) allow(id string) bool {
	if b.Limiters == nil {
		return true
	}
	return b.Limiters.GetLimiter(id).Allow()
}

func (b *Bridge) HandleMessage(_ mqtt.Client, msg mqtt.Message) {
	logger := common.GetLoggerWith(
		common.LoggerNameMqttBridge,
		zap.String(common.LoggerFieldTwinCategory, common.LoggerCategoryDecode),
	)

	event, err := b.Decoder.Decode(msg.Topic(), msg.Payload())
	if err != nil {
		logger.Warn("Dropped malformed message",
			zap.String("topic", msg.Topic()), zap.Error(err))
		return
	}

	switch ev := event.(type) {
	case *TelemetryBatch:
		if !b.allow(ev.TwinID) {
			logger.Warn("Rate limited telemetry batch", zap.String("twin_id", ev.TwinID))
			return
		}
		for i := range ev.Readings {
			if err := b.Engine.Telemetry.ApplyReading(ev.TwinID, &ev.Readings[i]); err != nil {
				logger.Warn("Failed to apply reading",
					zap.String("twin_id", ev.TwinID), zap.Error(err))
			}
		}
	case *TelemetryOnDemand:
		if !b.allow(ev.TwinID) {
			logger.Warn("Rate limited on-demand reading", zap.String("twin_id", ev.TwinID))
			return
		}
		if err := b.Engine.Telemetry.ApplyReading(ev.TwinID, &ev.Reading); err != nil {
			logger.Warn("Failed to apply on-demand reading",
				zap.String("twin_id", ev.TwinID),
				zap.String("request_id", ev.RequestID),
				zap.Error(err))
		}
	case *HealthEvent:
		if !b.allow(ev.DeviceID) {
			logger.Warn("Rate limited health event", zap.String("device_id", ev.DeviceID))
			return
		}
		// a SILENT report is the heartbeat; degraded states preempt the
		// cloud-inferred machine
		if ev.ReportedState == models.HealthSilent {
			err = b.Engine.Health.OnHeartbeat(ev.DeviceID, ev.Timestamp)
		} else {
			err = b.Engine.Health.OnHealthEvent(ev.DeviceID, ev.ReportedState, ev.Timestamp)
		}
		if err != nil {
			logger.Warn("Failed to apply health event",
				zap.String("device_id", ev.DeviceID), zap.Error(err))
		}
	case *CommandResult:
		if err := b.Engine.Command.OnResult(ev.CommandID, ev.Outcome, ev.Payload, ev.Timestamp); err != nil {
			logger.Warn("Failed to apply command result",
				zap.String("command_id", ev.CommandID), zap.Error(err))
		}
	}
}

type downlinkCommand struct {
	CommandID   string            `json:"command_id"`
	Target      models.Target       `json:"target"`
	CommandType string            `json:"command_type"`
	Params      map[string]string `json:"params,omitempty"`
}

// MQTTDispatcher publishes commands on the downlink topic. Fire-and-forget:
// delivery retries belong to the broker session, not to the engine.
type MQTTDispatcher struct {
	Client mqtt.Client
	Topic  string
}

func (d *MQTTDispatcher) DispatchCommand(commandID string, target models.Target, commandType string, params map[string]string) error {
	logger := common.GetLoggerWith(
		common.LoggerNameMqttBridge,
		zap.String(common.LoggerFieldTwinCategory, common.LoggerCategoryCommand),
	)

	payload, err := json.Marshal(downlinkCommand{
		CommandID:   commandID,
		Target:      target,
		CommandType: commandType,
		Params:      params,
	})
	if err != nil {
		return err
	}

	token := d.Client.Publish(d.Topic, 1, false, payload)
	token.Wait()
	if token.Error() != nil {
		logger.Warn("Failed to publish command downlink",
			zap.String("command_id", commandID), zap.Error(token.Error()))
		return token.Error()
	}

	logger.Info("Command published on downlink",
		zap.String("command_id", commandID),
		zap.String("twin_id", target.TwinID))
	return nil
}
