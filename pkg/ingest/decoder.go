package ingest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/G-P-x/IoT-project/pkg/models"
)

// DecodeError marks an inbound message as malformed. The pipeline logs it
// and drops the message; it is never fatal.
type DecodeError struct {
	Topic  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q: %s", e.Topic, e.Reason)
}

// Topics maps the configured ingestion channels to message kinds.
type Topics struct {
	Telemetry     string
	OnDemand      string
	Health        string
	CommandResult string
}

type TelemetryBatch struct {
	TwinID   string
	Readings []models.SensorReading
}

type TelemetryOnDemand struct {
	TwinID    string
	RequestID string
	Reading   models.SensorReading
}

type HealthEvent struct {
	DeviceID      string
	ReportedState models.HealthState
	Timestamp     time.Time
}

type CommandResult struct {
	CommandID string
	Outcome   models.CommandOutcome
	Payload   string
	Timestamp time.Time
}

type Decoder struct {
	Topics Topics
}

type wireReading struct {
	SensorID  string   `json:"sensor_id"`
	Parameter string   `json:"parameter"`
	Value     *float64 `json:"value"`
	Unit      string   `json:"unit"`
	Ts        string   `json:"ts"`
}

func (w *wireReading) toReading(topic string) (models.SensorReading, error) {
	var reading models.SensorReading
	if w.SensorID == "" {
		return reading, &DecodeError{Topic: topic, Reason: "missing sensor_id"}
	}
	if w.Parameter == "" {
		return reading, &DecodeError{Topic: topic, Reason: "missing parameter"}
	}
	if w.Value == nil {
		return reading, &DecodeError{Topic: topic, Reason: "missing value"}
	}
	ts, err := parseTs(topic, w.Ts)
	if err != nil {
		return reading, err
	}
	return models.SensorReading{
		SensorID:  w.SensorID,
		Parameter: w.Parameter,
		Value:     *w.Value,
		Unit:      w.Unit,
		Timestamp: ts,
	}, nil
}

func parseTs(topic string, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, &DecodeError{Topic: topic, Reason: "missing ts"}
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, &DecodeError{Topic: topic, Reason: fmt.Sprintf("unparsable ts %q", raw)}
	}
	return ts, nil
}

// Decode turns a raw inbound message into one typed event. It is a pure
// function of its input.
func (d *Decoder) Decode(topic string, payload []byte) (any, error) {
	switch topic {
	case d.Topics.Telemetry:
		return decodeTelemetryBatch(topic, payload)
	case d.Topics.OnDemand:
		return decodeTelemetryOnDemand(topic, payload)
	case d.Topics.Health:
		return decodeHealthEvent(topic, payload)
	case d.Topics.CommandResult:
		return decodeCommandResult(topic, payload)
	default:
		return nil, &DecodeError{Topic: topic, Reason: "unknown topic"}
	}
}

func decodeTelemetryBatch(topic string, payload []byte) (*TelemetryBatch, error) {
	var wire struct {
		TwinID   string        `json:"twin_id"`
		Readings []wireReading `json:"readings"`
	}
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil, &DecodeError{Topic: topic, Reason: err.Error()}
	}
	if wire.TwinID == "" {
		return nil, &DecodeError{Topic: topic, Reason: "missing twin_id"}
	}
	if len(wire.Readings) == 0 {
		return nil, &DecodeError{Topic: topic, Reason: "empty readings"}
	}

	batch := TelemetryBatch{TwinID: wire.TwinID}
	for i := range wire.Readings {
		reading, err := wire.Readings[i].toReading(topic)
		if err != nil {
			return nil, err
		}
		reading.Mode = models.ModeBaseline
		batch.Readings = append(batch.Readings, reading)
	}
	return &batch, nil
}

func decodeTelemetryOnDemand(topic string, payload []byte) (*TelemetryOnDemand, error) {
	var wire struct {
		TwinID    string       `json:"twin_id"`
		RequestID string       `json:"request_id"`
		Reading   *wireReading `json:"reading"`
	}
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil, &DecodeError{Topic: topic, Reason: err.Error()}
	}
	if wire.TwinID == "" {
		return nil, &DecodeError{Topic: topic, Reason: "missing twin_id"}
	}
	if wire.RequestID == "" {
		return nil, &DecodeError{Topic: topic, Reason: "missing request_id"}
	}
	if wire.Reading == nil {
		return nil, &DecodeError{Topic: topic, Reason: "missing reading"}
	}

	reading, err := wire.Reading.toReading(topic)
	if err != nil {
		return nil, err
	}
	reading.Mode = models.ModeOnDemand
	reading.RequestID = wire.RequestID

	return &TelemetryOnDemand{
		TwinID:    wire.TwinID,
		RequestID: wire.RequestID,
		Reading:   reading,
	}, nil
}

func decodeHealthEvent(topic string, payload []byte) (*HealthEvent, error) {
	var wire struct {
		DeviceID      string `json:"device_id"`
		ReportedState string `json:"reported_state"`
		Ts            string `json:"ts"`
	}
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil, &DecodeError{Topic: topic, Reason: err.Error()}
	}
	if wire.DeviceID == "" {
		return nil, &DecodeError{Topic: topic, Reason: "missing device_id"}
	}

	state := models.HealthState(wire.ReportedState)
	switch state {
	case models.HealthSilent, models.HealthSuspected, models.HealthOffline:
	default:
		return nil, &DecodeError{Topic: topic, Reason: fmt.Sprintf("bad reported_state %q", wire.ReportedState)}
	}

	ts, err := parseTs(topic, wire.Ts)
	if err != nil {
		return nil, err
	}

	return &HealthEvent{DeviceID: wire.DeviceID, ReportedState: state, Timestamp: ts}, nil
}

func decodeCommandResult(topic string, payload []byte) (*CommandResult, error) {
	var wire struct {
		CommandID string          `json:"command_id"`
		Outcome   string          `json:"outcome"`
		Payload   json.RawMessage `json:"payload"`
		Ts        string          `json:"ts"`
	}
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil, &DecodeError{Topic: topic, Reason: err.Error()}
	}
	if wire.CommandID == "" {
		return nil, &DecodeError{Topic: topic, Reason: "missing command_id"}
	}

	outcome := models.CommandOutcome(wire.Outcome)
	switch outcome {
	case models.OutcomeAck, models.OutcomeCompleted, models.OutcomeFailed:
	default:
		return nil, &DecodeError{Topic: topic, Reason: fmt.Sprintf("bad outcome %q", wire.Outcome)}
	}

	ts, err := parseTs(topic, wire.Ts)
	if err != nil {
		return nil, err
	}

	return &CommandResult{
		CommandID: wire.CommandID,
		Outcome:   outcome,
		Payload:   string(wire.Payload),
		Timestamp: ts,
	}, nil
}
