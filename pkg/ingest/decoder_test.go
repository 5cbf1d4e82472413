package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G-P-x/IoT-project/pkg/models"
)

func testDecoder() *Decoder {
	return &Decoder{Topics: Topics{
		Telemetry:     "fleet/telemetry",
		OnDemand:      "fleet/telemetry/ondemand",
		Health:        "fleet/health",
		CommandResult: "fleet/commands/result",
	}}
}

func TestDecodeTelemetryBatch(t *testing.T) {
	decoder := testDecoder()

	payload := []byte(`{
		"twin_id": "room_12",
		"readings": [
			{"sensor_id": "temp_01", "parameter": "temperature", "value": 22.5, "unit": "°C", "ts": "2026-08-30T10:00:00Z"},
			{"sensor_id": "aq_01", "parameter": "air_quality", "value": 41, "unit": "AQI", "ts": "2026-08-30T10:00:00Z"}
		]
	}`)

	event, err := decoder.Decode("fleet/telemetry", payload)
	require.NoError(t, err)

	batch, ok := event.(*TelemetryBatch)
	require.True(t, ok)
	assert.Equal(t, "room_12", batch.TwinID)
	require.Len(t, batch.Readings, 2)
	assert.Equal(t, "temp_01", batch.Readings[0].SensorID)
	assert.Equal(t, 22.5, batch.Readings[0].Value)
	assert.Equal(t, models.ModeBaseline, batch.Readings[0].Mode)
	assert.Equal(t, time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC), batch.Readings[0].Timestamp.UTC())
}

func TestDecodeTelemetryOnDemand(t *testing.T) {
	decoder := testDecoder()

	payload := []byte(`{
		"twin_id": "room_12",
		"request_id": "req_9",
		"reading": {"sensor_id": "temp_01", "parameter": "temperature", "value": 23.1, "unit": "°C", "ts": "2026-08-30T10:01:00Z"}
	}`)

	event, err := decoder.Decode("fleet/telemetry/ondemand", payload)
	require.NoError(t, err)

	onDemand, ok := event.(*TelemetryOnDemand)
	require.True(t, ok)
	assert.Equal(t, "room_12", onDemand.TwinID)
	assert.Equal(t, "req_9", onDemand.RequestID)
	assert.Equal(t, models.ModeOnDemand, onDemand.Reading.Mode)
	assert.Equal(t, "req_9", onDemand.Reading.RequestID)
	assert.Equal(t, 23.1, onDemand.Reading.Value)
}

func TestDecodeHealthEvent(t *testing.T) {
	decoder := testDecoder()

	payload := []byte(`{"device_id": "gw_3", "reported_state": "OFFLINE", "ts": "2026-08-30T10:02:00Z"}`)

	event, err := decoder.Decode("fleet/health", payload)
	require.NoError(t, err)

	health, ok := event.(*HealthEvent)
	require.True(t, ok)
	assert.Equal(t, "gw_3", health.DeviceID)
	assert.Equal(t, models.HealthOffline, health.ReportedState)
}

func TestDecodeCommandResult(t *testing.T) {
	decoder := testDecoder()

	payload := []byte(`{"command_id": "cmd_1", "outcome": "COMPLETED", "payload": {"applied": true}, "ts": "2026-08-30T10:03:00Z"}`)

	event, err := decoder.Decode("fleet/commands/result", payload)
	require.NoError(t, err)

	result, ok := event.(*CommandResult)
	require.True(t, ok)
	assert.Equal(t, "cmd_1", result.CommandID)
	assert.Equal(t, models.OutcomeCompleted, result.Outcome)
	assert.JSONEq(t, `{"applied": true}`, result.Payload)
}

func TestDecodeMalformed(t *testing.T) {
	decoder := testDecoder()

	cases := []struct {
		name    string
		topic   string
		payload string
	}{
		{"unknown topic", "fleet/unknown", `{}`},
		{"not json", "fleet/telemetry", `not json at all`},
		{"batch missing twin_id", "fleet/telemetry", `{"readings": [{"sensor_id": "s", "parameter": "p", "value": 1, "ts": "2026-08-30T10:00:00Z"}]}`},
		{"batch empty readings", "fleet/telemetry", `{"twin_id": "room_12", "readings": []}`},
		{"reading missing value", "fleet/telemetry", `{"twin_id": "room_12", "readings": [{"sensor_id": "s", "parameter": "p", "ts": "2026-08-30T10:00:00Z"}]}`},
		{"reading bad ts", "fleet/telemetry", `{"twin_id": "room_12", "readings": [{"sensor_id": "s", "parameter": "p", "value": 1, "ts": "yesterday"}]}`},
		{"on-demand missing request_id", "fleet/telemetry/ondemand", `{"twin_id": "room_12", "reading": {"sensor_id": "s", "parameter": "p", "value": 1, "ts": "2026-08-30T10:00:00Z"}}`},
		{"health missing device_id", "fleet/health", `{"reported_state": "SILENT", "ts": "2026-08-30T10:00:00Z"}`},
		{"health bad state", "fleet/health", `{"device_id": "gw_3", "reported_state": "SLEEPY", "ts": "2026-08-30T10:00:00Z"}`},
		{"health edge cannot report recovery", "fleet/health", `{"device_id": "gw_3", "reported_state": "RECOVERED", "ts": "2026-08-30T10:00:00Z"}`},
		{"result missing command_id", "fleet/commands/result", `{"outcome": "COMPLETED", "ts": "2026-08-30T10:00:00Z"}`},
		{"result bad outcome", "fleet/commands/result", `{"command_id": "cmd_1", "outcome": "MAYBE", "ts": "2026-08-30T10:00:00Z"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			event, err := decoder.Decode(tc.topic, []byte(tc.payload))
			assert.Nil(t, event)

			var decodeErr *DecodeError
			require.ErrorAs(t, err, &decodeErr)
		})
	}
}
