package twin

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G-P-x/IoT-project/pkg/common"
	"github.com/G-P-x/IoT-project/pkg/models"
	_ "github.com/G-P-x/IoT-project/pkg/testing"
)

func deviceState(t *testing.T, engine *Engine, deviceID string) models.HealthState {
	t.Helper()
	record, err := engine.Health.GetHealth(deviceID)
	require.NoError(t, err)
	return record.State
}

func transitionPairs(transitions []models.HealthTransition) [][2]models.HealthState {
	pairs := make([][2]models.HealthState, len(transitions))
	for i, tr := range transitions {
		pairs[i] = [2]models.HealthState{tr.FromState, tr.ToState}
	}
	return pairs
}

func TestLivenessHeartbeatScenario(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, engine, _, _, _, _ := GetMockEngineWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	engine.HeartbeatWindow = 30 * time.Second

	deviceID := uuid.NewString()
	base := time.Now().Truncate(time.Second)

	// heartbeats every 10s, then silence
	for _, offset := range []int{0, 10, 20} {
		require.NoError(t, engine.Health.OnHeartbeat(deviceID, base.Add(time.Duration(offset)*time.Second)))
	}
	assert.Equal(t, models.HealthSilent, deviceState(t, engine, deviceID))

	lastHeartbeat := base.Add(20 * time.Second)

	// 35s of silence exceeds the 30s window
	require.NoError(t, engine.Health.SweepLiveness(lastHeartbeat.Add(35*time.Second)))
	assert.Equal(t, models.HealthSuspected, deviceState(t, engine, deviceID))

	// 65s of silence exceeds the 60s grace period
	require.NoError(t, engine.Health.SweepLiveness(lastHeartbeat.Add(65*time.Second)))
	assert.Equal(t, models.HealthOffline, deviceState(t, engine, deviceID))

	// a heartbeat recovers the device and settles it back into SILENT
	require.NoError(t, engine.Health.OnHeartbeat(deviceID, lastHeartbeat.Add(70*time.Second)))
	assert.Equal(t, models.HealthSilent, deviceState(t, engine, deviceID))

	transitions, err := engine.Health.GetTransitions(deviceID)
	require.NoError(t, err)
	assert.Equal(t, [][2]models.HealthState{
		{models.HealthUnknown, models.HealthSilent},
		{models.HealthSilent, models.HealthSuspected},
		{models.HealthSuspected, models.HealthOffline},
		{models.HealthOffline, models.HealthRecovered},
		{models.HealthRecovered, models.HealthSilent},
	}, transitionPairs(transitions))
}

func TestLivenessNeverSkipsSuspected(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, engine, _, _, _, _ := GetMockEngineWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	engine.HeartbeatWindow = 30 * time.Second

	deviceID := uuid.NewString()
	base := time.Now().Truncate(time.Second)
	require.NoError(t, engine.Health.OnHeartbeat(deviceID, base))

	// a single, very late sweep must still walk through SUSPECTED
	require.NoError(t, engine.Health.SweepLiveness(base.Add(10*time.Minute)))
	assert.Equal(t, models.HealthOffline, deviceState(t, engine, deviceID))

	transitions, err := engine.Health.GetTransitions(deviceID)
	require.NoError(t, err)
	assert.Equal(t, [][2]models.HealthState{
		{models.HealthUnknown, models.HealthSilent},
		{models.HealthSilent, models.HealthSuspected},
		{models.HealthSuspected, models.HealthOffline},
	}, transitionPairs(transitions))

	// re-sweeping a device already offline is a no-op
	require.NoError(t, engine.Health.SweepLiveness(base.Add(20*time.Minute)))
	after, err := engine.Health.GetTransitions(deviceID)
	require.NoError(t, err)
	assert.Len(t, after, 3)
}

func TestEdgeReportPreemptsInference(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, engine, _, _, _, _ := GetMockEngineWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	engine.HeartbeatWindow = 30 * time.Second

	deviceID := uuid.NewString()
	base := time.Now().Truncate(time.Second)
	require.NoError(t, engine.Health.OnHeartbeat(deviceID, base))

	// the edge tags the device offline from local diagnostics, well before
	// any timeout would fire
	require.NoError(t, engine.Health.OnHealthEvent(deviceID, models.HealthOffline, base.Add(time.Second)))
	assert.Equal(t, models.HealthOffline, deviceState(t, engine, deviceID))

	require.NoError(t, engine.Health.OnHeartbeat(deviceID, base.Add(2*time.Second)))
	assert.Equal(t, models.HealthSilent, deviceState(t, engine, deviceID))

	err := engine.Health.OnHealthEvent(deviceID, models.HealthRecovered, base.Add(3*time.Second))
	require.Error(t, err, "edge may only report SILENT, SUSPECTED or OFFLINE")
}

func TestEdgeSilentReportRecordsRecovery(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, engine, _, _, _, _ := GetMockEngineWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	engine.HeartbeatWindow = 30 * time.Second

	deviceID := uuid.NewString()
	base := time.Now().Truncate(time.Second)
	require.NoError(t, engine.Health.OnHeartbeat(deviceID, base))
	require.NoError(t, engine.Health.OnHealthEvent(deviceID, models.HealthOffline, base.Add(time.Second)))

	// a SILENT edge report is a heartbeat, the device must not jump back
	// to SILENT without RECOVERED in between
	require.NoError(t, engine.Health.OnHealthEvent(deviceID, models.HealthSilent, base.Add(2*time.Second)))
	assert.Equal(t, models.HealthSilent, deviceState(t, engine, deviceID))

	transitions, err := engine.Health.GetTransitions(deviceID)
	require.NoError(t, err)
	assert.Equal(t, [][2]models.HealthState{
		{models.HealthUnknown, models.HealthSilent},
		{models.HealthSilent, models.HealthOffline},
		{models.HealthOffline, models.HealthRecovered},
		{models.HealthRecovered, models.HealthSilent},
	}, transitionPairs(transitions))

	// the report also refreshes the heartbeat clock
	record, err := engine.Health.GetHealth(deviceID)
	require.NoError(t, err)
	assert.Equal(t, base.Add(2*time.Second).Unix(), record.LastHeartbeat.Unix())
}

func TestLivenessPerDeviceWindow(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, engine, _, _, _, _ := GetMockEngineWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	engine.HeartbeatWindow = 30 * time.Second

	fastDevice := uuid.NewString()
	slowDevice := uuid.NewString()
	base := time.Now().Truncate(time.Second)

	require.NoError(t, engine.Health.OnHeartbeat(fastDevice, base))
	require.NoError(t, engine.Health.OnHeartbeat(slowDevice, base))

	// the slow device is allowed a much larger window
	err := engine.Db.Conn.Model(&models.HealthRecord{}).
		Where("device_id = ?", slowDevice).
		Update("window_seconds", 3600).Error
	require.NoError(t, err)

	require.NoError(t, engine.Health.SweepLiveness(base.Add(45*time.Second)))
	assert.Equal(t, models.HealthSuspected, deviceState(t, engine, fastDevice))
	assert.Equal(t, models.HealthSilent, deviceState(t, engine, slowDevice))
}

func TestHealthChangedNotifications(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, engine, _, _, _, _ := GetMockEngineWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	engine.HeartbeatWindow = 30 * time.Second

	deviceID := uuid.NewString()
	ch := engine.Notifier.Subscribe(uuid.NewString(), 256)

	base := time.Now().Truncate(time.Second)
	require.NoError(t, engine.Health.OnHeartbeat(deviceID, base))
	require.NoError(t, engine.Health.SweepLiveness(base.Add(10*time.Minute)))

	// the sweep may also move devices left behind by other tests in the
	// shared in-memory store, so keep only ours
	var got []Notification
drain:
	for {
		select {
		case n := <-ch:
			if n.DeviceID == deviceID {
				got = append(got, n)
			}
		default:
			break drain
		}
	}
	require.Len(t, got, 3)

	assert.Equal(t, NotifyHealthChanged, got[0].Kind)
	assert.Equal(t, string(models.HealthSilent), got[0].NewState)
	assert.False(t, got[0].Alarm)

	assert.Equal(t, string(models.HealthSuspected), got[1].NewState)
	assert.False(t, got[1].Alarm)

	assert.Equal(t, string(models.HealthOffline), got[2].NewState)
	assert.True(t, got[2].Alarm, "transitions to OFFLINE are alarm-worthy")
}
