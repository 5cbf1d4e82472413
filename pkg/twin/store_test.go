package twin

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/G-P-x/IoT-project/pkg/common"
	"github.com/G-P-x/IoT-project/pkg/models"
	_ "github.com/G-P-x/IoT-project/pkg/testing"
)

func registerTestTwin(t *testing.T, engine *Engine, twinID string) {
	t.Helper()
	err := engine.Telemetry.RegisterTwin(twinID, twinID+"_gw", []models.Sensor{
		{SensorID: "temp_01", Parameter: "temperature", Unit: "°C"},
		{SensorID: "aq_01", Parameter: "air_quality", Unit: "AQI"},
	})
	require.NoError(t, err)
}

func TestApplyReading(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, engine, _, _, mockAnomaly, _ := GetMockEngineWithMemorySqliteDialector(t, false, false, true, false)
	defer ctrl.Finish()

	twinID := uuid.NewString()
	registerTestTwin(t, engine, twinID)

	mockAnomaly.
		EXPECT().
		Evaluate(gomock.Eq(twinID), gomock.Any()).
		Times(1)

	ts := time.Now().Truncate(time.Second)
	input := &models.SensorReading{
		SensorID:  "temp_01",
		Parameter: "temperature",
		Value:     24.8,
		Unit:      "°C",
		Timestamp: ts,
	}
	err := engine.Telemetry.ApplyReading(twinID, input)
	assert.NoError(t, err)

	var saved models.SensorReading
	err = engine.Db.Conn.Where("twin_id = ?", twinID).First(&saved).Error
	assert.NoError(t, err)
	assert.Equal(t, input.Value, saved.Value)
	assert.Equal(t, models.ModeBaseline, saved.Mode)

	var current models.CurrentValue
	err = engine.Db.Conn.Where("twin_id = ? AND sensor_id = ?", twinID, "temp_01").First(&current).Error
	assert.NoError(t, err)
	assert.Equal(t, input.Value, current.Value)

	var record models.Twin
	err = engine.Db.Conn.First(&record, "twin_id = ?", twinID).Error
	assert.NoError(t, err)
	assert.Equal(t, ts.Unix(), record.LastUpdate.Unix())
}

func TestApplyReadingUnknownTwin(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, engine, _, _, _, _ := GetMockEngineWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	err := engine.Telemetry.ApplyReading(uuid.NewString(), &models.SensorReading{
		SensorID:  "temp_01",
		Parameter: "temperature",
		Value:     24.8,
		Timestamp: time.Now(),
	})
	require.ErrorIs(t, err, ErrUnknownTwin)
}

func TestApplyReadingDuplicateIsNoOp(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, engine, _, _, mockAnomaly, _ := GetMockEngineWithMemorySqliteDialector(t, false, false, true, false)
	defer ctrl.Finish()

	twinID := uuid.NewString()
	registerTestTwin(t, engine, twinID)

	// dedup means only the first application reaches the detector
	mockAnomaly.
		EXPECT().
		Evaluate(gomock.Eq(twinID), gomock.Any()).
		Times(1)

	input := &models.SensorReading{
		SensorID:  "temp_01",
		Parameter: "temperature",
		Value:     24.8,
		Unit:      "°C",
		Timestamp: time.Now().Truncate(time.Second),
	}

	assert.NoError(t, engine.Telemetry.ApplyReading(twinID, input))
	assert.NoError(t, engine.Telemetry.ApplyReading(twinID, input))

	var count int64
	err := engine.Db.Conn.Model(&models.SensorReading{}).Where("twin_id = ?", twinID).Count(&count).Error
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCurrentValueSupersede(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, engine, _, _, mockAnomaly, _ := GetMockEngineWithMemorySqliteDialector(t, false, false, true, false)
	defer ctrl.Finish()

	twinID := uuid.NewString()
	registerTestTwin(t, engine, twinID)

	mockAnomaly.EXPECT().Evaluate(gomock.Eq(twinID), gomock.Any()).Times(3)

	base := time.Now().Truncate(time.Second)

	apply := func(value float64, ts time.Time) {
		err := engine.Telemetry.ApplyReading(twinID, &models.SensorReading{
			SensorID:  "temp_01",
			Parameter: "temperature",
			Value:     value,
			Unit:      "°C",
			Timestamp: ts,
		})
		require.NoError(t, err)
	}

	apply(20.0, base)
	apply(22.0, base.Add(10*time.Second))
	// out-of-order delivery: lands in history but must not clobber current
	apply(18.0, base.Add(5*time.Second))

	var current models.CurrentValue
	err := engine.Db.Conn.Where("twin_id = ? AND sensor_id = ?", twinID, "temp_01").First(&current).Error
	assert.NoError(t, err)
	assert.Equal(t, 22.0, current.Value)

	var count int64
	err = engine.Db.Conn.Model(&models.SensorReading{}).Where("twin_id = ?", twinID).Count(&count).Error
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestGetHistoryChronological(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, engine, _, _, mockAnomaly, _ := GetMockEngineWithMemorySqliteDialector(t, false, false, true, false)
	defer ctrl.Finish()

	twinID := uuid.NewString()
	registerTestTwin(t, engine, twinID)

	const n = 5
	mockAnomaly.EXPECT().Evaluate(gomock.Eq(twinID), gomock.Any()).Times(n)

	base := time.Now().Truncate(time.Second)

	// shuffled arrival order, distinct timestamps
	for _, offset := range []int{3, 0, 4, 1, 2} {
		err := engine.Telemetry.ApplyReading(twinID, &models.SensorReading{
			SensorID:  "temp_01",
			Parameter: "temperature",
			Value:     20.0 + float64(offset),
			Unit:      "°C",
			Timestamp: base.Add(time.Duration(offset) * time.Second),
		})
		require.NoError(t, err)
	}

	readings, err := engine.Telemetry.GetHistory(twinID, "temperature", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, readings, n)
	for i := 1; i < n; i++ {
		assert.True(t, readings[i-1].Timestamp.Before(readings[i].Timestamp),
			"expected chronological order at index %d", i)
	}

	_, err = engine.Telemetry.GetHistory(uuid.NewString(), "temperature", time.Time{}, time.Time{})
	require.ErrorIs(t, err, ErrUnknownTwin)
}

func TestGetTwinSnapshot(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, engine, _, _, mockAnomaly, _ := GetMockEngineWithMemorySqliteDialector(t, false, false, true, false)
	defer ctrl.Finish()

	twinID := uuid.NewString()
	registerTestTwin(t, engine, twinID)

	mockAnomaly.EXPECT().Evaluate(gomock.Eq(twinID), gomock.Any()).Times(1)

	err := engine.Telemetry.ApplyReading(twinID, &models.SensorReading{
		SensorID:  "aq_01",
		Parameter: "air_quality",
		Value:     12.5,
		Unit:      "AQI",
		Timestamp: time.Now().Truncate(time.Second),
	})
	require.NoError(t, err)

	snapshot, err := engine.Telemetry.GetTwin(twinID)
	require.NoError(t, err)
	assert.Equal(t, twinID, snapshot.TwinID)
	assert.Equal(t, twinID+"_gw", snapshot.DeviceID)
	assert.Len(t, snapshot.Sensors, 2)
	require.Len(t, snapshot.Current, 1)
	assert.Equal(t, 12.5, snapshot.Current[0].Value)
	require.NotNil(t, snapshot.Health)
	assert.Equal(t, models.HealthUnknown, snapshot.Health.State)

	_, err = engine.Telemetry.GetTwin(uuid.NewString())
	require.ErrorIs(t, err, ErrUnknownTwin)
}
