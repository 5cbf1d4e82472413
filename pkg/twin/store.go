package twin

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"github.com/G-P-x/IoT-project/pkg/common"
	"github.com/G-P-x/IoT-project/pkg/models"
)

const (
	persistAttempts = 3
	persistBackoff  = 50 * time.Millisecond
)

// withPersistRetry retries storage writes that originate from the ingestion
// path with bounded backoff. Interactive operator writes surface immediately.
func withPersistRetry(fn func() error) error {
	var err error
	delay := persistBackoff
	for attempt := 0; attempt < persistAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		time.Sleep(delay)
		delay *= 2
	}
	return err
}

func (e *Engine) registerTwin(twinID string, deviceID string, sensors []models.Sensor) error {
	logger := common.GetLoggerWith(
		common.LoggerNameTwinCore,
		zap.String(common.LoggerFieldTwinCategory, common.LoggerCategoryTelemetry),
	)

	if deviceID == "" {
		deviceID = twinID
	}

	return e.locks.withLock(twinID, func() error {
		record := models.Twin{TwinID: twinID, DeviceID: deviceID}
		err := e.Db.Conn.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "twin_id"}},
			UpdateAll: true,
		}).Create(&record).Error
		if err != nil {
			return err
		}

		for _, s := range sensors {
			sensor := models.Sensor{
				TwinID:    twinID,
				SensorID:  s.SensorID,
				Parameter: s.Parameter,
				Unit:      s.Unit,
			}
			err := e.Db.Conn.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "twin_id"}, {Name: "sensor_id"}},
				UpdateAll: true,
			}).Create(&sensor).Error
			if err != nil {
				return err
			}
		}

		health := models.HealthRecord{DeviceID: deviceID, State: models.HealthUnknown}
		err = e.Db.Conn.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "device_id"}},
			DoNothing: true,
		}).Create(&health).Error
		if err != nil {
			return err
		}

		logger.Info("Registered twin",
			zap.String("twin_id", twinID),
			zap.String("device_id", deviceID),
			zap.Int("sensors", len(sensors)))
		return nil
	})
}

func (e *Engine) applyReading(twinID string, input *models.SensorReading) error {
	logger := common.GetLoggerWith(
		common.LoggerNameTwinCore,
		zap.String(common.LoggerFieldTwinCategory, common.LoggerCategoryTelemetry),
	)

	var stored *models.SensorReading

	err := e.locks.withLock(twinID, func() error {
		var record models.Twin
		if err := e.Db.Conn.First(&record, "twin_id = ?", twinID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownTwin
			}
			return err
		}

		// dedup key twin+sensor+timestamp: replayed deliveries are no-ops
		var count int64
		err := e.Db.Conn.Model(&models.SensorReading{}).
			Where("twin_id = ? AND sensor_id = ? AND timestamp = ?",
				twinID, input.SensorID, input.Timestamp).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			logger.Info("Duplicate reading ignored",
				zap.String("twin_id", twinID),
				zap.String("sensor_id", input.SensorID),
				zap.Time("timestamp", input.Timestamp))
			return nil
		}

		reading := models.SensorReading{
			TwinID:    twinID,
			SensorID:  input.SensorID,
			Parameter: input.Parameter,
			Value:     input.Value,
			Unit:      input.Unit,
			Timestamp: input.Timestamp,
			Mode:      input.Mode,
			RequestID: input.RequestID,
		}
		if reading.Mode == "" {
			reading.Mode = models.ModeBaseline
		}

		if err := withPersistRetry(func() error {
			return e.Db.Conn.Create(&reading).Error
		}); err != nil {
			return err
		}

		// a later reading supersedes current; an out-of-order older one
		// lands in history only
		var current models.CurrentValue
		err = e.Db.Conn.First(&current,
			"twin_id = ? AND sensor_id = ? AND parameter = ?",
			twinID, reading.SensorID, reading.Parameter).Error
		switch {
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		case errors.Is(err, gorm.ErrRecordNotFound) || reading.Timestamp.After(current.Timestamp):
			cv := models.CurrentValue{
				TwinID:    twinID,
				SensorID:  reading.SensorID,
				Parameter: reading.Parameter,
				Value:     reading.Value,
				Unit:      reading.Unit,
				Timestamp: reading.Timestamp,
				Mode:      reading.Mode,
			}
			if err := withPersistRetry(func() error {
				return e.Db.Conn.Clauses(clause.OnConflict{
					Columns: []clause.Column{
						{Name: "twin_id"}, {Name: "sensor_id"}, {Name: "parameter"},
					},
					UpdateAll: true,
				}).Create(&cv).Error
			}); err != nil {
				return err
			}
		}

		if reading.Timestamp.After(record.LastUpdate) {
			record.LastUpdate = reading.Timestamp
			if err := withPersistRetry(func() error {
				return e.Db.Conn.Save(&record).Error
			}); err != nil {
				return err
			}
		}

		logger.Info("Applied reading",
			zap.String("twin_id", twinID),
			zap.Reflect("reading", reading))

		stored = &reading
		return nil
	})
	if err != nil {
		return err
	}

	if stored != nil {
		e.enqueueEvaluation(twinID, stored)
	}
	return nil
}

func (e *Engine) getTwin(twinID string) (*models.Snapshot, error) {
	var record models.Twin
	if err := e.Db.Conn.First(&record, "twin_id = ?", twinID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownTwin
		}
		return nil, err
	}

	snapshot := models.Snapshot{
		TwinID:     record.TwinID,
		DeviceID:   record.DeviceID,
		LastUpdate: record.LastUpdate,
	}

	if err := e.Db.Conn.Where("twin_id = ?", twinID).Find(&snapshot.Sensors).Error; err != nil {
		return nil, err
	}
	if err := e.Db.Conn.Where("twin_id = ?", twinID).Find(&snapshot.Current).Error; err != nil {
		return nil, err
	}

	var health models.HealthRecord
	err := e.Db.Conn.First(&health, "device_id = ?", record.DeviceID).Error
	if err == nil {
		snapshot.Health = &health
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &snapshot, nil
}

func (e *Engine) getHistory(twinID string, parameter string, from, to time.Time) ([]models.SensorReading, error) {
	var count int64
	if err := e.Db.Conn.Model(&models.Twin{}).Where("twin_id = ?", twinID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrUnknownTwin
	}

	query := e.Db.Conn.Where("twin_id = ? AND parameter = ?", twinID, parameter)
	if !from.IsZero() {
		query = query.Where("timestamp >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("timestamp <= ?", to)
	}

	var readings []models.SensorReading
	err := query.Order("timestamp asc").Find(&readings).Error
	return readings, err
}

type ITelemetryImpl struct {
	engine *Engine
}

func (it *ITelemetryImpl) RegisterTwin(twinID string, deviceID string, sensors []models.Sensor) error {
	return it.engine.registerTwin(twinID, deviceID, sensors)
}

func (it *ITelemetryImpl) ApplyReading(twinID string, reading *models.SensorReading) error {
	return it.engine.applyReading(twinID, reading)
}

func (it *ITelemetryImpl) GetTwin(twinID string) (*models.Snapshot, error) {
	return it.engine.getTwin(twinID)
}

func (it *ITelemetryImpl) GetHistory(twinID string, parameter string, from, to time.Time) ([]models.SensorReading, error) {
	return it.engine.getHistory(twinID, parameter, from, to)
}

func (e *Engine) GetITelemetry() ITelemetry {
	return &ITelemetryImpl{engine: e}
}
