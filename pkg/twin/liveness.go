package twin

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"github.com/G-P-x/IoT-project/pkg/common"
	"github.com/G-P-x/IoT-project/pkg/models"
)

func livenessLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameTwinCore,
		zap.String(common.LoggerFieldTwinCategory, common.LoggerCategoryLiveness),
	)
}

// transitionHealth moves a device to a new state, appends the transition to
// history and emits HealthChanged. Transitions to or from OFFLINE are
// alarm-worthy. Callers hold the device lock.
func (e *Engine) transitionHealth(record *models.HealthRecord, to models.HealthState, ts time.Time) error {
	from := record.State
	if from == to {
		return nil
	}

	record.State = to
	if err := e.Db.Conn.Save(record).Error; err != nil {
		return err
	}

	transition := models.HealthTransition{
		DeviceID:  record.DeviceID,
		FromState: from,
		ToState:   to,
		Timestamp: ts,
	}
	if err := e.Db.Conn.Create(&transition).Error; err != nil {
		return err
	}

	livenessLogger().Info("Health state changed",
		zap.String("device_id", record.DeviceID),
		zap.String("from", string(from)),
		zap.String("to", string(to)))

	if e.Notifier != nil {
		e.Notifier.Publish(Notification{
			Kind:      NotifyHealthChanged,
			DeviceID:  record.DeviceID,
			OldState:  string(from),
			NewState:  string(to),
			Alarm:     from == models.HealthOffline || to == models.HealthOffline,
			Timestamp: ts,
		})
	}
	return nil
}

func (e *Engine) loadOrCreateHealth(deviceID string) (*models.HealthRecord, error) {
	var record models.HealthRecord
	err := e.Db.Conn.First(&record, "device_id = ?", deviceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record = models.HealthRecord{DeviceID: deviceID, State: models.HealthUnknown}
		if err := e.Db.Conn.Create(&record).Error; err != nil {
			return nil, err
		}
		return &record, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (e *Engine) onHeartbeat(deviceID string, ts time.Time) error {
	return e.locks.withLock(deviceID, func() error {
		record, err := e.loadOrCreateHealth(deviceID)
		if err != nil {
			return err
		}

		if ts.After(record.LastHeartbeat) {
			record.LastHeartbeat = ts
			if err := e.Db.Conn.Save(record).Error; err != nil {
				return err
			}
		}

		switch record.State {
		case models.HealthUnknown:
			return e.transitionHealth(record, models.HealthSilent, ts)
		case models.HealthSuspected, models.HealthOffline:
			// recovery is recorded as its own transition, then the device
			// settles back into SILENT as the new baseline
			if err := e.transitionHealth(record, models.HealthRecovered, ts); err != nil {
				return err
			}
			return e.transitionHealth(record, models.HealthSilent, ts)
		case models.HealthRecovered:
			return e.transitionHealth(record, models.HealthSilent, ts)
		default:
			return nil
		}
	})
}

// onHealthEvent applies an edge-reported state. The edge has lower-latency
// local knowledge, so its report preempts the timeout-based inference.
func (e *Engine) onHealthEvent(deviceID string, reported models.HealthState, ts time.Time) error {
	// a SILENT report is a heartbeat, route it through the heartbeat
	// logic so an OFFLINE device still walks RECOVERED on the way back
	if reported == models.HealthSilent {
		return e.onHeartbeat(deviceID, ts)
	}

	switch reported {
	case models.HealthSuspected, models.HealthOffline:
	default:
		return fmt.Errorf("edge cannot report state %q", reported)
	}

	return e.locks.withLock(deviceID, func() error {
		record, err := e.loadOrCreateHealth(deviceID)
		if err != nil {
			return err
		}
		return e.transitionHealth(record, reported, ts)
	})
}

// sweepLiveness applies the timeout half of the state machine: silent past
// the window becomes SUSPECTED, suspected past twice the window becomes
// OFFLINE. A delayed sweep still walks through SUSPECTED, never skipping it.
// Re-sweeping an already moved record is a no-op.
func (e *Engine) sweepLiveness(now time.Time) error {
	var records []models.HealthRecord
	err := e.Db.Conn.
		Where("state IN ?", []models.HealthState{models.HealthSilent, models.HealthSuspected}).
		Find(&records).Error
	if err != nil {
		return err
	}

	for i := range records {
		deviceID := records[i].DeviceID
		err := e.locks.withLock(deviceID, func() error {
			record, err := e.loadOrCreateHealth(deviceID)
			if err != nil {
				return err
			}

			window := e.HeartbeatWindow
			if record.WindowSeconds > 0 {
				window = time.Duration(record.WindowSeconds) * time.Second
			}
			if window <= 0 || record.LastHeartbeat.IsZero() {
				return nil
			}

			elapsed := now.Sub(record.LastHeartbeat)

			if record.State == models.HealthSilent && elapsed > window {
				if err := e.transitionHealth(record, models.HealthSuspected, now); err != nil {
					return err
				}
			}
			if record.State == models.HealthSuspected && elapsed > 2*window {
				if err := e.transitionHealth(record, models.HealthOffline, now); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			// one bad device must not stop the sweep for the others
			livenessLogger().Warn("Liveness sweep failed for device",
				zap.String("device_id", deviceID), zap.Error(err))
		}
	}
	return nil
}

func (e *Engine) getHealth(deviceID string) (*models.HealthRecord, error) {
	var record models.HealthRecord
	err := e.Db.Conn.First(&record, "device_id = ?", deviceID).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (e *Engine) getTransitions(deviceID string) ([]models.HealthTransition, error) {
	var transitions []models.HealthTransition
	err := e.Db.Conn.
		Where("device_id = ?", deviceID).
		Order("timestamp asc, id asc").
		Find(&transitions).Error
	return transitions, err
}

type IHealthImpl struct {
	engine *Engine
}

func (ih *IHealthImpl) OnHeartbeat(deviceID string, ts time.Time) error {
	return ih.engine.onHeartbeat(deviceID, ts)
}

func (ih *IHealthImpl) OnHealthEvent(deviceID string, reported models.HealthState, ts time.Time) error {
	return ih.engine.onHealthEvent(deviceID, reported, ts)
}

func (ih *IHealthImpl) SweepLiveness(now time.Time) error {
	return ih.engine.sweepLiveness(now)
}

func (ih *IHealthImpl) GetHealth(deviceID string) (*models.HealthRecord, error) {
	return ih.engine.getHealth(deviceID)
}

func (ih *IHealthImpl) GetTransitions(deviceID string) ([]models.HealthTransition, error) {
	return ih.engine.getTransitions(deviceID)
}

func (e *Engine) GetIHealth() IHealth {
	return &IHealthImpl{engine: e}
}
