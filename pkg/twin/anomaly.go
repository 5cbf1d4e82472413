package twin

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"github.com/G-P-x/IoT-project/pkg/common"
	"github.com/G-P-x/IoT-project/pkg/models"
)

// severityTierFactor splits WARNING from CRITICAL: an excursion within
// 1.5x of the violated bound stays a warning, beyond it is critical.
const severityTierFactor = 1.5

func anomalyLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameTwinCore,
		zap.String(common.LoggerFieldTwinCategory, common.LoggerCategoryAnomaly),
	)
}

func severityForBound(observed, bound float64) models.Severity {
	if bound != 0 && math.Abs(observed) <= severityTierFactor*math.Abs(bound) {
		return models.SeverityWarning
	}
	return models.SeverityCritical
}

func (e *Engine) upsertRule(twinID string, input *models.AnomalyRule) error {
	logger := anomalyLogger()

	rule := models.AnomalyRule{
		TwinID:        twinID,
		Parameter:     input.Parameter,
		RangeEnabled:  input.RangeEnabled,
		MinValue:      input.MinValue,
		MaxValue:      input.MaxValue,
		RateEnabled:   input.RateEnabled,
		MaxRatePerSec: input.MaxRatePerSec,
	}

	logger.Info("Received rule for twin", zap.Reflect("rule", rule))

	err := e.Db.Conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "twin_id"}, {Name: "parameter"}},
		UpdateAll: true,
	}).Create(&rule).Error

	if err == nil {
		logger.Info("Upserted rule for twin", zap.Reflect("rule", rule))
	}

	return err
}

// evaluate checks one stored reading against the configured rule for its
// parameter. No rule means no anomaly is possible, which is not an error.
func (e *Engine) evaluate(twinID string, reading *models.SensorReading) error {
	var rule models.AnomalyRule
	err := e.Db.Conn.First(&rule, "twin_id = ? AND parameter = ?", twinID, reading.Parameter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if rule.RangeEnabled {
		if reading.Value > rule.MaxValue {
			severity := severityForBound(reading.Value, rule.MaxValue)
			msg := fmt.Sprintf("Value %.2f above bound %.2f", reading.Value, rule.MaxValue)
			if err := e.raiseAnomaly(twinID, reading, "range", severity, msg); err != nil {
				return err
			}
		} else if reading.Value < rule.MinValue {
			severity := severityForBound(reading.Value, rule.MinValue)
			msg := fmt.Sprintf("Value %.2f below bound %.2f", reading.Value, rule.MinValue)
			if err := e.raiseAnomaly(twinID, reading, "range", severity, msg); err != nil {
				return err
			}
		}
	}

	if rule.RateEnabled && rule.MaxRatePerSec > 0 {
		// compare against the latest earlier reading of the same sensor
		var previous models.SensorReading
		err := e.Db.Conn.
			Where("twin_id = ? AND sensor_id = ? AND parameter = ? AND timestamp < ?",
				twinID, reading.SensorID, reading.Parameter, reading.Timestamp).
			Order("timestamp desc").
			First(&previous).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil {
			seconds := reading.Timestamp.Sub(previous.Timestamp).Seconds()
			if seconds > 0 {
				observedRate := math.Abs(reading.Value-previous.Value) / seconds
				if observedRate > rule.MaxRatePerSec {
					severity := severityForBound(observedRate, rule.MaxRatePerSec)
					msg := fmt.Sprintf("Rate %.2f/s above bound %.2f/s", observedRate, rule.MaxRatePerSec)
					if err := e.raiseAnomaly(twinID, reading, "rate", severity, msg); err != nil {
						return err
					}
				}
			}
		}
	}

	return nil
}

func (e *Engine) raiseAnomaly(twinID string, reading *models.SensorReading, violated string, severity models.Severity, msg string) error {
	logger := anomalyLogger()

	anomaly := models.AnomalyRecord{
		TwinID:    twinID,
		SensorID:  reading.SensorID,
		Parameter: reading.Parameter,
		Value:     reading.Value,
		Rule:      violated,
		Severity:  severity,
		Timestamp: reading.Timestamp,
	}

	logger.Info("Anomaly found", zap.Reflect("anomaly", anomaly))

	if err := e.Db.Conn.Create(&anomaly).Error; err != nil {
		return err
	}

	logger.Info("Anomaly saved", zap.Reflect("anomaly", anomaly))

	if e.Notifier != nil {
		e.Notifier.Publish(Notification{
			Kind:      NotifyAnomalyRaised,
			TwinID:    twinID,
			Severity:  severity,
			Alarm:     severity == models.SeverityCritical,
			Message:   msg,
			Timestamp: reading.Timestamp,
		})
	}
	return nil
}

func (e *Engine) listAnomalies(twinID string, acknowledged *bool) ([]models.AnomalyRecord, error) {
	query := e.Db.Conn.Where("twin_id = ?", twinID)
	if acknowledged != nil {
		query = query.Where("acknowledged = ?", *acknowledged)
	}

	var anomalies []models.AnomalyRecord
	err := query.Order("timestamp desc").Find(&anomalies).Error
	return anomalies, err
}

func (e *Engine) acknowledgeAnomaly(twinID string, anomalyID uint) error {
	result := e.Db.Conn.Model(&models.AnomalyRecord{}).
		Where("id = ? AND twin_id = ?", anomalyID, twinID).
		Update("acknowledged", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type IAnomalyImpl struct {
	engine *Engine
}

func (ia *IAnomalyImpl) UpsertRule(twinID string, input *models.AnomalyRule) error {
	return ia.engine.upsertRule(twinID, input)
}

func (ia *IAnomalyImpl) Evaluate(twinID string, reading *models.SensorReading) error {
	return ia.engine.evaluate(twinID, reading)
}

func (ia *IAnomalyImpl) ListAnomalies(twinID string, acknowledged *bool) ([]models.AnomalyRecord, error) {
	return ia.engine.listAnomalies(twinID, acknowledged)
}

func (ia *IAnomalyImpl) AcknowledgeAnomaly(twinID string, anomalyID uint) error {
	return ia.engine.acknowledgeAnomaly(twinID, anomalyID)
}

func (e *Engine) GetIAnomaly() IAnomaly {
	return &IAnomalyImpl{engine: e}
}
