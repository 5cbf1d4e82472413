package twin

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"github.com/G-P-x/IoT-project/pkg/common"
	"github.com/G-P-x/IoT-project/pkg/models"
)

func commandLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameTwinCore,
		zap.String(common.LoggerFieldTwinCategory, common.LoggerCategoryCommand),
	)
}

func (e *Engine) publishCommand(kind NotificationKind, record *models.CommandRecord, ts time.Time) {
	if e.Notifier == nil {
		return
	}
	e.Notifier.Publish(Notification{
		Kind:      kind,
		TwinID:    record.TwinID,
		CommandID: record.CommandID,
		NewState:  string(record.Status),
		Alarm:     record.Status == models.CommandTimedOut || record.Status == models.CommandFailed,
		Timestamp: ts,
	})
}

// submit validates the target, creates the record, hands off to the
// downlink and returns the generated command id. Command ids are never
// reused, which makes retried edge results safe to deduplicate.
func (e *Engine) submit(target models.Target, commandType string, issuer string) (string, error) {
	logger := commandLogger()

	var record models.Twin
	if err := e.Db.Conn.First(&record, "twin_id = ?", target.TwinID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidTarget
		}
		return "", err
	}

	if target.SensorID != "" {
		var count int64
		err := e.Db.Conn.Model(&models.Sensor{}).
			Where("twin_id = ? AND sensor_id = ?", target.TwinID, target.SensorID).
			Count(&count).Error
		if err != nil {
			return "", err
		}
		if count == 0 {
			return "", fmt.Errorf("%w: twin %q has no sensor %q", ErrInvalidTarget, target.TwinID, target.SensorID)
		}
	}

	commandID := uuid.NewString()
	now := time.Now()

	command := models.CommandRecord{
		CommandID:   commandID,
		TwinID:      target.TwinID,
		SensorID:    target.SensorID,
		CommandType: commandType,
		IssuerID:    issuer,
		Status:      models.CommandRequested,
		RequestedAt: now,
	}
	if err := e.Db.Conn.Create(&command).Error; err != nil {
		return "", err
	}

	logger.Info("Command requested",
		zap.String("command_id", commandID),
		zap.String("twin_id", target.TwinID),
		zap.String("command_type", commandType),
		zap.String("issuer", issuer))

	// fire-and-forget: the transport collaborator owns delivery retries,
	// only the timeout sweep renders an unanswered command terminal
	if e.Dispatcher != nil {
		if err := e.Dispatcher.DispatchCommand(commandID, target, commandType, nil); err != nil {
			logger.Warn("Downlink dispatch failed, transport will retry",
				zap.String("command_id", commandID), zap.Error(err))
		}
	}

	// the edge may acknowledge or even complete before this goroutine
	// resumes, so re-read under the command lock and only promote a
	// record that is still REQUESTED; a fast result is never rewound
	err := e.locks.withLock(commandID, func() error {
		var current models.CommandRecord
		if err := e.Db.Conn.First(&current, "command_id = ?", commandID).Error; err != nil {
			return err
		}
		if current.Status != models.CommandRequested {
			return nil
		}

		dispatchedAt := time.Now()
		current.Status = models.CommandDispatched
		current.DispatchedAt = &dispatchedAt
		if err := e.Db.Conn.Save(&current).Error; err != nil {
			return err
		}

		e.publishCommand(NotifyCommandUpdated, &current, dispatchedAt)
		return nil
	})
	if err != nil {
		return "", err
	}

	return commandID, nil
}

func (e *Engine) onAcknowledged(commandID string, ts time.Time) error {
	logger := commandLogger()

	return e.locks.withLock(commandID, func() error {
		var command models.CommandRecord
		if err := e.Db.Conn.First(&command, "command_id = ?", commandID).Error; err != nil {
			return err
		}

		if command.Status.Terminal() || command.Status == models.CommandAcknowledged {
			logger.Warn("Ignoring acknowledgement for command not awaiting one",
				zap.String("command_id", commandID),
				zap.String("status", string(command.Status)))
			return nil
		}

		command.Status = models.CommandAcknowledged
		command.AcknowledgedAt = &ts
		if err := e.Db.Conn.Save(&command).Error; err != nil {
			return err
		}

		logger.Info("Command acknowledged", zap.String("command_id", commandID))
		e.publishCommand(NotifyCommandUpdated, &command, ts)
		return nil
	})
}

func (e *Engine) onResult(commandID string, outcome models.CommandOutcome, payload string, ts time.Time) error {
	logger := commandLogger()

	if outcome == models.OutcomeAck {
		return e.onAcknowledged(commandID, ts)
	}

	return e.locks.withLock(commandID, func() error {
		var command models.CommandRecord
		if err := e.Db.Conn.First(&command, "command_id = ?", commandID).Error; err != nil {
			return err
		}

		if command.Status.Terminal() {
			logger.Warn("Ignoring duplicate result for terminal command",
				zap.String("command_id", commandID),
				zap.String("status", string(command.Status)))
			return nil
		}

		switch outcome {
		case models.OutcomeCompleted:
			command.Status = models.CommandCompleted
		case models.OutcomeFailed:
			command.Status = models.CommandFailed
		default:
			return fmt.Errorf("unknown command outcome %q", outcome)
		}
		command.CompletedAt = &ts
		command.ResultPayload = payload

		if err := e.Db.Conn.Save(&command).Error; err != nil {
			return err
		}

		logger.Info("Command finished",
			zap.String("command_id", commandID),
			zap.String("status", string(command.Status)))
		e.publishCommand(NotifyCommandUpdated, &command, ts)
		return nil
	})
}

// sweepTimeouts moves commands that have waited past T_cmd to TIMED_OUT.
// Re-evaluating an already terminal record is a no-op, so a delayed or
// repeated sweep is harmless.
func (e *Engine) sweepTimeouts(now time.Time) error {
	logger := commandLogger()

	if e.CommandDeadline <= 0 {
		return nil
	}

	var commands []models.CommandRecord
	err := e.Db.Conn.
		Where("status IN ?", []models.CommandStatus{models.CommandDispatched, models.CommandAcknowledged}).
		Find(&commands).Error
	if err != nil {
		return err
	}

	for i := range commands {
		commandID := commands[i].CommandID
		err := e.locks.withLock(commandID, func() error {
			var command models.CommandRecord
			if err := e.Db.Conn.First(&command, "command_id = ?", commandID).Error; err != nil {
				return err
			}
			if command.Status.Terminal() {
				return nil
			}

			lastTransition := command.RequestedAt
			if command.DispatchedAt != nil {
				lastTransition = *command.DispatchedAt
			}
			if command.AcknowledgedAt != nil {
				lastTransition = *command.AcknowledgedAt
			}
			if now.Sub(lastTransition) <= e.CommandDeadline {
				return nil
			}

			command.Status = models.CommandTimedOut
			command.CompletedAt = &now
			if err := e.Db.Conn.Save(&command).Error; err != nil {
				return err
			}

			logger.Warn("Command timed out",
				zap.String("command_id", commandID),
				zap.String("twin_id", command.TwinID))
			e.publishCommand(NotifyCommandTimedOut, &command, now)
			return nil
		})
		if err != nil {
			logger.Warn("Timeout sweep failed for command",
				zap.String("command_id", commandID), zap.Error(err))
		}
	}
	return nil
}

func (e *Engine) getCommand(commandID string) (*models.CommandRecord, error) {
	var command models.CommandRecord
	err := e.Db.Conn.First(&command, "command_id = ?", commandID).Error
	if err != nil {
		return nil, err
	}
	return &command, nil
}

func (e *Engine) listCommands(twinID string) ([]models.CommandRecord, error) {
	var commands []models.CommandRecord
	err := e.Db.Conn.
		Where("twin_id = ?", twinID).
		Order("requested_at desc").
		Find(&commands).Error
	return commands, err
}

type ICommandImpl struct {
	engine *Engine
}

func (ic *ICommandImpl) Submit(target models.Target, commandType string, issuer string) (string, error) {
	return ic.engine.submit(target, commandType, issuer)
}

func (ic *ICommandImpl) OnAcknowledged(commandID string, ts time.Time) error {
	return ic.engine.onAcknowledged(commandID, ts)
}

func (ic *ICommandImpl) OnResult(commandID string, outcome models.CommandOutcome, payload string, ts time.Time) error {
	return ic.engine.onResult(commandID, outcome, payload, ts)
}

func (ic *ICommandImpl) SweepTimeouts(now time.Time) error {
	return ic.engine.sweepTimeouts(now)
}

func (ic *ICommandImpl) GetCommand(commandID string) (*models.CommandRecord, error) {
	return ic.engine.getCommand(commandID)
}

func (ic *ICommandImpl) ListCommands(twinID string) ([]models.CommandRecord, error) {
	return ic.engine.listCommands(twinID)
}

func (e *Engine) GetICommand() ICommand {
	return &ICommandImpl{engine: e}
}
