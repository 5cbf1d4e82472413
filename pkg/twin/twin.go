package twin

import (
	"time"

	"github.com/G-P-x/IoT-project/pkg/db"
	"github.com/G-P-x/IoT-project/pkg/models"
)

type ITelemetry interface {
	RegisterTwin(twinID string, deviceID string, sensors []models.Sensor) error
	ApplyReading(twinID string, reading *models.SensorReading) error
	GetTwin(twinID string) (*models.Snapshot, error)
	GetHistory(twinID string, parameter string, from, to time.Time) ([]models.SensorReading, error)
}

type IHealth interface {
	OnHeartbeat(deviceID string, ts time.Time) error
	OnHealthEvent(deviceID string, reported models.HealthState, ts time.Time) error
	SweepLiveness(now time.Time) error
	GetHealth(deviceID string) (*models.HealthRecord, error)
	GetTransitions(deviceID string) ([]models.HealthTransition, error)
}

type IAnomaly interface {
	UpsertRule(twinID string, input *models.AnomalyRule) error
	Evaluate(twinID string, reading *models.SensorReading) error
	ListAnomalies(twinID string, acknowledged *bool) ([]models.AnomalyRecord, error)
	AcknowledgeAnomaly(twinID string, anomalyID uint) error
}

type ICommand interface {
	Submit(target models.Target, commandType string, issuer string) (string, error)
	OnAcknowledged(commandID string, ts time.Time) error
	OnResult(commandID string, outcome models.CommandOutcome, payload string, ts time.Time) error
	SweepTimeouts(now time.Time) error
	GetCommand(commandID string) (*models.CommandRecord, error)
	ListCommands(twinID string) ([]models.CommandRecord, error)
}

// Dispatcher is the downlink collaborator towards the edge gateway.
// Delivery is fire-and-forget; retries belong to the transport, not here.
type Dispatcher interface {
	DispatchCommand(commandID string, target models.Target, commandType string, params map[string]string) error
}

// Engine holds the authoritative state services of all digital twins.
// HeartbeatWindow is T_hb (per-device override on HealthRecord), and
// CommandDeadline is T_cmd. Both come from configuration, never constants.
type Engine struct {
	Db         db.DB
	Notifier   *Hub
	Dispatcher Dispatcher

	HeartbeatWindow time.Duration
	CommandDeadline time.Duration

	Telemetry ITelemetry
	Health    IHealth
	Anomaly   IAnomaly
	Command   ICommand

	locks keyLocks
	queue *evalQueue
}

type ServiceOpts struct {
	Telemetry ITelemetry
	Health    IHealth
	Anomaly   IAnomaly
	Command   ICommand
}

func (e *Engine) WithServices(opts ServiceOpts) *Engine {
	if opts.Telemetry != nil {
		e.Telemetry = opts.Telemetry
	}
	if opts.Health != nil {
		e.Health = opts.Health
	}
	if opts.Anomaly != nil {
		e.Anomaly = opts.Anomaly
	}
	if opts.Command != nil {
		e.Command = opts.Command
	}
	return e
}
