package models

import "time"

type HealthState string

const (
	HealthUnknown   HealthState = "UNKNOWN"
	HealthSilent    HealthState = "SILENT"
	HealthSuspected HealthState = "SUSPECTED"
	HealthOffline   HealthState = "OFFLINE"
	HealthRecovered HealthState = "RECOVERED"
)

type CommandStatus string

const (
	CommandRequested    CommandStatus = "REQUESTED"
	CommandDispatched   CommandStatus = "DISPATCHED"
	CommandAcknowledged CommandStatus = "ACKNOWLEDGED"
	CommandCompleted    CommandStatus = "COMPLETED"
	CommandFailed       CommandStatus = "FAILED"
	CommandTimedOut     CommandStatus = "TIMED_OUT"
)

// Terminal reports whether no further status transition is accepted.
func (s CommandStatus) Terminal() bool {
	return s == CommandCompleted || s == CommandFailed || s == CommandTimedOut
}

type CommandOutcome string

const (
	OutcomeAck       CommandOutcome = "ACK"
	OutcomeCompleted CommandOutcome = "COMPLETED"
	OutcomeFailed    CommandOutcome = "FAILED"
)

type Severity string

const (
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

type AcquisitionMode string

const (
	ModeBaseline AcquisitionMode = "baseline"
	ModeOnDemand AcquisitionMode = "on-demand"
)

// Target addresses a command at a twin, optionally narrowed to one sensor.
type Target struct {
	TwinID   string `json:"twin_id"`
	SensorID string `json:"sensor_id,omitempty"`
}

// Snapshot is a read-only copy of a twin's authoritative state.
type Snapshot struct {
	TwinID     string         `json:"twin_id"`
	DeviceID   string         `json:"device_id"`
	LastUpdate time.Time      `json:"last_update"`
	Sensors    []Sensor       `json:"sensors"`
	Current    []CurrentValue `json:"current"`
	Health     *HealthRecord  `json:"health,omitempty"`
}

// Twin is the authoritative record of one monitored site, e.g. "etna_01".
// DeviceID names the edge gateway whose heartbeats speak for this twin.
type Twin struct {
	TwinID     string `gorm:"primaryKey"`
	DeviceID   string `gorm:"index"`
	LastUpdate time.Time

	Sensors   []Sensor        `gorm:"foreignKey:TwinID;references:TwinID"`
	Current   []CurrentValue  `gorm:"foreignKey:TwinID;references:TwinID"`
	Readings  []SensorReading `gorm:"foreignKey:TwinID;references:TwinID"`
	Anomalies []AnomalyRecord `gorm:"foreignKey:TwinID;references:TwinID"`
	Commands  []CommandRecord `gorm:"foreignKey:TwinID;references:TwinID"`
}

type Sensor struct {
	ID        uint   `gorm:"primaryKey"`
	TwinID    string `gorm:"uniqueIndex:idx_twin_sensor"`
	SensorID  string `gorm:"uniqueIndex:idx_twin_sensor"`
	Parameter string
	Unit      string
}

// SensorReading is an immutable history row. The composite unique index is
// the dedup key for duplicate deliveries from the edge.
type SensorReading struct {
	ID        uint   `gorm:"primaryKey"`
	TwinID    string `gorm:"uniqueIndex:idx_reading_dedup;index"`
	SensorID  string `gorm:"uniqueIndex:idx_reading_dedup"`
	Parameter string `gorm:"index"`
	Value     float64
	Unit      string
	Timestamp time.Time       `gorm:"uniqueIndex:idx_reading_dedup"`
	Mode      AcquisitionMode `gorm:"type:varchar(10);check:mode IN ('baseline','on-demand')"`
	RequestID string
}

// CurrentValue holds the latest reading per twin+sensor+parameter.
type CurrentValue struct {
	ID        uint   `gorm:"primaryKey"`
	TwinID    string `gorm:"uniqueIndex:idx_current_key"`
	SensorID  string `gorm:"uniqueIndex:idx_current_key"`
	Parameter string `gorm:"uniqueIndex:idx_current_key"`
	Value     float64
	Unit      string
	Timestamp time.Time
	Mode      AcquisitionMode
}

// HealthRecord is the liveness state of one edge gateway. WindowSeconds
// overrides the engine-wide heartbeat window when non-zero.
type HealthRecord struct {
	DeviceID      string      `gorm:"primaryKey"`
	State         HealthState `gorm:"type:varchar(10);check:state IN ('UNKNOWN','SILENT','SUSPECTED','OFFLINE','RECOVERED')"`
	LastHeartbeat time.Time
	WindowSeconds int
}

type HealthTransition struct {
	ID        uint        `gorm:"primaryKey"`
	DeviceID  string      `gorm:"index"`
	FromState HealthState `gorm:"type:varchar(10)"`
	ToState   HealthState `gorm:"type:varchar(10)"`
	Timestamp time.Time
}

// AnomalyRule configures detection for one twin+parameter. A missing rule
// means no anomaly is possible for that parameter.
type AnomalyRule struct {
	ID            uint   `gorm:"primaryKey"`
	TwinID        string `gorm:"uniqueIndex:idx_rule_key"`
	Parameter     string `gorm:"uniqueIndex:idx_rule_key"`
	RangeEnabled  bool
	MinValue      float64
	MaxValue      float64
	RateEnabled   bool
	MaxRatePerSec float64
}

type AnomalyRecord struct {
	ID           uint   `gorm:"primaryKey"`
	TwinID       string `gorm:"index"`
	SensorID     string
	Parameter    string
	Value        float64
	Rule         string
	Severity     Severity `gorm:"type:varchar(10);check:severity IN ('WARNING','CRITICAL')"`
	Timestamp    time.Time
	Acknowledged bool
}

type CommandRecord struct {
	CommandID   string `gorm:"primaryKey"`
	TwinID      string `gorm:"index"`
	SensorID    string
	CommandType string
	IssuerID    string
	Status      CommandStatus `gorm:"type:varchar(12);check:status IN ('REQUESTED','DISPATCHED','ACKNOWLEDGED','COMPLETED','FAILED','TIMED_OUT')"`

	RequestedAt    time.Time
	DispatchedAt   *time.Time
	AcknowledgedAt *time.Time
	CompletedAt    *time.Time

	ResultPayload string
}
