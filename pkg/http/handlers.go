package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/G-P-x/IoT-project/pkg/common"
	"github.com/G-P-x/IoT-project/pkg/models"
	"github.com/G-P-x/IoT-project/pkg/twin"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

func statusForError(err error) int {
	switch {
	case errors.Is(err, twin.ErrUnknownTwin):
		return http.StatusNotFound
	case errors.Is(err, twin.ErrInvalidTarget):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type SensorSpec struct {
	SensorID  string `json:"sensor_id"`
	Parameter string `json:"parameter"`
	Unit      string `json:"unit"`
}

type RegisterTwinRequest struct {
	DeviceID string       `json:"device_id"`
	Sensors  []SensorSpec `json:"sensors"`
}

func (rs *RestfulServer) RegisterTwin(c *gin.Context) {
	twinID := c.Param("twin_id")

	if !rs.CheckTwinLimiter(twinID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var req RegisterTwinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, s := range req.Sensors {
		if s.SensorID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sensor_id is required"})
			return
		}
	}
	sensors := common.Mapper(req.Sensors, func(s SensorSpec) models.Sensor {
		return models.Sensor{
			SensorID:  s.SensorID,
			Parameter: s.Parameter,
			Unit:      s.Unit,
		}
	})

	if err := rs.Engine.Telemetry.RegisterTwin(twinID, req.DeviceID, sensors); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) GetState(c *gin.Context) {
	twinID := c.Param("twin_id")

	if !rs.CheckTwinLimiter(twinID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	snapshot, err := rs.Engine.Telemetry.GetTwin(twinID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func (rs *RestfulServer) GetHistory(c *gin.Context) {
	twinID := c.Param("twin_id")
	parameter := c.Param("parameter")

	if !rs.CheckTwinLimiter(twinID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var from, to time.Time
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad from timestamp"})
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad to timestamp"})
			return
		}
		to = parsed
	}

	readings, err := rs.Engine.Telemetry.GetHistory(twinID, parameter, from, to)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, readings)
}

type RuleRequest struct {
	Parameter     string  `json:"parameter"`
	RangeEnabled  bool    `json:"range_enabled"`
	MinValue      float64 `json:"min_value"`
	MaxValue      float64 `json:"max_value"`
	RateEnabled   bool    `json:"rate_enabled"`
	MaxRatePerSec float64 `json:"max_rate_per_sec"`
}

var ruleRequestSchema = z.Struct(z.Shape{
	"Parameter":     z.String().Required(),
	"RangeEnabled":  z.Bool(),
	"MinValue":      z.Float64(),
	"MaxValue":      z.Float64(),
	"RateEnabled":   z.Bool(),
	"MaxRatePerSec": z.Float64(),
})

func (rs *RestfulServer) UpsertRule(c *gin.Context) {
	twinID := c.Param("twin_id")

	if !rs.CheckTwinLimiter(twinID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var req RuleRequest
	if err := ruleRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rule := models.AnomalyRule{
		Parameter:     req.Parameter,
		RangeEnabled:  req.RangeEnabled,
		MinValue:      req.MinValue,
		MaxValue:      req.MaxValue,
		RateEnabled:   req.RateEnabled,
		MaxRatePerSec: req.MaxRatePerSec,
	}

	if err := rs.Engine.Anomaly.UpsertRule(twinID, &rule); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) ListAnomalies(c *gin.Context) {
	twinID := c.Param("twin_id")

	if !rs.CheckTwinLimiter(twinID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var ackFilter *bool
	if raw := c.Query("acknowledged"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad acknowledged filter"})
			return
		}
		ackFilter = &parsed
	}

	anomalies, err := rs.Engine.Anomaly.ListAnomalies(twinID, ackFilter)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, anomalies)
}

func (rs *RestfulServer) AcknowledgeAnomaly(c *gin.Context) {
	twinID := c.Param("twin_id")

	anomalyID, err := strconv.ParseUint(c.Param("anomaly_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad anomaly id"})
		return
	}

	if err := rs.Engine.Anomaly.AcknowledgeAnomaly(twinID, uint(anomalyID)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) GetHealth(c *gin.Context) {
	twinID := c.Param("twin_id")

	if !rs.CheckTwinLimiter(twinID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	snapshot, err := rs.Engine.Telemetry.GetTwin(twinID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	transitions, err := rs.Engine.Health.GetTransitions(snapshot.DeviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"health":      snapshot.Health,
		"transitions": transitions,
	})
}

type CommandRequest struct {
	SensorID    string `json:"sensor_id"`
	CommandType string `json:"command_type"`
	IssuedBy    string `json:"issued_by"`
}

var commandRequestSchema = z.Struct(z.Shape{
	"SensorID":    z.String(),
	"CommandType": z.String().Required(),
	"IssuedBy":    z.String().Required(),
})

func (rs *RestfulServer) SubmitCommand(c *gin.Context) {
	twinID := c.Param("twin_id")

	if !rs.CheckTwinLimiter(twinID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var req CommandRequest
	if err := commandRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	target := models.Target{TwinID: twinID, SensorID: req.SensorID}
	commandID, err := rs.Engine.Command.Submit(target, req.CommandType, req.IssuedBy)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"command_id": commandID,
		"status":     models.CommandDispatched,
	})
}

func (rs *RestfulServer) ListCommands(c *gin.Context) {
	twinID := c.Param("twin_id")

	if !rs.CheckTwinLimiter(twinID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	commands, err := rs.Engine.Command.ListCommands(twinID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, commands)
}

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().Required(),
	"burst": z.Int().Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	twinID := c.Param("twin_id")

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.SetLimiter(twinID, req.Rate, req.Burst)

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
