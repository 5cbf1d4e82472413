package twin

import (
	"bufio"
	"encoding/json"
	"io"
	"testing"

	"go.uber.org/mock/gomock"
	"github.com/G-P-x/IoT-project/pkg/db"
	"github.com/G-P-x/IoT-project/pkg/twin/mocks"
)

func GetMockEngineWithMemorySqliteDialector(t *testing.T, useMockTelemetry, useMockHealth, useMockAnomaly, useMockCommand bool) (
	*gomock.Controller,
	*Engine,
	*mocks.MockITelemetry,
	*mocks.MockIHealth,
	*mocks.MockIAnomaly,
	*mocks.MockICommand,
) {
	ctrl := gomock.NewController(t)

	mockTelemetry := mocks.NewMockITelemetry(ctrl)
	mockHealth := mocks.NewMockIHealth(ctrl)
	mockAnomaly := mocks.NewMockIAnomaly(ctrl)
	mockCommand := mocks.NewMockICommand(ctrl)
	dialector := db.UseMemorySqliteDialector()
	dbInstance := db.GetInstance(dialector) // ensure migrations
	engine := &Engine{Db: *dbInstance, Notifier: NewHub()}

	telemetryService := engine.GetITelemetry()
	if useMockTelemetry {
		telemetryService = mockTelemetry
	}

	healthService := engine.GetIHealth()
	if useMockHealth {
		healthService = mockHealth
	}

	anomalyService := engine.GetIAnomaly()
	if useMockAnomaly {
		anomalyService = mockAnomaly
	}

	commandService := engine.GetICommand()
	if useMockCommand {
		commandService = mockCommand
	}

	engine.WithServices(ServiceOpts{
		Telemetry: telemetryService,
		Health:    healthService,
		Anomaly:   anomalyService,
		Command:   commandService,
	})

	return ctrl, engine, mockTelemetry, mockHealth, mockAnomaly, mockCommand
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
