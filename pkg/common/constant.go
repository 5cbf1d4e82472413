package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyTwinDBType string = "TWIN_DB_TYPE"
	EnvKeyTwinDbPath string = "TWIN_DB_PATH"

	EnvKeyTwinHttpHostPort string = "TWIN_HTTP_HOST_PORT"

	EnvKeyMqttBroker       string = "TWIN_MQTT_BROKER"
	EnvKeyMqttClientID     string = "TWIN_MQTT_CLIENT_ID"
	EnvKeyTopicTelemetry   string = "TWIN_TOPIC_TELEMETRY"
	EnvKeyTopicOnDemand    string = "TWIN_TOPIC_TELEMETRY_ONDEMAND"
	EnvKeyTopicHealth      string = "TWIN_TOPIC_HEALTH"
	EnvKeyTopicCmdResult   string = "TWIN_TOPIC_COMMAND_RESULT"
	EnvKeyTopicCmdDownlink string = "TWIN_TOPIC_COMMAND_DOWNLINK"

	EnvKeyHeartbeatWindowSec string = "TWIN_HEARTBEAT_WINDOW_SEC"
	EnvKeyCommandDeadlineSec string = "TWIN_COMMAND_DEADLINE_SEC"
	EnvKeyLivenessSweepSec   string = "TWIN_LIVENESS_SWEEP_SEC"
	EnvKeyCommandSweepSec    string = "TWIN_COMMAND_SWEEP_SEC"
	EnvKeyEventQueueCapacity string = "TWIN_EVENT_QUEUE_CAPACITY"

	EnvKeyTwinDefaultRate  string = "TWIN_DEFAULT_RATE"
	EnvKeyTwinDefaultBurst string = "TWIN_DEFAULT_BURST"

	LoggerNameTwinCore      string = "twin_core"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameMqttBridge    string = "mqtt_bridge"
	LoggerFieldTwinCategory string = "category"

	LoggerCategoryTelemetry string = "telemetry"
	LoggerCategoryLiveness  string = "liveness"
	LoggerCategoryAnomaly   string = "anomaly"
	LoggerCategoryCommand   string = "command"
	LoggerCategoryNotify    string = "notify"
	LoggerCategoryDecode    string = "decode"
)
