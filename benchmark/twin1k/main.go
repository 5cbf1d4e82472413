package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

var maxTwins int = 1000
var httpHostPort string = "127.0.0.1:1080"
var mqttBroker string = "tcp://127.0.0.1:1883"
var telemetryTopic string = "fleet/telemetry"

var mqttClient mqtt.Client

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

func main() {
	twinIDs := make([]string, maxTwins)
	for i := range maxTwins {
		twinIDs[i] = uuid.NewString()
	}
	fmt.Printf("generated %v twin IDs\n", maxTwins)

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	opts := mqtt.NewClientOptions().
		AddBroker(mqttBroker).
		SetClientID("twin1k-benchmark")
	mqttClient = mqtt.NewClient(opts)
	if token := mqttClient.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal("Failed to connect to MQTT broker:", token.Error())
	}
	defer mqttClient.Disconnect(250)

	fmt.Printf("mqtt broker verified and connected\n")

	var startTime time.Time
	var usedTime time.Duration

	startTime = time.Now()
	wg := sync.WaitGroup{}
	for i := range maxTwins {
		wg.Add(1)
		go func() {
			registerTwin(twinIDs[i])
			upsertRule(twinIDs[i])
			fmt.Printf("\rregistered twin %v", i)
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\rregistered %v twins: used time=%v seconds, throughput=%v action/second\n",
		maxTwins, usedTime.Seconds(), float64(maxTwins*2)/usedTime.Seconds(),
	)

	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := range maxTwins {
		wg.Add(1)
		go func() {
			doAction(twinIDs[i])
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\n\rdid actions for %v twins: used time=%v seconds, throughput=%v action/second\n",
		maxTwins, usedTime.Seconds(), float64(maxTwins*4)/usedTime.Seconds(),
	)
}

func rndFloat64(min, max float64, decimal int) float64 {
	val := min + rnd.Float64()*(max-min)
	multiplier := float64(math.Pow10(decimal))
	return float64(math.Round(float64(val)*float64(multiplier))) / multiplier
}

func postJSON(path string, payload any) {
	jsonData, _ := json.Marshal(payload)
	resp, err := http.Post(fmt.Sprintf("http://%s%s", httpHostPort, path), "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()
}

func registerTwin(twinID string) {
	postJSON("/twins/"+twinID+"/register", map[string]any{
		"device_id": twinID + "_gw",
		"sensors": []map[string]string{
			{"sensor_id": "temp_01", "parameter": "temperature", "unit": "°C"},
			{"sensor_id": "aq_01", "parameter": "air_quality", "unit": "AQI"},
		},
	})
}

func upsertRule(twinID string) {
	postJSON("/twins/"+twinID+"/rules", map[string]any{
		"parameter":     "temperature",
		"range_enabled": true,
		"min_value":     rndFloat64(-20.0, 0.0, 2),
		"max_value":     rndFloat64(30.0, 60.0, 2),
	})
}

func doAction(twinID string) {
	actions := []func(){
		genPublishTelemetryAction(twinID),
		genGetStateAction(twinID),
		genGetAnomaliesAction(twinID),
		genSubmitCommandAction(twinID),
	}
	actionNames := []string{
		"PublishTelemetry",
		"GetState",
		"GetAnomalies",
		"SubmitCommand",
	}
	rnd.Shuffle(len(actions), func(i, j int) {
		actions[i], actions[j] = actions[j], actions[i]
		actionNames[i], actionNames[j] = actionNames[j], actionNames[i]
	})
	for index, action := range actions {
		action()
		fmt.Printf("\rexecuted action %v for twin %v", actionNames[index], twinID)
		time.Sleep(time.Duration(100+rnd.Int31n(1000)) * time.Millisecond)
	}
}

func genPublishTelemetryAction(twinID string) func() {
	return func() {
		now := time.Now()
		payload, _ := json.Marshal(map[string]any{
			"twin_id": twinID,
			"readings": []map[string]any{
				{
					"sensor_id": "temp_01",
					"parameter": "temperature",
					"value":     rndFloat64(-10.0, 80.0, 2),
					"unit":      "°C",
					"ts":        now.Format(time.RFC3339),
				},
				{
					"sensor_id": "aq_01",
					"parameter": "air_quality",
					"value":     rndFloat64(0.0, 300.0, 2),
					"unit":      "AQI",
					"ts":        now.Format(time.RFC3339),
				},
			},
		})
		token := mqttClient.Publish(telemetryTopic, 1, false, payload)
		token.Wait()
		if token.Error() != nil {
			fmt.Printf("\nerror: %v\n", token.Error())
		}
	}
}

func genGetStateAction(twinID string) func() {
	return func() {
		resp, err := http.Get(fmt.Sprintf("http://%s/twins/%s/state", httpHostPort, twinID))
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
			return
		}
		defer resp.Body.Close()
	}
}

func genGetAnomaliesAction(twinID string) func() {
	return func() {
		resp, err := http.Get(fmt.Sprintf("http://%s/twins/%s/anomalies", httpHostPort, twinID))
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
			return
		}
		defer resp.Body.Close()
	}
}

func genSubmitCommandAction(twinID string) func() {
	return func() {
		postJSON("/twins/"+twinID+"/commands", map[string]any{
			"sensor_id":    "temp_01",
			"command_type": "sample_now",
			"issued_by":    "twin1k-benchmark",
		})
	}
}
