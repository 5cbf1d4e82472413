package twin

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/G-P-x/IoT-project/pkg/common"
	_ "github.com/G-P-x/IoT-project/pkg/testing"
)

func TestHubFanOut(t *testing.T) {
	common.SetTestLoggerNop()

	hub := NewHub()
	first := hub.Subscribe("dashboard", 4)
	second := hub.Subscribe("pager", 4)

	hub.Publish(Notification{Kind: NotifyAnomalyRaised, TwinID: "twin_a", Timestamp: time.Now()})

	select {
	case n := <-first:
		assert.Equal(t, NotifyAnomalyRaised, n.Kind)
		assert.Equal(t, "twin_a", n.TwinID)
	default:
		t.Fatal("dashboard subscriber received nothing")
	}
	select {
	case n := <-second:
		assert.Equal(t, "twin_a", n.TwinID)
	default:
		t.Fatal("pager subscriber received nothing")
	}
}

func TestHubDropsOldestWhenFull(t *testing.T) {
	common.SetTestLoggerNop()

	hub := NewHub()
	ch := hub.Subscribe("slow", 2)

	for i := 0; i < 5; i++ {
		hub.Publish(Notification{
			Kind:    NotifyCommandUpdated,
			Message: fmt.Sprintf("update %d", i),
		})
	}

	// only the two newest survive, in order
	n := <-ch
	assert.Equal(t, "update 3", n.Message)
	n = <-ch
	assert.Equal(t, "update 4", n.Message)

	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra notification: %v", extra)
	default:
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	common.SetTestLoggerNop()

	hub := NewHub()
	ch := hub.Subscribe("transient", 1)

	hub.Unsubscribe("transient")

	_, open := <-ch
	require.False(t, open)

	// publishing after the subscriber is gone must not panic
	hub.Publish(Notification{Kind: NotifyHealthChanged})

	// unsubscribing twice is a no-op
	hub.Unsubscribe("transient")
}

func TestLogNotifications(t *testing.T) {
	var buf = &bytes.Buffer{}
	common.SetTestCaptureLogger(buf, zapcore.InfoLevel)

	hub := NewHub()

	done := make(chan struct{})
	go func() {
		LogNotifications(context.Background(), hub, "operator_log", 4)
		close(done)
	}()

	require.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		_, ok := hub.subscribers["operator_log"]
		return ok
	}, time.Second, time.Millisecond)

	hub.Publish(Notification{
		Kind:      NotifyHealthChanged,
		DeviceID:  "etna_gw_3",
		OldState:  "SILENT",
		NewState:  "SUSPECTED",
		Timestamp: time.Now(),
	})
	hub.Publish(Notification{
		Kind:      NotifyCommandTimedOut,
		TwinID:    "twin_a",
		CommandID: "cmd_1",
		NewState:  "TIMED_OUT",
		Alarm:     true,
		Timestamp: time.Now(),
	})

	// closing the subscription drains the queue and stops the loop
	hub.Unsubscribe("operator_log")
	<-done

	logs := ParseLogs(buf)

	var infoKind, warnKind string
	for _, log := range logs {
		lobj := log.(map[string]any)
		if lobj["msg"] != "Operator notification" || lobj["category"] != "notify" {
			continue
		}
		switch lobj["level"] {
		case "info":
			infoKind = lobj["kind"].(string)
			assert.Equal(t, "etna_gw_3", lobj["device_id"])
			assert.Equal(t, "SUSPECTED", lobj["new_state"])
		case "warn":
			warnKind = lobj["kind"].(string)
			assert.Equal(t, "cmd_1", lobj["command_id"])
		}
	}
	assert.Equal(t, string(NotifyHealthChanged), infoKind)
	assert.Equal(t, string(NotifyCommandTimedOut), warnKind)
}
