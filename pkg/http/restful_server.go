package http

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"github.com/G-P-x/IoT-project/pkg/twin"
)

type RestfulServer struct {
	Server           *gin.Engine
	Engine           *twin.Engine
	RateLimiterStore *twin.RateLimiterStore
}

func (rs *RestfulServer) GetLimiter(twinID string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(twinID)
	}
}

func (rs *RestfulServer) CheckTwinLimiter(twinID string) bool {
	limiter := rs.GetLimiter(twinID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) SetLimiter(twinID string, twinRate float64, twinBurst int) {
	if rs.RateLimiterStore == nil {
		return
	}
	rs.RateLimiterStore.SetLimiter(twinID, rate.Limit(twinRate), twinBurst)
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)

	twins := rs.Server.Group("/twins/:twin_id")
	{
		twins.POST("/register", rs.RegisterTwin)
		twins.GET("/state", rs.GetState)
		twins.GET("/history/:parameter", rs.GetHistory)
		twins.POST("/rules", rs.UpsertRule)
		twins.GET("/anomalies", rs.ListAnomalies)
		twins.POST("/anomalies/:anomaly_id/ack", rs.AcknowledgeAnomaly)
		twins.GET("/health", rs.GetHealth)
		twins.GET("/commands", rs.ListCommands)
		twins.POST("/commands", rs.SubmitCommand)
		twins.POST("/limiter", rs.PostLimiter)
	}
}
