package handlers

import (
	"taxdefense-backend/logger"
	"taxdefense-backend/metrics"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with every route registered
func NewRouter(analysisHandler *AnalysisHandler, recorder *metrics.Recorder, log logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestContext(log))

	r.GET("/", analysisHandler.Home)
	r.GET("/health", analysisHandler.Health)

	r.POST("/analyze", analysisHandler.Analyze)
	r.POST("/analisar", analysisHandler.Analyze)
	r.POST("/self-test", analysisHandler.SelfTest)
	r.POST("/teste", analysisHandler.SelfTest)

	if recorder != nil {
		r.GET("/metrics", gin.WrapH(recorder.Handler()))
	}

	return r
}
