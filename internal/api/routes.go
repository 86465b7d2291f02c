package api

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Vinay-014/email-spam-report/internal/checker"
	"github.com/Vinay-014/email-spam-report/internal/config"
	"github.com/Vinay-014/email-spam-report/internal/middleware"
	"github.com/Vinay-014/email-spam-report/internal/report"
	"github.com/Vinay-014/email-spam-report/internal/repository"
)

type Router struct {
	engine        *gin.Engine
	db            *sql.DB
	checkHandler  *CheckHandler
	reportHandler *ReportHandler
	testHandler   *TestHandler
}

func NewRouter(db *sql.DB, cfg *config.Config, runner *checker.Runner, reports *report.Service) *Router {
	// Initialize repositories
	testRepo := repository.NewTestRepository(db)
	inboxRepo := repository.NewInboxRepository(db)
	resultRepo := repository.NewResultRepository(db)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORS(cfg.Server.CORS))

	return &Router{
		engine:        engine,
		db:            db,
		checkHandler:  NewCheckHandler(runner),
		reportHandler: NewReportHandler(reports),
		testHandler:   NewTestHandler(testRepo, inboxRepo, resultRepo),
	}
}

func (r *Router) SetupRoutes() {
	// Health check endpoint
	r.engine.GET("/health", r.healthCheck)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Function-style entry points the dashboard calls directly
	r.engine.POST("/check-test-emails", r.checkHandler.RunCheck)
	r.engine.POST("/send-report-email", r.reportHandler.SendReport)

	// API v1 routes
	v1 := r.engine.Group("/api/v1")
	{
		testGroup := v1.Group("/tests")
		{
			testGroup.POST("", r.testHandler.CreateTest)
			testGroup.GET("", r.testHandler.ListTests)
			testGroup.GET("/:id", r.testHandler.GetTest)
			testGroup.POST("/:id/start", r.testHandler.StartTest)
			testGroup.GET("/:id/results", r.testHandler.GetTestResults)
		}

		v1.GET("/inboxes", r.testHandler.ListInboxes)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) healthCheck(c *gin.Context) {
	if err := r.db.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "unhealthy",
			"error":  "Database connection failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}
