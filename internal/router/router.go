package router

import (
	"net/http"
	"time"

	"github.com/examhall/examhall-backend/internal/config"
	"github.com/examhall/examhall-backend/internal/handler"
	"github.com/examhall/examhall-backend/internal/middleware"
	"github.com/examhall/examhall-backend/internal/response"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth          *handler.AuthHandler
	Terminal      *handler.TerminalHandler
	Attempt       *handler.AttemptHandler
	AdminTerminal *handler.AdminTerminalHandler
	Exam          *handler.ExamHandler
	Student       *handler.StudentHandler
	Question      *handler.QuestionHandler
	Report        *handler.ReportHandler
	AdminUser     *handler.AdminUserHandler
}

// New builds the gin engine with all routes and middleware mounted.
func New(cfg *config.Config, auth *service.AuthService, h Handlers) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(response.RequestIDMiddleware())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Request-ID")
	corsConfig.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	// Registration is open to the network, so it gets its own limiter.
	registerLimiter := middleware.NewRateLimiter(0.2, 5)

	terminals := v1.Group("/terminals")
	{
		terminals.POST("/register", registerLimiter.Middleware(), h.Terminal.Register)
		terminals.GET("/:identifier/status", h.Terminal.Status)
		terminals.POST("/:identifier/heartbeat", h.Terminal.Heartbeat)
	}

	exams := v1.Group("/exams")
	{
		exams.GET("/:exam_id/paper", h.Attempt.Paper)
		exams.POST("/:exam_id/submit", h.Attempt.Submit)
	}

	admin := v1.Group("/admin")
	{
		admin.POST("/login", h.Auth.Login)

		authed := admin.Group("")
		authed.Use(middleware.RequireAdminJWT(auth))
		{
			authed.POST("/logout", h.Auth.Logout)
			authed.GET("/me", h.Auth.Me)

			authed.GET("/terminals", h.AdminTerminal.List)
			authed.POST("/terminals/:id/approve", h.AdminTerminal.Approve)
			authed.POST("/terminals/:id/reject", h.AdminTerminal.Reject)
			authed.DELETE("/terminals/:id", h.AdminTerminal.Delete)
			authed.PUT("/terminals/:id/assignment", h.AdminTerminal.Assign)
			authed.GET("/live-status", h.AdminTerminal.LiveBoard)

			authed.GET("/students", h.Student.List)
			authed.GET("/students/:id", h.Student.Get)
			authed.POST("/students", h.Student.Create)
			authed.PUT("/students/:id", h.Student.Update)
			authed.DELETE("/students/:id", h.Student.Delete)

			authed.GET("/questions", h.Question.List)
			authed.GET("/questions/:id", h.Question.Get)
			authed.POST("/questions", h.Question.Create)
			authed.PUT("/questions/:id", h.Question.Update)
			authed.DELETE("/questions/:id", h.Question.Delete)

			authed.GET("/exams", h.Exam.List)
			authed.GET("/exams/:id", h.Exam.Get)
			authed.POST("/exams", h.Exam.Create)
			authed.PUT("/exams/:id", h.Exam.Update)
			authed.POST("/exams/:id/start", h.Exam.Start)
			authed.POST("/exams/:id/end", h.Exam.End)
			authed.DELETE("/exams/:id", h.Exam.Delete)

			authed.GET("/results", h.Report.Results)
			authed.GET("/logs", h.Report.AuditLogs)

			super := authed.Group("/users")
			super.Use(middleware.RequireSuperadmin())
			{
				super.GET("", h.AdminUser.List)
				super.POST("", h.AdminUser.Create)
				super.DELETE("/:id", h.AdminUser.Delete)
			}
		}
	}

	return r
}
