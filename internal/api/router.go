package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/campuskit/reservation-backend/internal/approval"
	approvalHttp "github.com/campuskit/reservation-backend/internal/approval/http"
	"github.com/campuskit/reservation-backend/internal/auth"
	"github.com/campuskit/reservation-backend/internal/booking"
	bookingHttp "github.com/campuskit/reservation-backend/internal/booking/http"
	"github.com/campuskit/reservation-backend/internal/department"
	deptHttp "github.com/campuskit/reservation-backend/internal/department/http"
	"github.com/campuskit/reservation-backend/internal/resource"
	resHttp "github.com/campuskit/reservation-backend/internal/resource/http"
	"github.com/campuskit/reservation-backend/internal/user"
)

// Config carries the services and settings the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string // Comma-separated allowed origins in production

	UserService       user.Service
	ResourceService   resource.Service
	DepartmentService department.Service
	ApprovalService   approval.Service
	BookingService    booking.Service

	JWTManager *auth.JWTManager
}

// NewRouter initializes the HTTP router engine. It assembles middleware
// (CORS, Logger, Auth) and registers routes for each module under /v1.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000", // Frontend dev server
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	adminMiddleware := RequireAdmin()

	authHandler := NewAuthHandler(cfg.UserService, cfg.JWTManager)
	userHandler := NewUserHandler(cfg.UserService)
	resourceHandler := resHttp.NewHandler(cfg.ResourceService, cfg.BookingService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	approvalHandler := approvalHttp.NewHandler(cfg.ApprovalService)
	departmentHandler := deptHttp.NewHandler(cfg.DepartmentService)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)
		v1.GET("/me", authMiddleware, authHandler.Me)

		users := v1.Group("/users", authMiddleware, adminMiddleware)
		{
			users.GET("", userHandler.List)
			users.PATCH("/:id", userHandler.Update)
		}

		resHttp.RegisterRoutes(v1, resourceHandler, authMiddleware, adminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, adminMiddleware)
		approvalHttp.RegisterRoutes(v1, approvalHandler, authMiddleware, adminMiddleware)
		deptHttp.RegisterRoutes(v1, departmentHandler, authMiddleware, adminMiddleware)
	}

	return r
}
