package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/campuskit/reservation-backend/internal/api"
	"github.com/campuskit/reservation-backend/internal/approval"
	"github.com/campuskit/reservation-backend/internal/audit"
	"github.com/campuskit/reservation-backend/internal/auth"
	"github.com/campuskit/reservation-backend/internal/booking"
	"github.com/campuskit/reservation-backend/internal/department"
	"github.com/campuskit/reservation-backend/internal/notify"
	"github.com/campuskit/reservation-backend/internal/resource"
	"github.com/campuskit/reservation-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	Logger       *zap.Logger
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int

	BookingMaxAttempts int

	// KafkaBrokers empty means notifications go to the log only.
	KafkaBrokers []string
	KafkaTopic   string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	Notifier   notify.Notifier
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Init components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// Notification channel
	var notifier notify.Notifier
	if len(cfg.KafkaBrokers) > 0 {
		var err error
		notifier, err = notify.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return nil, err
		}
	} else {
		notifier = notify.NewLogNotifier(cfg.Logger)
	}

	// User module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Department module
	deptRepo := department.NewPgxRepository(cfg.DBPool)
	deptService := department.NewService(deptRepo)

	// Resource module
	resRepo := resource.NewPgxRepository(cfg.DBPool)
	resService := resource.NewService(resRepo)

	// Approval rule module
	ruleRepo := approval.NewPgxRepository(cfg.DBPool)
	ruleService := approval.NewService(ruleRepo)

	// Audit trail
	auditRecorder := audit.NewPgxRecorder(cfg.DBPool)

	// Booking module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(booking.ServiceConfig{
		Repo:        bookingRepo,
		Resources:   resService,
		Users:       userService,
		Departments: deptService,
		Rules:       ruleService,
		Audit:       auditRecorder,
		Notifier:    notifier,
		Log:         cfg.Logger,
		MaxAttempts: cfg.BookingMaxAttempts,
	})

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:      cfg.IsProduction,
		ProdOrigins:       cfg.ProdOrigins,
		UserService:       userService,
		ResourceService:   resService,
		DepartmentService: deptService,
		ApprovalService:   ruleService,
		BookingService:    bookingService,
		JWTManager:        jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		Notifier:   notifier,
	}, nil
}
