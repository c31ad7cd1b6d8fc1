package apiserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/utpad/utpad/pkg/apiserver/handlers"
	"github.com/utpad/utpad/pkg/apiserver/middleware"
	"github.com/utpad/utpad/pkg/auth"
	"github.com/utpad/utpad/pkg/capacity"
	"github.com/utpad/utpad/pkg/config"
	"github.com/utpad/utpad/pkg/settings"
	"github.com/utpad/utpad/pkg/store/postgres"
	redisclient "github.com/utpad/utpad/pkg/store/redis"
)

type Server struct {
	router *gin.Engine
	db     *postgres.Store
	redis  *redisclient.Client
	cfg    *config.Config
	logger *zap.Logger
}

func NewServer(db *postgres.Store, redis *redisclient.Client, cfg *config.Config, logger *zap.Logger) *Server {
	s := &Server{
		db:     db,
		redis:  redis,
		cfg:    cfg,
		logger: logger,
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(s.logger))
	r.Use(middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var gdb *gorm.DB
	if s.db != nil {
		gdb = s.db.DB()
	}

	week, err := capacity.ParseWorkWeek(s.cfg.Capacity.WorkWeek)
	if err != nil {
		s.logger.Warn("invalid work week mask, using default", zap.Error(err))
		week = capacity.DefaultWorkWeek()
	}

	groupRepo := postgres.NewOrgGroupRepository(gdb)
	engineerRepo := postgres.NewEngineerRepository(gdb)
	siteRepo := postgres.NewSiteRepository(gdb)
	participationRepo := postgres.NewParticipationRepository(gdb)
	leaveRepo := postgres.NewLeaveRepository(gdb)
	holidayRepo := postgres.NewSiteHolidayRepository(gdb)
	configurationRepo := postgres.NewConfigurationRepository(gdb)

	reports := redisclient.NewReportCache(s.redis, s.cfg.Capacity.ReportCacheTTL)
	engine := capacity.NewEngine(postgres.NewCapacityStore(gdb), week)
	siteSettings := settings.NewService(configurationRepo)
	tokens := auth.NewTokenManager([]byte(s.cfg.Auth.JWTSecret), s.cfg.Auth.TokenTTL)

	api := r.Group("/api/v1")
	{
		api.Use(middleware.Auth(tokens))

		orgHandler := handlers.NewOrgGroupHandler(groupRepo, reports, s.logger)
		api.GET("/org-groups", orgHandler.List)
		api.POST("/org-groups", orgHandler.Create)
		api.GET("/org-groups/:id", orgHandler.Get)
		api.PUT("/org-groups/:id", orgHandler.Update)
		api.DELETE("/org-groups/:id", orgHandler.Delete)
		api.GET("/org-groups/:id/tree", orgHandler.Tree)

		engineerHandler := handlers.NewEngineerHandler(engineerRepo, groupRepo, reports, s.logger)
		api.GET("/engineers", engineerHandler.List)
		api.POST("/engineers", engineerHandler.Create)
		api.GET("/engineers/:id", engineerHandler.Get)
		api.PUT("/engineers/:id", engineerHandler.Update)
		api.DELETE("/engineers/:id", engineerHandler.Delete)

		siteHandler := handlers.NewSiteHandler(siteRepo, groupRepo, s.logger)
		api.GET("/sites", siteHandler.List)
		api.POST("/sites", siteHandler.Create)
		api.GET("/sites/:id", siteHandler.Get)
		api.PUT("/sites/:id", siteHandler.Update)
		api.DELETE("/sites/:id", siteHandler.Delete)

		participationHandler := handlers.NewParticipationHandler(participationRepo, groupRepo, reports, s.logger)
		api.GET("/participations", participationHandler.List)
		api.POST("/participations", participationHandler.Create)
		api.GET("/participations/:id", participationHandler.Get)
		api.PUT("/participations/:id", participationHandler.Update)
		api.DELETE("/participations/:id", participationHandler.Delete)

		leaveHandler := handlers.NewLeaveHandler(leaveRepo, engineerRepo, groupRepo, reports, s.logger)
		api.GET("/leaves", leaveHandler.List)
		api.POST("/leaves", leaveHandler.Create)
		api.GET("/leaves/:id", leaveHandler.Get)
		api.PUT("/leaves/:id", leaveHandler.Update)
		api.DELETE("/leaves/:id", leaveHandler.Delete)

		holidayHandler := handlers.NewSiteHolidayHandler(holidayRepo, groupRepo, reports, s.logger)
		api.GET("/site-holidays", holidayHandler.List)
		api.POST("/site-holidays", holidayHandler.Create)
		api.GET("/site-holidays/:id", holidayHandler.Get)
		api.PUT("/site-holidays/:id", holidayHandler.Update)
		api.DELETE("/site-holidays/:id", holidayHandler.Delete)

		capacityHandler := handlers.NewCapacityHandler(engine, engineerRepo, groupRepo, reports, s.logger)
		api.GET("/capacity/org-group", capacityHandler.ForGroup)
		api.GET("/capacity/engineer", capacityHandler.ForEngineer)

		settingsHandler := handlers.NewSettingsHandler(siteSettings, s.logger)
		api.GET("/settings", settingsHandler.Get)
		api.POST("/settings/reload", settingsHandler.Reload)
	}

	s.router = r
}

func (s *Server) Router() *gin.Engine {
	return s.router
}
