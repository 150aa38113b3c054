package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/VictorG0234/EventosQRFerromex-sub002/docs"
	v1 "github.com/VictorG0234/EventosQRFerromex-sub002/internal/api/handler/v1"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/api/middleware"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/config"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/clock"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/eventbus"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/random"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/repository"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/repository/dao"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/service"
)

// Deps are the long-lived collaborators created by the application before the server.
type Deps struct {
	DB    *gorm.DB
	Bus   *eventbus.Bus
	Tasks service.TaskPublisher
	Clock clock.Clock
}

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	// Live and Audit are subscribed to the bus by the caller.
	Live  *v1.LiveHub
	Audit *service.AuditService
}

type repositories struct {
	users      *repository.UserRepository
	events     *repository.EventRepository
	guests     *repository.GuestRepository
	prizes     *repository.PrizeRepository
	attendance *repository.AttendanceRepository
	raffle     *repository.RaffleRepository
	stats      *repository.StatisticsRepository
	audit      *repository.AuditRepository
}

func newRepositories(db *gorm.DB) *repositories {
	return &repositories{
		users:      repository.NewUserRepository(dao.NewUserDAO(db)),
		events:     repository.NewEventRepository(dao.NewEventDAO(db)),
		guests:     repository.NewGuestRepository(dao.NewGuestDAO(db)),
		prizes:     repository.NewPrizeRepository(dao.NewPrizeDAO(db)),
		attendance: repository.NewAttendanceRepository(dao.NewAttendanceDAO(db)),
		raffle:     repository.NewRaffleRepository(dao.NewRaffleDAO(db)),
		stats:      repository.NewStatisticsRepository(dao.NewStatisticsDAO(db)),
		audit:      repository.NewAuditRepository(dao.NewAuditDAO(db)),
	}
}

type handlers struct {
	auth       *v1.AuthHandler
	user       *v1.UserHandler
	event      *v1.EventHandler
	guest      *v1.GuestHandler
	prize      *v1.PrizeHandler
	attendance *v1.AttendanceHandler
	raffle     *v1.RaffleHandler
	statistics *v1.StatisticsHandler
	audit      *v1.AuditHandler
	messaging  *v1.MessagingHandler
	public     *v1.PublicGuestHandler
}

func NewServer(conf *config.AppConfig, deps Deps) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	repos := newRepositories(deps.DB)
	s.Audit = service.NewAuditService(repos.audit, deps.Bus)
	uSvc := service.NewUserService(repos.users)
	eventSvc := service.NewEventService(repos.events, repos.stats, s.Audit, deps.Clock)
	raffleSvc := s.initRaffleService(repos, deps)
	notifications := service.NewNotificationService(deps.Tasks)

	h := handlers{
		auth:       v1.NewAuthHandler(conf.API, service.NewAuthService(repos.users)),
		user:       v1.NewUserHandler(uSvc),
		event:      v1.NewEventHandler(eventSvc, uSvc),
		guest:      v1.NewGuestHandler(service.NewGuestService(repos.guests, repos.events, s.Audit, deps.Clock)),
		prize:      s.initPrizeHandler(repos, deps),
		attendance: s.initAttendanceHandler(repos, deps, raffleSvc, uSvc),
		raffle:     v1.NewRaffleHandler(raffleSvc, uSvc),
		statistics: v1.NewStatisticsHandler(service.NewStatisticsService(repos.stats, repos.prizes, repos.raffle, repos.events, deps.Clock)),
		audit:      v1.NewAuditHandler(s.Audit, uSvc),
		messaging:  v1.NewMessagingHandler(service.NewMessagingService(repos.guests, repos.events, repos.users, repos.stats, notifications)),
		public:     v1.NewPublicGuestHandler(service.NewPublicGuestService(repos.events, repos.guests, repos.attendance)),
	}
	s.Live = v1.NewLiveHub(uSvc, eventSvc, conf.API.AllowedCORSDomains)

	s.MountHandlers(h)

	return s
}

func (s *Server) initRaffleService(repos *repositories, deps Deps) *service.RaffleService {
	eligibility := service.NewEligibilityService(repos.raffle, repos.attendance)

	return service.NewRaffleService(
		repos.raffle,
		repos.prizes,
		repos.guests,
		repos.events,
		eligibility,
		random.NewSeededPicker(),
		deps.Clock,
		service.WithRaffleNotifier(service.NewNotificationService(deps.Tasks)),
		service.WithRaffleAuditor(s.Audit),
		service.WithRafflePublisher(deps.Bus),
		service.WithGeneralPoolSize(s.Config.Raffle.GeneralPoolSize),
	)
}

func (s *Server) initPrizeHandler(repos *repositories, deps Deps) *v1.PrizeHandler {
	svc := service.NewPrizeService(
		repos.prizes,
		repos.events,
		s.Audit,
		deps.Clock,
		s.Config.Storage.ImageDir,
		s.Config.Storage.MaxImageWidth,
	)

	return v1.NewPrizeHandler(svc)
}

func (s *Server) initAttendanceHandler(repos *repositories, deps Deps, raffle *service.RaffleService, uSvc *service.UserService) *v1.AttendanceHandler {
	svc := service.NewAttendanceService(
		repos.attendance,
		repos.guests,
		repos.events,
		raffle,
		deps.Clock,
		s.Config.Raffle.MaxScanCount,
		service.NewNotificationService(deps.Tasks),
		s.Audit,
		deps.Bus,
	)

	return v1.NewAttendanceHandler(svc, uSvc)
}

func (s *Server) MountMiddlewares() {
	if s.Config.Gin.Mode == gin.DebugMode {
		s.Router.Use(gin.Logger())
	}
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.RequestLogger())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers) {
	const basePath = "/api/v1"

	timeout := middleware.Timeout(s.Config.API.RequestTimeout)
	verifyJWT := middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT()

	auth := s.Router.Group(basePath, timeout)
	{
		auth.POST("/auth/signup", h.auth.HandleSignup)
		auth.POST("/auth/login", h.auth.HandleLogin)
	}

	public := s.Router.Group(basePath+"/public", timeout)
	{
		public.GET("/events/:token", h.event.HandlePublicEvent)
		public.POST("/events/:token/guests/lookup", h.public.HandleLookupGuest)
		public.GET("/events/:token/guests/:qrCode", h.public.HandleGuestDetails)
	}

	protected := s.Router.Group(basePath, timeout, verifyJWT)
	{
		protected.GET("/users/:userID", h.user.HandleGetUser)
		protected.GET("/audit-logs", h.audit.HandleListAuditLogs)

		protected.GET("/events", h.event.HandleListEvents)
		protected.POST("/events", h.event.HandleCreateEvent)
		protected.GET("/events/:eventID", h.event.HandleGetEvent)
		protected.PUT("/events/:eventID", h.event.HandleUpdateEvent)
		protected.DELETE("/events/:eventID", h.event.HandleDeleteEvent)
	}

	event := protected.Group("/events/:eventID")
	{
		event.GET("/guests", h.guest.HandleListGuests)
		event.POST("/guests", h.guest.HandleCreateGuest)
		event.GET("/guests/:guestID", h.guest.HandleGetGuest)
		event.PUT("/guests/:guestID", h.guest.HandleUpdateGuest)
		event.DELETE("/guests/:guestID", h.guest.HandleDeleteGuest)

		event.POST("/guests/:guestID/emails/welcome", h.messaging.HandleSendWelcome)
		event.POST("/emails/welcome", h.messaging.HandleSendBulkWelcome)
		event.POST("/emails/reminder", h.messaging.HandleSendReminder)
		event.POST("/emails/custom", h.messaging.HandleSendCustomMessage)
		event.POST("/emails/summary", h.messaging.HandleSendEventSummary)
		event.GET("/emails/statistics", h.messaging.HandleEmailStats)

		event.GET("/prizes", h.prize.HandleListPrizes)
		event.POST("/prizes", h.prize.HandleCreatePrize)
		event.GET("/prizes/:prizeID", h.prize.HandleGetPrize)
		event.PUT("/prizes/:prizeID", h.prize.HandleUpdatePrize)
		event.DELETE("/prizes/:prizeID", h.prize.HandleDeletePrize)
		event.POST("/prizes/:prizeID/image", h.prize.HandleUploadPrizeImage)

		event.POST("/attendance/scan", h.attendance.HandleScan)
		event.POST("/attendance/manual", h.attendance.HandleManualAttendance)
		event.GET("/attendance", h.attendance.HandleListAttendance)
		event.DELETE("/attendance/:attendanceID", h.attendance.HandleDeleteAttendance)

		event.GET("/prizes/:prizeID/eligible", h.raffle.HandleListEligible)
		event.GET("/prizes/:prizeID/entries", h.raffle.HandleListEntries)
		event.POST("/prizes/:prizeID/entries", h.raffle.HandleCreateEntries)
		event.POST("/prizes/:prizeID/draw", h.raffle.HandleDrawWinner)
		event.POST("/prizes/:prizeID/select", h.raffle.HandleSelectWinner)
		event.POST("/raffle/general/draw", h.raffle.HandleDrawGeneral)
		event.POST("/raffle/general/reselect", h.raffle.HandleReselectGeneral)
		event.POST("/entries/:entryID/cancel", h.raffle.HandleCancelDraw)
		event.POST("/entries/:entryID/reset", h.raffle.HandleResetEntry)
		event.POST("/entries/:entryID/deliver", h.raffle.HandleDeliverPrize)
		event.DELETE("/entries/:entryID", h.raffle.HandleDeleteEntry)
		event.GET("/raffle/logs", h.raffle.HandleRaffleLogs)
		event.POST("/raffle/reset", h.raffle.HandleResetEventRaffle)

		event.GET("/statistics", h.statistics.HandleGetStatistics)
		event.GET("/raffle/statistics", h.statistics.HandleGetRaffleStatistics)
		event.GET("/prizes/:prizeID/results", h.statistics.HandleGetPrizeResults)
	}

	// The websocket outlives the request timeout.
	s.Router.GET(basePath+"/events/:eventID/live", verifyJWT, s.Live.HandleLive)

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.Static("/storage", s.Config.Storage.ImageDir)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Eventos QR API"
	docs.SwaggerInfo.Description = "Guest check-in, prize raffles and live dashboards for corporate events."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
