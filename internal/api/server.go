package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/clubraffle/raffle-api/docs"
	v1 "github.com/clubraffle/raffle-api/internal/api/handler/v1"
	"github.com/clubraffle/raffle-api/internal/api/middleware"
	"github.com/clubraffle/raffle-api/internal/config"
	"github.com/clubraffle/raffle-api/internal/repository"
	"github.com/clubraffle/raffle-api/internal/repository/dao"
	"github.com/clubraffle/raffle-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	userSvc := s.initUserService(db)
	authHandler := s.initAuthHandler(db, userSvc)
	userHandler := v1.NewUserHandler(userSvc)
	entityHandler := s.initEntityHandler(db, userSvc)
	sessionHandler := s.initSessionHandler(db, userSvc)
	ticketHandler := s.initTicketHandler(db, userSvc)
	raffleHandler := s.initRaffleHandler(db, userSvc)
	exportHandler := s.initExportHandler(db, userSvc)

	s.MountHandlers(authHandler, userHandler, entityHandler, sessionHandler, ticketHandler, raffleHandler, exportHandler)

	return s
}

func (s *Server) initUserService(db *gorm.DB) *service.UserService {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)

	return service.NewUserService(repo)
}

func (s *Server) initAuthHandler(db *gorm.DB, userSvc *service.UserService) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)

	return v1.NewAuthHandler(s.Config.API, svc, userSvc)
}

func (s *Server) initEntityHandler(db *gorm.DB, userSvc *service.UserService) *v1.EntityHandler {
	entityDAO := dao.NewEntityDAO(db)
	repo := repository.NewEntityRepository(entityDAO)
	svc := service.NewEntityService(repo)

	return v1.NewEntityHandler(svc, userSvc)
}

func (s *Server) initSessionHandler(db *gorm.DB, userSvc *service.UserService) *v1.SessionHandler {
	sessionRepo := repository.NewSessionRepository(dao.NewSessionDAO(db))
	entityRepo := repository.NewEntityRepository(dao.NewEntityDAO(db))
	purchaseRepo := repository.NewPurchaseRepository(dao.NewPurchaseDAO(db))
	svc := service.NewSessionService(sessionRepo, entityRepo, purchaseRepo)
	ticketSvc := service.NewTicketService(purchaseRepo, entityRepo, sessionRepo)

	return v1.NewSessionHandler(svc, ticketSvc, userSvc)
}

func (s *Server) initTicketHandler(db *gorm.DB, userSvc *service.UserService) *v1.TicketHandler {
	purchaseRepo := repository.NewPurchaseRepository(dao.NewPurchaseDAO(db))
	entityRepo := repository.NewEntityRepository(dao.NewEntityDAO(db))
	sessionRepo := repository.NewSessionRepository(dao.NewSessionDAO(db))
	svc := service.NewTicketService(purchaseRepo, entityRepo, sessionRepo)

	return v1.NewTicketHandler(svc, userSvc)
}

func (s *Server) initRaffleHandler(db *gorm.DB, userSvc *service.UserService) *v1.RaffleHandler {
	raffleRepo := repository.NewRaffleRepository(dao.NewRaffleDAO(db))
	purchaseRepo := repository.NewPurchaseRepository(dao.NewPurchaseDAO(db))
	entityRepo := repository.NewEntityRepository(dao.NewEntityDAO(db))
	svc := service.NewRaffleService(raffleRepo, purchaseRepo, entityRepo)

	return v1.NewRaffleHandler(svc, userSvc)
}

func (s *Server) initExportHandler(db *gorm.DB, userSvc *service.UserService) *v1.ExportHandler {
	entityRepo := repository.NewEntityRepository(dao.NewEntityDAO(db))
	purchaseRepo := repository.NewPurchaseRepository(dao.NewPurchaseDAO(db))
	svc := service.NewExportService(entityRepo, purchaseRepo)

	return v1.NewExportHandler(svc, userSvc)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	entityHandler *v1.EntityHandler,
	sessionHandler *v1.SessionHandler,
	ticketHandler *v1.TicketHandler,
	raffleHandler *v1.RaffleHandler,
	exportHandler *v1.ExportHandler,
) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/login", authHandler.HandleLogin)
	}

	protected := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		protected.POST("/auth/users", authHandler.HandleCreateUser)
		protected.PUT("/auth/password", authHandler.HandleChangePassword)

		protected.GET("/users", userHandler.HandleGetUsers)
		protected.GET("/users/:userID", userHandler.HandleGetUser)
		protected.DELETE("/users/:userID", userHandler.HandleDeleteUser)
		protected.POST("/users/:userID/entities/:entityID", userHandler.HandleAssignEntity)
		protected.DELETE("/users/:userID/entities/:entityID", userHandler.HandleUnassignEntity)

		protected.GET("/entities", entityHandler.HandleGetEntities)
		protected.POST("/entities", entityHandler.HandleCreateEntity)
		protected.GET("/entities/:entityID", entityHandler.HandleGetEntity)
		protected.PUT("/entities/:entityID", entityHandler.HandleUpdateEntity)
		protected.DELETE("/entities/:entityID", entityHandler.HandleDeleteEntity)

		protected.GET("/entities/:entityID/next-ticket", ticketHandler.HandleNextTicketNumber)
		protected.POST("/entities/:entityID/counter/reset", ticketHandler.HandleResetCounter)
		protected.GET("/entities/:entityID/stats", ticketHandler.HandleGetStats)
		protected.GET("/entities/:entityID/announcement", ticketHandler.HandleGetAnnouncement)
		protected.POST("/entities/:entityID/purchases", ticketHandler.HandlePurchaseTickets)
		protected.GET("/entities/:entityID/purchases", ticketHandler.HandleGetEntityPurchases)

		protected.GET("/purchases", ticketHandler.HandleGetPurchases)
		protected.GET("/purchases/:purchaseID", ticketHandler.HandleGetPurchase)
		protected.GET("/purchases/:purchaseID/receipt", ticketHandler.HandleGetReceipt)
		protected.PATCH("/purchases/:purchaseID/payment", ticketHandler.HandleUpdatePayment)
		protected.PATCH("/purchases/:purchaseID/buyer", ticketHandler.HandleUpdateBuyer)
		protected.DELETE("/purchases/:purchaseID", ticketHandler.HandleDeletePurchase)

		protected.POST("/entities/:entityID/sessions", sessionHandler.HandleStartSession)
		protected.GET("/entities/:entityID/sessions", sessionHandler.HandleFindSessions)
		protected.GET("/entities/:entityID/sessions/active", sessionHandler.HandleGetActiveSession)
		protected.GET("/sessions/:sessionID", sessionHandler.HandleGetSession)
		protected.POST("/sessions/:sessionID/close", sessionHandler.HandleCloseSession)
		protected.GET("/sessions/:sessionID/summary", sessionHandler.HandleGetSessionSummary)
		protected.GET("/sessions/:sessionID/purchases", sessionHandler.HandleGetSessionPurchases)
		protected.GET("/me/sessions", sessionHandler.HandleGetMySessions)

		protected.POST("/raffles", raffleHandler.HandleCreateRaffle)
		protected.GET("/raffles", raffleHandler.HandleGetRaffles)
		protected.GET("/raffles/:raffleID", raffleHandler.HandleGetRaffle)
		protected.PUT("/raffles/:raffleID", raffleHandler.HandleUpdateRaffle)
		protected.DELETE("/raffles/:raffleID", raffleHandler.HandleDeleteRaffle)
		protected.POST("/raffles/:raffleID/draw", raffleHandler.HandleDrawWinner)

		protected.GET("/export/purchases", exportHandler.HandleExportPurchases)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Club Raffle API"
	docs.SwaggerInfo.Description = "Multi-tenant raffle ticket sales API."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
