package handler

import (
	"net/http"

	"github.com/Astemirdum/hotel-service/pkg/auth"
	mw "github.com/Astemirdum/hotel-service/pkg/middleware"
	"github.com/Astemirdum/hotel-service/pkg/validate"
	_ "github.com/Astemirdum/hotel-service/swagger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

type Handler struct {
	reservationSvc ReservationService
	roomSvc        RoomService
	userSvc        UserService
	tokens         *auth.TokenManager
	denylist       auth.Denylist
	corsOrigins    []string
	log            *zap.Logger
}

type Option func(h *Handler)

func WithCORSOrigins(origins []string) Option {
	return func(h *Handler) {
		if len(origins) > 0 {
			h.corsOrigins = origins
		}
	}
}

func New(
	reservationSvc ReservationService,
	roomSvc RoomService,
	userSvc UserService,
	tokens *auth.TokenManager,
	denylist auth.Denylist,
	log *zap.Logger,
	opts ...Option,
) *Handler {
	h := &Handler{
		reservationSvc: reservationSvc,
		roomSvc:        roomSvc,
		userSvc:        userSvc,
		tokens:         tokens,
		denylist:       denylist,
		corsOrigins:    []string{"*"},
		log:            log.Named("handler"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     h.corsOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", mw.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()

	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(mw.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		mw.NewRateLimiter(apiRPS),
	)
	authMW := mw.JwtAuthentication(h.tokens, h.denylist)

	users := api.Group("/users")
	users.POST("/register", h.Register)
	users.POST("/login", h.Login)
	users.POST("/logout", h.Logout, authMW)
	users.GET("/status", h.Status, authMW)
	users.GET("", h.ListUsers, authMW, mw.RequireAdmin)
	users.GET("/:id", h.GetUser, authMW, mw.RequireAdmin)
	users.PUT("/:id", h.UpdateUser, authMW, mw.RequireAdmin)
	users.DELETE("/:id", h.DeleteUser, authMW, mw.RequireAdmin)

	rooms := api.Group("/rooms")
	rooms.GET("", h.ListRooms)
	rooms.GET("/:id", h.GetRoom)
	rooms.POST("", h.CreateRoom, authMW, mw.RequireAdmin)
	rooms.PUT("/:id", h.UpdateRoom, authMW, mw.RequireAdmin)
	rooms.DELETE("/:id", h.DeleteRoom, authMW, mw.RequireAdmin)

	reservations := api.Group("/reservations", authMW)
	reservations.POST("", h.CreateReservation)
	reservations.GET("/my", h.ListMyReservations)
	reservations.GET("", h.ListReservations, mw.RequireStaff)
	reservations.GET("/rooms/:roomId/availability", h.CheckAvailability)
	reservations.PUT("/:id", h.UpdateReservation, mw.RequireStaff)
	reservations.DELETE("/:id", h.DeleteReservation)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
