package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotel-frontdesk-backend/internal/mw"
	"hotel-frontdesk-backend/internal/store"
)

// RouterOptions configures the HTTP surface.
type RouterOptions struct {
	// Limiter throttles each client address; nil disables rate limiting.
	Limiter *mw.IPRateLimiter
	// CacheTTL is how long reference-data responses are cached.
	CacheTTL time.Duration
	// AllowedOrigins lists CORS origins; empty allows any origin.
	AllowedOrigins []string
	WebPush        *webpush.Options
}

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, svc Services, opts RouterOptions) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	handler := NewHandler(s, svc, opts.WebPush)

	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	responses := mw.NewResponseCache(ttl)
	caching := responses.Cache()
	invalidate := responses.Invalidate()

	api := r.Group("/api")
	if opts.Limiter != nil {
		api.Use(opts.Limiter.Middleware())
	}

	// Public endpoints
	api.POST("/login", handler.Login)
	api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

	secured := api.Group("")
	secured.Use(mw.RequireAuth(svc.Users.Issuer()))
	{
		secured.GET("/classes", caching, handler.ListClasses)
		secured.POST("/classes", invalidate, handler.SaveClass)
		secured.PUT("/classes/:id", invalidate, handler.SaveClass)
		secured.DELETE("/classes/:id", invalidate, handler.DeleteClass)

		secured.GET("/buildings", caching, handler.ListBuildings)
		secured.POST("/buildings", invalidate, handler.SaveBuilding)
		secured.PUT("/buildings/:id", invalidate, handler.SaveBuilding)
		secured.DELETE("/buildings/:id", invalidate, handler.DeleteBuilding)

		secured.GET("/options", caching, handler.ListOptions)
		secured.POST("/options", invalidate, handler.CreateOption)
		secured.DELETE("/options/:id", invalidate, handler.DeleteOption)

		secured.GET("/rooms", handler.ListRooms)
		secured.POST("/rooms", handler.CreateRoom)
		secured.GET("/rooms/:id", handler.GetRoom)
		secured.PUT("/rooms/:id", handler.UpdateRoom)
		secured.DELETE("/rooms/:id", handler.DeleteRoom)
		secured.PUT("/rooms/:id/status", handler.SetRoomStatus)
		secured.GET("/rooms/:id/availability", handler.RoomAvailability)
		secured.GET("/rooms/:id/reservations", handler.RoomReservations)
		secured.GET("/board", handler.Board)

		secured.GET("/clients", handler.ListClients)
		secured.POST("/clients", handler.CreateClient)
		secured.GET("/clients/:id", handler.GetClient)
		secured.PUT("/clients/:id", handler.UpdateClient)
		secured.DELETE("/clients/:id", handler.DeleteClient)
		secured.GET("/clients/:id/reservations", handler.ClientReservations)

		secured.GET("/blacklist", handler.ListBlacklist)
		secured.POST("/blacklist", handler.AddToBlacklist)
		secured.DELETE("/blacklist/:client_id", handler.RemoveFromBlacklist)

		secured.GET("/reservations", handler.ListReservations)
		secured.POST("/reservations", handler.CreateReservation)
		secured.GET("/reservations/:id", handler.GetReservation)
		secured.DELETE("/reservations/:id", handler.CancelReservation)
		secured.GET("/reservations/:id/payments", handler.ReservationPayments)
		secured.POST("/reservations/:id/payments", handler.RecordPayment)
		secured.DELETE("/payments/:id", handler.RemovePayment)

		secured.GET("/finances", handler.ListFinances)
		secured.POST("/finances", handler.CreateFinance)
		secured.GET("/finances/summary", handler.FinanceSummary)
		secured.POST("/finances/client-spend", handler.RecordClientSpend)
		secured.PUT("/finances/:id", handler.UpdateFinance)
		secured.DELETE("/finances/:id", handler.DeleteFinance)
		secured.DELETE("/finances", mw.RequireRoot(), handler.ClearFinances)

		secured.GET("/reports/top-clients", handler.TopClients)
		secured.GET("/reports/top-rooms", handler.TopRooms)

		secured.GET("/subscriptions", handler.GetSubscription)
		secured.PUT("/subscriptions", handler.PutSubscription)
		secured.DELETE("/subscriptions", handler.DeleteSubscription)
	}

	users := secured.Group("/users", mw.RequireRoot())
	{
		users.GET("", handler.ListUsers)
		users.POST("", handler.CreateUser)
		users.PUT("/:id/password", handler.ChangePassword)
		users.DELETE("/:id", handler.DeleteUser)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AddAllowHeaders("Authorization")
	return cfg
}
