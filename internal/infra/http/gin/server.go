package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"shiftstay/internal/infra/config"
	"shiftstay/internal/infra/obs"
)

type ListingHTTP interface {
	Catalog(c *gin.Context)
	Detail(c *gin.Context)
}

type MatchHTTP interface {
	Search(c *gin.Context)
}

type AvailabilityHTTP interface {
	Calendar(c *gin.Context)
	MonthGrid(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
	Accept(c *gin.Context)
	Decline(c *gin.Context)
	Cancel(c *gin.Context)
}

type HostListingHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Publish(c *gin.Context)
	Unpublish(c *gin.Context)
	UploadPhoto(c *gin.Context)
	BlockDates(c *gin.Context)
	UnblockDates(c *gin.Context)
	Bookings(c *gin.Context)
}

type ReviewsHTTP interface {
	Submit(c *gin.Context)
	Update(c *gin.Context)
	ListByListing(c *gin.Context)
}

type MeHTTP interface {
	ListBookings(c *gin.Context)
}

type GeocodeHTTP interface {
	Suggest(c *gin.Context)
}

type AuthHTTP interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	Me(c *gin.Context)
}

type Handlers struct {
	Listing        ListingHTTP
	Match          MatchHTTP
	Availability   AvailabilityHTTP
	Booking        BookingHTTP
	HostListing    HostListingHTTP
	Reviews        ReviewsHTTP
	Me             MeHTTP
	Geocode        GeocodeHTTP
	Auth           AuthHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(corsConfig(cfg)))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
	}
	if h.Listing != nil {
		api.GET("/listings", h.Listing.Catalog)
		api.GET("/listings/:id", h.Listing.Detail)
	}
	if h.Match != nil {
		api.GET("/matches", h.Match.Search)
	}
	if h.Availability != nil {
		api.GET("/listings/:id/calendar", h.Availability.Calendar)
		api.GET("/listings/:id/calendar/grid", h.Availability.MonthGrid)
	}
	if h.Reviews != nil {
		api.GET("/listings/:id/reviews", h.Reviews.ListByListing)
		api.POST("/bookings/:id/review", h.Reviews.Submit)
		api.PATCH("/reviews/:id", h.Reviews.Update)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.POST("/bookings/:id/accept", h.Booking.Accept)
		api.POST("/bookings/:id/decline", h.Booking.Decline)
		api.POST("/bookings/:id/cancel", h.Booking.Cancel)
	}
	if h.Geocode != nil {
		api.GET("/geocode/suggest", h.Geocode.Suggest)
	}
	if h.HostListing != nil {
		hostGroup := api.Group("/host/listings")
		hostGroup.GET("", h.HostListing.List)
		hostGroup.POST("", h.HostListing.Create)
		hostGroup.PUT("/:id", h.HostListing.Update)
		hostGroup.POST("/:id/publish", h.HostListing.Publish)
		hostGroup.POST("/:id/unpublish", h.HostListing.Unpublish)
		hostGroup.POST("/:id/photos", h.HostListing.UploadPhoto)
		hostGroup.POST("/:id/blocks", h.HostListing.BlockDates)
		hostGroup.DELETE("/:id/blocks/:blockID", h.HostListing.UnblockDates)
		api.GET("/host/bookings", h.HostListing.Bookings)
	}
	if h.Me != nil {
		meGroup := api.Group("/me")
		meGroup.GET("/bookings", h.Me.ListBookings)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func corsConfig(cfg config.Config) cors.Config {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
