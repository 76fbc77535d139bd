package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"PolicyPal/internal/logging"
	"PolicyPal/internal/ports"
)

type RouterConfig struct {
	AuthHandler    *AuthHandler
	BillHandler    *BillHandler
	UserHandler    *UserHandler
	Tokens         ports.TokenIssuer
	Logger         *logging.Logger
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(cfg.Logger))
	r.Use(corsMiddleware(cfg.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := r.Group("/api")
	{
		// Public
		if cfg.AuthHandler != nil {
			api.POST("/auth/register", cfg.AuthHandler.Register)
			api.POST("/auth/login", cfg.AuthHandler.Login)
		}
		if cfg.BillHandler != nil {
			api.GET("/bills", cfg.BillHandler.List)
			api.GET("/bills/trending", cfg.BillHandler.Trending)
			api.GET("/bills/:id/full", cfg.BillHandler.Full)
			api.GET("/bills/:id/demographics", cfg.BillHandler.Demographics)
			api.GET("/search", cfg.BillHandler.Search)
		}
	}

	protected := api.Group("/")
	protected.Use(requireAuth(cfg.Tokens))
	{
		if cfg.BillHandler != nil {
			protected.POST("/bills/:id/vote", cfg.BillHandler.Vote)
		}
		if cfg.UserHandler != nil {
			protected.GET("/user/profile", cfg.UserHandler.GetProfile)
			protected.PUT("/user/profile", cfg.UserHandler.UpdateProfile)
			protected.GET("/user/votes", cfg.UserHandler.Votes)
		}
	}

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
