package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"route-backend/internal/config"
)

func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CorsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Company-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	return c.Handler
}
