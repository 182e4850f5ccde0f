package middleware

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the storefront origins: the local dev server plus
// whatever FRONTEND_URL (the deployed storefront, also used in reset-link
// emails) and ORIGIN_URL name.
func CORSMiddleware() gin.HandlerFunc {
	allowedOrigins := []string{
		"http://localhost:5173",
	}
	if frontend := os.Getenv("FRONTEND_URL"); frontend != "" {
		allowedOrigins = append(allowedOrigins, frontend)
	}
	if origin := os.Getenv("ORIGIN_URL"); origin != "" {
		allowedOrigins = append(allowedOrigins, origin)
	}

	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	})
}
