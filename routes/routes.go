package routes

import (
	"log"

	"booknest/config"
	"booknest/controllers"
	"booknest/libs"
	"booknest/middleware"
	"booknest/models"
	"booknest/repositories"
	"booknest/services"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func SetupRoutes(router *gin.Engine, cfg *config.Config) {
	var cart repositories.CartStore
	if models.RedisClient != nil {
		cart = repositories.NewRedisCartStore(models.RedisClient)
	} else {
		cart = repositories.NewMemoryCartStore()
	}

	orderRepo := repositories.NewPgOrderRepository()
	userRepo := repositories.NewPgUserRepository()

	gateway := libs.NewRazorpayClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayBaseURL)
	verifier := libs.NewGoogleAuthVerifier(cfg.GoogleClientID)

	mailer, err := models.NewEmailService()
	if err != nil {
		log.Printf("Email service disabled: %v", err)
	}

	var orderMailer services.Mailer
	var accountMailer services.AccountMailer
	if mailer != nil {
		orderMailer = mailer
		accountMailer = mailer
	}

	authCtrl := controllers.NewAuthController(
		services.NewAuthService(userRepo, verifier, accountMailer))
	bookCtrl := controllers.NewBookController()
	cartCtrl := controllers.NewCartController(cart, gateway)
	orderCtrl := controllers.NewOrderController(
		services.NewCheckoutService(orderRepo, cart, orderMailer, cfg.RazorpayKeySecret),
		services.NewOrderService(orderRepo, gateway, orderMailer))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	router.POST("/auth/register", authCtrl.Register)
	router.POST("/auth/login", authCtrl.Login)
	router.POST("/auth/google", authCtrl.GoogleLogin)
	router.POST("/auth/forgot-password", authCtrl.ForgotPassword)
	router.POST("/auth/reset-password", authCtrl.ResetPassword)
	router.GET("/books", bookCtrl.ListBooks)
	router.GET("/books/:id", bookCtrl.GetBook)

	auth := router.Group("/")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.GET("/profile", authCtrl.GetProfile)
		auth.PUT("/profile", authCtrl.UpdateProfile)
		auth.PUT("/profile/change-password", authCtrl.ChangePassword)

		auth.GET("/cart", cartCtrl.GetCart)
		auth.POST("/cart", cartCtrl.AddToCart)
		auth.DELETE("/cart/:bookId", cartCtrl.RemoveFromCart)

		auth.POST("/orders", orderCtrl.PlaceOrder)
		auth.POST("/orders/verify-payment", orderCtrl.VerifyPayment)
		auth.GET("/orders", orderCtrl.ListOrders)
		auth.GET("/orders/:id", orderCtrl.TrackOrder)
		auth.PUT("/orders/:id/cancel", orderCtrl.CancelOrder)
	}
}
