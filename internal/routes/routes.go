package routes

import (
	"os"
	"strings"
	"time"

	"visionnaire_back_end/internal/handlers/admin"
	"visionnaire_back_end/internal/handlers/invoice"
	"visionnaire_back_end/internal/handlers/payement"
	"visionnaire_back_end/internal/handlers/product"
	"visionnaire_back_end/internal/handlers/rendezvous"
	"visionnaire_back_end/internal/handlers/user"
	"visionnaire_back_end/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func allowedOrigins() []string {
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		return strings.Split(env, ",")
	}
	return []string{
		"http://localhost:5173",
		"http://localhost:3000",
		"https://visionnaires.fr",
		"https://www.visionnaires.fr",
	}
}

func RegisterRoutes(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())

	// ========== Public ==========
	api.GET("/products", product.ListProducts)
	api.GET("/products/search", middleware.SearchRateLimit(), product.SearchProducts)
	api.GET("/products/slug/:slug", product.GetProductBySlug)
	api.GET("/products/:id", product.GetProduct)
	api.GET("/products/:id/variants", product.ListVariants)
	api.GET("/brands", product.ListBrands)
	api.GET("/lens-options", product.ListLensOptions)

	api.POST("/promotions/validate", payement.ValidatePromoCode)

	api.POST("/newsletter/subscribe", user.SubscribeNewsletter)
	api.POST("/newsletter/unsubscribe", user.UnsubscribeNewsletter)

	api.GET("/rendezvous/slots", rendezvous.ListAvailableSlots)
	api.POST("/rendezvous/demande", rendezvous.RequestAppointment)

	// Authentification
	api.POST("/auth/register", middleware.RegisterRateLimit(), user.CreateUser)
	api.POST("/auth/login", middleware.LoginRateLimit(), user.Login)
	api.POST("/auth/forgot-password", middleware.ForgotPasswordRateLimit(), user.ForgotPassword)
	api.POST("/auth/reset-password", user.ResetPassword)
	api.GET("/auth/:provider", user.BeginAuth)
	api.GET("/auth/:provider/callback", user.CallbackAuth)

	// Webhooks paiement (signés, pas de JWT)
	api.POST("/webhooks/stripe", payement.StripeWebhook)
	api.POST("/payments/alma/ipn", payement.AlmaIPN)

	// ========== Client connecté ==========
	auth := api.Group("")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/me", user.Me)
		auth.PUT("/me", user.UpdateProfile)

		cart := auth.Group("/cart")
		cart.Use(middleware.CartRateLimit())
		{
			cart.GET("", user.GetCart)
			cart.POST("/items", user.AddToCart)
			cart.PUT("/items", user.UpdateCartItem)
			cart.DELETE("/items/:variantId", user.RemoveFromCart)
			cart.DELETE("", user.ClearCart)
		}

		auth.GET("/addresses", user.ListMyAddresses)
		auth.POST("/addresses", user.CreateAddress)
		auth.PUT("/addresses/:id", user.UpdateAddress)
		auth.DELETE("/addresses/:id", user.DeleteAddress)

		auth.POST("/prescriptions", user.UploadPrescription)
		auth.GET("/prescriptions/url", user.GetPrescriptionURL)

		auth.POST("/orders", payement.CreateOrder)
		auth.GET("/orders", user.GetMyOrders)
		auth.GET("/orders/:id", user.GetOrderByID)
		auth.GET("/orders/:id/invoice", invoice.GetInvoice)
		auth.POST("/orders/:id/invoice/send", invoice.SendInvoice)

		auth.POST("/payments/stripe/intent", payement.CreatePaymentIntent)
		auth.POST("/payments/alma", payement.CreateAlmaPayment)

		auth.POST("/rendezvous", rendezvous.BookAppointment)
		auth.GET("/rendezvous", rendezvous.GetMyAppointments)
		auth.DELETE("/rendezvous/:id", rendezvous.CancelAppointment)
	}

	// ========== Back office ==========
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthRequired(), middleware.RequireAdmin)
	{
		adminGroup.POST("/products", product.CreateProduct)
		adminGroup.PUT("/products/:id", product.UpdateProduct)
		adminGroup.DELETE("/products/:id", product.DeleteProduct)
		adminGroup.POST("/products/:id/variants", product.CreateVariant)
		adminGroup.PUT("/variants/:variantId", product.UpdateVariant)
		adminGroup.DELETE("/variants/:variantId", product.DeleteVariant)
		adminGroup.PUT("/variants/:variantId/stock", product.UpdateStock)
		adminGroup.GET("/variants/:variantId/movements", product.ListStockMovements)

		adminGroup.POST("/lens-options", product.CreateLensOption)
		adminGroup.PUT("/lens-options/:id", product.UpdateLensOption)
		adminGroup.DELETE("/lens-options/:id", product.DeleteLensOption)

		adminGroup.POST("/brands", product.CreateBrand)
		adminGroup.PUT("/brands/:id", product.UpdateBrand)
		adminGroup.DELETE("/brands/:id", product.DeleteBrand)

		adminGroup.GET("/promotions", payement.ListPromotions)
		adminGroup.POST("/promotions", payement.CreatePromotion)
		adminGroup.PUT("/promotions/:code", payement.UpdatePromotion)
		adminGroup.DELETE("/promotions/:code", payement.DeletePromotion)

		adminGroup.GET("/orders", admin.ListOrders)
		adminGroup.GET("/orders/:id", admin.GetOrder)
		adminGroup.PUT("/orders/:id/status", admin.UpdateOrderStatus)
		adminGroup.PUT("/orders/:id/tracking", admin.SetTrackingNumber)
		adminGroup.PUT("/orders/:id/items/:itemId/prescription", admin.ValidatePrescription)

		adminGroup.GET("/rendezvous", rendezvous.ListAppointments)
		adminGroup.POST("/rendezvous/slots", rendezvous.CreateSlot)
		adminGroup.DELETE("/rendezvous/slots/:id", rendezvous.DeleteSlot)
	}
}
