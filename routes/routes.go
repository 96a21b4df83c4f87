package routes

import (
	"net/http"

	"attira/addresses"
	"attira/admin"
	"attira/auth"
	"attira/cart"
	"attira/invoice"
	"attira/middleware"
	"attira/orders"
	"attira/products"
	"attira/ratelim"

	"github.com/julienschmidt/httprouter"
)

// AddAuthRoutes wires customer authentication. Credential endpoints sit
// behind the rate limiter.
func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/verify-registration", rl.Limit(auth.VerifyRegistration))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/forgot-password", rl.Limit(auth.ForgotPassword))
	router.POST("/api/auth/reset-password", rl.Limit(auth.ResetPassword))
	router.GET("/api/auth/me", middleware.Authenticate(auth.Me))
	router.GET("/api/auth/logout", middleware.Authenticate(auth.Logout))
}

// AddAdminRoutes wires back-office authentication.
func AddAdminRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/admin/login", rl.Limit(admin.Login))
	router.POST("/api/admin/seed", rl.Limit(admin.Seed))
	router.GET("/api/admin/me", middleware.AuthenticateAdmin(admin.Me))
	router.GET("/api/admin/logout", middleware.AuthenticateAdmin(admin.Logout))
}

// AddProductRoutes wires the catalog: public reads, admin writes.
func AddProductRoutes(router *httprouter.Router) {
	router.GET("/api/products", products.GetProducts)
	router.GET("/api/products/:id", products.GetProduct)

	router.POST("/api/products", middleware.AuthenticateAdmin(products.CreateProduct))
	router.PUT("/api/products/:id", middleware.AuthenticateAdmin(products.UpdateProduct))
	router.DELETE("/api/products/:id", middleware.AuthenticateAdmin(products.DeleteProduct))
	router.POST("/api/products/:id/image", middleware.AuthenticateAdmin(products.UploadProductImage))
}

// AddUserRoutes wires the cart and address book, all owner-scoped.
func AddUserRoutes(router *httprouter.Router) {
	router.GET("/api/users/cart", middleware.Authenticate(cart.GetCart))
	router.POST("/api/users/cart", middleware.Authenticate(cart.UpdateCart))
	router.DELETE("/api/users/cart", middleware.Authenticate(cart.ClearCart))

	router.GET("/api/users/addresses", middleware.Authenticate(addresses.GetAddresses))
	router.POST("/api/users/addresses", middleware.Authenticate(addresses.AddAddress))
	router.PUT("/api/users/addresses/:id", middleware.Authenticate(addresses.UpdateAddress))
	router.DELETE("/api/users/addresses/:id", middleware.Authenticate(addresses.DeleteAddress))
}

// AddOrderRoutes wires checkout and order management. Checkout endpoints
// are rate limited.
func AddOrderRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/orders/cod", rl.Limit(middleware.Authenticate(orders.PlaceCODOrder)))
	router.POST("/api/orders/razorpay", rl.Limit(middleware.Authenticate(orders.CreateRazorpayOrder)))
	router.POST("/api/orders/payment-success", rl.Limit(middleware.Authenticate(orders.PaymentSuccess)))

	router.GET("/api/orders/my-orders", middleware.Authenticate(orders.GetUserOrders))
	router.GET("/api/orders/my-orders/:id", middleware.Authenticate(orders.GetUserOrder))
	router.GET("/api/orders/my-orders/:id/invoice", middleware.Authenticate(invoice.DownloadInvoice))

	// admin order routes live under /api/admin to keep the /api/orders
	// subtree free of wildcard conflicts
	router.GET("/api/admin/orders", middleware.AuthenticateAdmin(orders.GetAdminOrders))
	router.GET("/api/admin/orders/:id", middleware.AuthenticateAdmin(orders.GetAdminOrder))
	router.PUT("/api/admin/orders/:id/status", middleware.AuthenticateAdmin(orders.UpdateOrderStatus))
}

// AddStaticRoutes serves uploaded product images.
func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/productpic/*filepath", http.Dir("./static/productpic"))
}
