package http

import (
	"github.com/gin-gonic/gin"
	"github.com/iyhunko/shop-with-sqs/internal/http/controller"
	"github.com/iyhunko/shop-with-sqs/internal/http/middleware"
)

// Controllers groups the handlers mounted by InitRouter.
type Controllers struct {
	Base     *controller.Controller
	Products *controller.ProductController
	Orders   *controller.OrderController
	Messages *controller.MessageController
}

func InitRouter(server *gin.Engine, ctr Controllers) *gin.Engine {
	server.Use(middleware.Recovery())
	server.Use(middleware.Logger())
	server.Use(middleware.CORS())

	server.GET("/ping", ctr.Base.Ping)

	api := server.Group("/api")

	products := api.Group("/products")
	{
		products.GET("", ctr.Products.ListProducts)
		products.POST("", ctr.Products.CreateProduct)
		products.PUT("/:id", ctr.Products.UpdateProduct)
		products.DELETE("/:id", ctr.Products.DeleteProduct)
		products.POST("/:id/reviews", ctr.Products.AddReview)
	}

	orders := api.Group("/orders")
	{
		orders.GET("", ctr.Orders.ListOrders)
		orders.POST("", ctr.Orders.CreateOrder)
		orders.PUT("/:id", ctr.Orders.UpdateOrder)
	}

	messages := api.Group("/messages")
	{
		messages.GET("", ctr.Messages.ListMessages)
		messages.POST("", ctr.Messages.CreateMessage)
	}

	return server
}
