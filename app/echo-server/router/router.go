package router

import (
	"github.com/labstack/echo/v4"

	"github.com/pythonvista/intelligent-libary-sub000/internal/rest"
)

func SetupAccountRoutes(api *echo.Group, handler *rest.AccountHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)

	users.POST("/logout", handler.Logout, authRequired)
	users.GET("/me", handler.GetMe, authRequired)
	users.GET("", handler.GetAllUsers, authRequired, adminOnly)
	users.GET("/:id", handler.GetUserByID, authRequired, adminOnly)
	users.PUT("/:id", handler.UpdateUser, authRequired, adminOnly)
	users.DELETE("/:id", handler.DeleteUser, authRequired, adminOnly)
}

func SetupBookRoutes(api *echo.Group, handler *rest.BookHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	books := api.Group("/books")

	books.GET("", handler.GetAllBooks, authRequired)
	books.GET("/popular", handler.GetPopularBooks, authRequired)
	books.GET("/:id", handler.GetBookByID, authRequired)
	books.POST("", handler.CreateBook, authRequired, adminOnly)
	books.PUT("/:id", handler.UpdateBook, authRequired, adminOnly)
	books.DELETE("/:id", handler.DeleteBook, authRequired, adminOnly)

}

func SetLoansRoutes(api *echo.Group, handler *rest.LendingHandler, authRequired echo.MiddlewareFunc) {
	loans := api.Group("/loans", authRequired)
	loans.POST("/borrow", handler.Borrow)
	loans.POST("/return", handler.Return)
	loans.GET("", handler.GetUserLoans)
}

func SetRecommendationRoutes(api *echo.Group, handler *rest.RecommendHandler, expHandler *rest.ExperimentHandler, authRequired echo.MiddlewareFunc) {
	reco := api.Group("/recommendations", authRequired)
	reco.GET("", handler.Recommend)
	reco.GET("/trending", handler.Trending)
	reco.POST("/feedback", expHandler.Feedback)
}

func SetExperimentAdminRoutes(api *echo.Group, handler *rest.ExperimentHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin/experiments", authRequired, adminOnly)

	admin.GET("/metrics", handler.AllMetrics)
}
