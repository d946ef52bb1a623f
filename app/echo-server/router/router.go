package router

import (
	"denimatch/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupAccountRoutes(api *echo.Group, handler *rest.AccountHandler, authRequired echo.MiddlewareFunc) {
	accounts := api.Group("/accounts")

	accounts.POST("/register", handler.Register)
	accounts.POST("/login", handler.Login)

	accounts.POST("/logout", handler.Logout, authRequired)
	accounts.GET("/me", handler.Me, authRequired)
}

func SetupRecommendRoutes(api *echo.Group, handler *rest.RecommendHandler, authRequired echo.MiddlewareFunc) {
	reco := api.Group("/recommendations", authRequired)

	reco.POST("", handler.Generate)
	reco.GET("/:run_id", handler.GetRun)
	reco.POST("/feedback", handler.Feedback)
}

func SetupTasteRoutes(api *echo.Group, handler *rest.TasteHandler, authRequired echo.MiddlewareFunc) {
	profile := api.Group("/profiles/me", authRequired)

	profile.GET("/taste", handler.GetTaste)
	profile.GET("/taste/drift", handler.GetDrift)
}

func SetupVibeRoutes(api *echo.Group, handler *rest.VibeAdminHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	vibes := api.Group("/vibes")

	vibes.GET("", handler.List, authRequired)
	vibes.GET("/:slug", handler.Get, authRequired)

	admin := api.Group("/admin/vibes", authRequired, adminOnly)
	admin.PUT("", handler.Upsert)
	admin.DELETE("/:slug", handler.Delete)
}

func SetupLookAdminRoutes(api *echo.Group, handler *rest.LookAdminHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin/looks", authRequired, adminOnly)

	admin.POST("", handler.Create)
	admin.GET("", handler.List)
	admin.GET("/:id", handler.Get)
	admin.PUT("/:id", handler.Update)
	admin.POST("/:id/embedding", handler.RefreshEmbedding)
	admin.DELETE("/:id", handler.Delete)
}
