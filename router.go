package main

import (
	"github.com/gauravsaxena1997/punit-portfolio/internal/config"
	"github.com/gauravsaxena1997/punit-portfolio/internal/controller"
	"github.com/gauravsaxena1997/punit-portfolio/internal/mailer"
	"github.com/gauravsaxena1997/punit-portfolio/internal/middleware"

	"github.com/gin-gonic/gin"
)

func newRouter(cfg config.Config, limiter controller.RateLimiter, notifier mailer.Notifier) *gin.Engine {
	engine := gin.New()
	// Client keys come from proxy headers in the contact controller; gin's own
	// ClientIP is pinned to the peer address.
	_ = engine.SetTrustedProxies(nil)
	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(controller.ContactResponse{Message: controller.MessageUnexpected}),
	)

	root := engine.Group("")
	api := engine.Group("/api")

	controller.NewContactController(api, limiter, notifier).SetupRoutes()
	controller.NewHealthController(root).SetupRoutes()
	controller.NewRobotsController(root, cfg.SiteURL).SetupRoutes()
	controller.NewStaticController(engine, cfg.StaticDir).SetupRoutes()

	return engine
}
