package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// crawlers are allowed everywhere, AI crawlers included.
var crawlers = []string{
	"*",
	"GPTBot",
	"ChatGPT-User",
	"Claude-Web",
	"Anthropic-AI",
	"Google-Extended",
	"Bingbot",
}

type RobotsController struct {
	router  *gin.RouterGroup
	siteURL string
}

func NewRobotsController(router *gin.RouterGroup, siteURL string) *RobotsController {
	return &RobotsController{
		router:  router,
		siteURL: strings.TrimRight(siteURL, "/"),
	}
}

func (rc *RobotsController) SetupRoutes() {
	rc.router.GET("/robots.txt", rc.robots)
}

func (rc *RobotsController) robots(c *gin.Context) {
	c.String(http.StatusOK, RobotsTxt(rc.siteURL))
}

// RobotsTxt renders the robots.txt body for siteURL.
func RobotsTxt(siteURL string) string {
	var b strings.Builder
	for _, agent := range crawlers {
		b.WriteString("User-Agent: " + agent + "\n")
		b.WriteString("Allow: /\n\n")
	}
	b.WriteString("Sitemap: " + strings.TrimRight(siteURL, "/") + "/sitemap.xml\n")
	return b.String()
}
