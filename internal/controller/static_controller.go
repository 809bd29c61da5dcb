package controller

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// StaticController serves the built single-page frontend. Unknown GET paths
// fall back to index.html so client-side routes resolve; /api paths never do.
type StaticController struct {
	engine *gin.Engine
	dir    string
}

func NewStaticController(engine *gin.Engine, dir string) *StaticController {
	return &StaticController{
		engine: engine,
		dir:    dir,
	}
}

func (sc *StaticController) SetupRoutes() {
	indexPath := filepath.Join(sc.dir, "index.html")
	info, err := os.Stat(indexPath)
	if sc.dir == "" || err != nil || info.IsDir() {
		if sc.dir != "" {
			log.Warnf("static index not found at %s, serving API only", indexPath)
		}
		sc.engine.NoRoute(notFound)
		return
	}

	fileServer := http.FileServer(http.Dir(sc.dir))

	sc.engine.NoRoute(func(c *gin.Context) {
		requestPath := c.Request.URL.Path
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			notFound(c)
			return
		}
		if requestPath == "/api" || strings.HasPrefix(requestPath, "/api/") {
			notFound(c)
			return
		}

		cleanPath := strings.TrimPrefix(path.Clean("/"+requestPath), "/")
		if cleanPath != "" {
			candidate := filepath.Join(sc.dir, filepath.FromSlash(cleanPath))
			if fileInfo, errStat := os.Stat(candidate); errStat == nil && !fileInfo.IsDir() {
				fileServer.ServeHTTP(c.Writer, c.Request)
				return
			}
		}
		c.File(indexPath)
	})
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"message": "Not found",
	})
}
