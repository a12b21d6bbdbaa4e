package app

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ntkr/core/internal/middleware"
	"github.com/ntkr/core/internal/modules/ai"
	"github.com/ntkr/core/internal/modules/auth"
	"github.com/ntkr/core/internal/modules/devtools"
	"github.com/ntkr/core/internal/modules/enrichment"
	"github.com/ntkr/core/internal/modules/health"
	"github.com/ntkr/core/internal/modules/summaries"
	"github.com/ntkr/core/internal/modules/voicenote"
	"github.com/ntkr/core/internal/pkg/blob"
	pkgredis "github.com/ntkr/core/internal/pkg/redis"
	"github.com/ntkr/core/internal/pkg/response"
	"github.com/ntkr/core/internal/pkg/taskqueue"
)

func (a *App) registerRoutes(rc *pkgredis.Client, store blob.Store) {
	r := a.router
	db := a.db

	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	// Idempotence runs on every mutating route (requires Redis).
	r.Use(middleware.Idempotence(rc.Raw()))
	r.Use(middleware.SessionGate())

	// Shared services
	aiSvc := ai.NewService(a.cfg.AI)
	taskSvc := taskqueue.NewService(rc)

	noteSvc := voicenote.NewService(db, store, a.logger)
	enrichSvc := enrichment.NewService(db, aiSvc, taskSvc, a.logger)
	summarySvc := summaries.NewService(db, aiSvc, a.logger)
	// Completed enrichments refresh the day's summary; wired late to keep
	// construction order simple.
	enrichSvc.SetDailyRegenerator(summarySvc)

	health.RegisterRoutes(r.Group(""), db)

	api := r.Group("/api")
	auth.NewHandler(a.cfg.Auth, !a.cfg.IsDev(), a.logger).RegisterRoutes(api)
	voicenote.NewHandler(noteSvc, enrichSvc, a.logger).RegisterRoutes(api)
	enrichment.NewHandler(enrichSvc).RegisterRoutes(api)
	summaries.NewHandler(summarySvc).RegisterRoutes(api)
	if a.cfg.DevTools.Enable {
		a.logger.Warn("dev tools endpoints enabled")
		devtools.NewHandler(db, a.logger).RegisterRoutes(api)
	}

	a.registerStatic()
}

// registerStatic serves the single-page frontend from static_dir. Unknown
// non-API GET paths fall back to index.html so client-side routing works.
func (a *App) registerStatic() {
	staticDir := strings.TrimSpace(a.cfg.StaticDir)

	a.router.NoRoute(func(c *gin.Context) {
		p := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || strings.HasPrefix(p, "/api/") || staticDir == "" {
			response.NotFound(c)
			return
		}

		candidate := filepath.Join(staticDir, filepath.Clean("/"+p))
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			c.File(candidate)
			return
		}
		index := filepath.Join(staticDir, "index.html")
		if _, err := os.Stat(index); err == nil {
			c.File(index)
			return
		}
		response.NotFound(c)
	})
}
