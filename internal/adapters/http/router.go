package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/relaychat/relay/internal/adapters/ws"
	"github.com/relaychat/relay/internal/app"
	"github.com/relaychat/relay/internal/config"
)

const grantKey = "access_granted"

func SetupRouter(ctx context.Context, cfg *config.Config, router *app.SessionRouter) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("RelaySession", store))

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")
	api.POST("/access", accessHandler(cfg))

	ctl := ws.NewController(router, cfg)
	api.GET("/ws", requireAccess(cfg), func(c *gin.Context) {
		ctl.Handle(ctx, c)
	})

	return r
}

// accessHandler is the whole gate: one equality check against the
// configured secret, remembered in the cookie session.
func accessHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p struct {
			Code string `json:"code"`
		}
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad_payload"})
			return
		}
		if cfg.Secret != "" && p.Code != cfg.Secret {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong_code"})
			return
		}
		sess := sessions.Default(c)
		sess.Set(grantKey, true)
		if err := sess.Save(); err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("session save")
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// requireAccess admits the websocket upgrade when the session holds the
// grant or the code travels as a query parameter. No secret, open gate.
func requireAccess(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Secret == "" {
			c.Next()
			return
		}
		if granted, _ := sessions.Default(c).Get(grantKey).(bool); granted {
			c.Next()
			return
		}
		if c.Query("code") == cfg.Secret {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "access_denied"})
	}
}
