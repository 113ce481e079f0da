package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"studio/content"
	"studio/feed"
	"studio/session"
)

// Server bundles the services the HTTP handlers work against.
type Server struct {
	content  *content.Service
	sessions *session.Manager
	importer *feed.Importer
	tokens   *TokenIssuer
}

// NewServer creates the API server. importer may be nil to disable
// feed imports.
func NewServer(contentSvc *content.Service, sessions *session.Manager, importer *feed.Importer, tokens *TokenIssuer) *Server {
	return &Server{
		content:  contentSvc,
		sessions: sessions,
		importer: importer,
		tokens:   tokens,
	}
}

// NewRouter constructs a Gin engine with all routes registered.
// corsOrigins lists allowed browser origins; empty keeps same-origin.
func NewRouter(s *Server, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if len(corsOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = corsOrigins
		cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
		cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
		r.Use(cors.New(cfg))
	}

	registerHealthRoutes(r, s)
	registerContentRoutes(r, s)
	registerAuthRoutes(r, s)
	registerStudioRoutes(r, s)
	return r
}

// requireReady holds public content reads until the initial load has
// settled, so clients never observe a half-populated cache.
func (s *Server) requireReady(c *gin.Context) {
	if !s.content.Ready() {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "content is still loading",
		})
		return
	}
	c.Next()
}

// requireAuth guards studio routes: the session state must be
// resolved, the bearer token must verify, and an identity must be
// signed in.
func (s *Server) requireAuth(c *gin.Context) {
	select {
	case <-s.sessions.Resolved():
	case <-c.Request.Context().Done():
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "session state unresolved",
		})
		return
	}

	email, err := s.tokens.Verify(bearerToken(c))
	if err != nil {
		unauthorized(c)
		return
	}
	if !s.sessions.IsAuthenticated() {
		unauthorized(c)
		return
	}
	c.Set("email", email)
	c.Next()
}

func bearerToken(c *gin.Context) string {
	const prefix = "Bearer "
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, prefix) {
		return strings.TrimPrefix(h, prefix)
	}
	return ""
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   "authentication required",
	})
}

func registerHealthRoutes(r *gin.Engine, s *Server) {
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"ready":  s.content.Ready(),
		})
	})
}

// Tagged-result response helpers mirroring the original studio
// contract: every mutation answers {success, ...}.

func respondOK(c *gin.Context, extra gin.H) {
	out := gin.H{"success": true}
	for k, v := range extra {
		out[k] = v
	}
	c.JSON(http.StatusOK, out)
}

func respondError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}
