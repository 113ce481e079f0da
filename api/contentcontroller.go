package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Public read endpoints, served from the content caches.
func registerContentRoutes(r *gin.Engine, s *Server) {
	g := r.Group("/api", s.requireReady)
	g.GET("/profile", s.handleGetProfile)
	g.GET("/blogs", s.handleListBlogs)
	g.GET("/blogs/:id", s.handleGetBlog)
	g.GET("/projects", s.handleListProjects)
	g.GET("/projects/:id", s.handleGetProject)
	g.GET("/categories", s.handleListCategories)
	g.GET("/featured", s.handleFeatured)
}

func (s *Server) handleGetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, s.content.Profile())
}

func (s *Server) handleListBlogs(c *gin.Context) {
	c.JSON(http.StatusOK, s.content.Articles())
}

func (s *Server) handleGetBlog(c *gin.Context) {
	article, err := s.content.ArticleByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not found"})
		return
	}
	c.JSON(http.StatusOK, article)
}

func (s *Server) handleListProjects(c *gin.Context) {
	c.JSON(http.StatusOK, s.content.Projects())
}

func (s *Server) handleGetProject(c *gin.Context) {
	project, err := s.content.ProjectByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not found"})
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) handleListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, s.content.Categories())
}

// handleFeatured serves the landing-page highlight subsets.
func (s *Server) handleFeatured(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"blogs":    s.content.FeaturedArticles(),
		"projects": s.content.FeaturedProjects(),
	})
}
