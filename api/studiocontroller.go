package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"studio/docstore"
	"studio/types"
)

// Studio endpoints: everything that writes content. All JWT-guarded.
func registerStudioRoutes(r *gin.Engine, s *Server) {
	g := r.Group("/api", s.requireAuth)

	g.POST("/blogs", s.handleCreateBlog)
	g.PUT("/blogs/:id", s.handleUpdateBlog)
	g.DELETE("/blogs/:id", s.handleDeleteBlog)

	g.POST("/projects", s.handleCreateProject)
	g.PUT("/projects/:id", s.handleUpdateProject)
	g.DELETE("/projects/:id", s.handleDeleteProject)

	g.POST("/categories", s.handleCreateCategory)
	g.DELETE("/categories/:id", s.handleDeleteCategory)

	g.PUT("/profile", s.handleUpdateProfile)

	g.POST("/uploads", s.handleUpload)
	g.DELETE("/uploads/*path", s.handleDeleteUpload)

	if s.importer != nil {
		g.POST("/import/feed", s.handleImportFeed)
	}
}

func (s *Server) handleCreateBlog(c *gin.Context) {
	var article types.Article
	if err := c.ShouldBindJSON(&article); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	id, err := s.content.AddArticle(c.Request.Context(), article)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondOK(c, gin.H{"id": id})
}

func (s *Server) handleUpdateBlog(c *gin.Context) {
	var data docstore.Document
	if err := c.ShouldBindJSON(&data); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	if err := s.content.UpdateArticle(c.Request.Context(), c.Param("id"), data); err != nil {
		respondError(c, mutationStatus(err), err)
		return
	}
	respondOK(c, nil)
}

func (s *Server) handleDeleteBlog(c *gin.Context) {
	if err := s.content.DeleteArticle(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondOK(c, nil)
}

func (s *Server) handleCreateProject(c *gin.Context) {
	var project types.Project
	if err := c.ShouldBindJSON(&project); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	id, err := s.content.AddProject(c.Request.Context(), project)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondOK(c, gin.H{"id": id})
}

func (s *Server) handleUpdateProject(c *gin.Context) {
	var data docstore.Document
	if err := c.ShouldBindJSON(&data); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	if err := s.content.UpdateProject(c.Request.Context(), c.Param("id"), data); err != nil {
		respondError(c, mutationStatus(err), err)
		return
	}
	respondOK(c, nil)
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	if err := s.content.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondOK(c, nil)
}

// handleCreateCategory accepts either a bare JSON string ("Foo") or a
// structured {"name": "Foo", "type": "blog"} body, matching what the
// studio forms send.
func (s *Server) handleCreateCategory(c *gin.Context) {
	var raw json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	var (
		id  string
		err error
	)
	var name string
	if json.Unmarshal(raw, &name) == nil {
		id, err = s.content.AddCategoryName(c.Request.Context(), name)
	} else {
		var category types.Category
		if err := json.Unmarshal(raw, &category); err != nil {
			respondError(c, http.StatusBadRequest, err)
			return
		}
		id, err = s.content.AddCategory(c.Request.Context(), category)
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondOK(c, gin.H{"id": id})
}

func (s *Server) handleDeleteCategory(c *gin.Context) {
	if err := s.content.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondOK(c, nil)
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var data docstore.Document
	if err := c.ShouldBindJSON(&data); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	if err := s.content.UpdateProfile(c.Request.Context(), data); err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondOK(c, nil)
}

// handleUpload stores a multipart file under a millisecond-timestamped
// key so repeated uploads of the same filename never collide.
func (s *Server) handleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("file field is required: %w", err))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	key := uploadKey(fileHeader.Filename)
	url, err := s.content.UploadFile(c.Request.Context(), file, key,
		fileHeader.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondOK(c, gin.H{"url": url, "path": key})
}

func (s *Server) handleDeleteUpload(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("path"), "/")
	if key == "" {
		respondError(c, http.StatusBadRequest, fmt.Errorf("upload path is required"))
		return
	}
	if err := s.content.DeleteFile(c.Request.Context(), key); err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondOK(c, nil)
}

func uploadKey(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.ReplaceAll(base, " ", "_")
	return fmt.Sprintf("uploads/%d_%s", time.Now().UnixMilli(), base)
}

func mutationStatus(err error) int {
	if err == docstore.ErrNotFound {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
