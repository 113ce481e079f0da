package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required"`
}

type passwordRequest struct {
	Password string `json:"password" binding:"required"`
}

type confirmResetRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func registerAuthRoutes(r *gin.Engine, s *Server) {
	g := r.Group("/api/auth")
	g.POST("/login", s.handleLogin)
	g.POST("/reset-password", s.handleResetPassword)
	g.POST("/reset-password/confirm", s.handleConfirmReset)

	protected := g.Group("", s.requireAuth)
	protected.POST("/logout", s.handleLogout)
	protected.POST("/password", s.handleUpdatePassword)
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := s.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, http.StatusUnauthorized, err)
		return
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondOK(c, gin.H{
		"token": token,
		"user":  gin.H{"email": user.Email},
	})
}

func (s *Server) handleLogout(c *gin.Context) {
	if err := s.sessions.Logout(c.Request.Context()); err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondOK(c, nil)
}

func (s *Server) handleResetPassword(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := s.sessions.ResetPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	respondOK(c, nil)
}

func (s *Server) handleConfirmReset(c *gin.Context) {
	var req confirmResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := s.sessions.ConfirmPasswordReset(c.Request.Context(), req.Token, req.Password); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	respondOK(c, nil)
}

func (s *Server) handleUpdatePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := s.sessions.UpdatePassword(c.Request.Context(), req.Password); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	respondOK(c, nil)
}
