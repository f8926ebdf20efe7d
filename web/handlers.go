package web

import (
	"net/http"
	"time"

	"center-hub/auth"
	"center-hub/domain"
	"center-hub/domain/event"
	"center-hub/errors"
	"center-hub/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (s *Server) handleRegister(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}

	token, err := s.authService.Register(req.Email, req.Password, req.DisplayName)
	if err != nil {
		c.JSON(errors.MapToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}

	token, err := s.authService.Login(req.Email, req.Password)
	if err != nil {
		c.JSON(errors.MapToHTTPStatus(err), gin.H{"error": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// handleContact accepts a visitor inquiry. The inquiry is persisted first,
// then announced to the center's administrator; the admin is resolved from
// the center record, never from the request body.
func (s *Server) handleContact(c *gin.Context) {
	var req auth.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}

	rec, err := s.centerService.SubmitInquiry(c.Request.Context(), req)
	if err != nil {
		c.JSON(errors.MapToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"id": rec.ID})
}

type registerCenterRequest struct {
	ID      string `json:"id" binding:"required"`
	Name    string `json:"name" binding:"required"`
	AdminID string `json:"admin_id" binding:"required"`
}

func (s *Server) handleRegisterCenter(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok || identity.Role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "admins only"})
		return
	}

	var req registerCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}

	if err := s.centerService.RegisterCenter(req.ID, req.Name, req.AdminID); err != nil {
		c.JSON(errors.MapToHTTPStatus(err), gin.H{"error": "center could not be stored"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": req.ID})
}

// handleListInquiries is the offline half of the contact flow: the employee
// reads persisted inquiries later, whether or not they saw the live event.
func (s *Server) handleListInquiries(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok || (identity.Role != domain.RoleCenter && identity.Role != domain.RoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "centers only"})
		return
	}

	var cursor *string
	if raw := c.Query("cursor"); raw != "" {
		cursor = &raw
	}

	inquiries, next, err := s.centerService.ListInquiries(c.Param("id"), cursor)
	if err != nil {
		c.JSON(errors.MapToHTTPStatus(err), gin.H{"error": "inquiries unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"inquiries": inquiries,
		"cursor":    next,
	})
}

type announcementRequest struct {
	Message string `json:"message" binding:"required,max=1000"`
}

func (s *Server) handleAnnouncement(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok || identity.Role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "admins only"})
		return
	}

	var req announcementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}

	rec := s.realtime.PublishAnnouncement(c.Request.Context(), event.AnnouncementCreated{
		ID:      uuid.New(),
		Message: req.Message,
		At:      time.Now().UTC(),
	})
	c.JSON(http.StatusAccepted, gin.H{"id": rec.ID})
}

// handlePoll is the one-shot pull endpoint: every visible event strictly
// after the cursor, plus the cursor to resubmit next time. No session state
// survives the request.
func (s *Server) handlePoll(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no identity"})
		return
	}

	envelopes, next := s.realtime.Poll(c.Query("cursor"), identity)
	c.JSON(http.StatusOK, gin.H{
		"events": envelopes,
		"cursor": next,
	})
}

type postMessageRequest struct {
	Content string `json:"content" binding:"required,max=4000"`
}

func (s *Server) handlePostMessage(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no identity"})
		return
	}

	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}

	rec, err := s.messageService.PostMessage(c.Request.Context(), services.PostMessageCommand{
		ThreadID: c.Param("id"),
		Author:   identity,
		Content:  req.Content,
	})
	if err != nil {
		c.JSON(errors.MapToHTTPStatus(err), gin.H{"error": "message could not be stored"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": rec.ID})
}

func (s *Server) handleGetMessages(c *gin.Context) {
	var cursor *string
	if raw := c.Query("cursor"); raw != "" {
		cursor = &raw
	}

	messages, next, err := s.messageService.GetMessages(c.Param("id"), cursor)
	if err != nil {
		c.JSON(errors.MapToHTTPStatus(err), gin.H{"error": "history unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"cursor":   next,
	})
}

type centerUpdatedRequest struct {
	Name   string   `json:"name" binding:"required"`
	Fields []string `json:"fields" binding:"required,min=1"`
}

// handleCenterUpdated announces a profile change to the center's room.
// Only the center's own account or an admin may announce it.
func (s *Server) handleCenterUpdated(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no identity"})
		return
	}
	if identity.Role != domain.RoleCenter && identity.Role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "centers only"})
		return
	}

	var req centerUpdatedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}

	rec := s.realtime.PublishCenterUpdated(c.Request.Context(), event.CenterUpdated{
		CenterID: c.Param("id"),
		Name:     req.Name,
		Fields:   req.Fields,
		At:       time.Now().UTC(),
	})
	c.JSON(http.StatusAccepted, gin.H{"id": rec.ID})
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.realtime.Stats())
}
