package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/questward/lorekeeper/internal/journal"
	"github.com/questward/lorekeeper/internal/observe"
)

// createSessionRequest is the request body for POST /api/sessions.
type createSessionRequest struct {
	Title          string                         `json:"title"`
	Content        string                         `json:"content"`
	SessionType    journal.SessionType            `json:"session_type"`
	StructuredData *journal.StructuredSessionData `json:"structured_data,omitempty"`
}

func (s *Server) listSessions(c *gin.Context) {
	sessions, err := s.sessions.List(c.Request.Context())
	if err != nil {
		s.storeError(c, "sessions", "list", err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (s *Server) createSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.SessionType != "" && !req.SessionType.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session_type: " + string(req.SessionType)})
		return
	}

	created, err := s.sessions.Add(c.Request.Context(), journal.Session{
		Title:          req.Title,
		Content:        req.Content,
		SessionType:    req.SessionType,
		StructuredData: req.StructuredData,
	})
	if err != nil {
		s.storeError(c, "sessions", "add", err)
		return
	}
	c.JSON(http.StatusOK, created)
}

func (s *Server) getSession(c *gin.Context) {
	id := c.Param("id")
	session, err := s.sessions.Get(c.Request.Context(), id)
	if errors.Is(err, journal.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found: " + id})
		return
	}
	if err != nil {
		s.storeError(c, "sessions", "get", err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) updateSession(c *gin.Context) {
	id := c.Param("id")

	var update journal.SessionUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if update.SessionType != nil && !update.SessionType.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session_type: " + string(*update.SessionType)})
		return
	}

	session, err := s.sessions.Update(c.Request.Context(), id, update)
	if errors.Is(err, journal.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found: " + id})
		return
	}
	if err != nil {
		s.storeError(c, "sessions", "update", err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) deleteSession(c *gin.Context) {
	id := c.Param("id")
	err := s.sessions.Remove(c.Request.Context(), id)
	if errors.Is(err, journal.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found: " + id})
		return
	}
	if err != nil {
		s.storeError(c, "sessions", "remove", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session deleted"})
}

// storeError reports an unexpected storage failure: 500 to the client, an
// error log with trace correlation, and a store-error metric.
func (s *Server) storeError(c *gin.Context, store, op string, err error) {
	ctx := c.Request.Context()
	observe.Logger(ctx).Error("store operation failed",
		"store", store, "op", op, "error", err)
	s.metrics.RecordStoreError(ctx, store, op)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
