package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/questward/lorekeeper/internal/roster"
)

// createNPCRequest is the request body for POST /api/npcs.
type createNPCRequest struct {
	Name             string `json:"name"`
	Status           string `json:"status"`
	Race             string `json:"race"`
	ClassRole        string `json:"class_role"`
	Appearance       string `json:"appearance"`
	QuirksMannerisms string `json:"quirks_mannerisms"`
	Background       string `json:"background"`
	Notes            string `json:"notes"`
}

func (s *Server) listNPCs(c *gin.Context) {
	npcs, err := s.npcs.List(c.Request.Context())
	if err != nil {
		s.storeError(c, "npcs", "list", err)
		return
	}
	c.JSON(http.StatusOK, npcs)
}

func (s *Server) createNPC(c *gin.Context) {
	var req createNPCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	created, err := s.npcs.Add(c.Request.Context(), roster.NPC{
		Name:             strings.TrimSpace(req.Name),
		Status:           req.Status,
		Race:             req.Race,
		ClassRole:        req.ClassRole,
		Appearance:       req.Appearance,
		QuirksMannerisms: req.QuirksMannerisms,
		Background:       req.Background,
		Notes:            req.Notes,
	})
	if errors.Is(err, roster.ErrDuplicateName) {
		c.JSON(http.StatusConflict, gin.H{"error": "an NPC named " + req.Name + " already exists"})
		return
	}
	if err != nil {
		s.storeError(c, "npcs", "add", err)
		return
	}
	c.JSON(http.StatusOK, created)
}

func (s *Server) getNPC(c *gin.Context) {
	id := c.Param("id")
	npc, err := s.npcs.Get(c.Request.Context(), id)
	if errors.Is(err, roster.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "NPC not found: " + id})
		return
	}
	if err != nil {
		s.storeError(c, "npcs", "get", err)
		return
	}
	c.JSON(http.StatusOK, npc)
}

func (s *Server) updateNPC(c *gin.Context) {
	id := c.Param("id")

	var update roster.NPCUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	npc, err := s.npcs.Update(c.Request.Context(), id, update)
	if errors.Is(err, roster.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "NPC not found: " + id})
		return
	}
	if errors.Is(err, roster.ErrDuplicateName) {
		c.JSON(http.StatusConflict, gin.H{"error": "an NPC with that name already exists"})
		return
	}
	if err != nil {
		s.storeError(c, "npcs", "update", err)
		return
	}
	c.JSON(http.StatusOK, npc)
}

func (s *Server) deleteNPC(c *gin.Context) {
	id := c.Param("id")
	err := s.npcs.Remove(c.Request.Context(), id)
	if errors.Is(err, roster.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "NPC not found: " + id})
		return
	}
	if err != nil {
		s.storeError(c, "npcs", "remove", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "NPC deleted"})
}
