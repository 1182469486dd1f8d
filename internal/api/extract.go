package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/questward/lorekeeper/internal/observe"
)

// extractNPCRequest is the request body for POST /api/extract-npc: one
// confirmed mention to commit to the roster.
type extractNPCRequest struct {
	SessionID     string `json:"session_id"`
	ExtractedText string `json:"extracted_text"`
	NPCName       string `json:"npc_name"`
}

// suggestNPCsRequest is the request body for POST /api/suggest-npcs.
type suggestNPCsRequest struct {
	Text string `json:"text"`
}

func (s *Server) extractNPC(c *gin.Context) {
	var req extractNPCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.NPCName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "npc_name is required"})
		return
	}

	ctx := c.Request.Context()
	action, npc, err := s.scribe.Commit(ctx, req.SessionID, req.ExtractedText, strings.TrimSpace(req.NPCName))
	if err != nil {
		s.storeError(c, "npcs", "commit-mention", err)
		return
	}

	s.metrics.RecordMentionCommit(ctx, string(action))
	observe.Logger(ctx).Info("mention committed",
		"npc", npc.Name, "action", string(action), "session_id", req.SessionID)

	c.JSON(http.StatusOK, gin.H{
		"action": action,
		"npc":    npc,
	})
}

func (s *Server) suggestNPCs(c *gin.Context) {
	var req suggestNPCsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	start := time.Now()
	suggestions, err := s.scribe.Suggest(ctx, req.Text)
	if err != nil {
		observe.Logger(ctx).Error("suggestion scan failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	s.metrics.RecordSuggestionScan(ctx, s.strategy, time.Since(start).Seconds())

	// Plain name list kept alongside the annotated suggestions for clients
	// that only render names.
	names := make([]string, len(suggestions))
	for i, sug := range suggestions {
		names[i] = sug.Name
	}

	c.JSON(http.StatusOK, gin.H{
		"suggested_npcs": names,
		"suggestions":    suggestions,
	})
}
