package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/cuetable/internal/config"
	"github.com/playmatatu/cuetable/internal/game"
)

// CreateMatch starts a new match and returns its ID and control token.
func CreateMatch(mgr *game.Manager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Variant   string                 `json:"variant"`
			Overrides *config.RawMatchConfig `json:"overrides,omitempty"`
		}
		// an empty body starts a default pool match
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
				return
			}
		}

		variant, err := config.ParseVariant(req.Variant)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		mc, err := config.MatchConfigFor(cfg.MatchConfigDir, variant)
		if err != nil {
			log.Printf("[API] Match config for %s unusable: %v", variant, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "match config unavailable"})
			return
		}
		if req.Overrides != nil {
			mc = config.MergeMatchConfig(mc, *req.Overrides)
		}

		s, err := mgr.CreateMatchWithConfig(mc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		token, err := IssueMatchToken(cfg, s)
		if err != nil {
			log.Printf("[API] Failed to sign token for %s: %v", s.ID, err)
			mgr.Remove(s.ID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		snap, _ := mgr.Snapshot(c.Request.Context(), s.ID)
		c.Header("X-Match-ID", s.ID)
		c.JSON(http.StatusCreated, gin.H{
			"id":       s.ID,
			"token":    token,
			"variant":  s.Variant,
			"snapshot": snap,
		})
	}
}

// GetMatch returns the current snapshot of a match.
func GetMatch(mgr *game.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := mgr.Snapshot(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeMatchError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

// PointerInput forwards one pointer action to the match cue.
func PointerInput(mgr *game.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Action string  `json:"action" binding:"required"`
			X      float64 `json:"x"`
			Y      float64 `json:"y"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "action, x and y required"})
			return
		}

		var (
			applied bool
			snap    game.Snapshot
		)
		err := mgr.WithSession(c.Param("id"), func(m *game.Match) error {
			if m.GameOver() {
				return game.ErrMatchOver
			}
			ok, err := m.ApplyPointer(req.Action, game.NewVec2(req.X, req.Y))
			if err != nil {
				return err
			}
			applied = ok
			snap = m.Snapshot()
			return nil
		})
		if err != nil {
			writeMatchError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"applied": applied, "snapshot": snap})
	}
}

// AdvanceMatch runs frames on request, for clients driving the clock themselves.
func AdvanceMatch(mgr *game.Manager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Count int `json:"count"`
		}
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
				return
			}
		}
		if req.Count <= 0 {
			req.Count = 1
		}
		if req.Count > cfg.MaxTicksPerRequest {
			req.Count = cfg.MaxTicksPerRequest
		}

		up, err := mgr.Advance(c.Param("id"), req.Count)
		if err != nil {
			writeMatchError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"snapshot": up.Snapshot, "events": up.Events})
	}
}

// EndMatch removes a match from the server.
func EndMatch(mgr *game.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := mgr.Remove(c.Param("id")); err != nil {
			writeMatchError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func writeMatchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, game.ErrMatchNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
	case errors.Is(err, game.ErrMatchOver):
		c.JSON(http.StatusConflict, gin.H{"error": "match is over"})
	case errors.Is(err, game.ErrUnknownPointerAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("[API] match request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
