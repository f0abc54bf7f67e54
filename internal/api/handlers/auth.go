package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/playmatatu/cuetable/internal/config"
	"github.com/playmatatu/cuetable/internal/game"
)

var ErrInvalidToken = errors.New("invalid token")

// MatchClaims identifies the match a control token was issued for.
type MatchClaims struct {
	MatchID string
	Key     string
}

// IssueMatchToken signs a control token for a match session.
func IssueMatchToken(cfg *config.Config, s *game.Session) (string, error) {
	exp := time.Now().Add(time.Duration(cfg.MatchTokenHours) * time.Hour)
	claims := jwt.MapClaims{"match_id": s.ID, "key": s.Token, "exp": exp.Unix()}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseMatchToken verifies a control token and returns its claims.
func ParseMatchToken(cfg *config.Config, raw string) (MatchClaims, error) {
	parsed, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return MatchClaims{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return MatchClaims{}, ErrInvalidToken
	}
	matchID, _ := claims["match_id"].(string)
	key, _ := claims["key"].(string)
	if matchID == "" || key == "" {
		return MatchClaims{}, ErrInvalidToken
	}
	return MatchClaims{MatchID: matchID, Key: key}, nil
}

// MatchAuthMiddleware admits requests carrying a control token for the match
// named by the :id path parameter. Browsers cannot set headers on a websocket
// upgrade, so the token may also come in the "token" query parameter.
func MatchAuthMiddleware(mgr *game.Manager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if raw == "" {
			raw = c.Query("token")
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := ParseMatchToken(cfg, raw)
		if err != nil || claims.MatchID != c.Param("id") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		s, err := mgr.Get(claims.MatchID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "match not found"})
			return
		}
		// tokens from a previous session with the same ID are not honoured
		if s.Token != claims.Key {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("match_id", claims.MatchID)
		c.Next()
	}
}
