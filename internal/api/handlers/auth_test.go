package handlers

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/playmatatu/cuetable/internal/config"
	"github.com/playmatatu/cuetable/internal/game"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:        "development",
		FrontendURL:        "http://localhost:5173",
		JWTSecret:          "test-secret",
		MatchTokenHours:    1,
		TickRateHz:         60,
		SnapshotTTLSeconds: 60,
		MatchIdleMinutes:   30,
		ReaperPollSeconds:  30,
		MaxTicksPerRequest: 5000,
	}
}

func TestMatchTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	s := &game.Session{ID: "match_abc", Token: "key123"}

	raw, err := IssueMatchToken(cfg, s)
	if err != nil {
		t.Fatalf("IssueMatchToken: %v", err)
	}
	claims, err := ParseMatchToken(cfg, raw)
	if err != nil {
		t.Fatalf("ParseMatchToken: %v", err)
	}
	if claims.MatchID != s.ID || claims.Key != s.Token {
		t.Errorf("claims = %+v", claims)
	}
}

func TestMatchTokenExpiresAfterConfiguredHours(t *testing.T) {
	cfg := testConfig()
	cfg.MatchTokenHours = 3
	raw, err := IssueMatchToken(cfg, &game.Session{ID: "match_abc", Token: "key"})
	if err != nil {
		t.Fatalf("IssueMatchToken: %v", err)
	}

	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(raw, claims); err != nil {
		t.Fatalf("ParseUnverified: %v", err)
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		t.Fatalf("exp claim missing or not numeric: %v", claims["exp"])
	}
	want := time.Now().Add(3 * time.Hour).Unix()
	if d := int64(exp) - want; d < -5 || d > 5 {
		t.Errorf("exp = %d, want about %d", int64(exp), want)
	}
}

func TestMatchTokenWrongSecret(t *testing.T) {
	cfg := testConfig()
	raw, _ := IssueMatchToken(cfg, &game.Session{ID: "match_abc", Token: "key"})

	other := testConfig()
	other.JWTSecret = "another-secret"
	if _, err := ParseMatchToken(other, raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token signed with another secret: err = %v", err)
	}
}

func TestMatchTokenExpired(t *testing.T) {
	cfg := testConfig()
	claims := jwt.MapClaims{"match_id": "match_abc", "key": "k", "exp": time.Now().Add(-time.Minute).Unix()}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ParseMatchToken(cfg, raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token accepted: %v", err)
	}
}

func TestMatchTokenMissingClaims(t *testing.T) {
	cfg := testConfig()
	raw, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"player_id": 7}).SignedString([]byte(cfg.JWTSecret))

	if _, err := ParseMatchToken(cfg, raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token without a match accepted: %v", err)
	}
}
