package util

import (
	"errors"
	"fmt"
	"net/http"
	"sensen_backend/internal/config"
	"sensen_backend/internal/model"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "assessment not found", err: ErrAssessmentNotFound, want: http.StatusNotFound},
		{name: "wrapped question not found", err: fmt.Errorf("submit: %w", ErrQuestionNotFound), want: http.StatusNotFound},
		{name: "invalid payload", err: ErrInvalidPayload, want: http.StatusBadRequest},
		{name: "not ready", err: ErrAttemptNotReady, want: http.StatusConflict},
		{name: "conflict", err: ErrAttemptConflict, want: http.StatusConflict},
		{name: "bad credentials", err: ErrBadCredentials, want: http.StatusUnauthorized},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusFor(tc.err); got != tc.want {
				t.Fatalf("StatusFor(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	if id, ok := ParseID("42"); !ok || id != 42 {
		t.Fatalf("ParseID(42) = %d, %v", id, ok)
	}
	for _, s := range []string{"", "0", "-1", "q1", "1.5"} {
		if _, ok := ParseID(s); ok {
			t.Fatalf("ParseID(%q) should fail", s)
		}
	}
}

func TestParseProbeOutput(t *testing.T) {
	out := `{"streams":[{"codec_type":"audio"},{"codec_type":"video","width":1280,"height":720}],
		"format":{"duration":"93.480000","size":"1048576","format_name":"mov,mp4,m4a,3gp,3g2,mj2"}}`

	info, err := ParseProbeOutput(out)
	if err != nil {
		t.Fatal(err)
	}
	if info.Duration != 93.48 || info.Width != 1280 || info.Height != 720 {
		t.Errorf("info = %+v", info)
	}
	if info.Format != "mov" || info.Size != 1048576 {
		t.Errorf("format/size = %q/%d", info.Format, info.Size)
	}

	if _, err := ParseProbeOutput("not json"); err == nil {
		t.Error("expected decode error")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret-secret-secret-secret-secret", ExpireTime: time.Hour}
	user := &model.User{Username: "alice", Role: model.Admin}
	user.ID = 7
	token, err := GenerateJWT(user, cfg)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := ParseJWT(token, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != 7 || claims.Role != model.Admin || claims.Username != "alice" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Subject != "7" || claims.Issuer != "sensen-backend" {
		t.Errorf("registered claims = %+v", claims.RegisteredClaims)
	}
	other := cfg
	other.Secret = "another-secret-another-secret-xx"
	if _, err := ParseJWT(token, other); err == nil {
		t.Error("token accepted with the wrong secret")
	}
}

func TestNewClaimsExpiry(t *testing.T) {
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	user := &model.User{Username: "bo", Role: model.Employee}

	if got := NewClaims(user, 2*time.Hour, now).ExpiresAt.Time; !got.Equal(now.Add(2 * time.Hour)) {
		t.Errorf("expiry = %v, want two hours later", got)
	}
	if got := NewClaims(user, 0, now).ExpiresAt.Time; !got.Equal(now.Add(24 * time.Hour)) {
		t.Errorf("zero ttl expiry = %v, want one day later", got)
	}
}

func TestParseJWTRejectsForeignAndExpiredTokens(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret-secret-secret-secret-secret", ExpireTime: time.Hour}
	user := &model.User{Username: "cy", Role: model.Employee}
	user.ID = 9

	sign := func(c *Claims) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(cfg.Secret))
		if err != nil {
			t.Fatal(err)
		}
		return tok
	}

	foreign := NewClaims(user, time.Hour, time.Now())
	foreign.Issuer = "someone-else"
	expired := NewClaims(user, time.Hour, time.Now().Add(-2*time.Hour))
	noExpiry := NewClaims(user, time.Hour, time.Now())
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
	}{
		{"foreign issuer", sign(foreign)},
		{"expired", sign(expired)},
		{"no expiry", sign(noExpiry)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseJWT(tc.token, cfg); err == nil {
				t.Fatal("token accepted")
			}
		})
	}
}

func TestClaimsHasRole(t *testing.T) {
	tests := []struct {
		role  model.UserRole
		want  []model.UserRole
		allow bool
	}{
		{model.Employee, []model.UserRole{model.Employee}, true},
		{model.Employee, []model.UserRole{model.Admin}, false},
		{model.Admin, []model.UserRole{model.Employee}, true},
		{model.Employee, nil, false},
	}
	for _, tc := range tests {
		c := &Claims{Role: tc.role}
		if got := c.HasRole(tc.want...); got != tc.allow {
			t.Errorf("%s HasRole(%v) = %v, want %v", tc.role, tc.want, got, tc.allow)
		}
	}
}
