package middleware

import (
	"net/http"
	"net/http/httptest"
	"sensen_backend/internal/config"
	"sensen_backend/internal/model"
	"sensen_backend/internal/util"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestAuthAndRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "0123456789abcdef0123456789abcdef", ExpireTime: time.Hour}}

	r := gin.New()
	api := r.Group("/api", AuthMiddleware(cfg))
	api.GET("/me", func(c *gin.Context) { c.String(http.StatusOK, util.GetUserFromContext(c).Username) })
	api.GET("/admin", RoleMiddleware(model.Admin), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	token := func(role model.UserRole) string {
		u := &model.User{Username: "sam", Role: role}
		u.ID = 3
		tok, err := util.GenerateJWT(u, cfg.JWT)
		if err != nil {
			t.Fatal(err)
		}
		return tok
	}
	employee, admin := token(model.Employee), token(model.Admin)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no token", "/api/me", "", http.StatusUnauthorized},
		{"garbage token", "/api/me", "Bearer nope", http.StatusUnauthorized},
		{"bearer", "/api/me", "Bearer " + employee, http.StatusOK},
		{"query token", "/api/me?token=" + employee, "", http.StatusOK},
		{"employee on admin route", "/api/admin", "Bearer " + employee, http.StatusForbidden},
		{"admin on admin route", "/api/admin", "Bearer " + admin, http.StatusNoContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}
