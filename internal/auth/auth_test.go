package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func testRouter(verifier TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	authed := router.Group("/", Middleware(verifier))
	authed.GET("/me", func(c *gin.Context) {
		identity, _ := FromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": identity.UserID, "role": identity.Role})
	})
	authed.POST("/admin", RequireRole(RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestStaticVerifier(t *testing.T) {
	verifier := NewStaticVerifier(map[string]string{
		"tok-admin": "u1:admin",
		"tok-user":  "u2:user",
		"tok-bare":  "u3",
		"tok-bad":   ":admin",
	})

	tests := []struct {
		name     string
		token    string
		wantUser string
		wantRole string
		wantErr  bool
	}{
		{"Admin token", "tok-admin", "u1", "admin", false},
		{"User token", "tok-user", "u2", "user", false},
		{"Token without role", "tok-bare", "u3", "", false},
		{"Empty user id", "tok-bad", "", "", true},
		{"Unknown token", "nope", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := verifier.Verify(tt.token)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidToken) {
					t.Errorf("Expected ErrInvalidToken, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Verify failed: %v", err)
			}
			if identity.UserID != tt.wantUser || identity.Role != tt.wantRole {
				t.Errorf("Identity = %+v, want %s/%s", identity, tt.wantUser, tt.wantRole)
			}
		})
	}
}

func TestMiddlewareRejects(t *testing.T) {
	router := testRouter(NewStaticVerifier(map[string]string{"tok": "u1:user"}))

	tests := []struct {
		name   string
		header string
	}{
		{"No header", ""},
		{"No bearer prefix", "tok"},
		{"Empty token", "Bearer "},
		{"Unknown token", "Bearer wrong"},
		{"Basic auth", "Basic dXNlcjpwYXNz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("Status = %d, want 401", w.Code)
			}
		})
	}
}

func TestMiddlewareAccepts(t *testing.T) {
	router := testRouter(NewStaticVerifier(map[string]string{"tok": "u1:user"}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", w.Code)
	}
	if body := w.Body.String(); body != `{"role":"user","user_id":"u1"}` {
		t.Errorf("Body = %s", body)
	}
}

func TestRequireRole(t *testing.T) {
	router := testRouter(NewStaticVerifier(map[string]string{
		"tok-admin": "u1:admin",
		"tok-user":  "u2:user",
	}))

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"Admin allowed", "tok-admin", http.StatusNoContent},
		{"User forbidden", "tok-user", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
