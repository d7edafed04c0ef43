package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newTestSigner(ttl time.Duration) *Signer {
	return NewSigner([]byte("test-secret"), ttl)
}

func TestSignAndVerify(t *testing.T) {
	signer := newTestSigner(time.Hour)

	token, err := signer.Sign("MID1", RoleMerchant, "jane@example.com", "Jane")
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	claims, err := signer.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.MerchantID != "MID1" || claims.Role != RoleMerchant {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	signer := newTestSigner(-time.Minute)
	token, err := signer.Sign("MID1", RoleMerchant, "jane@example.com", "Jane")
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := signer.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	signer := newTestSigner(time.Hour)
	other := NewSigner([]byte("other-secret"), time.Hour)
	token, _ := other.Sign("MID1", RoleMerchant, "", "")
	if _, err := signer.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func setupRouter(signer *Signer, lookup PrincipalLookup, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{Middleware(signer, lookup)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		p, _ := PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{"merchantid": p.MerchantID})
	})
	r.GET("/protected/:merchantid", handlers...)
	return r
}

func doRequest(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddlewareMissingToken(t *testing.T) {
	r := setupRouter(newTestSigner(time.Hour), nil)
	if w := doRequest(r, "/protected/MID1", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestMiddlewareValidToken(t *testing.T) {
	signer := newTestSigner(time.Hour)
	r := setupRouter(signer, nil)
	token, _ := signer.Sign("MID1", RoleMerchant, "", "")
	if w := doRequest(r, "/protected/MID1", token); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
}

func TestMiddlewareRejectsDeletedPrincipal(t *testing.T) {
	signer := newTestSigner(time.Hour)
	lookup := func(ctx context.Context, merchantID string) error {
		return errors.New("not found")
	}
	r := setupRouter(signer, lookup)
	token, _ := signer.Sign("MIDgone", RoleMerchant, "", "")
	if w := doRequest(r, "/protected/MIDgone", token); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 when principal no longer exists", w.Code)
	}
}

func TestRequireOwnership(t *testing.T) {
	signer := newTestSigner(time.Hour)
	r := setupRouter(signer, nil, RequireOwnership("merchantid"))

	t.Run("own resource", func(t *testing.T) {
		token, _ := signer.Sign("MID1", RoleMerchant, "", "")
		if w := doRequest(r, "/protected/MID1", token); w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("other merchant resource", func(t *testing.T) {
		token, _ := signer.Sign("MID2", RoleMerchant, "", "")
		if w := doRequest(r, "/protected/MID1", token); w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})

	t.Run("admin bypass", func(t *testing.T) {
		token, _ := signer.Sign("ADMIN1", RoleAdmin, "", "")
		if w := doRequest(r, "/protected/MID1", token); w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200 for admin", w.Code)
		}
	})
}

func TestRequireRole(t *testing.T) {
	signer := newTestSigner(time.Hour)
	r := setupRouter(signer, nil, RequireRole(RoleAdmin))

	token, _ := signer.Sign("MID1", RoleMerchant, "", "")
	if w := doRequest(r, "/protected/MID1", token); w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 for merchant on admin route", w.Code)
	}

	token, _ = signer.Sign("ADMIN1", RoleAdmin, "", "")
	if w := doRequest(r, "/protected/MID1", token); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for admin", w.Code)
	}
}
