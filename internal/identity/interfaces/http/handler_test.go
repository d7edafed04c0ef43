package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/merchantonboarding/internal/apperr"
	"github.com/wyfcoding/merchantonboarding/internal/identity/application"
	"github.com/wyfcoding/merchantonboarding/internal/identity/domain"
	"github.com/wyfcoding/merchantonboarding/pkg/auth"
)

type memoryRepo struct {
	merchants map[string]*domain.Merchant
}

func (r *memoryRepo) Create(_ context.Context, m *domain.Merchant) error {
	for _, existing := range r.merchants {
		if existing.Email == m.Email || existing.Phone == m.Phone {
			return apperr.New(apperr.KindConflict, "merchant already exists")
		}
	}
	cp := *m
	r.merchants[m.MerchantID] = &cp
	return nil
}

func (r *memoryRepo) Update(_ context.Context, m *domain.Merchant) error {
	cp := *m
	r.merchants[m.MerchantID] = &cp
	return nil
}

func (r *memoryRepo) GetByMerchantID(_ context.Context, id string) (*domain.Merchant, error) {
	m, ok := r.merchants[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "merchant not found")
	}
	cp := *m
	return &cp, nil
}

func (r *memoryRepo) GetByEmailOrPhone(_ context.Context, identifier string) (*domain.Merchant, error) {
	for _, m := range r.merchants {
		if m.Email == identifier || m.Phone == identifier {
			cp := *m
			return &cp, nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, "merchant not found")
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	repo := &memoryRepo{merchants: make(map[string]*domain.Merchant)}
	signer := auth.NewSigner([]byte("test-secret"), time.Hour)
	service := application.NewIdentityService(repo, signer, nil, nil, nil)

	r := gin.New()
	api := r.Group("/api")
	NewIdentityHandler(service).RegisterRoutes(api, auth.Middleware(signer, service.Exists))
	return r
}

func postJSON(r *gin.Engine, path string, body map[string]any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signupBody() map[string]any {
	return map[string]any{
		"fullname":    "Jane Merchant",
		"email":       "jane@example.com",
		"phonenumber": "0700000001",
		"location":    "Nairobi",
		"password":    "secret123",
	}
}

func TestSignupEndpoint(t *testing.T) {
	r := setupRouter()

	w := postJSON(r, "/api/user/signup", signupBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			MerchantID string `json:"merchantid"`
			Status     string `json:"onboardingStatus"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" || resp.User.MerchantID == "" {
		t.Errorf("missing token or merchant id: %s", w.Body.String())
	}
	if resp.User.Status != "pending" {
		t.Errorf("initial status = %s, want pending", resp.User.Status)
	}

	// 重复注册同一邮箱
	if w := postJSON(r, "/api/user/signup", signupBody()); w.Code != http.StatusBadRequest {
		t.Errorf("duplicate signup status = %d, want 400", w.Code)
	}
}

func TestLoginEndpoint(t *testing.T) {
	r := setupRouter()
	if w := postJSON(r, "/api/user/signup", signupBody()); w.Code != http.StatusCreated {
		t.Fatalf("signup failed: %s", w.Body.String())
	}

	w := postJSON(r, "/api/user/login", map[string]any{"email": "jane@example.com", "password": "secret123"})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}

	// 密码错误与账户不存在都按老接口约定返回 400
	w = postJSON(r, "/api/user/login", map[string]any{"email": "jane@example.com", "password": "wrong"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("wrong password status = %d, want 400", w.Code)
	}
	w = postJSON(r, "/api/user/login", map[string]any{"email": "nobody@example.com", "password": "secret123"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown user status = %d, want 400", w.Code)
	}
}

func TestProfileRequiresToken(t *testing.T) {
	r := setupRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without token", w.Code)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	r := setupRouter()
	w := postJSON(r, "/api/user/signup", signupBody())
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode signup: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile status = %d, body %s", rec.Code, rec.Body.String())
	}

	var profile struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.Email != "jane@example.com" {
		t.Errorf("email = %s, want jane@example.com", profile.Email)
	}
}
