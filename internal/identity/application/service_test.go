package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/wyfcoding/merchantonboarding/internal/apperr"
	"github.com/wyfcoding/merchantonboarding/internal/identity/domain"
	"github.com/wyfcoding/merchantonboarding/pkg/auth"
	"github.com/wyfcoding/merchantonboarding/pkg/metrics"
)

type fakeMerchantRepo struct {
	merchants map[string]*domain.Merchant
}

func newFakeMerchantRepo() *fakeMerchantRepo {
	return &fakeMerchantRepo{merchants: make(map[string]*domain.Merchant)}
}

func (r *fakeMerchantRepo) Create(_ context.Context, m *domain.Merchant) error {
	for _, existing := range r.merchants {
		if existing.MerchantID == m.MerchantID || existing.Email == m.Email || existing.Phone == m.Phone {
			return apperr.New(apperr.KindConflict, "merchant already exists")
		}
	}
	cp := *m
	r.merchants[m.MerchantID] = &cp
	return nil
}

func (r *fakeMerchantRepo) Update(_ context.Context, m *domain.Merchant) error {
	if _, ok := r.merchants[m.MerchantID]; !ok {
		return apperr.New(apperr.KindNotFound, "merchant not found")
	}
	cp := *m
	r.merchants[m.MerchantID] = &cp
	return nil
}

func (r *fakeMerchantRepo) GetByMerchantID(_ context.Context, id string) (*domain.Merchant, error) {
	m, ok := r.merchants[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "merchant not found")
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMerchantRepo) GetByEmailOrPhone(_ context.Context, identifier string) (*domain.Merchant, error) {
	for _, m := range r.merchants {
		if m.Email == identifier || m.Phone == identifier {
			cp := *m
			return &cp, nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, "merchant not found")
}

func newTestService() (*IdentityService, *fakeMerchantRepo) {
	repo := newFakeMerchantRepo()
	signer := auth.NewSigner([]byte("test-secret"), time.Hour)
	return NewIdentityService(repo, signer, nil, nil, nil), repo
}

func registerCmd(email, phone string) RegisterCommand {
	return RegisterCommand{
		FullName: "Jane Merchant",
		Email:    email,
		Phone:    phone,
		Location: "Nairobi",
		Password: "secret123",
	}
}

func TestRegisterIssuesTokenAndMerchantID(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	result, err := svc.Register(ctx, registerCmd("jane@example.com", "0700000001"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if result.Token == "" {
		t.Error("expected a signed token")
	}
	if !strings.HasPrefix(result.Merchant.MerchantID, "MID") {
		t.Errorf("merchant id %q missing MID prefix", result.Merchant.MerchantID)
	}
	if len(result.Merchant.MerchantID) != 3+32 {
		t.Errorf("merchant id %q has unexpected length", result.Merchant.MerchantID)
	}
	if result.Merchant.Status != "pending" {
		t.Errorf("initial status = %s, want pending", result.Merchant.Status)
	}
	if result.Merchant.Role != domain.RoleMerchant {
		t.Errorf("role = %s, want merchant", result.Merchant.Role)
	}

	stored, err := repo.GetByMerchantID(ctx, result.Merchant.MerchantID)
	if err != nil {
		t.Fatalf("stored merchant not found: %v", err)
	}
	if stored.PasswordHash == "secret123" {
		t.Error("password must not be stored in plain text")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerCmd("jane@example.com", "0700000001")); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(ctx, registerCmd("jane@example.com", "0700000002"))
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerCmd("jane@example.com", "0700000001")); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(ctx, registerCmd("john@example.com", "0700000001"))
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict for duplicate phone, got %v", err)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Register(context.Background(), RegisterCommand{Email: "jane@example.com"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerCmd("jane@example.com", "0700000001")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	t.Run("by email", func(t *testing.T) {
		result, err := svc.Login(ctx, LoginCommand{EmailOrPhone: "jane@example.com", Password: "secret123"})
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if result.Token == "" {
			t.Error("expected a token")
		}
	})

	t.Run("by phone", func(t *testing.T) {
		if _, err := svc.Login(ctx, LoginCommand{EmailOrPhone: "0700000001", Password: "secret123"}); err != nil {
			t.Fatalf("login by phone failed: %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginCommand{EmailOrPhone: "jane@example.com", Password: "wrong"})
		if !errors.Is(err, apperr.ErrUnauthorized) {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	})

	t.Run("unknown identity", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginCommand{EmailOrPhone: "nobody@example.com", Password: "secret123"})
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestUpdateProfileKeepsUnsetFields(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Register(ctx, registerCmd("jane@example.com", "0700000001"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	updated, err := svc.UpdateProfile(ctx, UpdateProfileCommand{
		MerchantID: result.Merchant.MerchantID,
		Location:   "Mombasa",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Location != "Mombasa" {
		t.Errorf("location = %s, want Mombasa", updated.Location)
	}
	if updated.FullName != "Jane Merchant" {
		t.Errorf("fullname changed unexpectedly: %s", updated.FullName)
	}
	if updated.Phone != "0700000001" {
		t.Errorf("phone changed unexpectedly: %s", updated.Phone)
	}
}

func TestRegisterIncrementsCounter(t *testing.T) {
	repo := newFakeMerchantRepo()
	signer := auth.NewSigner([]byte("test-secret"), time.Hour)
	m := metrics.New("test")
	svc := NewIdentityService(repo, signer, nil, nil, m)

	if _, err := svc.Register(context.Background(), registerCmd("jane@example.com", "0700000001")); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if got := testutil.ToFloat64(m.MerchantsRegistered); got != 1 {
		t.Errorf("merchants registered counter = %v, want 1", got)
	}
}
