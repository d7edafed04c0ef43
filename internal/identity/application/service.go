package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/wyfcoding/merchantonboarding/internal/apperr"
	"github.com/wyfcoding/merchantonboarding/internal/identity/domain"
	"github.com/wyfcoding/merchantonboarding/pkg/auth"
	"github.com/wyfcoding/merchantonboarding/pkg/logger"
	"github.com/wyfcoding/merchantonboarding/pkg/metrics"
)

// RegistrationNotifier 注册事件的外部通知出口，实现必须非阻塞
type RegistrationNotifier interface {
	MerchantRegistered(ev domain.MerchantRegisteredEvent)
}

// IdentityService 商户身份应用服务
type IdentityService struct {
	repo      domain.MerchantRepository
	signer    *auth.Signer
	publisher domain.EventPublisher
	notifier  RegistrationNotifier
	metrics   *metrics.Metrics
}

// NewIdentityService 创建身份应用服务
func NewIdentityService(repo domain.MerchantRepository, signer *auth.Signer, publisher domain.EventPublisher, notifier RegistrationNotifier, m *metrics.Metrics) *IdentityService {
	return &IdentityService{repo: repo, signer: signer, publisher: publisher, notifier: notifier, metrics: m}
}

// Register 注册商户：生成商户号、散列密码、发布事件并签发令牌
func (s *IdentityService) Register(ctx context.Context, cmd RegisterCommand) (*AuthResultDTO, error) {
	cmd.Email = strings.ToLower(strings.TrimSpace(cmd.Email))
	cmd.Phone = strings.TrimSpace(cmd.Phone)
	if cmd.FullName == "" || cmd.Email == "" || cmd.Phone == "" || cmd.Password == "" {
		return nil, apperr.New(apperr.KindValidation, "fullname, email, phone and password are required")
	}

	if _, err := s.repo.GetByEmailOrPhone(ctx, cmd.Email); err == nil {
		return nil, apperr.New(apperr.KindConflict, "User with this email already exists")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	if _, err := s.repo.GetByEmailOrPhone(ctx, cmd.Phone); err == nil {
		return nil, apperr.New(apperr.KindConflict, "User with this phone number already exists")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}

	var merchant *domain.Merchant
	// 商户号冲突概率极低，仍保留少量重试兜底
	for attempt := 0; attempt < 3; attempt++ {
		merchant = domain.NewMerchant(newMerchantID(), cmd.Role, cmd.FullName, cmd.Email, cmd.Phone, cmd.Location, string(hash))
		err = s.repo.Create(ctx, merchant)
		if err == nil {
			break
		}
		if !errors.Is(err, apperr.ErrConflict) {
			return nil, err
		}
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConflict, "User with this email or phone already exists", err)
	}

	if s.metrics != nil {
		s.metrics.MerchantsRegistered.Inc()
	}
	ev := domain.MerchantRegisteredEvent{
		MerchantID: merchant.MerchantID,
		FullName:   merchant.FullName,
		Email:      merchant.Email,
		Phone:      merchant.Phone,
		Role:       merchant.Role,
		Timestamp:  time.Now(),
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, "merchant.registered", merchant.MerchantID, ev); err != nil {
			logger.Warn(ctx, "failed to publish merchant registered event", "merchant_id", merchant.MerchantID, "error", err)
		}
	}
	if s.notifier != nil {
		s.notifier.MerchantRegistered(ev)
	}

	token, err := s.signer.Sign(merchant.MerchantID, merchant.Role, merchant.Email, merchant.FullName)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to sign token", err)
	}

	logger.Info(ctx, "merchant registered", "merchant_id", merchant.MerchantID, "role", merchant.Role)
	return &AuthResultDTO{Token: token, Merchant: toMerchantDTO(merchant)}, nil
}

// Login 校验凭据并签发令牌
func (s *IdentityService) Login(ctx context.Context, cmd LoginCommand) (*AuthResultDTO, error) {
	identifier := strings.TrimSpace(cmd.EmailOrPhone)
	if identifier == "" || cmd.Password == "" {
		return nil, apperr.New(apperr.KindValidation, "email/phone and password are required")
	}

	merchant, err := s.repo.GetByEmailOrPhone(ctx, strings.ToLower(identifier))
	if errors.Is(err, apperr.ErrNotFound) {
		merchant, err = s.repo.GetByEmailOrPhone(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "User not found")
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(merchant.PasswordHash), []byte(cmd.Password)) != nil {
		return nil, apperr.New(apperr.KindUnauthorized, "Invalid password")
	}

	token, err := s.signer.Sign(merchant.MerchantID, merchant.Role, merchant.Email, merchant.FullName)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to sign token", err)
	}

	logger.Info(ctx, "merchant logged in", "merchant_id", merchant.MerchantID)
	return &AuthResultDTO{Token: token, Merchant: toMerchantDTO(merchant)}, nil
}

// GetProfile 查询商户资料
func (s *IdentityService) GetProfile(ctx context.Context, merchantID string) (*MerchantDTO, error) {
	merchant, err := s.repo.GetByMerchantID(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	dto := toMerchantDTO(merchant)
	return &dto, nil
}

// UpdateProfile 更新商户联系资料，空字段保持原值
func (s *IdentityService) UpdateProfile(ctx context.Context, cmd UpdateProfileCommand) (*MerchantDTO, error) {
	merchant, err := s.repo.GetByMerchantID(ctx, cmd.MerchantID)
	if err != nil {
		return nil, err
	}

	if cmd.FullName != "" {
		merchant.FullName = cmd.FullName
	}
	if cmd.Phone != "" {
		merchant.Phone = strings.TrimSpace(cmd.Phone)
	}
	if cmd.Location != "" {
		merchant.Location = cmd.Location
	}
	if err := s.repo.Update(ctx, merchant); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		ev := domain.ProfileUpdatedEvent{MerchantID: merchant.MerchantID, Timestamp: time.Now()}
		if err := s.publisher.Publish(ctx, "merchant.profile.updated", merchant.MerchantID, ev); err != nil {
			logger.Warn(ctx, "failed to publish profile updated event", "merchant_id", merchant.MerchantID, "error", err)
		}
	}

	dto := toMerchantDTO(merchant)
	return &dto, nil
}

// Exists 返回商户是否存在，供鉴权中间件使用
func (s *IdentityService) Exists(ctx context.Context, merchantID string) error {
	_, err := s.repo.GetByMerchantID(ctx, merchantID)
	return err
}

// newMerchantID 生成 MID 开头的 32 位十六进制商户号
func newMerchantID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return "MID" + hex.EncodeToString(buf)
}
