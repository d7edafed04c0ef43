package application

import (
	"context"
	"errors"
	"testing"

	"github.com/wyfcoding/merchantonboarding/internal/apperr"
	onboarding "github.com/wyfcoding/merchantonboarding/internal/onboarding/application"
	onboardingdomain "github.com/wyfcoding/merchantonboarding/internal/onboarding/domain"
)

type fakeStatusProvider struct {
	status *onboarding.StatusDTO
}

func (p *fakeStatusProvider) Status(_ context.Context, merchantID string) (*onboarding.StatusDTO, error) {
	if p.status == nil || p.status.MerchantID != merchantID {
		return nil, apperr.New(apperr.KindNotFound, "merchant not found")
	}
	return p.status, nil
}

type fakeReadRepo struct {
	marks map[string]map[string]bool
}

func newFakeReadRepo() *fakeReadRepo {
	return &fakeReadRepo{marks: make(map[string]map[string]bool)}
}

func (r *fakeReadRepo) Mark(_ context.Context, merchantID string, ids []string) error {
	if r.marks[merchantID] == nil {
		r.marks[merchantID] = make(map[string]bool)
	}
	for _, id := range ids {
		r.marks[merchantID][id] = true
	}
	return nil
}

func (r *fakeReadRepo) ReadIDs(_ context.Context, merchantID string) (map[string]bool, error) {
	out := make(map[string]bool, len(r.marks[merchantID]))
	for id := range r.marks[merchantID] {
		out[id] = true
	}
	return out, nil
}

func inProgressStatus(merchantID string) *onboarding.StatusDTO {
	return &onboarding.StatusDTO{
		MerchantID: merchantID,
		Status:     "in-progress",
		Message:    onboardingdomain.StatusMessage(onboardingdomain.StatusInProgress),
		StepSummary: map[string]onboardingdomain.StepFlag{
			onboardingdomain.StepCompany.String(): {Label: "Acme Ltd", Completed: true},
		},
		NextStep: &onboarding.NextStepDTO{
			Step:  onboardingdomain.StepUBO.String(),
			Title: onboardingdomain.StepUBO.Title(),
		},
	}
}

func TestListDerivesFromOnboardingState(t *testing.T) {
	svc := NewNotificationService(&fakeStatusProvider{status: inProgressStatus("MID1")}, newFakeReadRepo())

	dto, err := svc.List(context.Background(), "MID1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(dto.Notifications) != 3 {
		t.Fatalf("expected status + completed step + reminder, got %+v", dto.Notifications)
	}
	if dto.Notifications[0].ID != "status:in-progress" || dto.Notifications[0].Type != "status" {
		t.Errorf("first entry = %+v, want status entry", dto.Notifications[0])
	}
	if dto.Notifications[1].ID != "step:companyinformation" {
		t.Errorf("second entry = %+v, want completed company step", dto.Notifications[1])
	}
	if dto.Notifications[2].ID != "next:ubo" || dto.Notifications[2].Type != "reminder" {
		t.Errorf("third entry = %+v, want next-step reminder", dto.Notifications[2])
	}
	if dto.UnreadCount != 3 {
		t.Errorf("unread = %d, want 3", dto.UnreadCount)
	}
}

func TestMarkReadFlipsEntry(t *testing.T) {
	reads := newFakeReadRepo()
	svc := NewNotificationService(&fakeStatusProvider{status: inProgressStatus("MID1")}, reads)
	ctx := context.Background()

	if err := svc.MarkRead(ctx, "MID1", "step:companyinformation"); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}

	dto, err := svc.List(ctx, "MID1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if dto.UnreadCount != 2 {
		t.Errorf("unread = %d, want 2", dto.UnreadCount)
	}
	for _, n := range dto.Notifications {
		if n.ID == "step:companyinformation" && !n.Read {
			t.Error("marked notification still unread")
		}
	}
}

func TestMarkReadUnknownNotification(t *testing.T) {
	svc := NewNotificationService(&fakeStatusProvider{status: inProgressStatus("MID1")}, newFakeReadRepo())
	err := svc.MarkRead(context.Background(), "MID1", "step:kycdocs")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for undelivered notification, got %v", err)
	}
}

func TestMarkAllRead(t *testing.T) {
	svc := NewNotificationService(&fakeStatusProvider{status: inProgressStatus("MID1")}, newFakeReadRepo())
	ctx := context.Background()

	if err := svc.MarkAllRead(ctx, "MID1"); err != nil {
		t.Fatalf("mark all failed: %v", err)
	}
	dto, err := svc.List(ctx, "MID1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if dto.UnreadCount != 0 {
		t.Errorf("unread = %d, want 0", dto.UnreadCount)
	}
}

func TestListUnknownMerchant(t *testing.T) {
	svc := NewNotificationService(&fakeStatusProvider{}, newFakeReadRepo())
	_, err := svc.List(context.Background(), "MIDnope")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
