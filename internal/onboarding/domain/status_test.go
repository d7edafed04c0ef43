package domain

import "testing"

func TestNextStatus(t *testing.T) {
	cases := []struct {
		name      string
		current   OnboardingStatus
		completed int
		want      OnboardingStatus
	}{
		{"pending stays with no steps", StatusPending, 0, StatusPending},
		{"first step moves to in-progress", StatusPending, 1, StatusInProgress},
		{"partial stays in-progress", StatusInProgress, 4, StatusInProgress},
		{"all steps move to reviewed", StatusInProgress, StepCount, StatusReviewed},
		{"reviewed drops back when a step is removed", StatusReviewed, 5, StatusInProgress},
		{"approved unchanged by step writes", StatusApproved, 3, StatusApproved},
		{"rejected unchanged by step writes", StatusRejected, StepCount, StatusRejected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextStatus(tc.current, tc.completed); got != tc.want {
				t.Errorf("NextStatus(%s, %d) = %s, want %s", tc.current, tc.completed, got, tc.want)
			}
		})
	}
}

func TestTerminal(t *testing.T) {
	if !StatusApproved.Terminal() || !StatusRejected.Terminal() {
		t.Error("approved and rejected must be terminal")
	}
	if StatusPending.Terminal() || StatusInProgress.Terminal() || StatusReviewed.Terminal() {
		t.Error("non-decision statuses must not be terminal")
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []OnboardingStatus{StatusPending, StatusInProgress, StatusReviewed, StatusApproved, StatusRejected} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if OnboardingStatus("archived").Valid() {
		t.Error("unknown status should be invalid")
	}
}
