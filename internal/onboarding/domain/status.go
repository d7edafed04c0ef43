package domain

// OnboardingStatus 商户入驻整体状态
type OnboardingStatus string

const (
	StatusPending    OnboardingStatus = "pending"     // 初始，尚未提交任何步骤
	StatusInProgress OnboardingStatus = "in-progress" // 至少完成一个步骤
	StatusReviewed   OnboardingStatus = "reviewed"    // 六个步骤全部完成，等待审批
	StatusApproved   OnboardingStatus = "approved"    // 管理员通过
	StatusRejected   OnboardingStatus = "rejected"    // 管理员拒绝
)

// Valid 判断状态取值是否合法
func (s OnboardingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusReviewed, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal 审批结果为终态，仅管理员显式重置可离开
func (s OnboardingStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// NextStatus 步骤写入后的状态推导：
// 全部完成 -> reviewed；至少一个完成 -> in-progress；
// 一个都没有时保持现状，pending 不会被自动重入；
// 终态不被步骤写入改变。
func NextStatus(current OnboardingStatus, completed int) OnboardingStatus {
	if current.Terminal() {
		return current
	}
	switch {
	case completed >= StepCount:
		return StatusReviewed
	case completed > 0:
		return StatusInProgress
	default:
		return current
	}
}

// StatusMessage 返回面向商户的状态说明文案
func StatusMessage(s OnboardingStatus) string {
	switch s {
	case StatusPending:
		return "Your application is pending. Please complete all required steps."
	case StatusInProgress:
		return "Your application is in progress. Continue completing the required steps."
	case StatusReviewed:
		return "Your application is under review. We will notify you of the decision."
	case StatusApproved:
		return "Congratulations! Your application has been approved."
	case StatusRejected:
		return "Your application was rejected. Please contact support for more information."
	default:
		return "Unknown status"
	}
}
