package domain

import (
	"context"
)

// StepStore 单一步骤集合的统一读写能力。
// 每个商户在每个步骤至多一条记录，由存储层唯一索引保证，
// 重复创建返回 apperr.ErrConflict。
type StepStore interface {
	// StoreKind 该集合承载的步骤
	StoreKind() StepKind
	// Get 按商户读取记录，不存在返回 apperr.ErrNotFound
	Get(ctx context.Context, merchantID string) (StepRecord, error)
	// Create 首次创建记录
	Create(ctx context.Context, rec StepRecord) error
	// Upsert 创建或整体覆盖记录
	Upsert(ctx context.Context, rec StepRecord) error
	// MarkComplete 将已有记录置为完成，不存在返回 apperr.ErrNotFound
	MarkComplete(ctx context.Context, merchantID string) error
	// Delete 删除记录
	Delete(ctx context.Context, merchantID string) error
}

// StepRegistry 六个步骤集合的注册表
type StepRegistry map[StepKind]StepStore

// Store 按步骤取集合，未注册返回 false
func (r StepRegistry) Store(kind StepKind) (StepStore, bool) {
	s, ok := r[kind]
	return s, ok
}
