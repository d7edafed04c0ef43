package mysql

import (
	"context"
	"strings"
	"testing"

	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wyfcoding/merchantonboarding/internal/onboarding/domain"
)

// newDryRunDB 打开只生成 SQL 不执行的 GORM 会话，用于校验仓储生成的语句
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(gormmysql.New(gormmysql.Config{
		DSN:                       "dryrun:dryrun@tcp(127.0.0.1:3306)/dryrun?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:                 true,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		TranslateError:         true,
		Logger:                 logger.Discard,
	})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return database
}

// captureSQL 在增删改回调之后记录最终生成的语句
func captureSQL(t *testing.T, database *gorm.DB) *[]string {
	t.Helper()
	var captured []string
	record := func(tx *gorm.DB) {
		captured = append(captured, tx.Statement.SQL.String())
	}
	if err := database.Callback().Create().After("gorm:create").Register("test:capture_create", record); err != nil {
		t.Fatalf("register create callback: %v", err)
	}
	if err := database.Callback().Update().After("gorm:update").Register("test:capture_update", record); err != nil {
		t.Fatalf("register update callback: %v", err)
	}
	if err := database.Callback().Delete().After("gorm:delete").Register("test:capture_delete", record); err != nil {
		t.Fatalf("register delete callback: %v", err)
	}
	return &captured
}

func newTestStore(database *gorm.DB) *stepStore {
	return &stepStore{
		db:        database,
		kind:      domain.StepPayment,
		newRecord: func() domain.StepRecord { return &domain.PaymentInfo{} },
	}
}

// 删除必须是物理删除：merchant_id 上是唯一索引，软删除墓碑会占住索引，
// 重置或删除后的首次提交会被误判为重复记录
func TestStepStoreDeleteIssuesHardDelete(t *testing.T) {
	database := newDryRunDB(t)
	captured := captureSQL(t, database)
	store := newTestStore(database)

	// dry-run 影响行数恒为 0，仓储会报记录不存在，这里只关心生成的语句
	_ = store.Delete(context.Background(), "MID1")

	if len(*captured) != 1 {
		t.Fatalf("captured %d statements, want 1", len(*captured))
	}
	sql := strings.ToUpper((*captured)[0])
	if !strings.HasPrefix(sql, "DELETE FROM") {
		t.Fatalf("delete generated %q, want a DELETE statement", (*captured)[0])
	}
	if strings.Contains(sql, "DELETED_AT") {
		t.Fatalf("delete must not write a tombstone: %q", (*captured)[0])
	}
}

func TestStepStoreCreateIssuesPlainInsert(t *testing.T) {
	database := newDryRunDB(t)
	captured := captureSQL(t, database)
	store := newTestStore(database)

	rec := &domain.PaymentInfo{MerchantID: "MID1", Completed: true}
	if err := store.Create(context.Background(), rec); err != nil {
		t.Fatalf("create: %v", err)
	}

	sql := strings.ToUpper((*captured)[0])
	if !strings.HasPrefix(sql, "INSERT INTO") {
		t.Fatalf("create generated %q, want an INSERT statement", (*captured)[0])
	}
	if strings.Contains(sql, "ON DUPLICATE KEY") {
		t.Fatalf("create must not silently overwrite: %q", (*captured)[0])
	}
}

func TestStepStoreUpsertOverwritesOnConflict(t *testing.T) {
	database := newDryRunDB(t)
	captured := captureSQL(t, database)
	store := newTestStore(database)

	rec := &domain.PaymentInfo{MerchantID: "MID1", Completed: true}
	if err := store.Upsert(context.Background(), rec); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	sql := strings.ToUpper((*captured)[0])
	if !strings.Contains(sql, "ON DUPLICATE KEY UPDATE") {
		t.Fatalf("upsert generated %q, want ON DUPLICATE KEY UPDATE", (*captured)[0])
	}
}

func TestStepStoreMarkCompleteUpdatesFlag(t *testing.T) {
	database := newDryRunDB(t)
	captured := captureSQL(t, database)
	store := newTestStore(database)

	_ = store.MarkComplete(context.Background(), "MID1")

	if len(*captured) != 1 {
		t.Fatalf("captured %d statements, want 1", len(*captured))
	}
	sql := (*captured)[0]
	if !strings.HasPrefix(strings.ToUpper(sql), "UPDATE") {
		t.Fatalf("mark complete generated %q, want an UPDATE statement", sql)
	}
	if !strings.Contains(sql, "`completed`") {
		t.Fatalf("mark complete must set the completed column: %q", sql)
	}
}
