package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestTranslateWriteErr(t *testing.T) {
	cpfErr := &pgconn.PgError{Code: "23505", ConstraintName: ConstraintUserCPF}
	got := translateWriteErr(fmt.Errorf("insert users: %w", cpfErr))

	if !errors.Is(got, ErrDuplicate) {
		t.Fatalf("期望 ErrDuplicate，实际: %v", got)
	}
	if c := DuplicateConstraint(got); c != ConstraintUserCPF {
		t.Errorf("期望约束 %s，实际=%q", ConstraintUserCPF, c)
	}
	var pgErr *pgconn.PgError
	if !errors.As(got, &pgErr) {
		t.Error("应保留底层 PgError")
	}

	if got := translateWriteErr(gorm.ErrDuplicatedKey); !errors.Is(got, ErrDuplicate) || DuplicateConstraint(got) != "" {
		t.Errorf("ErrDuplicatedKey 期望无约束名的 ErrDuplicate，实际: %v", got)
	}

	other := &pgconn.PgError{Code: "23503"}
	if got := translateWriteErr(other); errors.Is(got, ErrDuplicate) {
		t.Errorf("外键冲突不应视为重复，实际: %v", got)
	}
	if translateWriteErr(nil) != nil {
		t.Error("nil 应原样返回")
	}
}

func TestTranslateReadErr(t *testing.T) {
	invalid := &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}
	if got := translateReadErr(invalid); !errors.Is(got, gorm.ErrRecordNotFound) {
		t.Errorf("22P02 期望 ErrRecordNotFound，实际: %v", got)
	}

	conn := errors.New("connection refused")
	if got := translateReadErr(conn); got != conn {
		t.Errorf("其他错误应原样返回，实际: %v", got)
	}
}

func TestDuplicateConstraint_NonDuplicate(t *testing.T) {
	if c := DuplicateConstraint(errors.New("boom")); c != "" {
		t.Errorf("期望空字符串，实际=%q", c)
	}
}

type fakeSnapshot struct{ restored bool }

func (f *fakeSnapshot) Snapshot() func() {
	return func() { f.restored = true }
}

func TestRepository_Snapshot(t *testing.T) {
	if restore := (&Repository{}).Snapshot(); restore == nil {
		t.Fatal("无内存实现时应返回空操作")
	}

	mem := &fakeSnapshot{}
	repo := &Repository{Memory: mem}
	repo.Snapshot()()
	if !mem.restored {
		t.Error("未持有数据库连接时应委托给 Memory")
	}
}
