package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicate 唯一约束冲突（PostgreSQL 23505）
var ErrDuplicate = errors.New("记录已存在")

// 需要区分处理的唯一索引
const (
	ConstraintUserEmail = "uk_users_email"
	ConstraintUserCPF   = "uk_users_cpf"
)

// DuplicateError 唯一约束冲突，Constraint 为触发冲突的约束或索引名（未知时为空）
// errors.Is(err, ErrDuplicate) 对其成立
type DuplicateError struct {
	Constraint string
	Err        error
}

func (e *DuplicateError) Error() string {
	if e.Constraint == "" {
		return ErrDuplicate.Error()
	}
	return fmt.Sprintf("%s: %s", ErrDuplicate.Error(), e.Constraint)
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

func (e *DuplicateError) Unwrap() error { return e.Err }

// DuplicateConstraint 返回唯一约束冲突的约束名，非冲突错误返回空字符串
func DuplicateConstraint(err error) string {
	var dup *DuplicateError
	if errors.As(err, &dup) {
		return dup.Constraint
	}
	return ""
}

// Snapshotter 内存实现的事务替身：Snapshot 保存当前状态并返回恢复函数
type Snapshotter interface {
	Snapshot() (restore func())
}

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	// Memory 未持有数据库连接时（内存实现）用于事务回滚
	Memory Snapshotter

	User       UserRepository
	Credential CredentialRepository
	Category   CategoryRepository
	Session    VotingSessionRepository
	Option     OptionRepository
	Candidacy  CandidacyRepository
	Vote       VoteRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		User:       NewUserRepo(db),
		Credential: NewCredentialRepo(db),
		Category:   NewCategoryRepo(db),
		Session:    NewVotingSessionRepo(db),
		Option:     NewOptionRepo(db),
		Candidacy:  NewCandidacyRepo(db),
		Vote:       NewVoteRepo(db),
	}
}

// BeginTx 开启事务
// 未持有数据库连接时（单元测试中的 mock 聚合）返回 nil 事务
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到事务连接的 Repository 聚合，tx 为 nil 时返回自身
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// Snapshot 未持有数据库连接时保存内存状态并返回恢复函数，其余情况返回空操作
func (r *Repository) Snapshot() (restore func()) {
	if r.db != nil || r.Memory == nil {
		return func() {}
	}
	return r.Memory.Snapshot()
}

// Ping 数据库健康检查
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// ── 错误转换 ──

// translateWriteErr 将唯一约束冲突转换为 *DuplicateError（保留约束名），其余错误原样返回
func translateWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return &DuplicateError{Constraint: pgErr.ConstraintName, Err: err}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &DuplicateError{Err: err}
	}
	return err
}

// translateReadErr 非法的 UUID 文本（22P02）按记录不存在处理
func translateReadErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "22P02" {
		return gorm.ErrRecordNotFound
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern 构造 ILIKE 子串匹配模式
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
