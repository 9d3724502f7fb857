package hash

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

var ErrMismatch = errors.New("密码不匹配")

// Hasher 密码单向哈希与校验
type Hasher interface {
	Hash(password string) (string, error)
	// Verify 根据哈希前缀识别算法，两种算法生成的哈希都可校验
	Verify(password, encoded string) error
}

// New 按名称创建 Hasher，空字符串使用 bcrypt
func New(algorithm string) (Hasher, error) {
	switch algorithm {
	case "", AlgorithmBcrypt:
		return &bcryptHasher{cost: bcrypt.DefaultCost}, nil
	case AlgorithmArgon2id:
		return &argon2Hasher{params: defaultArgon2Params}, nil
	default:
		return nil, fmt.Errorf("不支持的密码哈希算法: %s", algorithm)
	}
}

// ── bcrypt ──

type bcryptHasher struct {
	cost int
}

func (h *bcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *bcryptHasher) Verify(password, encoded string) error {
	return verify(password, encoded)
}

// ── argon2id ──

var defaultArgon2Params = &argon2id.Params{
	Memory:      64 * 1024, // 64 MB
	Iterations:  3,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

type argon2Hasher struct {
	params *argon2id.Params
}

func (h *argon2Hasher) Hash(password string) (string, error) {
	return argon2id.CreateHash(password, h.params)
}

func (h *argon2Hasher) Verify(password, encoded string) error {
	return verify(password, encoded)
}

func verify(password, encoded string) error {
	if strings.HasPrefix(encoded, "$argon2id$") {
		ok, err := argon2id.ComparePasswordAndHash(password, encoded)
		if err != nil {
			return err
		}
		if !ok {
			return ErrMismatch
		}
		return nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return err
	}
	return nil
}
