package hash

import (
	"errors"
	"strings"
	"testing"
)

func TestNew_Unknown(t *testing.T) {
	if _, err := New("md5"); err == nil {
		t.Error("未知算法应返回错误")
	}
}

func TestBcrypt_HashAndVerify(t *testing.T) {
	h, err := New(AlgorithmBcrypt)
	if err != nil {
		t.Fatalf("New 失败: %v", err)
	}

	encoded, err := h.Hash("s3nha-forte")
	if err != nil {
		t.Fatalf("Hash 失败: %v", err)
	}
	if !strings.HasPrefix(encoded, "$2") {
		t.Errorf("期望 bcrypt 前缀，实际: %s", encoded)
	}
	if err := h.Verify("s3nha-forte", encoded); err != nil {
		t.Errorf("正确密码应通过校验: %v", err)
	}
	if err := h.Verify("errada", encoded); !errors.Is(err, ErrMismatch) {
		t.Errorf("期望 ErrMismatch，实际: %v", err)
	}
}

func TestArgon2id_HashAndVerify(t *testing.T) {
	h, _ := New(AlgorithmArgon2id)

	encoded, err := h.Hash("s3nha-forte")
	if err != nil {
		t.Fatalf("Hash 失败: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Errorf("期望 argon2id 前缀，实际: %s", encoded)
	}
	if err := h.Verify("s3nha-forte", encoded); err != nil {
		t.Errorf("正确密码应通过校验: %v", err)
	}
	if err := h.Verify("errada", encoded); !errors.Is(err, ErrMismatch) {
		t.Errorf("期望 ErrMismatch，实际: %v", err)
	}
}

func TestVerify_CrossAlgorithm(t *testing.T) {
	b, _ := New(AlgorithmBcrypt)
	a, _ := New(AlgorithmArgon2id)

	// 切换算法后旧哈希仍可校验
	old, _ := b.Hash("senha")
	if err := a.Verify("senha", old); err != nil {
		t.Errorf("argon2id Hasher 应能校验 bcrypt 哈希: %v", err)
	}
	newer, _ := a.Hash("senha")
	if err := b.Verify("senha", newer); err != nil {
		t.Errorf("bcrypt Hasher 应能校验 argon2id 哈希: %v", err)
	}
}
