package model

import (
	"testing"
	"time"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"admin":    RoleAdmin,
		" ADMIN ":  RoleAdmin,
		"standard": RoleStandard,
		"padrão":   RoleStandard,
	}
	for in, want := range cases {
		got, err := ParseRole(in)
		if err != nil || got != want {
			t.Errorf("ParseRole(%q) = %q, %v；期望 %q", in, got, err, want)
		}
	}
	if _, err := ParseRole("superuser"); err == nil {
		t.Error("未知角色应被拒绝")
	}
}

func TestParseSessionStatus(t *testing.T) {
	if s, ok := ParseSessionStatus("Aberta"); !ok || s != SessionOpen {
		t.Errorf("Aberta 应解析为 open，实际 %q", s)
	}
	if s, ok := ParseSessionStatus("closed"); !ok || s != SessionClosed {
		t.Errorf("closed 应解析为 closed，实际 %q", s)
	}
	if _, ok := ParseSessionStatus("paused"); ok {
		t.Error("未知状态应解析失败")
	}
}

func TestParseCandidacyStatus(t *testing.T) {
	cases := map[string]CandidacyStatus{
		"Aprovada":  CandidacyApproved,
		"APPROVED":  CandidacyApproved,
		"pendente":  CandidacyPending,
		"Recusada":  CandidacyRejected,
		"rejeitada": CandidacyRejected,
	}
	for in, want := range cases {
		got, ok := ParseCandidacyStatus(in)
		if !ok || got != want {
			t.Errorf("ParseCandidacyStatus(%q) = %q；期望 %q", in, got, want)
		}
	}
	if _, ok := ParseCandidacyStatus("talvez"); ok {
		t.Error("未知状态应解析失败")
	}
}

func TestCandidacyTransition(t *testing.T) {
	tests := []struct {
		from, to CandidacyStatus
		effect   TransitionEffect
		ok       bool
	}{
		{CandidacyPending, CandidacyApproved, EffectEmitOption, true},
		{CandidacyPending, CandidacyRejected, EffectNone, true},
		{CandidacyPending, CandidacyPending, EffectNoop, true},
		{CandidacyApproved, CandidacyApproved, EffectNoop, true},
		{CandidacyRejected, CandidacyRejected, EffectNoop, true},
		{CandidacyApproved, CandidacyRejected, 0, false},
		{CandidacyApproved, CandidacyPending, 0, false},
		{CandidacyRejected, CandidacyApproved, 0, false},
	}
	for _, tt := range tests {
		effect, ok := tt.from.Transition(tt.to)
		if ok != tt.ok || (ok && effect != tt.effect) {
			t.Errorf("%s→%s = (%v, %v)；期望 (%v, %v)", tt.from, tt.to, effect, ok, tt.effect, tt.ok)
		}
	}
}

func TestVotingSession_EffectiveStatus(t *testing.T) {
	end := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	s := &VotingSession{Status: SessionOpen, EndDate: end}

	if got := s.EffectiveStatus(end.Add(-time.Hour)); got != SessionOpen {
		t.Errorf("结束前应为 open，实际 %s", got)
	}
	if got := s.EffectiveStatus(end); got != SessionOpen {
		t.Errorf("恰好等于结束时间时仍为 open，实际 %s", got)
	}
	if got := s.EffectiveStatus(end.Add(24 * time.Hour)); got != SessionClosed {
		t.Errorf("结束后应为 closed，实际 %s", got)
	}

	s.Status = SessionClosed
	if s.IsOpen(end.Add(-time.Hour)) {
		t.Error("已关闭的会话不应被视为 open")
	}
}
