package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/VotaAI/Backend-API/internal/model"
)

// ── 测试辅助 ──

func setupTestExportService() (ExportService, VoteService, *mockStore) {
	repo, ms := newMockStore()
	votes := NewVoteService(repo, nopLogger)
	votes.(*voteService).now = fixedClock(day(2025, 5, 10))
	return NewExportService(repo, votes, nopLogger), votes, ms
}

// ── ExportTally 测试 ──

func TestExportService_ExportTally_NonAdmin(t *testing.T) {
	svc, _, ms := setupTestExportService()
	u := ms.addUser("Carlos", "carlos@example.com", "11111111111", model.RoleStandard)
	sess := ms.addSession("Eleição", day(2025, 5, 1), day(2025, 5, 31), false)

	_, _, err := svc.ExportTally(context.Background(), sess.VotingSessionID, standardCaller(u))
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("期望 ErrForbidden，实际: %v", err)
	}
}

func TestExportService_ExportTally_SessionNotFound(t *testing.T) {
	svc, _, ms := setupTestExportService()
	admin := ms.addUser("Admin", "admin@example.com", "99999999999", model.RoleAdmin)

	_, _, err := svc.ExportTally(context.Background(), "missing", adminCaller(admin))
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("期望 ErrSessionNotFound，实际: %v", err)
	}
}

func TestExportService_ExportTally_Workbook(t *testing.T) {
	svc, votes, ms := setupTestExportService()
	admin := ms.addUser("Admin", "admin@example.com", "99999999999", model.RoleAdmin)
	sess := ms.addSession("Board Election", day(2025, 5, 1), day(2025, 5, 31), false)
	o1 := ms.addOption(sess.VotingSessionID, "Chapa 1")
	o2 := ms.addOption(sess.VotingSessionID, "Chapa 2")

	for _, cpf := range []string{"10000000001", "10000000002", "10000000003"} {
		u := ms.addUser("Eleitor", cpf+"@example.com", cpf, model.RoleStandard)
		castVote(t, votes, u, sess.VotingSessionID, o1.OptionID, false)
	}
	u4 := ms.addUser("Eleitor", "e4@example.com", "10000000004", model.RoleStandard)
	castVote(t, votes, u4, sess.VotingSessionID, o2.OptionID, false)

	buf, filename, err := svc.ExportTally(context.Background(), sess.VotingSessionID, adminCaller(admin))
	if err != nil {
		t.Fatalf("ExportTally 失败: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") || !strings.Contains(filename, sess.VotingSessionID) {
		t.Errorf("文件名不符: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("无法解析生成的 Excel: %v", err)
	}
	defer f.Close()

	sheet := "Apuração"
	expect := map[string]string{
		"A1": "Board Election",
		"B2": "Opção",
		"B3": "Chapa 1",
		"C3": "3",
		"D3": "75.00%",
		"B4": "Chapa 2",
		"C4": "1",
		"B5": "Total",
		"C5": "4",
	}
	for axis, want := range expect {
		got, err := f.GetCellValue(sheet, axis)
		if err != nil {
			t.Fatalf("读取 %s 失败: %v", axis, err)
		}
		if got != want {
			t.Errorf("%s 期望 %q，实际 %q", axis, want, got)
		}
	}
}

func TestExportService_ExportTally_EmptySession(t *testing.T) {
	svc, _, ms := setupTestExportService()
	admin := ms.addUser("Admin", "admin@example.com", "99999999999", model.RoleAdmin)
	sess := ms.addSession("Sem votos", day(2025, 5, 1), day(2025, 5, 31), false)

	buf, _, err := svc.ExportTally(context.Background(), sess.VotingSessionID, adminCaller(admin))
	if err != nil {
		t.Fatalf("无票时导出不应失败: %v", err)
	}
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("无法解析生成的 Excel: %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue("Apuração", "C3"); got != "0" {
		t.Errorf("合计应为 0，实际 %q", got)
	}
}

func TestPercent(t *testing.T) {
	if got := percent(1, 3); got != "33.33%" {
		t.Errorf("期望 33.33%%，实际 %s", got)
	}
	if got := percent(0, 0); got != "0.00%" {
		t.Errorf("期望 0.00%%，实际 %s", got)
	}
}
