package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/VotaAI/Backend-API/internal/model"
	"github.com/VotaAI/Backend-API/internal/repository"
	apperrors "github.com/VotaAI/Backend-API/pkg/errors"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = apperrors.New(apperrors.KindInternal, 16004, "生成 Excel 文件失败")

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportTally 导出计票结果为 Excel（仅管理员）
	ExportTally(ctx context.Context, sessionID string, caller *Caller) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	votes  VoteService
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, votes VoteService, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, votes: votes, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportTally 导出计票结果为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "Apuração"
//   - 第 1 行：会话标题
//   - 表头：排名 | 选项 | 票数 | 占比
//   - 末行：合计
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportTally(ctx context.Context, sessionID string, caller *Caller) (*bytes.Buffer, string, error) {
	if err := RequireRole(caller, model.RoleAdmin); err != nil {
		return nil, "", err
	}

	session, err := s.repo.Session.GetByID(ctx, sessionID)
	if err != nil {
		return nil, "", mapSessionErr(s.logger, sessionID, err)
	}

	tally, err := s.votes.Tally(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Apuração"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 40)
	f.SetColWidth(sheetName, "C", "D", 14)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", session.Title)
	f.MergeCell(sheetName, "A1", "D1")
	f.SetCellStyle(sheetName, "A1", "D1", headerStyle)

	// 表头
	row := 2
	for i, h := range []string{"Posição", "Opção", "Votos", "Percentual"} {
		f.SetCellValue(sheetName, cell(colName(i), row), h)
	}
	f.SetCellStyle(sheetName, cell("A", row), cell("D", row), headerStyle)

	// 数据行
	row = 3
	for i, item := range tally.Results {
		f.SetCellValue(sheetName, cell("A", row), i+1)
		f.SetCellValue(sheetName, cell("B", row), item.Title)
		f.SetCellValue(sheetName, cell("C", row), item.Votes)
		f.SetCellValue(sheetName, cell("D", row), percent(item.Votes, tally.TotalVotes))
		row++
	}

	f.SetCellValue(sheetName, cell("B", row), "Total")
	f.SetCellValue(sheetName, cell("C", row), tally.TotalVotes)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("apuracao_%s.xlsx", sessionID)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func percent(part, total int64) string {
	if total == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(part)*100/float64(total))
}
