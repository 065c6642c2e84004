package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"kamu-koprusu/backend/internal/dto"
	"kamu-koprusu/backend/internal/model"
	"kamu-koprusu/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoData       = errors.New("所选范围内没有可导出的数据")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// 机构回访跟进期限：投诉进入处理后 7 天内应给出进展
const followUpDeadline = 7 * 24 * time.Hour

// ExportService 导出业务接口
//
// 设计说明：
//   - 统计报表导出为 Excel (.xlsx)，按报表维度分 Sheet
//   - 机构侧待办导出为 iCalendar (.ics)，每条在办投诉生成一个带跟进期限的日程
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportReport 导出统计报表为 Excel
	ExportReport(ctx context.Context, req *dto.ReportRequest) (*bytes.Buffer, string, error)
	// ExportFollowUpCalendar 导出机构在办投诉跟进日历
	ExportFollowUpCalendar(ctx context.Context, institutionID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportReport — 导出统计报表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "月度统计"：月份 × 投诉量
//   - Sheet "机构表现"：机构 × 总量/已解决/解决率/平均解决天数
//   - Sheet "类别分布"：类别 × 投诉量

func (s *exportService) ExportReport(ctx context.Context, req *dto.ReportRequest) (*bytes.Buffer, string, error) {
	start := parseDate(req.StartDate)
	end := parseDateEnd(req.EndDate)

	monthly, err := s.repo.Stats.MonthlyComplaints(ctx, start, end)
	if err != nil {
		s.logger.Error("查询月度统计失败", zap.Error(err))
		return nil, "", err
	}
	institutions, err := s.repo.Stats.InstitutionPerformance(ctx, start, end)
	if err != nil {
		s.logger.Error("查询机构统计失败", zap.Error(err))
		return nil, "", err
	}
	categories, err := s.repo.Stats.CategoryDistribution(ctx, start, end)
	if err != nil {
		s.logger.Error("查询类别统计失败", zap.Error(err))
		return nil, "", err
	}

	if len(monthly) == 0 && len(institutions) == 0 && len(categories) == 0 {
		return nil, "", ErrExportNoData
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// Sheet 1: 月度统计
	monthSheet := "月度统计"
	idx, _ := f.NewSheet(monthSheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")
	f.SetColWidth(monthSheet, "A", "A", 12)
	f.SetColWidth(monthSheet, "B", "B", 12)
	f.SetCellValue(monthSheet, "A1", "月份")
	f.SetCellValue(monthSheet, "B1", "投诉量")
	f.SetCellStyle(monthSheet, "A1", "B1", headerStyle)
	for i, row := range monthly {
		f.SetCellValue(monthSheet, cell("A", i+2), row.Month)
		f.SetCellValue(monthSheet, cell("B", i+2), row.Count)
	}

	// Sheet 2: 机构表现
	instSheet := "机构表现"
	f.NewSheet(instSheet)
	f.SetColWidth(instSheet, "A", "A", 30)
	f.SetColWidth(instSheet, "B", "E", 14)
	headers := []string{"机构", "投诉总量", "已解决", "解决率", "平均解决天数"}
	for i, h := range headers {
		f.SetCellValue(instSheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(instSheet, "A1", cell(colName(len(headers)-1), 1), headerStyle)
	for i, row := range institutions {
		rate := 0.0
		if row.Total > 0 {
			rate = float64(row.Resolved) / float64(row.Total)
		}
		r := i + 2
		f.SetCellValue(instSheet, cell("A", r), row.InstitutionName)
		f.SetCellValue(instSheet, cell("B", r), row.Total)
		f.SetCellValue(instSheet, cell("C", r), row.Resolved)
		f.SetCellValue(instSheet, cell("D", r), fmt.Sprintf("%.1f%%", rate*100))
		f.SetCellValue(instSheet, cell("E", r), fmt.Sprintf("%.1f", row.AvgResolveDays))
	}

	// Sheet 3: 类别分布
	catSheet := "类别分布"
	f.NewSheet(catSheet)
	f.SetColWidth(catSheet, "A", "A", 20)
	f.SetColWidth(catSheet, "B", "B", 12)
	f.SetCellValue(catSheet, "A1", "类别")
	f.SetCellValue(catSheet, "B1", "投诉量")
	f.SetCellStyle(catSheet, "A1", "B1", headerStyle)
	for i, row := range categories {
		f.SetCellValue(catSheet, cell("A", i+2), row.Category)
		f.SetCellValue(catSheet, cell("B", i+2), row.Count)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("投诉统计报表_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportFollowUpCalendar — 导出机构在办投诉跟进日历
// ═══════════════════════════════════════════════════════════
//
// 每条未到终态的投诉生成一个 VEVENT，
// 跟进期限为投诉进入当前状态后 7 天

func (s *exportService) ExportFollowUpCalendar(ctx context.Context, institutionID string) (*bytes.Buffer, string, error) {
	if institutionID == "" {
		return nil, "", ErrNoInstitutionBound
	}

	inst, err := s.repo.Institution.GetByID(ctx, institutionID)
	if err != nil {
		s.logger.Error("查询机构失败", zap.Error(err))
		return nil, "", ErrInstitutionNotFound
	}

	// 在办 = 审核通过且未到终态
	var active []model.Complaint
	for _, status := range []model.ComplaintStatus{model.StatusNew, model.StatusViewed, model.StatusInProgress} {
		complaints, _, err := s.repo.Complaint.List(ctx, repository.ComplaintFilter{
			InstitutionID: institutionID,
			Status:        status,
		}, 0, 500)
		if err != nil {
			s.logger.Error("查询在办投诉失败", zap.Error(err))
			return nil, "", err
		}
		active = append(active, complaints...)
	}
	if len(active) == 0 {
		return nil, "", ErrExportNoData
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//KamuKoprusu//FollowUp//TR")

	for i := range active {
		c := active[i]
		deadline := c.UpdatedAt.Add(followUpDeadline)

		event := cal.AddEvent(fmt.Sprintf("followup-%s@kamukoprusu", c.ComplaintID))
		event.SetCreatedTime(time.Now())
		event.SetDtStampTime(time.Now())
		event.SetStartAt(deadline)
		event.SetEndAt(deadline.Add(time.Hour))
		event.SetSummary(fmt.Sprintf("[跟进] %s", c.Title))
		event.SetDescription(fmt.Sprintf("状态: %s\n提交时间: %s",
			c.Status, c.CreatedAt.Format("2006-01-02")))
		if c.Location != "" {
			event.SetLocation(c.Location)
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("跟进日历_%s.ics", inst.Name)
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
