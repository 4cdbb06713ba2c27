package service

import (
	"context"
	"fmt"
	"time"

	"github.com/merturldosa/basemes-sub003/internal/mes/repository"
	"github.com/xuri/excelize/v2"
)

// ExportService 报工记录导出服务
type ExportService struct {
	resultRepo *repository.WorkResultRepository
	woRepo     *repository.WorkOrderRepository
}

func NewExportService(resultRepo *repository.WorkResultRepository, woRepo *repository.WorkOrderRepository) *ExportService {
	return &ExportService{resultRepo: resultRepo, woRepo: woRepo}
}

var workResultExportHeaders = []string{
	"序号", "工单编码", "报工数量", "良品数量", "不良数量", "报工人", "批次", "报工时间", "备注",
}

// ExportWorkResults 按时间范围导出报工记录为xlsx
func (s *ExportService) ExportWorkResults(ctx context.Context, tenantID string, from, to time.Time) (*excelize.File, string, error) {
	results, err := s.resultRepo.FindByDateRange(ctx, tenantID, from, to)
	if err != nil {
		return nil, "", fmt.Errorf("load work results: %w", err)
	}

	// 工单编码查询缓存，避免逐行重复查询
	codes := make(map[string]string)
	for _, r := range results {
		if _, ok := codes[r.WorkOrderID]; ok {
			continue
		}
		wo, err := s.woRepo.FindByID(ctx, tenantID, r.WorkOrderID)
		if err != nil {
			codes[r.WorkOrderID] = r.WorkOrderID
			continue
		}
		codes[r.WorkOrderID] = wo.Code
	}

	f := excelize.NewFile()
	sheet := "报工记录"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range workResultExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, r := range results {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), rowIdx+1)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), codes[r.WorkOrderID])
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Quantity.String())
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.GoodQty.String())
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.DefectQty.String())
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.WorkerID)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), r.LotID)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), r.ReportedAt.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), r.Remarks)
	}

	colWidths := []float64{6, 18, 12, 12, 12, 14, 14, 20, 24}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("work_results_%s_%s.xlsx", from.Format("20060102"), to.Format("20060102"))
	return f, filename, nil
}
