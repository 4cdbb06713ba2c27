package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/merturldosa/basemes-sub003/internal/mes/repository"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const dashboardCacheTTL = 60 * time.Second

// DashboardInvalidator 使租户的仪表盘缓存失效。
// 工单、报工、检验的写路径在落库成功后调用。
type DashboardInvalidator interface {
	Invalidate(ctx context.Context, tenantID string)
}

// DashboardSummary 仪表盘汇总数据
type DashboardSummary struct {
	WorkOrderByStatus  map[string]int64 `json:"work_order_by_status"`
	InspectionByResult map[string]int64 `json:"inspection_by_result"`
	TodayQuantity      decimal.Decimal  `json:"today_quantity"`
	TodayGoodQty       decimal.Decimal  `json:"today_good_qty"`
	TodayDefectQty     decimal.Decimal  `json:"today_defect_qty"`
	GeneratedAt        time.Time        `json:"generated_at"`
}

// DashboardService 仪表盘服务。汇总结果按租户缓存在redis中60秒，
// redis不可用时直接落库查询。
type DashboardService struct {
	woRepo         *repository.WorkOrderRepository
	inspectionRepo *repository.InspectionRepository
	resultRepo     *repository.WorkResultRepository
	rdb            *redis.Client
}

func NewDashboardService(woRepo *repository.WorkOrderRepository, inspectionRepo *repository.InspectionRepository, resultRepo *repository.WorkResultRepository, rdb *redis.Client) *DashboardService {
	return &DashboardService{
		woRepo:         woRepo,
		inspectionRepo: inspectionRepo,
		resultRepo:     resultRepo,
		rdb:            rdb,
	}
}

func dashboardCacheKey(tenantID string) string {
	return fmt.Sprintf("mes:dashboard:%s", tenantID)
}

// Summary 获取仪表盘汇总，优先读缓存
func (s *DashboardService) Summary(ctx context.Context, tenantID string) (*DashboardSummary, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, dashboardCacheKey(tenantID)).Bytes(); err == nil {
			var cached DashboardSummary
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	summary, err := s.compute(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(summary); err == nil {
			// 缓存失败不影响响应
			s.rdb.Set(ctx, dashboardCacheKey(tenantID), raw, dashboardCacheTTL)
		}
	}
	return summary, nil
}

// Invalidate 失效指定租户的缓存
func (s *DashboardService) Invalidate(ctx context.Context, tenantID string) {
	if s.rdb != nil {
		s.rdb.Del(ctx, dashboardCacheKey(tenantID))
	}
}

func (s *DashboardService) compute(ctx context.Context, tenantID string) (*DashboardSummary, error) {
	woCounts, err := s.woRepo.CountByStatus(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("count work orders: %w", err)
	}

	inspCounts, err := s.inspectionRepo.CountByResult(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("count inspections: %w", err)
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	results, err := s.resultRepo.FindByDateRange(ctx, tenantID, dayStart, now)
	if err != nil {
		return nil, fmt.Errorf("load today results: %w", err)
	}

	qty, good, defect := decimal.Zero, decimal.Zero, decimal.Zero
	for _, r := range results {
		qty = qty.Add(r.Quantity)
		good = good.Add(r.GoodQty)
		defect = defect.Add(r.DefectQty)
	}

	return &DashboardSummary{
		WorkOrderByStatus:  woCounts,
		InspectionByResult: inspCounts,
		TodayQuantity:      qty,
		TodayGoodQty:       good,
		TodayDefectQty:     defect,
		GeneratedAt:        now,
	}, nil
}
