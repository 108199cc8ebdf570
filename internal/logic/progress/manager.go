package progress

import (
	"context"
	"time"

	"launchpad-decoder-sol/internal/pkg/logger"
)

// ProgressManager 封装 slot 判重与状态写入。
// nil 的 *ProgressManager 视为关闭判重：所有 slot 都需要处理
type ProgressManager struct {
	store           Store
	recentThreshold time.Duration // blockTime 在阈值内的新区块跳过判重
}

func NewProgressManager(store Store, recentThresholdSec int) *ProgressManager {
	return &ProgressManager{
		store:           store,
		recentThreshold: time.Duration(recentThresholdSec) * time.Second,
	}
}

// ShouldProcessSlot 判断是否需要处理该 slot：
// - 阈值内的新区块直接处理；
// - 已处理、已标记无效或处理中的 slot 跳过。
// 存储出错时返回 true 与错误，由调用方决定是否继续
func (pm *ProgressManager) ShouldProcessSlot(ctx context.Context, slot uint64, blockTime int64) (bool, error) {
	if pm == nil {
		return true, nil
	}
	if pm.recentThreshold > 0 && blockTime > 0 &&
		time.Since(time.Unix(blockTime, 0)) <= pm.recentThreshold {
		return true, nil
	}

	status, err := pm.store.GetSlotStatus(ctx, slot)
	if err != nil {
		return true, err
	}
	switch status {
	case SlotProcessed, SlotInvalid, SlotPending:
		logger.Debugf("[ProgressManager] skip slot=%d status=%s", slot, status)
		return false, nil
	default:
		return true, nil
	}
}

// MarkSlotPending 在处理开始前标记，防止其他实例重复处理
func (pm *ProgressManager) MarkSlotPending(ctx context.Context, slot uint64) error {
	if pm == nil {
		return nil
	}
	return pm.store.MarkSlotStatus(ctx, slot, SlotPending)
}

// MarkSlotProcessed 标记 slot 已处理
func (pm *ProgressManager) MarkSlotProcessed(ctx context.Context, slot uint64, source int16) error {
	if pm == nil {
		return nil
	}
	if err := pm.store.MarkSlotStatus(ctx, slot, SlotProcessed); err != nil {
		return err
	}
	logger.Debugf("[ProgressManager] slot=%d processed, source=%s", slot, SourceName(source))
	return nil
}

// MarkSlotInvalid 标记 slot 无法处理（如区块结构错误）
func (pm *ProgressManager) MarkSlotInvalid(ctx context.Context, slot uint64) error {
	if pm == nil {
		return nil
	}
	return pm.store.MarkSlotStatus(ctx, slot, SlotInvalid)
}

// ReleaseSlot 撤销 Pending 标记，允许该 slot 被重新处理（发布失败时调用）
func (pm *ProgressManager) ReleaseSlot(ctx context.Context, slot uint64) error {
	if pm == nil {
		return nil
	}
	return pm.store.MarkSlotStatus(ctx, slot, SlotUnknown)
}
