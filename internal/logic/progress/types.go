package progress

import "context"

// SlotStatus 表示 slot 的处理状态（Redis 与内存存储统一编码）
type SlotStatus int

const (
	SlotUnknown   SlotStatus = 0 // 不存在记录
	SlotProcessed SlotStatus = 1 // 已处理成功
	SlotInvalid   SlotStatus = 2 // 明确结构错误、跳过
	SlotPending   SlotStatus = 3 // 处理中，暂未完成
)

func (s SlotStatus) String() string {
	switch s {
	case SlotProcessed:
		return "processed"
	case SlotInvalid:
		return "invalid"
	case SlotPending:
		return "pending"
	default:
		return "unknown"
	}
}

// Source 表示 slot 来源（grpc 推送、离线回放）
const (
	SourceUnknown int16 = 0
	SourceGrpc    int16 = 1
	SourceReplay  int16 = 2
)

func SourceName(src int16) string {
	switch src {
	case SourceGrpc:
		return "grpc"
	case SourceReplay:
		return "replay"
	default:
		return "unknown"
	}
}

// Store 是 slot 状态存储
type Store interface {
	GetSlotStatus(ctx context.Context, slot uint64) (SlotStatus, error)
	MarkSlotStatus(ctx context.Context, slot uint64, status SlotStatus) error
}
