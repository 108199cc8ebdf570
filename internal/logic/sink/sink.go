package sink

import (
	"context"

	"launchpad-decoder-sol/internal/logic/core"
)

// Sink 接收一个 slot 全部批次合并后的解码结果
type Sink interface {
	Name() string
	Publish(ctx context.Context, rs *core.SlotResultSet) error
}
