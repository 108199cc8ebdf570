package sink

import (
	"context"
	"io"
	"sync"

	"launchpad-decoder-sol/internal/logic/core"
	"launchpad-decoder-sol/internal/logic/ixparser/common"
	"launchpad-decoder-sol/internal/logic/render"
)

const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// ConsoleSink 把解码结果按文本或 yaml 格式写到 w
type ConsoleSink struct {
	mu       sync.Mutex // 多个 slot 并发发布时保证输出不交错
	w        io.Writer
	format   string
	decoders []*common.Decoder
}

func NewConsoleSink(w io.Writer, format string, decoders []*common.Decoder) *ConsoleSink {
	if format != FormatYAML {
		format = FormatText
	}
	return &ConsoleSink{w: w, format: format, decoders: decoders}
}

func (s *ConsoleSink) Name() string { return "console" }

func (s *ConsoleSink) Publish(_ context.Context, rs *core.SlotResultSet) error {
	if rs.Empty() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.format == FormatYAML {
		return render.RenderSlotYAML(s.w, rs, s.decoders)
	}
	return render.RenderSlot(s.w, rs, s.decoders)
}
