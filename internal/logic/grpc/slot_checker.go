package grpc

import (
	"context"
	"fmt"
	"time"

	"launchpad-decoder-sol/internal/metrics"
	"launchpad-decoder-sol/internal/pkg/logger"

	"github.com/blocto/solana-go-sdk/rpc"
)

const (
	maxPendingRanges = 200
	submitQueueSize  = 300
	delayBeforeCheck = 30 * time.Second
	checkInterval    = 10 * time.Second

	fetchAttempts = 3
	fetchTimeout  = 6 * time.Second
	fetchBackoff  = 300 * time.Millisecond
)

// blocksFetcher 返回 [from, to] 内实际产出区块的 slot
type blocksFetcher func(ctx context.Context, from, to uint64) ([]uint64, error)

// SlotChecker 延迟核对 gRPC 流中跳过的 slot：
// RPC 确认为空块的只记日志，确有区块却没收到的计入漏扫
type SlotChecker struct {
	getBlocks blocksFetcher
	metrics   *metrics.ProcessingMetrics
	rangeCh   chan SlotRange
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewSlotChecker(endpoint string, m *metrics.ProcessingMetrics) *SlotChecker {
	client := rpc.NewRpcClient(endpoint)
	return newSlotChecker(func(ctx context.Context, from, to uint64) ([]uint64, error) {
		resp, err := client.GetBlocks(ctx, from, to)
		if err != nil {
			return nil, err
		}
		return resp.Result, nil
	}, m)
}

func newSlotChecker(fetch blocksFetcher, m *metrics.ProcessingMetrics) *SlotChecker {
	ctx, cancel := context.WithCancel(context.Background())
	return &SlotChecker{
		getBlocks: fetch,
		metrics:   m,
		rangeCh:   make(chan SlotRange, submitQueueSize),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *SlotChecker) Start() {
	go s.run()
}

func (s *SlotChecker) Stop() {
	s.cancel()
}

// Submit 登记一段被跳过的 slot，闭区间 [from, to]，不阻塞调用方
func (s *SlotChecker) Submit(from, to uint64) {
	if from > to {
		logger.Warnf("[SlotChecker] invalid slot range: from (%d) > to (%d)", from, to)
		return
	}
	select {
	case s.rangeCh <- SlotRange{From: from, To: to, SubmitAt: time.Now()}:
	default:
		logger.Warnf("[SlotChecker] submit queue full, dropped: [%d, %d]", from, to)
	}
}

func (s *SlotChecker) run() {
	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	queue := &pendingRanges{limit: maxPendingRanges}
	for {
		select {
		case <-s.ctx.Done():
			logger.Infof("[SlotChecker] stopped")
			return

		case r := <-s.rangeCh:
			if !queue.push(r) {
				logger.Warnf("[SlotChecker] %d ranges pending, drop [%d, %d]", len(queue.items), r.From, r.To)
			}

		case now := <-ticker.C:
			// 核对期间积压的 tick 没有意义
			for len(ticker.C) > 0 {
				<-ticker.C
			}
			if ready := queue.due(now, delayBeforeCheck); len(ready) > 0 {
				s.checkSlotRanges(ready)
			}
		}
	}
}

// checkSlotRanges 逐窗口查询出块情况，返回确认漏扫的 slot 数。
// 查询失败的窗口内的 slot 既不算空块也不算漏扫
func (s *SlotChecker) checkSlotRanges(ranges []SlotRange) int {
	windows := coalesceRanges(ranges, maxQuerySpan)
	if len(windows) == 0 {
		return 0
	}

	empty := make(map[uint64]struct{})
	var failed rangeSet
	for _, w := range windows {
		if s.ctx.Err() != nil {
			logger.Infof("[SlotChecker] stopped before checking [%d, %d]", w.From, w.To)
			return 0
		}
		produced, err := s.fetchBlocks(w.From, w.To)
		if err != nil {
			logger.Warnf("[SlotChecker] getBlocks [%d, %d] failed: %v", w.From, w.To, err)
			failed = append(failed, w)
			continue
		}
		for _, slot := range emptySlots(w.From, w.To, produced) {
			empty[slot] = struct{}{}
		}
	}

	missing := 0
	for _, r := range ranges {
		for slot := r.From; slot <= r.To; slot++ {
			if failed.contains(slot) {
				continue
			}
			if _, ok := empty[slot]; ok {
				logger.Debugf("[SlotChecker] slot %d confirmed empty", slot)
				continue
			}
			logger.Errorf("[SlotChecker] slot %d produced a block but was never received", slot)
			missing++
		}
	}
	s.metrics.AddMissingSlots(missing)
	return missing
}

// fetchBlocks 带超时与重试地调用 getBlocks，SDK 的 panic 转为错误
func (s *SlotChecker) fetchBlocks(from, to uint64) (blocks []uint64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("getBlocks panic: %v", r)
		}
	}()

	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(s.ctx, fetchTimeout)
		blocks, err = s.getBlocks(ctx, from, to)
		cancel()
		if err == nil || attempt == fetchAttempts {
			return blocks, err
		}

		select {
		case <-s.ctx.Done():
			return nil, s.ctx.Err()
		case <-time.After(fetchBackoff):
		}
	}
}
