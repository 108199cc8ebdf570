package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"launchpad-decoder-sol/internal/logic/core"
	"launchpad-decoder-sol/internal/logic/progress"
	"launchpad-decoder-sol/internal/logic/txadapter"
	"launchpad-decoder-sol/internal/svc"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"github.com/zeromicro/go-zero/core/logx"
)

type BlockProcessor struct {
	sc        *svc.GrpcServiceContext
	checker   *SlotChecker                  // 可为 nil，未配置 RPC 时不做漏扫检查
	blockChan chan *pb.SubscribeUpdateBlock // 接收 block 的 channel
	lastSlot  uint64                        // 已收到的最大 slot，只在处理协程内读写
	ctx       context.Context
	cancel    func(err error)
	logx.Logger
}

func NewBlockProcessor(sc *svc.GrpcServiceContext, blockChan chan *pb.SubscribeUpdateBlock, checker *SlotChecker) *BlockProcessor {
	ctx, cancel := context.WithCancelCause(context.Background())
	return &BlockProcessor{
		sc:        sc,
		checker:   checker,
		blockChan: blockChan,
		Logger:    logx.WithContext(ctx).WithFields(logx.Field("service", "block_processor")),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (p *BlockProcessor) Start() {
	for {
		select {
		case <-p.ctx.Done():
			return
		case block, ok := <-p.blockChan:
			if !ok {
				return
			}
			if err := p.HandleBlock(p.ctx, block); err != nil {
				p.Errorf("slot %d 处理失败: %v", block.Slot, err)
			}
			if len(p.blockChan) > 10 {
				p.Debugf("block chan len:%v", len(p.blockChan))
			}
		}
	}
}

func (p *BlockProcessor) Stop() {
	p.cancel(errors.New("service stop"))
}

// HandleBlock 处理单个区块：判重、解码、发布、记录进度。
// 任一输出失败时撤销 Pending 标记并返回错误，该 slot 之后可以被重新处理
func (p *BlockProcessor) HandleBlock(ctx context.Context, block *pb.SubscribeUpdateBlock) error {
	startTime := time.Now()
	slot := block.Slot
	p.trackGap(slot)

	// 1. 判重
	pm := p.sc.ProgressManager
	should, err := pm.ShouldProcessSlot(ctx, slot, block.GetBlockTime().GetTimestamp())
	if err != nil {
		p.Errorf("查询 slot 进度失败，继续处理: slot=%d, err=%v", slot, err)
	}
	if !should {
		p.sc.Metrics.IncSkippedSlots()
		return nil
	}
	if err := pm.MarkSlotPending(ctx, slot); err != nil {
		p.Errorf("标记 slot pending 失败: slot=%d, err=%v", slot, err)
	}

	// 2. 转换与解码
	entry, skipped := txadapter.AdaptGrpcBlock(block)
	rs := p.sc.Processor.ProcessEntries([]*core.Entry{entry}, slot)

	// 3. 发布
	if err := p.publish(ctx, rs); err != nil {
		if relErr := pm.ReleaseSlot(ctx, slot); relErr != nil {
			p.Errorf("撤销 slot pending 失败: slot=%d, err=%v", slot, relErr)
		}
		return err
	}

	// 4. 指标与进度
	elapsed := time.Since(startTime)
	p.sc.Metrics.ObserveSlot(slot, len(entry.Transactions), elapsed)
	for _, d := range p.sc.Processor.Decoders() {
		p.sc.Metrics.AddDecoded(d.Program.String(), rs.Count(d.Program))
	}
	if err := pm.MarkSlotProcessed(ctx, slot, progress.SourceGrpc); err != nil {
		p.Errorf("标记 slot 已处理失败: slot=%d, err=%v", slot, err)
	}

	p.Infof("区块处理耗时: %v, slot: %d, 总tx数量: %d, 跳过: %d, 解码: %d",
		elapsed, slot, len(block.Transactions), skipped, rs.Total())
	return nil
}

func (p *BlockProcessor) publish(ctx context.Context, rs *core.SlotResultSet) error {
	var errs []error
	for _, s := range p.sc.Sinks {
		if err := s.Publish(ctx, rs); err != nil {
			p.sc.Metrics.IncSinkErrors(s.Name())
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// trackGap 发现 slot 跳跃时把中间区间交给 SlotChecker 延迟核对
func (p *BlockProcessor) trackGap(slot uint64) {
	if slot <= p.lastSlot {
		return
	}
	if p.lastSlot != 0 && slot > p.lastSlot+1 && p.checker != nil {
		p.checker.Submit(p.lastSlot+1, slot-1)
	}
	p.lastSlot = slot
}
