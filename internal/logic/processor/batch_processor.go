package processor

import (
	"launchpad-decoder-sol/internal/consts"
	"launchpad-decoder-sol/internal/logic/core"
	"launchpad-decoder-sol/internal/logic/ixparser"
	"launchpad-decoder-sol/internal/logic/ixparser/common"
	"launchpad-decoder-sol/internal/utils"

	"go.uber.org/atomic"
)

// BatchProcessor 把一个 slot 的交易切分成固定大小的批次并发解码。
// 每个批次先在本地算完结果，再对结果集加锁合并一次
type BatchProcessor struct {
	decoders  []*common.Decoder
	batchSize int
	workers   int

	slots   atomic.Uint64
	scanned atomic.Uint64
	decoded atomic.Uint64
	batches atomic.Uint64
}

// Stats 是处理器启动以来的累计计数
type Stats struct {
	Slots   uint64
	Scanned uint64
	Decoded uint64
	Batches uint64
}

func NewBatchProcessor(programs []consts.Program, batchSize, workers int) (*BatchProcessor, error) {
	decoders, err := ixparser.Decoders(programs)
	if err != nil {
		return nil, err
	}
	if batchSize <= 0 {
		batchSize = consts.DefaultBatchSize
	}
	if workers <= 0 {
		workers = consts.CpuCount + 2
	}
	return &BatchProcessor{
		decoders:  decoders,
		batchSize: batchSize,
		workers:   workers,
	}, nil
}

// Programs 返回受跟踪程序，顺序与配置一致
func (p *BatchProcessor) Programs() []consts.Program {
	programs := make([]consts.Program, len(p.decoders))
	for i, d := range p.decoders {
		programs[i] = d.Program
	}
	return programs
}

// Decoders 返回受跟踪程序的解码器，输出阶段按此顺序遍历结果集
func (p *BatchProcessor) Decoders() []*common.Decoder {
	return p.decoders
}

// Decoder 返回受跟踪程序的解码器，未跟踪返回 nil
func (p *BatchProcessor) Decoder(program consts.Program) *common.Decoder {
	for _, d := range p.decoders {
		if d.Program == program {
			return d
		}
	}
	return nil
}

// ProcessEntries 解码一个 slot 内全部 entry 的交易。
// 同一程序内的交易顺序为批次完成顺序，而不是链上顺序
func (p *BatchProcessor) ProcessEntries(entries []*core.Entry, slot uint64) *core.SlotResultSet {
	p.slots.Inc()
	result := core.NewSlotResultSet(slot)

	// 1. 展开并过滤无签名交易
	total := 0
	for _, entry := range entries {
		total += len(entry.Transactions)
	}
	txs := make([]*core.Transaction, 0, total)
	for _, entry := range entries {
		for _, tx := range entry.Transactions {
			if tx != nil && len(tx.Signatures) > 0 {
				txs = append(txs, tx)
			}
		}
	}
	if len(txs) == 0 {
		return result
	}
	p.scanned.Add(uint64(len(txs)))

	// 2. 切批并发解码，每批合并一次
	batches := chunk(txs, p.batchSize)
	p.batches.Add(uint64(len(batches)))
	added := utils.ParallelMap(batches, p.workers, func(batch []*core.Transaction) int {
		var local core.BatchResults
		for _, tx := range batch {
			for _, d := range p.decoders {
				if decoded := ixparser.DecodeForProgram(tx, d); decoded != nil {
					local[d.Program] = append(local[d.Program], decoded)
				}
			}
		}
		return result.Merge(&local)
	})

	for _, n := range added {
		p.decoded.Add(uint64(n))
	}
	return result
}

func (p *BatchProcessor) Stats() Stats {
	return Stats{
		Slots:   p.slots.Load(),
		Scanned: p.scanned.Load(),
		Decoded: p.decoded.Load(),
		Batches: p.batches.Load(),
	}
}

// chunk 按 size 切分为连续批次，最后一批可能不足 size
func chunk[T any](items []T, size int) [][]T {
	n := (len(items) + size - 1) / size
	batches := make([][]T, 0, n)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batches = append(batches, items[start:end])
	}
	return batches
}
