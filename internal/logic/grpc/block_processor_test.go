package grpc

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"launchpad-decoder-sol/internal/consts"
	"launchpad-decoder-sol/internal/logic/core"
	"launchpad-decoder-sol/internal/logic/processor"
	"launchpad-decoder-sol/internal/logic/progress"
	"launchpad-decoder-sol/internal/logic/sink"
	"launchpad-decoder-sol/internal/metrics"
	"launchpad-decoder-sol/internal/svc"

	"github.com/prometheus/client_golang/prometheus"
	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	fail    error
	results []*core.SlotResultSet
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Publish(_ context.Context, rs *core.SlotResultSet) error {
	if s.fail != nil {
		return s.fail
	}
	s.results = append(s.results, rs)
	return nil
}

func pumpBuy(amount uint64) []byte {
	data := []byte{0x66, 0x06, 0x3d, 0x12, 0x01, 0xda, 0xeb, 0xea}
	data = binary.LittleEndian.AppendUint64(data, amount)
	return binary.LittleEndian.AppendUint64(data, 1_000_000)
}

func testBlock(slot uint64, txCount int) *pb.SubscribeUpdateBlock {
	payer := make([]byte, 32)
	payer[0] = 7
	program := consts.PumpFunProgram

	block := &pb.SubscribeUpdateBlock{Slot: slot}
	for i := 0; i < txCount; i++ {
		sig := make([]byte, 64)
		binary.LittleEndian.PutUint64(sig, slot<<16|uint64(i+1))
		block.Transactions = append(block.Transactions, &pb.SubscribeUpdateTransactionInfo{
			Signature: sig,
			Index:     uint64(i),
			Transaction: &pb.Transaction{
				Signatures: [][]byte{sig},
				Message: &pb.Message{
					AccountKeys: [][]byte{payer, program[:]},
					Instructions: []*pb.CompiledInstruction{
						{ProgramIdIndex: 1, Accounts: []byte{0}, Data: pumpBuy(uint64(i))},
					},
				},
			},
		})
	}
	// 投票交易不参与解码
	block.Transactions = append(block.Transactions, &pb.SubscribeUpdateTransactionInfo{IsVote: true})
	return block
}

func newTestProcessor(t *testing.T, out *recordingSink) *BlockProcessor {
	t.Helper()
	proc, err := processor.NewBatchProcessor(consts.DefaultPrograms, 2, 2)
	require.NoError(t, err)
	sc := &svc.GrpcServiceContext{
		Processor:       proc,
		Sinks:           []sink.Sink{out},
		ProgressManager: progress.NewProgressManager(progress.NewMemoryStore(16), 0),
		Metrics:         metrics.NewProcessingMetrics("test", prometheus.NewRegistry()),
	}
	checker := newSlotChecker(func(context.Context, uint64, uint64) ([]uint64, error) {
		return nil, nil
	}, nil)
	return NewBlockProcessor(sc, make(chan *pb.SubscribeUpdateBlock, 1), checker)
}

func TestHandleBlock(t *testing.T) {
	ctx := context.Background()

	t.Run("decode and publish once", func(t *testing.T) {
		out := &recordingSink{}
		p := newTestProcessor(t, out)

		require.NoError(t, p.HandleBlock(ctx, testBlock(100, 5)))
		require.Len(t, out.results, 1)
		rs := out.results[0]
		assert.Equal(t, uint64(100), rs.Slot)
		assert.Equal(t, 5, rs.Count(consts.ProgramPumpFun))
		assert.Zero(t, rs.Count(consts.ProgramBoop))

		// 已处理的 slot 不再发布
		require.NoError(t, p.HandleBlock(ctx, testBlock(100, 5)))
		assert.Len(t, out.results, 1)
	})

	t.Run("sink failure releases slot", func(t *testing.T) {
		out := &recordingSink{fail: errors.New("broker down")}
		p := newTestProcessor(t, out)

		err := p.HandleBlock(ctx, testBlock(200, 2))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broker down")

		should, err := p.sc.ProgressManager.ShouldProcessSlot(ctx, 200, 0)
		require.NoError(t, err)
		assert.True(t, should)

		out.fail = nil
		require.NoError(t, p.HandleBlock(ctx, testBlock(200, 2)))
		require.Len(t, out.results, 1)
		assert.Equal(t, 2, out.results[0].Total())
	})

	t.Run("empty block", func(t *testing.T) {
		out := &recordingSink{}
		p := newTestProcessor(t, out)
		require.NoError(t, p.HandleBlock(ctx, &pb.SubscribeUpdateBlock{Slot: 300}))
		require.Len(t, out.results, 1)
		assert.True(t, out.results[0].Empty())
	})
}

func TestTrackGap(t *testing.T) {
	p := newTestProcessor(t, &recordingSink{})

	p.trackGap(100)
	p.trackGap(101)
	assert.Empty(t, p.checker.rangeCh)

	p.trackGap(105)
	require.Len(t, p.checker.rangeCh, 1)
	r := <-p.checker.rangeCh
	assert.Equal(t, uint64(102), r.From)
	assert.Equal(t, uint64(104), r.To)

	// 乱序到达的旧 slot 不触发检查
	p.trackGap(103)
	assert.Empty(t, p.checker.rangeCh)
	assert.Equal(t, uint64(105), p.lastSlot)
}

func TestBuildSubscribeRequest(t *testing.T) {
	include := consts.GrpcAccountInclude(consts.DefaultPrograms)
	req := buildSubscribeRequest(include)

	require.Contains(t, req.Blocks, "blocks")
	f := req.Blocks["blocks"]
	assert.Equal(t, include, f.AccountInclude)
	assert.True(t, f.GetIncludeTransactions())
	assert.False(t, f.GetIncludeAccounts())
	assert.False(t, f.GetIncludeEntries())
	assert.Equal(t, pb.CommitmentLevel_CONFIRMED, req.GetCommitment())
}
