package sink

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"launchpad-decoder-sol/internal/consts"
	"launchpad-decoder-sol/internal/logic/core"
	"launchpad-decoder-sol/internal/logic/ixparser/boop"
	"launchpad-decoder-sol/internal/logic/ixparser/common"
	"launchpad-decoder-sol/internal/logic/ixparser/pumpfun"
	"launchpad-decoder-sol/internal/types"
	"launchpad-decoder-sol/internal/utils"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSig(n int) string {
	var s types.Signature
	binary.LittleEndian.PutUint32(s[:], uint32(n))
	s[63] = 0xff
	return s.String()
}

func buyTx(n int) *core.DecodedTransaction {
	data := []byte{0x66, 0x06, 0x3d, 0x12, 0x01, 0xda, 0xeb, 0xea}
	data = binary.LittleEndian.AppendUint64(data, uint64(n))
	data = binary.LittleEndian.AppendUint64(data, 500)
	keys := []types.Pubkey{{1}, {2}, {3}}
	ix := pumpfun.Decoder.Decode(&core.CompiledInstruction{Accounts: []uint16{0, 1, 2}, Data: data}, keys)
	return &core.DecodedTransaction{Signature: testSig(n), Instructions: []*core.DecodedInstruction{ix}}
}

func resultSet(slot uint64, count int) *core.SlotResultSet {
	rs := core.NewSlotResultSet(slot)
	var batch core.BatchResults
	for i := 0; i < count; i++ {
		batch[consts.ProgramPumpFun] = append(batch[consts.ProgramPumpFun], buyTx(i))
	}
	rs.Merge(&batch)
	return rs
}

var testDecoders = []*common.Decoder{pumpfun.Decoder, boop.Decoder}

func TestConsoleSink(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		s := NewConsoleSink(&buf, "unknown-format", testDecoders)
		require.NoError(t, s.Publish(context.Background(), resultSet(42, 2)))
		assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("Parser:PUMP\n")))
		assert.Contains(t, buf.String(), "Slot:42\n")
		assert.Equal(t, "console", s.Name())
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		s := NewConsoleSink(&buf, FormatYAML, testDecoders)
		require.NoError(t, s.Publish(context.Background(), resultSet(42, 1)))
		assert.Contains(t, buf.String(), "PUMP")
		assert.NotContains(t, buf.String(), "Parser:")
	})

	t.Run("empty slot writes nothing", func(t *testing.T) {
		var buf bytes.Buffer
		s := NewConsoleSink(&buf, FormatText, testDecoders)
		require.NoError(t, s.Publish(context.Background(), core.NewSlotResultSet(1)))
		assert.Zero(t, buf.Len())
	})
}

func TestBuildKafkaJobs(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		jobs, total, err := BuildKafkaJobs(core.NewSlotResultSet(1), testDecoders, "decoded_txs", 4)
		require.NoError(t, err)
		assert.Empty(t, jobs)
		assert.Zero(t, total)
	})

	t.Run("partitioned by signature", func(t *testing.T) {
		rs := resultSet(1000, 40)
		jobs, total, err := BuildKafkaJobs(rs, testDecoders, "decoded_txs", 4)
		require.NoError(t, err)
		assert.Equal(t, 40, total)
		require.NotEmpty(t, jobs)
		assert.LessOrEqual(t, len(jobs), 4)

		seen := make(map[string]struct{})
		for _, job := range jobs {
			assert.Equal(t, "decoded_txs", job.Topic)
			assert.Equal(t, uint64(1000), binary.BigEndian.Uint64(job.Key))

			var batch DecodedBatch
			kind, err := utils.DecodeRecord(job.Value, &batch)
			require.NoError(t, err)
			assert.Equal(t, RecordKindDecodedBatch, kind)
			assert.Equal(t, uint64(1000), batch.Slot)

			for _, rec := range batch.Records {
				sigBytes := []byte(nil)
				for _, tx := range rs.Transactions(consts.ProgramPumpFun) {
					if tx.Signature == rec.Signature {
						sigBytes = mustSigBytes(t, tx.Signature)
					}
				}
				require.NotNil(t, sigBytes)
				assert.Equal(t, uint32(job.Partition), utils.PartitionHashBytes(sigBytes, 4))
				assert.Equal(t, "PUMP", rec.Program)
				require.Len(t, rec.Instructions, 1)
				assert.Equal(t, "Buy", rec.Instructions[0].Name)
				assert.True(t, rec.Instructions[0].Known)
				assert.Len(t, rec.Instructions[0].Accounts, 3)
				seen[rec.Signature] = struct{}{}
			}
		}
		assert.Len(t, seen, 40)
	})

	t.Run("single partition", func(t *testing.T) {
		jobs, total, err := BuildKafkaJobs(resultSet(7, 3), testDecoders, "t", 0)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, jobs, 1)
		assert.Equal(t, int32(0), jobs[0].Partition)
	})
}

func mustSigBytes(t *testing.T, sig string) []byte {
	t.Helper()
	b, err := base58.Decode(sig)
	require.NoError(t, err)
	return b
}
