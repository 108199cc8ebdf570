package txadapter

import (
	"testing"

	"launchpad-decoder-sol/internal/consts"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grpcTx(index uint64, vote bool) *pb.SubscribeUpdateTransactionInfo {
	sig := make([]byte, 64)
	sig[0] = byte(index + 1)
	payer := testKey(1)
	program := consts.PumpFunProgram
	return &pb.SubscribeUpdateTransactionInfo{
		Signature: sig,
		IsVote:    vote,
		Index:     index,
		Transaction: &pb.Transaction{
			Signatures: [][]byte{sig},
			Message: &pb.Message{
				AccountKeys: [][]byte{payer[:], program[:]},
				Instructions: []*pb.CompiledInstruction{
					{ProgramIdIndex: 1, Accounts: []byte{0}, Data: pumpBuyData},
				},
			},
		},
	}
}

func TestAdaptGrpcTx(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		tx, err := AdaptGrpcTx(grpcTx(0, false))
		require.NoError(t, err)
		require.Len(t, tx.Signatures, 1)
		assert.Equal(t, consts.PumpFunProgram, tx.Message.AccountKeys[1])
		require.Len(t, tx.Message.Instructions, 1)
		assert.Equal(t, uint16(1), tx.Message.Instructions[0].ProgramIndex)
		assert.Equal(t, []uint16{0}, tx.Message.Instructions[0].Accounts)
		assert.False(t, tx.Message.HasLookups())
	})

	t.Run("lookups carried over", func(t *testing.T) {
		raw := grpcTx(0, false)
		table := testKey(7)
		raw.Transaction.Message.Versioned = true
		raw.Transaction.Message.AddressTableLookups = []*pb.MessageAddressTableLookup{
			{AccountKey: table[:], WritableIndexes: []byte{2}},
		}
		tx, err := AdaptGrpcTx(raw)
		require.NoError(t, err)
		assert.True(t, tx.Message.Versioned)
		require.True(t, tx.Message.HasLookups())
		assert.Equal(t, []uint8{2}, tx.Message.AddressTableLookups[0].WritableIndexes)
	})

	t.Run("bad key length", func(t *testing.T) {
		raw := grpcTx(0, false)
		raw.Transaction.Message.AccountKeys[0] = []byte{1, 2, 3}
		_, err := AdaptGrpcTx(raw)
		assert.Error(t, err)
	})

	t.Run("bad signature length", func(t *testing.T) {
		raw := grpcTx(0, false)
		raw.Transaction.Signatures[0] = []byte{1}
		_, err := AdaptGrpcTx(raw)
		assert.Error(t, err)
	})

	t.Run("missing message", func(t *testing.T) {
		_, err := AdaptGrpcTx(&pb.SubscribeUpdateTransactionInfo{})
		assert.Error(t, err)
	})
}

func TestAdaptGrpcBlock(t *testing.T) {
	bad := grpcTx(3, false)
	bad.Transaction.Message.AccountKeys[1] = []byte{9}

	block := &pb.SubscribeUpdateBlock{
		Slot:      321,
		Blockhash: testKey(9).String(),
		Transactions: []*pb.SubscribeUpdateTransactionInfo{
			grpcTx(0, false),
			grpcTx(1, true),
			nil,
			bad,
			grpcTx(4, false),
		},
	}

	entry, skipped := AdaptGrpcBlock(block)
	assert.Equal(t, 3, skipped)
	require.Len(t, entry.Transactions, 2)
	assert.Equal(t, testKey(9).String(), entry.Hash.String())
}
