package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionHashBytes(t *testing.T) {
	b := make([]byte, 64)
	for i := range b {
		b[i] = byte(i * 7)
	}

	t.Run("short input", func(t *testing.T) {
		assert.Equal(t, uint32(0), PartitionHashBytes(b[:10], 8))
	})

	t.Run("single partition", func(t *testing.T) {
		assert.Equal(t, uint32(0), PartitionHashBytes(b, 1))
		assert.Equal(t, uint32(0), PartitionHashBytes(b, 0))
	})

	t.Run("in range and stable", func(t *testing.T) {
		for _, mod := range []uint32{2, 3, 4, 7, 16, 33} {
			p := PartitionHashBytes(b, mod)
			assert.Less(t, p, mod)
			assert.Equal(t, p, PartitionHashBytes(b, mod))
		}
	})
}

func TestCalcCapPerPartition(t *testing.T) {
	assert.Equal(t, 100, CalcCapPerPartition(100, 1, 10))
	assert.Equal(t, 50, CalcCapPerPartition(100, 3, 10))
	assert.Equal(t, 30, CalcCapPerPartition(100, 10, 10))
	assert.Equal(t, 64, CalcCapPerPartition(10, 10, 64))
}

type testRecord struct {
	Slot   uint64
	Name   string
	Values []uint32
}

func TestRecordCodec(t *testing.T) {
	t.Run("prefix and body", func(t *testing.T) {
		in := testRecord{Slot: 9, Name: "x", Values: []uint32{1, 2}}
		data, err := EncodeRecord(3, in)
		require.NoError(t, err)
		assert.Equal(t, []byte{3, 0, 0, 0}, data[:4])
		// u64 + (u32 + 1) + (u32 + 2*u32)
		assert.Len(t, data, 4+8+5+12)

		var out testRecord
		kind, err := DecodeRecord(data, &out)
		require.NoError(t, err)
		assert.Equal(t, uint32(3), kind)
		assert.Equal(t, in, out)
	})

	t.Run("short", func(t *testing.T) {
		var out testRecord
		_, err := DecodeRecord([]byte{1, 2}, &out)
		assert.ErrorIs(t, err, ErrShortRecord)
	})
}
