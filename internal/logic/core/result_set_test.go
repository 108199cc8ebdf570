package core

import (
	"fmt"
	"sync"
	"testing"

	"launchpad-decoder-sol/internal/consts"
	"launchpad-decoder-sol/internal/types"

	"github.com/stretchr/testify/assert"
)

func decodedTx(sig string) *DecodedTransaction {
	return &DecodedTransaction{
		Signature:    sig,
		Instructions: []*DecodedInstruction{{Program: consts.ProgramPumpFun, VariantName: "Buy", Known: true}},
	}
}

func TestSlotResultSetMergeDedup(t *testing.T) {
	rs := NewSlotResultSet(100)
	assert.True(t, rs.Empty())

	var b1 BatchResults
	b1[consts.ProgramPumpFun] = []*DecodedTransaction{decodedTx("a"), decodedTx("b")}
	b1[consts.ProgramBoop] = []*DecodedTransaction{decodedTx("a")}
	assert.Equal(t, 3, rs.Merge(&b1))

	// 重复签名被跳过，集合与列表保持一一对应
	var b2 BatchResults
	b2[consts.ProgramPumpFun] = []*DecodedTransaction{decodedTx("b"), decodedTx("c")}
	assert.Equal(t, 1, rs.Merge(&b2))

	assert.Equal(t, 3, rs.Count(consts.ProgramPumpFun))
	assert.Equal(t, 1, rs.Count(consts.ProgramBoop))
	assert.Equal(t, 0, rs.Count(consts.ProgramPumpFunAMM))
	assert.Equal(t, 4, rs.Total())
	assert.True(t, rs.HasSignature(consts.ProgramPumpFun, "c"))
	assert.False(t, rs.HasSignature(consts.ProgramPumpFunAMM, "a"))
	assert.Nil(t, rs.Transactions(consts.Program(0)))
}

func TestSlotResultSetConcurrentMerge(t *testing.T) {
	rs := NewSlotResultSet(1)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			var b BatchResults
			for i := 0; i < 50; i++ {
				b[consts.ProgramPumpFunAMM] = append(b[consts.ProgramPumpFunAMM], decodedTx(fmt.Sprintf("%d-%d", w, i)))
			}
			rs.Merge(&b)
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 400, rs.Count(consts.ProgramPumpFunAMM))
}

func TestPrimarySignature(t *testing.T) {
	tx := &Transaction{}
	assert.Equal(t, consts.NoSignature, tx.PrimarySignature())

	tx.Signatures = []types.Signature{{}, {1}}
	assert.Equal(t, types.Signature{}.String(), tx.PrimarySignature())
}

func TestFieldValue(t *testing.T) {
	ix := &DecodedInstruction{Fields: []Field{
		{Name: "Index", Kind: FieldU16, Num: 7},
		{Name: "Name", Kind: FieldString, Text: "doge"},
	}}

	v, ok := ix.FieldValue("Index")
	assert.True(t, ok)
	assert.Equal(t, "7", v)

	v, ok = ix.FieldValue("Name")
	assert.True(t, ok)
	assert.Equal(t, "doge", v)

	_, ok = ix.FieldValue("Creator")
	assert.False(t, ok)
}
