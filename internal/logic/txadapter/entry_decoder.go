package txadapter

import (
	"errors"
	"fmt"

	"launchpad-decoder-sol/internal/logic/core"
	"launchpad-decoder-sol/internal/types"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// ErrTruncatedEntries 表示 entry 负载在读完声明的数量之前就结束了
var ErrTruncatedEntries = errors.New("truncated entries payload")

const (
	// entry 最小编码长度：num_hashes(8) + hash(32) + tx 数量(8)
	minEntrySize = 8 + 32 + 8
	// 交易最小编码长度：签名数(1) + 消息头(3) + 账户数(1) + blockhash(32) + 指令数(1)
	minTxSize = 1 + 3 + 1 + 32 + 1
)

// DecodeEntries 解析 bincode 编码的 Vec<Entry>：
//   - u64 entry 数量（小端）；
//   - 每个 entry：u64 num_hashes、32 字节 hash、u64 交易数、按线上格式编码的交易（legacy 或 v0）。
//
// 任何位置读取失败都返回包装了 ErrTruncatedEntries 的错误
func DecodeEntries(payload []byte) (_ []*core.Entry, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: decoder panic: %v", ErrTruncatedEntries, r)
		}
	}()

	dec := bin.NewBinDecoder(payload)
	count, err := dec.ReadUint64(bin.LE)
	if err != nil {
		return nil, truncated(dec, "entry count", err)
	}
	// 声明的数量不可能超过剩余字节能容纳的上限，提前拦截避免超大分配
	if count > uint64(dec.Remaining()/minEntrySize) {
		return nil, fmt.Errorf("%w: %d entries declared, %d bytes left", ErrTruncatedEntries, count, dec.Remaining())
	}

	entries := make([]*core.Entry, 0, count)
	for i := uint64(0); i < count; i++ {
		entry, err := decodeEntry(dec)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func decodeEntry(dec *bin.Decoder) (*core.Entry, error) {
	numHashes, err := dec.ReadUint64(bin.LE)
	if err != nil {
		return nil, truncated(dec, "num_hashes", err)
	}
	hashBytes, err := dec.ReadNBytes(32)
	if err != nil {
		return nil, truncated(dec, "hash", err)
	}
	txCount, err := dec.ReadUint64(bin.LE)
	if err != nil {
		return nil, truncated(dec, "tx count", err)
	}
	if txCount > uint64(dec.Remaining()/minTxSize) {
		return nil, fmt.Errorf("%w: %d transactions declared, %d bytes left", ErrTruncatedEntries, txCount, dec.Remaining())
	}

	entry := &core.Entry{
		NumHashes:    numHashes,
		Transactions: make([]*core.Transaction, 0, txCount),
	}
	copy(entry.Hash[:], hashBytes)

	for j := uint64(0); j < txCount; j++ {
		var tx solana.Transaction
		if err := tx.UnmarshalWithDecoder(dec); err != nil {
			return nil, truncated(dec, fmt.Sprintf("transaction %d", j), err)
		}
		entry.Transactions = append(entry.Transactions, FromSolanaTx(&tx))
	}
	return entry, nil
}

func truncated(dec *bin.Decoder, what string, err error) error {
	return fmt.Errorf("%w: read %s at offset %d: %v", ErrTruncatedEntries, what, dec.Position(), err)
}

// FromSolanaTx 把 solana-go 的交易结构转换为内部结构，查找表引用原样保留
func FromSolanaTx(tx *solana.Transaction) *core.Transaction {
	msg := &tx.Message
	out := &core.Transaction{
		Signatures: make([]types.Signature, len(tx.Signatures)),
		Message: core.Message{
			Versioned:    msg.IsVersioned(),
			AccountKeys:  make([]types.Pubkey, len(msg.AccountKeys)),
			Instructions: make([]core.CompiledInstruction, len(msg.Instructions)),
		},
	}
	for i, sig := range tx.Signatures {
		out.Signatures[i] = types.Signature(sig)
	}
	for i, key := range msg.AccountKeys {
		out.Message.AccountKeys[i] = types.Pubkey(key)
	}
	for i, ix := range msg.Instructions {
		out.Message.Instructions[i] = core.CompiledInstruction{
			ProgramIndex: ix.ProgramIDIndex,
			Accounts:     ix.Accounts,
			Data:         ix.Data,
		}
	}
	if len(msg.AddressTableLookups) > 0 {
		out.Message.AddressTableLookups = make([]core.AddressTableLookup, len(msg.AddressTableLookups))
		for i, lookup := range msg.AddressTableLookups {
			out.Message.AddressTableLookups[i] = core.AddressTableLookup{
				AccountKey:      types.Pubkey(lookup.AccountKey),
				WritableIndexes: lookup.WritableIndexes,
				ReadonlyIndexes: lookup.ReadonlyIndexes,
			}
		}
	}
	return out
}
