package core

import (
	"launchpad-decoder-sol/internal/consts"
	"launchpad-decoder-sol/internal/types"
)

// CompiledInstruction 表示消息中的一条已编译指令：
// ProgramIndex 与 Accounts 都是账户表下标，Data 为原始指令数据
type CompiledInstruction struct {
	ProgramIndex uint16
	Accounts     []uint16
	Data         []byte
}

// AddressTableLookup 表示 v0 消息对地址查找表的引用（本服务不解析其内容）
type AddressTableLookup struct {
	AccountKey      types.Pubkey
	WritableIndexes []uint8
	ReadonlyIndexes []uint8
}

// Message 同时承载 legacy 与 v0 两种编码：
// legacy 只有静态账户表；v0 额外可能带查找表引用
type Message struct {
	Versioned           bool
	AccountKeys         []types.Pubkey
	Instructions        []CompiledInstruction
	AddressTableLookups []AddressTableLookup
}

// HasLookups 表示消息依赖查找表中的账户
func (m *Message) HasLookups() bool {
	return len(m.AddressTableLookups) > 0
}

type Transaction struct {
	Signatures []types.Signature
	Message    Message
}

// PrimarySignature 返回首个签名的 base58 编码，无签名时返回占位符
func (tx *Transaction) PrimarySignature() string {
	if len(tx.Signatures) == 0 {
		return consts.NoSignature
	}
	return tx.Signatures[0].String()
}

// Entry 表示 relay 推送的一组属于同一 slot 的交易
type Entry struct {
	NumHashes    uint64
	Hash         types.Hash
	Transactions []*Transaction
}
