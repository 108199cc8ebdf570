package txadapter

import (
	"fmt"

	"launchpad-decoder-sol/internal/logic/core"
	"launchpad-decoder-sol/internal/pkg/logger"
	"launchpad-decoder-sol/internal/types"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
)

// buildAccountKeys 构造消息中的静态账户列表。
// 查找表加载的地址不拼接进来，解码层遇到查找表会直接放弃该交易
func buildAccountKeys(accountKeys [][]byte) ([]types.Pubkey, error) {
	pubkeys := make([]types.Pubkey, len(accountKeys))
	for i, b := range accountKeys {
		if len(b) != 32 {
			return nil, fmt.Errorf("invalid pubkey in accountKeys at index %d", i)
		}
		copy(pubkeys[i][:], b)
	}
	return pubkeys, nil
}

func buildInstructions(raw []*pb.CompiledInstruction) []core.CompiledInstruction {
	instructions := make([]core.CompiledInstruction, 0, len(raw))
	for _, ix := range raw {
		if ix == nil {
			continue
		}
		// 协议中账户下标是 u8 字节序列，这里统一展开为 uint16
		accounts := make([]uint16, len(ix.Accounts))
		for i, idx := range ix.Accounts {
			accounts[i] = uint16(idx)
		}
		instructions = append(instructions, core.CompiledInstruction{
			ProgramIndex: uint16(ix.ProgramIdIndex),
			Accounts:     accounts,
			Data:         ix.Data,
		})
	}
	return instructions
}

func buildLookups(raw []*pb.MessageAddressTableLookup) ([]core.AddressTableLookup, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	lookups := make([]core.AddressTableLookup, 0, len(raw))
	for i, l := range raw {
		if l == nil {
			continue
		}
		key, err := types.PubkeyFromBytes(l.AccountKey)
		if err != nil {
			return nil, fmt.Errorf("invalid lookup table key at index %d: %w", i, err)
		}
		lookups = append(lookups, core.AddressTableLookup{
			AccountKey:      key,
			WritableIndexes: l.WritableIndexes,
			ReadonlyIndexes: l.ReadonlyIndexes,
		})
	}
	return lookups, nil
}

// AdaptGrpcTx 将 gRPC 推送的交易转换为内部交易结构。
// 签名长度不是 64 或账户公钥长度不是 32 时返回错误，panic 会被 recover
func AdaptGrpcTx(tx *pb.SubscribeUpdateTransactionInfo) (_ *core.Transaction, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("AdaptGrpcTx panic: %v", r)
		}
	}()

	if tx == nil || tx.Transaction == nil || tx.Transaction.Message == nil {
		return nil, fmt.Errorf("invalid transaction: missing message")
	}
	raw := tx.Transaction
	msg := raw.Message

	signatures := make([]types.Signature, len(raw.Signatures))
	for i, s := range raw.Signatures {
		if signatures[i], err = types.SignatureFromBytes(s); err != nil {
			return nil, fmt.Errorf("invalid signature at index %d: %w", i, err)
		}
	}

	accountKeys, err := buildAccountKeys(msg.AccountKeys)
	if err != nil {
		return nil, fmt.Errorf("buildAccountKeys error: %w", err)
	}

	lookups, err := buildLookups(msg.AddressTableLookups)
	if err != nil {
		return nil, err
	}

	return &core.Transaction{
		Signatures: signatures,
		Message: core.Message{
			Versioned:           msg.Versioned,
			AccountKeys:         accountKeys,
			Instructions:        buildInstructions(msg.Instructions),
			AddressTableLookups: lookups,
		},
	}, nil
}

// IsDecodableGrpcTx 过滤 nil 与投票交易。
// 执行失败的交易依然保留，指令数据与执行结果无关
func IsDecodableGrpcTx(tx *pb.SubscribeUpdateTransactionInfo) bool {
	return tx != nil &&
		!tx.IsVote &&
		tx.Transaction != nil &&
		tx.Transaction.Message != nil
}

// AdaptGrpcBlock 把一个区块转换为单个 entry（gRPC 区块不保留 entry 边界）。
// 无法转换的交易被跳过，返回值 skipped 为跳过的数量
func AdaptGrpcBlock(block *pb.SubscribeUpdateBlock) (entry *core.Entry, skipped int) {
	entry = &core.Entry{
		Transactions: make([]*core.Transaction, 0, len(block.Transactions)),
	}

	if block.Blockhash != "" {
		hash, err := types.HashFromBase58(block.Blockhash)
		if err != nil {
			logger.Warnf("[AdaptGrpcBlock] blockhash 无法解析，使用零值: slot=%d, blockhash=%s, err=%v",
				block.Slot, block.Blockhash, err)
		}
		entry.Hash = hash
	}

	for _, info := range block.Transactions {
		if !IsDecodableGrpcTx(info) {
			skipped++
			continue
		}
		tx, err := AdaptGrpcTx(info)
		if err != nil {
			logger.Warnf("[AdaptGrpcBlock] 交易转换失败: slot=%d, index=%d, err=%v", block.Slot, info.Index, err)
			skipped++
			continue
		}
		entry.Transactions = append(entry.Transactions, tx)
	}
	return entry, skipped
}
