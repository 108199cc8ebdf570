package common

import "launchpad-decoder-sol/internal/types"

// ResolveAccounts 把账户下标解析为 base58 地址。
// 越界下标直接跳过，其余地址保持原有相对顺序
func ResolveAccounts(indices []uint16, keys []types.Pubkey) []string {
	accounts := make([]string, 0, len(indices))
	for _, idx := range indices {
		if int(idx) >= len(keys) {
			continue
		}
		accounts = append(accounts, keys[idx].String())
	}
	return accounts
}
