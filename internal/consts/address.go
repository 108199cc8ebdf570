package consts

import "launchpad-decoder-sol/internal/types"

// Base58 地址常量（可读性高，适合配置与日志使用）
const (
	// Programs
	SystemProgramStr          = "11111111111111111111111111111111"
	TokenProgramStr           = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	AssociatedTokenProgramStr = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	ComputeBudgetProgramStr   = "ComputeBudget111111111111111111111111111111"

	// Launchpad: PumpFun / PumpSwap
	PumpFunProgramStr    = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"
	PumpFunAMMProgramStr = "pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA"

	// Launchpad: Boop
	BoopProgramStr = "boop8hVGQGqehUK2iVEMEnMrL5RbjywRzHKBmBE7ry4"
)

var (
	SystemProgram        = types.PubkeyFromBase58(SystemProgramStr)
	ComputeBudgetProgram = types.PubkeyFromBase58(ComputeBudgetProgramStr)
	PumpFunProgram       = types.PubkeyFromBase58(PumpFunProgramStr)
	PumpFunAMMProgram    = types.PubkeyFromBase58(PumpFunAMMProgramStr)
	BoopProgram          = types.PubkeyFromBase58(BoopProgramStr)
)
