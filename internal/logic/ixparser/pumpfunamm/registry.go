package pumpfunamm

import (
	"launchpad-decoder-sol/internal/consts"
	"launchpad-decoder-sol/internal/logic/ixparser/common"
)

// Instruction 是 PumpSwap（Pump.fun AMM）程序的指令变体
type Instruction = uint8

const (
	Unknown Instruction = iota
	Buy
	CreateConfig
	CreatePool
	Deposit
	Disable
	ExtendAccount
	Sell
	UpdateAdmin
	UpdateFeeConfig
	Withdraw
)

var discriminators = common.DiscriminatorTable{
	0x66063d1201daebea: Buy,
	0xc9cff3724b6f2fbd: CreateConfig,
	0xe992d18ecf6840bc: CreatePool,
	0xf223c68952e1f2b6: Deposit,
	0xb9adbb5ad80feee9: Disable,
	0xea66c2cb96483ee5: ExtendAccount,
	0x33e685a4017f83ad: Sell,
	0xa1b028d53cb8b3e4: UpdateAdmin,
	0x68b867f258976b14: UpdateFeeConfig,
	0xb712469c946da122: Withdraw,
}

var Decoder = &common.Decoder{
	Program:    consts.ProgramPumpFunAMM,
	ProgramID:  consts.PumpFunAMMProgram,
	Classifier: discriminators,
	DataOffset: common.DiscriminatorSize,
	Variants: []common.VariantSpec{
		Unknown:         {Name: "Unknown", Labels: poolLabels},
		Buy:             {Name: "Buy", Grammar: buyGrammar, Labels: poolLabels},
		CreateConfig:    {Name: "CreateConfig", Grammar: createConfigGrammar, Labels: poolLabels},
		CreatePool:      {Name: "CreatePool", Grammar: createPoolGrammar, Labels: poolLabels},
		Deposit:         {Name: "Deposit", Grammar: depositGrammar, Labels: poolLabels},
		Disable:         {Name: "Disable", Labels: poolLabels},
		ExtendAccount:   {Name: "ExtendAccount", Labels: poolLabels},
		Sell:            {Name: "Sell", Grammar: sellGrammar, Labels: poolLabels},
		UpdateAdmin:     {Name: "UpdateAdmin", Labels: poolLabels},
		UpdateFeeConfig: {Name: "UpdateFeeConfig", Labels: poolLabels},
		Withdraw:        {Name: "Withdraw", Grammar: withdrawGrammar, Labels: poolLabels},
	},
}

// RegisterDecoders 注册 PumpSwap 解码器
func RegisterDecoders(m map[consts.Program]*common.Decoder) {
	m[consts.ProgramPumpFunAMM] = Decoder
}
