package pumpfun

import (
	"launchpad-decoder-sol/internal/consts"
	"launchpad-decoder-sol/internal/logic/ixparser/common"
)

// Instruction 是 Pump.fun 程序的指令变体
type Instruction = uint8

const (
	Unknown Instruction = iota
	Buy
	Create
	ExtendAccount
	Initialize
	Migrate
	Sell
	SetParams
	UpdateGlobalAuthority
	Withdraw
)

// 同一指令存在多个 discriminator（IDL 升级前后两套编码），都需要保留
var discriminators = common.DiscriminatorTable{
	0x66063d1201daebea: Buy,
	0xf223c68952e1f2b6: Buy,
	0x181ec828051c0777: Create,
	0x36318affa26357c7: Create,
	0xea66c2cb96483ee5: ExtendAccount,
	0xafaf6d1f0d989bed: Initialize,
	0x67e850162ef48a0b: Initialize,
	0x9beae792ec9ea21e: Migrate,
	0x33e685a4017f83ad: Sell,
	0x9d8d635b3820f1c7: Sell,
	0x1beab2349302bb8d: SetParams,
	0xba7f871524434d37: SetParams,
	0xe3b54ac4d01561d5: UpdateGlobalAuthority,
	0xb712469c946da122: Withdraw,
	0x1009e964f612f9fd: Withdraw,
}

var Decoder = &common.Decoder{
	Program:    consts.ProgramPumpFun,
	ProgramID:  consts.PumpFunProgram,
	Classifier: discriminators,
	DataOffset: common.DiscriminatorSize,
	Variants: []common.VariantSpec{
		Unknown:               {Name: "Unknown"},
		Buy:                   {Name: "Buy", Grammar: buyGrammar, Labels: swapLabels},
		Create:                {Name: "Create", Grammar: createGrammar, Labels: createLabels},
		ExtendAccount:         {Name: "ExtendAccount"},
		Initialize:            {Name: "Initialize"},
		Migrate:               {Name: "Migrate", Labels: migrateLabels},
		Sell:                  {Name: "Sell", Grammar: sellGrammar, Labels: swapLabels},
		SetParams:             {Name: "SetParams", Grammar: setParamsGrammar},
		UpdateGlobalAuthority: {Name: "UpdateGlobalAuthority"},
		Withdraw:              {Name: "Withdraw"},
	},
}

// RegisterDecoders 注册 Pump.fun 解码器
func RegisterDecoders(m map[consts.Program]*common.Decoder) {
	m[consts.ProgramPumpFun] = Decoder
}
