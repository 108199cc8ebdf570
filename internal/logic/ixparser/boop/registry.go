package boop

import (
	"launchpad-decoder-sol/internal/consts"
	"launchpad-decoder-sol/internal/logic/ixparser/common"
)

// Instruction 是 Boop 程序的指令变体
type Instruction = uint8

const (
	Unknown Instruction = iota
	BuyToken
	SellToken
	CreateToken
	DeployBondingCurve
	Create
	Sell
	Initialize
	SetParams
	UpdateAuthority
)

var discriminators = common.DiscriminatorTable{
	0x8a7f0e5b26577369: BuyToken,
	0x6d3d28bbe6b087ae: SellToken,
	0xfdb87ec7ebe8aca2: CreateToken,
	0x5434cce4188cea4b: CreateToken,
	0x35e6ac544dae163d: DeployBondingCurve,
	0xb459c74ca8ecd98a: DeployBondingCurve,
	0xbf13671af5557069: Create,
	0x19a94c4c5499c3d8: Sell,
	0xafaf6d1f0d989bed: Initialize,
	0xeb819976dbc283f6: SetParams,
	0xa711ac89f174c9a1: UpdateAuthority,
}

var Decoder = &common.Decoder{
	Program:    consts.ProgramBoop,
	ProgramID:  consts.BoopProgram,
	Classifier: discriminators,
	DataOffset: common.DiscriminatorSize,
	Variants: []common.VariantSpec{
		Unknown:            {Name: "Unknown"},
		BuyToken:           {Name: "BuyToken", Grammar: buyTokenGrammar, Labels: buyTokenLabels},
		SellToken:          {Name: "SellToken", Grammar: sellGrammar, Labels: sellTokenLabels},
		CreateToken:        {Name: "CreateToken", Grammar: createTokenGrammar, Labels: createTokenLabels},
		DeployBondingCurve: {Name: "DeployBondingCurve", Layout: deployBondingCurveLayout, Labels: deployBondingCurveLabels},
		Create:             {Name: "Create", Grammar: createGrammar},
		Sell:               {Name: "Sell", Grammar: sellGrammar, Labels: sellTokenLabels},
		Initialize:         {Name: "Initialize"},
		SetParams:          {Name: "SetParams"},
		UpdateAuthority:    {Name: "UpdateAuthority"},
	},
}

// RegisterDecoders 注册 Boop 解码器
func RegisterDecoders(m map[consts.Program]*common.Decoder) {
	m[consts.ProgramBoop] = Decoder
}
