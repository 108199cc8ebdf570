package computebudget

import (
	"strconv"

	"launchpad-decoder-sol/internal/consts"
	"launchpad-decoder-sol/internal/logic/core"
	"launchpad-decoder-sol/internal/logic/ixparser/common"

	cbprogram "github.com/gagliardetto/solana-go/programs/compute-budget"
)

// Instruction 是 ComputeBudget 程序的指令变体（1 字节操作码）
type Instruction = uint8

const (
	Unknown Instruction = iota
	RequestUnits
	RequestHeapFrame
	SetComputeUnitLimit
	SetComputeUnitPrice
	SetLoadedAccountsDataSizeLimit
)

// SDK 尚未定义 4 号操作码
const opSetLoadedAccountsDataSizeLimit uint8 = 4

var opcodes = common.OpcodeTable{
	cbprogram.Instruction_RequestUnitsDeprecated: RequestUnits,
	cbprogram.Instruction_RequestHeapFrame:       RequestHeapFrame,
	cbprogram.Instruction_SetComputeUnitLimit:    SetComputeUnitLimit,
	cbprogram.Instruction_SetComputeUnitPrice:    SetComputeUnitPrice,
	opSetLoadedAccountsDataSizeLimit:             SetLoadedAccountsDataSizeLimit,
}

var (
	requestUnitsGrammar = common.Grammar{
		common.U32("Units"),
		common.U32("Additional_Fee"),
	}
	heapFrameGrammar = common.Grammar{common.U32("Bytes")}
	unitLimitGrammar = common.Grammar{common.U32("Units")}
	unitPriceGrammar = common.Grammar{common.U64("Micro_Lamports")}
	dataSizeGrammar  = common.Grammar{common.U32("Bytes")}
)

const (
	lamportsPerSOL      = 1_000_000_000
	microLamportsPerLam = 1_000_000
	// 基础费用按每 CU 0.0000005 SOL 粗估
	solPerCU = 0.0000005
	// 优先费估算按 200K CU 计
	estimateCU = 200_000
)

func estimatedFee(sol float64, basis string) []core.Field {
	return []core.Field{{
		Name: "Estimated_Fee",
		Kind: core.FieldString,
		Text: strconv.FormatFloat(sol, 'f', 9, 64) + " SOL (Based_on " + basis + ")",
	}}
}

// unitLimitFee 按计算单元上限估算基础费用
func unitLimitFee(fields []core.Field) []core.Field {
	if len(fields) == 0 {
		return nil
	}
	units := fields[0].Num
	return estimatedFee(float64(units)*solPerCU, strconv.FormatUint(units, 10)+" CU")
}

// unitPriceFee 按 200K CU 估算优先费
func unitPriceFee(fields []core.Field) []core.Field {
	if len(fields) == 0 {
		return nil
	}
	sol := float64(fields[0].Num) * estimateCU / microLamportsPerLam / lamportsPerSOL
	return estimatedFee(sol, strconv.Itoa(estimateCU/1000)+"K CU")
}

// ComputeBudget 指令不带账户
var Decoder = &common.Decoder{
	Program:    consts.ProgramComputeBudget,
	ProgramID:  consts.ComputeBudgetProgram,
	Classifier: opcodes,
	DataOffset: common.OpcodeSize,
	Variants: []common.VariantSpec{
		Unknown:                        {Name: "Unknown"},
		RequestUnits:                   {Name: "RequestUnits", Grammar: requestUnitsGrammar, Derive: unitLimitFee},
		RequestHeapFrame:               {Name: "RequestHeapFrame", Grammar: heapFrameGrammar},
		SetComputeUnitLimit:            {Name: "SetComputeUnitLimit", Grammar: unitLimitGrammar, Derive: unitLimitFee},
		SetComputeUnitPrice:            {Name: "SetComputeUnitPrice", Grammar: unitPriceGrammar, Derive: unitPriceFee},
		SetLoadedAccountsDataSizeLimit: {Name: "SetLoadedAccountsDataSizeLimit", Grammar: dataSizeGrammar},
	},
}

// RegisterDecoders 注册 ComputeBudget 解码器
func RegisterDecoders(m map[consts.Program]*common.Decoder) {
	m[consts.ProgramComputeBudget] = Decoder
}
