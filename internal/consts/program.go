package consts

import (
	"fmt"
	"strings"

	"launchpad-decoder-sol/internal/types"
)

// Program 表示受跟踪的链上程序种类
type Program int

const (
	ProgramPumpFun       Program = iota + 1 // 1
	ProgramPumpFunAMM                       // 2
	ProgramBoop                             // 3
	ProgramComputeBudget                    // 4
)

// ProgramCount 含保留位 0，用于按种类索引的定长数组
const ProgramCount = int(ProgramComputeBudget) + 1

var ProgramNames = []string{
	"Unknown",        // 0 (保留)
	"PUMP",           // 1
	"PUMPAMM",        // 2
	"BOOP",           // 3
	"COMPUTE_BUDGET", // 4
}

var programIDs = []types.Pubkey{
	{},
	PumpFunProgram,
	PumpFunAMMProgram,
	BoopProgram,
	ComputeBudgetProgram,
}

// DefaultPrograms 默认跟踪的程序（ComputeBudget 几乎出现在所有交易中，默认关闭）
var DefaultPrograms = []Program{ProgramPumpFun, ProgramPumpFunAMM, ProgramBoop}

func (p Program) Valid() bool {
	return p >= ProgramPumpFun && p <= ProgramComputeBudget
}

func (p Program) String() string {
	if p.Valid() {
		return ProgramNames[p]
	}
	return ProgramNames[0]
}

// ID 返回程序地址，未知种类返回零值
func (p Program) ID() types.Pubkey {
	if p.Valid() {
		return programIDs[p]
	}
	return types.Pubkey{}
}

// ParseProgram 按名称解析程序种类（大小写不敏感）
func ParseProgram(name string) (Program, error) {
	for i := int(ProgramPumpFun); i < len(ProgramNames); i++ {
		if strings.EqualFold(ProgramNames[i], strings.TrimSpace(name)) {
			return Program(i), nil
		}
	}
	return 0, fmt.Errorf("unknown program %q", name)
}

// ParsePrograms 解析配置中的程序列表，空列表返回默认值，重复项只保留一次
func ParsePrograms(names []string) ([]Program, error) {
	if len(names) == 0 {
		return DefaultPrograms, nil
	}
	seen := make(map[Program]struct{}, len(names))
	result := make([]Program, 0, len(names))
	for _, name := range names {
		p, err := ParseProgram(name)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		result = append(result, p)
	}
	return result, nil
}
