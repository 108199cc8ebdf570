package ixparser

import (
	"fmt"
	"runtime/debug"

	"launchpad-decoder-sol/internal/consts"
	"launchpad-decoder-sol/internal/logic/core"
	"launchpad-decoder-sol/internal/logic/ixparser/boop"
	"launchpad-decoder-sol/internal/logic/ixparser/common"
	"launchpad-decoder-sol/internal/logic/ixparser/computebudget"
	"launchpad-decoder-sol/internal/logic/ixparser/pumpfun"
	"launchpad-decoder-sol/internal/logic/ixparser/pumpfunamm"
	"launchpad-decoder-sol/internal/pkg/logger"
)

// decoders 是程序种类 → 解码器的路由表，各协议模块通过 RegisterDecoders 注册
var decoders = map[consts.Program]*common.Decoder{}

func init() {
	pumpfun.RegisterDecoders(decoders)
	pumpfunamm.RegisterDecoders(decoders)
	boop.RegisterDecoders(decoders)
	computebudget.RegisterDecoders(decoders)
}

// DecoderFor 返回某个程序种类的解码器
func DecoderFor(p consts.Program) (*common.Decoder, bool) {
	d, ok := decoders[p]
	return d, ok
}

// Decoders 按配置顺序返回受跟踪程序的解码器
func Decoders(programs []consts.Program) ([]*common.Decoder, error) {
	result := make([]*common.Decoder, 0, len(programs))
	for _, p := range programs {
		d, ok := DecoderFor(p)
		if !ok {
			return nil, fmt.Errorf("no decoder registered for program %d", p)
		}
		result = append(result, d)
	}
	return result, nil
}

// DecodeForProgram 解码交易中调用指定程序的全部指令。
// 未命中任何指令、或消息依赖地址查找表时返回 nil
func DecodeForProgram(tx *core.Transaction, d *common.Decoder) (result *core.DecodedTransaction) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[ixparser::DecodeForProgram] panic program=%s tx=%s: %+v\nstack: %s",
				d.Program, tx.PrimarySignature(), r, debug.Stack())
			result = nil
		}
	}()

	msg := &tx.Message
	// 查找表中的账户不在静态账户表里，无法解析，整笔交易放弃
	if msg.HasLookups() {
		return nil
	}

	keys := msg.AccountKeys
	var instructions []*core.DecodedInstruction
	for i := range msg.Instructions {
		ix := &msg.Instructions[i]
		if int(ix.ProgramIndex) >= len(keys) || keys[ix.ProgramIndex] != d.ProgramID {
			continue
		}
		instructions = append(instructions, d.Decode(ix, keys))
	}
	if len(instructions) == 0 {
		return nil
	}

	return &core.DecodedTransaction{
		Signature:    tx.PrimarySignature(),
		Instructions: instructions,
	}
}
