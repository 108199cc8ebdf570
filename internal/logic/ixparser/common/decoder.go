package common

import (
	"launchpad-decoder-sol/internal/consts"
	"launchpad-decoder-sol/internal/logic/core"
	"launchpad-decoder-sol/internal/types"
)

// VariantSpec 描述一个指令变体：名称、字段布局与账户角色表。
// Layout 非空时优先于 Grammar，用于需要按数据长度选择布局的变体。
// Derive 根据已解析字段计算只用于展示的附加行（如估算费用），不写入解码结果
type VariantSpec struct {
	Name    string
	Grammar Grammar
	Layout  func(data []byte) Grammar
	Labels  []string
	Derive  func(fields []core.Field) []core.Field
}

func (v *VariantSpec) grammar(data []byte) Grammar {
	if v.Layout != nil {
		return v.Layout(data)
	}
	return v.Grammar
}

// Decoder 单个程序的解码器。Variants 以变体编号为下标，Variants[0] 必须是 Unknown
type Decoder struct {
	Program    consts.Program
	ProgramID  types.Pubkey
	Classifier Classifier
	DataOffset int // 字段起始偏移：8 字节 discriminator 或 1 字节操作码
	Variants   []VariantSpec
}

func (d *Decoder) variant(v uint8) *VariantSpec {
	if int(v) < len(d.Variants) {
		return &d.Variants[v]
	}
	return &d.Variants[Unknown]
}

// VariantName 返回变体名称，越界编号视为 Unknown
func (d *Decoder) VariantName(v uint8) string {
	return d.variant(v).Name
}

// Decode 解码单条指令：分类、解析账户、按变体布局读取字段。
// 永远不会失败，最差情况是 Unknown 变体 + 原始账户与数据
func (d *Decoder) Decode(ix *core.CompiledInstruction, keys []types.Pubkey) *core.DecodedInstruction {
	v := d.Classifier.Classify(ix.Data)
	spec := d.variant(v)

	decoded := &core.DecodedInstruction{
		Program:     d.Program,
		Variant:     v,
		VariantName: spec.Name,
		Known:       v != Unknown,
		Accounts:    ResolveAccounts(ix.Accounts, keys),
		Data:        ix.Data,
	}
	// 无字段布局的变体同样得到空切片
	decoded.Fields, _ = spec.grammar(ix.Data).Run(ix.Data, d.DataOffset)
	return decoded
}

// Derived 返回指令的展示用附加字段，变体未定义 Derive 时为 nil
func (d *Decoder) Derived(ix *core.DecodedInstruction) []core.Field {
	spec := d.variant(ix.Variant)
	if spec.Derive == nil {
		return nil
	}
	return spec.Derive(ix.Fields)
}

// AccountLabel 返回账户位置对应的角色名称，表外位置返回 Unknown
func (d *Decoder) AccountLabel(v uint8, index int) string {
	labels := d.variant(v).Labels
	if index >= 0 && index < len(labels) {
		return labels[index]
	}
	return consts.UnknownLabel
}
