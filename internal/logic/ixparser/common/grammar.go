package common

import (
	"launchpad-decoder-sol/internal/logic/core"
	"launchpad-decoder-sol/internal/pkg/binreader"
)

// Step 表示字段布局中的一步读取
type Step struct {
	Name string
	Kind core.FieldKind
}

func U16(name string) Step    { return Step{Name: name, Kind: core.FieldU16} }
func U32(name string) Step    { return Step{Name: name, Kind: core.FieldU32} }
func U64(name string) Step    { return Step{Name: name, Kind: core.FieldU64} }
func Str(name string) Step    { return Step{Name: name, Kind: core.FieldString} }
func Pubkey(name string) Step { return Step{Name: name, Kind: core.FieldPubkey} }

// Grammar 是一个变体的顺序字段布局
type Grammar []Step

// Run 从 offset 开始依次读取字段，遇到第一个失败的字段立即停止并返回已解析部分
// （一个字段都没读到时为空切片而不是 nil）。
// 返回值 next 为最后一个成功字段之后的偏移
func (g Grammar) Run(data []byte, offset int) (fields []core.Field, next int) {
	fields = make([]core.Field, 0, len(g))
	next = offset
	for _, step := range g {
		f, end, ok := step.read(data, next)
		if !ok {
			break
		}
		fields = append(fields, f)
		next = end
	}
	return fields, next
}

func (s Step) read(data []byte, offset int) (core.Field, int, bool) {
	f := core.Field{Name: s.Name, Kind: s.Kind}
	switch s.Kind {
	case core.FieldU16:
		v, ok := binreader.ReadU16LE(data, offset)
		f.Num = uint64(v)
		return f, offset + 2, ok
	case core.FieldU32:
		v, ok := binreader.ReadU32LE(data, offset)
		f.Num = uint64(v)
		return f, offset + 4, ok
	case core.FieldU64:
		v, ok := binreader.ReadU64LE(data, offset)
		f.Num = v
		return f, offset + 8, ok
	case core.FieldString:
		v, end, ok := binreader.ReadLengthPrefixedUTF8(data, offset)
		f.Text = v
		return f, end, ok
	case core.FieldPubkey:
		v, end, ok := binreader.ReadPubkeyB58(data, offset)
		f.Text = v
		return f, end, ok
	default:
		return f, offset, false
	}
}
