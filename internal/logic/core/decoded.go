package core

import (
	"strconv"

	"launchpad-decoder-sol/internal/consts"
)

type FieldKind uint8

const (
	FieldU16 FieldKind = iota + 1
	FieldU32
	FieldU64
	FieldString
	FieldPubkey
)

// Field 表示指令参数中一个成功解析的字段
type Field struct {
	Name string
	Kind FieldKind
	Num  uint64 // 整数类字段
	Text string // 字符串与 base58 地址字段
}

func (f Field) Value() string {
	switch f.Kind {
	case FieldU16, FieldU32, FieldU64:
		return strconv.FormatUint(f.Num, 10)
	default:
		return f.Text
	}
}

// DecodedInstruction 创建后不再修改。
// Data 保留完整原始字节，末尾未解析的部分同样保留
type DecodedInstruction struct {
	Program     consts.Program
	Variant     uint8
	VariantName string
	Known       bool
	Accounts    []string
	Data        []byte
	Fields      []Field
}

// FieldValue 按名称查找字段，未解析返回 false
func (ix *DecodedInstruction) FieldValue(name string) (string, bool) {
	for _, f := range ix.Fields {
		if f.Name == name {
			return f.Value(), true
		}
	}
	return "", false
}

// DecodedTransaction 对应一个 (交易, 程序) 组合，只在至少命中一条指令时创建
type DecodedTransaction struct {
	Signature    string
	Instructions []*DecodedInstruction
}
