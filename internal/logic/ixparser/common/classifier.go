package common

import "encoding/binary"

const (
	DiscriminatorSize = 8
	OpcodeSize        = 1
)

// Unknown 是所有程序共用的兜底变体编号
const Unknown uint8 = 0

// DiscriminatorTable 8 字节 discriminator（按大端读成 uint64）到变体的映射。
// 允许多个 discriminator 指向同一个变体
type DiscriminatorTable map[uint64]uint8

func (t DiscriminatorTable) Classify(data []byte) uint8 {
	if len(data) < DiscriminatorSize {
		return Unknown
	}
	if v, ok := t[binary.BigEndian.Uint64(data[:DiscriminatorSize])]; ok {
		return v
	}
	return Unknown
}

// OpcodeTable 1 字节操作码到变体的映射
type OpcodeTable map[byte]uint8

func (t OpcodeTable) Classify(data []byte) uint8 {
	if len(data) < OpcodeSize {
		return Unknown
	}
	if v, ok := t[data[0]]; ok {
		return v
	}
	return Unknown
}

// Classifier 抽象两种分类表
type Classifier interface {
	Classify(data []byte) uint8
}
