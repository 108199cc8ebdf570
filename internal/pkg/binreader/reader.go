// Package binreader 提供按显式偏移读取小端整数、长度前缀字符串和 32 字节地址的辅助函数。
// 所有函数都不会因输入过短而 panic，读取失败时返回 ok=false，偏移量只在成功时前进。
package binreader

import (
	"bytes"
	"encoding/binary"
	"unicode/utf8"

	"github.com/mr-tron/base58"
)

const (
	lenPrefixSize = 4
	pubkeySize    = 32
)

// has 判断 buf[offset:offset+width] 是否完整可读
func has(buf []byte, offset, width int) bool {
	return offset >= 0 && width >= 0 && offset <= len(buf) && width <= len(buf)-offset
}

func ReadU16LE(buf []byte, offset int) (uint16, bool) {
	if !has(buf, offset, 2) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(buf[offset:]), true
}

func ReadU32LE(buf []byte, offset int) (uint32, bool) {
	if !has(buf, offset, 4) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(buf[offset:]), true
}

func ReadU64LE(buf []byte, offset int) (uint64, bool) {
	if !has(buf, offset, 8) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(buf[offset:]), true
}

// ReadLengthPrefixedUTF8 读取 4 字节小端长度 + 对应字节数的字符串。
// 非法 UTF-8 序列替换为 U+FFFD，不会因此失败
func ReadLengthPrefixedUTF8(buf []byte, offset int) (string, int, bool) {
	n, ok := ReadU32LE(buf, offset)
	if !ok {
		return "", offset, false
	}
	start := offset + lenPrefixSize
	if uint64(n) > uint64(len(buf)-start) {
		return "", offset, false
	}
	end := start + int(n)
	raw := buf[start:end]
	if !utf8.Valid(raw) {
		raw = bytes.ToValidUTF8(raw, []byte(string(utf8.RuneError)))
	}
	return string(raw), end, true
}

// ReadPubkeyB58 读取 32 字节并编码为 base58
func ReadPubkeyB58(buf []byte, offset int) (string, int, bool) {
	if !has(buf, offset, pubkeySize) {
		return "", offset, false
	}
	end := offset + pubkeySize
	return base58.Encode(buf[offset:end]), end, true
}
