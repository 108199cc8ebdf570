package utils

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/near/borsh-go"
)

const recordPrefixSize = 4

var ErrShortRecord = errors.New("record shorter than kind prefix")

// EncodeRecord 将记录编码为带类型前缀的二进制数据：
// - 前 4 字节为记录类型（uint32，小端序）
// - 后续为 borsh 序列化数据
func EncodeRecord(kind uint32, record any) ([]byte, error) {
	body, err := borsh.Serialize(record)
	if err != nil {
		return nil, fmt.Errorf("EncodeRecord: serialize %T: %w", record, err)
	}
	buf := make([]byte, recordPrefixSize, recordPrefixSize+len(body))
	binary.LittleEndian.PutUint32(buf, kind)
	return append(buf, body...), nil
}

// DecodeRecord 是 EncodeRecord 的逆操作，record 必须是指针
func DecodeRecord(data []byte, record any) (uint32, error) {
	if len(data) < recordPrefixSize {
		return 0, ErrShortRecord
	}
	kind := binary.LittleEndian.Uint32(data[:recordPrefixSize])
	if err := borsh.Deserialize(record, data[recordPrefixSize:]); err != nil {
		return kind, fmt.Errorf("DecodeRecord: deserialize %T: %w", record, err)
	}
	return kind, nil
}
