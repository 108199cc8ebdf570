package sink

import (
	"launchpad-decoder-sol/internal/logic/core"
)

// RecordKindDecodedBatch Kafka 消息前缀中的记录类型
const RecordKindDecodedBatch uint32 = 1

type FieldRecord struct {
	Name  string
	Value string
}

type InstructionRecord struct {
	Variant  uint8
	Name     string
	Known    bool
	Accounts []string
	Data     []byte
	Fields   []FieldRecord
}

type TxRecord struct {
	Program      string
	Signature    string
	Instructions []InstructionRecord
}

// DecodedBatch 单条 Kafka 消息的负载：一个 slot 落在同一分区的全部解码交易
type DecodedBatch struct {
	Slot    uint64
	Records []TxRecord
}

func toTxRecord(program string, tx *core.DecodedTransaction) TxRecord {
	rec := TxRecord{
		Program:      program,
		Signature:    tx.Signature,
		Instructions: make([]InstructionRecord, 0, len(tx.Instructions)),
	}
	for _, ix := range tx.Instructions {
		ir := InstructionRecord{
			Variant:  ix.Variant,
			Name:     ix.VariantName,
			Known:    ix.Known,
			Accounts: ix.Accounts,
			Data:     ix.Data,
			Fields:   make([]FieldRecord, 0, len(ix.Fields)),
		}
		for _, f := range ix.Fields {
			ir.Fields = append(ir.Fields, FieldRecord{Name: f.Name, Value: f.Value()})
		}
		rec.Instructions = append(rec.Instructions, ir)
	}
	return rec
}
