package render

import (
	"bufio"
	"encoding/hex"
	"io"
	"strconv"

	"launchpad-decoder-sol/internal/logic/core"
	"launchpad-decoder-sol/internal/logic/ixparser/common"
)

const separator = "--------------------------------------------------------"

// RenderTransaction 按文本格式输出单笔解码交易：
//
//	Parser:PUMP
//	Slot:123
//	Signature:<base58>
//	Instructions_Count: 1
//	Instruction[0]Type: Buy
//	Token_Amount: 1
//	[0]Global: <address>
//
// Unknown 变体额外输出 Raw_Data（十六进制）
func RenderTransaction(w io.Writer, d *common.Decoder, slot uint64, tx *core.DecodedTransaction) error {
	bw := bufio.NewWriter(w)
	writeTransaction(bw, d, slot, tx)
	return bw.Flush()
}

// RenderSlot 依次输出结果集中各程序的交易，每笔交易前后带分隔线
func RenderSlot(w io.Writer, rs *core.SlotResultSet, decoders []*common.Decoder) error {
	bw := bufio.NewWriter(w)
	for _, d := range decoders {
		for _, tx := range rs.Transactions(d.Program) {
			bw.WriteString(separator + "\n")
			writeTransaction(bw, d, rs.Slot, tx)
			bw.WriteString(separator + "\n")
		}
	}
	return bw.Flush()
}

// bufio.Writer 会记住第一个写错误，统一在 Flush 时返回
func writeTransaction(bw *bufio.Writer, d *common.Decoder, slot uint64, tx *core.DecodedTransaction) {
	line(bw, "Parser:", d.Program.String())
	line(bw, "Slot:", strconv.FormatUint(slot, 10))
	line(bw, "Signature:", tx.Signature)
	line(bw, "Instructions_Count: ", strconv.Itoa(len(tx.Instructions)))

	for i, ix := range tx.Instructions {
		line(bw, "Instruction["+strconv.Itoa(i)+"]Type: ", ix.VariantName)
		for _, f := range ix.Fields {
			line(bw, f.Name+": ", f.Value())
		}
		for _, f := range d.Derived(ix) {
			line(bw, f.Name+": ", f.Value())
		}
		if !ix.Known {
			line(bw, "Raw_Data: ", hex.EncodeToString(ix.Data))
		}
		for j, account := range ix.Accounts {
			line(bw, "["+strconv.Itoa(j)+"]"+d.AccountLabel(ix.Variant, j)+": ", account)
		}
	}
}

func line(bw *bufio.Writer, prefix, value string) {
	bw.WriteString(prefix)
	bw.WriteString(value)
	bw.WriteByte('\n')
}
