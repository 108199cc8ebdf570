package render

import (
	"encoding/hex"
	"io"

	"launchpad-decoder-sol/internal/logic/core"
	"launchpad-decoder-sol/internal/logic/ixparser/common"

	"gopkg.in/yaml.v3"
)

type yamlAccount struct {
	Index   int    `yaml:"index"`
	Label   string `yaml:"label"`
	Address string `yaml:"address"`
}

type yamlInstruction struct {
	Type     string        `yaml:"type"`
	Fields   *yaml.Node    `yaml:"fields,omitempty"` // 保持字段解析顺序
	RawData  string        `yaml:"raw_data,omitempty"`
	Accounts []yamlAccount `yaml:"accounts,omitempty"`
}

type yamlTransaction struct {
	Parser       string            `yaml:"parser"`
	Slot         uint64            `yaml:"slot"`
	Signature    string            `yaml:"signature"`
	Instructions []yamlInstruction `yaml:"instructions"`
}

// RenderSlotYAML 以 YAML 文档流输出结果集，每笔交易一个文档
func RenderSlotYAML(w io.Writer, rs *core.SlotResultSet, decoders []*common.Decoder) error {
	if rs.Empty() {
		return nil
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, d := range decoders {
		for _, tx := range rs.Transactions(d.Program) {
			if err := enc.Encode(toYAML(d, rs.Slot, tx)); err != nil {
				return err
			}
		}
	}
	return enc.Close()
}

func toYAML(d *common.Decoder, slot uint64, tx *core.DecodedTransaction) yamlTransaction {
	out := yamlTransaction{
		Parser:       d.Program.String(),
		Slot:         slot,
		Signature:    tx.Signature,
		Instructions: make([]yamlInstruction, 0, len(tx.Instructions)),
	}
	for _, ix := range tx.Instructions {
		yi := yamlInstruction{Type: ix.VariantName}
		all := append(append([]core.Field(nil), ix.Fields...), d.Derived(ix)...)
		if len(all) > 0 {
			fields := &yaml.Node{Kind: yaml.MappingNode}
			for _, f := range all {
				fields.Content = append(fields.Content,
					&yaml.Node{Kind: yaml.ScalarNode, Value: f.Name},
					&yaml.Node{Kind: yaml.ScalarNode, Value: f.Value(), Style: yaml.DoubleQuotedStyle},
				)
			}
			yi.Fields = fields
		}
		if !ix.Known {
			yi.RawData = hex.EncodeToString(ix.Data)
		}
		for j, account := range ix.Accounts {
			yi.Accounts = append(yi.Accounts, yamlAccount{
				Index:   j,
				Label:   d.AccountLabel(ix.Variant, j),
				Address: account,
			})
		}
		out.Instructions = append(out.Instructions, yi)
	}
	return out
}
