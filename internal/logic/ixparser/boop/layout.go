package boop

import "launchpad-decoder-sol/internal/logic/ixparser/common"

// 新版 deploy_bonding_curve 先写 creator 再写 salt，数据总长 8 + 32 + 8
const deployCreatorFirstMinLen = common.DiscriminatorSize + 32 + 8

var (
	buyTokenGrammar = common.Grammar{
		common.U64("Token_Amount"),
		common.U64("Max_SOL_Cost"),
	}

	sellGrammar = common.Grammar{
		common.U64("Token_Amount"),
		common.U64("Min_SOL_Output"),
	}

	createTokenGrammar = common.Grammar{
		common.U64("Salt"),
		common.Str("Name"),
		common.Str("Symbol"),
		common.Str("URI"),
	}

	createGrammar = common.Grammar{
		common.U64("Salt"),
		common.Str("Name"),
		common.Str("Symbol"),
		common.Str("URI"),
		common.Pubkey("Creator"),
	}

	deployCreatorFirst = common.Grammar{
		common.Pubkey("Creator"),
		common.U64("Salt"),
	}

	deploySaltFirst = common.Grammar{
		common.U64("Salt"),
		common.Pubkey("Creator"),
	}
)

// deployBondingCurveLayout 按总长度选择布局：不足 48 字节按旧版 salt 在前解析。
// 因此截断到 48 字节以下时字段顺序会变化，不满足逐字段前缀性质
func deployBondingCurveLayout(data []byte) common.Grammar {
	if len(data) >= deployCreatorFirstMinLen {
		return deployCreatorFirst
	}
	return deploySaltFirst
}

var buyTokenLabels = []string{
	"Mint",
	"Bonding_Curve",
	"Trading_Fees_Vault",
	"Bonding_Curve_Vault",
	"Bonding_Curve_SOL_Vault",
	"Recipient_Token_Account",
	"Buyer",
	"Config",
	"Vault_Authority",
	"WSOL",
	"System_Program",
	"Token_Program",
	"Associated_Token_Program",
}

var sellTokenLabels = []string{
	"Mint",
	"Bonding_Curve",
	"Trading_Fees_Vault",
	"Bonding_Curve_Vault",
	"Bonding_Curve_SOL_Vault",
	"Seller_Token_Account",
	"Seller",
	"Recipient",
	"Config",
	"System_Program",
	"Token_Program",
	"Associated_Token_Program",
}

var createTokenLabels = []string{
	"Config",
	"Metadata",
	"Mint",
	"Payer",
	"Rent",
	"System_Program",
	"Token_Program",
	"Token_Metadata_Program",
}

var deployBondingCurveLabels = []string{
	"Mint",
	"Vault_Authority",
	"Bonding_Curve",
	"Bonding_Curve_SOL_Vault",
	"Bonding_Curve_Vault",
	"Config",
	"Payer",
	"System_Program",
	"WSOL",
	"Token_Program",
	"Associated_Token_Program",
}
