package pumpfun

import "launchpad-decoder-sol/internal/logic/ixparser/common"

// 参数布局（discriminator 之后）
var (
	buyGrammar = common.Grammar{
		common.U64("Token_Amount"),
		common.U64("Max_SOL_Cost"),
	}

	sellGrammar = common.Grammar{
		common.U64("Token_Amount"),
		common.U64("Min_SOL_Output"),
	}

	// PUMP Create 的字段名沿用小写输出：name / symbol / uri / creator
	createGrammar = common.Grammar{
		common.Str("name"),
		common.Str("symbol"),
		common.Str("uri"),
		common.Pubkey("creator"),
	}

	setParamsGrammar = common.Grammar{
		common.Pubkey("Fee_Recipient"),
		common.U64("Initial_Virtual_Token_Reserves"),
		common.U64("Initial_Virtual_SOL_Reserves"),
		common.U64("Initial_Real_Token_Reserves"),
		common.U64("Token_Total_Supply"),
		common.U64("Fee_Basis_Points"),
	}
)

// Buy / Sell 账户结构：
//
//  0. Global 配置账户
//  1. 手续费账户
//  2. 代币 Mint
//  3. Bonding Curve 主账户
//  4. Bonding Curve Vault
//  5. 用户 ATA
//  6. 用户钱包（Signer）
//     ...
var swapLabels = []string{
	"Global",
	"Fee_Recipient",
	"Mint",
	"Bonding_Curve",
	"Associated_Bonding_Curve",
	"Associated_User",
	"User",
	"System_Program",
	"Token_Program",
	"Rent",
	"Event_Authority",
	"Program",
}

var createLabels = []string{
	"Mint",
	"Mint_Authority",
	"Bonding_Curve",
	"Associated_Bonding_Curve",
	"Global",
	"Mpl_Token_Metadata",
	"Metadata",
	"User",
	"System_Program",
	"Token_Program",
	"Associated_Token_Program",
	"Rent",
	"Event_Authority",
	"Program",
}

// Migrate：把毕业代币从 Bonding Curve 迁移到 PumpSwap 池子
var migrateLabels = []string{
	"Global",
	"Withdraw_Authority",
	"Mint",
	"Bonding_Curve",
	"Associated_Bonding_Curve",
	"User",
	"System_Program",
	"Token_Program",
	"Pump_AMM",
	"Pool",
	"Pool_Authority",
	"Pool_Authority_Mint_Account",
	"Pool_Authority_WSOL_Account",
	"AMM_Global_Config",
	"WSOL_Mint",
	"LP_Mint",
	"User_Pool_Token_Account",
	"Pool_Base_Token_Account",
	"Pool_Quote_Token_Account",
	"Token_2022_Program",
	"Associated_Token_Program",
	"Pump_AMM_Event_Authority",
	"Event_Authority",
	"Program",
}
