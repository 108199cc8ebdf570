package pumpfunamm

import "launchpad-decoder-sol/internal/logic/ixparser/common"

var (
	buyGrammar = common.Grammar{
		common.U64("Base_Amount_Out"),
		common.U64("Max_Quote_Amount_In"),
	}

	sellGrammar = common.Grammar{
		common.U64("Base_Amount_In"),
		common.U64("Min_Quote_Amount_Out"),
	}

	createConfigGrammar = common.Grammar{
		common.U64("LP_Fee_Basis_Points"),
		common.U64("Protocol_Fee_Basis_Points"),
	}

	createPoolGrammar = common.Grammar{
		common.U16("Index"),
		common.U64("Base_Amount_In"),
		common.U64("Quote_Amount_In"),
	}

	depositGrammar = common.Grammar{
		common.U64("LP_Token_Amount_Out"),
		common.U64("Max_Base_Amount_In"),
		common.U64("Max_Quote_Amount_In"),
	}

	withdrawGrammar = common.Grammar{
		common.U64("LP_Token_Amount_In"),
		common.U64("Min_Base_Amount_Out"),
		common.U64("Min_Quote_Amount_Out"),
	}
)

// PumpSwap 各指令共用一套账户角色表（以 Buy / Sell 布局为准）
var poolLabels = []string{
	"Pool",
	"User",
	"Global_Config",
	"Base_Mint",
	"Quote_Mint",
	"User_Base_Token_Account",
	"User_Quote_Token_Account",
	"Pool_Base_Token_Account",
	"Pool_Quote_Token_Account",
	"Protocol_Fee_Recipient",
	"Protocol_Fee_Recipient_Token_Account",
	"Base_Token_Program",
	"Quote_Token_Program",
	"System_Program",
	"Associated_Token_Program",
	"Event_Authority",
	"Program",
}
