package domain

// AccountType 账户变体类型 (封闭集合)
type AccountType string

const (
	TypeBasic      AccountType = "BASIC"
	TypeChecking   AccountType = "CHECKING"
	TypeInvestment AccountType = "INVESTMENT"
	TypeCreditCard AccountType = "CREDIT_CARD"
)

// IsValid 校验账户类型合法性
func (t AccountType) IsValid() bool {
	switch t {
	case TypeBasic, TypeChecking, TypeInvestment, TypeCreditCard:
		return true
	}
	return false
}

// DisplayName 账户类型的展示名 (用于快照检索与搜索匹配)
func (t AccountType) DisplayName() string {
	switch t {
	case TypeBasic:
		return "Bank Account"
	case TypeChecking:
		return "Checking Account"
	case TypeInvestment:
		return "Investment Account"
	case TypeCreditCard:
		return "Credit Card Account"
	}
	return string(t)
}

// TxType 交易类型标签
type TxType string

const (
	TxDeposit         TxType = "DEPOSIT"
	TxWithdrawal      TxType = "WITHDRAWAL"
	TxTransferIn      TxType = "TRANSFER_IN"
	TxTransferOut     TxType = "TRANSFER_OUT"
	TxInterest        TxType = "INTEREST"
	TxCreditCharge    TxType = "CREDIT_CHARGE"
	TxPayment         TxType = "PAYMENT"
	TxCheckEncashment TxType = "CHECK_ENCASHMENT"
	TxAccountClosed   TxType = "ACCOUNT_CLOSED"
)

// TxCategory 交易分类，由交易类型确定性推导
type TxCategory string

const (
	CategoryDeposit         TxCategory = "DEPOSIT"
	CategoryWithdrawal      TxCategory = "WITHDRAWAL"
	CategoryTransfer        TxCategory = "TRANSFER"
	CategoryInterest        TxCategory = "INTEREST"
	CategoryCreditCharge    TxCategory = "CREDIT_CHARGE"
	CategoryPayment         TxCategory = "PAYMENT"
	CategoryCheckEncashment TxCategory = "CHECK_ENCASHMENT"
	CategoryAccountClosed   TxCategory = "ACCOUNT_CLOSED"
	CategoryGeneral         TxCategory = "GENERAL"
)

// CategoryOf 根据交易类型推导分类
// 未知类型归入 GENERAL，保证分类永远有值
func CategoryOf(t TxType) TxCategory {
	switch t {
	case TxDeposit:
		return CategoryDeposit
	case TxWithdrawal:
		return CategoryWithdrawal
	case TxTransferIn, TxTransferOut:
		return CategoryTransfer
	case TxInterest:
		return CategoryInterest
	case TxCreditCharge:
		return CategoryCreditCharge
	case TxPayment:
		return CategoryPayment
	case TxCheckEncashment:
		return CategoryCheckEncashment
	case TxAccountClosed:
		return CategoryAccountClosed
	}
	return CategoryGeneral
}

// CloseOutcome 关闭账户的结果
type CloseOutcome int

const (
	// CloseOK 关闭成功，需要记一笔 ACCOUNT_CLOSED 交易
	CloseOK CloseOutcome = iota
	// CloseAlreadyClosed 账户已关闭，幂等无操作
	CloseAlreadyClosed
	// CloseBalanceNotResting 余额未回到静止值 (0)，拒绝关闭
	CloseBalanceNotResting
)
