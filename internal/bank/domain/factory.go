package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NumberSequence 账号序列端口
// 由账户存储实现，序列值随账户快照一起持久化，重启后不会重复发号
type NumberSequence interface {
	NextAccountNumber() string
}

// Factory 负责构造各变体实例与账户转换
type Factory struct {
	params  Params
	numbers NumberSequence
}

func NewFactory(params Params, numbers NumberSequence) *Factory {
	return &Factory{params: params, numbers: numbers}
}

// CreateAccount 按变体开户
// 开户金额校验: BASIC >= 0, CHECKING >= 最低开户额, INVESTMENT >= 最低开户额
// CREDIT_CARD 的 initialAmount 语义是授信额度 (>= 最低授信)，欠款从 0 开始
func (f *Factory) CreateAccount(holderName string, initialAmount decimal.Decimal,
	accountType AccountType) (*Account, error) {
	if !accountType.IsValid() {
		return nil, ErrUnsupportedOperation
	}

	now := time.Now()
	a := &Account{
		AccountNumber: f.numbers.NextAccountNumber(),
		HolderName:    holderName,
		Type:          accountType,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	switch accountType {
	case TypeBasic:
		if initialAmount.IsNegative() {
			return nil, invalidAmount("initial deposit cannot be negative")
		}
		a.Balance = initialAmount

	case TypeChecking:
		if initialAmount.LessThan(f.params.CheckingMinOpening) {
			return nil, invalidAmount("checking account requires opening deposit >= %s",
				f.params.CheckingMinOpening.String())
		}
		a.Balance = initialAmount
		a.OverdraftLimit = f.params.CheckingOverdraftLimit

	case TypeInvestment:
		if initialAmount.LessThan(f.params.InvestmentMinOpening) {
			return nil, invalidAmount("investment account requires opening deposit >= %s",
				f.params.InvestmentMinOpening.String())
		}
		a.Balance = initialAmount
		a.MinimumBalance = f.params.InvestmentMinBalance
		a.InterestRate = f.params.InvestmentAnnualRate

	case TypeCreditCard:
		if initialAmount.LessThan(f.params.CreditCardMinLimit) {
			return nil, invalidAmount("minimum credit limit: %s", f.params.CreditCardMinLimit.String())
		}
		a.Balance = decimal.Zero
		a.CreditLimit = initialAmount
	}

	return a, nil
}

// ConvertAccount 账户转换: 保留账号、户名与余额，其余字段按新变体重建
// 允许列表: 信用卡只能转为 BASIC；任何账户都不能转为信用卡
// (存款余额无法映射为欠款语义)
func (f *Factory) ConvertAccount(existing *Account, newType AccountType) (*Account, error) {
	if !newType.IsValid() {
		return nil, ErrAccountConversion
	}
	if newType == TypeCreditCard {
		return nil, ErrAccountConversion
	}
	if existing.Type == TypeCreditCard && newType != TypeBasic {
		return nil, ErrAccountConversion
	}

	a := &Account{
		AccountNumber: existing.AccountNumber,
		HolderName:    existing.HolderName,
		Type:          newType,
		Balance:       existing.Balance,
		Active:        existing.Active,
		CreatedAt:     existing.CreatedAt,
		UpdatedAt:     time.Now(),
	}

	switch newType {
	case TypeChecking:
		a.OverdraftLimit = f.params.CheckingOverdraftLimit
	case TypeInvestment:
		a.MinimumBalance = f.params.InvestmentMinBalance
		a.InterestRate = f.params.InvestmentAnnualRate
	}

	return a, nil
}
