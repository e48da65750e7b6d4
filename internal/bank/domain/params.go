package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Params 各变体的规则参数
// 历史版本里这些常量散落且互相矛盾，这里统一收敛为配置项，由 viper 在启动时装配
type Params struct {
	// CheckingOverdraftLimit 支票账户透支额度 (余额下限为 -limit)
	CheckingOverdraftLimit decimal.Decimal
	// CheckingMinOpening 支票账户最低开户金额
	CheckingMinOpening decimal.Decimal
	// InvestmentMinBalance 投资账户余额下限
	InvestmentMinBalance decimal.Decimal
	// InvestmentMinOpening 投资账户最低开户金额
	InvestmentMinOpening decimal.Decimal
	// InvestmentAnnualRate 投资账户名义年利率 (月息 = rate/12)
	InvestmentAnnualRate decimal.Decimal
	// CreditCardMinLimit 信用卡最低授信额度
	CreditCardMinLimit decimal.Decimal
}

// DefaultParams 规范值: 与 SPEC 的场景常量一致
func DefaultParams() Params {
	return Params{
		CheckingOverdraftLimit: decimal.NewFromInt(1000),
		CheckingMinOpening:     decimal.NewFromInt(100),
		InvestmentMinBalance:   decimal.NewFromInt(500),
		InvestmentMinOpening:   decimal.NewFromInt(1000),
		InvestmentAnnualRate:   decimal.RequireFromString("0.05"),
		CreditCardMinLimit:     decimal.NewFromInt(5000),
	}
}

// Validate 校验参数合法性
func (p Params) Validate() error {
	if p.CheckingOverdraftLimit.IsNegative() ||
		p.CheckingMinOpening.IsNegative() ||
		p.InvestmentMinBalance.IsNegative() ||
		p.InvestmentMinOpening.IsNegative() ||
		p.CreditCardMinLimit.IsNegative() {
		return errors.New("bank: params must be non-negative")
	}
	if p.InvestmentAnnualRate.IsNegative() {
		return errors.New("bank: interest rate must be non-negative")
	}
	return nil
}
