package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction 账本中的一条交易记录
// 创建后不可变，唯一例外是显式的金额更正 (由 Ledger.CorrectAmount 执行)
// AccountNumber 是逻辑外键，不做结构性约束，悬空引用由调用方防御处理
type Transaction struct {
	ID            string          `json:"id"`
	Timestamp     time.Time       `json:"timestamp"`
	AccountNumber string          `json:"account_number"`
	Type          TxType          `json:"type"`
	Category      TxCategory      `json:"category"`
	Amount        decimal.Decimal `json:"amount"` // 带符号: 出账为负
	Description   string          `json:"description"`
	Reconciled    bool            `json:"reconciled"`
}

// NewTransaction 构造交易并确定性推导分类
func NewTransaction(id string, ts time.Time, accountNumber string, txType TxType,
	amount decimal.Decimal, description string) Transaction {
	return Transaction{
		ID:            id,
		Timestamp:     ts,
		AccountNumber: accountNumber,
		Type:          txType,
		Category:      CategoryOf(txType),
		Amount:        amount,
		Description:   description,
	}
}

// Matches 关键词匹配: 对所有文本字段做大小写不敏感的子串匹配
func (t *Transaction) Matches(keyword string) bool {
	k := strings.ToLower(keyword)
	for _, field := range []string{
		t.ID, t.AccountNumber, string(t.Type), string(t.Category), t.Description,
	} {
		if strings.Contains(strings.ToLower(field), k) {
			return true
		}
	}
	return false
}

// CSVRow 导出一行 CSV (对账报表的数据部分)
func (t *Transaction) CSVRow() string {
	reconciled := "false"
	if t.Reconciled {
		reconciled = "true"
	}
	return strings.Join([]string{
		t.ID,
		t.Timestamp.Format("2006-01-02 15:04:05"),
		t.AccountNumber,
		string(t.Type),
		string(t.Category),
		t.Amount.String(),
		t.Description,
		reconciled,
	}, ",")
}
