package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xxz807/bankcore/internal/bank/domain"
	"github.com/xxz807/bankcore/internal/platform/metrics"
	"github.com/xxz807/bankcore/internal/platform/storage"
)

// BalanceAdjuster 金额更正时联动账户余额的端口，由 AccountStore 实现
type BalanceAdjuster interface {
	AdjustBalance(accountNumber string, delta decimal.Decimal) bool
}

// ledgerSnapshot 账本的落盘格式
type ledgerSnapshot struct {
	Meta         storage.Meta         `json:"_meta"`
	Transactions []domain.Transaction `json:"transactions"`
}

// Ledger 只追加的交易账本
// 主索引按交易 ID，二级索引按账号；每次追加同步整体落盘
// 账本信任调用方: 业务规则已在账户操作中校验过，Append 总是成功
type Ledger struct {
	mu        sync.RWMutex
	byID      map[string]*domain.Transaction
	byAccount map[string][]*domain.Transaction
	snap      SnapshotStore
	accounts  BalanceAdjuster
	log       *zap.Logger
}

// NewLedger 建立账本并恢复上一份快照
// 快照缺失或不可读记日志后从空开始，与账户存储同一策略
func NewLedger(snap SnapshotStore, accounts BalanceAdjuster, log *zap.Logger) *Ledger {
	l := &Ledger{
		byID:      make(map[string]*domain.Transaction),
		byAccount: make(map[string][]*domain.Transaction),
		snap:      snap,
		accounts:  accounts,
		log:       log,
	}

	var loaded ledgerSnapshot
	found, err := snap.Load(&loaded)
	if err != nil {
		log.Error("ledger snapshot unreadable, starting empty", zap.Error(err))
		return l
	}
	if found {
		sort.Slice(loaded.Transactions, func(i, j int) bool {
			return loaded.Transactions[i].Timestamp.Before(loaded.Transactions[j].Timestamp)
		})
		for i := range loaded.Transactions {
			t := loaded.Transactions[i]
			l.byID[t.ID] = &t
			l.byAccount[t.AccountNumber] = append(l.byAccount[t.AccountNumber], &t)
		}
		log.Info("ledger snapshot restored", zap.Int("transactions", len(l.byID)))
	}
	return l
}

// Append 追加一条交易: 分配 ID 与时间戳、推导分类、更新两个索引、落盘
func (l *Ledger) Append(accountNumber string, txType domain.TxType,
	amount decimal.Decimal, description string) domain.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	t := domain.NewTransaction(uuid.NewString(), time.Now(), accountNumber, txType, amount, description)
	l.byID[t.ID] = &t
	l.byAccount[accountNumber] = append(l.byAccount[accountNumber], &t)
	l.persistLocked()
	return t
}

// ByAccount 指定账户的全部交易，按追加顺序
func (l *Ledger) ByAccount(accountNumber string) []domain.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	list := l.byAccount[accountNumber]
	out := make([]domain.Transaction, 0, len(list))
	for _, t := range list {
		out = append(out, *t)
	}
	return out
}

// ByDateRange 时间区间查询 (两端闭区间)，按时间升序
func (l *Ledger) ByDateRange(start, end time.Time) []domain.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Transaction, 0)
	for _, t := range l.byID {
		if !t.Timestamp.Before(start) && !t.Timestamp.After(end) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

// Search 关键词检索，匹配全部文本字段
func (l *Ledger) Search(keyword string) []domain.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Transaction, 0)
	for _, t := range l.byID {
		if t.Matches(keyword) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

// CorrectAmount 显式金额更正: 交易唯一允许的事后修改
// 按同等差额联动所属账户余额，这是账本与账户必须一起动的唯一位置；
// 账户查不到时账本侧的修改照常生效 (接受的悬空引用风险，记 warn)
func (l *Ledger) CorrectAmount(transactionID string, newAmount decimal.Decimal) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.byID[transactionID]
	if !ok {
		return false
	}

	delta := newAmount.Sub(t.Amount)
	t.Amount = newAmount

	if !l.accounts.AdjustBalance(t.AccountNumber, delta) {
		l.log.Warn("amount corrected but owning account not found",
			zap.String("transaction_id", transactionID),
			zap.String("account_number", t.AccountNumber),
			zap.String("delta", delta.String()))
	}

	l.persistLocked()
	return true
}

// SetReconciled 标记对账状态
func (l *Ledger) SetReconciled(transactionID string, reconciled bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, ok := l.byID[transactionID]
	if !ok {
		return false
	}
	t.Reconciled = reconciled
	l.persistLocked()
	return true
}

// SummaryByType 区间内按交易类型的金额合计
func (l *Ledger) SummaryByType(start, end time.Time) map[domain.TxType]decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[domain.TxType]decimal.Decimal)
	for _, t := range l.byID {
		if t.Timestamp.Before(start) || t.Timestamp.After(end) {
			continue
		}
		out[t.Type] = out[t.Type].Add(t.Amount)
	}
	return out
}

// SummaryByCategory 区间内按分类的金额合计
func (l *Ledger) SummaryByCategory(start, end time.Time) map[domain.TxCategory]decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[domain.TxCategory]decimal.Decimal)
	for _, t := range l.byID {
		if t.Timestamp.Before(start) || t.Timestamp.After(end) {
			continue
		}
		out[t.Category] = out[t.Category].Add(t.Amount)
	}
	return out
}

// persistLocked 整体落盘，失败不回滚内存状态 (同账户存储)
func (l *Ledger) persistLocked() {
	snap := ledgerSnapshot{
		Meta:         storage.NewMeta(),
		Transactions: make([]domain.Transaction, 0, len(l.byID)),
	}
	for _, t := range l.byID {
		snap.Transactions = append(snap.Transactions, *t)
	}
	sort.Slice(snap.Transactions, func(i, j int) bool {
		return snap.Transactions[i].Timestamp.Before(snap.Transactions[j].Timestamp)
	})
	if err := l.snap.Save(snap); err != nil {
		metrics.PersistenceFailures.Inc()
		l.log.Error("failed to persist ledger snapshot", zap.Error(err))
	}
}
