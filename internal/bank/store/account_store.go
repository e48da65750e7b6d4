package store

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xxz807/bankcore/internal/bank/domain"
	"github.com/xxz807/bankcore/internal/platform/metrics"
	"github.com/xxz807/bankcore/internal/platform/storage"
)

// accountNumberSeed 账号序列起始值，沿用历史系统的发号区间
const accountNumberSeed = 202500000

// accountSnapshot 账户集合的落盘格式
type accountSnapshot struct {
	Meta       storage.Meta     `json:"_meta"`
	NextNumber int64            `json:"next_number"`
	Accounts   []domain.Account `json:"accounts"`
}

// AccountStore 账户存储: 账号 → 账户 的唯一事实来源
// 所有变更操作互斥 (单写者)，每次变更同步整体落盘后才返回
// 读操作返回值拷贝，调用方拿不到内部指针
type AccountStore struct {
	mu         sync.RWMutex
	accounts   map[string]*domain.Account
	nextNumber int64
	snap       SnapshotStore
	log        *zap.Logger
}

// NewAccountStore 建立账户存储并恢复上一份快照
// 快照缺失或不可读都不是致命错误: 记日志后从空开始
func NewAccountStore(snap SnapshotStore, log *zap.Logger) *AccountStore {
	s := &AccountStore{
		accounts:   make(map[string]*domain.Account),
		nextNumber: accountNumberSeed,
		snap:       snap,
		log:        log,
	}

	var loaded accountSnapshot
	found, err := snap.Load(&loaded)
	if err != nil {
		log.Error("account snapshot unreadable, starting empty", zap.Error(err))
		return s
	}
	if found {
		if loaded.NextNumber > s.nextNumber {
			s.nextNumber = loaded.NextNumber
		}
		for i := range loaded.Accounts {
			a := loaded.Accounts[i]
			s.accounts[a.AccountNumber] = &a
		}
		log.Info("account snapshot restored", zap.Int("accounts", len(s.accounts)))
	}
	return s
}

// NextAccountNumber 发出下一个顺序账号 (domain.NumberSequence)
// 序列值随下一次账户变更一起落盘
func (s *AccountStore) NextAccountNumber() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextNumber++
	return strconv.FormatInt(s.nextNumber, 10)
}

// Add 新增账户并落盘
func (s *AccountStore) Add(a *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[a.AccountNumber]; exists {
		return fmt.Errorf("store: account %s already exists", a.AccountNumber)
	}
	cp := *a
	s.accounts[cp.AccountNumber] = &cp
	s.persistLocked()
	return nil
}

// Get 按账号取账户快照 (值拷贝)
func (s *AccountStore) Get(accountNumber string) (*domain.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[accountNumber]
	if !ok {
		return nil, false
	}
	cp := *a
	return &cp, true
}

// Update 按账号整体替换 (账户转换也走这里，同键换对象)
func (s *AccountStore) Update(a *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[a.AccountNumber]; !exists {
		return domain.ErrInvalidAccount
	}
	cp := *a
	s.accounts[cp.AccountNumber] = &cp
	s.persistLocked()
	return nil
}

// Remove 硬删除，与 closeAccount (翻转 active 标志) 是两回事
func (s *AccountStore) Remove(accountNumber string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[accountNumber]; !exists {
		return false
	}
	delete(s.accounts, accountNumber)
	s.persistLocked()
	return true
}

// ListAll 全部账户，按账号排序
func (s *AccountStore) ListAll() []*domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(*domain.Account) bool { return true })
}

// ListByType 按变体过滤
func (s *AccountStore) ListByType(t domain.AccountType) []*domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(a *domain.Account) bool { return a.Type == t })
}

// Search 大小写不敏感的子串匹配: 账号、户名、变体名，OR 组合
func (s *AccountStore) Search(query string) []*domain.Account {
	q := strings.ToLower(query)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(a *domain.Account) bool {
		return strings.Contains(strings.ToLower(a.AccountNumber), q) ||
			strings.Contains(strings.ToLower(a.HolderName), q) ||
			strings.Contains(strings.ToLower(a.Type.DisplayName()), q)
	})
}

// AdjustBalance 直接校正余额，仅供账本的金额更正使用
// 绕过变体校验是有意的: 更正的是历史记录的记账口径，不是一笔新业务
func (s *AccountStore) AdjustBalance(accountNumber string, delta decimal.Decimal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountNumber]
	if !ok {
		return false
	}
	a.Balance = a.Balance.Add(delta)
	s.persistLocked()
	return true
}

// collect 调用方必须已持有读锁或写锁
func (s *AccountStore) collect(match func(*domain.Account) bool) []*domain.Account {
	out := make([]*domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		if match(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountNumber < out[j].AccountNumber })
	return out
}

// persistLocked 整体落盘；失败只记日志与指标，不回滚内存状态
// 磁盘停留在上一份快照，直到下一次成功写入 (接受的崩溃一致性风险)
func (s *AccountStore) persistLocked() {
	snap := accountSnapshot{
		Meta:       storage.NewMeta(),
		NextNumber: s.nextNumber,
		Accounts:   make([]domain.Account, 0, len(s.accounts)),
	}
	for _, a := range s.accounts {
		snap.Accounts = append(snap.Accounts, *a)
	}
	sort.Slice(snap.Accounts, func(i, j int) bool {
		return snap.Accounts[i].AccountNumber < snap.Accounts[j].AccountNumber
	})
	if err := s.snap.Save(snap); err != nil {
		metrics.PersistenceFailures.Inc()
		s.log.Error("failed to persist account snapshot", zap.Error(err))
	}
}
