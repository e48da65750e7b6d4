package store_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xxz807/bankcore/internal/bank/domain"
	"github.com/xxz807/bankcore/internal/bank/store"
	"github.com/xxz807/bankcore/internal/bank/store/mocks"
	"github.com/xxz807/bankcore/internal/platform/storage"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newFileBacked(t *testing.T) (*store.AccountStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accounts.json")
	return store.NewAccountStore(storage.NewFileStore(path, zap.NewNop()), zap.NewNop()), path
}

func account(number, holder string, at domain.AccountType, balance string) *domain.Account {
	return &domain.Account{
		AccountNumber: number,
		HolderName:    holder,
		Type:          at,
		Balance:       dec(balance),
		Active:        true,
	}
}

func TestAddGetUpdateRemove(t *testing.T) {
	s, _ := newFileBacked(t)

	a := account("202500001", "Alice", domain.TypeBasic, "100")
	require.NoError(t, s.Add(a))
	assert.Error(t, s.Add(a), "duplicate account number must be rejected")

	got, ok := s.Get("202500001")
	require.True(t, ok)
	assert.Equal(t, "Alice", got.HolderName)

	// Get 返回拷贝，改动不应影响存储内部状态
	got.HolderName = "Mallory"
	again, _ := s.Get("202500001")
	assert.Equal(t, "Alice", again.HolderName)

	got.HolderName = "Alice Smith"
	require.NoError(t, s.Update(got))
	again, _ = s.Get("202500001")
	assert.Equal(t, "Alice Smith", again.HolderName)

	assert.ErrorIs(t, s.Update(account("999", "X", domain.TypeBasic, "0")), domain.ErrInvalidAccount)

	assert.True(t, s.Remove("202500001"))
	assert.False(t, s.Remove("202500001"))
	_, ok = s.Get("202500001")
	assert.False(t, ok)
}

func TestPersistReloadEquivalence(t *testing.T) {
	s, path := newFileBacked(t)

	require.NoError(t, s.Add(account("202500001", "Alice", domain.TypeBasic, "100")))
	require.NoError(t, s.Add(account("202500002", "Bob", domain.TypeChecking, "-200")))
	inv := account("202500003", "Carol", domain.TypeInvestment, "1500")
	inv.Active = false
	require.NoError(t, s.Add(inv))

	// 同一文件重建存储，账户集合应当等价
	reloaded := store.NewAccountStore(storage.NewFileStore(path, zap.NewNop()), zap.NewNop())

	all := reloaded.ListAll()
	require.Len(t, all, 3)
	for _, orig := range s.ListAll() {
		got, ok := reloaded.Get(orig.AccountNumber)
		require.True(t, ok, "account %s missing after reload", orig.AccountNumber)
		assert.Equal(t, orig.Type, got.Type)
		assert.True(t, got.Balance.Equal(orig.Balance))
		assert.Equal(t, orig.Active, got.Active)
		assert.Equal(t, orig.HolderName, got.HolderName)
	}
}

func TestNumberSequenceSurvivesReload(t *testing.T) {
	s, path := newFileBacked(t)

	n1 := s.NextAccountNumber()
	require.NoError(t, s.Add(account(n1, "Alice", domain.TypeBasic, "0")))

	reloaded := store.NewAccountStore(storage.NewFileStore(path, zap.NewNop()), zap.NewNop())
	n2 := reloaded.NextAccountNumber()
	assert.Greater(t, n2, n1, "reload must not reuse account numbers")
}

func TestCorruptSnapshotStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	// 坏快照不是致命错误: 记日志后从空开始
	s := store.NewAccountStore(storage.NewFileStore(path, zap.NewNop()), zap.NewNop())
	assert.Empty(t, s.ListAll())
}

func TestListByTypeAndSearch(t *testing.T) {
	s, _ := newFileBacked(t)
	require.NoError(t, s.Add(account("202500001", "Alice Jones", domain.TypeBasic, "0")))
	require.NoError(t, s.Add(account("202500002", "Bob Stone", domain.TypeChecking, "0")))
	require.NoError(t, s.Add(account("202500003", "alice cooper", domain.TypeChecking, "0")))

	assert.Len(t, s.ListByType(domain.TypeChecking), 2)
	assert.Len(t, s.ListByType(domain.TypeInvestment), 0)

	// 户名大小写不敏感
	assert.Len(t, s.Search("ALICE"), 2)
	// 账号子串
	assert.Len(t, s.Search("500002"), 1)
	// 变体展示名
	assert.Len(t, s.Search("checking"), 2)
	assert.Empty(t, s.Search("zzz"))
}

func TestAdjustBalance(t *testing.T) {
	s, _ := newFileBacked(t)
	require.NoError(t, s.Add(account("202500001", "Alice", domain.TypeBasic, "100")))

	assert.True(t, s.AdjustBalance("202500001", dec("-30")))
	got, _ := s.Get("202500001")
	assert.Equal(t, "70", got.Balance.String())

	assert.False(t, s.AdjustBalance("999", dec("1")))
}

// 落盘失败只记日志，不回滚内存里已成功的变更
func TestPersistFailureDoesNotRollBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	snap := mocks.NewMockSnapshotStore(ctrl)
	snap.EXPECT().Load(gomock.Any()).Return(false, nil)
	snap.EXPECT().Save(gomock.Any()).Return(errors.New("disk full")).AnyTimes()

	s := store.NewAccountStore(snap, zap.NewNop())
	require.NoError(t, s.Add(account("202500001", "Alice", domain.TypeBasic, "100")))

	got, ok := s.Get("202500001")
	require.True(t, ok)
	assert.Equal(t, "100", got.Balance.String())
}

// 每次变更操作同步落盘一次
func TestEveryMutationPersists(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	snap := mocks.NewMockSnapshotStore(ctrl)
	snap.EXPECT().Load(gomock.Any()).Return(false, nil)
	snap.EXPECT().Save(gomock.Any()).Return(nil).Times(3)

	s := store.NewAccountStore(snap, zap.NewNop())
	a := account("202500001", "Alice", domain.TypeBasic, "100")
	require.NoError(t, s.Add(a))     // save #1
	require.NoError(t, s.Update(a))  // save #2
	assert.True(t, s.Remove(a.AccountNumber)) // save #3
}
