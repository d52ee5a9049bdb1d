package redis

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlab/expense-records/pkg/address"
	"github.com/ledgerlab/expense-records/pkg/models"
	"github.com/ledgerlab/expense-records/pkg/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(client)
}

func testIdentity(fill byte) address.Identity {
	var id address.Identity
	for i := range id {
		id[i] = fill
	}
	return id
}

func TestCreateRecord(t *testing.T) {
	ctx := context.Background()
	owner := testIdentity(0x01)

	t.Run("Success", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.CreateAccount(ctx, owner)
		require.NoError(t, err)

		record, err := store.CreateRecord(ctx, owner, 7, "coffee", 1250)
		require.NoError(t, err)

		wantAddr, wantBump, err := address.Find(owner, 7)
		require.NoError(t, err)
		assert.Equal(t, wantAddr.Hex(), record.Address)
		assert.Equal(t, wantBump, record.Bump)
		assert.Equal(t, owner.Hex(), record.Owner)
		assert.Equal(t, models.RecordDiscriminator(), record.Discriminator)
		assert.Equal(t, models.DepositFor(store.NameCapacity, store.DepositRate), record.Deposit)

		account, err := store.GetAccount(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, store.AccountGrant-record.Deposit, account.Balance)
		assert.Equal(t, record.Deposit, account.Held)
		assert.Equal(t, int64(1), account.Version)
	})

	t.Run("Duplicate Address", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.CreateAccount(ctx, owner)
		require.NoError(t, err)

		_, err = store.CreateRecord(ctx, owner, 7, "coffee", 1250)
		require.NoError(t, err)

		_, err = store.CreateRecord(ctx, owner, 7, "lunch", 4200)
		assert.ErrorIs(t, err, storage.ErrAddressInUse)
	})

	t.Run("Account Not Found", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.CreateRecord(ctx, owner, 7, "coffee", 1250)
		assert.ErrorIs(t, err, storage.ErrAccountNotFound)
	})

	t.Run("Insufficient Deposit", func(t *testing.T) {
		store := newTestStore(t)
		store.AccountGrant = 10
		_, err := store.CreateAccount(ctx, owner)
		require.NoError(t, err)

		_, err = store.CreateRecord(ctx, owner, 7, "coffee", 1250)
		assert.ErrorIs(t, err, storage.ErrInsufficientDeposit)
	})

	t.Run("Name Too Long", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.CreateAccount(ctx, owner)
		require.NoError(t, err)

		_, err = store.CreateRecord(ctx, owner, 7, "thirteen-byte", 1250)
		assert.ErrorIs(t, err, storage.ErrCapacityExceeded)
	})
}

func TestGetRecord(t *testing.T) {
	ctx := context.Background()
	owner := testIdentity(0x01)

	t.Run("Success", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.CreateAccount(ctx, owner)
		require.NoError(t, err)
		created, err := store.CreateRecord(ctx, owner, 7, "coffee", 1250)
		require.NoError(t, err)

		got, err := store.GetRecord(ctx, owner, 7)
		require.NoError(t, err)
		assert.Equal(t, created.Address, got.Address)
		assert.Equal(t, created.MerchantName, got.MerchantName)
		assert.Equal(t, created.Amount, got.Amount)
		assert.Equal(t, created.Deposit, got.Deposit)
		assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("Not Found", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.GetRecord(ctx, owner, 404)
		assert.ErrorIs(t, err, storage.ErrRecordNotFound)
	})
}

func TestModifyRecord(t *testing.T) {
	ctx := context.Background()
	owner := testIdentity(0x01)

	t.Run("Success", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.CreateAccount(ctx, owner)
		require.NoError(t, err)
		created, err := store.CreateRecord(ctx, owner, 7, "coffee", 1250)
		require.NoError(t, err)

		modified, err := store.ModifyRecord(ctx, owner, 7, "lunch", 4200)
		require.NoError(t, err)
		assert.Equal(t, "lunch", modified.MerchantName)
		assert.Equal(t, uint64(4200), modified.Amount)
		assert.Equal(t, created.Deposit, modified.Deposit)
		assert.Equal(t, created.Address, modified.Address)

		// Modifying must not touch the deposit accounting.
		account, err := store.GetAccount(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, created.Deposit, account.Held)
		assert.Equal(t, int64(1), account.Version)
	})

	t.Run("Not Found", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.ModifyRecord(ctx, owner, 404, "lunch", 4200)
		assert.ErrorIs(t, err, storage.ErrRecordNotFound)
	})

	t.Run("Wrong Owner", func(t *testing.T) {
		store := newTestStore(t)
		other := testIdentity(0x02)

		// Plant a record owned by somebody else at the caller's derived
		// address to exercise the ownership gate.
		addr, bump, err := address.Find(owner, 7)
		require.NoError(t, err)
		planted := models.ExpenseRecord{
			Address:       addr.Hex(),
			Discriminator: models.RecordDiscriminator(),
			Id:            7,
			Owner:         other.Hex(),
			Bump:          bump,
			MerchantName:  "coffee",
			Amount:        1250,
			Deposit:       720,
		}
		plantedJSON, err := json.Marshal(planted)
		require.NoError(t, err)
		require.NoError(t, store.Client.Set(ctx, recordKey(addr.Hex()), plantedJSON, 0).Err())

		_, err = store.ModifyRecord(ctx, owner, 7, "lunch", 4200)
		assert.ErrorIs(t, err, storage.ErrInvalidCaller)
	})

	t.Run("Name Too Long", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.CreateAccount(ctx, owner)
		require.NoError(t, err)
		_, err = store.CreateRecord(ctx, owner, 7, "coffee", 1250)
		require.NoError(t, err)

		_, err = store.ModifyRecord(ctx, owner, 7, "thirteen-byte", 4200)
		assert.ErrorIs(t, err, storage.ErrCapacityExceeded)
	})
}

func TestDeleteRecord(t *testing.T) {
	ctx := context.Background()
	owner := testIdentity(0x01)

	t.Run("Success", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.CreateAccount(ctx, owner)
		require.NoError(t, err)
		created, err := store.CreateRecord(ctx, owner, 7, "coffee", 1250)
		require.NoError(t, err)

		deleted, err := store.DeleteRecord(ctx, owner, 7)
		require.NoError(t, err)
		assert.Equal(t, created.Address, deleted.Address)
		assert.Equal(t, created.Deposit, deleted.Deposit)

		_, err = store.GetRecord(ctx, owner, 7)
		assert.ErrorIs(t, err, storage.ErrRecordNotFound)

		// The full deposit flows back to the account.
		account, err := store.GetAccount(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, store.AccountGrant, account.Balance)
		assert.Equal(t, uint64(0), account.Held)
		assert.Equal(t, int64(2), account.Version)

		// The slot is vacant again and can be reused.
		_, err = store.CreateRecord(ctx, owner, 7, "tea", 300)
		assert.NoError(t, err)
	})

	t.Run("Not Found", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.CreateAccount(ctx, owner)
		require.NoError(t, err)

		_, err = store.DeleteRecord(ctx, owner, 404)
		assert.ErrorIs(t, err, storage.ErrRecordNotFound)
	})
}

func TestListRecordsByOwner(t *testing.T) {
	ctx := context.Background()
	owner := testIdentity(0x01)
	other := testIdentity(0x02)

	store := newTestStore(t)
	_, err := store.CreateAccount(ctx, owner)
	require.NoError(t, err)

	_, err = store.CreateRecord(ctx, owner, 9, "dinner", 8000)
	require.NoError(t, err)
	_, err = store.CreateRecord(ctx, owner, 3, "coffee", 1250)
	require.NoError(t, err)

	records, err := store.ListRecordsByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, uint64(3), records[0].Id)
	assert.Equal(t, uint64(9), records[1].Id)

	empty, err := store.ListRecordsByOwner(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAccounts(t *testing.T) {
	ctx := context.Background()
	owner := testIdentity(0x01)

	t.Run("Create And Get", func(t *testing.T) {
		store := newTestStore(t)

		created, err := store.CreateAccount(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, store.AccountGrant, created.Balance)
		assert.Equal(t, uint64(0), created.Held)

		got, err := store.GetAccount(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, created.Owner, got.Owner)
		assert.Equal(t, created.Balance, got.Balance)
	})

	t.Run("Duplicate", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.CreateAccount(ctx, owner)
		require.NoError(t, err)
		_, err = store.CreateAccount(ctx, owner)
		assert.ErrorIs(t, err, storage.ErrAccountExists)
	})

	t.Run("Not Found", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.GetAccount(ctx, owner)
		assert.ErrorIs(t, err, storage.ErrAccountNotFound)
	})

	t.Run("List", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.CreateAccount(ctx, testIdentity(0x02))
		require.NoError(t, err)
		_, err = store.CreateAccount(ctx, testIdentity(0x01))
		require.NoError(t, err)

		accounts, err := store.ListAccounts(ctx)
		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, testIdentity(0x01).Hex(), accounts[0].Owner)
		assert.Equal(t, testIdentity(0x02).Hex(), accounts[1].Owner)
	})
}

func TestListLedgerEntries(t *testing.T) {
	ctx := context.Background()
	owner := testIdentity(0x01)

	store := newTestStore(t)
	_, err := store.CreateAccount(ctx, owner)
	require.NoError(t, err)

	created, err := store.CreateRecord(ctx, owner, 7, "coffee", 1250)
	require.NoError(t, err)
	_, err = store.DeleteRecord(ctx, owner, 7)
	require.NoError(t, err)

	entries, err := store.ListLedgerEntries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first: the refund precedes the original debit.
	assert.Equal(t, created.Deposit, entries[0].Credit)
	assert.Equal(t, uint64(0), entries[0].Debit)
	assert.Equal(t, created.Deposit, entries[1].Debit)

	limited, err := store.ListLedgerEntries(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, created.Deposit, limited[0].Credit)

	none, err := store.ListLedgerEntries(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSumRecordDeposits(t *testing.T) {
	ctx := context.Background()
	owner := testIdentity(0x01)

	store := newTestStore(t)
	_, err := store.CreateAccount(ctx, owner)
	require.NoError(t, err)

	first, err := store.CreateRecord(ctx, owner, 1, "coffee", 1250)
	require.NoError(t, err)
	_, err = store.CreateRecord(ctx, owner, 2, "lunch", 4200)
	require.NoError(t, err)

	totals, err := store.SumRecordDeposits(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]uint64{owner.Hex(): 2 * first.Deposit}, totals)
}
