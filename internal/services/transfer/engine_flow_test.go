package transfer

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"tally/internal/models"
	"tally/internal/repositories"
	"tally/internal/services/account"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLedger is an in-memory stand-in for the account registry and the
// transfer repository. All operations run under one mutex, which gives
// it the same serialization contract the Postgres row locks give the
// real store.
type fakeLedger struct {
	mu        sync.Mutex
	accounts  map[uint]*models.Account
	byUser    map[uint]uint
	transfers map[uint]*models.Transfer
	nextAcct  uint
	nextID    uint
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		accounts:  make(map[uint]*models.Account),
		byUser:    make(map[uint]uint),
		transfers: make(map[uint]*models.Transfer),
	}
}

func (f *fakeLedger) addAccount(userID uint, balance string) uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextAcct++
	f.accounts[f.nextAcct] = &models.Account{
		ID:      f.nextAcct,
		UserID:  userID,
		Balance: decimal.RequireFromString(balance),
	}
	f.byUser[userID] = f.nextAcct
	return f.nextAcct
}

func (f *fakeLedger) balanceOfUser(userID uint) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accounts[f.byUser[userID]].Balance
}

func assertBalance(t *testing.T, ledger *fakeLedger, userID uint, want string) {
	t.Helper()
	got := ledger.balanceOfUser(userID)
	assert.True(t, got.Equal(decimal.RequireFromString(want)),
		"user %d balance: got %s, want %s", userID, got, want)
}

func (f *fakeLedger) GetAccount(ctx context.Context, userID uint) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byUser[userID]
	if !ok {
		return nil, fmt.Errorf("%w: user %d", account.ErrAccountNotFound, userID)
	}
	copied := *f.accounts[id]
	return &copied, nil
}

func (f *fakeLedger) ApplyDelta(ctx context.Context, accountID uint, delta decimal.Decimal) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acct, ok := f.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %d", account.ErrAccountNotFound, accountID)
	}
	newBalance := acct.Balance.Add(delta)
	if newBalance.IsNegative() {
		return nil, fmt.Errorf("%w: account %d", account.ErrInsufficientFunds, accountID)
	}
	acct.Balance = newBalance
	copied := *acct
	return &copied, nil
}

func (f *fakeLedger) InvalidateAccount(ctx context.Context, userID uint) error {
	// Reads go straight to the backing maps; there is nothing cached.
	return nil
}

func (f *fakeLedger) Create(ctx context.Context, t *models.Transfer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t.ID = f.nextID
	copied := *t
	f.transfers[t.ID] = &copied
	return nil
}

func (f *fakeLedger) GetByID(ctx context.Context, id uint) (*models.Transfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.transfers[id]
	if !ok {
		return nil, repositories.ErrTransferNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeLedger) ListByAccount(ctx context.Context, accountID uint) ([]*models.Transfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Transfer
	for _, t := range f.transfers {
		if t.FromAccountID == accountID || t.ToAccountID == accountID {
			copied := *t
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeLedger) ListPendingBySource(ctx context.Context, accountID uint) ([]*models.Transfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Transfer
	for _, t := range f.transfers {
		if t.FromAccountID == accountID && t.Status == models.TransferStatusPending {
			copied := *t
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeLedger) ApproveAndDebit(ctx context.Context, transferID uint) (*models.Transfer, *models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.transfers[transferID]
	if !ok {
		return nil, nil, repositories.ErrTransferNotFound
	}
	if t.Status != models.TransferStatusPending {
		return nil, nil, repositories.ErrTransferNotPending
	}
	acct, ok := f.accounts[t.FromAccountID]
	if !ok {
		return nil, nil, repositories.ErrAccountNotFound
	}
	newBalance := acct.Balance.Sub(t.Amount)
	if newBalance.IsNegative() {
		return nil, nil, repositories.ErrInsufficientFunds
	}
	acct.Balance = newBalance
	t.Status = models.TransferStatusApproved
	copiedT := *t
	copiedA := *acct
	return &copiedT, &copiedA, nil
}

func (f *fakeLedger) RejectIfPending(ctx context.Context, transferID uint) (*models.Transfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.transfers[transferID]
	if !ok {
		return nil, repositories.ErrTransferNotFound
	}
	if t.Status != models.TransferStatusPending {
		return nil, repositories.ErrTransferNotPending
	}
	t.Status = models.TransferStatusRejected
	copied := *t
	return &copied, nil
}

func TestSendRoundTrip(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	ledger.addAccount(1, "100.00")
	ledger.addAccount(2, "50.00")
	svc := NewService(ledger, ledger)

	created, err := svc.InitiateSend(ctx, 1, 2, decimal.RequireFromString("30.00"))
	require.NoError(t, err)

	assert.Equal(t, models.TransferTypeSend, created.Type)
	assert.Equal(t, models.TransferStatusApproved, created.Status)
	assertBalance(t, ledger, 1, "70")
	assertBalance(t, ledger, 2, "80")
}

func TestSendInsufficientFundsHasNoEffect(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	ledger.addAccount(1, "100.00")
	ledger.addAccount(2, "50.00")
	svc := NewService(ledger, ledger)

	_, err := svc.InitiateSend(ctx, 1, 2, decimal.RequireFromString("1000.00"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	assertBalance(t, ledger, 1, "100")
	assertBalance(t, ledger, 2, "50")

	transfers, err := svc.ListForUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, transfers, "no transfer record on a failed debit")
}

func TestRequestApproveFlow(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	ledger.addAccount(1, "100.00")
	ledger.addAccount(2, "50.00")
	svc := NewService(ledger, ledger)

	// User 1 asks user 2 for 30.00; nothing moves yet.
	created, err := svc.InitiateRequest(ctx, 1, 2, decimal.RequireFromString("30.00"))
	require.NoError(t, err)
	assert.Equal(t, models.TransferStatusPending, created.Status)
	assertBalance(t, ledger, 1, "100")
	assertBalance(t, ledger, 2, "50")

	// User 2 approves; funds move from 2 to 1.
	approved, err := svc.Decide(ctx, created.ID, 2, DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, models.TransferStatusApproved, approved.Status)
	assertBalance(t, ledger, 1, "130")
	assertBalance(t, ledger, 2, "20")
}

func TestRequestRejectFlow(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	ledger.addAccount(1, "100.00")
	ledger.addAccount(2, "50.00")
	svc := NewService(ledger, ledger)

	created, err := svc.InitiateRequest(ctx, 1, 2, decimal.RequireFromString("30.00"))
	require.NoError(t, err)

	rejected, err := svc.Decide(ctx, created.ID, 2, DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, models.TransferStatusRejected, rejected.Status)
	assertBalance(t, ledger, 1, "100")
	assertBalance(t, ledger, 2, "50")

	// Terminal means terminal.
	_, err = svc.Decide(ctx, created.ID, 2, DecisionApprove)
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestApproveWithInsufficientFundsStaysPending(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	ledger.addAccount(1, "100.00")
	ledger.addAccount(2, "10.00")
	svc := NewService(ledger, ledger)

	created, err := svc.InitiateRequest(ctx, 1, 2, decimal.RequireFromString("30.00"))
	require.NoError(t, err)

	_, err = svc.Decide(ctx, created.ID, 2, DecisionApprove)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	got, err := svc.GetTransfer(ctx, created.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, models.TransferStatusPending, got.Status, "no auto-reject on insufficient funds")
	assertBalance(t, ledger, 2, "10")

	// The payer can still reject it afterwards.
	rejected, err := svc.Decide(ctx, created.ID, 2, DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, models.TransferStatusRejected, rejected.Status)
}

func TestRequesterCannotDecideOwnRequest(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	ledger.addAccount(1, "100.00")
	ledger.addAccount(2, "50.00")
	svc := NewService(ledger, ledger)

	created, err := svc.InitiateRequest(ctx, 1, 2, decimal.RequireFromString("30.00"))
	require.NoError(t, err)

	_, err = svc.Decide(ctx, created.ID, 1, DecisionApprove)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Decide(ctx, created.ID, 1, DecisionReject)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTransferIDsStrictlyIncrease(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	ledger.addAccount(1, "1000.00")
	ledger.addAccount(2, "1000.00")
	svc := NewService(ledger, ledger)

	var ids []uint
	for i := 0; i < 5; i++ {
		sent, err := svc.InitiateSend(ctx, 1, 2, decimal.RequireFromString("1.00"))
		require.NoError(t, err)
		ids = append(ids, sent.ID)

		requested, err := svc.InitiateRequest(ctx, 2, 1, decimal.RequireFromString("1.00"))
		require.NoError(t, err)
		ids = append(ids, requested.ID)
	}

	for i := 1; i < len(ids); i++ {
		assert.Greater(t, ids[i], ids[i-1])
	}
}

func TestListPendingOnlyShowsPayerSide(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	ledger.addAccount(1, "100.00")
	ledger.addAccount(2, "100.00")
	svc := NewService(ledger, ledger)

	// User 1 asks user 2 to pay: pending for 2, not for 1.
	_, err := svc.InitiateRequest(ctx, 1, 2, decimal.RequireFromString("5.00"))
	require.NoError(t, err)

	pendingFor2, err := svc.ListPendingForUser(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, pendingFor2, 1)

	pendingFor1, err := svc.ListPendingForUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, pendingFor1)

	// Both participants see it in their history.
	historyFor1, err := svc.ListForUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, historyFor1, 1)
}

func TestConcurrentDecideHasOneWinner(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	ledger.addAccount(1, "100.00")
	ledger.addAccount(2, "50.00")
	svc := NewService(ledger, ledger)

	created, err := svc.InitiateRequest(ctx, 1, 2, decimal.RequireFromString("30.00"))
	require.NoError(t, err)

	const callers = 8
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		decision := DecisionApprove
		if i%2 == 1 {
			decision = DecisionReject
		}
		go func(d Decision) {
			defer wg.Done()
			_, err := svc.Decide(ctx, created.ID, 2, d)
			errs <- err
		}(decision)
	}
	wg.Wait()
	close(errs)

	var wins, losses int
	for err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrNotPending)
			losses++
		}
	}
	assert.Equal(t, 1, wins, "exactly one decider wins")
	assert.Equal(t, callers-1, losses)

	// The balance moved at most once, and only if the winner approved.
	got, err := svc.GetTransfer(ctx, created.ID, 2)
	require.NoError(t, err)
	switch got.Status {
	case models.TransferStatusApproved:
		assertBalance(t, ledger, 2, "20")
		assertBalance(t, ledger, 1, "130")
	case models.TransferStatusRejected:
		assertBalance(t, ledger, 2, "50")
		assertBalance(t, ledger, 1, "100")
	default:
		t.Fatalf("transfer left in non-terminal state %s", got.Status)
	}
}
