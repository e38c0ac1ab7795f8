package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clubkosh/clubkosh/internal/approval"
	donationdomain "github.com/clubkosh/clubkosh/internal/donation/domain"
	donationrepo "github.com/clubkosh/clubkosh/internal/donation/repository"
	expensedomain "github.com/clubkosh/clubkosh/internal/expense/domain"
	expenserepo "github.com/clubkosh/clubkosh/internal/expense/repository"
	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
	"github.com/clubkosh/clubkosh/internal/summary/domain"
)

type summaryFixture struct {
	svc       domain.Service
	donations donationdomain.Repository
	expenses  expensedomain.Repository
	genID     *snowflake.Node
	clubID    snowflake.ID
}

func newSummaryFixture(t *testing.T) *summaryFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&donationdomain.Donation{}, &expensedomain.Expense{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	donations := donationrepo.NewRepository(db)
	expenses := expenserepo.NewRepository(db)

	return &summaryFixture{
		svc:       NewService(donations, expenses, zap.NewNop()),
		donations: donations,
		expenses:  expenses,
		genID:     node,
		clubID:    node.Generate(),
	}
}

func (f *summaryFixture) addDonation(t *testing.T, amount int64, status approval.Status) {
	t.Helper()
	require.NoError(t, f.donations.Create(context.Background(), donationdomain.Donation{
		ID:          f.genID.Generate(),
		ClubID:      f.clubID,
		CollectedBy: f.genID.Generate(),
		DonorName:   "Donor",
		Amount:      amount,
		Mode:        donationdomain.ModeCash,
		Status:      status,
	}))
}

func (f *summaryFixture) addExpense(t *testing.T, amount int64, status approval.Status) {
	t.Helper()
	require.NoError(t, f.expenses.Create(context.Background(), expensedomain.Expense{
		ID:          f.genID.Generate(),
		ClubID:      f.clubID,
		SubmittedBy: f.genID.Generate(),
		PaidTo:      "Vendor",
		Category:    expensedomain.CategoryOther,
		Amount:      amount,
		Status:      status,
	}))
}

func (f *summaryFixture) member(role memberdomain.Role) *memberdomain.Member {
	return &memberdomain.Member{
		ID:     f.genID.Generate(),
		ClubID: f.clubID,
		Role:   role,
		Active: true,
	}
}

func TestPendingCount(t *testing.T) {
	f := newSummaryFixture(t)

	f.addDonation(t, 10000, approval.StatusPending)
	f.addDonation(t, 20000, approval.StatusApproved)
	f.addExpense(t, 5000, approval.StatusPending)
	f.addExpense(t, 7000, approval.StatusPending)

	count := f.svc.PendingCount(context.Background(), f.member(memberdomain.RoleTreasurer))
	assert.Equal(t, int64(1), count.Donations)
	assert.Equal(t, int64(2), count.Expenses)
	assert.Equal(t, int64(3), count.Total)
}

func TestPendingCountZeroForCoordinator(t *testing.T) {
	f := newSummaryFixture(t)
	f.addDonation(t, 10000, approval.StatusPending)

	count := f.svc.PendingCount(context.Background(), f.member(memberdomain.RoleCoordinator))
	assert.Equal(t, domain.PendingCount{}, count)
}

func TestPendingCountZeroForNilActor(t *testing.T) {
	f := newSummaryFixture(t)
	assert.Equal(t, domain.PendingCount{}, f.svc.PendingCount(context.Background(), nil))
}

func TestFundSummaryMath(t *testing.T) {
	f := newSummaryFixture(t)

	f.addDonation(t, 100000, approval.StatusApproved)
	f.addDonation(t, 50000, approval.StatusApproved)
	f.addDonation(t, 999999, approval.StatusPending)
	f.addDonation(t, 888888, approval.StatusRejected)
	f.addExpense(t, 30000, approval.StatusApproved)
	f.addExpense(t, 12000, approval.StatusPending)

	summary, err := f.svc.FundSummary(context.Background(), f.member(memberdomain.RoleCoordinator))
	require.NoError(t, err)
	assert.Equal(t, int64(150000), summary.DonationsTotal)
	assert.Equal(t, int64(2), summary.DonationsCount)
	assert.Equal(t, int64(30000), summary.ExpensesTotal)
	assert.Equal(t, int64(1), summary.ExpensesCount)
	assert.Equal(t, int64(120000), summary.Balance)
	assert.Equal(t, int64(12000), summary.PendingExpenseTotal)
	assert.Equal(t, int64(1), summary.PendingExpenseCount)
}

func TestFundSummaryEmptyClub(t *testing.T) {
	f := newSummaryFixture(t)

	summary, err := f.svc.FundSummary(context.Background(), f.member(memberdomain.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.DonationsTotal)
	assert.Equal(t, int64(0), summary.Balance)
}
