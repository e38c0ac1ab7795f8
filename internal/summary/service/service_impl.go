package service

import (
	"context"

	"github.com/clubkosh/clubkosh/internal/approval"
	donationdomain "github.com/clubkosh/clubkosh/internal/donation/domain"
	expensedomain "github.com/clubkosh/clubkosh/internal/expense/domain"
	"github.com/clubkosh/clubkosh/internal/gate"
	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
	"github.com/clubkosh/clubkosh/internal/summary/domain"
	"go.uber.org/zap"
)

var allRoles = []memberdomain.Role{
	memberdomain.RoleAdmin,
	memberdomain.RoleTreasurer,
	memberdomain.RoleCoordinator,
}

type service struct {
	donations donationdomain.Repository
	expenses  expensedomain.Repository
	log       *zap.Logger
}

func NewService(donations donationdomain.Repository, expenses expensedomain.Repository, log *zap.Logger) domain.Service {
	return &service{donations: donations, expenses: expenses, log: log}
}

// PendingCount never fails: the badge is decoration on every page a
// reviewer sees, and a broken badge must not take the page down with it.
// Errors degrade to zero and are logged.
func (s *service) PendingCount(ctx context.Context, actor *memberdomain.Member) domain.PendingCount {
	if !gate.Privileged(actor) {
		return domain.PendingCount{}
	}

	var count domain.PendingCount

	donationStats, err := s.donations.StatsByStatus(ctx, actor.ClubID, approval.StatusPending)
	if err != nil {
		s.log.Warn("pending donation count failed, reporting zero", zap.Error(err))
	} else {
		count.Donations = donationStats.Count
	}

	expenseStats, err := s.expenses.StatsByStatus(ctx, actor.ClubID, approval.StatusPending)
	if err != nil {
		s.log.Warn("pending expense count failed, reporting zero", zap.Error(err))
	} else {
		count.Expenses = expenseStats.Count
	}

	count.Total = count.Donations + count.Expenses
	return count
}

func (s *service) FundSummary(ctx context.Context, actor *memberdomain.Member) (*domain.FundSummary, error) {
	if err := gate.RequireRole(actor, allRoles...); err != nil {
		return nil, err
	}

	approvedDonations, err := s.donations.StatsByStatus(ctx, actor.ClubID, approval.StatusApproved)
	if err != nil {
		return nil, err
	}
	approvedExpenses, err := s.expenses.StatsByStatus(ctx, actor.ClubID, approval.StatusApproved)
	if err != nil {
		return nil, err
	}
	pendingExpenses, err := s.expenses.StatsByStatus(ctx, actor.ClubID, approval.StatusPending)
	if err != nil {
		return nil, err
	}

	return &domain.FundSummary{
		DonationsTotal:      approvedDonations.Total,
		DonationsCount:      approvedDonations.Count,
		ExpensesTotal:       approvedExpenses.Total,
		ExpensesCount:       approvedExpenses.Count,
		Balance:             approvedDonations.Total - approvedExpenses.Total,
		PendingExpenseTotal: pendingExpenses.Total,
		PendingExpenseCount: pendingExpenses.Count,
	}, nil
}
