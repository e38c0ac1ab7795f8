package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clubkosh/clubkosh/internal/approval"
	"github.com/clubkosh/clubkosh/internal/clock"
	"github.com/clubkosh/clubkosh/internal/donation/domain"
	donationrepo "github.com/clubkosh/clubkosh/internal/donation/repository"
	"github.com/clubkosh/clubkosh/internal/gate"
	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
	"github.com/clubkosh/clubkosh/internal/observability/metrics"
	"github.com/clubkosh/clubkosh/pkg/db/pagination"
)

type donationFixture struct {
	svc   domain.Service
	repo  domain.Repository
	clock *clock.FakeClock
	genID *snowflake.Node

	clubID      snowflake.ID
	admin       *memberdomain.Member
	treasurer   *memberdomain.Member
	coordinator *memberdomain.Member
}

func newDonationFixture(t *testing.T) *donationFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Donation{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fakeClock := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	repo := donationrepo.NewRepository(db)

	var noMetrics *metrics.Metrics
	svc := NewService(repo, node, fakeClock, noMetrics, zap.NewNop())

	clubID := node.Generate()
	member := func(role memberdomain.Role) *memberdomain.Member {
		return &memberdomain.Member{
			ID:     node.Generate(),
			ClubID: clubID,
			Role:   role,
			Active: true,
		}
	}

	return &donationFixture{
		svc:         svc,
		repo:        repo,
		clock:       fakeClock,
		genID:       node,
		clubID:      clubID,
		admin:       member(memberdomain.RoleAdmin),
		treasurer:   member(memberdomain.RoleTreasurer),
		coordinator: member(memberdomain.RoleCoordinator),
	}
}

func (f *donationFixture) submit(t *testing.T, actor *memberdomain.Member) *domain.Donation {
	t.Helper()
	donation, err := f.svc.Submit(context.Background(), actor, domain.SubmitInput{
		DonorName: "Meena Iyer",
		Amount:    50000,
		Mode:      domain.ModeUPI,
	})
	require.NoError(t, err)
	return donation
}

func TestSubmitCoordinatorStartsPending(t *testing.T) {
	f := newDonationFixture(t)

	donation := f.submit(t, f.coordinator)
	assert.Equal(t, approval.StatusPending, donation.Status)
	assert.Nil(t, donation.ReviewedBy)
	assert.Equal(t, f.coordinator.ID, donation.CollectedBy)
}

func TestSubmitReviewerAutoApproves(t *testing.T) {
	f := newDonationFixture(t)

	donation := f.submit(t, f.treasurer)
	assert.Equal(t, approval.StatusApproved, donation.Status)
	require.NotNil(t, donation.ReviewedBy)
	assert.Equal(t, f.treasurer.ID, *donation.ReviewedBy)
	assert.NotNil(t, donation.ReviewedAt)
}

func TestSubmitValidation(t *testing.T) {
	f := newDonationFixture(t)

	_, err := f.svc.Submit(context.Background(), f.coordinator, domain.SubmitInput{
		DonorName: "Meena Iyer", Amount: 0, Mode: domain.ModeCash,
	})
	assert.ErrorIs(t, err, approval.ErrInvalidAmount)

	_, err = f.svc.Submit(context.Background(), f.coordinator, domain.SubmitInput{
		DonorName: "Meena Iyer", Amount: -100, Mode: domain.ModeCash,
	})
	assert.ErrorIs(t, err, approval.ErrInvalidAmount)

	_, err = f.svc.Submit(context.Background(), f.coordinator, domain.SubmitInput{
		DonorName: "Meena Iyer", Amount: 100, Mode: domain.Mode("crypto"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMode)

	_, err = f.svc.Submit(context.Background(), f.coordinator, domain.SubmitInput{
		DonorName: "   ", Amount: 100, Mode: domain.ModeCash,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDonor)
}

func TestApproveAndIdempotentReapprove(t *testing.T) {
	f := newDonationFixture(t)
	donation := f.submit(t, f.coordinator)

	approved, err := f.svc.Approve(context.Background(), f.treasurer, donation.ID)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, f.treasurer.ID, *approved.ReviewedBy)

	// Double review keeps the first reviewer's stamp.
	again, err := f.svc.Approve(context.Background(), f.admin, donation.ID)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusApproved, again.Status)
	require.NotNil(t, again.ReviewedBy)
	assert.Equal(t, f.treasurer.ID, *again.ReviewedBy)
}

func TestApproveRejectedFails(t *testing.T) {
	f := newDonationFixture(t)
	donation := f.submit(t, f.coordinator)

	_, err := f.svc.Reject(context.Background(), f.treasurer, donation.ID, "no receipt")
	require.NoError(t, err)

	_, err = f.svc.Approve(context.Background(), f.treasurer, donation.ID)
	assert.ErrorIs(t, err, approval.ErrInvalidTransition)
}

func TestRejectDefaultsReason(t *testing.T) {
	f := newDonationFixture(t)
	donation := f.submit(t, f.coordinator)

	rejected, err := f.svc.Reject(context.Background(), f.treasurer, donation.ID, "   ")
	require.NoError(t, err)
	assert.Equal(t, approval.StatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectReason)
	assert.Equal(t, approval.DefaultRejectReason, *rejected.RejectReason)
}

func TestReviewRequiresTreasurer(t *testing.T) {
	f := newDonationFixture(t)
	donation := f.submit(t, f.coordinator)

	_, err := f.svc.Approve(context.Background(), f.coordinator, donation.ID)
	assert.ErrorIs(t, err, gate.ErrForbidden)

	_, err = f.svc.Reject(context.Background(), f.coordinator, donation.ID, "nope")
	assert.ErrorIs(t, err, gate.ErrForbidden)
}

func TestResubmitOwnerOnly(t *testing.T) {
	f := newDonationFixture(t)
	donation := f.submit(t, f.coordinator)

	_, err := f.svc.Reject(context.Background(), f.treasurer, donation.ID, "wrong amount")
	require.NoError(t, err)

	_, err = f.svc.Resubmit(context.Background(), f.treasurer, donation.ID, domain.UpdateInput{})
	assert.ErrorIs(t, err, approval.ErrNotOwner)

	amount := int64(75000)
	resubmitted, err := f.svc.Resubmit(context.Background(), f.coordinator, donation.ID, domain.UpdateInput{Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, approval.StatusPending, resubmitted.Status)
	assert.Equal(t, amount, resubmitted.Amount)
	assert.Nil(t, resubmitted.ReviewedBy)
	assert.Nil(t, resubmitted.RejectReason)
}

func TestResubmitPendingFails(t *testing.T) {
	f := newDonationFixture(t)
	donation := f.submit(t, f.coordinator)

	_, err := f.svc.Resubmit(context.Background(), f.coordinator, donation.ID, domain.UpdateInput{})
	assert.ErrorIs(t, err, approval.ErrInvalidTransition)
}

func TestGetHidesOthersPending(t *testing.T) {
	f := newDonationFixture(t)
	donation := f.submit(t, f.coordinator)

	other := &memberdomain.Member{
		ID:     f.genID.Generate(),
		ClubID: f.clubID,
		Role:   memberdomain.RoleCoordinator,
		Active: true,
	}

	// Owner and reviewers see it; another coordinator gets not-found.
	_, err := f.svc.Get(context.Background(), f.coordinator, donation.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(context.Background(), f.treasurer, donation.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(context.Background(), other, donation.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Approve(context.Background(), f.treasurer, donation.ID)
	require.NoError(t, err)
	_, err = f.svc.Get(context.Background(), other, donation.ID)
	assert.NoError(t, err)
}

func TestGetHidesOtherClubRecords(t *testing.T) {
	f := newDonationFixture(t)
	donation := f.submit(t, f.coordinator)
	_, err := f.svc.Approve(context.Background(), f.treasurer, donation.ID)
	require.NoError(t, err)

	// Even an admin of another club gets not-found, never forbidden:
	// record existence must not leak across club boundaries.
	foreignAdmin := &memberdomain.Member{
		ID:     f.genID.Generate(),
		ClubID: f.genID.Generate(),
		Role:   memberdomain.RoleAdmin,
		Active: true,
	}
	_, err = f.svc.Get(context.Background(), foreignAdmin, donation.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListVisibility(t *testing.T) {
	f := newDonationFixture(t)

	other := &memberdomain.Member{
		ID:     f.genID.Generate(),
		ClubID: f.clubID,
		Role:   memberdomain.RoleCoordinator,
		Active: true,
	}

	mine := f.submit(t, f.coordinator)
	theirs := f.submit(t, other)
	_, err := f.svc.Approve(context.Background(), f.treasurer, theirs.ID)
	require.NoError(t, err)

	// Coordinator sees approved records plus their own pending one.
	listed, _, err := f.svc.List(context.Background(), f.coordinator, domain.ListInput{})
	require.NoError(t, err)
	ids := make(map[snowflake.ID]bool, len(listed))
	for _, d := range listed {
		ids[d.ID] = true
	}
	assert.True(t, ids[mine.ID])
	assert.True(t, ids[theirs.ID])

	// The other coordinator must not see the pending record.
	listed, _, err = f.svc.List(context.Background(), other, domain.ListInput{})
	require.NoError(t, err)
	for _, d := range listed {
		assert.NotEqual(t, mine.ID, d.ID)
	}
}

func TestListPrivilegedDefaultsToApproved(t *testing.T) {
	f := newDonationFixture(t)

	pending := f.submit(t, f.coordinator)
	approved := f.submit(t, f.coordinator)
	_, err := f.svc.Approve(context.Background(), f.treasurer, approved.ID)
	require.NoError(t, err)

	listed, _, err := f.svc.List(context.Background(), f.treasurer, domain.ListInput{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, approved.ID, listed[0].ID)

	// An explicit status filter overrides the default.
	status := approval.StatusPending
	listed, _, err = f.svc.List(context.Background(), f.treasurer, domain.ListInput{Status: &status})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, pending.ID, listed[0].ID)
}

func TestListMine(t *testing.T) {
	f := newDonationFixture(t)

	mine := f.submit(t, f.coordinator)
	f.submit(t, f.treasurer)

	listed, _, err := f.svc.List(context.Background(), f.coordinator, domain.ListInput{Mine: true})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, mine.ID, listed[0].ID)
}

func TestListPendingRequiresReviewer(t *testing.T) {
	f := newDonationFixture(t)
	f.submit(t, f.coordinator)

	_, _, err := f.svc.ListPending(context.Background(), f.coordinator, pagination.Pagination{})
	assert.ErrorIs(t, err, gate.ErrForbidden)

	listed, _, err := f.svc.ListPending(context.Background(), f.treasurer, pagination.Pagination{})
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestListPagination(t *testing.T) {
	f := newDonationFixture(t)

	for i := 0; i < 5; i++ {
		donation := f.submit(t, f.treasurer)
		require.Equal(t, approval.StatusApproved, donation.Status)
		f.clock.Advance(time.Minute)
	}

	first, pageInfo, err := f.svc.List(context.Background(), f.treasurer, domain.ListInput{
		Page: pagination.Pagination{PageSize: 3},
	})
	require.NoError(t, err)
	require.Len(t, first, 3)
	require.NotNil(t, pageInfo)
	assert.True(t, pageInfo.HasMore)
	require.NotEmpty(t, pageInfo.NextPageToken)

	second, pageInfo, err := f.svc.List(context.Background(), f.treasurer, domain.ListInput{
		Page: pagination.Pagination{PageSize: 3, PageToken: pageInfo.NextPageToken},
	})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.False(t, pageInfo.HasMore)

	seen := make(map[snowflake.ID]bool)
	for _, d := range append(first, second...) {
		assert.False(t, seen[d.ID], "duplicate across pages")
		seen[d.ID] = true
	}
}

func TestListRejectsBadCursor(t *testing.T) {
	f := newDonationFixture(t)

	_, _, err := f.svc.List(context.Background(), f.treasurer, domain.ListInput{
		Page: pagination.Pagination{PageToken: "not-base64!"},
	})
	assert.ErrorIs(t, err, pagination.ErrInvalidCursor)
}

func TestUpdateAdminOnlyNeverTouchesStatus(t *testing.T) {
	f := newDonationFixture(t)
	donation := f.submit(t, f.coordinator)

	name := "Corrected Name"
	_, err := f.svc.Update(context.Background(), f.treasurer, donation.ID, domain.UpdateInput{DonorName: &name})
	assert.ErrorIs(t, err, gate.ErrForbidden)

	updated, err := f.svc.Update(context.Background(), f.admin, donation.ID, domain.UpdateInput{DonorName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.DonorName)
	assert.Equal(t, approval.StatusPending, updated.Status)
}

func TestInactiveActorBlocked(t *testing.T) {
	f := newDonationFixture(t)
	inactive := &memberdomain.Member{
		ID:     f.genID.Generate(),
		ClubID: f.clubID,
		Role:   memberdomain.RoleTreasurer,
		Active: false,
	}

	_, err := f.svc.Submit(context.Background(), inactive, domain.SubmitInput{
		DonorName: "Meena Iyer", Amount: 100, Mode: domain.ModeCash,
	})
	assert.ErrorIs(t, err, gate.ErrAccountInactive)
}
