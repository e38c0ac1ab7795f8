package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/clubkosh/clubkosh/internal/approval"
	"github.com/clubkosh/clubkosh/internal/clock"
	"github.com/clubkosh/clubkosh/internal/donation/domain"
	"github.com/clubkosh/clubkosh/internal/gate"
	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
	"github.com/clubkosh/clubkosh/internal/observability/metrics"
	"github.com/clubkosh/clubkosh/pkg/db/pagination"
	"go.uber.org/zap"
)

var allRoles = []memberdomain.Role{
	memberdomain.RoleAdmin,
	memberdomain.RoleTreasurer,
	memberdomain.RoleCoordinator,
}

type service struct {
	repo    domain.Repository
	genID   *snowflake.Node
	clock   clock.Clock
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewService(repo domain.Repository, genID *snowflake.Node, clk clock.Clock, m *metrics.Metrics, log *zap.Logger) domain.Service {
	return &service{
		repo:    repo,
		genID:   genID,
		clock:   clk,
		metrics: m,
		log:     log,
	}
}

func (s *service) Submit(ctx context.Context, actor *memberdomain.Member, input domain.SubmitInput) (*domain.Donation, error) {
	if err := gate.RequireRole(actor, allRoles...); err != nil {
		return nil, err
	}
	if input.Amount <= 0 {
		return nil, approval.ErrInvalidAmount
	}
	if !input.Mode.Valid() {
		return nil, domain.ErrInvalidMode
	}
	donorName := strings.TrimSpace(input.DonorName)
	if donorName == "" {
		return nil, domain.ErrInvalidDonor
	}

	now := s.clock.Now()
	donation := domain.Donation{
		ID:           s.genID.Generate(),
		ClubID:       actor.ClubID,
		EventID:      input.EventID,
		CollectedBy:  actor.ID,
		DonorName:    donorName,
		DonorContact: strings.TrimSpace(input.DonorContact),
		Amount:       input.Amount,
		Mode:         input.Mode,
		Note:         strings.TrimSpace(input.Note),
		ReceiptURL:   strings.TrimSpace(input.ReceiptURL),
		Status:       approval.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Entries from reviewers skip their own queue.
	if gate.Privileged(actor) {
		donation.Status = approval.StatusApproved
		donation.ReviewedBy = &actor.ID
		donation.ReviewedAt = &now
	}

	if err := s.repo.Create(ctx, donation); err != nil {
		return nil, err
	}

	s.metrics.RecordSubmitted(ctx, "donation", string(donation.Status))
	s.log.Info("donation submitted",
		zap.Int64("donation_id", donation.ID.Int64()),
		zap.Int64("collected_by", actor.ID.Int64()),
		zap.String("status", string(donation.Status)),
	)
	return &donation, nil
}

func (s *service) Get(ctx context.Context, actor *memberdomain.Member, id snowflake.ID) (*domain.Donation, error) {
	if err := gate.RequireRole(actor, allRoles...); err != nil {
		return nil, err
	}

	donation, err := s.repo.GetByID(ctx, actor.ClubID, id)
	if err != nil {
		return nil, err
	}
	if !s.visible(actor, donation) {
		// Hidden records look identical to missing ones.
		return nil, domain.ErrNotFound
	}
	return donation, nil
}

func (s *service) List(ctx context.Context, actor *memberdomain.Member, input domain.ListInput) ([]*domain.Donation, *pagination.PageInfo, error) {
	if err := gate.RequireRole(actor, allRoles...); err != nil {
		return nil, nil, err
	}

	cursor, err := decodeCursor(input.Page.PageToken)
	if err != nil {
		return nil, nil, err
	}

	q := domain.ListQuery{
		ClubID:  actor.ClubID,
		Status:  input.Status,
		EventID: input.EventID,
		Limit:   input.Page.Limit(),
		Cursor:  cursor,
	}

	switch {
	case input.Mine:
		q.OwnerID = &actor.ID
	case gate.Privileged(actor):
		if q.Status == nil {
			approved := approval.StatusApproved
			q.Status = &approved
		}
	default:
		q.VisibleTo = &actor.ID
	}

	donations, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, nil, err
	}

	pageInfo, donations := pagination.BuildCursorPageInfo(donations, q.Limit, donationCursor)
	return donations, pageInfo, nil
}

func (s *service) ListPending(ctx context.Context, actor *memberdomain.Member, page pagination.Pagination) ([]*domain.Donation, *pagination.PageInfo, error) {
	if err := gate.RequireRole(actor, memberdomain.RoleTreasurer); err != nil {
		return nil, nil, err
	}

	cursor, err := decodeCursor(page.PageToken)
	if err != nil {
		return nil, nil, err
	}

	pending := approval.StatusPending
	q := domain.ListQuery{
		ClubID: actor.ClubID,
		Status: &pending,
		Limit:  page.Limit(),
		Cursor: cursor,
	}

	donations, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, nil, err
	}

	pageInfo, donations := pagination.BuildCursorPageInfo(donations, q.Limit, donationCursor)
	return donations, pageInfo, nil
}

func (s *service) Approve(ctx context.Context, actor *memberdomain.Member, id snowflake.ID) (*domain.Donation, error) {
	if err := gate.RequireRole(actor, memberdomain.RoleTreasurer); err != nil {
		return nil, err
	}

	donation, err := s.repo.GetByID(ctx, actor.ClubID, id)
	if err != nil {
		return nil, err
	}

	if donation.Status == approval.StatusApproved {
		s.log.Warn("approve on already approved donation",
			zap.Int64("donation_id", donation.ID.Int64()),
			zap.Int64("reviewer", actor.ID.Int64()),
		)
		return donation, nil
	}
	if !approval.CanTransition(donation.Status, approval.StatusApproved) {
		return nil, approval.ErrInvalidTransition
	}

	now := s.clock.Now()
	donation.Status = approval.StatusApproved
	donation.ReviewedBy = &actor.ID
	donation.ReviewedAt = &now
	donation.RejectReason = nil
	donation.UpdatedAt = now

	if err := s.repo.Update(ctx, *donation); err != nil {
		return nil, err
	}

	s.metrics.RecordReviewed(ctx, "donation", "approved")
	s.log.Info("donation approved",
		zap.Int64("donation_id", donation.ID.Int64()),
		zap.Int64("reviewer", actor.ID.Int64()),
	)
	return donation, nil
}

func (s *service) Reject(ctx context.Context, actor *memberdomain.Member, id snowflake.ID, reason string) (*domain.Donation, error) {
	if err := gate.RequireRole(actor, memberdomain.RoleTreasurer); err != nil {
		return nil, err
	}

	donation, err := s.repo.GetByID(ctx, actor.ClubID, id)
	if err != nil {
		return nil, err
	}
	if !approval.CanTransition(donation.Status, approval.StatusRejected) {
		return nil, approval.ErrInvalidTransition
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = approval.DefaultRejectReason
	}

	now := s.clock.Now()
	donation.Status = approval.StatusRejected
	donation.ReviewedBy = &actor.ID
	donation.ReviewedAt = &now
	donation.RejectReason = &reason
	donation.UpdatedAt = now

	if err := s.repo.Update(ctx, *donation); err != nil {
		return nil, err
	}

	s.metrics.RecordReviewed(ctx, "donation", "rejected")
	s.log.Info("donation rejected",
		zap.Int64("donation_id", donation.ID.Int64()),
		zap.Int64("reviewer", actor.ID.Int64()),
	)
	return donation, nil
}

func (s *service) Resubmit(ctx context.Context, actor *memberdomain.Member, id snowflake.ID, input domain.UpdateInput) (*domain.Donation, error) {
	if err := gate.RequireRole(actor, allRoles...); err != nil {
		return nil, err
	}

	donation, err := s.repo.GetByID(ctx, actor.ClubID, id)
	if err != nil {
		return nil, err
	}
	if donation.CollectedBy != actor.ID {
		return nil, approval.ErrNotOwner
	}
	if !approval.CanTransition(donation.Status, approval.StatusPending) {
		return nil, approval.ErrInvalidTransition
	}

	if err := applyUpdate(donation, input); err != nil {
		return nil, err
	}

	donation.Status = approval.StatusPending
	donation.ReviewedBy = nil
	donation.ReviewedAt = nil
	donation.RejectReason = nil
	donation.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, *donation); err != nil {
		return nil, err
	}

	s.metrics.RecordResubmitted(ctx, "donation")
	s.log.Info("donation resubmitted",
		zap.Int64("donation_id", donation.ID.Int64()),
		zap.Int64("collected_by", actor.ID.Int64()),
	)
	return donation, nil
}

func (s *service) Update(ctx context.Context, actor *memberdomain.Member, id snowflake.ID, input domain.UpdateInput) (*domain.Donation, error) {
	if err := gate.RequireRole(actor, memberdomain.RoleAdmin); err != nil {
		return nil, err
	}

	donation, err := s.repo.GetByID(ctx, actor.ClubID, id)
	if err != nil {
		return nil, err
	}
	if err := applyUpdate(donation, input); err != nil {
		return nil, err
	}
	donation.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, *donation); err != nil {
		return nil, err
	}
	return donation, nil
}

func (s *service) visible(actor *memberdomain.Member, donation *domain.Donation) bool {
	if gate.Privileged(actor) {
		return true
	}
	return donation.Status == approval.StatusApproved || donation.CollectedBy == actor.ID
}

func applyUpdate(donation *domain.Donation, input domain.UpdateInput) error {
	if input.Amount != nil {
		if *input.Amount <= 0 {
			return approval.ErrInvalidAmount
		}
		donation.Amount = *input.Amount
	}
	if input.Mode != nil {
		if !input.Mode.Valid() {
			return domain.ErrInvalidMode
		}
		donation.Mode = *input.Mode
	}
	if input.DonorName != nil {
		name := strings.TrimSpace(*input.DonorName)
		if name == "" {
			return domain.ErrInvalidDonor
		}
		donation.DonorName = name
	}
	if input.DonorContact != nil {
		donation.DonorContact = strings.TrimSpace(*input.DonorContact)
	}
	if input.Note != nil {
		donation.Note = strings.TrimSpace(*input.Note)
	}
	if input.ReceiptURL != nil {
		donation.ReceiptURL = strings.TrimSpace(*input.ReceiptURL)
	}
	if input.EventID != nil {
		donation.EventID = input.EventID
	}
	return nil
}

func decodeCursor(token string) (*pagination.Cursor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	return pagination.DecodeCursor(token)
}

func donationCursor(d *domain.Donation) string {
	token, err := pagination.EncodeCursor(pagination.Cursor{
		ID:        strconv.FormatInt(d.ID.Int64(), 10),
		CreatedAt: d.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return ""
	}
	return token
}
