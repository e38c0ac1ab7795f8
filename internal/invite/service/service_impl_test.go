package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	clubdomain "github.com/clubkosh/clubkosh/internal/club/domain"
	clubrepo "github.com/clubkosh/clubkosh/internal/club/repository"
	clubservice "github.com/clubkosh/clubkosh/internal/club/service"
	"github.com/clubkosh/clubkosh/internal/clock"
	"github.com/clubkosh/clubkosh/internal/config"
	"github.com/clubkosh/clubkosh/internal/gate"
	"github.com/clubkosh/clubkosh/internal/invite/domain"
	inviterepo "github.com/clubkosh/clubkosh/internal/invite/repository"
	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
	memberrepo "github.com/clubkosh/clubkosh/internal/member/repository"
	"github.com/clubkosh/clubkosh/internal/observability/metrics"
)

type fakeMailer struct {
	failNext bool
	sent     []string
}

func (f *fakeMailer) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	return nil
}

func (f *fakeMailer) SendTemplate(ctx context.Context, to []string, templateName string, data map[string]interface{}) error {
	if f.failNext {
		return errors.New("smtp unreachable")
	}
	f.sent = append(f.sent, to...)
	return nil
}

type inviteFixture struct {
	svc     domain.Service
	repo    domain.Repository
	mailer  *fakeMailer
	clock   *clock.FakeClock
	clubID  snowflake.ID
	genID   *snowflake.Node
	members memberdomain.Repository
}

func newInviteFixture(t *testing.T) *inviteFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&clubdomain.Club{},
		&memberdomain.Member{},
		&domain.Invitation{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fakeClock := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

	clubs := clubrepo.NewRepository(db)
	require.NoError(t, clubs.Create(context.Background(), clubdomain.Club{
		ID:       node.Generate(),
		Name:     "Test Chapter",
		Slug:     "test-chapter",
		Metadata: datatypes.JSONMap{},
	}))

	repo := inviterepo.NewRepository(db)
	members := memberrepo.NewRepository(db)
	mailer := &fakeMailer{}

	var noMetrics *metrics.Metrics
	svc := NewService(
		repo,
		members,
		clubservice.NewService(clubs),
		mailer,
		node,
		fakeClock,
		config.Config{InviteTTL: 7 * 24 * time.Hour, PublicBaseURL: "http://localhost:8080"},
		noMetrics,
		zap.NewNop(),
	)

	return &inviteFixture{
		svc:     svc,
		repo:    repo,
		mailer:  mailer,
		clock:   fakeClock,
		genID:   node,
		members: members,
	}
}

func (f *inviteFixture) treasurer(t *testing.T) *memberdomain.Member {
	t.Helper()
	now := f.clock.Now()
	member := memberdomain.Member{
		ID:        f.genID.Generate(),
		Email:     "treasurer@example.org",
		Role:      memberdomain.RoleTreasurer,
		Active:    true,
		JoinedAt:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.members.Create(context.Background(), member))
	return &member
}

func TestCreateInviteSendsEmail(t *testing.T) {
	f := newInviteFixture(t)
	actor := f.treasurer(t)

	invite, err := f.svc.Create(context.Background(), actor, domain.CreateInviteInput{
		Email: "Neha@Example.org",
		Role:  memberdomain.RoleCoordinator,
	})
	require.NoError(t, err)
	assert.Equal(t, "neha@example.org", invite.Email)
	assert.Equal(t, memberdomain.RoleCoordinator, invite.Role)
	assert.NotEmpty(t, invite.Token)
	assert.Equal(t, f.clock.Now().Add(7*24*time.Hour), invite.ExpiresAt)
	assert.Equal(t, []string{"neha@example.org"}, f.mailer.sent)
}

func TestCreateInviteRollsBackOnSendFailure(t *testing.T) {
	f := newInviteFixture(t)
	actor := f.treasurer(t)
	f.mailer.failNext = true

	_, err := f.svc.Create(context.Background(), actor, domain.CreateInviteInput{
		Email: "neha@example.org",
		Role:  memberdomain.RoleCoordinator,
	})
	assert.ErrorIs(t, err, domain.ErrSendFailed)

	// The invite row must not survive the failed send.
	_, err = f.repo.GetPendingByEmail(context.Background(), actor.ClubID, "neha@example.org")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateInviteRejectsExistingMember(t *testing.T) {
	f := newInviteFixture(t)
	actor := f.treasurer(t)

	_, err := f.svc.Create(context.Background(), actor, domain.CreateInviteInput{
		Email: "treasurer@example.org",
		Role:  memberdomain.RoleCoordinator,
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyMember)
}

func TestCreateInviteRejectsDuplicatePending(t *testing.T) {
	f := newInviteFixture(t)
	actor := f.treasurer(t)

	_, err := f.svc.Create(context.Background(), actor, domain.CreateInviteInput{
		Email: "neha@example.org",
		Role:  memberdomain.RoleCoordinator,
	})
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), actor, domain.CreateInviteInput{
		Email: "neha@example.org",
		Role:  memberdomain.RoleTreasurer,
	})
	assert.ErrorIs(t, err, domain.ErrInvitePending)
}

func TestCreateInviteAllowsReinviteAfterExpiry(t *testing.T) {
	f := newInviteFixture(t)
	actor := f.treasurer(t)

	_, err := f.svc.Create(context.Background(), actor, domain.CreateInviteInput{
		Email: "neha@example.org",
		Role:  memberdomain.RoleCoordinator,
	})
	require.NoError(t, err)

	f.clock.Advance(8 * 24 * time.Hour)

	_, err = f.svc.Create(context.Background(), actor, domain.CreateInviteInput{
		Email: "neha@example.org",
		Role:  memberdomain.RoleCoordinator,
	})
	assert.NoError(t, err)
}

func TestCreateInviteValidation(t *testing.T) {
	f := newInviteFixture(t)
	actor := f.treasurer(t)

	_, err := f.svc.Create(context.Background(), actor, domain.CreateInviteInput{Email: "not-an-email", Role: memberdomain.RoleCoordinator})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = f.svc.Create(context.Background(), actor, domain.CreateInviteInput{Email: "a@b.org", Role: memberdomain.Role("owner")})
	assert.ErrorIs(t, err, memberdomain.ErrInvalidRole)
}

func TestCreateInviteRequiresTreasurer(t *testing.T) {
	f := newInviteFixture(t)
	coordinator := &memberdomain.Member{
		ID:     f.genID.Generate(),
		Role:   memberdomain.RoleCoordinator,
		Active: true,
	}

	_, err := f.svc.Create(context.Background(), coordinator, domain.CreateInviteInput{
		Email: "neha@example.org",
		Role:  memberdomain.RoleCoordinator,
	})
	assert.ErrorIs(t, err, gate.ErrForbidden)
}

func TestResolveTokenHidesExpiredAndAccepted(t *testing.T) {
	f := newInviteFixture(t)
	actor := f.treasurer(t)

	invite, err := f.svc.Create(context.Background(), actor, domain.CreateInviteInput{
		Email: "neha@example.org",
		Role:  memberdomain.RoleCoordinator,
	})
	require.NoError(t, err)

	info, err := f.svc.ResolveToken(context.Background(), invite.Token)
	require.NoError(t, err)
	assert.Equal(t, "Test Chapter", info.ClubName)
	assert.Equal(t, "neha@example.org", info.Email)

	f.clock.Advance(8 * 24 * time.Hour)
	_, err = f.svc.ResolveToken(context.Background(), invite.Token)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.ResolveToken(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRevokeInvite(t *testing.T) {
	f := newInviteFixture(t)
	actor := f.treasurer(t)

	invite, err := f.svc.Create(context.Background(), actor, domain.CreateInviteInput{
		Email: "neha@example.org",
		Role:  memberdomain.RoleCoordinator,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Revoke(context.Background(), actor, invite.ID))
	_, err = f.repo.GetByToken(context.Background(), invite.Token)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, f.svc.Revoke(context.Background(), actor, invite.ID), domain.ErrNotFound)
}

func TestRevokeAcceptedInviteFails(t *testing.T) {
	f := newInviteFixture(t)
	actor := f.treasurer(t)

	invite, err := f.svc.Create(context.Background(), actor, domain.CreateInviteInput{
		Email: "neha@example.org",
		Role:  memberdomain.RoleCoordinator,
	})
	require.NoError(t, err)

	require.NoError(t, f.repo.MarkAccepted(context.Background(), invite.ID, f.clock.Now()))
	assert.ErrorIs(t, f.svc.Revoke(context.Background(), actor, invite.ID), domain.ErrNotFound)
}
