package gate_test

import (
	"context"
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
	invitedomain "github.com/clubkosh/clubkosh/internal/invite/domain"
	inviterepo "github.com/clubkosh/clubkosh/internal/invite/repository"
	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
	memberrepo "github.com/clubkosh/clubkosh/internal/member/repository"
)

type gateFixture struct {
	gate    *gate.Gate
	db      *gorm.DB
	members memberdomain.Repository
	invites invitedomain.Repository
	clubID  snowflake.ID
	genID   *snowflake.Node
	clock   *clock.FakeClock
}

func newGateFixture(t *testing.T, cfg config.Config) *gateFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&clubdomain.Club{},
		&memberdomain.Member{},
		&invitedomain.Invitation{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fakeClock := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

	clubs := clubrepo.NewRepository(db)
	club := clubdomain.Club{
		ID:       node.Generate(),
		Name:     "Test Chapter",
		Slug:     "test-chapter",
		Metadata: datatypes.JSONMap{},
	}
	require.NoError(t, clubs.Create(context.Background(), club))

	members := memberrepo.NewRepository(db)
	invites := inviterepo.NewRepository(db)

	g := gate.New(
		db,
		members,
		invites,
		clubservice.NewService(clubs),
		node,
		fakeClock,
		cfg,
		zap.NewNop(),
	)

	return &gateFixture{
		gate:    g,
		db:      db,
		members: members,
		invites: invites,
		clubID:  club.ID,
		genID:   node,
		clock:   fakeClock,
	}
}

func (f *gateFixture) createMember(t *testing.T, email string, externalID *string, role memberdomain.Role, active bool) memberdomain.Member {
	t.Helper()
	now := f.clock.Now()
	member := memberdomain.Member{
		ID:         f.genID.Generate(),
		ClubID:     f.clubID,
		ExternalID: externalID,
		Email:      email,
		Role:       role,
		Active:     active,
		JoinedAt:   now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, f.members.Create(context.Background(), member))
	return member
}

func strptr(s string) *string { return &s }

func TestResolveByExternalID(t *testing.T) {
	f := newGateFixture(t, config.Config{})
	f.createMember(t, "asha@example.org", strptr("sub-1"), memberdomain.RoleTreasurer, true)

	member, err := f.gate.Resolve(context.Background(), gate.Principal{ExternalID: "sub-1", Email: "asha@example.org"})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.org", member.Email)
	assert.Equal(t, memberdomain.RoleTreasurer, member.Role)
}

func TestResolveInactiveAccount(t *testing.T) {
	f := newGateFixture(t, config.Config{})
	f.createMember(t, "asha@example.org", strptr("sub-1"), memberdomain.RoleCoordinator, false)

	_, err := f.gate.Resolve(context.Background(), gate.Principal{ExternalID: "sub-1", Email: "asha@example.org"})
	assert.ErrorIs(t, err, gate.ErrAccountInactive)
}

func TestResolveBindsUnboundProfileByEmail(t *testing.T) {
	f := newGateFixture(t, config.Config{})
	seeded := f.createMember(t, "ravi@example.org", nil, memberdomain.RoleCoordinator, true)

	member, err := f.gate.Resolve(context.Background(), gate.Principal{ExternalID: "sub-9", Email: "Ravi@Example.org"})
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, member.ID)
	require.NotNil(t, member.ExternalID)
	assert.Equal(t, "sub-9", *member.ExternalID)

	// The binding is durable: a second sign-in hits the external id path.
	again, err := f.gate.Resolve(context.Background(), gate.Principal{ExternalID: "sub-9", Email: "ravi@example.org"})
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, again.ID)
}

func TestResolveNeverRebindsToDifferentIdentity(t *testing.T) {
	f := newGateFixture(t, config.Config{})
	f.createMember(t, "ravi@example.org", strptr("sub-1"), memberdomain.RoleCoordinator, true)
	// Keep the gate off the bootstrap path.
	f.createMember(t, "other@example.org", strptr("sub-2"), memberdomain.RoleAdmin, true)

	_, err := f.gate.Resolve(context.Background(), gate.Principal{ExternalID: "sub-99", Email: "ravi@example.org"})
	assert.ErrorIs(t, err, gate.ErrProfileNotFound)
}

func TestResolveAcceptsPendingInvitation(t *testing.T) {
	f := newGateFixture(t, config.Config{})
	admin := f.createMember(t, "admin@example.org", strptr("sub-admin"), memberdomain.RoleAdmin, true)

	now := f.clock.Now()
	invite := invitedomain.Invitation{
		ID:        f.genID.Generate(),
		ClubID:    f.clubID,
		Email:     "neha@example.org",
		Role:      memberdomain.RoleCoordinator,
		Token:     "tok-1",
		InvitedBy: admin.ID,
		ExpiresAt: now.Add(48 * time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.invites.Create(context.Background(), invite))

	member, err := f.gate.Resolve(context.Background(), gate.Principal{ExternalID: "sub-neha", Email: "neha@example.org"})
	require.NoError(t, err)
	assert.Equal(t, memberdomain.RoleCoordinator, member.Role)
	assert.True(t, member.Active)

	// Acceptance is recorded; the invite no longer shows as pending.
	_, err = f.invites.GetPendingByEmail(context.Background(), f.clubID, "neha@example.org")
	assert.ErrorIs(t, err, invitedomain.ErrNotFound)
}

func TestResolveIgnoresExpiredInvitation(t *testing.T) {
	f := newGateFixture(t, config.Config{})
	admin := f.createMember(t, "admin@example.org", strptr("sub-admin"), memberdomain.RoleAdmin, true)

	now := f.clock.Now()
	invite := invitedomain.Invitation{
		ID:        f.genID.Generate(),
		ClubID:    f.clubID,
		Email:     "late@example.org",
		Role:      memberdomain.RoleCoordinator,
		Token:     "tok-2",
		InvitedBy: admin.ID,
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.invites.Create(context.Background(), invite))
	f.clock.Advance(2 * time.Hour)

	_, err := f.gate.Resolve(context.Background(), gate.Principal{ExternalID: "sub-late", Email: "late@example.org"})
	assert.ErrorIs(t, err, gate.ErrProfileNotFound)
}

func TestResolveBootstrapsFirstAdmin(t *testing.T) {
	f := newGateFixture(t, config.Config{})

	member, err := f.gate.Resolve(context.Background(), gate.Principal{ExternalID: "sub-first", Email: "founder@example.org"})
	require.NoError(t, err)
	assert.Equal(t, memberdomain.RoleAdmin, member.Role)
	assert.True(t, member.Active)

	count, err := f.members.Count(context.Background(), f.clubID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestResolveBootstrapHonorsConfiguredEmail(t *testing.T) {
	f := newGateFixture(t, config.Config{BootstrapAdminEmail: "founder@example.org"})

	_, err := f.gate.Resolve(context.Background(), gate.Principal{ExternalID: "sub-x", Email: "stranger@example.org"})
	assert.ErrorIs(t, err, gate.ErrProfileNotFound)

	member, err := f.gate.Resolve(context.Background(), gate.Principal{ExternalID: "sub-y", Email: "founder@example.org"})
	require.NoError(t, err)
	assert.Equal(t, memberdomain.RoleAdmin, member.Role)
}

func TestResolveNoBootstrapWhenMembersExist(t *testing.T) {
	f := newGateFixture(t, config.Config{})
	f.createMember(t, "admin@example.org", strptr("sub-admin"), memberdomain.RoleAdmin, true)

	_, err := f.gate.Resolve(context.Background(), gate.Principal{ExternalID: "sub-new", Email: "new@example.org"})
	assert.ErrorIs(t, err, gate.ErrProfileNotFound)
}

func TestResolveRejectsEmptyPrincipal(t *testing.T) {
	f := newGateFixture(t, config.Config{})

	_, err := f.gate.Resolve(context.Background(), gate.Principal{ExternalID: "", Email: "a@b.c"})
	assert.ErrorIs(t, err, gate.ErrProfileNotFound)

	_, err = f.gate.Resolve(context.Background(), gate.Principal{ExternalID: "sub-1", Email: ""})
	assert.ErrorIs(t, err, gate.ErrProfileNotFound)
}

func TestRequireRole(t *testing.T) {
	admin := &memberdomain.Member{Role: memberdomain.RoleAdmin, Active: true}
	treasurer := &memberdomain.Member{Role: memberdomain.RoleTreasurer, Active: true}
	coordinator := &memberdomain.Member{Role: memberdomain.RoleCoordinator, Active: true}
	inactive := &memberdomain.Member{Role: memberdomain.RoleAdmin, Active: false}

	assert.NoError(t, gate.RequireRole(admin, memberdomain.RoleTreasurer))
	assert.NoError(t, gate.RequireRole(treasurer, memberdomain.RoleTreasurer))
	assert.ErrorIs(t, gate.RequireRole(coordinator, memberdomain.RoleTreasurer), gate.ErrForbidden)
	assert.ErrorIs(t, gate.RequireRole(inactive, memberdomain.RoleAdmin), gate.ErrAccountInactive)
	assert.ErrorIs(t, gate.RequireRole(nil, memberdomain.RoleAdmin), gate.ErrProfileNotFound)
}

func TestPrivileged(t *testing.T) {
	assert.True(t, gate.Privileged(&memberdomain.Member{Role: memberdomain.RoleAdmin, Active: true}))
	assert.True(t, gate.Privileged(&memberdomain.Member{Role: memberdomain.RoleTreasurer, Active: true}))
	assert.False(t, gate.Privileged(&memberdomain.Member{Role: memberdomain.RoleCoordinator, Active: true}))
	assert.False(t, gate.Privileged(&memberdomain.Member{Role: memberdomain.RoleTreasurer, Active: false}))
	assert.False(t, gate.Privileged(nil))
}
