package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/clubkosh/clubkosh/internal/approval"
	clubdomain "github.com/clubkosh/clubkosh/internal/club/domain"
	clubrepo "github.com/clubkosh/clubkosh/internal/club/repository"
	clubservice "github.com/clubkosh/clubkosh/internal/club/service"
	"github.com/clubkosh/clubkosh/internal/clock"
	"github.com/clubkosh/clubkosh/internal/config"
	donationdomain "github.com/clubkosh/clubkosh/internal/donation/domain"
	donationrepo "github.com/clubkosh/clubkosh/internal/donation/repository"
	expensedomain "github.com/clubkosh/clubkosh/internal/expense/domain"
	expenserepo "github.com/clubkosh/clubkosh/internal/expense/repository"
	"github.com/clubkosh/clubkosh/internal/gate"
	invitedomain "github.com/clubkosh/clubkosh/internal/invite/domain"
	inviterepo "github.com/clubkosh/clubkosh/internal/invite/repository"
	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
	memberrepo "github.com/clubkosh/clubkosh/internal/member/repository"
	obscontext "github.com/clubkosh/clubkosh/internal/observability/context"
	summaryservice "github.com/clubkosh/clubkosh/internal/summary/service"
)

type serverFixture struct {
	server    *Server
	members   memberdomain.Repository
	donations donationdomain.Repository
	expenses  expensedomain.Repository
	genID     *snowflake.Node
	clubID    snowflake.ID
	clock     *clock.FakeClock
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&clubdomain.Club{},
		&memberdomain.Member{},
		&invitedomain.Invitation{},
		&donationdomain.Donation{},
		&expensedomain.Expense{},
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
	donations := donationrepo.NewRepository(db)
	expenses := expenserepo.NewRepository(db)
	cfg := config.Config{IdentityJWTSecret: testJWTSecret}

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	srv := &Server{
		engine:     engine,
		cfg:        cfg,
		genID:      node,
		gate:       gate.New(db, members, invites, clubservice.NewService(clubs), node, fakeClock, cfg, zap.NewNop()),
		summarySvc: summaryservice.NewService(donations, expenses, zap.NewNop()),
	}
	srv.registerAPIRoutes()

	return &serverFixture{
		server:    srv,
		members:   members,
		donations: donations,
		expenses:  expenses,
		genID:     node,
		clubID:    club.ID,
		clock:     fakeClock,
	}
}

func (f *serverFixture) createMember(t *testing.T, externalID, email string, role memberdomain.Role, active bool) memberdomain.Member {
	t.Helper()
	now := f.clock.Now()
	member := memberdomain.Member{
		ID:         f.genID.Generate(),
		ClubID:     f.clubID,
		ExternalID: &externalID,
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

func (f *serverFixture) get(t *testing.T, path, sub, email string) *httptest.ResponseRecorder {
	t.Helper()
	token := signToken(t, testJWTSecret, jwt.MapClaims{
		"sub":   sub,
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	f.server.engine.ServeHTTP(rec, req)
	return rec
}

func TestPendingCountRouteCountsForReviewer(t *testing.T) {
	f := newServerFixture(t)
	f.createMember(t, "sub-1", "asha@example.org", memberdomain.RoleTreasurer, true)

	require.NoError(t, f.donations.Create(context.Background(), donationdomain.Donation{
		ID:          f.genID.Generate(),
		ClubID:      f.clubID,
		CollectedBy: f.genID.Generate(),
		DonorName:   "Donor",
		Amount:      10000,
		Mode:        donationdomain.ModeCash,
		Status:      approval.StatusPending,
	}))
	require.NoError(t, f.expenses.Create(context.Background(), expensedomain.Expense{
		ID:          f.genID.Generate(),
		ClubID:      f.clubID,
		SubmittedBy: f.genID.Generate(),
		PaidTo:      "Vendor",
		Category:    expensedomain.CategoryOther,
		Amount:      5000,
		Status:      approval.StatusPending,
	}))

	rec := f.get(t, "/api/v1/summary/pending-count", "sub-1", "asha@example.org")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"donations":1,"expenses":1,"total":2}`, rec.Body.String())
}

func TestPendingCountRouteFailsOpenForUnknownPrincipal(t *testing.T) {
	f := newServerFixture(t)
	// An existing admin keeps the cold-start bootstrap path closed.
	f.createMember(t, "sub-1", "asha@example.org", memberdomain.RoleAdmin, true)

	rec := f.get(t, "/api/v1/summary/pending-count", "sub-unknown", "stranger@example.org")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"donations":0,"expenses":0,"total":0}`, rec.Body.String())
}

func TestPendingCountRouteFailsOpenForInactiveReviewer(t *testing.T) {
	f := newServerFixture(t)
	f.createMember(t, "sub-1", "asha@example.org", memberdomain.RoleAdmin, true)
	f.createMember(t, "sub-2", "ravi@example.org", memberdomain.RoleTreasurer, false)

	rec := f.get(t, "/api/v1/summary/pending-count", "sub-2", "ravi@example.org")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"donations":0,"expenses":0,"total":0}`, rec.Body.String())
}

func TestMemberRequiredRejectsInactiveAccount(t *testing.T) {
	f := newServerFixture(t)
	f.createMember(t, "sub-1", "asha@example.org", memberdomain.RoleAdmin, true)
	f.createMember(t, "sub-2", "ravi@example.org", memberdomain.RoleTreasurer, false)

	rec := f.get(t, "/api/v1/me", "sub-2", "ravi@example.org")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "account_inactive")
}

func TestMemberRequiredStampsActorContext(t *testing.T) {
	f := newServerFixture(t)
	member := f.createMember(t, "sub-1", "asha@example.org", memberdomain.RoleTreasurer, true)

	var actorType, actorID string
	f.server.engine.GET("/actor-check",
		f.server.IdentityRequired(), f.server.MemberRequired(),
		func(c *gin.Context) {
			actorType, actorID = obscontext.ActorFromContext(c.Request.Context())
			c.Status(http.StatusNoContent)
		})

	rec := f.get(t, "/actor-check", "sub-1", "asha@example.org")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "member", actorType)
	assert.Equal(t, member.ID.String(), actorID)
}
