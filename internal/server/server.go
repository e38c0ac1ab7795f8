package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clubkosh/clubkosh/internal/club"
	clubdomain "github.com/clubkosh/clubkosh/internal/club/domain"
	"github.com/clubkosh/clubkosh/internal/config"
	"github.com/clubkosh/clubkosh/internal/donation"
	donationdomain "github.com/clubkosh/clubkosh/internal/donation/domain"
	"github.com/clubkosh/clubkosh/internal/event"
	eventdomain "github.com/clubkosh/clubkosh/internal/event/domain"
	"github.com/clubkosh/clubkosh/internal/expense"
	expensedomain "github.com/clubkosh/clubkosh/internal/expense/domain"
	"github.com/clubkosh/clubkosh/internal/gate"
	"github.com/clubkosh/clubkosh/internal/invite"
	invitedomain "github.com/clubkosh/clubkosh/internal/invite/domain"
	"github.com/clubkosh/clubkosh/internal/member"
	memberdomain "github.com/clubkosh/clubkosh/internal/member/domain"
	"github.com/clubkosh/clubkosh/internal/observability"
	obslogger "github.com/clubkosh/clubkosh/internal/observability/logger"
	obsmetrics "github.com/clubkosh/clubkosh/internal/observability/metrics"
	obstracing "github.com/clubkosh/clubkosh/internal/observability/tracing"
	"github.com/clubkosh/clubkosh/internal/post"
	postdomain "github.com/clubkosh/clubkosh/internal/post/domain"
	"github.com/clubkosh/clubkosh/internal/providers/email"
	"github.com/clubkosh/clubkosh/internal/providers/payment"
	"github.com/clubkosh/clubkosh/internal/providers/pdf"
	"github.com/clubkosh/clubkosh/internal/providers/storage"
	"github.com/clubkosh/clubkosh/internal/summary"
	summarydomain "github.com/clubkosh/clubkosh/internal/summary/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	club.Module,
	member.Module,
	gate.Module,
	invite.Module,
	donation.Module,
	expense.Module,
	event.Module,
	post.Module,
	summary.Module,
	email.Module,
	pdf.Module,
	storage.Module,
	payment.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	genID       *snowflake.Node
	gate        *gate.Gate
	clubSvc     clubdomain.Service
	memberSvc   memberdomain.Service
	inviteSvc   invitedomain.Service
	donationSvc donationdomain.Service
	expenseSvc  expensedomain.Service
	eventSvc    eventdomain.Service
	postSvc     postdomain.Service
	summarySvc  summarydomain.Service
	members     memberdomain.Repository
	receipts    pdf.Provider
	uploads     storage.Provider
	payments    payment.Provider
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	GenID       *snowflake.Node
	Gate        *gate.Gate
	ClubSvc     clubdomain.Service
	MemberSvc   memberdomain.Service
	InviteSvc   invitedomain.Service
	DonationSvc donationdomain.Service
	ExpenseSvc  expensedomain.Service
	EventSvc    eventdomain.Service
	PostSvc     postdomain.Service
	SummarySvc  summarydomain.Service
	Members     memberdomain.Repository
	Receipts    pdf.Provider
	Uploads     storage.Provider
	Payments    payment.Provider
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		genID:       p.GenID,
		gate:        p.Gate,
		clubSvc:     p.ClubSvc,
		memberSvc:   p.MemberSvc,
		inviteSvc:   p.InviteSvc,
		donationSvc: p.DonationSvc,
		expenseSvc:  p.ExpenseSvc,
		eventSvc:    p.EventSvc,
		postSvc:     p.PostSvc,
		summarySvc:  p.SummarySvc,
		members:     p.Members,
		receipts:    p.Receipts,
		uploads:     p.Uploads,
		payments:    p.Payments,
	}

	svc.registerPublicRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerPublicRoutes() {
	s.engine.GET("/api/v1/invites/token/:token", s.ResolveInviteToken)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")
	api.Use(s.IdentityRequired(), s.MemberRequired())

	api.GET("/me", s.GetMe)
	api.PATCH("/me", s.UpdateMe)

	api.GET("/payment-link", s.GetPaymentLink)

	api.GET("/members", s.ListMembers)
	api.GET("/members/:id", s.GetMember)
	api.PATCH("/members/:id", s.RequireRole(memberdomain.RoleAdmin), s.UpdateMember)
	api.PUT("/members/:id/role", s.RequireRole(memberdomain.RoleAdmin), s.SetMemberRole)
	api.PUT("/members/:id/active", s.RequireRole(memberdomain.RoleAdmin), s.SetMemberActive)

	api.POST("/invites", s.RequireRole(memberdomain.RoleTreasurer), s.CreateInvite)
	api.GET("/invites", s.RequireRole(memberdomain.RoleTreasurer), s.ListInvites)
	api.DELETE("/invites/:id", s.RequireRole(memberdomain.RoleTreasurer), s.RevokeInvite)

	api.POST("/donations", s.SubmitDonation)
	api.GET("/donations", s.ListDonations)
	api.GET("/donations/pending", s.RequireRole(memberdomain.RoleTreasurer), s.ListPendingDonations)
	api.GET("/donations/:id", s.GetDonation)
	api.PATCH("/donations/:id", s.RequireRole(memberdomain.RoleAdmin), s.UpdateDonation)
	api.POST("/donations/:id/approve", s.RequireRole(memberdomain.RoleTreasurer), s.ApproveDonation)
	api.POST("/donations/:id/reject", s.RequireRole(memberdomain.RoleTreasurer), s.RejectDonation)
	api.POST("/donations/:id/resubmit", s.ResubmitDonation)
	api.GET("/donations/:id/receipt", s.DonationReceipt)

	api.POST("/expenses", s.SubmitExpense)
	api.GET("/expenses", s.ListExpenses)
	api.GET("/expenses/pending", s.RequireRole(memberdomain.RoleTreasurer), s.ListPendingExpenses)
	api.GET("/expenses/:id", s.GetExpense)
	api.PATCH("/expenses/:id", s.RequireRole(memberdomain.RoleAdmin), s.UpdateExpense)
	api.POST("/expenses/:id/approve", s.RequireRole(memberdomain.RoleTreasurer), s.ApproveExpense)
	api.POST("/expenses/:id/reject", s.RequireRole(memberdomain.RoleTreasurer), s.RejectExpense)
	api.POST("/expenses/:id/resubmit", s.ResubmitExpense)

	api.POST("/events", s.RequireRole(memberdomain.RoleCoordinator), s.CreateEvent)
	api.GET("/events", s.ListEvents)
	api.GET("/events/:id", s.GetEvent)
	api.PATCH("/events/:id", s.RequireRole(memberdomain.RoleCoordinator), s.UpdateEvent)

	api.POST("/posts", s.CreatePost)
	api.GET("/posts", s.ListPosts)
	api.GET("/posts/:id", s.GetPost)
	api.PATCH("/posts/:id", s.UpdatePost)
	api.POST("/posts/:id/publish", s.PublishPost)
	api.DELETE("/posts/:id", s.DeletePost)

	api.POST("/uploads/receipts", s.UploadReceipt)
	api.GET("/receipts/:name", s.ServeReceipt)

	api.GET("/summary/funds", s.GetFundSummary)

	// The badge count is fail-open: a caller whose profile does not resolve
	// still gets zeros, never an auth error.
	s.engine.GET("/api/v1/summary/pending-count",
		s.IdentityRequired(), s.MemberOptional(), s.GetPendingCount)
}
