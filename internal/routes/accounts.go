package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Salehmangrio/postbase/internal/api_common"
	"github.com/Salehmangrio/postbase/internal/backend/local"
	"github.com/Salehmangrio/postbase/internal/config"
)

type AccountsRoutes struct {
	cfg      config.C
	identity *local.Identity
	logger   *slog.Logger
}

func (r *AccountsRoutes) create(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req CreateAccountRequestJson
	if err := gctx.ShouldBindJSON(&req); err != nil {
		api_common.NewHttpStatusErrorBuilder().
			WithStatusBadRequest().
			WithInternalErr(err).
			WithResponseMsg(err.Error()).
			BuildStatusError().
			WriteGinResponse(r.cfg, gctx)
		return
	}

	identity, err := r.identity.Register(ctx, req.ID, req.Email, req.Password, req.Name)
	if err != nil {
		api_common.NewHttpStatusErrorBuilder().
			FromBackendErr(err).
			BuildStatusError().
			WriteGinResponse(r.cfg, gctx)
		return
	}

	gctx.PureJSON(http.StatusCreated, identity)
}

func (r *AccountsRoutes) createEmailSession(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req CreateEmailSessionRequestJson
	if err := gctx.ShouldBindJSON(&req); err != nil {
		api_common.NewHttpStatusErrorBuilder().
			WithStatusBadRequest().
			WithInternalErr(err).
			WithResponseMsg(err.Error()).
			BuildStatusError().
			WriteGinResponse(r.cfg, gctx)
		return
	}

	session, err := r.identity.Login(ctx, req.Email, req.Password)
	if err != nil {
		api_common.NewHttpStatusErrorBuilder().
			FromBackendErr(err).
			BuildStatusError().
			WriteGinResponse(r.cfg, gctx)
		return
	}

	gctx.PureJSON(http.StatusCreated, session)
}

func (r *AccountsRoutes) get(gctx *gin.Context) {
	identity, err := r.identity.Whoami(gctx.Request.Context(), gctx.GetHeader(api_common.SessionHeader))
	if err != nil {
		api_common.NewHttpStatusErrorBuilder().
			FromBackendErr(err).
			BuildStatusError().
			WriteGinResponse(r.cfg, gctx)
		return
	}

	gctx.PureJSON(http.StatusOK, identity)
}

func (r *AccountsRoutes) deleteSessions(gctx *gin.Context) {
	if err := r.identity.Revoke(gctx.Request.Context(), gctx.GetHeader(api_common.SessionHeader)); err != nil {
		api_common.NewHttpStatusErrorBuilder().
			FromBackendErr(err).
			BuildStatusError().
			WriteGinResponse(r.cfg, gctx)
		return
	}

	gctx.Status(http.StatusNoContent)
}

func (r *AccountsRoutes) Register(g gin.IRouter) {
	g.POST("/account", r.create)
	g.POST("/account/sessions/email", r.createEmailSession)
	g.GET("/account", r.get)
	g.DELETE("/account/sessions", r.deleteSessions)
}

func NewAccountsRoutes(cfg config.C, identity *local.Identity, logger *slog.Logger) *AccountsRoutes {
	return &AccountsRoutes{
		cfg:      cfg,
		identity: identity,
		logger:   logger,
	}
}
