package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Salehmangrio/postbase/internal/api_common"
	"github.com/Salehmangrio/postbase/internal/backend"
	"github.com/Salehmangrio/postbase/internal/config"
	"github.com/Salehmangrio/postbase/internal/filter"
)

type DocumentsRoutes struct {
	cfg       config.C
	documents backend.Documents
	logger    *slog.Logger
}

func (r *DocumentsRoutes) badRequest(gctx *gin.Context, err error) {
	api_common.NewHttpStatusErrorBuilder().
		WithStatusBadRequest().
		WithInternalErr(err).
		WithResponseMsg(err.Error()).
		BuildStatusError().
		WriteGinResponse(r.cfg, gctx)
}

func (r *DocumentsRoutes) backendError(gctx *gin.Context, err error) {
	api_common.NewHttpStatusErrorBuilder().
		FromBackendErr(err).
		BuildStatusError().
		WriteGinResponse(r.cfg, gctx)
}

func (r *DocumentsRoutes) create(gctx *gin.Context) {
	var req CreateDocumentRequestJson
	if err := gctx.ShouldBindJSON(&req); err != nil {
		r.badRequest(gctx, err)
		return
	}

	doc, err := r.documents.Create(gctx.Request.Context(), gctx.Param("db"), gctx.Param("col"), req.DocumentID, req.Data)
	if err != nil {
		r.backendError(gctx, err)
		return
	}

	gctx.PureJSON(http.StatusCreated, doc)
}

func (r *DocumentsRoutes) list(gctx *gin.Context) {
	var req ListDocumentsRequestQuery
	if err := gctx.ShouldBindQuery(&req); err != nil {
		r.badRequest(gctx, err)
		return
	}

	var f *filter.Filter
	if req.Filter != nil && *req.Filter != "" {
		var err error
		if f, err = filter.Parse(*req.Filter); err != nil {
			r.badRequest(gctx, err)
			return
		}
	}

	list, err := r.documents.List(gctx.Request.Context(), gctx.Param("db"), gctx.Param("col"), f)
	if err != nil {
		r.backendError(gctx, err)
		return
	}

	gctx.PureJSON(http.StatusOK, list)
}

func (r *DocumentsRoutes) get(gctx *gin.Context) {
	doc, err := r.documents.Get(gctx.Request.Context(), gctx.Param("db"), gctx.Param("col"), gctx.Param("id"))
	if err != nil {
		r.backendError(gctx, err)
		return
	}

	gctx.PureJSON(http.StatusOK, doc)
}

func (r *DocumentsRoutes) update(gctx *gin.Context) {
	var req UpdateDocumentRequestJson
	if err := gctx.ShouldBindJSON(&req); err != nil {
		r.badRequest(gctx, err)
		return
	}

	doc, err := r.documents.Update(gctx.Request.Context(), gctx.Param("db"), gctx.Param("col"), gctx.Param("id"), req.Data)
	if err != nil {
		r.backendError(gctx, err)
		return
	}

	gctx.PureJSON(http.StatusOK, doc)
}

func (r *DocumentsRoutes) delete(gctx *gin.Context) {
	if err := r.documents.Delete(gctx.Request.Context(), gctx.Param("db"), gctx.Param("col"), gctx.Param("id")); err != nil {
		r.backendError(gctx, err)
		return
	}

	gctx.Status(http.StatusNoContent)
}

func (r *DocumentsRoutes) Register(g gin.IRouter) {
	g.POST("/databases/:db/collections/:col/documents", r.create)
	g.GET("/databases/:db/collections/:col/documents", r.list)
	g.GET("/databases/:db/collections/:col/documents/:id", r.get)
	g.PATCH("/databases/:db/collections/:col/documents/:id", r.update)
	g.DELETE("/databases/:db/collections/:col/documents/:id", r.delete)
}

func NewDocumentsRoutes(cfg config.C, documents backend.Documents, logger *slog.Logger) *DocumentsRoutes {
	return &DocumentsRoutes{
		cfg:       cfg,
		documents: documents,
		logger:    logger,
	}
}
