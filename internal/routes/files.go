package routes

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/Salehmangrio/postbase/internal/api_common"
	"github.com/Salehmangrio/postbase/internal/backend"
	"github.com/Salehmangrio/postbase/internal/config"
	"github.com/Salehmangrio/postbase/internal/pbid"
)

// FileStore is a Files backend that can also report metadata of a stored file.
type FileStore interface {
	backend.Files
	Stat(ctx context.Context, bucketId string, fileId pbid.ID) (*backend.File, error)
}

type FilesRoutes struct {
	cfg    config.C
	files  FileStore
	logger *slog.Logger
}

func (r *FilesRoutes) badRequest(gctx *gin.Context, err error) {
	api_common.NewHttpStatusErrorBuilder().
		WithStatusBadRequest().
		WithInternalErr(err).
		WithResponseMsg(err.Error()).
		BuildStatusError().
		WriteGinResponse(r.cfg, gctx)
}

func (r *FilesRoutes) backendError(gctx *gin.Context, err error) {
	api_common.NewHttpStatusErrorBuilder().
		FromBackendErr(err).
		BuildStatusError().
		WriteGinResponse(r.cfg, gctx)
}

func (r *FilesRoutes) fileId(gctx *gin.Context) (pbid.ID, bool) {
	id, err := pbid.Parse(gctx.Param("id"))
	if err == nil && id.HasPrefix(pbid.PrefixFile) {
		return id, true
	}

	api_common.NewHttpStatusErrorBuilder().
		WithStatusNotFound().
		WithResponseMsgf("file '%s' not found", gctx.Param("id")).
		BuildStatusError().
		WriteGinResponse(r.cfg, gctx)
	return pbid.Nil, false
}

func (r *FilesRoutes) create(gctx *gin.Context) {
	header, err := gctx.FormFile(FormFieldFile)
	if err != nil {
		r.badRequest(gctx, errors.Wrap(err, "a file is required"))
		return
	}

	var fileId pbid.ID
	if raw := gctx.PostForm(FormFieldFileId); raw != "" {
		if fileId, err = pbid.Parse(raw); err != nil {
			r.badRequest(gctx, err)
			return
		}
	}

	f, err := header.Open()
	if err != nil {
		r.badRequest(gctx, errors.Wrap(err, "failed to read upload"))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		r.badRequest(gctx, errors.Wrap(err, "failed to read upload"))
		return
	}

	file, err := r.files.Create(gctx.Request.Context(), gctx.Param("bucket"), fileId, backend.InputFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		r.backendError(gctx, err)
		return
	}

	gctx.PureJSON(http.StatusCreated, file)
}

func (r *FilesRoutes) serve(gctx *gin.Context, disposition string) {
	id, ok := r.fileId(gctx)
	if !ok {
		return
	}

	ctx := gctx.Request.Context()
	bucket := gctx.Param("bucket")

	meta, err := r.files.Stat(ctx, bucket, id)
	if err != nil {
		r.backendError(gctx, err)
		return
	}

	data, err := r.files.Download(ctx, bucket, id)
	if err != nil {
		r.backendError(gctx, err)
		return
	}

	if disposition != "" && meta.Name != "" {
		gctx.Header("Content-Disposition", disposition+`; filename="`+meta.Name+`"`)
	}
	gctx.Data(http.StatusOK, meta.MimeType, data)
}

func (r *FilesRoutes) download(gctx *gin.Context) {
	r.serve(gctx, "attachment")
}

// preview serves the original contents; the dev server does not transform images.
func (r *FilesRoutes) preview(gctx *gin.Context) {
	var req PreviewRequestQuery
	if err := gctx.ShouldBindQuery(&req); err != nil {
		r.badRequest(gctx, err)
		return
	}

	if root := r.cfg.GetRoot(); root != nil && req.Project != "" && req.Project != root.Connection.ProjectID {
		r.badRequest(gctx, errors.Errorf("unknown project '%s'", req.Project))
		return
	}

	r.serve(gctx, "")
}

func (r *FilesRoutes) delete(gctx *gin.Context) {
	id, ok := r.fileId(gctx)
	if !ok {
		return
	}

	if err := r.files.Delete(gctx.Request.Context(), gctx.Param("bucket"), id); err != nil {
		r.backendError(gctx, err)
		return
	}

	gctx.Status(http.StatusNoContent)
}

func (r *FilesRoutes) Register(g gin.IRouter) {
	g.POST("/storage/buckets/:bucket/files", r.create)
	g.GET("/storage/buckets/:bucket/files/:id/download", r.download)
	g.GET("/storage/buckets/:bucket/files/:id/preview", r.preview)
	g.DELETE("/storage/buckets/:bucket/files/:id", r.delete)
}

func NewFilesRoutes(cfg config.C, files FileStore, logger *slog.Logger) *FilesRoutes {
	return &FilesRoutes{
		cfg:    cfg,
		files:  files,
		logger: logger,
	}
}
