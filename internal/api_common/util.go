package api_common

import (
	"github.com/gin-gonic/gin"
)

const (
	DebugHeader = "x-postbase-debug"

	// ProjectHeader names the project a request is scoped to.
	ProjectHeader = "X-Postbase-Project"

	// SessionHeader carries the session secret of the caller.
	SessionHeader = "X-Postbase-Session"
)

func AddGinDebugHeader(cfg Debuggable, gctx *gin.Context, debugMessage string) {
	if cfg != nil && cfg.IsDebugMode() {
		gctx.Header(DebugHeader, debugMessage)
	}
}

func AddGinDebugHeaderError(cfg Debuggable, gctx *gin.Context, err error) {
	AddGinDebugHeader(cfg, gctx, err.Error())
}
