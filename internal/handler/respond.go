package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// message writes the uniform {"message": ...} body the web client renders.
func message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// serverError logs the underlying failure and responds with a generic 500.
// Internals never leak into the body.
func serverError(c *gin.Context, err error, msg string) {
	zctx.From(c.Request.Context()).Error(msg, zap.Error(err))
	message(c, http.StatusInternalServerError, msg)
}
