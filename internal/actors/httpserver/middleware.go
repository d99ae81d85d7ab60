package httpserver

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rbroggi/accountd/internal/core/usecase"
)

// Request-scope keys through which handlers hand optional audit payloads to
// the middleware. They mirror the nullable fields of the audit record.
const (
	ScopeUser            = "audit.user"
	ScopeUserID          = "audit.userId"
	ScopeMessage         = "audit.message"
	ScopeTrack           = "audit.track"
	ScopeError           = "audit.error"
	ScopeErrorID         = "audit.errorId"
	ScopeErrorStackTrace = "audit.errorStackTrace"
)

// Audit stamps the start time at request entry and emits one audit record
// after the response is written. The auditor absorbs every failure, so the
// middleware can never alter the response already produced.
func Audit(auditor auditorUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now().UTC()

		c.Next()

		auditor.Log(c.Request.Context(), c.Writer.Status(), usecase.RequestContext{
			Method:          c.Request.Method,
			Path:            c.Request.URL.Path,
			Query:           c.Request.URL.RawQuery,
			Referer:         c.Request.Referer(),
			Start:           start,
			UserEmail:       c.GetString(ScopeUser),
			UserID:          c.GetString(ScopeUserID),
			Message:         c.GetString(ScopeMessage),
			Track:           c.GetString(ScopeTrack),
			Error:           c.GetString(ScopeError),
			ErrorID:         c.GetString(ScopeErrorID),
			ErrorStackTrace: c.GetString(ScopeErrorStackTrace),
		})
	}
}
