package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"microgrid-valuation/internal/api/models"
	"microgrid-valuation/internal/log"

	"github.com/gin-gonic/gin"
)

// ErrorHandler turns panics into a 500 ErrorResponse.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		ctx := c.Request.Context()
		log.Ctx(ctx).ErrorContext(ctx, "handler panicked", slog.String("panic", fmt.Sprint(recovered)))

		msg := "An unexpected error occurred"
		if s, ok := recovered.(string); ok {
			msg = s
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INTERNAL_ERROR", Message: msg},
		})
	})
}
