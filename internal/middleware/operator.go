package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stationops/internal/domain"
)

const (
	OperatorHeader = "X-Operator-ID"
	StationHeader  = "X-Station-ID"

	operatorContextKey = "operator"
)

// OperatorMiddleware reads the browsing context from the request headers and
// rejects requests that do not carry one.
func OperatorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		op := domain.Operator{
			OperatorID: strings.TrimSpace(c.GetHeader(OperatorHeader)),
			StationID:  strings.TrimSpace(c.GetHeader(StationHeader)),
		}
		if op.OperatorID == "" || op.StationID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": OperatorHeader + " and " + StationHeader + " headers are required",
			})
			return
		}

		c.Set(operatorContextKey, op)
		c.Next()
	}
}

// Operator returns the browsing context set by OperatorMiddleware.
func Operator(c *gin.Context) domain.Operator {
	if v, ok := c.Get(operatorContextKey); ok {
		if op, ok := v.(domain.Operator); ok {
			return op
		}
	}
	return domain.Operator{}
}
