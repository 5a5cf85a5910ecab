package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/magicesim/storefront/models"
	"github.com/magicesim/storefront/services/monitoring/logging"
)

const (
	csrfHeader        = "X-CSRFToken"
	csrfCookie        = "csrftoken"
	correlationHeader = "X-Correlation-ID"

	requestContextKey = "request_context"
)

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {

		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRFToken, X-Correlation-ID, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST,HEAD,OPTIONS,GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// RequestContextMiddleware captures what the backend needs from the browser
// request: the CSRF token, the session cookies and a correlation id.
func RequestContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rc := models.RequestContext{
			CSRFToken:     c.GetHeader(csrfHeader),
			Cookies:       c.Request.Cookies(),
			Authorization: c.GetHeader("Authorization"),
			CorrelationID: c.GetHeader(correlationHeader),
		}

		if rc.CSRFToken == "" {
			if token, err := c.Cookie(csrfCookie); err == nil {
				rc.CSRFToken = token
			}
		}
		if rc.CorrelationID == "" {
			rc.CorrelationID = uuid.NewString()
		}

		c.Set(logging.CorrelationKey, rc.CorrelationID)
		c.Set(requestContextKey, rc)
		c.Header(correlationHeader, rc.CorrelationID)
		c.Next()
	}
}

func requestContext(c *gin.Context) models.RequestContext {
	if v, ok := c.Get(requestContextKey); ok {
		if rc, ok := v.(models.RequestContext); ok {
			return rc
		}
	}
	return models.RequestContext{Cookies: c.Request.Cookies()}
}
