package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/novalearn/novalearn-server/pkg/errors"
	"github.com/novalearn/novalearn-server/pkg/response"
)

// JobTokenHeader names the header external schedulers use to authenticate
// job-trigger requests.
const JobTokenHeader = "X-Job-Token"

// JobToken gates scheduler-trigger endpoints behind a shared secret. An
// empty configured token leaves the endpoint open, for deployments where the
// scheduler runs inside the trust boundary.
func JobToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		provided := c.GetHeader(JobTokenHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Next()
	}
}
