package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// SlackSignature verifies the X-Slack-Signature header against the signing
// secret before any Slack payload is parsed. The body is restored for the
// downstream handler.
func SlackSignature(signingSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := zap.L()

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable request body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		verifier, err := slack.NewSecretsVerifier(c.Request.Header, signingSecret)
		if err != nil {
			logger.Warn("slack signature headers missing", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing signature"})
			return
		}
		if _, err := verifier.Write(body); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "signature check failed"})
			return
		}
		if err := verifier.Ensure(); err != nil {
			logger.Warn("slack signature mismatch", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}
		c.Next()
	}
}
