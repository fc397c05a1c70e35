package auth

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/askdsu/campus-assistant-go/internal/ctxutil"
	"github.com/gin-gonic/gin"
)

// ContextUserKey is the gin context key holding the authenticated *storage.User.
const ContextUserKey = "auth.user"

// Middleware returns a gin middleware that requires a valid
// "Authorization: Bearer <token>" header. The authenticated user is
// stored in the gin context and the user ID is injected into the
// request context for downstream rate limiting and logging.
func Middleware(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		user, err := s.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "unauthorized",
			})
			return
		}

		c.Set(ContextUserKey, user)
		ctx := ctxutil.WithUserID(c.Request.Context(), strconv.FormatInt(user.ID, 10))
		ctx = ctxutil.WithSessionID(ctx, token)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header value.
// Returns "" when the header is absent or not a Bearer scheme.
func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
