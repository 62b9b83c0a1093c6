package middleware

import "github.com/gin-gonic/gin"

// actorKey is the key used to store the acting operator's name in the Gin context.
const actorKey = contextKey("actor")

// DefaultActor is recorded in audit fields when no operator is identified.
const DefaultActor = "sistema"

// ActorMiddleware resolves the acting operator from the X-Actor header and
// stores it in the Gin context for audit fields.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader("X-Actor")
		if actor == "" {
			actor = DefaultActor
		}
		c.Set(string(actorKey), actor)
		c.Next()
	}
}

// GetActorFromContext retrieves the acting operator from the Gin context.
func GetActorFromContext(c *gin.Context) string {
	actorVal, exists := c.Get(string(actorKey))
	if !exists {
		return DefaultActor
	}

	actor, ok := actorVal.(string)
	if !ok || actor == "" {
		return DefaultActor
	}

	return actor
}
