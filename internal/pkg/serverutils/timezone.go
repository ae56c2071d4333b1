package serverutils

import (
	"time"

	"airicepest-be/internal/pkg/timeutil"

	"github.com/gofiber/fiber/v2"
)

// RequestLocation picks the caller's zone from ?timezone= first, then the
// X-User-Timezone header.
func RequestLocation(ctx *fiber.Ctx, resolver *timeutil.Resolver) *time.Location {
	name := ctx.Query(timeutil.QueryParam)
	if name == "" {
		name = ctx.Get(timeutil.Header)
	}
	return resolver.Resolve(name)
}
