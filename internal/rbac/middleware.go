package rbac

import (
	"context"
	"net/http"
	"strings"

	"log/slog"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/httpx"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/shared"
)

type actorContextKey struct{}

// ContextWithActor stores the resolved actor in the request context.
func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the resolved actor, if any.
func ActorFromContext(ctx context.Context) *Actor {
	actor, _ := ctx.Value(actorContextKey{}).(*Actor)
	return actor
}

// Middleware wires role based authorization for HTTP handlers.
type Middleware struct {
	Service ActorResolver
	Logger  *slog.Logger
}

// ActorResolver resolves a session user to an actor.
type ActorResolver interface {
	ResolveActor(ctx context.Context, sessionUser string) (*Actor, error)
}

// RequireRole ensures the current user holds one of the listed roles.
// The resolved actor is placed into the request context for handlers.
func (m Middleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[strings.TrimSpace(strings.ToLower(role))] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := shared.SessionFromContext(r.Context())
			if sess == nil || strings.TrimSpace(sess.User()) == "" {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			actor, err := m.Service.ResolveActor(r.Context(), sess.User())
			if err != nil {
				if m.Logger != nil {
					m.Logger.Warn("rbac resolve actor", slog.Any("error", err))
				}
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			if len(allowed) > 0 {
				if _, ok := allowed[actor.Role]; !ok {
					httpx.RespondError(w, httpx.ErrForbidden)
					return
				}
			}
			next.ServeHTTP(w, r.WithContext(ContextWithActor(r.Context(), actor)))
		})
	}
}

// RequireAuthenticated admits any active profile regardless of role.
func (m Middleware) RequireAuthenticated() func(http.Handler) http.Handler {
	return m.RequireRole()
}
