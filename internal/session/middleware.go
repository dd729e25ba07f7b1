package session

import (
	"encoding/json"
	"log"
	"net/http"
)

// Middleware attaches the cookie user, if any, to the request context.
// An invalid cookie is treated as signed out.
func Middleware(codec *Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := codec.FromRequest(r)
			if err != nil || u == nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// RequireAdmin rejects requests whose user is not an admin with 403. When dir
// is set the role is looked up there as well.
func RequireAdmin(dir RoleDirectory, logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := FromContext(r.Context())
			if u == nil || !u.IsAdmin() {
				forbid(w)
				return
			}

			if dir != nil {
				role, found, err := dir.Role(r.Context(), u.ID)
				if err != nil {
					logger.Printf("verify admin %s: %v", u.ID, err)
					forbid(w)
					return
				}
				if !found || role != RoleAdmin {
					forbid(w)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func forbid(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}
