package handlers

import (
	"net/http"

	"github.com/diewo77/go-inventory/auth"
)

// Home renders the landing page.
func Home(w http.ResponseWriter, r *http.Request) {
	role, loggedIn := auth.RoleFromContext(r.Context())
	render(w, r, http.StatusOK, "index.html", map[string]any{
		"IsLoggedIn": loggedIn,
		"Role":       string(role),
	})
}
