package handlers

import (
	"net/http"

	"github.com/diewo77/go-inventory/auth"
	"github.com/diewo77/go-inventory/httpx"
	"go.uber.org/zap"
)

type AuthHandler struct {
	sessions    *auth.Sessions
	credentials *auth.Credentials
}

func NewAuthHandler(sessions *auth.Sessions, credentials *auth.Credentials) *AuthHandler {
	return &AuthHandler{sessions: sessions, credentials: credentials}
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	var errMsg string
	if r.URL.Query().Get("error") != "" {
		errMsg = "invalid_credentials"
	}
	render(w, r, http.StatusOK, "login.html", map[string]any{"Error": errMsg})
}

// Login checks the credentials and stores the matching role in the session.
// Failed attempts are sent back to the form.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var username, password string
	if isJSONBody(r) {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		username, password = body.Username, body.Password
	} else {
		username = r.FormValue("username")
		password = r.FormValue("password")
	}

	role, ok := h.credentials.Authenticate(username, password)
	if !ok {
		zap.L().Info("login rejected", zap.String("username", username))
		if !wantsHTML(r) {
			httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
			return
		}
		http.Redirect(w, r, "/login?error=1", http.StatusSeeOther)
		return
	}
	if err := h.sessions.Login(w, r, username, role); err != nil {
		zap.L().Error("save session", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	if !wantsHTML(r) {
		httpx.JSON(w, http.StatusOK, map[string]string{"username": username, "role": string(role)})
		return
	}
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		zap.L().Warn("clear session", zap.Error(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
