package server

import (
	"net/http"
	"runtime/debug"

	"github.com/diewo77/go-inventory/auth"
	"github.com/diewo77/go-inventory/httpx"
	"github.com/diewo77/go-inventory/internal/config"
	"github.com/diewo77/go-inventory/internal/handlers"
	"github.com/diewo77/go-inventory/internal/logging"
	"github.com/diewo77/go-inventory/internal/middleware"
	"github.com/diewo77/go-inventory/internal/policy"
	"github.com/diewo77/go-inventory/internal/services"
	"github.com/diewo77/go-inventory/internal/uploads"
	"github.com/diewo77/go-inventory/view"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UploadsURLPrefix is where stored receipts are served from.
const UploadsURLPrefix = "/static/uploads"

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, cfg *config.Config, creds *auth.Credentials) http.Handler {
	mux := http.NewServeMux()

	sessions := auth.NewSessions(cfg.Auth.SecretKey, cfg.IsProduction())
	gate := policy.NewGate()
	inv := services.NewInventoryService(db)
	store := uploads.NewStore(cfg.Storage.UploadDir, UploadsURLPrefix)

	view.SetLangResolver(middleware.LangFrom)
	view.SetCanResolver(func(r *http.Request, resource, action string) bool {
		return gate.CanContext(r.Context(), resource, policy.Action(action))
	})

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.WithContext(r.Context()).Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	ah := handlers.NewAuthHandler(sessions, creds)
	mux.HandleFunc("GET /{$}", handlers.Home)
	mux.HandleFunc("GET /login", ah.LoginForm)
	mux.HandleFunc("POST /login", ah.Login)
	mux.HandleFunc("GET /logout", ah.Logout)
	mux.HandleFunc("POST /logout", ah.Logout)

	require := func(resource string, action policy.Action, h http.HandlerFunc) http.Handler {
		return gate.RequirePermission(resource, action)(h)
	}

	ph := handlers.NewProductHandler(inv, store)
	ih := handlers.NewItemHandler(inv, store)
	rh := handlers.NewReportHandler(services.NewReportService(db))

	mux.Handle("GET /products", require(policy.ResourceProduct, policy.ActionList, ph.List))
	mux.Handle("GET /products/add", require(policy.ResourceProduct, policy.ActionCreate, ph.New))
	mux.Handle("POST /products/add", require(policy.ResourceProduct, policy.ActionCreate, ph.Create))
	mux.Handle("GET /products/report", require(policy.ResourceReport, policy.ActionView, rh.Download))
	mux.Handle("GET /products/{id}", require(policy.ResourceProduct, policy.ActionView, ih.List))
	mux.Handle("GET /product/edit/{id}", require(policy.ResourceProduct, policy.ActionUpdate, ph.Edit))
	mux.Handle("POST /product/edit/{id}", require(policy.ResourceProduct, policy.ActionUpdate, ph.Update))
	mux.Handle("GET /product/delete/{id}", require(policy.ResourceProduct, policy.ActionDelete, ph.Delete))
	mux.Handle("POST /product/delete/{id}", require(policy.ResourceProduct, policy.ActionDelete, ph.Delete))
	mux.Handle("GET /product/reduce", require(policy.ResourceItem, policy.ActionReduce, ih.ReduceForm))
	mux.Handle("POST /product/reduce", require(policy.ResourceItem, policy.ActionReduce, ih.Reduce))

	mux.Handle("GET /static/uploads/", http.StripPrefix("/static/uploads/", http.FileServer(http.Dir(cfg.Storage.UploadDir))))
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.Storage.StaticDir))))

	return middleware.Prefs(withRecover(logging.Middleware(sessions.Middleware(mux))))
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				zap.L().Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", debug.Stack()))
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
