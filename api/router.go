package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	appMiddleware "github.com/prasetyowira/qrcodes/api/middleware"
	"github.com/prasetyowira/qrcodes/constant"
	appLogger "github.com/prasetyowira/qrcodes/infrastructure/logger"
)

// Router represents the application router
type Router struct {
	handler  *Handler
	webhooks *WebhookHandler
	sessions SessionStore
	router   *chi.Mux
}

// NewRouter creates a new router
func NewRouter(handler *Handler, webhooks *WebhookHandler, sessions SessionStore) *Router {
	r := chi.NewRouter()

	// Middleware setup
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(appMiddleware.RequestLogger())

	return &Router{
		handler:  handler,
		webhooks: webhooks,
		sessions: sessions,
		router:   r,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() {
	appLogger.Info(constant.MsgSettingUpRoutes, appLogger.LoggerInfo{
		ContextFunction: constant.CtxRouter,
	})

	// Admin CRUD surface, guarded by the tenant session
	auth := sessionAuth(r.sessions)
	r.router.With(auth).Get(constant.RouteAdminQRCodes, r.handler.ListQRCodes)
	r.router.With(auth).Get(constant.RouteAdminQRCodeByID, r.handler.GetQRCode)
	r.router.With(auth).Put(constant.RouteAdminQRCodeByID, r.handler.SaveQRCode)
	r.router.With(auth).Delete(constant.RouteAdminQRCodeByID, r.handler.DeleteQRCode)

	// Public routes
	r.router.Get(constant.RouteScan, r.handler.ScanQRCode)
	r.router.Get(constant.RouteDisplay, r.handler.DisplayQRCode)

	// Platform webhooks
	r.router.Post(constant.RouteWebhooks, r.webhooks.Handle)

	// Healthcheck
	r.router.Get(constant.RouteHealthcheck, func(w http.ResponseWriter, req *http.Request) {
		appLogger.CtxDebug(req.Context(), constant.MsgHealthcheckRequest, appLogger.LoggerInfo{
			ContextFunction: constant.CtxRouter,
		})

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(constant.MsgHealthy))
	})
}

// ServeHTTP implements the http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
