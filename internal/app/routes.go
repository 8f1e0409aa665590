package app

import (
	"net/http"

	"github.com/cradoe/memberreg/internal/handler"
	"github.com/cradoe/memberreg/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func (app *Application) routes() http.Handler {
	mux := chi.NewRouter()

	middlewareRepo := middleware.New(app.errorHandler, app.Logger, app.DB.Admin(), &app.Config, app.Metrics)

	healthHandler := handler.NewHealthCheckHandler(&handler.HealthCheckHandler{
		ErrHandler: app.errorHandler,
		DB:         app.DB,
		Cache:      app.Cache,
		Version:    app.Version,
	})

	routeHandler := handler.NewRouteHandler(&handler.RouteHandler{
		ErrHandler:   app.errorHandler,
		FileUploader: app.FileUploader,
	})

	authHandler := handler.NewAuthHandler(&handler.AuthHandler{
		AdminRepo:    app.DB.Admin(),
		ActivityRepo: app.DB.Activity(),
		Helper:       app.Helper,
		Config:       &app.Config,
		ErrHandler:   app.errorHandler,
	})

	memberHandler := handler.NewMemberHandler(&handler.MemberHandler{
		MemberRepo:   app.DB.Member(),
		ActivityRepo: app.DB.Activity(),
		Cache:        app.MemberCache,
		Publisher:    app.Kafka,
		Helper:       app.Helper,
		ErrHandler:   app.errorHandler,
		Metrics:      app.Metrics,
		Logger:       app.Logger,
	})

	mux.NotFound(app.errorHandler.NotFound)
	mux.MethodNotAllowed(app.errorHandler.MethodNotAllowed)

	mux.Use(middlewareRepo.RequestID)
	mux.Use(middlewareRepo.LogAccess)
	mux.Use(middlewareRepo.RecoverPanic)
	mux.Use(middleware.CORS(app.Config.CorsAllowedOrigins))
	mux.Use(middlewareRepo.Authenticate)

	mux.Get("/status", healthHandler.HandleHealthCheck)
	mux.Get("/status/ready", healthHandler.HandleReadiness)
	mux.Method(http.MethodGet, "/metrics", app.Metrics.Handler())

	mux.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.HandleAuthLogin)

		// members register themselves
		r.Post("/members", memberHandler.HandleRegisterMember)

		r.Group(func(r chi.Router) {
			r.Use(middlewareRepo.RequireAuthenticatedAdmin)

			r.Get("/members", memberHandler.HandleListMembers)
			r.Get("/members/{id}", memberHandler.HandleGetMember)
			r.Put("/members/{id}", memberHandler.HandleUpdateMember)
			r.Delete("/members/{id}", memberHandler.HandleDeleteMember)
			r.Get("/members/{id}/activity", memberHandler.HandleMemberActivity)

			r.Post("/admins", authHandler.HandleCreateAdmin)
			r.Post("/uploads", routeHandler.HandleUploadFile)
		})
	})

	return mux
}
