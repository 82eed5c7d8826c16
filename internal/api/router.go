package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/caseflow/caseflow/internal/auth"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Auth endpoints (no auth required)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/refresh", s.handleRefresh)

		// Protected routes: any authenticated role
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Post("/auth/logout", s.handleLogout)
			r.Get("/auth/user-info", s.handleUserInfo)

			// Editor routes: case content management
			r.Group(func(r chi.Router) {
				r.Use(s.requireRole(auth.Role.HasEditorPermissions))

				r.Route("/cases", func(r chi.Router) {
					r.Get("/", s.handleListCases)
					r.Post("/", s.handleCreateCase)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", s.handleGetCase)
						r.Put("/", s.handleUpdateCase)
						r.Delete("/", s.handleDeleteCase)
						r.Patch("/activate", s.handleActivateCase)
						r.Patch("/deactivate", s.handleDeactivateCase)
						r.Get("/persons", s.handleListCasePersons)
						r.Get("/actions", s.handleListCaseActions)
						r.Get("/actions/today", s.handleListCaseActionsToday)
						r.Get("/actions/week", s.handleListCaseActionsWeek)
					})
				})

				r.Route("/persons", func(r chi.Router) {
					r.Post("/", s.handleCreatePerson)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", s.handleGetPerson)
						r.Put("/", s.handleUpdatePerson)
						r.Delete("/", s.handleDeletePerson)

						r.Route("/jobs", func(r chi.Router) {
							r.Get("/", s.handleListJobs)
							r.Post("/", s.handleCreateJob)
							r.Get("/default", s.handleGetDefaultJob)
							r.Put("/default", s.handleSetDefaultJob)
							r.Delete("/default", s.handleClearDefaultJob)
						})

						r.Route("/skills", func(r chi.Router) {
							r.Get("/", s.handleListSkills)
							r.Post("/", s.handleCreateSkill)
						})

						r.Route("/requirements", func(r chi.Router) {
							r.Get("/", s.handleListRequirements)
							r.Post("/", s.handleCreateRequirement)
						})
					})
				})

				r.Route("/jobs/{id}", func(r chi.Router) {
					r.Put("/", s.handleUpdateJob)
					r.Delete("/", s.handleDeleteJob)
				})

				r.Delete("/skills/{id}", s.handleDeleteSkill)

				r.Route("/requirements/{id}", func(r chi.Router) {
					r.Put("/", s.handleUpdateRequirement)
					r.Delete("/", s.handleDeleteRequirement)
				})

				r.Route("/actions", func(r chi.Router) {
					r.Post("/", s.handleCreateAction)
					r.Get("/today", s.handleListActionsToday)
					r.Get("/week", s.handleListActionsWeek)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", s.handleGetAction)
						r.Put("/", s.handleUpdateAction)
						r.Delete("/", s.handleDeleteAction)
						r.Put("/status", s.handleSetActionStatus)
					})
				})
			})

			// Admin routes: user management and audit trail
			r.Group(func(r chi.Router) {
				r.Use(s.requireRole(auth.Role.HasAdminPermissions))

				r.Route("/users", func(r chi.Router) {
					r.Get("/", s.handleListUsers)
					r.Post("/", s.handleCreateUser)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", s.handleGetUser)
						r.Put("/", s.handleUpdateUser)
						r.Delete("/", s.handleDeleteUser)
						r.Put("/password", s.handleSetUserPassword)
					})
				})

				r.Get("/audit", s.handleListAudit)
			})
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
