package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/unified-admin-dashboard/auth"
	"github.com/rpupo63/unified-admin-dashboard/metrics"
)

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func healthCheck(startupTime time.Time) http.HandlerFunc {
	responder := NewResponder(log.With().Str("handlerName", "healthCheck").Logger())
	return func(w http.ResponseWriter, r *http.Request) {
		responder.WriteJSON(w, healthResponse{Status: "ok", Uptime: time.Since(startupTime).Round(time.Second).String()})
	}
}

// setupPublicRoutes mounts the routes that need no session
func setupPublicRoutes(r chi.Router, handlers *routeHandlers, loginLimit func(http.Handler) http.Handler, startupTime time.Time) {
	r.Get("/health", healthCheck(startupTime))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.With(loginLimit).Post("/auth/login", handlers.authHandler.login())

	r.Post("/public/{product}/contact", handlers.contactHandler.submitContact())
	r.Post("/public/vikin/newsletter", handlers.newsletterHandler.subscribe())
}

// setupDashboardRoutes mounts every screen of the dashboard behind a session
// and the allow-list of its menu area
func setupDashboardRoutes(r chi.Router, handlers *routeHandlers, am authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(am.authenticate)

		r.Post("/auth/logout", handlers.authHandler.logout())
		r.Get("/auth/session", handlers.authHandler.getSession())
		r.Put("/auth/session/route", handlers.authHandler.rememberRoute())
		r.With(am.requireArea(auth.AreaSettings)).Post("/auth/users", handlers.authHandler.createUser())

		// Tags are read by every editor and managed from settings
		r.Route("/tags/{tagType}", func(r chi.Router) {
			r.With(am.requireArea(auth.AreaAny)).Get("/", handlers.tagHandler.getTags())
			r.With(am.requireArea(auth.AreaSettings)).Post("/", handlers.tagHandler.addTags())
			r.With(am.requireArea(auth.AreaSettings)).Delete("/{tag}", handlers.tagHandler.removeTag())
		})

		r.Route("/uploads", func(r chi.Router) {
			r.Use(am.requireArea(auth.AreaAny))
			r.Post("/{dir}", handlers.uploadHandler.uploadImage())
			r.Delete("/", handlers.uploadHandler.deleteImage())
		})

		r.Route("/products/{product}", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(am.requireProductArea(auth.DetailsArea))
				r.Get("/basic-details", handlers.basicDetailsHandler.getBasicDetails())
				r.Put("/basic-details", handlers.basicDetailsHandler.saveBasicDetails())
				r.Delete("/basic-details/socials/{key}", handlers.basicDetailsHandler.deleteSocial())
			})

			r.Route("/blogs", func(r chi.Router) {
				r.Use(am.requireProductArea(auth.BlogArea))
				h := handlers.blogPostHandler
				r.Get("/", h.getAllBlogPosts())
				r.Get("/export", h.exportBlogPosts())
				r.Post("/", h.createBlogPost())
				r.Get("/{id}", h.getBlogPost())
				r.Put("/{id}", h.updateBlogPost())
				r.Put("/{id}/status", h.setBlogPostStatus())
				r.Delete("/{id}", h.deleteBlogPost())
			})

			r.Route("/contacts", func(r chi.Router) {
				r.Use(am.requireProductArea(auth.ContactArea))
				h := handlers.contactHandler
				r.Get("/", h.getAllContacts())
				r.Get("/export", h.exportContacts())
				r.Get("/{id}", h.getContact())
				r.Put("/{id}/read", h.markRead())
			})
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Use(am.requireArea(auth.AreaPortfolio))

			r.Route("/projects", func(r chi.Router) {
				h := handlers.projectHandler
				r.Get("/", h.getAllProjects())
				r.Get("/export", h.exportProjects())
				r.Post("/", h.createProject())
				r.Get("/{id}", h.getProject())
				r.Put("/{id}", h.updateProject())
				r.Put("/{id}/status", h.setProjectStatus())
				r.Delete("/{id}", h.deleteProject())
			})

			r.Route("/experience", func(r chi.Router) {
				h := handlers.experienceHandler
				r.Get("/", h.list())
				r.Get("/export", h.export())
				r.Post("/", h.create())
				r.Get("/{id}", h.get())
				r.Put("/{id}", h.update())
				r.Put("/{id}/status", h.setStatus())
				r.Delete("/{id}", h.remove())
			})
		})

		r.Route("/vikin", func(r chi.Router) {
			r.Route("/rides", func(r chi.Router) {
				r.Use(am.requireArea(auth.AreaVikinRides))
				h := handlers.rideHandler
				r.Get("/", h.list())
				r.Get("/export", h.export())
				r.Post("/", h.create())
				r.Get("/{id}", h.get())
				r.Put("/{id}", h.update())
				r.Put("/{id}/status", h.setStatus())
				r.Delete("/{id}", h.remove())
				r.Get("/{id}/users", h.getJoinedUsers())
				r.Get("/{id}/users/export", h.exportJoinedUsers())
				r.Put("/{id}/images", h.setImages())
			})

			r.Route("/riders", func(r chi.Router) {
				r.Use(am.requireArea(auth.AreaVikinRiders))
				h := handlers.riderHandler
				r.Get("/", h.list())
				r.Get("/export", h.export())
				r.Get("/{id}", h.get())
				r.Put("/{id}/status", h.setStatus())
				r.Get("/{id}/rides", h.getRidesJoined())
			})

			r.Route("/announcements", func(r chi.Router) {
				r.Use(am.requireArea(auth.AreaVikinAnnounce))
				h := handlers.announcementHandler
				r.Get("/", h.getAnnouncements())
				r.Post("/", h.createAnnouncement())
				r.Delete("/{id}", h.deleteAnnouncement())
			})

			r.Route("/newsletter", func(r chi.Router) {
				r.Use(am.requireArea(auth.AreaVikinNewsletter))
				h := handlers.newsletterHandler
				r.Get("/", h.list())
				r.Get("/export", h.export())
				r.Delete("/{id}", h.remove())
			})

			r.Route("/emails", func(r chi.Router) {
				r.Use(am.requireArea(auth.AreaVikinEmail))
				h := handlers.emailHandler
				r.Get("/templates/{name}", h.getTemplate())
				r.Get("/recipients", h.getRecipients())
				r.Post("/send", h.sendEmail())
				r.Get("/transactions", h.getTransactions())
				r.Get("/transactions/export", h.exportTransactions())
				r.Get("/statistics", h.getStatistics())
			})
		})
	})
}
