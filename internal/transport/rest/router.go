package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/peer-recognition/internal/auth"
	"github.com/frahmantamala/peer-recognition/internal/comment"
	"github.com/frahmantamala/peer-recognition/internal/engagement"
	"github.com/frahmantamala/peer-recognition/internal/points"
	"github.com/frahmantamala/peer-recognition/internal/post"
	"github.com/frahmantamala/peer-recognition/internal/transport/middleware"
	"github.com/frahmantamala/peer-recognition/internal/transport/swagger"
	"github.com/frahmantamala/peer-recognition/internal/user"
)

type Handlers struct {
	Auth       *auth.Handler
	User       *user.Handler
	Post       *post.Handler
	Comment    *comment.Handler
	Engagement *engagement.Handler
	Points     *points.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check routes
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/signup", h.Auth.Signup)
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
		})

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			// User routes
			pr.Route("/users", func(ur chi.Router) {
				ur.Get("/me", h.User.GetMe)
				ur.Patch("/me", h.User.UpdateMe)
				ur.Get("/company/{companyID}", h.User.ListCompanyUsers)

				ur.Group(func(ar chi.Router) {
					ar.Use(middleware.RequireAdmin)
					ar.Delete("/{userID}", h.User.DeactivateUser)
				})
			})

			// Post and comment routes
			pr.Route("/posts", func(por chi.Router) {
				por.Post("/", h.Post.CreatePost)
				por.Get("/", h.Post.ListFeed)
				por.Get("/{postID}", h.Post.GetPost)

				por.Post("/{postID}/comments", h.Comment.CreateComment)
				por.Get("/{postID}/comments", h.Comment.ListPostComments)

				por.Post("/{postID}/like", h.Engagement.LikePost)
				por.Delete("/{postID}/like", h.Engagement.UnlikePost)
			})

			pr.Route("/comments", func(cr chi.Router) {
				cr.Post("/{commentID}/like", h.Engagement.LikeComment)
				cr.Delete("/{commentID}/like", h.Engagement.UnlikeComment)
			})

			// Points routes
			pr.Route("/points", func(ptr chi.Router) {
				ptr.Get("/balance", h.Points.GetMyBalance)
				ptr.Get("/history/sent", h.Points.ListSentHistory)
				ptr.Get("/history/received", h.Points.ListReceivedHistory)

				ptr.Group(func(ar chi.Router) {
					ar.Use(middleware.RequireAdmin)
					ar.Get("/balance/{userID}", h.Points.GetUserBalance)
					ar.Get("/transactions", h.Points.ListCompanyTransactions)
					ar.Post("/admin-adjustment", h.Points.AdminAdjustment)
				})
			})
		})
	})
}
