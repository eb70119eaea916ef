package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/homepage/internal/auth"
	"github.com/Kerhoff/homepage/internal/media"
	"github.com/Kerhoff/homepage/internal/resume"
	"github.com/Kerhoff/homepage/internal/service"
)

// Options carries the site settings the HTTP layer needs
type Options struct {
	SiteName     string
	SiteTagline  string
	DataDir      string
	TrustedHosts []string
	CORSOrigins  []string
}

// Server provides the HTTP API and serves uploaded media.
type Server struct {
	svc      *service.Service
	resume   *resume.Loader
	gate     *auth.Gate
	opts     Options
	metrics  *Metrics
	validate *validator.Validate
	logger   *logrus.Logger
	mux      *http.ServeMux
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(svc *service.Service, resumeLoader *resume.Loader, gate *auth.Gate, opts Options, metrics *Metrics, logger *logrus.Logger) *Server {
	s := &Server{
		svc:      svc,
		resume:   resumeLoader,
		gate:     gate,
		opts:     opts,
		metrics:  metrics,
		validate: newValidator(),
		logger:   logger,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.instrument(s.recoverer(s.trustedHosts(s.cors(s.mux))))
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/resume", s.handleResume)

	// API – Wish list
	s.mux.HandleFunc("GET /api/wishlist", s.handleListWishes)
	s.mux.HandleFunc("POST /api/wishlist", s.admin(s.handleCreateWish))
	s.mux.HandleFunc("PUT /api/wishlist/{id}", s.admin(s.handleUpdateWish))
	s.mux.HandleFunc("DELETE /api/wishlist/{id}", s.admin(s.handleDeleteWish))
	s.mux.HandleFunc("POST /api/wishlist/{id}/reserve", s.handleReserveWish)
	s.mux.HandleFunc("POST /api/wishlist/{id}/release", s.admin(s.handleReleaseWish))

	// API – Posts
	s.mux.HandleFunc("GET /api/posts", s.handleListPosts)
	s.mux.HandleFunc("POST /api/posts", s.admin(s.handleCreatePost))
	s.mux.HandleFunc("PUT /api/posts/{id}", s.admin(s.handleUpdatePost))
	s.mux.HandleFunc("DELETE /api/posts/{id}", s.admin(s.handleDeletePost))

	// Uploaded media mirrors its path under the data directory. Only the
	// upload subtree is exposed; the database and résumé live next to it.
	files := http.StripPrefix(media.Root+"/", http.FileServer(http.Dir(s.opts.DataDir)))
	s.mux.Handle("GET "+media.Root+"/"+media.WishlistDir+"/", noListing(files))
}

// noListing hides directory indexes
func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// admin wraps a handler with the shared-token check
func (s *Server) admin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.gate.Check(r.Header.Get(auth.HeaderName)); err != nil {
			s.respondServiceError(w, err, "admin check failed")
			return
		}
		next(w, r)
	}
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) respondItem(w http.ResponseWriter, item any) {
	s.respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "item": item})
}

// respondServiceError maps domain errors onto status codes. Anything
// unrecognised is logged and reported as a 500 with the generic message.
func (s *Server) respondServiceError(w http.ResponseWriter, err error, message string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		s.respondError(w, http.StatusUnprocessableEntity, verr.Error())
	case errors.Is(err, errBadRequest):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrConflict):
		s.respondError(w, http.StatusConflict, "already reserved")
	case errors.Is(err, auth.ErrUnconfigured):
		s.respondError(w, http.StatusPreconditionFailed, err.Error())
	case errors.Is(err, auth.ErrUnauthorized):
		s.respondError(w, http.StatusUnauthorized, err.Error())
	default:
		s.logger.WithError(err).Error(message)
		s.respondError(w, http.StatusInternalServerError, message)
	}
}

// pathID extracts the {id} path value and converts it to int64.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	if raw == "" {
		return 0, fmt.Errorf("%w: missing id in path", errBadRequest)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", errBadRequest, raw)
	}
	return id, nil
}

// ---------------------------------------------------------------------------
// Site
// ---------------------------------------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"site":    s.opts.SiteName,
		"tagline": s.opts.SiteTagline,
	})
}

// handleResume returns the résumé together with the wishlist and posts so a
// client can render the whole page from one request.
func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	doc, err := s.resume.Load()
	if err != nil {
		s.respondServiceError(w, err, "failed to load resume")
		return
	}

	wishes, err := s.svc.Wishlist.List(r.Context())
	if err != nil {
		s.respondServiceError(w, err, "failed to list wishlist")
		return
	}

	posts, err := s.svc.Posts.List(r.Context())
	if err != nil {
		s.respondServiceError(w, err, "failed to list posts")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"resume":   doc,
		"wishlist": wishes,
		"posts":    posts,
	})
}

// ---------------------------------------------------------------------------
// Wish List
// ---------------------------------------------------------------------------

func (s *Server) handleListWishes(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Wishlist.List(r.Context())
	if err != nil {
		s.respondServiceError(w, err, "failed to list wishlist")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleCreateWish(w http.ResponseWriter, r *http.Request) {
	in, upload, cleanup, err := s.wishItemCommand(w, r)
	defer cleanup()
	if err != nil {
		s.respondServiceError(w, err, "failed to read wish item")
		return
	}

	item, err := s.svc.Wishlist.Create(r.Context(), in, upload)
	if err != nil {
		s.respondServiceError(w, err, "failed to create wish item")
		return
	}
	s.respondItem(w, item)
}

func (s *Server) handleUpdateWish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondServiceError(w, err, "invalid wish item id")
		return
	}

	in, upload, cleanup, err := s.wishItemCommand(w, r)
	defer cleanup()
	if err != nil {
		s.respondServiceError(w, err, "failed to read wish item")
		return
	}

	item, err := s.svc.Wishlist.Update(r.Context(), id, in, upload)
	if err != nil {
		s.respondServiceError(w, err, "failed to update wish item")
		return
	}
	s.respondItem(w, item)
}

func (s *Server) handleDeleteWish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondServiceError(w, err, "invalid wish item id")
		return
	}

	if err := s.svc.Wishlist.Delete(r.Context(), id); err != nil {
		s.respondServiceError(w, err, "failed to delete wish item")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReserveWish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondServiceError(w, err, "invalid wish item id")
		return
	}

	var req reserveRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.metrics.reservations.WithLabelValues("invalid").Inc()
		s.respondServiceError(w, err, "failed to read reservation")
		return
	}

	item, err := s.svc.Wishlist.Reserve(r.Context(), id, service.ReserveInput{
		Name:    req.Name,
		Contact: req.Contact,
		Note:    req.Note,
	})
	s.metrics.reservations.WithLabelValues(reservationResult(err)).Inc()
	if err != nil {
		s.respondServiceError(w, err, "failed to reserve wish item")
		return
	}
	s.respondItem(w, item)
}

func reservationResult(err error) string {
	switch {
	case err == nil:
		return "reserved"
	case errors.Is(err, service.ErrConflict):
		return "conflict"
	case errors.Is(err, service.ErrNotFound):
		return "not_found"
	case service.IsValidation(err):
		return "invalid"
	default:
		return "error"
	}
}

func (s *Server) handleReleaseWish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondServiceError(w, err, "invalid wish item id")
		return
	}

	item, err := s.svc.Wishlist.Release(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, err, "failed to release wish item")
		return
	}
	s.respondItem(w, item)
}

// ---------------------------------------------------------------------------
// Posts
// ---------------------------------------------------------------------------

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.svc.Posts.List(r.Context())
	if err != nil {
		s.respondServiceError(w, err, "failed to list posts")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"items": posts})
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.respondServiceError(w, err, "failed to read post")
		return
	}

	post, err := s.svc.Posts.Create(r.Context(), service.PostInput{
		Title:   &req.Title,
		Summary: &req.Summary,
		Body:    &req.Body,
		Tags:    &req.Tags,
	})
	if err != nil {
		s.respondServiceError(w, err, "failed to create post")
		return
	}
	s.respondItem(w, post)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondServiceError(w, err, "invalid post id")
		return
	}

	var req updatePostRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.respondServiceError(w, err, "failed to read post")
		return
	}

	post, err := s.svc.Posts.Update(r.Context(), id, service.PostInput{
		Title:   req.Title,
		Summary: req.Summary,
		Body:    req.Body,
		Tags:    req.Tags,
	})
	if err != nil {
		s.respondServiceError(w, err, "failed to update post")
		return
	}
	s.respondItem(w, post)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondServiceError(w, err, "invalid post id")
		return
	}

	if err := s.svc.Posts.Delete(r.Context(), id); err != nil {
		s.respondServiceError(w, err, "failed to delete post")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
