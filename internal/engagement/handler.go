package engagement

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/peer-recognition/internal/auth"
	"github.com/frahmantamala/peer-recognition/internal/transport"
	"github.com/frahmantamala/peer-recognition/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     svc,
	}
}

type likeOp func(*Service, *http.Request, *auth.User, int64) (*LikeResult, error)

func (h *Handler) handleLike(w http.ResponseWriter, r *http.Request, param string, op likeOp) {
	requester, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}

	result, err := op(h.Service, r, requester, targetID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) {
	h.handleLike(w, r, "postID", func(s *Service, r *http.Request, u *auth.User, id int64) (*LikeResult, error) {
		return s.LikePost(r.Context(), u, id)
	})
}

func (h *Handler) UnlikePost(w http.ResponseWriter, r *http.Request) {
	h.handleLike(w, r, "postID", func(s *Service, r *http.Request, u *auth.User, id int64) (*LikeResult, error) {
		return s.UnlikePost(r.Context(), u, id)
	})
}

func (h *Handler) LikeComment(w http.ResponseWriter, r *http.Request) {
	h.handleLike(w, r, "commentID", func(s *Service, r *http.Request, u *auth.User, id int64) (*LikeResult, error) {
		return s.LikeComment(r.Context(), u, id)
	})
}

func (h *Handler) UnlikeComment(w http.ResponseWriter, r *http.Request) {
	h.handleLike(w, r, "commentID", func(s *Service, r *http.Request, u *auth.User, id int64) (*LikeResult, error) {
		return s.UnlikeComment(r.Context(), u, id)
	})
}
