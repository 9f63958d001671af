package comment

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/peer-recognition/internal"
	"github.com/frahmantamala/peer-recognition/internal/auth"
	"github.com/frahmantamala/peer-recognition/internal/ledger"
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

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	requester, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	var dto ledger.CreateCommentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dto.PostID = postID

	view, err := h.Service.CreateComment(r.Context(), requester, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, view)
}

func (h *Handler) ListPostComments(w http.ResponseWriter, r *http.Request) {
	requester, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	views, err := h.Service.ListPostComments(r.Context(), requester, postID, internal.PaginationFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, views)
}
