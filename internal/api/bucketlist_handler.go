package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/phrazzld/bucketlist-api/internal/api/shared"
	"github.com/phrazzld/bucketlist-api/internal/service"
)

// BucketListHandler serves /bucketlists for the authenticated user.
type BucketListHandler struct {
	lists  service.BucketListService
	logger *slog.Logger
}

// NewBucketListHandler creates a BucketListHandler.
func NewBucketListHandler(lists service.BucketListService, logger *slog.Logger) *BucketListHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BucketListHandler{
		lists:  lists,
		logger: logger.With(slog.String("component", "bucketlist_handler")),
	}
}

// Pagination headers set on list responses.
const (
	headerTotalCount = "X-Total-Count"
	headerPage       = "X-Page"
	headerPerPage    = "X-Per-Page"
)

// List handles GET /bucketlists/?page=&limit=&q=. The body is the requested
// page; the total number of matching lists is reported in X-Total-Count.
func (h *BucketListHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	page, err := h.lists.ListBucketLists(r.Context(), user.ID, parseListQuery(r))
	if err != nil {
		handleReadError(w, r, err)
		return
	}

	out := make([]BucketListResponse, 0, len(page.Lists))
	for _, l := range page.Lists {
		out = append(out, bucketListToResponse(l))
	}
	w.Header().Set(headerTotalCount, strconv.Itoa(page.Total))
	w.Header().Set(headerPage, strconv.Itoa(page.Page))
	w.Header().Set(headerPerPage, strconv.Itoa(page.Limit))
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// Get handles GET /bucketlists/{id}.
func (h *BucketListHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := parseID(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, msgBucketListNotFound)
		return
	}

	list, err := h.lists.GetBucketList(r.Context(), user.ID, id)
	if err != nil {
		handleReadError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, bucketListToResponse(list))
}

// Create handles POST /bucketlists/. The owner is always the caller.
func (h *BucketListHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req CreateBucketListRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		handleMutationError(w, r, err)
		return
	}

	list, err := h.lists.CreateBucketList(r.Context(), user.ID, req.Name)
	if err != nil {
		handleMutationError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, bucketListToResponse(list))
}

// Update handles PUT /bucketlists/{id}.
func (h *BucketListHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := parseID(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, msgBucketIDMissing)
		return
	}

	var req UpdateBucketListRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		handleMutationError(w, r, err)
		return
	}

	list, err := h.lists.RenameBucketList(r.Context(), user.ID, id, *req.Name)
	if err != nil {
		handleMutationError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, bucketListToResponse(list))
}

// Delete handles DELETE /bucketlists/{id}. Items go with the list.
func (h *BucketListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := parseID(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, msgBucketListNotFound)
		return
	}

	if err := h.lists.DeleteBucketList(r.Context(), user.ID, id); err != nil {
		handleMutationError(w, r, err)
		return
	}
	shared.RespondNoContent(w)
}
