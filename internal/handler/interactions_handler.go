package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/datera/datera-backend/internal/app"
	"github.com/datera/datera-backend/internal/service/interactions"
)

const defaultPageSize = 20
const maxPageSize = 100

// InteractionsHandler exposes the swipe ledger, match listing, and likes
// inbox over HTTP.
type InteractionsHandler struct {
	svc *interactions.Service
}

// NewInteractionsHandler wires the interactions service into a handler.
func NewInteractionsHandler(appCtx *app.AppContext) *InteractionsHandler {
	return &InteractionsHandler{svc: interactions.NewService(appCtx)}
}

// Register attaches the interaction routes to the engine.
func (h *InteractionsHandler) Register(r *gin.Engine) {
	v1 := r.Group("/v1")
	v1.PUT("/swipes", h.PutSwipe)
	v1.GET("/users/:id/likes", h.ListLikedYou)
	v1.GET("/users/:id/likes/new", h.ListNewLikedYou)
	v1.GET("/users/:id/likes/count", h.CountLikedYou)
	v1.GET("/users/:id/matches", h.ListMatches)
}

// PutSwipe records a like/dislike and reports whether it completed a
// mutual match.
func (h *InteractionsHandler) PutSwipe(c *gin.Context) {
	var req struct {
		ActorUserID  uint64 `json:"actor_user_id" binding:"required"`
		TargetUserID uint64 `json:"target_user_id" binding:"required"`
		Liked        *bool  `json:"liked" binding:"required"`
		Reaction     string `json:"reaction"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	res, err := h.svc.RecordSwipe(c.Request.Context(), req.ActorUserID, req.TargetUserID, *req.Liked, req.Reaction)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, res)
}

func (h *InteractionsHandler) ListLikedYou(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	page, err := h.svc.ListLikedYou(c.Request.Context(), userID, paginationToken(c), pageSize(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, page)
}

func (h *InteractionsHandler) ListNewLikedYou(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	page, err := h.svc.ListNewLikedYou(c.Request.Context(), userID, paginationToken(c), pageSize(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, page)
}

func (h *InteractionsHandler) CountLikedYou(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	count, err := h.svc.CountLikedYou(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"count": count})
}

func (h *InteractionsHandler) ListMatches(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	matches, err := h.svc.ListMatches(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"matches": matches})
}

// --- shared request parsing helpers ---

// pathUserID parses the :id path segment; on failure it writes the 400
// itself and returns ok=false.
func pathUserID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondBadRequest(c, "id must be a valid user id")
		return 0, false
	}
	return id, true
}

func paginationToken(c *gin.Context) *string {
	if token := c.Query("pagination_token"); token != "" {
		return &token
	}
	return nil
}

func pageSize(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n <= 0 {
		return defaultPageSize
	}
	if n > maxPageSize {
		return maxPageSize
	}
	return n
}
