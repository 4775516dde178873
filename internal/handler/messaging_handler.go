package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/datera/datera-backend/internal/app"
	"github.com/datera/datera-backend/internal/entitlement"
	"github.com/datera/datera-backend/internal/service/messaging"
)

// MessagingHandler exposes the gated send-message flow and thread
// history over HTTP.
type MessagingHandler struct {
	svc *messaging.Service
}

// NewMessagingHandler wires the messaging service into a handler.
func NewMessagingHandler(appCtx *app.AppContext, oracle entitlement.Oracle) *MessagingHandler {
	return &MessagingHandler{svc: messaging.NewService(appCtx, oracle)}
}

// Register attaches the messaging routes to the engine.
func (h *MessagingHandler) Register(r *gin.Engine) {
	v1 := r.Group("/v1")
	v1.POST("/messages", h.SendMessage)
	v1.GET("/messages", h.ListMessages)
}

// SendMessage runs the gated send flow; a spent quota without
// entitlement comes back as 402 with a paywall marker.
func (h *MessagingHandler) SendMessage(c *gin.Context) {
	var req struct {
		SenderUserID    uint64 `json:"sender_user_id" binding:"required"`
		RecipientUserID uint64 `json:"recipient_user_id" binding:"required"`
		Body            string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	msg, err := h.svc.SendMessage(c.Request.Context(), req.SenderUserID, req.RecipientUserID, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, gin.H{
		"id":         msg.ID,
		"thread_id":  msg.ThreadID,
		"body":       msg.Body,
		"created_at": msg.CreatedAt,
	})
}

// ListMessages returns the history between user_id and other_user_id.
func (h *MessagingHandler) ListMessages(c *gin.Context) {
	userID, ok := queryUserID(c, "user_id")
	if !ok {
		return
	}
	otherID, ok := queryUserID(c, "other_user_id")
	if !ok {
		return
	}

	page, err := h.svc.ListMessages(c.Request.Context(), userID, otherID, paginationToken(c), pageSize(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, page)
}

func queryUserID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil || id == 0 {
		respondBadRequest(c, name+" must be a valid user id")
		return 0, false
	}
	return id, true
}
