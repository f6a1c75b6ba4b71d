package handlers

import (
	"easyride/internal/services"
	"easyride/internal/utils"
	"easyride/internal/validators"
	"easyride/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService services.ChatService
	logger      *logger.Logger
}

func NewChatHandler(chatService services.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      log,
	}
}

// StartChat returns the existing chat for the ride and user pair or
// creates it.
func (h *ChatHandler) StartChat(c *gin.Context) {
	var req validators.StartChatRequest
	if !bindJSON(c, &req, structValidator(&req)) {
		return
	}

	chatID, err := h.chatService.StartChat(c.Request.Context(), currentUserID(c), req.RideID, req.OtherUserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Chat ready", gin.H{"chat_id": chatID})
}

func (h *ChatHandler) ListChats(c *gin.Context) {
	chats, err := h.chatService.ListChats(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponseWithMeta(c, "Chats retrieved", chats, &utils.Meta{Count: len(chats)})
}

// GetMessages opens the chat, which marks the other participant's
// messages read.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	snapshot, err := h.chatService.OpenChat(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Messages retrieved", snapshot)
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req validators.SendMessageRequest
	if !bindJSON(c, &req, structValidator(&req)) {
		return
	}

	message, err := h.chatService.SendMessage(c.Request.Context(), c.Param("id"), currentUserID(c), req.Content)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.CreatedResponse(c, "Message sent", message)
}

func (h *ChatHandler) RefreshSnapshot(c *gin.Context) {
	chat, err := h.chatService.RefreshSnapshot(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Chat refreshed", chat)
}
