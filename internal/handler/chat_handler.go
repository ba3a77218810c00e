package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wahajaslm/tarco/internal/service"
)

// ChatHandler handles conversational trade query endpoints.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// ChatRequest is the body for POST /chat/resolve.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// Resolve handles POST /chat/resolve
// @Summary Resolve a free-text trade query
// @Description Extract parameters from a natural-language message, classify the product, and build the compliance payload when a full route is present
// @Tags chat
// @Accept json
// @Produce json
// @Param request body ChatRequest true "Free-text trade query"
// @Success 200 {object} APIResponse{data=service.ChatOutcome} "Resolution outcome"
// @Failure 400 {object} APIResponse "Invalid request"
// @Router /chat/resolve [post]
func (h *ChatHandler) Resolve(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "message is required")
		return
	}

	outcome, err := h.chat.Resolve(c.Request.Context(), req.Message)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, outcome)
}

// Answer handles POST /chat/answer
// @Summary Answer a chat clarifying question
// @Description Resolve the pending clarification and complete the original query's compliance payload
// @Tags chat
// @Accept json
// @Produce json
// @Param request body AnswerRequest true "Question id and selected option"
// @Success 200 {object} APIResponse{data=service.ChatOutcome} "Resolution outcome"
// @Failure 400 {object} APIResponse "Invalid option"
// @Failure 404 {object} APIResponse "Session not found or already answered"
// @Router /chat/answer [post]
func (h *ChatHandler) Answer(c *gin.Context) {
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "question_id and selected_option are required")
		return
	}

	outcome, err := h.chat.Answer(c.Request.Context(), req.QuestionID, req.SelectedOption)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, outcome)
}
