package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wahajaslm/tarco/internal/service"
)

// ClassifyHandler handles classification endpoints.
type ClassifyHandler struct {
	classify *service.ClassifyService
}

// NewClassifyHandler creates a new ClassifyHandler.
func NewClassifyHandler(classify *service.ClassifyService) *ClassifyHandler {
	return &ClassifyHandler{classify: classify}
}

// ClassifyRequest is the body for POST /classify.
type ClassifyRequest struct {
	ProductDescription string `json:"product_description" binding:"required"`
	Origin             string `json:"origin"`
	Destination        string `json:"destination"`
}

// AnswerRequest is the body for POST /classify/answer. The question id
// doubles as the session id.
type AnswerRequest struct {
	QuestionID     string `json:"question_id" binding:"required"`
	SelectedOption string `json:"selected_option" binding:"required"`
}

// Classify handles POST /classify
// @Summary Classify a product description
// @Description Map a free-text product description to a commodity code, or abstain with an optional clarifying question
// @Tags classify
// @Accept json
// @Produce json
// @Param request body ClassifyRequest true "Product description and optional route"
// @Success 200 {object} APIResponse{data=service.ClassifyOutcome} "Classification result"
// @Failure 400 {object} APIResponse "Invalid request"
// @Router /classify [post]
func (h *ClassifyHandler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "product_description is required")
		return
	}

	outcome, err := h.classify.Classify(c.Request.Context(), req.ProductDescription, req.Origin, req.Destination)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, outcome)
}

// Answer handles POST /classify/answer
// @Summary Answer a clarifying question
// @Description Resolve a pending clarification session with a chosen option. Each session can be answered exactly once.
// @Tags classify
// @Accept json
// @Produce json
// @Param request body AnswerRequest true "Question id and selected option"
// @Success 200 {object} APIResponse{data=domain.ClassificationResult} "Resolved classification"
// @Failure 400 {object} APIResponse "Invalid option"
// @Failure 404 {object} APIResponse "Session not found or already answered"
// @Failure 410 {object} APIResponse "Session expired"
// @Router /classify/answer [post]
func (h *ClassifyHandler) Answer(c *gin.Context) {
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "question_id and selected_option are required")
		return
	}

	result, _, err := h.classify.AnswerClarification(c.Request.Context(), req.QuestionID, req.SelectedOption)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}
