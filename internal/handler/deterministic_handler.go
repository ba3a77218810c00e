package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wahajaslm/tarco/internal/port"
	"github.com/wahajaslm/tarco/internal/service"
)

// DeterministicHandler handles deterministic payload endpoints.
type DeterministicHandler struct {
	builder   *service.BuilderService
	explainer port.Explainer
}

// NewDeterministicHandler creates a new DeterministicHandler.
func NewDeterministicHandler(builder *service.BuilderService, explainer port.Explainer) *DeterministicHandler {
	return &DeterministicHandler{builder: builder, explainer: explainer}
}

// DeterministicRequest is the body for POST /deterministic.
type DeterministicRequest struct {
	Code               string `json:"hs_code" binding:"required"`
	Origin             string `json:"origin" binding:"required"`
	Destination        string `json:"destination" binding:"required"`
	ProductDescription string `json:"product_description"`
}

// Build handles POST /deterministic
// @Summary Build a deterministic compliance payload
// @Description Assemble nomenclature, measures, VAT, and rate resolution for a known commodity code and route. Every value traces to a reference-store row.
// @Tags deterministic
// @Accept json
// @Produce json
// @Param request body DeterministicRequest true "Code and route"
// @Success 200 {object} APIResponse{data=domain.ComplianceResponse} "Compliance payload"
// @Failure 400 {object} APIResponse "Invalid code or country"
// @Failure 404 {object} APIResponse "Code not found"
// @Failure 422 {object} APIResponse "Payload failed structural validation"
// @Failure 503 {object} APIResponse "Reference store unreachable"
// @Router /deterministic [post]
func (h *DeterministicHandler) Build(c *gin.Context) {
	var req DeterministicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "hs_code, origin, and destination are required")
		return
	}

	resp, err := h.builder.Build(c.Request.Context(), req.Code, req.Origin, req.Destination, req.ProductDescription)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, resp)
}

// Explain handles POST /deterministic/explain
// @Summary Build and annotate a compliance payload
// @Description Build the deterministic payload and attach guarded human-readable annotations. Annotation failure never blocks the payload.
// @Tags deterministic
// @Accept json
// @Produce json
// @Param request body DeterministicRequest true "Code and route"
// @Success 200 {object} APIResponse{data=domain.ComplianceResponse} "Annotated compliance payload"
// @Failure 400 {object} APIResponse "Invalid code or country"
// @Failure 404 {object} APIResponse "Code not found"
// @Failure 422 {object} APIResponse "Payload failed structural validation"
// @Router /deterministic/explain [post]
func (h *DeterministicHandler) Explain(c *gin.Context) {
	var req DeterministicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "hs_code, origin, and destination are required")
		return
	}

	resp, err := h.builder.Build(c.Request.Context(), req.Code, req.Origin, req.Destination, req.ProductDescription)
	if err != nil {
		HandleError(c, err)
		return
	}

	if h.explainer != nil {
		if annotations, err := h.explainer.Annotate(c.Request.Context(), resp); err == nil {
			resp.Annotations = annotations
		}
	}

	RespondOK(c, resp)
}
