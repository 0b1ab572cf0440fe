package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/searchlift-backend/internal/http/response"
	"github.com/yungbote/searchlift-backend/internal/requestdata"
	"github.com/yungbote/searchlift-backend/internal/services"
)

type KeywordsHandler struct {
	planner services.KeywordPlanner
}

func NewKeywordsHandler(planner services.KeywordPlanner) *KeywordsHandler {
	return &KeywordsHandler{planner: planner}
}

// Initialize builds (or rebuilds) the caller's keyword universe. Runs the
// full pipeline synchronously; expect several seconds of latency.
func (kh *KeywordsHandler) Initialize(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	view, err := kh.planner.Initialize(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, view)
}

func (kh *KeywordsHandler) Get(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	view, err := kh.planner.Get(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, view)
}

func (kh *KeywordsHandler) Finalize(c *gin.Context) {
	var req struct {
		ItemIDs []string `json:"item_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ids := make([]uuid.UUID, 0, len(req.ItemIDs))
	for _, raw := range req.ItemIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_item_id", err)
			return
		}
		ids = append(ids, id)
	}

	rd := requestdata.GetRequestData(c.Request.Context())
	view, err := kh.planner.FinalizeSelection(c.Request.Context(), rd.UserID, ids)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, view)
}
