package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	types "github.com/yungbote/searchlift-backend/internal/domain"
	"github.com/yungbote/searchlift-backend/internal/http/response"
	"github.com/yungbote/searchlift-backend/internal/requestdata"
	"github.com/yungbote/searchlift-backend/internal/services"
)

type ProfileHandler struct {
	profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (ph *ProfileHandler) Get(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	profile, err := ph.profileService.Get(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, profile)
}

func (ph *ProfileHandler) Upsert(c *gin.Context) {
	var req struct {
		BusinessName        string   `json:"business_name"`
		WebsiteURL          string   `json:"website_url"`
		Description         string   `json:"description"`
		Offerings           []string `json:"offerings"`
		Differentiators     []string `json:"differentiators"`
		LocationScope       string   `json:"location_scope"`
		Locations           []string `json:"locations"`
		CustomerDescription string   `json:"customer_description"`
		SearchIntents       []string `json:"search_intents"`
		SeedKeywords        []string `json:"seed_keywords"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	rd := requestdata.GetRequestData(c.Request.Context())
	profile := types.BusinessProfile{
		BusinessName:        req.BusinessName,
		WebsiteURL:          req.WebsiteURL,
		Description:         req.Description,
		Offerings:           jsonList(req.Offerings),
		Differentiators:     jsonList(req.Differentiators),
		LocationScope:       req.LocationScope,
		Locations:           jsonList(req.Locations),
		CustomerDescription: req.CustomerDescription,
		SearchIntents:       jsonList(req.SearchIntents),
		SeedKeywords:        jsonList(req.SeedKeywords),
	}
	saved, err := ph.profileService.Upsert(c.Request.Context(), rd.UserID, &profile)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, saved)
}

func jsonList(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return datatypes.JSON(b)
}
