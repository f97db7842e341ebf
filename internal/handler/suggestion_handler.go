package handler

import (
	"net/http"

	"worksync/internal/service"
	"worksync/pkg/response"

	"github.com/gin-gonic/gin"
)

type DeleteSuggestionBody struct {
	SuggestionID uint `json:"suggestion_id" binding:"required"`
}

type SuggestionHandler struct {
	suggestionService service.SuggestionService
}

func NewSuggestionHandler(suggestionService service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestionService: suggestionService}
}

func (h *SuggestionHandler) RegisterRoutes(router *gin.RouterGroup) {
	suggestions := router.Group("/suggestion")
	{
		suggestions.GET("/all", h.ListAll)
		suggestions.POST("", h.Create)
		suggestions.PUT("", h.Update)
		suggestions.POST("/delete", h.Delete)
	}
}

// ListAll returns every suggestion
// @Summary      List suggestions
// @Tags         suggestions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]worksync.ServerSuggestion}
// @Router       /suggestion/all [get]
func (h *SuggestionHandler) ListAll(c *gin.Context) {
	suggestions, err := h.suggestionService.ListAll(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, suggestions))
}

// @Summary      Create suggestion
// @Tags         suggestions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateSuggestionInput  true  "Suggestion"
// @Success      201      {object}  response.Response{data=worksync.ServerSuggestion}
// @Router       /suggestion [post]
func (h *SuggestionHandler) Create(c *gin.Context) {
	var in service.CreateSuggestionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.suggestionService.Create(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, out))
}

// Update edits a suggestion. Only admins may change completed_at.
// @Summary      Update suggestion
// @Tags         suggestions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.UpdateSuggestionInput  true  "Suggestion"
// @Success      200      {object}  response.Response{data=worksync.ServerSuggestion}
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /suggestion [put]
func (h *SuggestionHandler) Update(c *gin.Context) {
	var in service.UpdateSuggestionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.suggestionService.Update(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, out))
}

// @Summary      Delete suggestion
// @Tags         suggestions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      DeleteSuggestionBody  true  "Suggestion id"
// @Success      200      {object}  response.Response
// @Router       /suggestion/delete [post]
func (h *SuggestionHandler) Delete(c *gin.Context) {
	var body DeleteSuggestionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.suggestionService.Delete(c.Request.Context(), actorFrom(c), body.SuggestionID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Suggestion deleted"))
}
