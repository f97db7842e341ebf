package handler

import (
	"net/http"

	"worksync/internal/service"
	"worksync/pkg/response"

	"github.com/gin-gonic/gin"
)

type DeleteRequestBody struct {
	RequestID uint `json:"request_id" binding:"required"`
}

type RequestHandler struct {
	requestService service.RequestService
}

func NewRequestHandler(requestService service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// RegisterRoutes expects an authenticated router group
func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/request")
	{
		requests.GET("/all", h.ListAll)
		requests.GET("", h.ListMine)
		requests.POST("", h.Create)
		requests.PUT("", h.Update)
		requests.POST("/delete", h.Delete)
	}
}

// ListAll returns every request
// @Summary      List all requests
// @Description  Admins see every requester; employees see anonymous requests of others masked
// @Tags         requests
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]worksync.ServerRequest}
// @Failure      401  {object}  response.Response
// @Router       /request/all [get]
func (h *RequestHandler) ListAll(c *gin.Context) {
	requests, err := h.requestService.ListAll(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}

// ListMine returns the caller's own requests
// @Summary      List my requests
// @Tags         requests
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]worksync.ServerRequest}
// @Router       /request [get]
func (h *RequestHandler) ListMine(c *gin.Context) {
	requests, err := h.requestService.ListMine(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}

// Create submits a new request in pending status
// @Summary      Create request
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateRequestInput  true  "Request"
// @Success      201      {object}  response.Response{data=worksync.ServerRequest}
// @Failure      400      {object}  response.Response
// @Router       /request [post]
func (h *RequestHandler) Create(c *gin.Context) {
	var in service.CreateRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.requestService.Create(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, out))
}

// Update edits a request or moves it through its lifecycle
// @Summary      Update request
// @Description  Admin status changes follow pending->approved|denied, approved->ordered, ordered->delivered. A positive amount on delivery is added to the product stock.
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.UpdateRequestInput  true  "Request"
// @Success      200      {object}  response.Response{data=worksync.ServerRequest}
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /request [put]
func (h *RequestHandler) Update(c *gin.Context) {
	var in service.UpdateRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.requestService.Update(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, out))
}

// Delete removes a request
// @Summary      Delete request
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      DeleteRequestBody  true  "Request id"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /request/delete [post]
func (h *RequestHandler) Delete(c *gin.Context) {
	var body DeleteRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.requestService.Delete(c.Request.Context(), actorFrom(c), body.RequestID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Request deleted"))
}
