package handler

import (
	"net/http"

	"worksync/internal/middleware"
	"worksync/internal/model"
	"worksync/internal/service"
	"worksync/pkg/response"
	"worksync/pkg/worksync"

	"github.com/gin-gonic/gin"
)

type DeleteProductBody struct {
	ProductID uint `json:"product_id" binding:"required"`
}

type InventoryHandler struct {
	inventoryService service.InventoryService
}

func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/product")
	{
		products.GET("/all", h.GetProducts)
		products.POST("", middleware.RequireRole(model.RoleAdmin), h.CreateProduct)
		products.PUT("", middleware.RequireRole(model.RoleAdmin), h.UpdateProduct)
		products.POST("/delete", middleware.RequireRole(model.RoleAdmin), h.DeleteProduct)
	}
}

// GetProducts handles retrieving the catalog with current stock
// @Summary      Get products
// @Description  Retrieves every product ordered by title
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Success      200    {object}  response.Response{data=[]worksync.Product}
// @Failure      500    {object}  response.Response
// @Router       /product/all [get]
func (h *InventoryHandler) GetProducts(c *gin.Context) {
	products, err := h.inventoryService.GetProducts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, products))
}

// CreateProduct creates a new inventory product entry
// @Summary      Create product
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      worksync.Product  true  "Product"
// @Success      201      {object}  response.Response{data=worksync.Product}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /product [post]
func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	var p worksync.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.inventoryService.CreateProduct(c.Request.Context(), actorFrom(c), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, out))
}

// UpdateProduct replaces a product's fields
// @Summary      Update product
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      worksync.Product  true  "Product"
// @Success      200      {object}  response.Response{data=worksync.Product}
// @Failure      404      {object}  response.Response
// @Router       /product [put]
func (h *InventoryHandler) UpdateProduct(c *gin.Context) {
	var p worksync.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.inventoryService.UpdateProduct(c.Request.Context(), actorFrom(c), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, out))
}

// DeleteProduct removes a product
// @Summary      Delete product
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      DeleteProductBody  true  "Product id"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /product/delete [post]
func (h *InventoryHandler) DeleteProduct(c *gin.Context) {
	var body DeleteProductBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.inventoryService.DeleteProduct(c.Request.Context(), actorFrom(c), body.ProductID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Product deleted"))
}
