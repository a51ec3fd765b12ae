package handlers

import (
	"errors"
	"net/http"

	"pos-service/internal/models"
	"pos-service/internal/services"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	products *services.ProductService
}

func NewProductHandler(products *services.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// CreateProduct godoc
// @Summary Add a product to the catalog
// @Tags products
// @Accept json
// @Produce json
// @Param product body models.CreateProductRequest true "Product to create"
// @Success 201 {object} models.ProductResponse
// @Security BearerAuth
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.products.CreateProduct(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}
	c.JSON(http.StatusCreated, product.ToResponse())
}

// UpdateProduct godoc
// @Summary Update a catalog entry
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body models.UpdateProductRequest true "Fields to update"
// @Success 200 {object} models.ProductResponse
// @Security BearerAuth
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.products.UpdateProduct(productID, &req)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
		return
	}
	c.JSON(http.StatusOK, product.ToResponse())
}

// DeleteProduct godoc
// @Summary Remove a product from the catalog
// @Tags products
// @Param id path int true "Product ID"
// @Success 204
// @Security BearerAuth
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.products.DeleteProduct(productID); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleAvailability godoc
// @Summary Mark a product available or sold out
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param availability body models.ToggleAvailabilityRequest true "Availability flag"
// @Success 200 {object} models.ProductResponse
// @Security BearerAuth
// @Router /products/{id}/availability [put]
func (h *ProductHandler) ToggleAvailability(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.ToggleAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.products.SetAvailability(productID, *req.Available)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle availability"})
		return
	}
	c.JSON(http.StatusOK, product.ToResponse())
}

// ListProducts godoc
// @Summary List the full catalog, including unavailable products
// @Tags products
// @Produce json
// @Success 200 {array} models.ProductResponse
// @Security BearerAuth
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.products.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// ListAvailableProducts godoc
// @Summary List only products currently orderable
// @Tags products
// @Produce json
// @Success 200 {array} models.ProductResponse
// @Router /products/available [get]
func (h *ProductHandler) ListAvailableProducts(c *gin.Context) {
	products, err := h.products.ListAvailable(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list available products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetMenu godoc
// @Summary Menu of available products grouped by category
// @Tags products
// @Produce json
// @Success 200 {object} models.MenuResponse
// @Router /menu [get]
func (h *ProductHandler) GetMenu(c *gin.Context) {
	menu, err := h.products.GetMenu(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load menu"})
		return
	}
	c.JSON(http.StatusOK, menu)
}
