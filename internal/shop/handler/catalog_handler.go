package handler

import (
	"github.com/SORencber/smartpunkt-api/internal/shop/service"
	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the classification reference tables.
type CatalogHandler struct {
	svc *service.CatalogService
}

func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) CreateBrand(c *gin.Context) {
	var req service.CreateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	brand, err := h.svc.CreateBrand(c.Request.Context(), &req)
	if err != nil {
		BadRequest(c, "Create failed: "+err.Error())
		return
	}
	Created(c, brand)
}

func (h *CatalogHandler) ListBrands(c *gin.Context) {
	brands, err := h.svc.ListBrands(c.Request.Context())
	if err != nil {
		InternalError(c, "List failed: "+err.Error())
		return
	}
	Success(c, gin.H{"items": brands})
}

func (h *CatalogHandler) CreateDeviceType(c *gin.Context) {
	var req service.CreateDeviceTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	dt, err := h.svc.CreateDeviceType(c.Request.Context(), &req)
	if err != nil {
		BadRequest(c, "Create failed: "+err.Error())
		return
	}
	Created(c, dt)
}

func (h *CatalogHandler) ListDeviceTypes(c *gin.Context) {
	types, err := h.svc.ListDeviceTypes(c.Request.Context())
	if err != nil {
		InternalError(c, "List failed: "+err.Error())
		return
	}
	Success(c, gin.H{"items": types})
}

func (h *CatalogHandler) CreateModel(c *gin.Context) {
	var req service.CreateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	model, err := h.svc.CreateModel(c.Request.Context(), &req)
	if err != nil {
		BadRequest(c, "Create failed: "+err.Error())
		return
	}
	Created(c, model)
}

func (h *CatalogHandler) ListModels(c *gin.Context) {
	models, err := h.svc.ListModels(c.Request.Context(), c.Query("brand_id"))
	if err != nil {
		InternalError(c, "List failed: "+err.Error())
		return
	}
	Success(c, gin.H{"items": models})
}
