package handler

import (
	"strconv"

	"github.com/SORencber/smartpunkt-api/internal/middleware"
	"github.com/SORencber/smartpunkt-api/internal/shop/entity"
	"github.com/SORencber/smartpunkt-api/internal/shop/service"
	"github.com/gin-gonic/gin"
)

// Handlers is the handler collection wired into the router by main.
type Handlers struct {
	Part         *PartHandler
	Branch       *BranchHandler
	BranchPart   *BranchPartHandler
	Notification *NotificationHandler
	Catalog      *CatalogHandler
	Admin        *AdminHandler
}

func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Part:         NewPartHandler(svc.Part),
		Branch:       NewBranchHandler(svc.Branch),
		BranchPart:   NewBranchPartHandler(svc.Sync, svc.Status),
		Notification: NewNotificationHandler(svc.Notification),
		Catalog:      NewCatalogHandler(svc.Catalog),
		Admin:        NewAdminHandler(svc.Sync),
	}
}

// Response is the envelope every endpoint answers with.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Accepted(c *gin.Context, data interface{}) {
	c.JSON(202, Response{
		Code:    0,
		Message: "accepted",
		Data:    data,
	})
}

// Error maps an application code to its HTTP status (40400 -> 404).
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetUserRef builds the audit stamp from the authenticated claims.
func GetUserRef(c *gin.Context) entity.UserRef {
	return entity.UserRef{
		ID:    GetUserID(c),
		Name:  c.GetString("user_name"),
		Email: c.GetString("user_email"),
	}
}

func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}

// branchAccess rejects cross-branch access before any storage is touched.
// Admin and central staff reach every branch; everyone else only their own.
func branchAccess(c *gin.Context, branchID string) bool {
	role := c.GetString("role")
	if role == middleware.RoleAdmin || role == middleware.RoleCentralStaff {
		return true
	}
	if c.GetString("branch_id") == branchID {
		return true
	}
	Forbidden(c, "You do not have access to this branch")
	return false
}
