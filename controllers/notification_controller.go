package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/middleware"
	"github.com/mreimer702/Rettnar/services"
)

// NotificationController maneja las notificaciones generales y de entrega
type NotificationController struct {
	service services.NotificationService
}

// NewNotificationController crea una nueva instancia del controlador
func NewNotificationController(service services.NotificationService) *NotificationController {
	return &NotificationController{service: service}
}

// ---------- Generales (propias) ----------

// ListGeneral maneja GET /api/notifications/general?is_read=
func (ctrl *NotificationController) ListGeneral(c *gin.Context) {
	var q dto.NotificationQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := ctrl.service.ListGeneral(c.Request.Context(), middleware.CurrentUser(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateGeneral maneja PUT /api/notifications/general/:id
func (ctrl *NotificationController) UpdateGeneral(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateNotificationRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := ctrl.service.SetGeneralRead(c.Request.Context(), middleware.CurrentUser(c), id, *req.IsRead)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Notification updated", Data: n})
}

// DeleteGeneral maneja DELETE /api/notifications/general/:id
func (ctrl *NotificationController) DeleteGeneral(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.service.DeleteGeneral(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Notification deleted"})
}

// MarkAllRead maneja PUT /api/notifications/general/mark-all-read
func (ctrl *NotificationController) MarkAllRead(c *gin.Context) {
	updated, err := ctrl.service.MarkAllRead(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "All notifications marked as read",
		Data:    gin.H{"updated": updated},
	})
}

// CountUnread maneja GET /api/notifications/general/count
func (ctrl *NotificationController) CountUnread(c *gin.Context) {
	unread, err := ctrl.service.CountUnread(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UnreadCountResponse{Unread: unread})
}

// ---------- Admin ----------

// CreateGeneral maneja POST /api/notifications/general
func (ctrl *NotificationController) CreateGeneral(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := ctrl.service.CreateGeneral(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SuccessResponse{Message: "Notification created", Data: n})
}

// CreateBulk maneja POST /api/notifications/general/bulk
// Si algún usuario no existe no se crea ninguna
func (ctrl *NotificationController) CreateBulk(c *gin.Context) {
	var req dto.BulkNotificationRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := ctrl.service.CreateBulk(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SuccessResponse{Message: "Notifications created", Data: created})
}

// ListAllGeneral maneja GET /api/notifications/admin/general
func (ctrl *NotificationController) ListAllGeneral(c *gin.Context) {
	var q dto.NotificationQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := ctrl.service.ListAllGeneral(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListAllDelivery maneja GET /api/notifications/admin/delivery
func (ctrl *NotificationController) ListAllDelivery(c *gin.Context) {
	var q dto.NotificationQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := ctrl.service.ListAllDelivery(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateDelivery maneja POST /api/notifications/delivery
func (ctrl *NotificationController) CreateDelivery(c *gin.Context) {
	var req dto.CreateDeliveryNotificationRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := ctrl.service.CreateDelivery(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SuccessResponse{Message: "Delivery notification created", Data: n})
}

// ---------- Entregas (propias) ----------

// ListDelivery maneja GET /api/notifications/delivery?type=
func (ctrl *NotificationController) ListDelivery(c *gin.Context) {
	var q dto.NotificationQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := ctrl.service.ListDelivery(c.Request.Context(), middleware.CurrentUser(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteDelivery maneja DELETE /api/notifications/delivery/:id
func (ctrl *NotificationController) DeleteDelivery(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.service.DeleteDelivery(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Notification deleted"})
}
