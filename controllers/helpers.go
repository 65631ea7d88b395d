package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/logger"
	"github.com/mreimer702/Rettnar/services"
)

// respondError traduce el tipo de error del servicio a un código HTTP.
// Lo que no es un services.Error se loguea y se devuelve como 500 sin detalles.
func respondError(c *gin.Context, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		logger.FromContext(c.Request.Context()).WithError(err).Errorf("Unexpected error on %s %s", c.Request.Method, c.FullPath())
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: "internal server error",
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(svcErr.Kind, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(svcErr.Kind, services.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(svcErr.Kind, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(svcErr.Kind, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(svcErr.Kind, services.ErrConflict):
		status = http.StatusConflict
	}
	c.JSON(status, dto.ErrorResponse{Error: svcErr.Kind.Error(), Message: svcErr.Message})
}

func validationFailed(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "validation_error",
		Message: message,
	})
}

// bindJSON lee el body; si falla ya respondió 400
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		validationFailed(c, err.Error())
		return false
	}
	return true
}

// bindQuery lee la query string; números inválidos terminan en 400
func bindQuery(c *gin.Context, q interface{}) bool {
	if err := c.ShouldBindQuery(q); err != nil {
		validationFailed(c, err.Error())
		return false
	}
	return true
}

// parseID lee un parámetro de la URL como ID positivo
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		validationFailed(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// pageQuery lee page y per_page
func pageQuery(c *gin.Context) (dto.PageQuery, bool) {
	var q dto.PageQuery
	ok := bindQuery(c, &q)
	return q, ok
}
