package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/logger"
	"github.com/mreimer702/Rettnar/middleware"
	"github.com/mreimer702/Rettnar/services"
)

// maxUploadBytes es el tamaño máximo de un archivo subido
const maxUploadBytes = 10 << 20

// ImageController maneja las imágenes de los listings
type ImageController struct {
	service services.ImageService
}

// NewImageController crea una nueva instancia del controlador
func NewImageController(service services.ImageService) *ImageController {
	return &ImageController{service: service}
}

// List maneja GET /api/listings/:id/images
func (ctrl *ImageController) List(c *gin.Context) {
	listingID, ok := parseID(c, "id")
	if !ok {
		return
	}
	images, err := ctrl.service.List(c.Request.Context(), listingID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, images)
}

// Add maneja POST /api/listings/:id/images (por URL)
func (ctrl *ImageController) Add(c *gin.Context) {
	listingID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AddImageRequest
	if !bindJSON(c, &req) {
		return
	}
	image, err := ctrl.service.Add(c.Request.Context(), middleware.CurrentUser(c), listingID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SuccessResponse{Message: "Image added successfully", Data: image})
}

// AddBulk maneja POST /api/listings/:id/images/bulk
func (ctrl *ImageController) AddBulk(c *gin.Context) {
	listingID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.BulkImagesRequest
	if !bindJSON(c, &req) {
		return
	}
	images, err := ctrl.service.AddBulk(c.Request.Context(), middleware.CurrentUser(c), listingID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SuccessResponse{Message: "Images added successfully", Data: images})
}

// Upload maneja POST /api/listings/:id/images/upload (multipart, campo "file")
func (ctrl *ImageController) Upload(c *gin.Context) {
	// 1. Validar el ID del listing
	listingID, ok := parseID(c, "id")
	if !ok {
		return
	}

	// 2. Leer el archivo del form
	header, err := c.FormFile("file")
	if err != nil {
		validationFailed(c, "file is required")
		return
	}
	if header.Size > maxUploadBytes {
		validationFailed(c, "file is too large (max 10 MB)")
		return
	}
	file, err := header.Open()
	if err != nil {
		validationFailed(c, "could not read uploaded file")
		return
	}
	defer file.Close()

	// 3. Guardarlo en el blob store
	image, err := ctrl.service.Upload(c.Request.Context(), middleware.CurrentUser(c), listingID, services.UploadedFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{Message: "Image uploaded successfully", Data: image})
}

// Get maneja GET /api/images/:id
func (ctrl *ImageController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	image, err := ctrl.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, image)
}

// File maneja GET /api/images/:id/file y transmite el archivo subido
func (ctrl *ImageController) File(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	body, contentType, err := ctrl.service.OpenFile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	defer func() {
		if err := body.Close(); err != nil {
			logger.FromContext(c.Request.Context()).Warnf("Closing image %d blob: %v", id, err)
		}
	}()
	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, -1, contentType, body, nil)
}

// Update maneja PUT /api/images/:id
func (ctrl *ImageController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateImageRequest
	if !bindJSON(c, &req) {
		return
	}
	image, err := ctrl.service.Update(c.Request.Context(), middleware.CurrentUser(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Image updated successfully", Data: image})
}

// Delete maneja DELETE /api/images/:id
func (ctrl *ImageController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.service.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Image deleted successfully"})
}

// SetPrimary maneja PUT /api/images/:id/set-primary
func (ctrl *ImageController) SetPrimary(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	image, err := ctrl.service.SetPrimary(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Primary image updated", Data: image})
}
