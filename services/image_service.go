package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/logger"
	"github.com/mreimer702/Rettnar/repositories"
)

// UploadedFile es el archivo recibido en el multipart
type UploadedFile struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// ImageService maneja las imágenes de los listings.
// Siempre hay exactamente una imagen principal por listing con imágenes.
type ImageService interface {
	List(ctx context.Context, listingID uint) ([]domain.Image, error)
	Get(ctx context.Context, id uint) (*domain.Image, error)
	Add(ctx context.Context, actor *domain.User, listingID uint, req dto.AddImageRequest) (*domain.Image, error)
	AddBulk(ctx context.Context, actor *domain.User, listingID uint, req dto.BulkImagesRequest) ([]domain.Image, error)
	Upload(ctx context.Context, actor *domain.User, listingID uint, file UploadedFile) (*domain.Image, error)
	OpenFile(ctx context.Context, id uint) (io.ReadCloser, string, error)
	Update(ctx context.Context, actor *domain.User, id uint, req dto.UpdateImageRequest) (*domain.Image, error)
	Delete(ctx context.Context, actor *domain.User, id uint) error
	SetPrimary(ctx context.Context, actor *domain.User, id uint) (*domain.Image, error)
}

type imageService struct {
	images   repositories.ImageRepository
	listings repositories.ListingRepository
	blobs    repositories.BlobRepository
	cache    repositories.CacheRepository
}

// NewImageService crea una nueva instancia del servicio
func NewImageService(images repositories.ImageRepository, listings repositories.ListingRepository, blobs repositories.BlobRepository, cache repositories.CacheRepository) ImageService {
	return &imageService{images: images, listings: listings, blobs: blobs, cache: cache}
}

// List devuelve las imágenes de un listing existente
func (s *imageService) List(ctx context.Context, listingID uint) ([]domain.Image, error) {
	if _, err := s.listings.GetByID(ctx, listingID); err != nil {
		return nil, notFoundOr(err, "listing")
	}
	images, err := s.images.ListByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if images == nil {
		images = []domain.Image{}
	}
	return images, nil
}

// Get busca una imagen
func (s *imageService) Get(ctx context.Context, id uint) (*domain.Image, error) {
	img, err := s.images.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "image")
	}
	return img, nil
}

// Add agrega una imagen por URL o subiendo el archivo; solo el dueño o un admin
func (s *imageService) Add(ctx context.Context, actor *domain.User, listingID uint, req dto.AddImageRequest) (*domain.Image, error) {
	images, err := s.AddBulk(ctx, actor, listingID, dto.BulkImagesRequest{Images: []dto.AddImageRequest{req}})
	if err != nil {
		return nil, err
	}
	return &images[0], nil
}

// AddBulk inserta todas las imágenes juntas. Solo la primera marcada como principal queda principal.
func (s *imageService) AddBulk(ctx context.Context, actor *domain.User, listingID uint, req dto.BulkImagesRequest) ([]domain.Image, error) {
	if len(req.Images) == 0 {
		return nil, validationError("at least one image is required")
	}
	existing, err := s.authorize(ctx, actor, listingID)
	if err != nil {
		return nil, err
	}

	// 1. Armar las filas, todas sin principal
	rows := make([]*domain.Image, 0, len(req.Images))
	primary := -1
	for i, in := range req.Images {
		url := strings.TrimSpace(in.URL)
		if url == "" {
			return nil, validationError("image url is required")
		}
		if in.IsPrimary && primary < 0 {
			primary = i
		}
		rows = append(rows, &domain.Image{ListingID: listingID, URL: url})
	}
	// 2. Sin imágenes previas, la primera pasa a ser la principal
	if primary < 0 && len(existing) == 0 {
		primary = 0
	}

	if err := s.images.Create(ctx, rows...); err != nil {
		return nil, err
	}
	if primary >= 0 {
		if err := s.images.SetPrimary(ctx, listingID, rows[primary].ID); err != nil {
			return nil, err
		}
		rows[primary].IsPrimary = true
	}

	invalidateListing(ctx, s.cache, listingID)
	out := make([]domain.Image, len(rows))
	for i, r := range rows {
		out[i] = *r
	}
	return out, nil
}

// Upload guarda el archivo en el blob store y crea la imagen que lo sirve
func (s *imageService) Upload(ctx context.Context, actor *domain.User, listingID uint, file UploadedFile) (*domain.Image, error) {
	if !s.blobs.Enabled() {
		return nil, validationError("file uploads are not enabled")
	}
	existing, err := s.authorize(ctx, actor, listingID)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType := file.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mime.TypeByExtension(ext)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, validationError("file must be an image")
	}

	// 1. Subir el archivo
	key := fmt.Sprintf("listings/%d/%s%s", listingID, uuid.NewString(), ext)
	if err := s.blobs.Put(ctx, key, contentType, file.Body); err != nil {
		return nil, err
	}

	// 2. Crear la fila; la URL necesita el id
	img := &domain.Image{ListingID: listingID, URL: "pending", BlobKey: key, ContentType: contentType}
	if err := s.images.Create(ctx, img); err != nil {
		s.discardBlob(ctx, key)
		return nil, err
	}
	img.URL = fmt.Sprintf("/api/images/%d/file", img.ID)
	if err := s.images.Update(ctx, img); err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		if err := s.images.SetPrimary(ctx, listingID, img.ID); err != nil {
			return nil, err
		}
		img.IsPrimary = true
	}

	invalidateListing(ctx, s.cache, listingID)
	logger.FromContext(ctx).Infof("Image uploaded: id=%d listing=%d key=%s", img.ID, listingID, key)
	return img, nil
}

// OpenFile abre el archivo guardado de una imagen y devuelve su content type
func (s *imageService) OpenFile(ctx context.Context, id uint) (io.ReadCloser, string, error) {
	img, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if img.BlobKey == "" {
		return nil, "", notFoundError("image has no uploaded file")
	}
	rc, err := s.blobs.Open(ctx, img.BlobKey)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", notFoundError("image file not found")
		}
		return nil, "", err
	}
	return rc, img.ContentType, nil
}

// Update edita una imagen; solo el dueño o un admin
func (s *imageService) Update(ctx context.Context, actor *domain.User, id uint, req dto.UpdateImageRequest) (*domain.Image, error) {
	img, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	images, err := s.authorize(ctx, actor, img.ListingID)
	if err != nil {
		return nil, err
	}

	if req.URL != nil {
		url := strings.TrimSpace(*req.URL)
		if url == "" {
			return nil, validationError("image url cannot be empty")
		}
		img.URL = url
		if err := s.images.Update(ctx, img); err != nil {
			return nil, err
		}
	}

	if req.IsPrimary != nil && *req.IsPrimary != img.IsPrimary {
		if *req.IsPrimary {
			err = s.images.SetPrimary(ctx, img.ListingID, img.ID)
		} else {
			// Se promueve la imagen más antigua; si es la única sigue siendo principal
			if next := oldestOther(images, img.ID); next != nil {
				err = s.images.SetPrimary(ctx, img.ListingID, next.ID)
			}
		}
		if err != nil {
			return nil, err
		}
	}

	invalidateListing(ctx, s.cache, img.ListingID)
	return s.Get(ctx, id)
}

// Delete borra la imagen y su archivo; solo el dueño o un admin
func (s *imageService) Delete(ctx context.Context, actor *domain.User, id uint) error {
	img, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	images, err := s.authorize(ctx, actor, img.ListingID)
	if err != nil {
		return err
	}

	if err := s.images.Delete(ctx, id); err != nil {
		return notFoundOr(err, "image")
	}
	if img.IsPrimary {
		if next := oldestOther(images, img.ID); next != nil {
			if err := s.images.SetPrimary(ctx, img.ListingID, next.ID); err != nil {
				return err
			}
		}
	}
	if img.BlobKey != "" {
		s.discardBlob(ctx, img.BlobKey)
	}

	invalidateListing(ctx, s.cache, img.ListingID)
	return nil
}

// SetPrimary marca la imagen como principal del listing
func (s *imageService) SetPrimary(ctx context.Context, actor *domain.User, id uint) (*domain.Image, error) {
	primary := true
	return s.Update(ctx, actor, id, dto.UpdateImageRequest{IsPrimary: &primary})
}

// authorize verifica que el actor pueda modificar el listing y devuelve sus imágenes actuales
func (s *imageService) authorize(ctx context.Context, actor *domain.User, listingID uint) ([]domain.Image, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, notFoundOr(err, "listing")
	}
	if !canManage(actor, listing.OwnerID) {
		return nil, forbiddenError("you can only manage images of your own listings")
	}
	return s.images.ListByListing(ctx, listingID)
}

func (s *imageService) discardBlob(ctx context.Context, key string) {
	if !s.blobs.Enabled() {
		return
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		logger.FromContext(ctx).Warnf("Could not delete blob %s: %v", key, err)
	}
}

// oldestOther devuelve la imagen más antigua distinta de id (las imágenes vienen ordenadas por id)
func oldestOther(images []domain.Image, id uint) *domain.Image {
	for i := range images {
		if images[i].ID != id {
			return &images[i]
		}
	}
	return nil
}
