package services

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/repositories"
	"github.com/mreimer702/Rettnar/utils"
)

// ReviewService define la interfaz del servicio de reseñas
type ReviewService interface {
	Create(ctx context.Context, actor *domain.User, listingID uint, req dto.CreateReviewRequest) (*domain.Review, error)
	List(ctx context.Context, listingID uint, page utils.PageRequest) (*dto.ReviewListResponse, error)
	Delete(ctx context.Context, actor *domain.User, id uint) error
}

type reviewService struct {
	reviews  repositories.ReviewRepository
	listings repositories.ListingRepository
	cache    repositories.CacheRepository
}

// NewReviewService crea una nueva instancia del servicio
func NewReviewService(reviews repositories.ReviewRepository, listings repositories.ListingRepository, cache repositories.CacheRepository) ReviewService {
	return &reviewService{reviews: reviews, listings: listings, cache: cache}
}

// Create deja una reseña por usuario y listing
func (s *reviewService) Create(ctx context.Context, actor *domain.User, listingID uint, req dto.CreateReviewRequest) (*domain.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, validationError("rating must be between 1 and 5")
	}
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, notFoundOr(err, "listing")
	}
	if listing.OwnerID == actor.ID {
		return nil, forbiddenError("you cannot review your own listing")
	}
	exists, err := s.reviews.Exists(ctx, actor.ID, listingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, conflictError("you have already reviewed this listing")
	}

	review := &domain.Review{
		UserID:    actor.ID,
		ListingID: listingID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		// Dos requests simultáneos: el índice único decide
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, conflictError("you have already reviewed this listing")
		}
		return nil, err
	}
	invalidateListing(ctx, s.cache, listingID)
	return review, nil
}

// List pagina las reseñas de un listing con su promedio
func (s *reviewService) List(ctx context.Context, listingID uint, page utils.PageRequest) (*dto.ReviewListResponse, error) {
	if _, err := s.listings.GetByID(ctx, listingID); err != nil {
		return nil, notFoundOr(err, "listing")
	}
	reviews, total, err := s.reviews.ListByListing(ctx, listingID, page)
	if err != nil {
		return nil, err
	}
	summaries, err := s.reviews.Summaries(ctx, []uint{listingID})
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return &dto.ReviewListResponse{
		Reviews:       reviews,
		AverageRating: math.Round(summaries[listingID].Average*100) / 100,
		Pagination:    page.Paginate(total),
	}, nil
}

// Delete borra una reseña; solo el autor o un admin
func (s *reviewService) Delete(ctx context.Context, actor *domain.User, id uint) error {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "review")
	}
	if !canManage(actor, review.UserID) {
		return forbiddenError("you can only delete your own reviews")
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		return notFoundOr(err, "review")
	}
	invalidateListing(ctx, s.cache, review.ListingID)
	return nil
}
