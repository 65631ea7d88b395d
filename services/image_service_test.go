package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/dto"
)

type imageFixture struct {
	service ImageService
	images  *mockImageRepository
	blobs   *mockBlobRepository
	listing *domain.Listing
	owner   *domain.User
}

func newImageFixture(blobsEnabled bool) *imageFixture {
	listings := newMockListingRepository()
	images := newMockImageRepository()
	listings.images = images
	blobs := newMockBlobRepository(blobsEnabled)
	owner := plainUser(1)
	listing := listings.add(&domain.Listing{Title: "Kayak", OwnerID: owner.ID})
	return &imageFixture{
		service: NewImageService(images, listings, blobs, newMockCache()),
		images:  images,
		blobs:   blobs,
		listing: listing,
		owner:   owner,
	}
}

func (f *imageFixture) add(t *testing.T, url string, primary bool) *domain.Image {
	t.Helper()
	img, err := f.service.Add(context.Background(), f.owner, f.listing.ID, dto.AddImageRequest{URL: url, IsPrimary: primary})
	require.NoError(t, err)
	return img
}

func TestAddImage_FirstIsPrimary(t *testing.T) {
	f := newImageFixture(false)

	first := f.add(t, "https://img/1.png", false)
	second := f.add(t, "https://img/2.png", false)

	assert.True(t, first.IsPrimary)
	assert.False(t, second.IsPrimary)
	assert.Equal(t, []uint{first.ID}, f.images.primaries(f.listing.ID))
}

func TestAddImage_NewPrimaryClearsOthers(t *testing.T) {
	f := newImageFixture(false)
	f.add(t, "https://img/1.png", false)

	second := f.add(t, "https://img/2.png", true)

	assert.True(t, second.IsPrimary)
	assert.Equal(t, []uint{second.ID}, f.images.primaries(f.listing.ID))
}

func TestAddBulk_FirstRequestedPrimaryWins(t *testing.T) {
	f := newImageFixture(false)

	images, err := f.service.AddBulk(context.Background(), f.owner, f.listing.ID, dto.BulkImagesRequest{
		Images: []dto.AddImageRequest{
			{URL: "https://img/1.png"},
			{URL: "https://img/2.png", IsPrimary: true},
			{URL: "https://img/3.png", IsPrimary: true},
		},
	})

	require.NoError(t, err)
	require.Len(t, images, 3)
	assert.Equal(t, []uint{images[1].ID}, f.images.primaries(f.listing.ID))
	assert.True(t, images[1].IsPrimary)
	assert.False(t, images[2].IsPrimary)
}

func TestAddBulk_NoneRequestedOnEmptyListing(t *testing.T) {
	f := newImageFixture(false)

	images, err := f.service.AddBulk(context.Background(), f.owner, f.listing.ID, dto.BulkImagesRequest{
		Images: []dto.AddImageRequest{{URL: "https://img/1.png"}, {URL: "https://img/2.png"}},
	})

	require.NoError(t, err)
	assert.Equal(t, []uint{images[0].ID}, f.images.primaries(f.listing.ID))
}

// Test: al borrar la principal se promueve la más antigua
func TestDeleteImage_PromotesOldest(t *testing.T) {
	f := newImageFixture(false)
	ctx := context.Background()
	first := f.add(t, "https://img/1.png", false)
	second := f.add(t, "https://img/2.png", false)
	third := f.add(t, "https://img/3.png", true)

	require.NoError(t, f.service.Delete(ctx, f.owner, third.ID))
	assert.Equal(t, []uint{first.ID}, f.images.primaries(f.listing.ID))

	require.NoError(t, f.service.Delete(ctx, f.owner, first.ID))
	assert.Equal(t, []uint{second.ID}, f.images.primaries(f.listing.ID))

	require.NoError(t, f.service.Delete(ctx, f.owner, second.ID))
	assert.Empty(t, f.images.primaries(f.listing.ID))
}

func TestUpdateImage_UnsetPrimary(t *testing.T) {
	f := newImageFixture(false)
	ctx := context.Background()
	only := f.add(t, "https://img/1.png", false)

	// La única imagen sigue siendo principal
	img, err := f.service.Update(ctx, f.owner, only.ID, dto.UpdateImageRequest{IsPrimary: boolPtr(false)})
	require.NoError(t, err)
	assert.True(t, img.IsPrimary)

	second := f.add(t, "https://img/2.png", false)
	_, err = f.service.Update(ctx, f.owner, only.ID, dto.UpdateImageRequest{IsPrimary: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, []uint{second.ID}, f.images.primaries(f.listing.ID))

	img, err = f.service.SetPrimary(ctx, f.owner, only.ID)
	require.NoError(t, err)
	assert.True(t, img.IsPrimary)
	assert.Equal(t, []uint{only.ID}, f.images.primaries(f.listing.ID))
}

func TestImages_OwnerOnly(t *testing.T) {
	f := newImageFixture(false)
	ctx := context.Background()
	img := f.add(t, "https://img/1.png", false)
	stranger := plainUser(50)

	_, err := f.service.Add(ctx, stranger, f.listing.ID, dto.AddImageRequest{URL: "https://img/x.png"})
	assertKind(t, err, ErrForbidden)
	_, err = f.service.SetPrimary(ctx, stranger, img.ID)
	assertKind(t, err, ErrForbidden)
	assertKind(t, f.service.Delete(ctx, stranger, img.ID), ErrForbidden)

	_, err = f.service.Add(ctx, adminUser(99), f.listing.ID, dto.AddImageRequest{URL: "https://img/2.png"})
	assert.NoError(t, err)
}

func TestUploadImage_Disabled(t *testing.T) {
	f := newImageFixture(false)

	_, err := f.service.Upload(context.Background(), f.owner, f.listing.ID, UploadedFile{
		Filename: "a.png", ContentType: "image/png", Body: strings.NewReader("png"),
	})
	assertKind(t, err, ErrValidation)
}

func TestUploadImage_RejectsNonImage(t *testing.T) {
	f := newImageFixture(true)

	_, err := f.service.Upload(context.Background(), f.owner, f.listing.ID, UploadedFile{
		Filename: "notes.txt", ContentType: "text/plain", Body: strings.NewReader("hello"),
	})
	assertKind(t, err, ErrValidation)
	assert.Empty(t, f.blobs.files)
}

func TestUploadImage_StoresAndServesFile(t *testing.T) {
	f := newImageFixture(true)
	ctx := context.Background()

	img, err := f.service.Upload(ctx, f.owner, f.listing.ID, UploadedFile{
		Filename: "photo.PNG", ContentType: "application/octet-stream", Body: strings.NewReader("fake-png"),
	})
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("/api/images/%d/file", img.ID), img.URL)
	assert.True(t, img.IsPrimary)
	assert.Equal(t, "image/png", img.ContentType)
	assert.True(t, strings.HasPrefix(img.BlobKey, fmt.Sprintf("listings/%d/", f.listing.ID)))
	assert.True(t, strings.HasSuffix(img.BlobKey, ".png"))

	rc, contentType, err := f.service.OpenFile(ctx, img.ID)
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "fake-png", string(body))
	assert.Equal(t, "image/png", contentType)

	require.NoError(t, f.service.Delete(ctx, f.owner, img.ID))
	assert.Equal(t, []string{img.BlobKey}, f.blobs.deleted)
}

func TestOpenFile_URLImage(t *testing.T) {
	f := newImageFixture(true)
	img := f.add(t, "https://img/1.png", false)

	_, _, err := f.service.OpenFile(context.Background(), img.ID)
	assertKind(t, err, ErrNotFound)
}
