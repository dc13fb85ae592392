package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path"

	"showcase/internal/domain/models"
	"showcase/internal/lib/logger/sl"
	"showcase/internal/repository"
	storage "showcase/internal/storage/filestorage"
	cachestore "showcase/internal/storage/redis"
	"showcase/internal/transport/http/dto"

	"github.com/google/uuid"
)

// galleryListKey is the cache key for the full galleries list payload.
const galleryListKey = "galleries:list"

// imagesField is the multipart field name gallery files arrive under.
const imagesField = "images"

type GalleryService struct {
	log         *slog.Logger
	repo        repository.GalleryRepository
	fileStorage storage.FileStorage
	cache       *cachestore.Client
}

func NewGalleryService(log *slog.Logger, repo repository.GalleryRepository, fileStorage storage.FileStorage, cache *cachestore.Client) *GalleryService {
	return &GalleryService{
		log:         log,
		repo:        repo,
		fileStorage: fileStorage,
		cache:       cache,
	}
}

// ListGalleries returns every gallery, serving from the list cache when it
// is warm. Cache failures degrade to a direct read.
func (s *GalleryService) ListGalleries(ctx context.Context) ([]models.Gallery, error) {
	const op = "gallery_service.ListGalleries"

	log := s.log.With(slog.String("op", op))

	if s.cache != nil {
		payload, err := s.cache.GetList(ctx, galleryListKey)
		if err != nil {
			log.Warn("list cache read failed", sl.Err(err))
		} else if payload != nil {
			var galleries []models.Gallery
			if err := json.Unmarshal(payload, &galleries); err == nil {
				return galleries, nil
			}
			log.Warn("list cache payload corrupt", sl.Err(err))
		}
	}

	galleries, err := s.repo.FindAll(ctx)
	if err != nil {
		log.Error("failed to list galleries", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(galleries); err == nil {
			if err := s.cache.SetList(ctx, galleryListKey, payload); err != nil {
				log.Warn("list cache write failed", sl.Err(err))
			}
		}
	}

	return galleries, nil
}

// CreateGallery persists every attached file in upload order, builds their
// public URLs and inserts a new gallery record. An empty file set is
// accepted; the admin UI enforces at least one image client-side only.
func (s *GalleryService) CreateGallery(ctx context.Context, input dto.GalleryInput, files []*multipart.FileHeader) (*models.Gallery, error) {
	const op = "gallery_service.CreateGallery"

	log := s.log.With(
		slog.String("op", op),
		slog.String("title", input.Title),
		slog.Int("files", len(files)),
	)

	log.Info("creating gallery")

	gallery, err := s.buildGallery(input)
	if err != nil {
		log.Warn("gallery validation failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	storedNames, urls, err := s.saveFiles(ctx, files)
	if err != nil {
		log.Error("failed to save files", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	gallery.Images = urls

	created, err := s.repo.Create(ctx, gallery)
	if err != nil {
		// The record never made it in, so the files are unreferenced.
		s.removeFiles(ctx, storedNames)
		log.Error("failed to create gallery", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateList(ctx)

	log.Info("gallery created", slog.String("gallery_id", created.ID.String()))

	return created, nil
}

// UpdateGallery overwrites every field of an existing gallery. The images
// list is replaced with exactly the files uploaded in this request (empty
// when none were attached), and previously referenced files stay on disk.
func (s *GalleryService) UpdateGallery(ctx context.Context, id uuid.UUID, input dto.GalleryInput, files []*multipart.FileHeader) (*models.Gallery, error) {
	const op = "gallery_service.UpdateGallery"

	log := s.log.With(
		slog.String("op", op),
		slog.String("gallery_id", id.String()),
		slog.Int("files", len(files)),
	)

	log.Info("updating gallery")

	gallery, err := s.buildGallery(input)
	if err != nil {
		log.Warn("gallery validation failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	storedNames, urls, err := s.saveFiles(ctx, files)
	if err != nil {
		log.Error("failed to save files", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	gallery.Images = urls

	updated, err := s.repo.Update(ctx, id, gallery)
	if err != nil {
		s.removeFiles(ctx, storedNames)
		log.Error("failed to update gallery", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateList(ctx)

	log.Info("gallery updated")

	return updated, nil
}

// DeleteGallery removes the record first, then deletes every referenced
// file best-effort: one failed unlink is logged and the rest still run.
func (s *GalleryService) DeleteGallery(ctx context.Context, id uuid.UUID) error {
	const op = "gallery_service.DeleteGallery"

	log := s.log.With(
		slog.String("op", op),
		slog.String("gallery_id", id.String()),
	)

	log.Info("deleting gallery")

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		log.Error("failed to delete gallery", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, imageURL := range deleted.Images {
		if imageURL == "" {
			continue
		}
		storedName := path.Base(imageURL)
		if err := s.fileStorage.Delete(ctx, storedName); err != nil {
			log.Warn("failed to delete image file",
				slog.String("file", storedName),
				sl.Err(err),
			)
		}
	}

	s.invalidateList(ctx)

	log.Info("gallery deleted")

	return nil
}

func (s *GalleryService) buildGallery(input dto.GalleryInput) (models.Gallery, error) {
	date, err := input.EventDate()
	if err != nil {
		return models.Gallery{}, err
	}

	gallery := models.Gallery{
		Title:       input.Title,
		Description: input.Description,
		Date:        date,
		Images:      []string{},
	}

	if err := gallery.Validate(); err != nil {
		return models.Gallery{}, err
	}

	return gallery, nil
}

// saveFiles stores each part in order and returns the stored names alongside
// their public URLs.
func (s *GalleryService) saveFiles(ctx context.Context, files []*multipart.FileHeader) ([]string, []string, error) {
	storedNames := make([]string, 0, len(files))
	urls := make([]string, 0, len(files))

	for _, file := range files {
		storedName, _, err := s.fileStorage.Save(ctx, file, imagesField)
		if err != nil {
			// A partial batch never reaches the record store.
			s.removeFiles(ctx, storedNames)
			return nil, nil, err
		}
		storedNames = append(storedNames, storedName)
		urls = append(urls, s.fileStorage.PublicURL(storedName))
	}

	return storedNames, urls, nil
}

func (s *GalleryService) removeFiles(ctx context.Context, storedNames []string) {
	for _, name := range storedNames {
		_ = s.fileStorage.Delete(ctx, name)
	}
}

func (s *GalleryService) invalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateList(ctx, galleryListKey); err != nil {
		s.log.Warn("failed to invalidate galleries list cache", sl.Err(err))
	}
}
