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

// eventListKey is the cache key for the full events list payload.
const eventListKey = "events:list"

// imageField is the multipart field name events accept a single file under.
const imageField = "imageFile"

type EventService struct {
	log         *slog.Logger
	repo        repository.EventRepository
	fileStorage storage.FileStorage
	cache       *cachestore.Client
}

func NewEventService(log *slog.Logger, repo repository.EventRepository, fileStorage storage.FileStorage, cache *cachestore.Client) *EventService {
	return &EventService{
		log:         log,
		repo:        repo,
		fileStorage: fileStorage,
		cache:       cache,
	}
}

// ListEvents returns every event, serving from the list cache when it is
// warm. Cache failures degrade to a direct read.
func (s *EventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	const op = "event_service.ListEvents"

	log := s.log.With(slog.String("op", op))

	if s.cache != nil {
		payload, err := s.cache.GetList(ctx, eventListKey)
		if err != nil {
			log.Warn("list cache read failed", sl.Err(err))
		} else if payload != nil {
			var events []models.Event
			if err := json.Unmarshal(payload, &events); err == nil {
				return events, nil
			}
			log.Warn("list cache payload corrupt", sl.Err(err))
		}
	}

	events, err := s.repo.FindAll(ctx)
	if err != nil {
		log.Error("failed to list events", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(events); err == nil {
			if err := s.cache.SetList(ctx, eventListKey, payload); err != nil {
				log.Warn("list cache write failed", sl.Err(err))
			}
		}
	}

	return events, nil
}

// CreateEvent persists the attached file (if any), builds its public URL and
// inserts a new event record.
func (s *EventService) CreateEvent(ctx context.Context, input dto.EventInput, file *multipart.FileHeader) (*models.Event, error) {
	const op = "event_service.CreateEvent"

	log := s.log.With(
		slog.String("op", op),
		slog.String("title", input.Title),
	)

	log.Info("creating event")

	event, err := s.buildEvent(input)
	if err != nil {
		log.Warn("event validation failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	storedName := ""
	if file != nil {
		storedName, _, err = s.fileStorage.Save(ctx, file, imageField)
		if err != nil {
			log.Error("failed to save file", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		event.ImageURL = s.fileStorage.PublicURL(storedName)
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		// The record never made it in, so the file is unreferenced.
		if storedName != "" {
			_ = s.fileStorage.Delete(ctx, storedName)
		}
		log.Error("failed to create event", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateList(ctx)

	log.Info("event created", slog.String("event_id", created.ID.String()))

	return created, nil
}

// UpdateEvent overwrites every field of an existing event. The image URL is
// replaced with whatever this request uploaded (an empty value when no file
// was attached), and the previously referenced file is left on disk.
func (s *EventService) UpdateEvent(ctx context.Context, id uuid.UUID, input dto.EventInput, file *multipart.FileHeader) (*models.Event, error) {
	const op = "event_service.UpdateEvent"

	log := s.log.With(
		slog.String("op", op),
		slog.String("event_id", id.String()),
	)

	log.Info("updating event")

	event, err := s.buildEvent(input)
	if err != nil {
		log.Warn("event validation failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	storedName := ""
	if file != nil {
		storedName, _, err = s.fileStorage.Save(ctx, file, imageField)
		if err != nil {
			log.Error("failed to save file", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		event.ImageURL = s.fileStorage.PublicURL(storedName)
	}

	updated, err := s.repo.Update(ctx, id, event)
	if err != nil {
		if storedName != "" {
			_ = s.fileStorage.Delete(ctx, storedName)
		}
		log.Error("failed to update event", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateList(ctx)

	log.Info("event updated")

	return updated, nil
}

// DeleteEvent removes the record first, then deletes the referenced file
// best-effort: a failed unlink is logged and does not undo the deletion.
func (s *EventService) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	const op = "event_service.DeleteEvent"

	log := s.log.With(
		slog.String("op", op),
		slog.String("event_id", id.String()),
	)

	log.Info("deleting event")

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		log.Error("failed to delete event", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if deleted.ImageURL != "" {
		storedName := path.Base(deleted.ImageURL)
		if err := s.fileStorage.Delete(ctx, storedName); err != nil {
			log.Warn("failed to delete image file",
				slog.String("file", storedName),
				sl.Err(err),
			)
		}
	}

	s.invalidateList(ctx)

	log.Info("event deleted")

	return nil
}

func (s *EventService) buildEvent(input dto.EventInput) (models.Event, error) {
	date, err := input.EventDate()
	if err != nil {
		return models.Event{}, err
	}

	event := models.Event{
		Title:       input.Title,
		Description: input.Description,
		Date:        date,
		ImageURL:    "",
	}

	if err := event.Validate(); err != nil {
		return models.Event{}, err
	}

	return event, nil
}

func (s *EventService) invalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateList(ctx, eventListKey); err != nil {
		s.log.Warn("failed to invalidate events list cache", sl.Err(err))
	}
}
