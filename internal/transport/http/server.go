package http

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"showcase/internal/domain/models"
	"showcase/internal/lib/logger/sl"
	"showcase/internal/storage"
	"showcase/internal/transport/http/dto"
	"showcase/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type EventService interface {
	ListEvents(ctx context.Context) ([]models.Event, error)
	CreateEvent(ctx context.Context, input dto.EventInput, file *multipart.FileHeader) (*models.Event, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, input dto.EventInput, file *multipart.FileHeader) (*models.Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
}

type GalleryService interface {
	ListGalleries(ctx context.Context) ([]models.Gallery, error)
	CreateGallery(ctx context.Context, input dto.GalleryInput, files []*multipart.FileHeader) (*models.Gallery, error)
	UpdateGallery(ctx context.Context, id uuid.UUID, input dto.GalleryInput, files []*multipart.FileHeader) (*models.Gallery, error)
	DeleteGallery(ctx context.Context, id uuid.UUID) error
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Routers struct {
	log            *slog.Logger
	EventService   EventService
	GalleryService GalleryService
	db             HealthChecker
	cache          HealthChecker
}

func NewRouter(log *slog.Logger, eventService EventService, galleryService GalleryService, db, cache HealthChecker) *Routers {
	return &Routers{
		log:            log,
		EventService:   eventService,
		GalleryService: galleryService,
		db:             db,
		cache:          cache,
	}
}

// ListEvents godoc
// @Summary List events
// @Description Returns every event in store-native order
// @Tags events
// @Produce json
// @Success 200 {array} models.Event
// @Failure 500 {object} response.ErrorResponse
// @Router /events [get]
func (r *Routers) ListEvents(c echo.Context) error {
	const op = "http.routers.ListEvents"

	log := r.log.With(slog.String("op", op))

	events, err := r.EventService.ListEvents(c.Request().Context())
	if err != nil {
		log.Error("failed to list events", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Failed to fetch events"))
	}

	return c.JSON(http.StatusOK, events)
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an event from multipart form fields with an optional image under "imageFile"
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Event title"
// @Param description formData string false "Event description"
// @Param date formData string true "Event date (2006-01-02 or RFC3339)"
// @Param imageFile formData file false "Poster image"
// @Success 201 {object} models.Event
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /events [post]
func (r *Routers) CreateEvent(c echo.Context) error {
	const op = "http.routers.CreateEvent"

	log := r.log.With(slog.String("op", op))

	var input dto.EventInput
	if err := c.Bind(&input); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(input); err != nil {
		log.Warn("validation failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	}

	file := r.eventImage(c)

	event, err := r.EventService.CreateEvent(c.Request().Context(), input, file)
	if err != nil {
		return r.eventError(c, log, err, "Failed to create event")
	}

	return c.JSON(http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Overwrites every field; the image URL is replaced by this request's upload (empty when none)
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Event UUID" format(uuid)
// @Param title formData string true "Event title"
// @Param description formData string false "Event description"
// @Param date formData string true "Event date (2006-01-02 or RFC3339)"
// @Param imageFile formData file false "Poster image"
// @Success 200 {object} models.Event
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /events/{id} [put]
func (r *Routers) UpdateEvent(c echo.Context) error {
	const op = "http.routers.UpdateEvent"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		log.Warn("invalid event id format", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", "invalid event ID format"))
	}

	var input dto.EventInput
	if err := c.Bind(&input); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(input); err != nil {
		log.Warn("validation failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	}

	file := r.eventImage(c)

	event, err := r.EventService.UpdateEvent(c.Request().Context(), id, input, file)
	if err != nil {
		return r.eventError(c, log, err, "Failed to update event")
	}

	return c.JSON(http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Removes the event and deletes its image file best-effort
// @Tags events
// @Produce json
// @Param id path string true "Event UUID" format(uuid)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /events/{id} [delete]
func (r *Routers) DeleteEvent(c echo.Context) error {
	const op = "http.routers.DeleteEvent"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		log.Warn("invalid event id format", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", "invalid event ID format"))
	}

	if err := r.EventService.DeleteEvent(c.Request().Context(), id); err != nil {
		return r.eventError(c, log, err, "Failed to delete event and associated image")
	}

	return c.JSON(http.StatusOK, response.SuccessMessage("Event and associated image deleted successfully"))
}

// ListGalleries godoc
// @Summary List galleries
// @Description Returns every gallery in store-native order
// @Tags galleries
// @Produce json
// @Success 200 {array} models.Gallery
// @Failure 500 {object} response.ErrorResponse
// @Router /galleries [get]
func (r *Routers) ListGalleries(c echo.Context) error {
	const op = "http.routers.ListGalleries"

	log := r.log.With(slog.String("op", op))

	galleries, err := r.GalleryService.ListGalleries(c.Request().Context())
	if err != nil {
		log.Error("failed to list galleries", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Failed to fetch galleries"))
	}

	return c.JSON(http.StatusOK, galleries)
}

// CreateGallery godoc
// @Summary Create a gallery
// @Description Creates a gallery from multipart form fields with zero or more images under "images"
// @Tags galleries
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Gallery title"
// @Param description formData string false "Gallery description"
// @Param date formData string true "Gallery date (2006-01-02 or RFC3339)"
// @Param images formData file false "Gallery images"
// @Success 201 {object} models.Gallery
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /galleries [post]
func (r *Routers) CreateGallery(c echo.Context) error {
	const op = "http.routers.CreateGallery"

	log := r.log.With(slog.String("op", op))

	var input dto.GalleryInput
	if err := c.Bind(&input); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(input); err != nil {
		log.Warn("validation failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	}

	files := r.galleryImages(c)

	gallery, err := r.GalleryService.CreateGallery(c.Request().Context(), input, files)
	if err != nil {
		return r.galleryError(c, log, err, "Failed to create gallery")
	}

	return c.JSON(http.StatusCreated, gallery)
}

// UpdateGallery godoc
// @Summary Update a gallery
// @Description Overwrites every field; the images list is replaced by this request's uploads (empty when none)
// @Tags galleries
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Gallery UUID" format(uuid)
// @Param title formData string true "Gallery title"
// @Param description formData string false "Gallery description"
// @Param date formData string true "Gallery date (2006-01-02 or RFC3339)"
// @Param images formData file false "Gallery images"
// @Success 200 {object} models.Gallery
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /galleries/{id} [put]
func (r *Routers) UpdateGallery(c echo.Context) error {
	const op = "http.routers.UpdateGallery"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		log.Warn("invalid gallery id format", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", "invalid gallery ID format"))
	}

	var input dto.GalleryInput
	if err := c.Bind(&input); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(input); err != nil {
		log.Warn("validation failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	}

	files := r.galleryImages(c)

	gallery, err := r.GalleryService.UpdateGallery(c.Request().Context(), id, input, files)
	if err != nil {
		return r.galleryError(c, log, err, "Failed to update gallery")
	}

	return c.JSON(http.StatusOK, gallery)
}

// DeleteGallery godoc
// @Summary Delete a gallery
// @Description Removes the gallery and deletes its image files best-effort
// @Tags galleries
// @Produce json
// @Param id path string true "Gallery UUID" format(uuid)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /galleries/{id} [delete]
func (r *Routers) DeleteGallery(c echo.Context) error {
	const op = "http.routers.DeleteGallery"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		log.Warn("invalid gallery id format", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", "invalid gallery ID format"))
	}

	if err := r.GalleryService.DeleteGallery(c.Request().Context(), id); err != nil {
		return r.galleryError(c, log, err, "Failed to delete gallery and associated images")
	}

	return c.JSON(http.StatusOK, response.SuccessMessage("Gallery and associated images deleted successfully"))
}

// Health godoc
// @Summary Health check
// @Tags ops
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.ErrorResponse
// @Router /health [get]
func (r *Routers) Health(c echo.Context) error {
	const op = "http.routers.Health"

	ctx := c.Request().Context()

	if err := r.db.HealthCheck(ctx); err != nil {
		r.log.Error("database health check failed", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusServiceUnavailable, response.ErrorResponseWithDetails("unhealthy", "record store unreachable"))
	}

	if r.cache != nil {
		if err := r.cache.HealthCheck(ctx); err != nil {
			r.log.Warn("cache health check failed", slog.String("op", op), sl.Err(err))
		}
	}

	return c.JSON(http.StatusOK, response.SuccessMessage("ok"))
}

// eventImage pulls the single optional file part; a missing part means the
// event has no image.
func (r *Routers) eventImage(c echo.Context) *multipart.FileHeader {
	file, err := c.FormFile("imageFile")
	if err != nil {
		return nil
	}
	return file
}

// galleryImages pulls every file part under "images" in submission order.
func (r *Routers) galleryImages(c echo.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File["images"]
}

func (r *Routers) eventError(c echo.Context, log *slog.Logger, err error, generic string) error {
	switch {
	case errors.Is(err, storage.ErrEventNotFound):
		log.Warn("event not found", sl.Err(err))
		return c.JSON(http.StatusNotFound, response.ErrEventNotFound)
	case errors.Is(err, dto.ErrInvalidDate):
		log.Warn("invalid date", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", dto.ErrInvalidDate.Error()))
	case models.IsValidationError(err):
		log.Warn("validation failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	default:
		log.Error("internal error", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", generic))
	}
}

func (r *Routers) galleryError(c echo.Context, log *slog.Logger, err error, generic string) error {
	switch {
	case errors.Is(err, storage.ErrGalleryNotFound):
		log.Warn("gallery not found", sl.Err(err))
		return c.JSON(http.StatusNotFound, response.ErrGalleryNotFound)
	case errors.Is(err, dto.ErrInvalidDate):
		log.Warn("invalid date", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", dto.ErrInvalidDate.Error()))
	case models.IsValidationError(err):
		log.Warn("validation failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_failed", err.Error()))
	default:
		log.Error("internal error", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", generic))
	}
}
