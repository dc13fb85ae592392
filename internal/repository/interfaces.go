package repository

import (
	"context"

	"showcase/internal/domain/models"

	"github.com/google/uuid"
)

type EventRepository interface {
	FindAll(ctx context.Context) ([]models.Event, error)
	Create(ctx context.Context, event models.Event) (*models.Event, error)
	Update(ctx context.Context, id uuid.UUID, event models.Event) (*models.Event, error)
	// Delete returns the removed row so the caller can clean up the
	// files it referenced.
	Delete(ctx context.Context, id uuid.UUID) (*models.Event, error)
}

type GalleryRepository interface {
	FindAll(ctx context.Context) ([]models.Gallery, error)
	Create(ctx context.Context, gallery models.Gallery) (*models.Gallery, error)
	Update(ctx context.Context, id uuid.UUID, gallery models.Gallery) (*models.Gallery, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Gallery, error)
}
