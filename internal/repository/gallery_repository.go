package repository

import (
	"context"
	"errors"
	"fmt"

	"showcase/internal/domain/models"
	"showcase/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const galleryTable = "galleries"

type GalleryRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewGalleryRepository(db *pgxpool.Pool) *GalleryRepo {
	return &GalleryRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// FindAll returns every gallery in store-native order. No ORDER BY is applied.
func (r *GalleryRepo) FindAll(ctx context.Context) ([]models.Gallery, error) {
	const op = "repository.gallery_repository.FindAll"

	query, args, err := r.sb.Select("id", "title", "description", "event_date", "images").
		From(galleryTable).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}
	defer rows.Close()

	galleries := []models.Gallery{}
	for rows.Next() {
		var g models.Gallery
		if err := rows.Scan(&g.ID, &g.Title, &g.Description, &g.Date, &g.Images); err != nil {
			return nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
		}
		if g.Images == nil {
			g.Images = []string{}
		}
		galleries = append(galleries, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return galleries, nil
}

// Create inserts a new gallery. The images column keeps upload order.
func (r *GalleryRepo) Create(ctx context.Context, gallery models.Gallery) (*models.Gallery, error) {
	const op = "repository.gallery_repository.Create"

	query, args, err := r.sb.Insert(galleryTable).
		Columns("title", "description", "event_date", "images").
		Values(gallery.Title, gallery.Description, gallery.Date, gallery.Images).
		Suffix("RETURNING id, title, description, event_date, images").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var created models.Gallery
	err = r.db.QueryRow(ctx, query, args...).
		Scan(&created.ID, &created.Title, &created.Description, &created.Date, &created.Images)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create gallery: %w", op, err)
	}

	if created.Images == nil {
		created.Images = []string{}
	}

	return &created, nil
}

// Update overwrites every mutable field, including the full images list.
func (r *GalleryRepo) Update(ctx context.Context, id uuid.UUID, gallery models.Gallery) (*models.Gallery, error) {
	const op = "repository.gallery_repository.Update"

	query, args, err := r.sb.Update(galleryTable).
		Set("title", gallery.Title).
		Set("description", gallery.Description).
		Set("event_date", gallery.Date).
		Set("images", gallery.Images).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, title, description, event_date, images").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var updated models.Gallery
	err = r.db.QueryRow(ctx, query, args...).
		Scan(&updated.ID, &updated.Title, &updated.Description, &updated.Date, &updated.Images)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrGalleryNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update gallery: %w", op, err)
	}

	if updated.Images == nil {
		updated.Images = []string{}
	}

	return &updated, nil
}

// Delete removes the gallery and returns the deleted row.
func (r *GalleryRepo) Delete(ctx context.Context, id uuid.UUID) (*models.Gallery, error) {
	const op = "repository.gallery_repository.Delete"

	query, args, err := r.sb.Delete(galleryTable).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, title, description, event_date, images").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var deleted models.Gallery
	err = r.db.QueryRow(ctx, query, args...).
		Scan(&deleted.ID, &deleted.Title, &deleted.Description, &deleted.Date, &deleted.Images)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrGalleryNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to delete gallery: %w", op, err)
	}

	if deleted.Images == nil {
		deleted.Images = []string{}
	}

	return &deleted, nil
}
