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

const eventTable = "events"

var eventColumns = []string{"id", "title", "description", "event_date", "image_url"}

type EventRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewEventRepository(db *pgxpool.Pool) *EventRepo {
	return &EventRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// FindAll returns every event in store-native order. No ORDER BY is applied.
func (r *EventRepo) FindAll(ctx context.Context) ([]models.Event, error) {
	const op = "repository.event_repository.FindAll"

	query, args, err := r.sb.Select(eventColumns...).
		From(eventTable).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.ImageURL); err != nil {
			return nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return events, nil
}

// Create inserts a new event. The id is generated by the store.
func (r *EventRepo) Create(ctx context.Context, event models.Event) (*models.Event, error) {
	const op = "repository.event_repository.Create"

	query, args, err := r.sb.Insert(eventTable).
		Columns("title", "description", "event_date", "image_url").
		Values(event.Title, event.Description, event.Date, event.ImageURL).
		Suffix("RETURNING id, title, description, event_date, image_url").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var created models.Event
	err = r.db.QueryRow(ctx, query, args...).
		Scan(&created.ID, &created.Title, &created.Description, &created.Date, &created.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create event: %w", op, err)
	}

	return &created, nil
}

// Update overwrites every mutable field of the event with the given id.
func (r *EventRepo) Update(ctx context.Context, id uuid.UUID, event models.Event) (*models.Event, error) {
	const op = "repository.event_repository.Update"

	query, args, err := r.sb.Update(eventTable).
		Set("title", event.Title).
		Set("description", event.Description).
		Set("event_date", event.Date).
		Set("image_url", event.ImageURL).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, title, description, event_date, image_url").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var updated models.Event
	err = r.db.QueryRow(ctx, query, args...).
		Scan(&updated.ID, &updated.Title, &updated.Description, &updated.Date, &updated.ImageURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update event: %w", op, err)
	}

	return &updated, nil
}

// Delete removes the event and returns the deleted row.
func (r *EventRepo) Delete(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	const op = "repository.event_repository.Delete"

	query, args, err := r.sb.Delete(eventTable).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, title, description, event_date, image_url").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var deleted models.Event
	err = r.db.QueryRow(ctx, query, args...).
		Scan(&deleted.ID, &deleted.Title, &deleted.Description, &deleted.Date, &deleted.ImageURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to delete event: %w", op, err)
	}

	return &deleted, nil
}
