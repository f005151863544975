package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/database"
	"github.com/taskflow/core/internal/ports"
)

const eventSelect = `
	SELECT id, title, description, location, start_time, end_time, owner_id, calendar_id, created_at, updated_at
	FROM calendar_events`

var eventOrdering = map[string]string{
	"start_time": "start_time",
	"end_time":   "end_time",
	"created_at": "created_at",
}

// CalendarEventRepositoryImpl implements the CalendarEventRepository interface.
// Reads and deletes always filter on the owner.
type CalendarEventRepositoryImpl struct {
	db *database.DB
}

// NewCalendarEventRepository creates a new calendar event repository
func NewCalendarEventRepository(db *database.DB) ports.CalendarEventRepository {
	return &CalendarEventRepositoryImpl{db: db}
}

func (r *CalendarEventRepositoryImpl) Create(ctx context.Context, event *entities.CalendarEvent) error {
	query := r.db.DB.Rebind(`
		INSERT INTO calendar_events (title, description, location, start_time, end_time,
			owner_id, calendar_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	err := r.db.DB.QueryRowxContext(ctx, query,
		event.Title, event.Description, event.Location, event.StartTime, event.EndTime,
		event.OwnerID, event.CalendarID, event.CreatedAt, event.UpdatedAt,
	).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("create calendar event: %w", err)
	}

	return nil
}

func (r *CalendarEventRepositoryImpl) GetByID(ctx context.Context, id int64, ownerID uuid.UUID) (*entities.CalendarEvent, error) {
	query := r.db.DB.Rebind(eventSelect + ` WHERE id = ? AND owner_id = ?`)

	var event entities.CalendarEvent
	if err := r.db.DB.GetContext(ctx, &event, query, id, ownerID); err != nil {
		if isNoRows(err) {
			return nil, entities.ErrEventNotFound
		}
		return nil, fmt.Errorf("get calendar event: %w", err)
	}

	return &event, nil
}

func (r *CalendarEventRepositoryImpl) Update(ctx context.Context, event *entities.CalendarEvent) error {
	query := r.db.DB.Rebind(`
		UPDATE calendar_events
		SET title = ?, description = ?, location = ?, start_time = ?, end_time = ?, calendar_id = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`)

	result, err := r.db.DB.ExecContext(ctx, query,
		event.Title, event.Description, event.Location, event.StartTime, event.EndTime,
		event.CalendarID, event.UpdatedAt, event.ID, event.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update calendar event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrEventNotFound
	}

	return nil
}

func (r *CalendarEventRepositoryImpl) Delete(ctx context.Context, id int64, ownerID uuid.UUID) error {
	query := r.db.DB.Rebind(`DELETE FROM calendar_events WHERE id = ? AND owner_id = ?`)

	result, err := r.db.DB.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete calendar event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrEventNotFound
	}

	return nil
}

func (r *CalendarEventRepositoryImpl) List(ctx context.Context, filter ports.CalendarEventFilter) ([]*entities.CalendarEvent, int, error) {
	var where conditions

	where.add("owner_id = ?", filter.OwnerID)
	if filter.CalendarID != nil {
		where.add("calendar_id = ?", *filter.CalendarID)
	}
	where.search(filter.Search, "title", "description", "location")

	var total int
	countQuery := r.db.DB.Rebind("SELECT COUNT(*) FROM calendar_events " + where.where())
	if err := r.db.DB.GetContext(ctx, &total, countQuery, where.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count calendar events: %w", err)
	}

	page, args := paginate(filter.ListParams, where.args)
	query := r.db.DB.Rebind(fmt.Sprintf("%s %s %s %s",
		eventSelect, where.where(),
		orderBy(filter.Ordering, eventOrdering, "start_time ASC", "id ASC"),
		page,
	))

	events := []*entities.CalendarEvent{}
	if err := r.db.DB.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list calendar events: %w", err)
	}

	return events, total, nil
}
