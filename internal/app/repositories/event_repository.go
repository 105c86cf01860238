package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/db"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/dberrors"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

var eventColumns = []string{
	"id", "title", "description", "event_date", "event_end_date", "location", "venue", "image_url",
	"is_published", "registration_required", "max_attendees", "current_attendees", "created_by", "created_at",
}

// EventRepository handles events and their attendees
type EventRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db, sb: psql}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.EventDate, &e.EventEndDate, &e.Location, &e.Venue, &e.ImageURL,
		&e.IsPublished, &e.RegistrationRequired, &e.MaxAttendees, &e.CurrentAttendees, &e.CreatedBy, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts an event and fills its generated fields
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	sql, args, err := r.sb.Insert("events").
		Columns("title", "description", "event_date", "event_end_date", "location", "venue", "image_url",
			"is_published", "registration_required", "max_attendees", "created_by").
		Values(event.Title, event.Description, event.EventDate, event.EventEndDate, event.Location, event.Venue, event.ImageURL,
			event.IsPublished, event.RegistrationRequired, event.MaxAttendees, event.CreatedBy).
		Suffix("RETURNING id, current_attendees, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create event SQL")
		return fmt.Errorf("failed to build create event query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&event.ID, &event.CurrentAttendees, &event.CreatedAt)
	if err != nil {
		if dberrors.IsCheckViolation(err, "events_end_after_start") {
			return apperrors.NewValidationError("event_end_date", "Event end must not be before its start")
		}
		logger.Error().Err(err).Str("title", event.Title).Msg("Error creating event")
		return fmt.Errorf("error creating event: %w", err)
	}
	return nil
}

// registerQuery claims one seat if the event is open for registration
func (r *EventRepository) registerQuery(eventID uuid.UUID) squirrel.UpdateBuilder {
	return r.sb.Update("events").
		Set("current_attendees", squirrel.Expr("current_attendees + 1")).
		Where(squirrel.Eq{"id": eventID, "is_published": true, "registration_required": true}).
		Where(squirrel.Or{
			squirrel.Eq{"max_attendees": nil},
			squirrel.Expr("current_attendees < max_attendees"),
		}).
		Suffix("RETURNING id")
}

// Register claims a seat and records the attendee in one transaction. The seat
// is taken with a conditional increment so capacity can never be exceeded.
func (r *EventRepository) Register(ctx context.Context, eventID, userID uuid.UUID) (*models.EventAttendee, error) {
	attendee := &models.EventAttendee{EventID: eventID, UserID: userID, Status: models.AttendeeRegistered}

	err := db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.registerQuery(eventID).ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building register SQL")
			return fmt.Errorf("failed to build register query: %w", err)
		}

		var claimed uuid.UUID
		err = tx.QueryRow(ctx, sql, args...).Scan(&claimed)
		if errors.Is(err, pgx.ErrNoRows) {
			return classifyClosedEvent(ctx, tx, eventID)
		}
		if err != nil {
			logger.Error().Err(err).Str("eventID", eventID.String()).Msg("Error claiming event seat")
			return fmt.Errorf("error claiming event seat: %w", err)
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO event_attendees (event_id, user_id, status) VALUES ($1, $2, $3)
			RETURNING id, registered_at`, eventID, userID, models.AttendeeRegistered).
			Scan(&attendee.ID, &attendee.RegisteredAt)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "event_attendees_event_user_key") {
				return apperrors.ErrAlreadyRegistered
			}
			return fmt.Errorf("error inserting attendee: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return attendee, nil
}

// classifyClosedEvent explains why the conditional increment matched nothing
func classifyClosedEvent(ctx context.Context, q db.Querier, eventID uuid.UUID) error {
	var (
		published, required bool
		maxAttendees        *int
		current             int
	)
	err := q.QueryRow(ctx, `
		SELECT is_published, registration_required, max_attendees, current_attendees
		FROM events WHERE id = $1`, eventID).Scan(&published, &required, &maxAttendees, &current)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.ErrEventNotFound
	case err != nil:
		return fmt.Errorf("error reading event: %w", err)
	case !published:
		return apperrors.ErrEventNotPublished
	case !required:
		return apperrors.ErrRegistrationNotRequired
	default:
		return apperrors.ErrEventFull
	}
}

func (r *EventRepository) listEvents(ctx context.Context, builder squirrel.SelectBuilder) ([]models.Event, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list events query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing events")
		return nil, fmt.Errorf("error listing events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// ListPublished returns published events in date order
func (r *EventRepository) ListPublished(ctx context.Context) ([]models.Event, error) {
	return r.listEvents(ctx, r.sb.Select(eventColumns...).
		From("events").
		Where(squirrel.Eq{"is_published": true}).
		OrderBy("event_date ASC"))
}

// Upcoming returns the next published events from now on
func (r *EventRepository) Upcoming(ctx context.Context, now time.Time, limit int) ([]models.Event, error) {
	return r.listEvents(ctx, r.sb.Select(eventColumns...).
		From("events").
		Where(squirrel.Eq{"is_published": true}).
		Where(squirrel.GtOrEq{"event_date": now}).
		OrderBy("event_date ASC").
		Limit(uint64(limit)))
}

// GetByID returns a published event
func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	sql, args, err := r.sb.Select(eventColumns...).
		From("events").
		Where(squirrel.Eq{"id": id, "is_published": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}
	e, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error retrieving event: %w", err)
	}
	return e, nil
}

// RecentAttendees returns the latest registrations with attendee names
func (r *EventRepository) RecentAttendees(ctx context.Context, eventID uuid.UUID, limit int) ([]models.EventAttendee, error) {
	sql, args, err := r.sb.Select("a.id", "a.event_id", "a.user_id", "a.status", "a.registered_at", "p.full_name", "p.avatar_url").
		From("event_attendees a").
		Join("profiles p ON p.id = a.user_id").
		Where(squirrel.Eq{"a.event_id": eventID}).
		OrderBy("a.registered_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build attendees query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing attendees: %w", err)
	}
	defer rows.Close()

	out := []models.EventAttendee{}
	for rows.Next() {
		var a models.EventAttendee
		if err := rows.Scan(&a.ID, &a.EventID, &a.UserID, &a.Status, &a.RegisteredAt, &a.FullName, &a.AvatarURL); err != nil {
			return nil, fmt.Errorf("error scanning attendee: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// IsRegistered reports whether the account has registered for the event
func (r *EventRepository) IsRegistered(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM event_attendees WHERE event_id = $1 AND user_id = $2)`,
		eventID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking registration: %w", err)
	}
	return exists, nil
}
