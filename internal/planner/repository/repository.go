package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"caterops_backend/platform/apperr"
)

const (
	eventNotFoundMessage = "event not found"
	phaseNotFoundMessage = "phase not found"
	itemNotFoundMessage  = "item not found"

	pgForeignKeyViolation = "23503"
)

// Repo implements the planner repository backed by Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new planner repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

const eventColumns = `
	id, workspace_id, name, status, location, start_at, end_at,
	default_guest_count, created_at, updated_at`

// CreateEvent creates an event in draft status.
func (r *Repo) CreateEvent(ctx context.Context, params CreateEventParams) (Event, error) {
	query := `
		INSERT INTO events (workspace_id, name, location, start_at, end_at, default_guest_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING` + eventColumns

	row := r.pool.QueryRow(ctx, query,
		params.WorkspaceID, params.Name, params.Location,
		params.StartAt, params.EndAt, params.DefaultGuestCount,
	)
	event, err := scanEvent(row)
	if err != nil {
		return Event{}, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// GetEvent retrieves an event by ID.
func (r *Repo) GetEvent(ctx context.Context, workspaceID, id uuid.UUID) (Event, error) {
	query := `SELECT` + eventColumns + ` FROM events WHERE workspace_id = $1 AND id = $2`

	row := r.pool.QueryRow(ctx, query, workspaceID, id)
	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Event{}, apperr.NotFound(eventNotFoundMessage)
		}
		return Event{}, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// ListEvents lists events matching the filters plus the total count.
func (r *Repo) ListEvents(ctx context.Context, params ListEventsParams) ([]Event, int, error) {
	conditions := []string{"workspace_id = $1"}
	args := []any{params.WorkspaceID}

	if params.Status != nil {
		args = append(args, *params.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if params.From != nil {
		args = append(args, *params.From)
		conditions = append(conditions, fmt.Sprintf("start_at >= $%d", len(args)))
	}
	if params.To != nil {
		args = append(args, *params.To)
		conditions = append(conditions, fmt.Sprintf("start_at < $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM events WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`SELECT %s FROM events WHERE %s ORDER BY start_at ASC LIMIT $%d OFFSET $%d`,
		eventColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	items := make([]Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan event: %w", err)
		}
		items = append(items, event)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("iterate events: %w", rows.Err())
	}
	return items, total, nil
}

// UpdateEvent applies partial updates to an event.
func (r *Repo) UpdateEvent(ctx context.Context, workspaceID, id uuid.UUID, params UpdateEventParams) (Event, error) {
	query := `
		UPDATE events
		SET name = COALESCE($3, name),
		    status = COALESCE($4, status),
		    location = COALESCE($5, location),
		    start_at = COALESCE($6, start_at),
		    end_at = COALESCE($7, end_at),
		    default_guest_count = COALESCE($8, default_guest_count),
		    updated_at = now()
		WHERE workspace_id = $1 AND id = $2
		RETURNING` + eventColumns

	row := r.pool.QueryRow(ctx, query, workspaceID, id,
		params.Name, params.Status, params.Location,
		params.StartAt, params.EndAt, params.DefaultGuestCount,
	)
	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Event{}, apperr.NotFound(eventNotFoundMessage)
		}
		return Event{}, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

// DeleteEvent deletes an event and cascades its phases and items.
func (r *Repo) DeleteEvent(ctx context.Context, workspaceID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM events WHERE workspace_id = $1 AND id = $2`, workspaceID, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(eventNotFoundMessage)
	}
	return nil
}

const phaseColumns = `
	id, workspace_id, event_id, phase_type_id, name, sort_order,
	start_at, end_at, guest_count_mode, guest_count_override, notes, created_at`

// CreatePhase appends a phase after the event's current last phase.
func (r *Repo) CreatePhase(ctx context.Context, params CreatePhaseParams) (Phase, error) {
	query := `
		INSERT INTO event_phases (
			workspace_id, event_id, phase_type_id, name, sort_order,
			start_at, end_at, guest_count_mode, guest_count_override, notes
		)
		SELECT $1, $2, $3, $4,
		       COALESCE(MAX(sort_order), 0) + 1,
		       $5, $6, $7, $8, $9
		FROM event_phases
		WHERE event_id = $2
		RETURNING` + phaseColumns

	row := r.pool.QueryRow(ctx, query,
		params.WorkspaceID, params.EventID, params.PhaseTypeID, params.Name,
		params.StartAt, params.EndAt, params.GuestCountMode, params.GuestCountOverride, params.Notes,
	)
	phase, err := scanPhase(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return Phase{}, apperr.Validation("unknown event or phase type")
		}
		return Phase{}, fmt.Errorf("create phase: %w", err)
	}
	return phase, nil
}

// GetPhase retrieves a phase by ID.
func (r *Repo) GetPhase(ctx context.Context, workspaceID, id uuid.UUID) (Phase, error) {
	query := `SELECT` + phaseColumns + ` FROM event_phases WHERE workspace_id = $1 AND id = $2`

	row := r.pool.QueryRow(ctx, query, workspaceID, id)
	phase, err := scanPhase(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Phase{}, apperr.NotFound(phaseNotFoundMessage)
		}
		return Phase{}, fmt.Errorf("get phase: %w", err)
	}
	return phase, nil
}

// ListPhases lists an event's phases in sort order.
func (r *Repo) ListPhases(ctx context.Context, workspaceID, eventID uuid.UUID) ([]Phase, error) {
	query := `SELECT` + phaseColumns + `
		FROM event_phases
		WHERE workspace_id = $1 AND event_id = $2
		ORDER BY sort_order ASC, created_at ASC`

	rows, err := r.pool.Query(ctx, query, workspaceID, eventID)
	if err != nil {
		return nil, fmt.Errorf("list phases: %w", err)
	}
	defer rows.Close()

	items := make([]Phase, 0)
	for rows.Next() {
		phase, err := scanPhase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan phase: %w", err)
		}
		items = append(items, phase)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate phases: %w", rows.Err())
	}
	return items, nil
}

// UpdatePhase applies partial updates to a phase.
func (r *Repo) UpdatePhase(ctx context.Context, workspaceID, id uuid.UUID, params UpdatePhaseParams) (Phase, error) {
	query := `
		UPDATE event_phases
		SET phase_type_id = COALESCE($3, phase_type_id),
		    name = COALESCE($4, name),
		    start_at = COALESCE($5, start_at),
		    end_at = COALESCE($6, end_at),
		    guest_count_mode = COALESCE($7, guest_count_mode),
		    guest_count_override = COALESCE($8, guest_count_override),
		    notes = COALESCE($9, notes)
		WHERE workspace_id = $1 AND id = $2
		RETURNING` + phaseColumns

	row := r.pool.QueryRow(ctx, query, workspaceID, id,
		params.PhaseTypeID, params.Name, params.StartAt, params.EndAt,
		params.GuestCountMode, params.GuestCountOverride, params.Notes,
	)
	phase, err := scanPhase(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Phase{}, apperr.NotFound(phaseNotFoundMessage)
		}
		return Phase{}, fmt.Errorf("update phase: %w", err)
	}
	return phase, nil
}

// DeletePhase deletes a phase and cascades its items.
func (r *Repo) DeletePhase(ctx context.Context, workspaceID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM event_phases WHERE workspace_id = $1 AND id = $2`, workspaceID, id)
	if err != nil {
		return fmt.Errorf("delete phase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(phaseNotFoundMessage)
	}
	return nil
}

// ReorderPhases rewrites an event's phase ordering in one transaction. The
// ordered list must cover exactly the event's phases.
func (r *Repo) ReorderPhases(ctx context.Context, workspaceID, eventID uuid.UUID, orderedIDs []uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reorder phases: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var count int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM event_phases WHERE workspace_id = $1 AND event_id = $2`,
		workspaceID, eventID).Scan(&count); err != nil {
		return fmt.Errorf("count phases: %w", err)
	}
	if count != len(orderedIDs) {
		return apperr.Validation("ordering must include every phase of the event exactly once")
	}

	for position, id := range orderedIDs {
		tag, err := tx.Exec(ctx,
			`UPDATE event_phases SET sort_order = $4
			 WHERE workspace_id = $1 AND event_id = $2 AND id = $3`,
			workspaceID, eventID, id, position+1)
		if err != nil {
			return fmt.Errorf("reorder phase: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperr.Validation(fmt.Sprintf("phase %s does not belong to the event", id))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reorder phases: %w", err)
	}
	return nil
}

func scanEvent(row rowScanner) (Event, error) {
	var e Event
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&e.ID, &e.WorkspaceID, &e.Name, &e.Status, &e.Location, &e.StartAt, &e.EndAt,
		&e.DefaultGuestCount, &createdAt, &updatedAt,
	); err != nil {
		return Event{}, err
	}
	e.CreatedAt = createdAt.Format(time.RFC3339)
	e.UpdatedAt = updatedAt.Format(time.RFC3339)
	return e, nil
}

func scanPhase(row rowScanner) (Phase, error) {
	var p Phase
	var createdAt time.Time
	if err := row.Scan(
		&p.ID, &p.WorkspaceID, &p.EventID, &p.PhaseTypeID, &p.Name, &p.SortOrder,
		&p.StartAt, &p.EndAt, &p.GuestCountMode, &p.GuestCountOverride, &p.Notes, &createdAt,
	); err != nil {
		return Phase{}, err
	}
	p.CreatedAt = createdAt.Format(time.RFC3339)
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}
