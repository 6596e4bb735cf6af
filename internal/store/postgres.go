package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/kishanyadav-shop/support-portal/internal/domain"
	"github.com/kishanyadav-shop/support-portal/internal/notify"
)

// PostgresStore is the durable TicketStore used when a DSN is configured.
// The memory store remains the default; both honor the same mutation and
// audit semantics.
type PostgresStore struct {
	pool     *pgxpool.Pool
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewPostgresStore constructs the store.
func NewPostgresStore(pool *pgxpool.Pool, notifier notify.Notifier, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{pool: pool, notifier: notifier, logger: logger}
}

const ticketColumns = `id, customer_name, email, order_id, subject, description, status,
       ai_priority, ai_sentiment, ai_summary, ai_suggested_response,
       manual_priority, manual_sentiment, tags, created_at, updated_at`

// Create inserts the ticket and its creation history entry.
func (s *PostgresStore) Create(ctx context.Context, ticket *domain.Ticket) error {
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusOpen
	}
	ticket.Tags = dedupeTags(ticket.Tags)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Seeded tickets carry their own CreatedAt; everything else is stamped
	// by the database.
	var createdAt any
	if !ticket.CreatedAt.IsZero() {
		createdAt = ticket.CreatedAt
	}

	const query = `
        INSERT INTO tickets (id, customer_name, email, order_id, subject, description, status,
                             ai_priority, ai_sentiment, ai_summary, ai_suggested_response,
                             manual_priority, manual_sentiment, tags, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,
                COALESCE($15, NOW()), COALESCE($15, NOW()))
        RETURNING created_at, updated_at`
	if err := tx.QueryRow(ctx, query,
		ticket.ID,
		ticket.CustomerName,
		ticket.Email,
		ticket.OrderID,
		ticket.Subject,
		ticket.Description,
		ticket.Status,
		ticket.AIPriority,
		ticket.AISentiment,
		ticket.AISummary,
		ticket.AISuggestedResponse,
		ticket.ManualPriority,
		ticket.ManualSentiment,
		ticket.Tags,
		createdAt,
	).Scan(&ticket.CreatedAt, &ticket.UpdatedAt); err != nil {
		return err
	}

	entry := domain.HistoryEntry{
		Timestamp: ticket.CreatedAt,
		Action:    domain.ActionTicketCreated,
		Actor:     domain.ActorSystem,
	}
	if err := insertHistory(ctx, tx, ticket.ID, entry); err != nil {
		return err
	}
	ticket.History = append([]domain.HistoryEntry{entry}, ticket.History...)
	return tx.Commit(ctx)
}

// Get fetches one ticket with its history, newest entry first.
func (s *PostgresStore) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	ticket, err := scanTicket(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	if ticket.History, err = s.loadHistory(ctx, id); err != nil {
		return nil, err
	}
	return ticket, nil
}

// SetStatus transitions the ticket, records the change, and notifies the
// customer when the ticket enters Resolved.
func (s *PostgresStore) SetStatus(ctx context.Context, id string, status domain.TicketStatus, actor string) (*domain.Ticket, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var oldStatus domain.TicketStatus
	if err := tx.QueryRow(ctx, `SELECT status FROM tickets WHERE id=$1 FOR UPDATE`, id).Scan(&oldStatus); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2`, status, id); err != nil {
		return nil, err
	}
	entry := domain.HistoryEntry{
		Action:  domain.ActionStatusChange,
		Actor:   actor,
		Details: fmt.Sprintf("Changed from %s to %s", oldStatus, status),
	}
	if err := insertHistory(ctx, tx, id, entry); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	ticket, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if status == domain.TicketStatusResolved && oldStatus != domain.TicketStatusResolved && s.notifier != nil {
		message := fmt.Sprintf("Your ticket #%s has been marked as RESOLVED. Please check your dashboard for details.", id)
		if err := s.notifier.Notify(ctx, id, ticket.Email, message); err != nil && s.logger != nil {
			s.logger.Warn("resolution notification failed", zap.String("ticket_id", id), zap.Error(err))
		}
	}
	return ticket, nil
}

// UpdateFields applies the typed partial update and records which fields
// changed.
func (s *PostgresStore) UpdateFields(ctx context.Context, id string, update TicketUpdate, actor string) (*domain.Ticket, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	sets := []string{"updated_at=NOW()"}
	args := []any{}
	if update.Status != nil {
		args = append(args, *update.Status)
		sets = append(sets, fmt.Sprintf("status=$%d", len(args)))
	}
	if update.ManualPriority != nil {
		args = append(args, *update.ManualPriority)
		sets = append(sets, fmt.Sprintf("manual_priority=$%d", len(args)))
	}
	if update.ManualSentiment != nil {
		args = append(args, *update.ManualSentiment)
		sets = append(sets, fmt.Sprintf("manual_sentiment=$%d", len(args)))
	}
	if update.Tags != nil {
		args = append(args, dedupeTags(*update.Tags))
		sets = append(sets, fmt.Sprintf("tags=$%d", len(args)))
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE tickets SET %s WHERE id=$%d", joinFields(sets), len(args))
	cmd, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, ErrTicketNotFound
	}

	entry := domain.HistoryEntry{
		Action:  domain.ActionUpdatedDetails,
		Actor:   actor,
		Details: joinFields(update.ChangedFields()),
	}
	if err := insertHistory(ctx, tx, id, entry); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// DeleteMany removes matching tickets; history rows cascade.
func (s *PostgresStore) DeleteMany(ctx context.Context, ids []string) (int, error) {
	cmd, err := s.pool.Exec(ctx, `DELETE FROM tickets WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}
	return int(cmd.RowsAffected()), nil
}

// List returns tickets matching the filter, newest-first unless a sort is
// requested. Sorting ties break on insertion order.
func (s *PostgresStore) List(ctx context.Context, filter Filter) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets`
	clauses := []string{}
	args := []any{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		clauses = append(clauses, fmt.Sprintf("(customer_name ILIKE $%d OR email ILIKE $%d OR subject ILIKE $%d)", len(args), len(args), len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("COALESCE(manual_priority, ai_priority)=$%d", len(args)))
	}
	if filter.Sentiment != nil {
		args = append(args, *filter.Sentiment)
		clauses = append(clauses, fmt.Sprintf("COALESCE(manual_sentiment, ai_sentiment)=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY " + orderClause(filter)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

// Count returns the number of live tickets.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&count)
	return count, err
}

// StatusTally returns per-status counts.
func (s *PostgresStore) StatusTally(ctx context.Context) (map[domain.TicketStatus]int, error) {
	rows, err := s.pool.Query(ctx, `SELECT status, COUNT(*) FROM tickets GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tally := make(map[domain.TicketStatus]int, 4)
	for rows.Next() {
		var status domain.TicketStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		tally[status] = count
	}
	return tally, rows.Err()
}

func (s *PostgresStore) loadHistory(ctx context.Context, ticketID string) ([]domain.HistoryEntry, error) {
	const query = `
        SELECT created_at, action, actor, details
        FROM ticket_history WHERE ticket_id=$1 ORDER BY created_at DESC, seq DESC`
	rows, err := s.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		if err := rows.Scan(&entry.Timestamp, &entry.Action, &entry.Actor, &entry.Details); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func insertHistory(ctx context.Context, tx pgx.Tx, ticketID string, entry domain.HistoryEntry) error {
	const query = `
        INSERT INTO ticket_history (ticket_id, action, actor, details)
        VALUES ($1,$2,$3,$4)`
	_, err := tx.Exec(ctx, query, ticketID, entry.Action, entry.Actor, entry.Details)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.CustomerName,
		&ticket.Email,
		&ticket.OrderID,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Status,
		&ticket.AIPriority,
		&ticket.AISentiment,
		&ticket.AISummary,
		&ticket.AISuggestedResponse,
		&ticket.ManualPriority,
		&ticket.ManualSentiment,
		&ticket.Tags,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func orderClause(filter Filter) string {
	column := map[SortKey]string{
		SortByCreatedAt:    "created_at",
		SortByUpdatedAt:    "updated_at",
		SortByCustomerName: "LOWER(customer_name)",
		SortBySubject:      "LOWER(subject)",
		SortByStatus:       "status",
		SortByPriority:     "array_position(ARRAY['Low','Medium','High','Critical'], COALESCE(manual_priority, ai_priority))",
		SortBySentiment:    "array_position(ARRAY['Positive','Neutral','Negative','Angry'], COALESCE(manual_sentiment, ai_sentiment))",
	}[filter.SortBy]
	if column == "" {
		return "created_at DESC"
	}
	direction := "ASC"
	if filter.Direction == SortDesc {
		direction = "DESC"
	}
	return fmt.Sprintf("%s %s, created_at DESC", column, direction)
}
