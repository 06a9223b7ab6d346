package postgres

import (
	"context"
	"errors"

	"repairdesk/internal/models"
	"repairdesk/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// foreignKeyViolation is the postgres SQLSTATE for a missing referenced row.
const foreignKeyViolation = "23503"

type CommentRepo struct{ db *pgxpool.Pool }

func NewCommentRepo(db *pgxpool.Pool) repository.CommentRepository { return &CommentRepo{db: db} }

func (r *CommentRepo) Add(ctx context.Context, message string, authorID, ticketID int64) (*models.Comment, error) {
	var c models.Comment
	err := r.db.QueryRow(ctx, `
		INSERT INTO comments (message, author_id, ticket_id)
		VALUES ($1,$2,$3)
		RETURNING id, message, created_at, author_id, ticket_id`,
		message, authorID, ticketID).
		Scan(&c.ID, &c.Message, &c.CreatedAt, &c.AuthorID, &c.TicketID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepo) ListByTicket(ctx context.Context, ticketID int64) ([]models.Comment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.message, c.created_at, c.author_id, c.ticket_id, u.full_name
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.ticket_id = $1
		ORDER BY c.created_at DESC`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.Message, &c.CreatedAt, &c.AuthorID, &c.TicketID, &c.AuthorName); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
