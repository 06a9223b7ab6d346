package postgres

import (
	"context"
	"strings"

	"repairdesk/internal/models"
	"repairdesk/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepo struct{ db *pgxpool.Pool }

func NewTicketRepo(db *pgxpool.Pool) repository.TicketRepository { return &TicketRepo{db: db} }

// ticketColumns is the joined shape every list/get query returns:
// the ticket row plus client name/phone and master name.
const ticketColumns = `
	t.id, t.start_date, t.equipment_type, t.equipment_model, t.problem_text,
	t.status, t.completion_date, t.client_id, t.master_id,
	c.full_name, c.phone, COALESCE(m.full_name, '')`

const ticketJoins = `
	FROM tickets t
	JOIN users c ON c.id = t.client_id
	LEFT JOIN users m ON m.id = t.master_id`

func (r *TicketRepo) Create(ctx context.Context, t *models.Ticket) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO tickets (equipment_type, equipment_model, problem_text, client_id, status, start_date)
		VALUES ($1,$2,$3,$4,'New',CURRENT_DATE)
		RETURNING id, start_date, status`,
		t.EquipmentType, t.EquipmentModel, t.ProblemText, t.ClientID).
		Scan(&t.ID, &t.StartDate, &t.Status)
}

func (r *TicketRepo) Get(ctx context.Context, id int64) (*models.Ticket, error) {
	var t models.Ticket
	err := r.db.QueryRow(ctx, `SELECT`+ticketColumns+ticketJoins+` WHERE t.id = $1`, id).
		Scan(&t.ID, &t.StartDate, &t.EquipmentType, &t.EquipmentModel, &t.ProblemText,
			&t.Status, &t.CompletionDate, &t.ClientID, &t.MasterID,
			&t.ClientName, &t.ClientPhone, &t.MasterName)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns tickets newest first, optionally narrowed to an exact status.
func (r *TicketRepo) List(ctx context.Context, status models.Status) ([]models.Ticket, error) {
	sql := `SELECT` + ticketColumns + ticketJoins
	args := []any{}
	if status != "" {
		sql += ` WHERE t.status = $1`
		args = append(args, status)
	}
	sql += ` ORDER BY t.id DESC`
	return r.queryTickets(ctx, sql, args...)
}

func (r *TicketRepo) ListByClient(ctx context.Context, clientID int64) ([]models.Ticket, error) {
	return r.queryTickets(ctx,
		`SELECT`+ticketColumns+ticketJoins+` WHERE t.client_id = $1 ORDER BY t.id DESC`,
		clientID)
}

func (r *TicketRepo) ListByMaster(ctx context.Context, masterID int64) ([]models.Ticket, error) {
	return r.queryTickets(ctx,
		`SELECT`+ticketColumns+ticketJoins+` WHERE t.master_id = $1 ORDER BY t.id DESC`,
		masterID)
}

func (r *TicketRepo) ListUnassigned(ctx context.Context) ([]models.Ticket, error) {
	return r.queryTickets(ctx,
		`SELECT`+ticketColumns+ticketJoins+` WHERE t.master_id IS NULL ORDER BY t.id DESC`)
}

// Search matches the term case-insensitively against equipment type,
// model, problem text, client name and phone, and as a numeric prefix
// of the ticket id.
func (r *TicketRepo) Search(ctx context.Context, term string) ([]models.Ticket, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return r.List(ctx, "")
	}
	p := "%" + term + "%"
	return r.queryTickets(ctx, `
		SELECT`+ticketColumns+ticketJoins+`
		WHERE
			t.id::TEXT LIKE $1 || '%' OR
			t.equipment_type ILIKE $2 OR
			t.equipment_model ILIKE $2 OR
			t.problem_text ILIKE $2 OR
			c.full_name ILIKE $2 OR
			c.phone LIKE $2
		ORDER BY t.id DESC`,
		term, p)
}

// AssignMaster sets the master and forces status to InRepair. The WHERE
// clause carries the business rule: a ticket that is ReadyForPickup is
// never reopened by reassignment. The guard runs against the stored
// status inside the single UPDATE, so there is no read-then-write race.
func (r *TicketRepo) AssignMaster(ctx context.Context, ticketID, masterID int64) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE tickets
		SET master_id = $1, status = 'InRepair'
		WHERE id = $2 AND status <> 'ReadyForPickup'`,
		masterID, ticketID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() > 0 {
		return nil
	}
	// Nothing updated: either the ticket is gone or the guard refused it.
	var exists bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tickets WHERE id = $1)`, ticketID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return models.ErrNotFound
	}
	return models.ErrInvalidTransition
}

// UpdateStatus sets the status and stamps the completion date only on a
// transition into ReadyForPickup. Moving out of ReadyForPickup keeps
// the previously stored date (intentionally sticky).
func (r *TicketRepo) UpdateStatus(ctx context.Context, ticketID int64, status models.Status) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE tickets
		SET status = $1,
		    completion_date = CASE
		        WHEN $1 = 'ReadyForPickup' THEN CURRENT_DATE
		        ELSE completion_date
		    END
		WHERE id = $2`,
		status, ticketID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *TicketRepo) Statistics(ctx context.Context) (*models.Statistics, error) {
	var s models.Statistics

	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'ReadyForPickup'),
			COALESCE(ROUND(AVG(completion_date - start_date)::numeric, 1), 0)
		FROM tickets`).
		Scan(&s.TotalTickets, &s.CompletedTickets, &s.AvgRepairDays)
	if err != nil {
		return nil, err
	}

	s.ByType, err = r.groupCounts(ctx, `
		SELECT equipment_type, COUNT(*)
		FROM tickets
		GROUP BY equipment_type
		ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, err
	}

	s.ByStatus, err = r.groupCounts(ctx, `
		SELECT status, COUNT(*)
		FROM tickets
		GROUP BY status`)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *TicketRepo) groupCounts(ctx context.Context, sql string) ([]models.GroupCount, error) {
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.GroupCount{}
	for rows.Next() {
		var g models.GroupCount
		if err := rows.Scan(&g.Key, &g.Count); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *TicketRepo) queryTickets(ctx context.Context, sql string, args ...any) ([]models.Ticket, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Ticket
	for rows.Next() {
		var t models.Ticket
		if err := rows.Scan(
			&t.ID, &t.StartDate, &t.EquipmentType, &t.EquipmentModel, &t.ProblemText,
			&t.Status, &t.CompletionDate, &t.ClientID, &t.MasterID,
			&t.ClientName, &t.ClientPhone, &t.MasterName,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
