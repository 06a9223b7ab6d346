package repository

import (
	"context"

	"repairdesk/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, fullName, phone, login, passwordHash string, role models.Role) (*models.User, error)
	GetByLogin(ctx context.Context, login string) (*models.User, string /*passwordHash*/, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	ListSpecialists(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id int64) error
}

type TicketRepository interface {
	Create(ctx context.Context, t *models.Ticket) error
	Get(ctx context.Context, id int64) (*models.Ticket, error)
	List(ctx context.Context, status models.Status) ([]models.Ticket, error)
	ListByClient(ctx context.Context, clientID int64) ([]models.Ticket, error)
	ListByMaster(ctx context.Context, masterID int64) ([]models.Ticket, error)
	ListUnassigned(ctx context.Context) ([]models.Ticket, error)
	Search(ctx context.Context, term string) ([]models.Ticket, error)
	AssignMaster(ctx context.Context, ticketID, masterID int64) error
	UpdateStatus(ctx context.Context, ticketID int64, status models.Status) error
	Statistics(ctx context.Context) (*models.Statistics, error)
}

type CommentRepository interface {
	Add(ctx context.Context, message string, authorID, ticketID int64) (*models.Comment, error)
	ListByTicket(ctx context.Context, ticketID int64) ([]models.Comment, error)
}
