package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-admission/internal/domain"
)

// TicketRepository encapsulates ticket persistence. The store owns ticket
// identifiers: Create assigns one and GetByID reports found=false when the
// id is unknown.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) (int64, error)
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (domain.Ticket, bool, error)
}

// ErrTicketIDAssigned is returned when Create receives a ticket that already
// carries an identifier.
var ErrTicketIDAssigned = errors.New("ticket already has an id")

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) (int64, error) {
	if ticket.ID != 0 {
		return 0, ErrTicketIDAssigned
	}
	const query = `
        INSERT INTO tickets (title, description, assigned_username, priority, created_at, price_dollars, account_manager_username)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, updated_at`
	var id int64
	if err := r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.AssignedUser.Username,
		ticket.Priority,
		ticket.CreatedAt,
		ticket.PriceDollars,
		accountManagerUsername(ticket),
	).Scan(&id, &ticket.UpdatedAt); err != nil {
		return 0, err
	}
	ticket.ID = id
	return id, nil
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, assigned_username=$3, priority=$4,
            price_dollars=$5, account_manager_username=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.AssignedUser.Username,
		ticket.Priority,
		ticket.PriceDollars,
		accountManagerUsername(ticket),
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (domain.Ticket, bool, error) {
	const query = `
        SELECT t.id, t.title, t.description, t.priority, t.created_at, t.price_dollars, t.updated_at,
               a.username, a.first_name, a.last_name, a.email, a.is_account_manager, a.created_at,
               m.username, m.first_name, m.last_name, m.email, m.is_account_manager, m.created_at
        FROM tickets t
        JOIN users a ON a.username = t.assigned_username
        LEFT JOIN users m ON m.username = t.account_manager_username
        WHERE t.id=$1`

	var (
		ticket     domain.Ticket
		mgrName    *string
		mgrFirst   *string
		mgrLast    *string
		mgrEmail   *string
		mgrFlag    *bool
		mgrCreated *time.Time
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Priority,
		&ticket.CreatedAt,
		&ticket.PriceDollars,
		&ticket.UpdatedAt,
		&ticket.AssignedUser.Username,
		&ticket.AssignedUser.FirstName,
		&ticket.AssignedUser.LastName,
		&ticket.AssignedUser.Email,
		&ticket.AssignedUser.IsAccountManager,
		&ticket.AssignedUser.CreatedAt,
		&mgrName,
		&mgrFirst,
		&mgrLast,
		&mgrEmail,
		&mgrFlag,
		&mgrCreated,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Ticket{}, false, nil
	}
	if err != nil {
		return domain.Ticket{}, false, err
	}
	if mgrName != nil {
		ticket.AccountManager = &domain.User{
			Username:         *mgrName,
			FirstName:        deref(mgrFirst),
			LastName:         deref(mgrLast),
			Email:            deref(mgrEmail),
			IsAccountManager: mgrFlag != nil && *mgrFlag,
		}
		if mgrCreated != nil {
			ticket.AccountManager.CreatedAt = *mgrCreated
		}
	}
	return ticket, true, nil
}

func accountManagerUsername(ticket *domain.Ticket) *string {
	if ticket.AccountManager == nil {
		return nil
	}
	name := ticket.AccountManager.Username
	return &name
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
