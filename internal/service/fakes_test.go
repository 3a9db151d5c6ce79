package service

import (
	"context"
	"time"

	"github.com/spec-kit/ticket-admission/internal/domain"
)

type fakeUsers struct {
	users          map[string]domain.User
	accountManager *domain.User
	err            error
	lookups        []string
	managerLookups int
}

func newFakeUsers(users ...domain.User) *fakeUsers {
	f := &fakeUsers{users: map[string]domain.User{}}
	for _, u := range users {
		f.users[u.Username] = u
	}
	return f
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (domain.User, bool, error) {
	f.lookups = append(f.lookups, username)
	if f.err != nil {
		return domain.User{}, false, f.err
	}
	user, ok := f.users[username]
	return user, ok, nil
}

func (f *fakeUsers) GetAccountManager(context.Context) (domain.User, bool, error) {
	f.managerLookups++
	if f.err != nil {
		return domain.User{}, false, f.err
	}
	if f.accountManager == nil {
		return domain.User{}, false, nil
	}
	return *f.accountManager, true, nil
}

type fakeTickets struct {
	stored    map[int64]domain.Ticket
	created   []domain.Ticket
	updated   []domain.Ticket
	nextID    int64
	createErr error
	getErr    error
	updateErr error
}

func newFakeTickets() *fakeTickets {
	return &fakeTickets{stored: map[int64]domain.Ticket{}, nextID: 1}
}

func (f *fakeTickets) Create(_ context.Context, ticket *domain.Ticket) (int64, error) {
	f.created = append(f.created, *ticket)
	if f.createErr != nil {
		return 0, f.createErr
	}
	id := f.nextID
	f.nextID++
	stored := *ticket
	stored.ID = id
	f.stored[id] = stored
	return id, nil
}

func (f *fakeTickets) Update(_ context.Context, ticket *domain.Ticket) error {
	f.updated = append(f.updated, *ticket)
	if f.updateErr != nil {
		return f.updateErr
	}
	f.stored[ticket.ID] = *ticket
	return nil
}

func (f *fakeTickets) GetByID(_ context.Context, id int64) (domain.Ticket, bool, error) {
	if f.getErr != nil {
		return domain.Ticket{}, false, f.getErr
	}
	ticket, ok := f.stored[id]
	return ticket, ok, nil
}

type notification struct {
	title    string
	username string
}

type fakeNotifier struct {
	sent []notification
	err  error
}

func (f *fakeNotifier) SendToAdministrator(_ context.Context, title, username string) error {
	f.sent = append(f.sent, notification{title: title, username: username})
	return f.err
}

type fixedClock struct {
	now   time.Time
	calls int
}

func (c *fixedClock) Now() time.Time {
	c.calls++
	return c.now
}
