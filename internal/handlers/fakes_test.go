package handlers

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"repairdesk/internal/models"
)

// In-memory stores mirroring the postgres contract so handler behavior
// can be exercised without a database.

type memUsers struct {
	seq   int64
	users map[int64]*models.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[int64]*models.User{}} }

func (m *memUsers) add(name string, role models.Role) *models.User {
	m.seq++
	u := &models.User{ID: m.seq, FullName: name, Login: strings.ToLower(strings.ReplaceAll(name, " ", "")), Role: role}
	m.users[u.ID] = u
	return u
}

func (m *memUsers) Create(_ context.Context, fullName, phone, login, hash string, role models.Role) (*models.User, error) {
	for _, u := range m.users {
		if u.Login == login {
			return nil, models.ErrDuplicateLogin
		}
	}
	m.seq++
	u := &models.User{ID: m.seq, FullName: fullName, Phone: phone, Login: login, Role: role}
	m.users[u.ID] = u
	return u, nil
}

func (m *memUsers) GetByLogin(_ context.Context, login string) (*models.User, string, error) {
	for _, u := range m.users {
		if u.Login == login {
			cp := *u
			return &cp, "", nil
		}
	}
	return nil, "", nil
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) List(context.Context) ([]models.User, error) {
	ids := make([]int64, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, *m.users[id])
	}
	return out, nil
}

func (m *memUsers) ListSpecialists(ctx context.Context) ([]models.User, error) {
	all, _ := m.List(ctx)
	out := []models.User{}
	for _, u := range all {
		if u.Role == models.RoleSpecialist {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (m *memUsers) Delete(_ context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type memTickets struct {
	seq     int64
	tickets map[int64]*models.Ticket
	users   *memUsers
}

func newMemTickets(users *memUsers) *memTickets {
	return &memTickets{tickets: map[int64]*models.Ticket{}, users: users}
}

func today() time.Time {
	y, mo, d := time.Now().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

func (m *memTickets) joined(t *models.Ticket) models.Ticket {
	cp := *t
	if c, ok := m.users.users[t.ClientID]; ok {
		cp.ClientName = c.FullName
		cp.ClientPhone = c.Phone
	}
	if t.MasterID != nil {
		if u, ok := m.users.users[*t.MasterID]; ok {
			cp.MasterName = u.FullName
		}
	}
	return cp
}

func (m *memTickets) Create(_ context.Context, t *models.Ticket) error {
	m.seq++
	t.ID = m.seq
	t.Status = models.StatusNew
	t.StartDate = today()
	t.CompletionDate = nil
	cp := *t
	m.tickets[t.ID] = &cp
	return nil
}

func (m *memTickets) Get(_ context.Context, id int64) (*models.Ticket, error) {
	t, ok := m.tickets[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	j := m.joined(t)
	return &j, nil
}

func (m *memTickets) newestFirst(keep func(*models.Ticket) bool) []models.Ticket {
	ids := make([]int64, 0, len(m.tickets))
	for id := range m.tickets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	out := []models.Ticket{}
	for _, id := range ids {
		if keep(m.tickets[id]) {
			out = append(out, m.joined(m.tickets[id]))
		}
	}
	return out
}

func (m *memTickets) List(_ context.Context, status models.Status) ([]models.Ticket, error) {
	return m.newestFirst(func(t *models.Ticket) bool {
		return status == "" || t.Status == status
	}), nil
}

func (m *memTickets) ListByClient(_ context.Context, clientID int64) ([]models.Ticket, error) {
	return m.newestFirst(func(t *models.Ticket) bool { return t.ClientID == clientID }), nil
}

func (m *memTickets) ListByMaster(_ context.Context, masterID int64) ([]models.Ticket, error) {
	return m.newestFirst(func(t *models.Ticket) bool {
		return t.MasterID != nil && *t.MasterID == masterID
	}), nil
}

func (m *memTickets) ListUnassigned(_ context.Context) ([]models.Ticket, error) {
	return m.newestFirst(func(t *models.Ticket) bool { return t.MasterID == nil }), nil
}

func (m *memTickets) Search(_ context.Context, term string) ([]models.Ticket, error) {
	needle := strings.ToLower(strings.TrimSpace(term))
	return m.newestFirst(func(t *models.Ticket) bool {
		j := m.joined(t)
		if strings.HasPrefix(strconv.FormatInt(t.ID, 10), needle) {
			return true
		}
		for _, field := range []string{j.EquipmentType, j.EquipmentModel, j.ProblemText, j.ClientName, j.ClientPhone} {
			if strings.Contains(strings.ToLower(field), needle) {
				return true
			}
		}
		return false
	}), nil
}

func (m *memTickets) AssignMaster(_ context.Context, ticketID, masterID int64) error {
	t, ok := m.tickets[ticketID]
	if !ok {
		return models.ErrNotFound
	}
	if t.Status == models.StatusReadyForPickup {
		return models.ErrInvalidTransition
	}
	id := masterID
	t.MasterID = &id
	t.Status = models.StatusInRepair
	return nil
}

func (m *memTickets) UpdateStatus(_ context.Context, ticketID int64, status models.Status) error {
	t, ok := m.tickets[ticketID]
	if !ok {
		return models.ErrNotFound
	}
	t.Status = status
	if status == models.StatusReadyForPickup {
		d := today()
		t.CompletionDate = &d
	}
	return nil
}

func (m *memTickets) Statistics(_ context.Context) (*models.Statistics, error) {
	s := &models.Statistics{ByType: []models.GroupCount{}, ByStatus: []models.GroupCount{}}
	byType := map[string]int{}
	byStatus := map[string]int{}
	sum, n := 0.0, 0
	for _, t := range m.tickets {
		s.TotalTickets++
		byType[t.EquipmentType]++
		byStatus[string(t.Status)]++
		if t.Status == models.StatusReadyForPickup {
			s.CompletedTickets++
		}
		if t.CompletionDate != nil {
			sum += t.CompletionDate.Sub(t.StartDate).Hours() / 24
			n++
		}
	}
	if n > 0 {
		s.AvgRepairDays = float64(int(sum/float64(n)*10+0.5)) / 10
	}
	for k, v := range byType {
		s.ByType = append(s.ByType, models.GroupCount{Key: k, Count: v})
	}
	sort.Slice(s.ByType, func(i, j int) bool { return s.ByType[i].Count > s.ByType[j].Count })
	for k, v := range byStatus {
		s.ByStatus = append(s.ByStatus, models.GroupCount{Key: k, Count: v})
	}
	return s, nil
}

type memComments struct {
	seq      int64
	comments []models.Comment
	users    *memUsers
	tickets  *memTickets
}

func newMemComments(users *memUsers, tickets *memTickets) *memComments {
	return &memComments{users: users, tickets: tickets}
}

func (m *memComments) Add(_ context.Context, message string, authorID, ticketID int64) (*models.Comment, error) {
	if _, ok := m.tickets.tickets[ticketID]; !ok {
		return nil, models.ErrNotFound
	}
	m.seq++
	c := models.Comment{ID: m.seq, Message: message, CreatedAt: time.Now(), AuthorID: authorID, TicketID: ticketID}
	if u, ok := m.users.users[authorID]; ok {
		c.AuthorName = u.FullName
	}
	m.comments = append(m.comments, c)
	return &c, nil
}

func (m *memComments) ListByTicket(_ context.Context, ticketID int64) ([]models.Comment, error) {
	out := []models.Comment{}
	for i := len(m.comments) - 1; i >= 0; i-- {
		if m.comments[i].TicketID == ticketID {
			out = append(out, m.comments[i])
		}
	}
	return out, nil
}
