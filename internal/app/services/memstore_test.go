package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yigit/volunteerhub/internal/app/models"
	"github.com/yigit/volunteerhub/internal/pkg/apperrors"
)

// memDB is an in-memory UnitOfWork. A transaction holds the single lock for its whole
// duration, which serializes transactions the way the event row lock does, and restores a
// snapshot when fn fails.
type memDB struct {
	mu     sync.Mutex
	nextID int64
	data   memData
}

type memData struct {
	users      map[int64]models.User
	volunteers map[int64]models.VolunteerProfile
	managers   map[int64]models.ManagerProfile
	events     map[int64]models.Event
	parts      map[[2]int64]models.Participation
	statuses   []models.RequestStatus
	feedback   []models.Feedback
}

func newMemDB() *memDB {
	return &memDB{data: memData{
		users:      map[int64]models.User{},
		volunteers: map[int64]models.VolunteerProfile{},
		managers:   map[int64]models.ManagerProfile{},
		events:     map[int64]models.Event{},
		parts:      map[[2]int64]models.Participation{},
	}}
}

func (d memData) clone() memData {
	c := memData{
		users:      make(map[int64]models.User, len(d.users)),
		volunteers: make(map[int64]models.VolunteerProfile, len(d.volunteers)),
		managers:   make(map[int64]models.ManagerProfile, len(d.managers)),
		events:     make(map[int64]models.Event, len(d.events)),
		parts:      make(map[[2]int64]models.Participation, len(d.parts)),
		statuses:   append([]models.RequestStatus(nil), d.statuses...),
		feedback:   append([]models.Feedback(nil), d.feedback...),
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.volunteers {
		c.volunteers[k] = v
	}
	for k, v := range d.managers {
		c.managers[k] = v
	}
	for k, v := range d.events {
		c.events[k] = v
	}
	for k, v := range d.parts {
		c.parts[k] = v
	}
	return c
}

func (m *memDB) Stores() Stores { return m.stores(false) }

func (m *memDB) WithTransaction(ctx context.Context, fn TxFn) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.data.clone()
	if err := fn(ctx, m.stores(true)); err != nil {
		m.data = snapshot
		return err
	}
	return nil
}

func (m *memDB) stores(inTx bool) Stores {
	s := memStore{db: m, inTx: inTx}
	return Stores{
		Users:          memUsers{s},
		Volunteers:     memVolunteers{s},
		Managers:       memManagers{s},
		Events:         memEvents{s},
		Participations: memParticipations{s},
		RequestStatus:  memStatuses{s},
		Feedback:       memFeedback{s},
	}
}

func (m *memDB) newID() int64 {
	m.nextID++
	return m.nextID
}

type memStore struct {
	db   *memDB
	inTx bool
}

// do runs fn with the data locked unless the caller already holds the transaction lock
func (s memStore) do(fn func(d *memData) error) error {
	if !s.inTx {
		s.db.mu.Lock()
		defer s.db.mu.Unlock()
	}
	return fn(&s.db.data)
}

// seeding helpers

func (m *memDB) addUser(u models.User) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = m.newID()
	u.IsActive = true
	m.data.users[u.ID] = u
	return &u
}

func (m *memDB) addVolunteer(first string, interests []string, lat, lon *float64) int64 {
	u := m.addUser(models.User{Email: strings.ToLower(first) + "@example.org", FirstName: first, LastName: "Volunteer", RoleType: models.RoleVolunteer})
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.volunteers[u.ID] = models.VolunteerProfile{UserID: u.ID, Age: 25, Interests: interests, Latitude: lat, Longitude: lon}
	return u.ID
}

func (m *memDB) addManager(first string) int64 {
	u := m.addUser(models.User{Email: strings.ToLower(first) + "@org.example", FirstName: first, LastName: "Manager", RoleType: models.RoleManager})
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.managers[u.ID] = models.ManagerProfile{UserID: u.ID, OrganizationName: "Green Earth", PhoneNumber: "+919876543210", Age: 40}
	return u.ID
}

func (m *memDB) addEvent(e models.Event) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = m.newID()
	m.data.events[e.ID] = e
	return e.ID
}

func (m *memDB) setState(eventID, userID int64, state models.ParticipationState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.parts[[2]int64{eventID, userID}] = models.Participation{EventID: eventID, UserID: userID, State: state}
}

func (m *memDB) state(eventID, userID int64) models.ParticipationState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.data.parts[[2]int64{eventID, userID}]; ok {
		return p.State
	}
	return models.StateNone
}

func (m *memDB) auditRows() []models.RequestStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.RequestStatus(nil), m.data.statuses...)
}

func (m *memDB) event(id int64) models.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.events[id]
}

// users

type memUsers struct{ memStore }

func (s memUsers) Create(_ context.Context, u *models.User) error {
	return s.do(func(d *memData) error {
		for _, existing := range d.users {
			if existing.Email == u.Email {
				return apperrors.ErrEmailAlreadyExists
			}
		}
		u.ID = s.db.newID()
		d.users[u.ID] = *u
		return nil
	})
}

func (s memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	var out *models.User
	err := s.do(func(d *memData) error {
		u, ok := d.users[id]
		if !ok {
			return apperrors.ErrUserNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

func (s memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	var out *models.User
	err := s.do(func(d *memData) error {
		for _, u := range d.users {
			if u.Email == email {
				u := u
				out = &u
				return nil
			}
		}
		return apperrors.ErrUserNotFound
	})
	return out, err
}

func (s memUsers) UpdateLastLogin(_ context.Context, userID int64, at time.Time) error {
	return s.do(func(d *memData) error {
		u, ok := d.users[userID]
		if !ok {
			return apperrors.ErrUserNotFound
		}
		u.LastLoginAt = &at
		d.users[userID] = u
		return nil
	})
}

// volunteers

type memVolunteers struct{ memStore }

func (s memVolunteers) Create(_ context.Context, p *models.VolunteerProfile) error {
	return s.do(func(d *memData) error {
		d.volunteers[p.UserID] = *p
		return nil
	})
}

func (s memVolunteers) GetByUserID(_ context.Context, userID int64) (*models.VolunteerProfile, error) {
	var out *models.VolunteerProfile
	err := s.do(func(d *memData) error {
		p, ok := d.volunteers[userID]
		if !ok {
			return apperrors.ErrProfileNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (s memVolunteers) UpdateLocation(_ context.Context, userID int64, lat, lon float64, at time.Time) error {
	return s.do(func(d *memData) error {
		p, ok := d.volunteers[userID]
		if !ok {
			return apperrors.ErrProfileNotFound
		}
		p.Latitude, p.Longitude, p.LastLocationUpdate = &lat, &lon, &at
		d.volunteers[userID] = p
		return nil
	})
}

func (s memVolunteers) ResetInterests(_ context.Context) (int64, error) {
	var n int64
	err := s.do(func(d *memData) error {
		for id, p := range d.volunteers {
			if len(p.Interests) > 0 {
				p.Interests = []string{}
				d.volunteers[id] = p
				n++
			}
		}
		return nil
	})
	return n, err
}

// managers

type memManagers struct{ memStore }

func (s memManagers) Create(_ context.Context, p *models.ManagerProfile) error {
	return s.do(func(d *memData) error {
		d.managers[p.UserID] = *p
		return nil
	})
}

func (s memManagers) GetByUserID(_ context.Context, userID int64) (*models.ManagerProfile, error) {
	var out *models.ManagerProfile
	err := s.do(func(d *memData) error {
		p, ok := d.managers[userID]
		if !ok {
			return apperrors.ErrProfileNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

// events

type memEvents struct{ memStore }

func (s memEvents) Create(_ context.Context, e *models.Event) error {
	return s.do(func(d *memData) error {
		e.ID = s.db.newID()
		d.events[e.ID] = *e
		return nil
	})
}

func (s memEvents) Update(_ context.Context, e *models.Event) error {
	return s.do(func(d *memData) error {
		if _, ok := d.events[e.ID]; !ok {
			return apperrors.ErrEventNotFound
		}
		d.events[e.ID] = *e
		return nil
	})
}

func (s memEvents) GetByID(_ context.Context, id int64) (*models.Event, error) {
	var out *models.Event
	err := s.do(func(d *memData) error {
		e, ok := d.events[id]
		if !ok {
			return apperrors.ErrEventNotFound
		}
		out = &e
		return nil
	})
	return out, err
}

func (s memEvents) GetForUpdate(ctx context.Context, id int64) (*models.Event, error) {
	return s.GetByID(ctx, id)
}

func (s memEvents) filter(keep func(e models.Event) bool, desc bool) []*models.Event {
	var out []*models.Event
	_ = s.do(func(d *memData) error {
		for _, e := range d.events {
			if keep(e) {
				e := e
				out = append(out, &e)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		less := a.Date.Before(b.Date) ||
			(a.Date.Equal(b.Date) && (a.StartTime < b.StartTime || (a.StartTime == b.StartTime && a.ID < b.ID)))
		if desc {
			return !less
		}
		return less
	})
	return out
}

func (s memEvents) ListFrom(_ context.Context, day time.Time) ([]*models.Event, error) {
	return s.filter(func(e models.Event) bool { return !e.Date.Before(day) }, false), nil
}

func (s memEvents) List(_ context.Context, offset uint64, limit int) ([]*models.Event, int64, error) {
	all := s.filter(func(models.Event) bool { return true }, true)
	total := int64(len(all))
	if int(offset) >= len(all) {
		return nil, total, nil
	}
	end := int(offset) + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (s memEvents) ListByManager(_ context.Context, managerID int64) ([]*models.Event, error) {
	return s.filter(func(e models.Event) bool { return e.ManagerID == managerID }, true), nil
}

func (s memEvents) GetByIDs(_ context.Context, ids []int64) ([]*models.Event, error) {
	want := map[int64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	return s.filter(func(e models.Event) bool { return want[e.ID] }, true), nil
}

func (s memEvents) CompleteElapsed(_ context.Context, today time.Time) (int64, error) {
	var n int64
	err := s.do(func(d *memData) error {
		for id, e := range d.events {
			if !e.Date.Before(today) || e.IsCompleted {
				continue
			}
			hasParticipant := false
			for _, p := range d.parts {
				if p.EventID == id && p.State == models.StateParticipant {
					hasParticipant = true
					break
				}
			}
			if !hasParticipant {
				continue
			}
			date := e.Date
			e.IsCompleted, e.CompletionDate = true, &date
			d.events[id] = e
			n++
		}
		return nil
	})
	return n, err
}

// participations

type memParticipations struct{ memStore }

func (s memParticipations) GetState(_ context.Context, eventID, userID int64) (models.ParticipationState, error) {
	state := models.StateNone
	err := s.do(func(d *memData) error {
		if p, ok := d.parts[[2]int64{eventID, userID}]; ok {
			state = p.State
		}
		return nil
	})
	return state, err
}

func (s memParticipations) SetState(_ context.Context, eventID, userID int64, state models.ParticipationState, at time.Time) error {
	return s.do(func(d *memData) error {
		key := [2]int64{eventID, userID}
		p, ok := d.parts[key]
		if !ok {
			p = models.Participation{EventID: eventID, UserID: userID, RequestedAt: at}
		}
		p.State, p.UpdatedAt = state, at
		d.parts[key] = p
		return nil
	})
}

func (s memParticipations) CountParticipants(_ context.Context, eventID int64) (int, error) {
	n := 0
	err := s.do(func(d *memData) error {
		for _, p := range d.parts {
			if p.EventID == eventID && p.State == models.StateParticipant {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (s memParticipations) CountParticipantsByEvents(_ context.Context, eventIDs []int64) (map[int64]int, error) {
	want := map[int64]bool{}
	for _, id := range eventIDs {
		want[id] = true
	}
	counts := map[int64]int{}
	err := s.do(func(d *memData) error {
		for _, p := range d.parts {
			if want[p.EventID] && p.State == models.StateParticipant {
				counts[p.EventID]++
			}
		}
		return nil
	})
	return counts, err
}

func (s memParticipations) ListByEvent(_ context.Context, eventID int64) ([]*models.Participation, error) {
	var out []*models.Participation
	err := s.do(func(d *memData) error {
		for _, p := range d.parts {
			if p.EventID != eventID {
				continue
			}
			p := p
			if u, ok := d.users[p.UserID]; ok {
				p.User = &u
			}
			out = append(out, &p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, err
}

func (s memParticipations) ListByUser(_ context.Context, userID int64) ([]*models.Participation, error) {
	var out []*models.Participation
	err := s.do(func(d *memData) error {
		for _, p := range d.parts {
			if p.UserID == userID {
				p := p
				out = append(out, &p)
			}
		}
		return nil
	})
	return out, err
}

// request statuses

type memStatuses struct{ memStore }

func (s memStatuses) Create(_ context.Context, rs *models.RequestStatus) error {
	return s.do(func(d *memData) error {
		for _, existing := range d.statuses {
			if existing.EventID == rs.EventID && existing.UserID == rs.UserID {
				return apperrors.NewConflictError("request was already decided")
			}
		}
		rs.ID = s.db.newID()
		d.statuses = append(d.statuses, *rs)
		return nil
	})
}

// feedback

type memFeedback struct{ memStore }

func (s memFeedback) Create(_ context.Context, f *models.Feedback) error {
	return s.do(func(d *memData) error {
		for _, existing := range d.feedback {
			if existing.EventID == f.EventID && existing.VolunteerID == f.VolunteerID {
				return apperrors.ErrFeedbackExists
			}
		}
		f.ID = s.db.newID()
		d.feedback = append(d.feedback, *f)
		return nil
	})
}

func (s memFeedback) Exists(_ context.Context, eventID, volunteerID int64) (bool, error) {
	found := false
	err := s.do(func(d *memData) error {
		for _, f := range d.feedback {
			if f.EventID == eventID && f.VolunteerID == volunteerID {
				found = true
			}
		}
		return nil
	})
	return found, err
}

func (s memFeedback) ListByEvents(_ context.Context, eventIDs []int64) ([]*models.Feedback, error) {
	want := map[int64]bool{}
	for _, id := range eventIDs {
		want[id] = true
	}
	var out []*models.Feedback
	err := s.do(func(d *memData) error {
		for _, f := range d.feedback {
			if !want[f.EventID] {
				continue
			}
			f := f
			if u, ok := d.users[f.VolunteerID]; ok {
				f.Volunteer = &u
			}
			out = append(out, &f)
		}
		return nil
	})
	return out, err
}
