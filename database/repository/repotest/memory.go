// Package repotest provides in-memory repositories for service tests.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	planRepo "coachhub/database/repository/plan"
	"coachhub/models"
	"coachhub/utils"

	"go.mongodb.org/mongo-driver/bson"
)

// Users is an in-memory userRepo.UserRepository.
type Users struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewUsers(users ...models.User) *Users {
	r := &Users{users: make(map[string]models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func cloneUser(u models.User) *models.User {
	out := u
	out.Devices = append([]models.Device(nil), u.Devices...)
	if u.Client != nil {
		c := *u.Client
		c.Tags = append([]string(nil), u.Client.Tags...)
		c.Goals = append([]string(nil), u.Client.Goals...)
		out.Client = &c
	}
	return &out
}

func (r *Users) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("user with email %s: %w", u.Email, utils.ErrDuplicate)
		}
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	r.users[u.ID] = *cloneUser(*u)
	return nil
}

func (r *Users) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, utils.ErrNotFound)
	}
	return cloneUser(u), nil
}

func (r *Users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, utils.ErrNotFound)
}

// UpdateFields supports the top-level and client.* keys the services write.
func (r *Users) UpdateFields(_ context.Context, id string, set bson.M) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, utils.ErrNotFound)
	}
	for k, v := range set {
		if strings.HasPrefix(k, "client.") && u.Client == nil {
			u.Client = &models.ClientProfile{}
		}
		switch k {
		case "name":
			u.Name = v.(string)
		case "phoneNumber":
			u.PhoneNumber = v.(string)
		case "locale":
			u.Locale = v.(string)
		case "fcmToken":
			u.FCMToken = v.(string)
		case "profileImage":
			u.ProfileImage = v.(string)
		case "client.status":
			u.Client.Status = v.(models.ClientStatus)
		case "client.tags":
			u.Client.Tags = v.([]string)
		case "client.goals":
			u.Client.Goals = v.([]string)
		case "client.heightCm":
			u.Client.HeightCm = v.(float64)
		case "client.targetWeightKg":
			u.Client.TargetWeightKg = v.(float64)
		default:
			return fmt.Errorf("repotest: unsupported field %q", k)
		}
	}
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u
	return nil
}

func (r *Users) UpsertDevice(_ context.Context, userID string, d models.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID, utils.ErrNotFound)
	}
	kept := u.Devices[:0:0]
	for _, existing := range u.Devices {
		if existing.DeviceID != d.DeviceID {
			kept = append(kept, existing)
		}
	}
	u.Devices = append(kept, d)
	r.users[userID] = u
	return nil
}

func (r *Users) RemoveDevice(_ context.Context, userID, deviceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID, utils.ErrNotFound)
	}
	kept := u.Devices[:0:0]
	for _, existing := range u.Devices {
		if existing.DeviceID != deviceID {
			kept = append(kept, existing)
		}
	}
	u.Devices = kept
	r.users[userID] = u
	return nil
}

func (r *Users) GetDeviceTokenHash(_ context.Context, userID, deviceID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return "", fmt.Errorf("user %s: %w", userID, utils.ErrNotFound)
	}
	for _, d := range u.Devices {
		if d.DeviceID == deviceID {
			return d.TokenHash, nil
		}
	}
	return "", nil
}

func (r *Users) clients(doctorID string, status models.ClientStatus) []models.User {
	var out []models.User
	for _, u := range r.users {
		if u.Role != models.RoleClient || u.Client == nil || u.Client.DoctorID != doctorID {
			continue
		}
		if status != "" && u.Client.Status != status {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ListClients filters by status, tag and search text and sorts by name.
func (r *Users) ListClients(_ context.Context, doctorID string, f models.ClientFilter) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.User{}
	search := strings.ToLower(f.Search)
	for _, u := range r.clients(doctorID, f.Status) {
		if f.Tag != "" && !contains(u.Client.Tags, f.Tag) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.Name), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		out = append(out, *cloneUser(u))
	}
	if f.Sort == "-name" {
		sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	}
	if f.Offset > 0 {
		if f.Offset >= int64(len(out)) {
			return []models.User{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < int64(len(out)) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *Users) ListClientIDs(_ context.Context, doctorID string, status models.ClientStatus) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := []string{}
	for _, u := range r.clients(doctorID, status) {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (r *Users) CountClients(_ context.Context, doctorID string, status models.ClientStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.clients(doctorID, status))), nil
}

func (r *Users) SetLastCheckIn(_ context.Context, clientID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[clientID]
	if !ok || u.Client == nil {
		return fmt.Errorf("client %s: %w", clientID, utils.ErrNotFound)
	}
	if u.Client.LastCheckIn == nil || at.After(*u.Client.LastCheckIn) {
		t := at
		u.Client.LastCheckIn = &t
	}
	r.users[clientID] = u
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Plans is an in-memory planRepo.PlanRepository.
type Plans struct {
	mu    sync.Mutex
	plans map[string]models.Plan
}

func NewPlans(plans ...models.Plan) *Plans {
	r := &Plans{plans: make(map[string]models.Plan)}
	for _, p := range plans {
		r.plans[p.ID] = p
	}
	return r
}

func (r *Plans) Create(_ context.Context, p *models.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	r.plans[p.ID] = *p
	return nil
}

func (r *Plans) GetByID(_ context.Context, id string) (*models.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, fmt.Errorf("plan %s: %w", id, utils.ErrNotFound)
	}
	return &p, nil
}

func (r *Plans) ListByClient(_ context.Context, clientID string) ([]models.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Plan{}
	for _, p := range r.plans {
		if p.ClientID == clientID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (r *Plans) Active(ctx context.Context, clientID string, now time.Time) (*models.Plan, error) {
	plans, _ := r.ListByClient(ctx, clientID)
	for _, p := range plans {
		if !p.StartDate.After(now) {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("active plan of %s: %w", clientID, utils.ErrNotFound)
}

func (r *Plans) Replace(_ context.Context, p *models.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[p.ID]; !ok {
		return fmt.Errorf("plan %s: %w", p.ID, utils.ErrNotFound)
	}
	p.UpdatedAt = time.Now().UTC()
	r.plans[p.ID] = *p
	return nil
}

func (r *Plans) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[id]; !ok {
		return fmt.Errorf("plan %s: %w", id, utils.ErrNotFound)
	}
	delete(r.plans, id)
	return nil
}

// Meals is an in-memory planRepo.MealRepository. Stored meals are deep copies.
type Meals struct {
	mu    sync.Mutex
	meals map[string]models.Meal
	order []string
}

func NewMeals(meals ...models.Meal) *Meals {
	r := &Meals{meals: make(map[string]models.Meal)}
	for _, m := range meals {
		r.meals[m.ID] = m.Clone()
		r.order = append(r.order, m.ID)
	}
	return r
}

func (r *Meals) Create(_ context.Context, m *models.Meal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.Categories == nil {
		m.Categories = []models.MealCategory{}
	}
	now := time.Now().UTC()
	m.CreatedAt, m.UpdatedAt = now, now
	r.meals[m.ID] = m.Clone()
	r.order = append(r.order, m.ID)
	return nil
}

func (r *Meals) GetByID(_ context.Context, id string) (*models.Meal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meals[id]
	if !ok {
		return nil, fmt.Errorf("meal %s: %w", id, utils.ErrNotFound)
	}
	c := m.Clone()
	return &c, nil
}

func (r *Meals) ListByPlan(_ context.Context, planID, dayID string) ([]models.Meal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Meal{}
	for _, id := range r.order {
		m, ok := r.meals[id]
		if !ok || m.PlanID != planID || (dayID != "" && m.DayID != dayID) {
			continue
		}
		out = append(out, m.Clone())
	}
	return out, nil
}

func (r *Meals) Replace(_ context.Context, m *models.Meal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.meals[m.ID]; !ok {
		return fmt.Errorf("meal %s: %w", m.ID, utils.ErrNotFound)
	}
	m.UpdatedAt = time.Now().UTC()
	r.meals[m.ID] = m.Clone()
	return nil
}

func (r *Meals) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.meals[id]; !ok {
		return fmt.Errorf("meal %s: %w", id, utils.ErrNotFound)
	}
	delete(r.meals, id)
	return nil
}

func (r *Meals) DeleteByPlan(_ context.Context, planID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, m := range r.meals {
		if m.PlanID == planID {
			delete(r.meals, id)
			n++
		}
	}
	return n, nil
}

func (r *Meals) SetCompletion(_ context.Context, id string, done bool, at *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meals[id]
	if !ok {
		return fmt.Errorf("meal %s: %w", id, utils.ErrNotFound)
	}
	m.IsCompleted = done
	m.CompletedAt = nil
	if at != nil {
		t := *at
		m.CompletedAt = &t
	}
	r.meals[id] = m
	return nil
}

func (r *Meals) SetOptionSelected(_ context.Context, id, category, option string, selected bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meals[id]
	if !ok {
		return fmt.Errorf("meal %s: %w", id, utils.ErrNotFound)
	}
	for ci := range m.Categories {
		if m.Categories[ci].Name != category {
			continue
		}
		for oi := range m.Categories[ci].Options {
			if m.Categories[ci].Options[oi].Name == option {
				m.Categories[ci].Options[oi].Selected = selected
			}
		}
	}
	r.meals[id] = m
	return nil
}

func (r *Meals) CompletionStats(_ context.Context, q planRepo.MealStatsQuery) (models.CompletionStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var s models.CompletionStats
	for _, m := range r.meals {
		if q.PlanID != "" && m.PlanID != q.PlanID {
			continue
		}
		if len(q.ClientIDs) > 0 && !contains(q.ClientIDs, m.ClientID) {
			continue
		}
		s.Total++
		if !m.IsCompleted {
			continue
		}
		if !q.From.IsZero() || !q.To.IsZero() {
			if m.CompletedAt == nil || m.CompletedAt.Before(q.From) || (!q.To.IsZero() && !m.CompletedAt.Before(q.To)) {
				continue
			}
		}
		s.Completed++
	}
	return s, nil
}

func (r *Meals) CompletedBetween(_ context.Context, clientID string, from, to time.Time) ([]models.Meal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Meal{}
	for _, id := range r.order {
		m, ok := r.meals[id]
		if !ok || m.ClientID != clientID || !m.IsCompleted || m.CompletedAt == nil {
			continue
		}
		if m.CompletedAt.Before(from) || !m.CompletedAt.Before(to) {
			continue
		}
		out = append(out, m.Clone())
	}
	return out, nil
}

// Appointments is an in-memory appointmentRepo.AppointmentRepository.
type Appointments struct {
	mu    sync.Mutex
	appts map[string]models.Appointment
}

func NewAppointments(appts ...models.Appointment) *Appointments {
	r := &Appointments{appts: make(map[string]models.Appointment)}
	for _, a := range appts {
		r.appts[a.ID] = a
	}
	return r
}

func matches(a models.Appointment, q models.AppointmentQuery) bool {
	switch {
	case q.DoctorID != "" && a.DoctorID != q.DoctorID:
		return false
	case q.ClientID != "" && a.ClientID != q.ClientID:
		return false
	case q.Status != "" && a.Status != q.Status:
		return false
	case !q.From.IsZero() && a.StartsAt.Before(q.From):
		return false
	case !q.To.IsZero() && !a.StartsAt.Before(q.To):
		return false
	}
	return true
}

func (r *Appointments) Create(_ context.Context, a *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	r.appts[a.ID] = *a
	return nil
}

func (r *Appointments) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return nil, fmt.Errorf("appointment %s: %w", id, utils.ErrNotFound)
	}
	return &a, nil
}

func (r *Appointments) List(_ context.Context, q models.AppointmentQuery) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Appointment{}
	for _, a := range r.appts {
		if matches(a, q) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (r *Appointments) Count(ctx context.Context, q models.AppointmentQuery) (int64, error) {
	list, _ := r.List(ctx, q)
	return int64(len(list)), nil
}

func (r *Appointments) HasOverlap(_ context.Context, doctorID string, start, end time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appts {
		if a.DoctorID == doctorID && a.Status == models.AppointmentScheduled &&
			a.StartsAt.Before(end) && a.EndsAt.After(start) {
			return true, nil
		}
	}
	return false, nil
}

func (r *Appointments) CreateIfFree(_ context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appts {
		if a.DoctorID == appt.DoctorID && a.Status == models.AppointmentScheduled &&
			a.StartsAt.Before(appt.EndsAt) && a.EndsAt.After(appt.StartsAt) {
			return fmt.Errorf("doctor %s is busy: %w", appt.DoctorID, utils.ErrConflict)
		}
	}
	now := time.Now().UTC()
	appt.CreatedAt, appt.UpdatedAt = now, now
	r.appts[appt.ID] = *appt
	return nil
}

func (r *Appointments) UpdateStatus(_ context.Context, id string, from, to models.AppointmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok || a.Status != from {
		return fmt.Errorf("appointment %s is not %s: %w", id, from, utils.ErrConflict)
	}
	a.Status = to
	a.UpdatedAt = time.Now().UTC()
	r.appts[id] = a
	return nil
}

func (r *Appointments) SetReminderID(_ context.Context, id, reminderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return fmt.Errorf("appointment %s: %w", id, utils.ErrNotFound)
	}
	a.ReminderID = reminderID
	r.appts[id] = a
	return nil
}

// CheckIns is an in-memory checkinRepo.CheckInRepository.
type CheckIns struct {
	mu       sync.Mutex
	checkIns []models.CheckIn
}

func NewCheckIns(checkIns ...models.CheckIn) *CheckIns {
	return &CheckIns{checkIns: append([]models.CheckIn(nil), checkIns...)}
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

func (r *CheckIns) Create(_ context.Context, c *models.CheckIn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.CreatedAt = time.Now().UTC()
	r.checkIns = append(r.checkIns, *c)
	return nil
}

func (r *CheckIns) List(_ context.Context, clientID string, from, to time.Time) ([]models.CheckIn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.CheckIn{}
	for _, c := range r.checkIns {
		if c.ClientID == clientID && inRange(c.Date, from, to) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *CheckIns) Latest(ctx context.Context, clientID string) (*models.CheckIn, error) {
	list, _ := r.List(ctx, clientID, time.Time{}, time.Time{})
	if len(list) == 0 {
		return nil, fmt.Errorf("latest check-in of %s: %w", clientID, utils.ErrNotFound)
	}
	return &list[len(list)-1], nil
}

func (r *CheckIns) CountForDoctor(_ context.Context, doctorID string, from, to time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.checkIns {
		if c.DoctorID == doctorID && inRange(c.Date, from, to) {
			n++
		}
	}
	return n, nil
}
