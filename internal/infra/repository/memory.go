package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/vet-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/vet-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/vet-scheduler/internal/httperr"
	"github.com/BruksfildServices01/vet-scheduler/internal/models"
)

// MemoryRepository keeps pets, users, appointments and audit logs in
// process. Used with STORAGE=memory and in tests.
type MemoryRepository struct {
	mu sync.RWMutex

	pets         map[string]models.Pet
	users        map[string]models.User
	appointments map[string]models.Appointment
	order        []string
	auditLogs    []models.AuditLog

	now func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		pets:         make(map[string]models.Pet),
		users:        make(map[string]models.User),
		appointments: make(map[string]models.Appointment),
		now:          time.Now,
	}
}

// --------------------------------------------------
// Seeding
// --------------------------------------------------

func (r *MemoryRepository) AddPet(p models.Pet) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	r.pets[p.ID] = p
}

func (r *MemoryRepository) AddUser(u models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	r.users[u.ID] = u
}

// --------------------------------------------------
// Pet / User
// --------------------------------------------------

func (r *MemoryRepository) GetPetByID(_ context.Context, id string) (*models.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.pets[id]
	if !ok {
		return nil, fmt.Errorf("pet %s: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

func (r *MemoryRepository) GetUserByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return &u, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *MemoryRepository) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ap.ID == "" {
		ap.ID = uuid.NewString()
	}
	if _, exists := r.appointments[ap.ID]; exists {
		return fmt.Errorf("appointment %s: %w", ap.ID, httperr.ErrBusiness("appointment_conflict"))
	}
	if ap.Status == "" {
		ap.Status = string(domain.InitialStatus())
	}

	now := r.now()
	ap.CreatedAt = now
	ap.UpdatedAt = now

	stored := *ap
	stored.Pet = models.Pet{}
	r.appointments[ap.ID] = stored
	r.order = append(r.order, ap.ID)
	return nil
}

func (r *MemoryRepository) AssertNoDayConflict(
	_ context.Context,
	petID string,
	userID string,
	start time.Time,
	end time.Time,
) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ap := range r.appointments {
		if ap.PetID != petID || ap.UserID != userID {
			continue
		}
		if !ap.Date.Before(start) && ap.Date.Before(end) {
			return httperr.ErrBusiness("appointment_conflict")
		}
	}
	return nil
}

func (r *MemoryRepository) GetAppointmentByID(_ context.Context, id string) (*models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ap, ok := r.appointments[id]
	if !ok {
		return nil, fmt.Errorf("appointment %s: %w", id, domain.ErrNotFound)
	}
	return &ap, nil
}

func (r *MemoryRepository) ListAppointmentsByUser(_ context.Context, userID string) ([]models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Appointment, 0)
	for _, id := range r.order {
		ap := r.appointments[id]
		if ap.UserID != userID {
			continue
		}
		ap.Pet = r.pets[ap.PetID]
		out = append(out, ap)
	}
	return out, nil
}

func (r *MemoryRepository) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.appointments[ap.ID]
	if !ok {
		return fmt.Errorf("appointment %s: %w", ap.ID, domain.ErrNotFound)
	}

	stored.Date = ap.Date
	stored.Status = ap.Status
	stored.UpdatedAt = r.now()
	r.appointments[ap.ID] = stored

	ap.UpdatedAt = stored.UpdatedAt
	return nil
}

// --------------------------------------------------
// Audit
// --------------------------------------------------

func (r *MemoryRepository) SaveAuditLog(_ context.Context, log *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	log.ID = uint(len(r.auditLogs) + 1)
	log.CreatedAt = r.now()
	r.auditLogs = append(r.auditLogs, *log)
	return nil
}

func (r *MemoryRepository) ListAuditLogs(_ context.Context, f audit.Filter) ([]models.AuditLog, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.AuditLog, 0)
	for _, l := range r.auditLogs {
		if f.Action != "" && l.Action != f.Action {
			continue
		}
		if f.Entity != "" && l.Entity != f.Entity {
			continue
		}
		if f.From != nil && l.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !l.CreatedAt.Before(*f.To) {
			continue
		}
		matched = append(matched, l)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Offset >= len(matched) {
		return []models.AuditLog{}, total, nil
	}
	matched = matched[f.Offset:]
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	return matched, total, nil
}

var (
	_ domain.Repository = (*MemoryRepository)(nil)
	_ audit.Store       = (*MemoryRepository)(nil)
	_ audit.Reader      = (*MemoryRepository)(nil)
)
