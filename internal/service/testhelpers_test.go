package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mediguard/mediguard/internal/domain"
	"github.com/mediguard/mediguard/internal/domain/authenticity"
	"github.com/mediguard/mediguard/internal/domain/medicine"
	"github.com/mediguard/mediguard/internal/domain/prescription"
	"github.com/mediguard/mediguard/internal/domain/reminder"
	"github.com/mediguard/mediguard/internal/scheduler"
	"github.com/mediguard/mediguard/pkg/metrics"
)

// Prometheus collectors register globally, so the package shares one.
var testCollector = metrics.NewCollector("test")

func newTestAuditService() *AuditService {
	return NewAuditService(&fakeAuditRepo{}, testCollector, zap.NewNop())
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (f *fakeAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	if u, ok := f.users[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

type fakePrescriptionRepo struct {
	prescriptions map[uuid.UUID]*prescription.Prescription
	createErr     error
}

func newFakePrescriptionRepo() *fakePrescriptionRepo {
	return &fakePrescriptionRepo{prescriptions: make(map[uuid.UUID]*prescription.Prescription)}
}

func (f *fakePrescriptionRepo) CreateWithMedicines(_ context.Context, p *prescription.Prescription) error {
	if f.createErr != nil {
		return f.createErr
	}
	p.ID = uuid.New()
	for _, m := range p.Medicines {
		m.ID = uuid.New()
		m.PrescriptionID = &p.ID
	}
	f.prescriptions[p.ID] = p
	return nil
}

func (f *fakePrescriptionRepo) GetByID(_ context.Context, id uuid.UUID) (*prescription.Prescription, error) {
	if p, ok := f.prescriptions[id]; ok {
		return p, nil
	}
	return nil, prescription.ErrPrescriptionNotFound
}

func (f *fakePrescriptionRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.prescriptions[id]; !ok {
		return prescription.ErrPrescriptionNotFound
	}
	delete(f.prescriptions, id)
	return nil
}

func (f *fakePrescriptionRepo) List(_ context.Context, q *prescription.ListPrescriptionsQuery) (*prescription.PagedPrescriptions, error) {
	var items []*prescription.Prescription
	for _, p := range f.prescriptions {
		if p.UserID == q.UserID {
			items = append(items, p)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].UploadedOn.After(items[j].UploadedOn) })
	return &prescription.PagedPrescriptions{
		Prescriptions: items,
		TotalCount:    int64(len(items)),
		Page:          q.Page,
		PageSize:      q.PageSize,
	}, nil
}

func (f *fakePrescriptionRepo) ListRecentByUser(_ context.Context, userID uuid.UUID, limit int) ([]*prescription.Prescription, error) {
	res, _ := f.List(context.Background(), &prescription.ListPrescriptionsQuery{UserID: userID, Page: 1, PageSize: limit})
	if len(res.Prescriptions) > limit {
		return res.Prescriptions[:limit], nil
	}
	return res.Prescriptions, nil
}

type fakeMedicineRepo struct {
	medicines map[uuid.UUID]*medicine.Medicine
}

func newFakeMedicineRepo() *fakeMedicineRepo {
	return &fakeMedicineRepo{medicines: make(map[uuid.UUID]*medicine.Medicine)}
}

func (f *fakeMedicineRepo) Create(_ context.Context, m *medicine.Medicine) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	f.medicines[m.ID] = m
	return nil
}

func (f *fakeMedicineRepo) GetByID(_ context.Context, id uuid.UUID) (*medicine.Medicine, error) {
	if m, ok := f.medicines[id]; ok {
		return m, nil
	}
	return nil, medicine.ErrMedicineNotFound
}

func (f *fakeMedicineRepo) Update(_ context.Context, m *medicine.Medicine) error {
	f.medicines[m.ID] = m
	return nil
}

func (f *fakeMedicineRepo) UpdateVerified(_ context.Context, id uuid.UUID, status authenticity.Status) error {
	m, ok := f.medicines[id]
	if !ok {
		return medicine.ErrMedicineNotFound
	}
	m.Verified = status
	return nil
}

func (f *fakeMedicineRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.medicines[id]; !ok {
		return medicine.ErrMedicineNotFound
	}
	delete(f.medicines, id)
	return nil
}

func (f *fakeMedicineRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*medicine.Medicine, error) {
	var items []*medicine.Medicine
	for _, m := range f.medicines {
		if m.UserID == userID {
			items = append(items, m)
		}
	}
	return items, nil
}

func (f *fakeMedicineRepo) ListByPrescription(_ context.Context, prescriptionID uuid.UUID) ([]*medicine.Medicine, error) {
	var items []*medicine.Medicine
	for _, m := range f.medicines {
		if m.PrescriptionID != nil && *m.PrescriptionID == prescriptionID {
			items = append(items, m)
		}
	}
	return items, nil
}

type fakeReminderRepo struct {
	reminders map[uuid.UUID]*reminder.Reminder
	batchErr  error
}

func newFakeReminderRepo() *fakeReminderRepo {
	return &fakeReminderRepo{reminders: make(map[uuid.UUID]*reminder.Reminder)}
}

func (f *fakeReminderRepo) CreateBatch(_ context.Context, reminders []*reminder.Reminder) error {
	if f.batchErr != nil {
		return f.batchErr
	}
	for _, r := range reminders {
		r.ID = uuid.New()
		f.reminders[r.ID] = r
	}
	return nil
}

func (f *fakeReminderRepo) GetByID(_ context.Context, id uuid.UUID) (*reminder.Reminder, error) {
	if r, ok := f.reminders[id]; ok {
		return r, nil
	}
	return nil, reminder.ErrReminderNotFound
}

func (f *fakeReminderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status reminder.Status) error {
	r, ok := f.reminders[id]
	if !ok {
		return reminder.ErrReminderNotFound
	}
	r.Status = status
	return nil
}

func (f *fakeReminderRepo) DeleteByMedicine(_ context.Context, medicineID uuid.UUID) error {
	for id, r := range f.reminders {
		if r.MedicineID == medicineID {
			delete(f.reminders, id)
		}
	}
	return nil
}

func (f *fakeReminderRepo) ListByMedicine(_ context.Context, medicineID uuid.UUID) ([]*reminder.Reminder, error) {
	var items []*reminder.Reminder
	for _, r := range f.reminders {
		if r.MedicineID == medicineID {
			items = append(items, r)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].RemindAt.Before(items[j].RemindAt) })
	return items, nil
}

func (f *fakeReminderRepo) List(_ context.Context, q *reminder.ListRemindersQuery) (*reminder.PagedReminders, error) {
	var items []*reminder.Reminder
	for _, r := range f.reminders {
		if r.UserID == q.UserID {
			items = append(items, r)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].RemindAt.After(items[j].RemindAt) })
	return &reminder.PagedReminders{Reminders: items, TotalCount: int64(len(items))}, nil
}

func (f *fakeReminderRepo) ListPendingAfter(_ context.Context, after time.Time) ([]*reminder.Reminder, error) {
	var items []*reminder.Reminder
	for _, r := range f.reminders {
		if r.Status == reminder.StatusPending && r.RemindAt.After(after) {
			items = append(items, r)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].RemindAt.Before(items[j].RemindAt) })
	return items, nil
}

func (f *fakeReminderRepo) ListUpcomingByUser(_ context.Context, userID uuid.UUID, from, until time.Time) ([]*reminder.Reminder, error) {
	var items []*reminder.Reminder
	for _, r := range f.reminders {
		if r.UserID == userID && r.Status == reminder.StatusPending &&
			!r.RemindAt.Before(from) && !r.RemindAt.After(until) {
			items = append(items, r)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].RemindAt.Before(items[j].RemindAt) })
	return items, nil
}

// fakeJobs records scheduler calls in place of the real job table.
type fakeJobs struct {
	mu        sync.Mutex
	scheduled map[uuid.UUID]scheduler.Event
	cancelled []uuid.UUID
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{scheduled: make(map[uuid.UUID]scheduler.Event)}
}

func (f *fakeJobs) Schedule(e scheduler.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled[e.ReminderID] = e
}

func (f *fakeJobs) Cancel(reminderID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.scheduled, reminderID)
	f.cancelled = append(f.cancelled, reminderID)
}

func (f *fakeJobs) has(reminderID uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.scheduled[reminderID]
	return ok
}

func (f *fakeJobs) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.scheduled)
}
