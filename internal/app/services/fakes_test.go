package services

import (
	"context"
	"mime/multipart"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

type mockEmail struct {
	mock.Mock
}

func (m *mockEmail) SendInviteEmail(toEmail, toName, claimLink string) error {
	return m.Called(toEmail, toName, claimLink).Error(0)
}

func (m *mockEmail) SendMagicLinkEmail(toEmail, link string) error {
	return m.Called(toEmail, link).Error(0)
}

func (m *mockEmail) SendDecisionEmail(toEmail, toName string, approved bool, reason string) error {
	return m.Called(toEmail, toName, approved, reason).Error(0)
}

type fakeStorage struct {
	mu      sync.Mutex
	saved   []string
	deleted []string
	saveErr error
}

func (f *fakeStorage) SaveImage(_ *multipart.FileHeader, subPath string, _, _ int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return "", f.saveErr
	}
	p := "/uploads/" + subPath + "/" + uuid.NewString() + ".jpg"
	f.saved = append(f.saved, p)
	return p, nil
}

func (f *fakeStorage) DeleteFile(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, path)
	return nil
}

// fakeAccounts is an in-memory account store
type fakeAccounts struct {
	repositories.IAccountRepository

	mu       sync.Mutex
	accounts map[uuid.UUID]*models.Account
	profiles map[uuid.UUID]*models.Profile
	status   map[uuid.UUID]models.ApprovalStatus
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		accounts: map[uuid.UUID]*models.Account{},
		profiles: map[uuid.UUID]*models.Profile{},
		status:   map[uuid.UUID]models.ApprovalStatus{},
	}
}

func (f *fakeAccounts) add(email, name string, status models.ApprovalStatus) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.accounts[id] = &models.Account{ID: id, Email: email}
	f.profiles[id] = &models.Profile{ID: id, FullName: name}
	f.status[id] = status
	return id
}

func (f *fakeAccounts) CreateAccount(_ context.Context, email string, hash *string, fullName string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.Email == email {
			return nil, apperrors.ErrEmailAlreadyExists
		}
	}
	id := uuid.New()
	a := &models.Account{ID: id, Email: email, PasswordHash: hash}
	f.accounts[id] = a
	f.profiles[id] = &models.Profile{ID: id, FullName: fullName}
	f.status[id] = models.StatusPending
	return a, nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeAccounts) GetByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.accounts[id]; ok {
		return a, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeAccounts) GetProfile(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[id]; ok {
		return p, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeAccounts) ApprovalStatus(_ context.Context, id uuid.UUID) (models.ApprovalStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.status[id]; ok {
		return s, nil
	}
	return models.StatusPending, nil
}

func (f *fakeAccounts) IsAdmin(context.Context, uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeAccounts) HasStagedProfile(context.Context, uuid.UUID) (bool, error) {
	return true, nil
}

// fakeEvents applies the same conditional increment the SQL does, under a lock
type fakeEvents struct {
	repositories.IEventRepository

	mu        sync.Mutex
	events    map[uuid.UUID]*models.Event
	attendees map[uuid.UUID]map[uuid.UUID]bool
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{
		events:    map[uuid.UUID]*models.Event{},
		attendees: map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (f *fakeEvents) Create(_ context.Context, e *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f *fakeEvents) Register(_ context.Context, eventID, userID uuid.UUID) (*models.EventAttendee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[eventID]
	switch {
	case !ok:
		return nil, apperrors.ErrEventNotFound
	case !e.IsPublished:
		return nil, apperrors.ErrEventNotPublished
	case !e.RegistrationRequired:
		return nil, apperrors.ErrRegistrationNotRequired
	case e.MaxAttendees != nil && e.CurrentAttendees >= *e.MaxAttendees:
		return nil, apperrors.ErrEventFull
	}
	if f.attendees[eventID][userID] {
		return nil, apperrors.ErrAlreadyRegistered
	}
	if f.attendees[eventID] == nil {
		f.attendees[eventID] = map[uuid.UUID]bool{}
	}
	f.attendees[eventID][userID] = true
	e.CurrentAttendees++
	return &models.EventAttendee{ID: uuid.New(), EventID: eventID, UserID: userID, Status: models.AttendeeRegistered}, nil
}

func (f *fakeEvents) Upcoming(_ context.Context, now time.Time, limit int) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Event{}
	for _, e := range f.events {
		if e.IsPublished && !e.EventDate.Before(now) && len(out) < limit {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEvents) GetByID(_ context.Context, id uuid.UUID) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.events[id]; ok && e.IsPublished {
		cp := *e
		return &cp, nil
	}
	return nil, apperrors.ErrEventNotFound
}

func (f *fakeEvents) RecentAttendees(_ context.Context, eventID uuid.UUID, _ int) ([]models.EventAttendee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.EventAttendee{}
	for uid := range f.attendees[eventID] {
		out = append(out, models.EventAttendee{EventID: eventID, UserID: uid})
	}
	return out, nil
}

func (f *fakeEvents) IsRegistered(_ context.Context, eventID, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attendees[eventID][userID], nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	sent    []models.Notification
	exclude []uuid.UUID
}

func (f *fakeNotifier) NotifyApproved(_ context.Context, template models.Notification, exclude uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, template)
	f.exclude = append(f.exclude, exclude)
	return 1, nil
}

type statusState struct {
	status      map[uuid.UUID]models.ApprovalStatus
	staged      map[uuid.UUID]models.StagedAlumniDetail
	live        map[uuid.UUID]models.AlumniFields
	names       map[uuid.UUID]string
	avatars     map[uuid.UUID]*string
	transitions []models.ApprovalTransition
	notices     []models.Notification
}

func (s *statusState) clone() *statusState {
	cp := &statusState{
		status:      map[uuid.UUID]models.ApprovalStatus{},
		staged:      map[uuid.UUID]models.StagedAlumniDetail{},
		live:        map[uuid.UUID]models.AlumniFields{},
		names:       map[uuid.UUID]string{},
		avatars:     map[uuid.UUID]*string{},
		transitions: append([]models.ApprovalTransition(nil), s.transitions...),
		notices:     append([]models.Notification(nil), s.notices...),
	}
	for k, v := range s.status {
		cp.status[k] = v
	}
	for k, v := range s.staged {
		cp.staged[k] = v
	}
	for k, v := range s.live {
		cp.live[k] = v
	}
	for k, v := range s.names {
		cp.names[k] = v
	}
	for k, v := range s.avatars {
		cp.avatars[k] = v
	}
	return cp
}

// fakeStatusStore holds rows only. WithStatusChange works on a copy and keeps
// it when fn succeeds, so a failed fn leaves nothing behind.
type fakeStatusStore struct {
	repositories.IApprovalRepository

	mu        sync.Mutex
	state     *statusState
	notifyErr error
}

func newFakeStatusStore() *fakeStatusStore {
	return &fakeStatusStore{state: (&statusState{}).clone()}
}

func (f *fakeStatusStore) WithStatusChange(ctx context.Context, fn func(ctx context.Context, w repositories.StatusWriter) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tx := &fakeStatusTx{statusState: f.state.clone(), notifyErr: f.notifyErr}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	f.state = tx.statusState
	return nil
}

type fakeStatusTx struct {
	*statusState
	notifyErr error
}

func (t *fakeStatusTx) LockStatus(_ context.Context, userID uuid.UUID) (models.ApprovalStatus, bool, error) {
	s, ok := t.status[userID]
	if !ok {
		return models.StatusPending, false, nil
	}
	return s, true, nil
}

func (t *fakeStatusTx) LockStaged(_ context.Context, userID uuid.UUID) (*models.StagedAlumniDetail, error) {
	s, ok := t.staged[userID]
	if !ok {
		return nil, apperrors.ErrNoStagedProfile
	}
	return &s, nil
}

func (t *fakeStatusTx) SaveStaged(_ context.Context, staged models.StagedAlumniDetail) error {
	t.staged[staged.UserID] = staged
	return nil
}

func (t *fakeStatusTx) UpdateProfile(_ context.Context, userID uuid.UUID, fullName string, avatarURL *string) error {
	if _, ok := t.names[userID]; !ok {
		return apperrors.ErrUserNotFound
	}
	t.names[userID] = fullName
	if avatarURL != nil {
		t.avatars[userID] = avatarURL
	}
	return nil
}

func (t *fakeStatusTx) PublishLive(_ context.Context, userID uuid.UUID, fields models.AlumniFields) error {
	t.live[userID] = fields
	return nil
}

func (t *fakeStatusTx) SetStatus(_ context.Context, userID uuid.UUID, status models.ApprovalStatus) error {
	t.status[userID] = status
	return nil
}

func (t *fakeStatusTx) LogTransition(_ context.Context, tr models.ApprovalTransition) error {
	t.transitions = append(t.transitions, tr)
	return nil
}

func (t *fakeStatusTx) Notify(_ context.Context, n *models.Notification) error {
	if t.notifyErr != nil {
		return t.notifyErr
	}
	t.notices = append(t.notices, *n)
	return nil
}
