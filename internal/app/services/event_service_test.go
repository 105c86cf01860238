package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func newEventFixture() (*EventService, *fakeEvents, *fakeNotifier) {
	events := newFakeEvents()
	notifier := &fakeNotifier{}
	return NewEventService(events, notifier, zerolog.Nop()), events, notifier
}

func TestEventCreateDefaultsAndNotifies(t *testing.T) {
	svc, _, notifier := newEventFixture()
	admin := uuid.New()

	event, err := svc.Create(context.Background(), admin, &dto.CreateEventRequest{
		Title:     "  Reunion ",
		EventDate: "2030-06-01T18:00:00Z",
	})
	require.NoError(t, err)

	assert.Equal(t, "Reunion", event.Title)
	assert.True(t, event.IsPublished)
	assert.False(t, event.RegistrationRequired)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, models.NotificationEvent, notifier.sent[0].Type)
	assert.Equal(t, event.ID, *notifier.sent[0].RelatedEventID)
	assert.Equal(t, admin, notifier.exclude[0])
}

func TestEventCreateUnpublishedDoesNotNotify(t *testing.T) {
	svc, _, notifier := newEventFixture()

	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateEventRequest{
		Title:       "Draft",
		EventDate:   "2030-06-01",
		IsPublished: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Empty(t, notifier.sent)
}

func TestEventCreateValidation(t *testing.T) {
	svc, _, _ := newEventFixture()
	tests := []struct {
		name string
		req  dto.CreateEventRequest
	}{
		{"bad date", dto.CreateEventRequest{Title: "x", EventDate: "someday"}},
		{"end before start", dto.CreateEventRequest{Title: "x", EventDate: "2030-06-02", EventEndDate: "2030-06-01"}},
		{"zero capacity", dto.CreateEventRequest{Title: "x", EventDate: "2030-06-02", MaxAttendees: intPtr(0)}},
		{"blank title", dto.CreateEventRequest{Title: "  ", EventDate: "2030-06-02"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), uuid.New(), &tt.req)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
}

func TestEventRegisterRejectsMissingOrMalformedID(t *testing.T) {
	svc, _, _ := newEventFixture()

	_, err := svc.Register(context.Background(), uuid.New(), "")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.Register(context.Background(), uuid.New(), "not-an-id")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestEventRegisterClassifiesClosedEvents(t *testing.T) {
	svc, events, _ := newEventFixture()
	ctx := context.Background()

	open := &models.Event{Title: "Open", IsPublished: true}
	require.NoError(t, events.Create(ctx, open))
	draft := &models.Event{Title: "Draft", RegistrationRequired: true}
	require.NoError(t, events.Create(ctx, draft))

	_, err := svc.Register(ctx, uuid.New(), uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)

	_, err = svc.Register(ctx, uuid.New(), open.ID.String())
	assert.ErrorIs(t, err, apperrors.ErrRegistrationNotRequired)

	_, err = svc.Register(ctx, uuid.New(), draft.ID.String())
	assert.ErrorIs(t, err, apperrors.ErrEventNotPublished)
}

func TestEventRegisterTwiceIsRefused(t *testing.T) {
	svc, events, _ := newEventFixture()
	ctx := context.Background()
	e := &models.Event{Title: "Talk", IsPublished: true, RegistrationRequired: true}
	require.NoError(t, events.Create(ctx, e))
	user := uuid.New()

	attendee, err := svc.Register(ctx, user, e.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.AttendeeRegistered, attendee.Status)

	_, err = svc.Register(ctx, user, e.ID.String())
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)
}

func TestEventRegisterLastSeatConcurrently(t *testing.T) {
	svc, events, _ := newEventFixture()
	ctx := context.Background()
	e := &models.Event{Title: "Dinner", IsPublished: true, RegistrationRequired: true, MaxAttendees: intPtr(3)}
	require.NoError(t, events.Create(ctx, e))

	// two seats taken, one left
	for i := 0; i < 2; i++ {
		_, err := svc.Register(ctx, uuid.New(), e.ID.String())
		require.NoError(t, err)
	}

	const callers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
		full    int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(ctx, uuid.New(), e.ID.String())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, apperrors.ErrEventFull):
				full++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	assert.Equal(t, callers-1, full)

	stored, err := events.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.CurrentAttendees)
}

func TestEventDetailReportsCallerRegistration(t *testing.T) {
	svc, events, _ := newEventFixture()
	ctx := context.Background()
	e := &models.Event{Title: "Meetup", IsPublished: true, RegistrationRequired: true}
	require.NoError(t, events.Create(ctx, e))
	user := uuid.New()
	_, err := svc.Register(ctx, user, e.ID.String())
	require.NoError(t, err)

	detail, err := svc.Detail(ctx, e.ID, user)
	require.NoError(t, err)
	assert.True(t, detail.IsRegistered)
	assert.Len(t, detail.Attendees, 1)

	detail, err = svc.Detail(ctx, e.ID, uuid.New())
	require.NoError(t, err)
	assert.False(t, detail.IsRegistered)
}

func TestRegistrationResultLabels(t *testing.T) {
	assert.Equal(t, "registered", registrationResult(nil))
	assert.Equal(t, "full", registrationResult(apperrors.ErrEventFull))
	assert.Equal(t, "duplicate", registrationResult(apperrors.ErrAlreadyRegistered))
	assert.Equal(t, "rejected", registrationResult(apperrors.ErrEventNotPublished))
}
