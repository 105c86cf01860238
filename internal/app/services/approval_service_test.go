package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

type approvalFixture struct {
	svc      *ApprovalService
	store    *fakeStatusStore
	accounts *fakeAccounts
	mailer   *mockEmail
}

func newApprovalFixture() *approvalFixture {
	f := &approvalFixture{store: newFakeStatusStore(), accounts: newFakeAccounts(), mailer: &mockEmail{}}
	f.svc = NewApprovalService(f.store, f.accounts, f.mailer, zerolog.Nop())
	return f
}

func (f *approvalFixture) account(email, name string, status models.ApprovalStatus, staged bool) uuid.UUID {
	id := f.accounts.add(email, name, status)
	f.store.state.status[id] = status
	f.store.state.names[id] = name
	if staged {
		f.store.state.staged[id] = models.StagedAlumniDetail{
			UserID:       id,
			AlumniFields: models.AlumniFields{Department: "Mathematics"},
		}
	}
	return id
}

func TestPromotePendingSubmission(t *testing.T) {
	f := newApprovalFixture()
	admin := uuid.New()
	user := f.account("ada@example.com", "Ada", models.StatusPending, true)
	f.mailer.On("SendDecisionEmail", "ada@example.com", "Ada", true, "").Return(nil)

	require.NoError(t, f.svc.Promote(context.Background(), admin, user))

	st := f.store.state
	assert.Equal(t, models.StatusApproved, st.status[user])
	assert.Equal(t, "Mathematics", st.live[user].Department)
	assert.Contains(t, st.staged, user)

	require.Len(t, st.transitions, 1)
	tr := st.transitions[0]
	require.NotNil(t, tr.FromStatus)
	assert.Equal(t, models.StatusPending, *tr.FromStatus)
	assert.Equal(t, models.StatusApproved, tr.ToStatus)
	assert.Equal(t, admin, *tr.ActorID)

	require.Len(t, st.notices, 1)
	assert.Equal(t, user, st.notices[0].UserID)
	assert.Equal(t, models.NotificationApproval, st.notices[0].Type)
	f.mailer.AssertExpectations(t)
}

func TestPromoteWithoutStagedRow(t *testing.T) {
	f := newApprovalFixture()
	user := f.account("ada@example.com", "Ada", models.StatusPending, false)

	err := f.svc.Promote(context.Background(), uuid.New(), user)
	assert.ErrorIs(t, err, apperrors.ErrNoStagedProfile)
	assert.Equal(t, models.StatusPending, f.store.state.status[user])
	assert.Empty(t, f.store.state.transitions)
	assert.Empty(t, f.store.state.live)
	f.mailer.AssertNotCalled(t, "SendDecisionEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDecisionsOnNonPendingAccountChangeNothing(t *testing.T) {
	f := newApprovalFixture()
	approved := f.account("ada@example.com", "Ada", models.StatusApproved, true)
	rejected := f.account("grace@example.com", "Grace", models.StatusRejected, true)

	assert.ErrorIs(t, f.svc.Promote(context.Background(), uuid.New(), approved), apperrors.ErrInvalidTransition)
	assert.ErrorIs(t, f.svc.Reject(context.Background(), uuid.New(), approved, "no"), apperrors.ErrInvalidTransition)
	assert.ErrorIs(t, f.svc.Promote(context.Background(), uuid.New(), rejected), apperrors.ErrInvalidTransition)
	assert.ErrorIs(t, f.svc.Reject(context.Background(), uuid.New(), rejected, "again"), apperrors.ErrInvalidTransition)

	st := f.store.state
	assert.Equal(t, models.StatusApproved, st.status[approved])
	assert.Equal(t, models.StatusRejected, st.status[rejected])
	assert.Empty(t, st.live)
	assert.Empty(t, st.transitions)
	assert.Empty(t, st.notices)
}

func TestPromoteRollsBackWhenNotificationFails(t *testing.T) {
	f := newApprovalFixture()
	user := f.account("ada@example.com", "Ada", models.StatusPending, true)
	f.store.notifyErr = errors.New("insert failed")

	require.Error(t, f.svc.Promote(context.Background(), uuid.New(), user))

	st := f.store.state
	assert.Equal(t, models.StatusPending, st.status[user])
	assert.Empty(t, st.live)
	assert.Empty(t, st.transitions)
	f.mailer.AssertNotCalled(t, "SendDecisionEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRejectCarriesReasonAndSurvivesEmailFailure(t *testing.T) {
	f := newApprovalFixture()
	admin := uuid.New()
	user := f.account("ada@example.com", "Ada", models.StatusPending, true)
	f.mailer.On("SendDecisionEmail", "ada@example.com", "Ada", false, "Missing roll number").Return(errors.New("smtp down"))

	require.NoError(t, f.svc.Reject(context.Background(), admin, user, "Missing roll number"))

	st := f.store.state
	assert.Equal(t, models.StatusRejected, st.status[user])
	assert.Empty(t, st.live)
	require.Len(t, st.transitions, 1)
	assert.Equal(t, "Missing roll number", st.transitions[0].Reason)
	assert.Equal(t, admin, *st.transitions[0].ActorID)
	require.Len(t, st.notices, 1)
	assert.Equal(t, models.NotificationRejection, st.notices[0].Type)
	assert.Contains(t, st.notices[0].Message, "Missing roll number")
	f.mailer.AssertExpectations(t)
}
