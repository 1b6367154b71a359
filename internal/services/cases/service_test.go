package cases

import (
	"context"
	"strings"
	"testing"
	"time"

	"legalconnect/internal/models"
	"legalconnect/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService() (Service, *MockCaseRepository, *MockNotifier) {
	repo := new(MockCaseRepository)
	notify := new(MockNotifier)
	return NewService(repo, notify, nil, Config{}), repo, notify
}

func assignedCase(pid uint) *models.LegalCase {
	id := pid
	return &models.LegalCase{
		ID:             3,
		CaseNumber:     "LC-1754000000-AB12",
		ExpertiseTag:   "property",
		PractitionerID: &id,
		Priority:       models.PriorityNormal,
		Status:         models.CaseAssigned,
		FeePaise:       500_000,
		CommissionPct:  20,
	}
}

func TestService_Create(t *testing.T) {
	validReq := CreateRequest{
		ExpertiseTag:   "property",
		PractitionerID: 7,
		FeePaise:       500_000,
		Priority:       models.PriorityNormal,
	}

	t.Run("rejects a fee below the floor", func(t *testing.T) {
		svc, repo, _ := newTestService()
		req := validReq
		req.FeePaise = 1_000

		_, err := svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, ErrFeeOutOfBounds)
		repo.AssertNotCalled(t, "ExecuteInTransaction", mock.Anything)
	})

	t.Run("rejects a fee above the ceiling", func(t *testing.T) {
		svc, _, _ := newTestService()
		req := validReq
		req.FeePaise = 200_000_000

		_, err := svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, ErrFeeOutOfBounds)
	})

	t.Run("rejects an unknown priority", func(t *testing.T) {
		svc, _, _ := newTestService()
		req := validReq
		req.Priority = "asap"

		_, err := svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidPriority)
	})

	t.Run("rejects an unverified practitioner", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("ExecuteInTransaction", mock.Anything).Return(nil)
		repo.On("GetPractitioner", uint(7)).Return(&models.Practitioner{
			ID: 7, VerificationStatus: models.VerificationPending,
		}, nil)

		_, err := svc.Create(context.Background(), validReq)
		assert.ErrorIs(t, err, ErrPractitionerNotAssignable)
		repo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("snapshots the commission rate and sets the deadline", func(t *testing.T) {
		svc, repo, notify := newTestService()
		repo.On("ExecuteInTransaction", mock.Anything).Return(nil)
		repo.On("GetPractitioner", uint(7)).Return(&models.Practitioner{
			ID: 7, VerificationStatus: models.VerificationVerified, CommissionRate: 18,
		}, nil)
		repo.On("Create", mock.AnythingOfType("*models.LegalCase")).Return(nil)
		repo.On("BumpPractitionerAssigned", uint(7)).Return(nil)
		notify.On("CaseAssigned", uint(7), mock.AnythingOfType("string")).Return()

		c, err := svc.Create(context.Background(), validReq)
		require.NoError(t, err)
		assert.Equal(t, models.CaseAssigned, c.Status)
		assert.Equal(t, 18, c.CommissionPct)
		assert.Equal(t, uint(7), *c.PractitionerID)
		assert.True(t, strings.HasPrefix(c.CaseNumber, "LC-"))
		assert.WithinDuration(t, time.Now().Add(DefaultNormalDeadline), c.Deadline, time.Minute)
		repo.AssertExpectations(t)
		notify.AssertExpectations(t)
	})

	t.Run("urgent cases get the shorter deadline", func(t *testing.T) {
		svc, repo, notify := newTestService()
		req := validReq
		req.Priority = models.PriorityUrgent
		repo.On("ExecuteInTransaction", mock.Anything).Return(nil)
		repo.On("GetPractitioner", uint(7)).Return(&models.Practitioner{
			ID: 7, VerificationStatus: models.VerificationVerified, CommissionRate: 20,
		}, nil)
		repo.On("Create", mock.AnythingOfType("*models.LegalCase")).Return(nil)
		repo.On("BumpPractitionerAssigned", uint(7)).Return(nil)
		notify.On("CaseAssigned", uint(7), mock.AnythingOfType("string")).Return()

		c, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(DefaultUrgentDeadline), c.Deadline, time.Minute)
	})
}

func TestService_Accept(t *testing.T) {
	t.Run("refuses another practitioner's case", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("GetByCaseNumber", "LC-1754000000-AB12").Return(assignedCase(7), nil)

		_, err := svc.Accept(context.Background(), "LC-1754000000-AB12", 8)
		assert.ErrorIs(t, err, ErrNotAssigned)
	})

	t.Run("refuses a case past assignment", func(t *testing.T) {
		svc, repo, _ := newTestService()
		c := assignedCase(7)
		c.Status = models.CaseInProgress
		repo.On("GetByCaseNumber", "LC-1754000000-AB12").Return(c, nil)

		_, err := svc.Accept(context.Background(), "LC-1754000000-AB12", 7)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("lost race reports stale state", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("GetByCaseNumber", "LC-1754000000-AB12").Return(assignedCase(7), nil)
		repo.On("UpdateStatusIf", uint(3), models.CaseAssigned, models.CaseInProgress, mock.Anything).
			Return(false, nil)

		_, err := svc.Accept(context.Background(), "LC-1754000000-AB12", 7)
		assert.ErrorIs(t, err, ErrStaleState)
	})

	t.Run("moves the case to in progress", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("GetByCaseNumber", "LC-1754000000-AB12").Return(assignedCase(7), nil)
		repo.On("UpdateStatusIf", uint(3), models.CaseAssigned, models.CaseInProgress, mock.Anything).
			Return(true, nil)

		c, err := svc.Accept(context.Background(), "LC-1754000000-AB12", 7)
		require.NoError(t, err)
		assert.Equal(t, models.CaseInProgress, c.Status)
		require.NotNil(t, c.AcceptedAt)
		assert.WithinDuration(t, time.Now(), *c.AcceptedAt, time.Minute)
	})
}

func TestService_Decline(t *testing.T) {
	t.Run("requires a reason", func(t *testing.T) {
		svc, repo, _ := newTestService()

		_, err := svc.Decline(context.Background(), "LC-1754000000-AB12", 7, "   ")
		assert.ErrorIs(t, err, ErrReasonRequired)
		repo.AssertNotCalled(t, "GetByCaseNumber", mock.Anything)
	})

	t.Run("refuses an accepted case without touching counters", func(t *testing.T) {
		svc, repo, _ := newTestService()
		c := assignedCase(7)
		c.Status = models.CaseInProgress
		repo.On("GetByCaseNumber", "LC-1754000000-AB12").Return(c, nil)

		_, err := svc.Decline(context.Background(), "LC-1754000000-AB12", 7, "conflict of interest")
		assert.ErrorIs(t, err, ErrInvalidStatus)
		repo.AssertNotCalled(t, "BumpPractitionerDeclined", mock.Anything)
	})

	t.Run("hands the case back and charges the counter", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("GetByCaseNumber", "LC-1754000000-AB12").Return(assignedCase(7), nil)
		repo.On("ExecuteInTransaction", mock.Anything).Return(nil)
		repo.On("UpdateStatusIf", uint(3), models.CaseAssigned, models.CaseReassigned,
			map[string]interface{}{
				"practitioner_id": nil,
				"decline_reason":  "conflict of interest",
			}).Return(true, nil)
		repo.On("BumpPractitionerDeclined", uint(7)).Return(nil)
		repo.On("GetPractitioner", uint(7)).Return(&models.Practitioner{
			ID: 7, AssignedCases: 10, DeclinedCases: 2,
		}, nil)

		result, err := svc.Decline(context.Background(), "LC-1754000000-AB12", 7, "conflict of interest")
		require.NoError(t, err)
		assert.Equal(t, models.CaseReassigned, result.Case.Status)
		assert.Nil(t, result.Case.PractitionerID)
		assert.InDelta(t, 0.2, result.DeclineRate, 1e-9)
		assert.False(t, result.Flagged)
		repo.AssertExpectations(t)
	})

	t.Run("flags a practitioner past the decline threshold", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("GetByCaseNumber", "LC-1754000000-AB12").Return(assignedCase(7), nil)
		repo.On("ExecuteInTransaction", mock.Anything).Return(nil)
		repo.On("UpdateStatusIf", uint(3), models.CaseAssigned, models.CaseReassigned, mock.Anything).
			Return(true, nil)
		repo.On("BumpPractitionerDeclined", uint(7)).Return(nil)
		repo.On("GetPractitioner", uint(7)).Return(&models.Practitioner{
			ID: 7, AssignedCases: 10, DeclinedCases: 4,
		}, nil)

		result, err := svc.Decline(context.Background(), "LC-1754000000-AB12", 7, "too busy")
		require.NoError(t, err)
		assert.InDelta(t, 0.4, result.DeclineRate, 1e-9)
		assert.True(t, result.Flagged)
	})

	t.Run("exactly the threshold is not flagged", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("GetByCaseNumber", "LC-1754000000-AB12").Return(assignedCase(7), nil)
		repo.On("ExecuteInTransaction", mock.Anything).Return(nil)
		repo.On("UpdateStatusIf", uint(3), models.CaseAssigned, models.CaseReassigned, mock.Anything).
			Return(true, nil)
		repo.On("BumpPractitionerDeclined", uint(7)).Return(nil)
		repo.On("GetPractitioner", uint(7)).Return(&models.Practitioner{
			ID: 7, AssignedCases: 10, DeclinedCases: 3,
		}, nil)

		result, err := svc.Decline(context.Background(), "LC-1754000000-AB12", 7, "too busy")
		require.NoError(t, err)
		assert.False(t, result.Flagged)
	})
}

func TestService_Reassign(t *testing.T) {
	t.Run("refuses once the opinion is submitted", func(t *testing.T) {
		svc, repo, _ := newTestService()
		c := assignedCase(7)
		c.Status = models.CaseOpinionSubmitted
		repo.On("GetByCaseNumber", "LC-1754000000-AB12").Return(c, nil)

		_, err := svc.Reassign(context.Background(), "LC-1754000000-AB12", 9)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("refuses an unverified replacement", func(t *testing.T) {
		svc, repo, _ := newTestService()
		repo.On("GetByCaseNumber", "LC-1754000000-AB12").Return(assignedCase(7), nil)
		repo.On("ExecuteInTransaction", mock.Anything).Return(nil)
		repo.On("GetPractitioner", uint(9)).Return(&models.Practitioner{
			ID: 9, VerificationStatus: models.VerificationPending,
		}, nil)

		_, err := svc.Reassign(context.Background(), "LC-1754000000-AB12", 9)
		assert.ErrorIs(t, err, ErrPractitionerNotAssignable)
	})

	t.Run("notifies both practitioners on a handover", func(t *testing.T) {
		svc, repo, notify := newTestService()
		repo.On("GetByCaseNumber", "LC-1754000000-AB12").Return(assignedCase(7), nil)
		repo.On("ExecuteInTransaction", mock.Anything).Return(nil)
		repo.On("GetPractitioner", uint(9)).Return(&models.Practitioner{
			ID: 9, VerificationStatus: models.VerificationVerified,
		}, nil)
		repo.On("UpdateStatusIf", uint(3), models.CaseAssigned, models.CaseAssigned,
			map[string]interface{}{
				"practitioner_id": uint(9),
				"accepted_at":     nil,
				"decline_reason":  nil,
			}).Return(true, nil)
		repo.On("BumpPractitionerAssigned", uint(9)).Return(nil)
		notify.On("CaseReassigned", uint(7), "LC-1754000000-AB12").Return()
		notify.On("CaseAssigned", uint(9), "LC-1754000000-AB12").Return()

		c, err := svc.Reassign(context.Background(), "LC-1754000000-AB12", 9)
		require.NoError(t, err)
		assert.Equal(t, models.CaseAssigned, c.Status)
		assert.Equal(t, uint(9), *c.PractitionerID)
		assert.Nil(t, c.AcceptedAt)
		notify.AssertExpectations(t)
	})

	t.Run("a declined case goes back out with one notification", func(t *testing.T) {
		svc, repo, notify := newTestService()
		c := assignedCase(7)
		c.Status = models.CaseReassigned
		c.PractitionerID = nil
		repo.On("GetByCaseNumber", "LC-1754000000-AB12").Return(c, nil)
		repo.On("ExecuteInTransaction", mock.Anything).Return(nil)
		repo.On("GetPractitioner", uint(9)).Return(&models.Practitioner{
			ID: 9, VerificationStatus: models.VerificationVerified,
		}, nil)
		repo.On("UpdateStatusIf", uint(3), models.CaseReassigned, models.CaseAssigned, mock.Anything).
			Return(true, nil)
		repo.On("BumpPractitionerAssigned", uint(9)).Return(nil)
		notify.On("CaseAssigned", uint(9), "LC-1754000000-AB12").Return()

		_, err := svc.Reassign(context.Background(), "LC-1754000000-AB12", 9)
		require.NoError(t, err)
		notify.AssertNotCalled(t, "CaseReassigned", mock.Anything, mock.Anything)
	})
}

func TestService_Complete(t *testing.T) {
	t.Run("refuses an undelivered case", func(t *testing.T) {
		svc, repo, _ := newTestService()
		c := assignedCase(7)
		c.Status = models.CaseOpinionApproved
		repo.On("GetByCaseNumber", "LC-1754000000-AB12").Return(c, nil)

		_, err := svc.Complete(context.Background(), "LC-1754000000-AB12")
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("completes the case and creates its payout together", func(t *testing.T) {
		svc, repo, _ := newTestService()
		c := assignedCase(7)
		c.Status = models.CaseOpinionDelivered
		repo.On("GetByCaseNumber", "LC-1754000000-AB12").Return(c, nil)
		repo.On("ExecuteInTransaction", mock.Anything).Return(nil)
		repo.On("UpdateStatusIf", uint(3), models.CaseOpinionDelivered, models.CaseCompleted,
			map[string]interface{}(nil)).Return(true, nil)
		repo.On("CreatePayout", mock.AnythingOfType("*models.Payout")).Return(nil)
		repo.On("BumpPractitionerCompleted", uint(7)).Return(nil)

		result, err := svc.Complete(context.Background(), "LC-1754000000-AB12")
		require.NoError(t, err)
		assert.Equal(t, models.CaseCompleted, result.Case.Status)
		assert.Equal(t, int64(100_000), result.Payout.CommissionPaise)
		assert.Equal(t, int64(400_000), result.Payout.NetPaise)
		assert.Equal(t, "payout-LC-1754000000-AB12", result.Payout.ReferenceID)
		assert.Equal(t, models.PayoutPending, result.Payout.Status)
		repo.AssertExpectations(t)
	})

	t.Run("lost race leaves no payout behind", func(t *testing.T) {
		svc, repo, _ := newTestService()
		c := assignedCase(7)
		c.Status = models.CaseOpinionDelivered
		repo.On("GetByCaseNumber", "LC-1754000000-AB12").Return(c, nil)
		repo.On("ExecuteInTransaction", mock.Anything).Return(nil)
		repo.On("UpdateStatusIf", uint(3), models.CaseOpinionDelivered, models.CaseCompleted,
			map[string]interface{}(nil)).Return(false, nil)

		_, err := svc.Complete(context.Background(), "LC-1754000000-AB12")
		assert.ErrorIs(t, err, ErrStaleState)
		repo.AssertNotCalled(t, "CreatePayout", mock.Anything)
	})
}

// --- mocks ---

type MockCaseRepository struct {
	mock.Mock
}

func (m *MockCaseRepository) Create(c *models.LegalCase) error {
	args := m.Called(c)
	return args.Error(0)
}

func (m *MockCaseRepository) GetByID(id uint) (*models.LegalCase, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LegalCase), args.Error(1)
}

func (m *MockCaseRepository) GetByCaseNumber(number string) (*models.LegalCase, error) {
	args := m.Called(number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LegalCase), args.Error(1)
}

func (m *MockCaseRepository) List(filter repositories.CaseFilter, limit, offset int) ([]*models.LegalCase, int64, error) {
	args := m.Called(filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.LegalCase), args.Get(1).(int64), args.Error(2)
}

func (m *MockCaseRepository) UpdateStatusIf(caseID uint, from, to models.CaseStatus, updates map[string]interface{}) (bool, error) {
	args := m.Called(caseID, from, to, updates)
	return args.Bool(0), args.Error(1)
}

func (m *MockCaseRepository) CountActiveByPractitioner(practitionerID uint) (int64, error) {
	args := m.Called(practitionerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCaseRepository) ActiveCaseCounts(practitionerIDs []uint) (map[uint]int64, error) {
	args := m.Called(practitionerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]int64), args.Error(1)
}

func (m *MockCaseRepository) CreateOpinion(o *models.Opinion) error {
	args := m.Called(o)
	return args.Error(0)
}

func (m *MockCaseRepository) GetOpinionByCaseID(caseID uint) (*models.Opinion, error) {
	args := m.Called(caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Opinion), args.Error(1)
}

func (m *MockCaseRepository) DeleteOpinion(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCaseRepository) UpdateOpinionReviewIf(opinionID uint, from, to string, reviewedBy uint) (bool, error) {
	args := m.Called(opinionID, from, to, reviewedBy)
	return args.Bool(0), args.Error(1)
}

func (m *MockCaseRepository) SetOpinionDelivered(opinionID uint, at time.Time) error {
	args := m.Called(opinionID, at)
	return args.Error(0)
}

func (m *MockCaseRepository) GetPractitioner(id uint) (*models.Practitioner, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Practitioner), args.Error(1)
}

func (m *MockCaseRepository) BumpPractitionerAssigned(practitionerID uint) error {
	args := m.Called(practitionerID)
	return args.Error(0)
}

func (m *MockCaseRepository) BumpPractitionerDeclined(practitionerID uint) error {
	args := m.Called(practitionerID)
	return args.Error(0)
}

func (m *MockCaseRepository) BumpPractitionerCompleted(practitionerID uint) error {
	args := m.Called(practitionerID)
	return args.Error(0)
}

func (m *MockCaseRepository) CreatePayout(p *models.Payout) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockCaseRepository) ExecuteInTransaction(fn func(repositories.CaseRepository) error) error {
	args := m.Called(fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(m)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) CaseAssigned(practitionerID uint, caseNumber string) {
	m.Called(practitionerID, caseNumber)
}

func (m *MockNotifier) CaseReassigned(practitionerID uint, caseNumber string) {
	m.Called(practitionerID, caseNumber)
}

func (m *MockNotifier) OpinionReviewed(practitionerID uint, caseNumber string, approved bool) {
	m.Called(practitionerID, caseNumber, approved)
}

func (m *MockNotifier) PayoutCompleted(practitionerID uint, referenceID string, netPaise int64) {
	m.Called(practitionerID, referenceID, netPaise)
}

func (m *MockNotifier) PayoutFailed(practitionerID uint, referenceID string, reason string) {
	m.Called(practitionerID, referenceID, reason)
}
