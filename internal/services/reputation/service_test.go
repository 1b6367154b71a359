package reputation

import (
	"context"
	"testing"

	"legalconnect/internal/models"
	"legalconnect/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func deliveredCase(pid uint) *models.LegalCase {
	id := pid
	return &models.LegalCase{
		ID:             3,
		CaseNumber:     "LC-1754000000-AB12",
		PractitionerID: &id,
		Status:         models.CaseOpinionDelivered,
	}
}

func TestService_SubmitRating(t *testing.T) {
	t.Run("rejects out of range scores", func(t *testing.T) {
		repo := new(MockRatingRepository)
		svc := NewService(repo, nil)

		for _, score := range []int{0, 6, -1} {
			_, err := svc.SubmitRating(context.Background(), "LC-1754000000-AB12", 1, score, "")
			assert.ErrorIs(t, err, ErrInvalidScore)
		}
		repo.AssertNotCalled(t, "GetCaseByNumber", mock.Anything)
	})

	t.Run("refuses a case before delivery", func(t *testing.T) {
		repo := new(MockRatingRepository)
		svc := NewService(repo, nil)
		c := deliveredCase(7)
		c.Status = models.CaseInProgress
		repo.On("GetCaseByNumber", "LC-1754000000-AB12").Return(c, nil)

		_, err := svc.SubmitRating(context.Background(), "LC-1754000000-AB12", 1, 4, "")
		assert.ErrorIs(t, err, ErrCaseNotRatable)
	})

	t.Run("refuses a case with no practitioner", func(t *testing.T) {
		repo := new(MockRatingRepository)
		svc := NewService(repo, nil)
		c := deliveredCase(7)
		c.PractitionerID = nil
		repo.On("GetCaseByNumber", "LC-1754000000-AB12").Return(c, nil)

		_, err := svc.SubmitRating(context.Background(), "LC-1754000000-AB12", 1, 4, "")
		assert.ErrorIs(t, err, ErrCaseNotRatable)
	})

	t.Run("one rating per case", func(t *testing.T) {
		repo := new(MockRatingRepository)
		svc := NewService(repo, nil)
		repo.On("GetCaseByNumber", "LC-1754000000-AB12").Return(deliveredCase(7), nil)
		repo.On("GetByCaseID", uint(3)).Return(&models.Rating{ID: 1, CaseID: 3}, nil)

		_, err := svc.SubmitRating(context.Background(), "LC-1754000000-AB12", 1, 4, "")
		assert.ErrorIs(t, err, ErrAlreadyRated)
		repo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("stores the rating and recomputes the aggregate", func(t *testing.T) {
		repo := new(MockRatingRepository)
		cache := new(MockCache)
		svc := NewService(repo, cache)
		pr := &models.Practitioner{ID: 7, Name: "Asha Venkatesan"}
		repo.On("GetCaseByNumber", "LC-1754000000-AB12").Return(deliveredCase(7), nil)
		repo.On("GetByCaseID", uint(3)).Return(nil, repositories.ErrRatingNotFound)
		repo.On("GetPractitioner", uint(7)).Return(pr, nil)
		repo.On("ExecuteInTransaction", mock.Anything).Return(nil)
		repo.On("Create", mock.AnythingOfType("*models.Rating")).Return(nil)
		repo.On("AggregateForPractitioner", uint(7)).Return(4.6, int64(20), nil)
		repo.On("UpdatePractitionerRating", uint(7), 4.6, int64(20)).Return(nil)
		cache.On("InvalidatePractitioner", mock.Anything, pr).Return(nil)
		cache.On("InvalidateRosters", mock.Anything).Return(nil)

		result, err := svc.SubmitRating(context.Background(), "LC-1754000000-AB12", 42, 5, "thorough and fast")
		require.NoError(t, err)
		assert.Equal(t, uint(3), result.Rating.CaseID)
		assert.Equal(t, uint(7), result.Rating.PractitionerID)
		assert.Equal(t, uint(42), result.Rating.RatedBy)
		assert.Equal(t, 5, result.Rating.Score)
		assert.Equal(t, 4.6, result.AverageRating)
		assert.Equal(t, int64(20), result.RatingCount)
		assert.False(t, result.Flagged)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("flags a low average once the sample is meaningful", func(t *testing.T) {
		repo := new(MockRatingRepository)
		svc := NewService(repo, nil)
		repo.On("GetCaseByNumber", "LC-1754000000-AB12").Return(deliveredCase(7), nil)
		repo.On("GetByCaseID", uint(3)).Return(nil, repositories.ErrRatingNotFound)
		repo.On("GetPractitioner", uint(7)).Return(&models.Practitioner{ID: 7}, nil)
		repo.On("ExecuteInTransaction", mock.Anything).Return(nil)
		repo.On("Create", mock.AnythingOfType("*models.Rating")).Return(nil)
		repo.On("AggregateForPractitioner", uint(7)).Return(3.2, int64(10), nil)
		repo.On("UpdatePractitionerRating", uint(7), 3.2, int64(10)).Return(nil)

		result, err := svc.SubmitRating(context.Background(), "LC-1754000000-AB12", 42, 2, "")
		require.NoError(t, err)
		assert.True(t, result.Flagged)
	})

	t.Run("a small sample is never flagged", func(t *testing.T) {
		repo := new(MockRatingRepository)
		svc := NewService(repo, nil)
		repo.On("GetCaseByNumber", "LC-1754000000-AB12").Return(deliveredCase(7), nil)
		repo.On("GetByCaseID", uint(3)).Return(nil, repositories.ErrRatingNotFound)
		repo.On("GetPractitioner", uint(7)).Return(&models.Practitioner{ID: 7}, nil)
		repo.On("ExecuteInTransaction", mock.Anything).Return(nil)
		repo.On("Create", mock.AnythingOfType("*models.Rating")).Return(nil)
		repo.On("AggregateForPractitioner", uint(7)).Return(1.0, int64(9), nil)
		repo.On("UpdatePractitionerRating", uint(7), 1.0, int64(9)).Return(nil)

		result, err := svc.SubmitRating(context.Background(), "LC-1754000000-AB12", 42, 1, "")
		require.NoError(t, err)
		assert.False(t, result.Flagged)
	})
}

// --- mocks ---

type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Create(rating *models.Rating) error {
	args := m.Called(rating)
	return args.Error(0)
}

func (m *MockRatingRepository) GetByCaseID(caseID uint) (*models.Rating, error) {
	args := m.Called(caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingRepository) ListByPractitioner(practitionerID uint, limit, offset int) ([]*models.Rating, int64, error) {
	args := m.Called(practitionerID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Rating), args.Get(1).(int64), args.Error(2)
}

func (m *MockRatingRepository) AggregateForPractitioner(practitionerID uint) (float64, int64, error) {
	args := m.Called(practitionerID)
	return args.Get(0).(float64), args.Get(1).(int64), args.Error(2)
}

func (m *MockRatingRepository) UpdatePractitionerRating(practitionerID uint, avg float64, count int64) error {
	args := m.Called(practitionerID, avg, count)
	return args.Error(0)
}

func (m *MockRatingRepository) GetCaseByNumber(number string) (*models.LegalCase, error) {
	args := m.Called(number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LegalCase), args.Error(1)
}

func (m *MockRatingRepository) GetPractitioner(id uint) (*models.Practitioner, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Practitioner), args.Error(1)
}

func (m *MockRatingRepository) ExecuteInTransaction(fn func(repositories.RatingRepository) error) error {
	args := m.Called(fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(m)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) InvalidatePractitioner(ctx context.Context, p *models.Practitioner) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockCache) InvalidateRosters(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
