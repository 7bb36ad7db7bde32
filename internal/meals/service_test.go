package meals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/LEULEX-404/Health-Tracker/pkg/logger"
	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

// MockMealRepository is a mock implementation of MealRepository
type MockMealRepository struct {
	mock.Mock
}

func (m *MockMealRepository) CreatePlan(plan *types.MealPlan) error {
	args := m.Called(plan)
	return args.Error(0)
}

func (m *MockMealRepository) GetPlanByID(id, userID string) (*types.MealPlan, error) {
	args := m.Called(id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.MealPlan), args.Error(1)
}

func (m *MockMealRepository) UpdatePlan(plan *types.MealPlan) error {
	args := m.Called(plan)
	return args.Error(0)
}

func (m *MockMealRepository) DeletePlan(id, userID string) error {
	args := m.Called(id, userID)
	return args.Error(0)
}

func (m *MockMealRepository) ListPlans(userID string, filters *types.MealPlanFilters) ([]*types.MealPlan, int, error) {
	args := m.Called(userID, filters)
	return args.Get(0).([]*types.MealPlan), args.Int(1), args.Error(2)
}

func (m *MockMealRepository) ListActivePlans(userID string, now time.Time) ([]*types.MealPlan, error) {
	args := m.Called(userID, now)
	return args.Get(0).([]*types.MealPlan), args.Error(1)
}

func (m *MockMealRepository) CreateReminders(reminders []*types.MealReminder) error {
	args := m.Called(reminders)
	return args.Error(0)
}

func (m *MockMealRepository) GetReminderByID(id, userID string) (*types.MealReminder, error) {
	args := m.Called(id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.MealReminder), args.Error(1)
}

func (m *MockMealRepository) ListRemindersInWindow(userID string, from, to time.Time, statuses []types.ReminderStatus) ([]*types.MealReminder, error) {
	args := m.Called(userID, from, to, statuses)
	return args.Get(0).([]*types.MealReminder), args.Error(1)
}

func (m *MockMealRepository) ListDueReminders(userID string, now time.Time, limit int) ([]*types.MealReminder, error) {
	args := m.Called(userID, now, limit)
	return args.Get(0).([]*types.MealReminder), args.Error(1)
}

func (m *MockMealRepository) ListReminders(userID string, filters *types.ReminderFilters) ([]*types.MealReminder, int, error) {
	args := m.Called(userID, filters)
	return args.Get(0).([]*types.MealReminder), args.Int(1), args.Error(2)
}

func (m *MockMealRepository) MarkReminderSent(id string, sentAt time.Time) error {
	args := m.Called(id, sentAt)
	return args.Error(0)
}

func (m *MockMealRepository) TransitionReminder(id, userID string, status types.ReminderStatus, at time.Time) (*types.MealReminder, error) {
	args := m.Called(id, userID, status, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.MealReminder), args.Error(1)
}

func setupMealService() (*Service, *MockMealRepository) {
	mockRepo := &MockMealRepository{}
	service := NewService(mockRepo, logger.New("debug"))
	return service, mockRepo
}

func TestCreatePlan_Success(t *testing.T) {
	service, mockRepo := setupMealService()

	mockRepo.On("CreatePlan", mock.AnythingOfType("*types.MealPlan")).Return(nil)
	mockRepo.On("ListActivePlans", "user-1", mock.AnythingOfType("time.Time")).Return([]*types.MealPlan{}, nil)

	plan, err := service.CreatePlan("user-1", &types.MealPlan{
		PlanName:        "Diabetic breakfast",
		MealType:        types.MealBreakfast,
		ScheduledDays:   []int{1, 3, 5},
		ScheduledTime:   "08:00",
		ReminderEnabled: true,
		HealthConditions: []string{
			"diabetes",
			"unknown_condition",
		},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, "user-1", plan.UserID)
	assert.True(t, plan.IsActive)
	assert.Equal(t, 15, plan.ReminderMinutesBefore)
	// Unknown condition names are dropped silently
	assert.Equal(t, []string{"diabetes"}, plan.HealthConditions)
	mockRepo.AssertExpectations(t)
}

func TestCreatePlan_ValidationFailures(t *testing.T) {
	service, mockRepo := setupMealService()

	tests := []struct {
		name string
		plan *types.MealPlan
	}{
		{"missing plan name", &types.MealPlan{MealType: types.MealLunch}},
		{"invalid meal type", &types.MealPlan{PlanName: "p", MealType: "brunch"}},
		{"days without time", &types.MealPlan{PlanName: "p", MealType: types.MealLunch, ScheduledDays: []int{1}}},
		{"day out of range", &types.MealPlan{PlanName: "p", MealType: types.MealLunch, ScheduledDays: []int{7}, ScheduledTime: "08:00"}},
		{"bad time format", &types.MealPlan{PlanName: "p", MealType: types.MealLunch, ScheduledDays: []int{1}, ScheduledTime: "8am"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreatePlan("user-1", tt.plan)
			assert.Error(t, err)
			assert.True(t, types.IsValidation(err))
		})
	}

	mockRepo.AssertNotCalled(t, "CreatePlan", mock.Anything)
}

func TestCreatePlan_ClampsReminderLead(t *testing.T) {
	service, mockRepo := setupMealService()

	mockRepo.On("CreatePlan", mock.AnythingOfType("*types.MealPlan")).Return(nil)

	plan, err := service.CreatePlan("user-1", &types.MealPlan{
		PlanName:              "Late dinner",
		MealType:              types.MealDinner,
		ReminderMinutesBefore: 500,
	})

	require.NoError(t, err)
	assert.Equal(t, 120, plan.ReminderMinutesBefore)
}

func TestCreatePlan_FillsTargetsFromItems(t *testing.T) {
	service, mockRepo := setupMealService()

	mockRepo.On("CreatePlan", mock.AnythingOfType("*types.MealPlan")).Return(nil)

	plan, err := service.CreatePlan("user-1", &types.MealPlan{
		PlanName: "Balanced lunch",
		MealType: types.MealLunch,
		Items: []types.MealItem{
			{Name: "Rice", Quantity: 1, Calories: 200, Protein: 4, Carbohydrates: 45, Fat: 1},
			{Name: "Chicken", Quantity: 1, Calories: 300, Protein: 30, Carbohydrates: 0, Fat: 10},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 500.0, plan.TargetCalories)
	assert.Equal(t, 34.0, plan.TargetProtein)
	assert.Equal(t, 45.0, plan.TargetCarbohydrates)
	assert.Equal(t, 11.0, plan.TargetFat)
}

func TestExpandForUser_CreatesOnlyFreshReminders(t *testing.T) {
	service, mockRepo := setupMealService()

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) // Sunday
	plan := &types.MealPlan{
		ID:                    "plan-1",
		UserID:                "user-1",
		MealType:              types.MealBreakfast,
		ScheduledDays:         []int{1, 3, 5},
		ScheduledTime:         "08:00",
		ReminderEnabled:       true,
		ReminderMinutesBefore: 15,
	}

	// Monday's occurrence already exists
	existing := []*types.MealReminder{
		{MealPlanID: "plan-1", ScheduledDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), Status: types.ReminderPending},
	}

	mockRepo.On("ListActivePlans", "user-1", now).Return([]*types.MealPlan{plan}, nil)
	mockRepo.On("ListRemindersInWindow", "user-1", now, now.AddDate(0, 0, 7),
		[]types.ReminderStatus{types.ReminderPending, types.ReminderSent}).Return(existing, nil)
	mockRepo.On("CreateReminders", mock.MatchedBy(func(reminders []*types.MealReminder) bool {
		return len(reminders) == 2 // Wed and Fri only
	})).Return(nil)

	created, err := service.ExpandForUser("user-1", now)

	require.NoError(t, err)
	require.Len(t, created, 2)
	for _, reminder := range created {
		assert.NotEmpty(t, reminder.ID)
		assert.Equal(t, types.ReminderPending, reminder.Status)
	}
	mockRepo.AssertExpectations(t)
}

func TestExpandForUser_NothingToCreate(t *testing.T) {
	service, mockRepo := setupMealService()

	now := time.Now()
	mockRepo.On("ListActivePlans", "user-1", now).Return([]*types.MealPlan{}, nil)

	created, err := service.ExpandForUser("user-1", now)

	require.NoError(t, err)
	assert.Empty(t, created)
	mockRepo.AssertNotCalled(t, "CreateReminders", mock.Anything)
}

func TestMarkCompleted_Success(t *testing.T) {
	service, mockRepo := setupMealService()

	mockRepo.On("GetReminderByID", "rem-1", "user-1").Return(&types.MealReminder{
		ID: "rem-1", UserID: "user-1", Status: types.ReminderSent,
	}, nil)
	mockRepo.On("TransitionReminder", "rem-1", "user-1", types.ReminderCompleted, mock.AnythingOfType("time.Time")).
		Return(&types.MealReminder{ID: "rem-1", Status: types.ReminderCompleted}, nil)

	reminder, err := service.MarkCompleted("rem-1", "user-1")

	require.NoError(t, err)
	assert.Equal(t, types.ReminderCompleted, reminder.Status)
}

func TestTransition_TerminalStatesRejected(t *testing.T) {
	service, mockRepo := setupMealService()

	for _, terminal := range []types.ReminderStatus{types.ReminderCompleted, types.ReminderSkipped, types.ReminderCancelled} {
		mockRepo.ExpectedCalls = nil
		mockRepo.On("GetReminderByID", "rem-1", "user-1").Return(&types.MealReminder{
			ID: "rem-1", UserID: "user-1", Status: terminal,
		}, nil)

		_, err := service.MarkSkipped("rem-1", "user-1")

		assert.Error(t, err, "transition from %s should fail", terminal)
		mockRepo.AssertNotCalled(t, "TransitionReminder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestCancelReminder_FromPending(t *testing.T) {
	service, mockRepo := setupMealService()

	mockRepo.On("GetReminderByID", "rem-1", "user-1").Return(&types.MealReminder{
		ID: "rem-1", UserID: "user-1", Status: types.ReminderPending,
	}, nil)
	mockRepo.On("TransitionReminder", "rem-1", "user-1", types.ReminderCancelled, mock.AnythingOfType("time.Time")).
		Return(&types.MealReminder{ID: "rem-1", Status: types.ReminderCancelled}, nil)

	reminder, err := service.CancelReminder("rem-1", "user-1")

	require.NoError(t, err)
	assert.Equal(t, types.ReminderCancelled, reminder.Status)
}

func TestListPlans_NormalizesPagination(t *testing.T) {
	service, mockRepo := setupMealService()

	mockRepo.On("ListPlans", "user-1", mock.MatchedBy(func(f *types.MealPlanFilters) bool {
		return f.Page == 1 && f.Limit == 50
	})).Return([]*types.MealPlan{}, 120, nil)

	_, pagination, err := service.ListPlans("user-1", &types.MealPlanFilters{Page: 0, Limit: 0})

	require.NoError(t, err)
	assert.Equal(t, 120, pagination.Total)
	assert.Equal(t, 3, pagination.TotalPages)
}
