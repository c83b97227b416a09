package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) List(ctx context.Context) ([]*model.AllowedUser, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.AllowedUser), args.Error(1)
}

func (m *mockRepo) GetByEmail(ctx context.Context, email string) (*model.AllowedUser, error) {
	args := m.Called(ctx, email)
	if v := args.Get(0); v != nil {
		return v.(*model.AllowedUser), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) Create(ctx context.Context, u *model.AllowedUser) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockRepo) Update(ctx context.Context, u *model.AllowedUser) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func TestCheckAccess_Caches(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, Config{})

	repo.On("GetByEmail", mock.Anything, "desk@clinic.in").Return(&model.AllowedUser{ID: 1, Email: "desk@clinic.in"}, nil).Once()

	for i := 0; i < 3; i++ {
		user, ok, err := svc.CheckAccess(context.Background(), " Desk@Clinic.in")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(1), user.ID)
	}
	repo.AssertNumberOfCalls(t, "GetByEmail", 1)
}

func TestCheckAccess_NegativeCachedUntilAdd(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, Config{})

	repo.On("GetByEmail", mock.Anything, "new@clinic.in").Return(nil, repository.ErrNotFound).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	repo.On("GetByEmail", mock.Anything, "new@clinic.in").Return(&model.AllowedUser{ID: 2, Email: "new@clinic.in"}, nil).Once()

	_, ok, err := svc.CheckAccess(context.Background(), "new@clinic.in")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, _ = svc.CheckAccess(context.Background(), "new@clinic.in")
	assert.False(t, ok)
	repo.AssertNumberOfCalls(t, "GetByEmail", 1)

	_, err = svc.AddUser(context.Background(), &model.AllowedUserRequest{Email: "NEW@clinic.in"})
	require.NoError(t, err)

	_, ok, err = svc.CheckAccess(context.Background(), "new@clinic.in")
	require.NoError(t, err)
	assert.True(t, ok)
	repo.AssertNumberOfCalls(t, "GetByEmail", 2)
}

func TestCheckAccess_DeleteInvalidates(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, Config{})

	repo.On("GetByEmail", mock.Anything, "desk@clinic.in").Return(&model.AllowedUser{ID: 1, Email: "desk@clinic.in"}, nil).Once()
	repo.On("Delete", mock.Anything, int64(1)).Return(nil)
	repo.On("GetByEmail", mock.Anything, "desk@clinic.in").Return(nil, repository.ErrNotFound).Once()

	_, ok, _ := svc.CheckAccess(context.Background(), "desk@clinic.in")
	assert.True(t, ok)

	require.NoError(t, svc.DeleteUser(context.Background(), 1))

	_, ok, err := svc.CheckAccess(context.Background(), "desk@clinic.in")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckAccess_DeleteDuringLookupNotCached(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, Config{})

	repo.On("Delete", mock.Anything, int64(3)).Return(nil)
	repo.On("GetByEmail", mock.Anything, "gone@clinic.in").
		Return(&model.AllowedUser{ID: 3, Email: "gone@clinic.in"}, nil).
		Run(func(mock.Arguments) {
			// the row was read, then removed before the answer is cached
			require.NoError(t, svc.DeleteUser(context.Background(), 3))
		}).Once()
	repo.On("GetByEmail", mock.Anything, "gone@clinic.in").Return(nil, repository.ErrNotFound).Once()

	_, ok, err := svc.CheckAccess(context.Background(), "gone@clinic.in")
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = svc.CheckAccess(context.Background(), "gone@clinic.in")
	require.NoError(t, err)
	assert.False(t, ok)
	repo.AssertNumberOfCalls(t, "GetByEmail", 2)
}

func TestCheckAccess_LookupFailureNotCached(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, Config{})

	repo.On("GetByEmail", mock.Anything, "desk@clinic.in").Return(nil, errors.New("down")).Once()
	repo.On("GetByEmail", mock.Anything, "desk@clinic.in").Return(&model.AllowedUser{ID: 1}, nil).Once()

	_, _, err := svc.CheckAccess(context.Background(), "desk@clinic.in")
	assert.True(t, errors.Is(err, apperrors.PersistenceError))

	_, ok, err := svc.CheckAccess(context.Background(), "desk@clinic.in")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAddUser_Duplicate(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, Config{})
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.AllowedUser) bool {
		return u.Email == "dup@clinic.in"
	})).Return(repository.ErrDuplicate)

	_, err := svc.AddUser(context.Background(), &model.AllowedUserRequest{Email: "Dup@Clinic.in"})
	assert.True(t, errors.Is(err, apperrors.ConflictError))
}

func TestUpdateAndDelete_NotFound(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, Config{})
	repo.On("Update", mock.Anything, mock.Anything).Return(repository.ErrNotFound)
	repo.On("Delete", mock.Anything, int64(5)).Return(repository.ErrNotFound)

	_, err := svc.UpdateUser(context.Background(), 5, &model.AllowedUserRequest{Email: "x@clinic.in"})
	assert.True(t, errors.Is(err, apperrors.NotFoundError))

	assert.True(t, errors.Is(svc.DeleteUser(context.Background(), 5), apperrors.NotFoundError))
}
