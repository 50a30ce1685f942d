package users

import (
	"context"
	"testing"

	"github.com/alfredjmgdev/darien-technology-test/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type stubTokenIssuer struct {
	token string
	err   error
}

func (s stubTokenIssuer) Issue(userID int64, email string) (string, error) {
	return s.token, s.err
}

func TestUserService_Register_Success(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo, stubTokenIssuer{})

	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "user@example.com").Return(nil, domain.ErrUserNotFound).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = 9
		}).Return(nil).Once()

	user, err := service.Register(ctx, RegisterInput{
		Email:    "user@example.com",
		Password: "s3cret",
		Name:     "Ana",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(9), user.ID)
	assert.NotEqual(t, "s3cret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")))
	mockRepo.AssertExpectations(t)
}

func TestUserService_Register_EmailTaken(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo, stubTokenIssuer{})

	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "user@example.com").
		Return(&domain.User{ID: 1, Email: "user@example.com"}, nil).Once()

	user, err := service.Register(ctx, RegisterInput{Email: "user@example.com", Password: "s3cret"})

	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.Nil(t, user)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestUserService_Register_MissingFields(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo, stubTokenIssuer{})

	ctx := context.Background()

	_, err := service.Register(ctx, RegisterInput{Password: "s3cret"})
	assert.Error(t, err)

	_, err = service.Register(ctx, RegisterInput{Email: "user@example.com"})
	assert.Error(t, err)

	mockRepo.AssertNotCalled(t, "GetByEmail")
}

func TestUserService_Login_Success(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo, stubTokenIssuer{token: "signed-token"})

	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	assert.NoError(t, err)

	mockRepo.On("GetByEmail", ctx, "user@example.com").
		Return(&domain.User{ID: 9, Email: "user@example.com", PasswordHash: string(hash)}, nil).Once()

	token, err := service.Login(ctx, "user@example.com", "s3cret")

	assert.NoError(t, err)
	assert.Equal(t, "signed-token", token)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo, stubTokenIssuer{token: "signed-token"})

	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	assert.NoError(t, err)

	mockRepo.On("GetByEmail", ctx, "user@example.com").
		Return(&domain.User{ID: 9, Email: "user@example.com", PasswordHash: string(hash)}, nil).Once()

	token, err := service.Login(ctx, "user@example.com", "wrong")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Empty(t, token)
}

func TestUserService_Login_UnknownUser(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo, stubTokenIssuer{})

	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, domain.ErrUserNotFound).Once()

	token, err := service.Login(ctx, "ghost@example.com", "s3cret")

	// the caller cannot tell an unknown email from a wrong password
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Empty(t, token)
}
