package validator_test

import (
	"context"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type userRepoMock struct{ mock.Mock }

func (m *userRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *userRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func TestValidateRegister_EmptyInput(t *testing.T) {
	v := validator.NewAuthValidator(new(userRepoMock))

	err := v.ValidateRegister(context.Background(), "", "")
	assert.Error(t, err)
}

func TestValidateRegister_BadEmailFormat(t *testing.T) {
	v := validator.NewAuthValidator(new(userRepoMock))

	err := v.ValidateRegister(context.Background(), "not-an-email", "password1")
	assert.Error(t, err)
}

func TestValidateRegister_ShortPassword(t *testing.T) {
	v := validator.NewAuthValidator(new(userRepoMock))

	err := v.ValidateRegister(context.Background(), "a@example.com", "short")
	assert.Error(t, err)
}

func TestValidateRegister_DuplicateEmail(t *testing.T) {
	users := new(userRepoMock)
	v := validator.NewAuthValidator(users)

	users.On("FindByEmail", mock.Anything, "dup@example.com").
		Return(&model.User{ID: 1, Email: "dup@example.com"}, nil)

	err := v.ValidateRegister(context.Background(), "dup@example.com", "password1")

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 409, he.Status)
}

func TestValidateRegister_OK(t *testing.T) {
	users := new(userRepoMock)
	v := validator.NewAuthValidator(users)

	users.On("FindByEmail", mock.Anything, "new@example.com").
		Return(nil, assert.AnError)

	err := v.ValidateRegister(context.Background(), "new@example.com", "password1")
	assert.NoError(t, err)
}

func TestValidateLogin_RequiresBothFields(t *testing.T) {
	v := validator.NewAuthValidator(new(userRepoMock))

	assert.Error(t, v.ValidateLogin(context.Background(), "", "password1"))
	assert.Error(t, v.ValidateLogin(context.Background(), "a@example.com", ""))
	assert.NoError(t, v.ValidateLogin(context.Background(), "a@example.com", "password1"))
}
