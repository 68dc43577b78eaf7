package usecase_test

import (
	"context"
	"strconv"
	"testing"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// バリデーションは別でテストするので素通しにする
type passValidator struct{}

func (passValidator) ValidateRegister(ctx context.Context, email string, password string) error {
	return nil
}

func (passValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	return nil
}

func newAuthUsecase(repos *txReposStub, users *UserRepoMock) *usecase.AuthUsecase {
	cfg := config.Config{JWTSecret: "test-secret"}
	return usecase.NewAuthUsecase(cfg, &txManagerStub{repos: repos}, users, passValidator{})
}

func TestAuthUsecase_Register_CreatesUserAndCustomerTogether(t *testing.T) {
	ctx := context.Background()
	repos := newTxReposStub()
	uc := newAuthUsecase(repos, new(UserRepoMock))

	repos.users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "a@example.com" && u.Role == model.RoleUser && u.PasswordHash != "secret123"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.User).ID = 42
	}).Return(nil)

	repos.customers.On("Create", mock.Anything, mock.MatchedBy(func(c model.Customer) bool {
		return c.UserID == 42 && c.Membership == model.MembershipBronze
	})).Return(model.Customer{ID: 7, UserID: 42, Membership: model.MembershipBronze}, nil)

	out, err := uc.Register(ctx, usecase.RegisterInput{
		Email:    "a@example.com",
		Password: "secret123",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.User.ID)
	assert.Equal(t, int64(7), out.Customer.ID)

	repos.users.AssertExpectations(t)
	repos.customers.AssertExpectations(t)
}

func TestAuthUsecase_Register_DuplicateEmail_IsConflict(t *testing.T) {
	ctx := context.Background()
	repos := newTxReposStub()
	uc := newAuthUsecase(repos, new(UserRepoMock))

	repos.users.On("Create", mock.Anything, mock.Anything).
		Return(assert.AnError)

	_, err := uc.Register(ctx, usecase.RegisterInput{
		Email:    "dup@example.com",
		Password: "secret123",
	})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 409, he.Status)

	//userが作れなかったのでcustomerも作らない
	repos.customers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()
	users := new(UserRepoMock)
	uc := newAuthUsecase(newTxReposStub(), users)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	assert.NoError(t, err)

	users.On("FindByEmail", mock.Anything, "a@example.com").
		Return(&model.User{ID: 42, Email: "a@example.com", PasswordHash: string(hash)}, nil)

	_, err = uc.Login(ctx, usecase.LoginInput{
		Email:    "a@example.com",
		Password: "wrong-password",
	})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 401, he.Status)
}

func TestAuthUsecase_Login_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	users := new(UserRepoMock)
	uc := newAuthUsecase(newTxReposStub(), users)

	users.On("FindByEmail", mock.Anything, "nobody@example.com").
		Return(nil, assert.AnError)

	_, err := uc.Login(ctx, usecase.LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever1",
	})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 401, he.Status)
}

func TestAuthUsecase_Login_IssuesVerifiableToken(t *testing.T) {
	ctx := context.Background()
	users := new(UserRepoMock)
	uc := newAuthUsecase(newTxReposStub(), users)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	assert.NoError(t, err)

	users.On("FindByEmail", mock.Anything, "admin@example.com").
		Return(&model.User{
			ID:           42,
			Email:        "admin@example.com",
			PasswordHash: string(hash),
			Role:         model.RoleAdmin,
		}, nil)

	out, err := uc.Login(ctx, usecase.LoginInput{
		Email:    "admin@example.com",
		Password: "correct-password",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, out.Token.AccessToken)

	token, err := jwt.Parse(out.Token.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	assert.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, strconv.FormatInt(42, 10), claims["sub"])
	assert.Equal(t, string(model.RoleAdmin), claims["role"])
}
