package providers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"gymcore/internal/models"
	"gymcore/internal/repositories"
)

type LocalProviderTestSuite struct {
	suite.Suite
	userRepo *mockUserRepo
	provider *LocalProvider
	user     *models.User
	hash     string
}

func (s *LocalProviderTestSuite) SetupTest() {
	s.userRepo = new(mockUserRepo)
	s.provider = NewLocalProvider(s.userRepo)

	hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	s.Require().NoError(err)
	s.hash = string(hash)

	s.user = &models.User{
		ID:           uuid.New(),
		Email:        "a@x.com",
		PasswordHash: &s.hash,
		UserType:     models.UserTypePersonal,
	}
}

func (s *LocalProviderTestSuite) TestUnknownEmailFailsGenerically() {
	s.userRepo.On("GetByEmail", mock.Anything, "missing@x.com").
		Return(nil, repositories.ErrNotFound)

	_, err := s.provider.Resolve(context.Background(), PasswordAssertion{
		Email:        "missing@x.com",
		Password:     "whatever",
		ExpectedRole: models.UserTypeAluno,
	})
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *LocalProviderTestSuite) TestRoleMismatchFailsLikeWrongPassword() {
	s.userRepo.On("GetByEmail", mock.Anything, "a@x.com").Return(s.user, nil)

	// Stored user is "personal"; the form said "aluno".
	_, err := s.provider.Resolve(context.Background(), PasswordAssertion{
		Email:        "a@x.com",
		Password:     "right-password",
		ExpectedRole: models.UserTypeAluno,
	})
	s.ErrorIs(err, ErrInvalidCredentials)
	s.userRepo.AssertNotCalled(s.T(), "UpdateLastLogin", mock.Anything, mock.Anything)
}

func (s *LocalProviderTestSuite) TestNoPasswordSetNeverComparesHash() {
	s.user.PasswordHash = nil
	s.userRepo.On("GetByEmail", mock.Anything, "a@x.com").Return(s.user, nil)

	_, err := s.provider.Resolve(context.Background(), PasswordAssertion{
		Email:        "a@x.com",
		Password:     "anything",
		ExpectedRole: models.UserTypePersonal,
	})
	s.ErrorIs(err, ErrNoPasswordSet)
}

func (s *LocalProviderTestSuite) TestEmptyHashTreatedAsNoPassword() {
	empty := ""
	s.user.PasswordHash = &empty
	s.userRepo.On("GetByEmail", mock.Anything, "a@x.com").Return(s.user, nil)

	_, err := s.provider.Resolve(context.Background(), PasswordAssertion{
		Email:        "a@x.com",
		Password:     "anything",
		ExpectedRole: models.UserTypePersonal,
	})
	s.ErrorIs(err, ErrNoPasswordSet)
}

func (s *LocalProviderTestSuite) TestWrongPasswordFails() {
	s.userRepo.On("GetByEmail", mock.Anything, "a@x.com").Return(s.user, nil)

	_, err := s.provider.Resolve(context.Background(), PasswordAssertion{
		Email:        "a@x.com",
		Password:     "wrong-password",
		ExpectedRole: models.UserTypePersonal,
	})
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *LocalProviderTestSuite) TestSuccessTouchesLastLogin() {
	s.userRepo.On("GetByEmail", mock.Anything, "a@x.com").Return(s.user, nil)
	s.userRepo.On("UpdateLastLogin", mock.Anything, s.user.ID).Return(nil)

	res, err := s.provider.Resolve(context.Background(), PasswordAssertion{
		Email:        "a@x.com",
		Password:     "right-password",
		ExpectedRole: models.UserTypePersonal,
	})
	s.Require().NoError(err)
	s.Equal(s.user.ID, res.User.ID)
	s.userRepo.AssertExpectations(s.T())
}

func (s *LocalProviderTestSuite) TestUnsupportedAssertionRejected() {
	_, err := s.provider.Resolve(context.Background(), OIDCAssertion{Subject: "x"})
	s.ErrorIs(err, ErrUnsupportedAssertion)
}

func TestLocalProviderTestSuite(t *testing.T) {
	suite.Run(t, new(LocalProviderTestSuite))
}
