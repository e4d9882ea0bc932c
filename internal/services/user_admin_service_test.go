package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"gymcore/internal/models"
	"gymcore/internal/repositories"
)

type UserAdminTestSuite struct {
	suite.Suite
	userRepo *mockUserRepo
	mail     *mockMailPublisher
	svc      *UserAdminService
}

func (s *UserAdminTestSuite) SetupTest() {
	s.userRepo = new(mockUserRepo)
	s.mail = new(mockMailPublisher)
	resetSvc := NewPasswordResetService(s.userRepo, s.mail)
	s.svc = NewUserAdminService(s.userRepo, resetSvc, s.mail)
}

func (s *UserAdminTestSuite) TestDeleteRefusesOwnAccount() {
	id := uuid.New()

	err := s.svc.Delete(context.Background(), id, id)
	s.ErrorIs(err, ErrSelfDelete)
	s.userRepo.AssertNotCalled(s.T(), "Delete", mock.Anything, mock.Anything)
}

func (s *UserAdminTestSuite) TestDeleteRefusesLastAdmin() {
	acting := uuid.New()
	target := uuid.New()
	s.userRepo.On("GetByID", mock.Anything, target).
		Return(&models.User{ID: target, UserType: models.UserTypeAdmin}, nil)
	s.userRepo.On("CountByUserType", mock.Anything, models.UserTypeAdmin).Return(1, nil)

	err := s.svc.Delete(context.Background(), acting, target)
	s.ErrorIs(err, ErrLastAdmin)
	s.userRepo.AssertNotCalled(s.T(), "Delete", mock.Anything, mock.Anything)
}

func (s *UserAdminTestSuite) TestDeleteAdminAllowedWhenOthersRemain() {
	acting := uuid.New()
	target := uuid.New()
	s.userRepo.On("GetByID", mock.Anything, target).
		Return(&models.User{ID: target, UserType: models.UserTypeAdmin}, nil)
	s.userRepo.On("CountByUserType", mock.Anything, models.UserTypeAdmin).Return(2, nil)
	s.userRepo.On("Delete", mock.Anything, target).Return(nil)

	s.NoError(s.svc.Delete(context.Background(), acting, target))
	s.userRepo.AssertExpectations(s.T())
}

func (s *UserAdminTestSuite) TestDeleteMemberSkipsAdminCount() {
	acting := uuid.New()
	target := uuid.New()
	s.userRepo.On("GetByID", mock.Anything, target).
		Return(&models.User{ID: target, UserType: models.UserTypeAluno}, nil)
	s.userRepo.On("Delete", mock.Anything, target).Return(nil)

	s.NoError(s.svc.Delete(context.Background(), acting, target))
	s.userRepo.AssertNotCalled(s.T(), "CountByUserType", mock.Anything, mock.Anything)
}

func (s *UserAdminTestSuite) TestInviteCreatesPasswordlessUserWithToken() {
	gymID := uuid.New()
	s.userRepo.On("GetByEmail", mock.Anything, "invitee@x.com").
		Return(nil, repositories.ErrNotFound)
	s.userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.PasswordHash == nil && u.GymID != nil && *u.GymID == gymID
	})).Return(nil)
	s.userRepo.On("SetPasswordResetToken", mock.Anything, mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)
	s.mail.On("Publish", mock.Anything, mock.MatchedBy(func(msg MailMessage) bool {
		return msg.Template == MailTemplateInvite && msg.Data["Token"] != ""
	})).Return(nil)

	user, err := s.svc.Invite(context.Background(), &gymID, InviteUserRequest{
		Email:     "invitee@x.com",
		FirstName: "Inv",
		LastName:  "Itee",
		UserType:  models.UserTypeAluno,
	})
	s.Require().NoError(err)
	s.False(user.HasUsablePassword())
	s.mail.AssertExpectations(s.T())
}

func (s *UserAdminTestSuite) TestInviteRejectsDuplicateEmail() {
	s.userRepo.On("GetByEmail", mock.Anything, "dup@x.com").
		Return(&models.User{ID: uuid.New()}, nil)

	_, err := s.svc.Invite(context.Background(), nil, InviteUserRequest{
		Email:     "dup@x.com",
		FirstName: "Dup",
		UserType:  models.UserTypeAluno,
	})
	s.ErrorIs(err, ErrEmailTaken)
}

func TestUserAdminTestSuite(t *testing.T) {
	suite.Run(t, new(UserAdminTestSuite))
}
