package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/school-directory/internal/application/session"
	"github.com/school-directory/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockOTP struct{ mock.Mock }

func (m *mockOTP) Issue(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
func (m *mockOTP) Verify(ctx context.Context, email, code string) (bool, error) {
	args := m.Called(ctx, email, code)
	return args.Bool(0), args.Error(1)
}

type mockSessions struct{ mock.Mock }

func (m *mockSessions) Create(ctx context.Context, userID uint) (string, time.Time, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}
func (m *mockSessions) Validate(ctx context.Context, token string, mode session.Mode) (*domain.User, error) {
	args := m.Called(ctx, token, mode)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = 11
	}
	return args.Error(0)
}

// --- builder ---

func newService(o *mockOTP, ss *mockSessions, us *mockUserStore) Service {
	return NewService(ServiceDeps{OTP: o, Sessions: ss, Users: us})
}

var expiry = time.Date(2026, 10, 24, 9, 0, 0, 0, time.UTC)

// --- SendOTP ---

func TestSendOTP_NormalizesEmail(t *testing.T) {
	o := &mockOTP{}
	o.On("Issue", mock.Anything, "a@b.com").Return(nil)

	err := newService(o, nil, nil).SendOTP(context.Background(), SendOTPRequest{Email: "  A@B.com "})
	require.NoError(t, err)
	o.AssertExpectations(t)
}

func TestSendOTP_RejectsMalformedEmail(t *testing.T) {
	o := &mockOTP{}
	svc := newService(o, nil, nil)
	for _, email := range []string{"", "   ", "not-an-email", "a@"} {
		err := svc.SendOTP(context.Background(), SendOTPRequest{Email: email})
		require.Error(t, err, email)
		assert.True(t, errors.Is(err, domain.ErrBadRequest), email)
	}
	o.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
}

func TestSendOTP_PropagatesUnavailable(t *testing.T) {
	o := &mockOTP{}
	o.On("Issue", mock.Anything, "a@b.com").Return(domain.ErrUnavailable)

	err := newService(o, nil, nil).SendOTP(context.Background(), SendOTPRequest{Email: "a@b.com"})
	assert.True(t, errors.Is(err, domain.ErrUnavailable))
}

// --- VerifyOTP ---

func TestVerifyOTP_MissingFields(t *testing.T) {
	svc := newService(&mockOTP{}, nil, nil)
	for _, req := range []VerifyOTPRequest{{}, {Email: "a@b.com"}, {OTP: "123456"}} {
		_, err := svc.VerifyOTP(context.Background(), req)
		assert.True(t, errors.Is(err, domain.ErrBadRequest))
	}
}

func TestVerifyOTP_WrongLengthSkipsVerifier(t *testing.T) {
	o := &mockOTP{}
	_, err := newService(o, nil, nil).VerifyOTP(context.Background(), VerifyOTPRequest{Email: "a@b.com", OTP: "12345"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	assert.Equal(t, "OTP must be 6 digits", domain.Reason(err))
	o.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyOTP_InvalidCode(t *testing.T) {
	o := &mockOTP{}
	o.On("Verify", mock.Anything, "a@b.com", "123456").Return(false, nil)
	us := &mockUserStore{}

	_, err := newService(o, nil, us).VerifyOTP(context.Background(), VerifyOTPRequest{Email: "a@b.com", OTP: "123456"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	us.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestVerifyOTP_ExistingUser(t *testing.T) {
	o := &mockOTP{}
	o.On("Verify", mock.Anything, "a@b.com", "123456").Return(true, nil)
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(&domain.User{ID: 3, Email: "a@b.com", IsVerified: true}, nil)
	ss := &mockSessions{}
	ss.On("Create", mock.Anything, uint(3)).Return("tok", expiry, nil)

	res, err := newService(o, ss, us).VerifyOTP(context.Background(), VerifyOTPRequest{Email: "A@b.com", OTP: "123456"})
	require.NoError(t, err)
	assert.Equal(t, uint(3), res.User.ID)
	assert.Equal(t, "tok", res.Token)
	assert.Equal(t, expiry, res.ExpiresAt)
	us.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestVerifyOTP_CreatesVerifiedUser(t *testing.T) {
	o := &mockOTP{}
	o.On("Verify", mock.Anything, "new@b.com", "654321").Return(true, nil)
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "new@b.com").Return(nil, domain.ErrNotFound)
	us.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "new@b.com" && u.IsVerified
	})).Return(nil)
	ss := &mockSessions{}
	ss.On("Create", mock.Anything, uint(11)).Return("tok", expiry, nil)

	res, err := newService(o, ss, us).VerifyOTP(context.Background(), VerifyOTPRequest{Email: "new@b.com", OTP: "654321"})
	require.NoError(t, err)
	assert.Equal(t, uint(11), res.User.ID)
	us.AssertExpectations(t)
	ss.AssertExpectations(t)
}

func TestVerifyOTP_ConcurrentUserCreation(t *testing.T) {
	o := &mockOTP{}
	o.On("Verify", mock.Anything, "a@b.com", "123456").Return(true, nil)
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(nil, domain.ErrNotFound).Once()
	us.On("Create", mock.Anything, mock.Anything).Return(domain.ErrConflict)
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(&domain.User{ID: 5, Email: "a@b.com"}, nil).Once()
	ss := &mockSessions{}
	ss.On("Create", mock.Anything, uint(5)).Return("tok", expiry, nil)

	res, err := newService(o, ss, us).VerifyOTP(context.Background(), VerifyOTPRequest{Email: "a@b.com", OTP: "123456"})
	require.NoError(t, err)
	assert.Equal(t, uint(5), res.User.ID)
}

func TestVerifyOTP_SessionFailure(t *testing.T) {
	o := &mockOTP{}
	o.On("Verify", mock.Anything, "a@b.com", "123456").Return(true, nil)
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(&domain.User{ID: 3}, nil)
	ss := &mockSessions{}
	ss.On("Create", mock.Anything, uint(3)).Return("", time.Time{}, domain.ErrUnavailable)

	_, err := newService(o, ss, us).VerifyOTP(context.Background(), VerifyOTPRequest{Email: "a@b.com", OTP: "123456"})
	assert.True(t, errors.Is(err, domain.ErrUnavailable))
}

// --- CurrentUser ---

func TestCurrentUser_UsesAuthoritativeMode(t *testing.T) {
	ss := &mockSessions{}
	ss.On("Validate", mock.Anything, "tok", session.Authoritative).Return(&domain.User{ID: 3}, nil)

	u, err := newService(nil, ss, nil).CurrentUser(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, uint(3), u.ID)
	ss.AssertExpectations(t)
}
