package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"myMarketplace/domain"
	"myMarketplace/pkg/logger"
	"myMarketplace/pkg/serrors"
	"myMarketplace/pkg/utils"

	"github.com/go-playground/validator/v10"
)

// AccountRepository contract interface, one per account role
type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) error
	FindByID(ctx context.Context, id uint) (domain.Account, error)
	FindByEmail(ctx context.Context, email string) (domain.Account, error)
	Update(ctx context.Context, account domain.Account) error
}

// TokenRepository contract interface
type TokenRepository interface {
	StoreToken(ctx context.Context, data domain.AuthToken, ttl time.Duration) error
	ValidateToken(ctx context.Context, token string) (string, error)
	DeleteToken(ctx context.Context, token string) error
}

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(ctx context.Context, toName, toEmail, subject, message string) error
}

type userService struct {
	accounts  map[domain.Role]AccountRepository
	tokenRepo TokenRepository
	notifRepo NotificationRepository
	jwt       *utils.JWTManager
	validate  *validator.Validate
}

const (
	SubjectRegisterAccount   = "Welcome to the marketplace!"
	EmailBodyRegisterAccount = `Hello %v,</br></br>your %v account has been created. You can now sign in with %v.`
)

func NewUserService(
	accounts map[domain.Role]AccountRepository,
	tokenRepo TokenRepository,
	notifRepo NotificationRepository,
	jwt *utils.JWTManager,
	validate *validator.Validate,
) *userService {
	return &userService{
		accounts:  accounts,
		tokenRepo: tokenRepo,
		notifRepo: notifRepo,
		jwt:       jwt,
		validate:  validate,
	}
}

type RegisterInput struct {
	Role             domain.Role `json:"-"`
	FullName         string      `json:"full_name" validate:"required,max=100"`
	Email            string      `json:"email" validate:"required,email"`
	Password         string      `json:"password" validate:"required,min=6"`
	Phone            string      `json:"phone" validate:"omitempty,max=20"`
	StoreName        string      `json:"store_name" validate:"omitempty,max=100"`
	StoreDescription string      `json:"store_description"`
	City             string      `json:"city" validate:"omitempty,max=100"`
	State            string      `json:"state" validate:"omitempty,max=100"`
	Pincode          string      `json:"pincode" validate:"omitempty,max=12"`
	VehicleType      string      `json:"vehicle_type" validate:"omitempty,max=30"`
}

type LoginInput struct {
	Role      domain.Role `json:"-"`
	Email     string      `json:"email" validate:"required,email"`
	Password  string      `json:"password" validate:"required"`
	IPAddress string      `json:"-"`
	UserAgent string      `json:"-"`
}

type LoginResult struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Account   domain.Account `json:"account"`
}

// UpdateProfileInput leaves nil fields untouched.
type UpdateProfileInput struct {
	FullName         *string `json:"full_name" validate:"omitempty,min=1,max=100"`
	Phone            *string `json:"phone" validate:"omitempty,max=20"`
	Password         *string `json:"password" validate:"omitempty,min=6"`
	StoreName        *string `json:"store_name" validate:"omitempty,min=1,max=100"`
	StoreDescription *string `json:"store_description"`
	City             *string `json:"city" validate:"omitempty,min=1,max=100"`
	State            *string `json:"state" validate:"omitempty,max=100"`
	Pincode          *string `json:"pincode" validate:"omitempty,max=12"`
	VehicleType      *string `json:"vehicle_type" validate:"omitempty,max=30"`
}

func (s *userService) repo(role domain.Role) (AccountRepository, error) {
	repo, ok := s.accounts[role]
	if !ok {
		return nil, serrors.With(serrors.ErrBadRequest, "unsupported role %q", role)
	}
	return repo, nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			return serrors.With(serrors.ErrBadRequest, "%s is required", field)
		case "email":
			return serrors.With(serrors.ErrBadRequest, "invalid email format")
		case "min":
			if field == "password" {
				return serrors.With(serrors.ErrBadRequest, "password must be at least %s characters", fe.Param())
			}
		}
		return serrors.With(serrors.ErrBadRequest, "invalid %s", field)
	}
	return serrors.Wrap(serrors.ErrBadRequest, err, "invalid request")
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (domain.Account, error) {
	repo, err := s.repo(in.Role)
	if err != nil {
		return nil, err
	}

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validate.Struct(in); err != nil {
		logger.Warn("invalid register request", "role", in.Role, "error", err)
		return nil, validationError(err)
	}

	var account domain.Account
	switch in.Role {
	case domain.RoleBuyer:
		account = &domain.Buyer{FullName: in.FullName, Email: in.Email, Phone: in.Phone}
	case domain.RoleSeller:
		if strings.TrimSpace(in.StoreName) == "" {
			return nil, serrors.With(serrors.ErrBadRequest, "store_name is required")
		}
		account = &domain.Seller{
			FullName:         in.FullName,
			Email:            in.Email,
			Phone:            in.Phone,
			StoreName:        in.StoreName,
			StoreDescription: in.StoreDescription,
		}
	case domain.RoleDeliveryAgent:
		if strings.TrimSpace(in.City) == "" {
			return nil, serrors.With(serrors.ErrBadRequest, "city is required")
		}
		account = &domain.DeliveryAgent{
			FullName:    in.FullName,
			Email:       in.Email,
			Phone:       in.Phone,
			City:        strings.TrimSpace(in.City),
			State:       in.State,
			Pincode:     strings.TrimSpace(in.Pincode),
			VehicleType: in.VehicleType,
			IsActive:    true,
			IsAvailable: true,
		}
	}

	// Check if email already exists
	existing, err := repo.FindByEmail(ctx, in.Email)
	if err == nil && existing.AccountID() > 0 {
		return nil, serrors.With(serrors.ErrConflict, "email already registered")
	}
	if err != nil && !errors.Is(err, serrors.ErrNotFound) {
		logger.Error("failed to look up email", "error", err)
		return nil, err
	}

	passwordHash, err := utils.HashPassword(in.Password)
	if err != nil {
		logger.Error("failed to hash password", "error", err)
		return nil, serrors.Wrap(serrors.ErrInternal, err, "failed to hash password")
	}
	account.SetPasswordHash(string(passwordHash))

	if err := repo.Create(ctx, account); err != nil {
		logger.Error("failed to create account", "role", in.Role, "error", err)
		return nil, err
	}

	err = s.notifRepo.SendEmail(ctx, account.AccountName(), account.AccountEmail(), SubjectRegisterAccount,
		fmt.Sprintf(EmailBodyRegisterAccount, account.AccountName(), in.Role, account.AccountEmail()))
	if err != nil {
		logger.Warn("failed to send welcome email", "email", account.AccountEmail(), "error", err)
	}

	return account, nil
}

var errInvalidCredentials = serrors.With(serrors.ErrUnauthorized, "invalid email or password")

func (s *userService) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	repo, err := s.repo(in.Role)
	if err != nil {
		return LoginResult{}, err
	}

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validate.Struct(in); err != nil {
		return LoginResult{}, validationError(err)
	}

	account, err := repo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, serrors.ErrNotFound) {
			return LoginResult{}, errInvalidCredentials
		}
		logger.Error("failed to find account", "error", err)
		return LoginResult{}, err
	}

	if !utils.CheckPassword(in.Password, account.PasswordHash()) {
		logger.Info("password mismatch", "role", in.Role, "account_id", account.AccountID())
		return LoginResult{}, errInvalidCredentials
	}

	if !account.CanLogin() {
		return LoginResult{}, serrors.With(serrors.ErrForbidden, "account is deactivated")
	}

	userID := strconv.FormatUint(uint64(account.AccountID()), 10)
	token, expiresAt, err := s.issue(ctx, in.Role, userID, in.IPAddress, in.UserAgent)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Token: token, ExpiresAt: expiresAt, Account: account}, nil
}

func (s *userService) issue(ctx context.Context, role domain.Role, userID, ip, userAgent string) (string, time.Time, error) {
	token, err := s.jwt.GenerateJWT(userID, role.String())
	if err != nil {
		logger.Error("failed to generate token", "error", err)
		return "", time.Time{}, serrors.Wrap(serrors.ErrInternal, err, "failed to generate token")
	}

	now := time.Now().UTC()
	data := domain.AuthToken{
		AccountKey: role.String() + ":" + userID,
		Role:       role,
		Token:      token,
		IssuedAt:   now,
		ExpiresAt:  now.Add(s.jwt.TTL()),
		IPAddress:  ip,
		UserAgent:  userAgent,
	}
	if err := s.tokenRepo.StoreToken(ctx, data, s.jwt.TTL()); err != nil {
		logger.Error("failed to store token", "error", err)
		return "", time.Time{}, err
	}

	return token, data.ExpiresAt, nil
}

// IssueAdminToken mints an operator token. Admins have no account table.
func (s *userService) IssueAdminToken(ctx context.Context, subject string) (string, time.Time, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", time.Time{}, serrors.With(serrors.ErrBadRequest, "subject is required")
	}
	return s.issue(ctx, domain.RoleAdmin, subject, "", "cli")
}

func (s *userService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return serrors.With(serrors.ErrUnauthorized, "missing token")
	}

	if err := s.tokenRepo.DeleteToken(ctx, token); err != nil {
		logger.Warn("failed to revoke token", "error", err)
		return err
	}

	return nil
}

func (s *userService) Me(ctx context.Context, role domain.Role, id uint) (domain.Account, error) {
	repo, err := s.repo(role)
	if err != nil {
		return nil, err
	}

	account, err := repo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to get account", "role", role, "id", id, "error", err)
		return nil, err
	}

	return account, nil
}

func (s *userService) UpdateProfile(ctx context.Context, role domain.Role, id uint, in UpdateProfileInput) (domain.Account, error) {
	repo, err := s.repo(role)
	if err != nil {
		return nil, err
	}

	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	account, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch a := account.(type) {
	case *domain.Buyer:
		setIf(&a.FullName, in.FullName)
		setIf(&a.Phone, in.Phone)
	case *domain.Seller:
		setIf(&a.FullName, in.FullName)
		setIf(&a.Phone, in.Phone)
		setIf(&a.StoreName, in.StoreName)
		setIf(&a.StoreDescription, in.StoreDescription)
	case *domain.DeliveryAgent:
		setIf(&a.FullName, in.FullName)
		setIf(&a.Phone, in.Phone)
		setIf(&a.City, in.City)
		setIf(&a.State, in.State)
		setIf(&a.Pincode, in.Pincode)
		setIf(&a.VehicleType, in.VehicleType)
	}

	if in.Password != nil {
		passwordHash, err := utils.HashPassword(*in.Password)
		if err != nil {
			logger.Error("failed to hash password", "error", err)
			return nil, serrors.Wrap(serrors.ErrInternal, err, "failed to hash password")
		}
		account.SetPasswordHash(string(passwordHash))
	}

	if err := repo.Update(ctx, account); err != nil {
		logger.Error("failed to update account", "role", role, "id", id, "error", err)
		return nil, err
	}

	return account, nil
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
