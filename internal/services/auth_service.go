// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/procurehub/orders-backend/internal/apperrors"
	"github.com/procurehub/orders-backend/internal/config"
	"github.com/procurehub/orders-backend/internal/models"
	"github.com/procurehub/orders-backend/internal/utils"
)

// AuthService is the identity collaborator surface: account registration
// (including provisioning of the account's basket or partner state), token
// issuance and email verification.
type AuthService struct {
	db                  *gorm.DB
	cfg                 *config.Config
	notificationService *NotificationService
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username  string          `json:"username" validate:"required,username"`
	Email     string          `json:"email" validate:"required,email"`
	Password  string          `json:"password" validate:"required,strong_password"`
	FirstName string          `json:"first_name" validate:"required"`
	LastName  string          `json:"last_name" validate:"required"`
	UserType  models.UserType `json:"user_type" validate:"required"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // in seconds
}

func NewAuthService(db *gorm.DB, cfg *config.Config, notificationService *NotificationService) *AuthService {
	return &AuthService{
		db:                  db,
		cfg:                 cfg,
		notificationService: notificationService,
	}
}

// Register creates the account and provisions its order-side state in the
// same transaction: customers get their basket, partners their visibility
// state (active by default). The identity collaborator owns this explicit
// provisioning step; nothing hangs off implicit lifecycle hooks.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "all required arguments not provided", err)
	}

	if req.UserType != models.UserTypeCustomer && req.UserType != models.UserTypePartner {
		return nil, apperrors.Newf(apperrors.KindValidation, "invalid user type %q", req.UserType)
	}

	db := s.db.WithContext(ctx)

	var existingUser models.User
	if err := db.Where("email = ? OR username = ?", req.Email, req.Username).First(&existingUser).Error; err == nil {
		if existingUser.Email == req.Email {
			return nil, apperrors.Conflict("user with this email already exists")
		}
		return nil, apperrors.Conflict("username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapDBError(err)
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		UserType:  req.UserType,
		Status:    models.UserStatusActive,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperrors.Internal(err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return wrapDBError(err)
		}
		return s.provision(tx, user)
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		token, tokenErr := utils.GenerateEmailVerificationToken(user.ID, s.cfg.JWT.AccessTokenTTL)
		if tokenErr == nil {
			s.notificationService.NotifyRegistration(user, token)
		}
	}

	return resp, nil
}

// provision creates the per-account order-side records.
func (s *AuthService) provision(tx *gorm.DB, user *models.User) error {
	switch user.UserType {
	case models.UserTypeCustomer:
		if err := tx.Create(&models.Basket{UserID: user.ID}).Error; err != nil {
			return wrapDBError(err)
		}
	case models.UserTypePartner:
		if err := tx.Create(&models.PartnerState{UserID: user.ID, Active: true}).Error; err != nil {
			return wrapDBError(err)
		}
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "all required arguments not provided", err)
	}

	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Auth("invalid email or password")
		}
		return nil, wrapDBError(err)
	}

	if user.Status != models.UserStatusActive {
		return nil, apperrors.Auth("account is suspended")
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, apperrors.Auth("invalid email or password")
	}

	// Best effort: a failed timestamp write must not block the login.
	now := time.Now()
	if err := db.Model(&user).Update("last_login_at", &now).Error; err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("Failed to record last login")
	}

	return s.issueTokens(&user)
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	subject, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Auth("invalid refresh token")
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, apperrors.Auth("invalid refresh token")
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Status != models.UserStatusActive {
		return nil, apperrors.Auth("account is suspended")
	}

	return s.issueTokens(user)
}

// VerifyEmail marks the account confirmed from an emailed token.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	userID, err := utils.ValidateEmailVerificationToken(token)
	if err != nil {
		return apperrors.Auth("invalid or expired verification token")
	}

	now := time.Now()
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND email_verified_at IS NULL", userID).
		Update("email_verified_at", &now)
	if result.Error != nil {
		return wrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("user not found or already verified")
	}
	return nil
}

type ContactRequest struct {
	Type  models.ContactType `json:"type" validate:"required"`
	Value string             `json:"value" validate:"required"`
}

// ListContacts returns the account's contact channels.
func (s *AuthService) ListContacts(ctx context.Context, userID uuid.UUID) ([]models.Contact, error) {
	var contacts []models.Contact
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&contacts).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return contacts, nil
}

// AddContact attaches a contact channel to the account. Contact values are
// globally unique.
func (s *AuthService) AddContact(ctx context.Context, userID uuid.UUID, req *ContactRequest) (*models.Contact, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "all required arguments not provided", err)
	}
	if !req.Type.Valid() {
		return nil, apperrors.Newf(apperrors.KindValidation, "unknown contact type %q", req.Type)
	}

	db := s.db.WithContext(ctx)

	var existing models.Contact
	if err := db.Where("value = ?", req.Value).First(&existing).Error; err == nil {
		return nil, apperrors.Conflict("contact value already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapDBError(err)
	}

	contact := &models.Contact{UserID: userID, Type: req.Type, Value: req.Value}
	if err := db.Create(contact).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return contact, nil
}

// RemoveContact deletes one of the account's own contact channels.
func (s *AuthService) RemoveContact(ctx context.Context, userID uuid.UUID, contactID uuid.UUID) error {
	db := s.db.WithContext(ctx)

	var contact models.Contact
	if err := db.First(&contact, "id = ?", contactID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("contact not found")
		}
		return wrapDBError(err)
	}
	if contact.UserID != userID {
		return apperrors.NotFound("contact not found")
	}

	if err := db.Delete(&contact).Error; err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, wrapDBError(err)
	}
	return &user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(user.ID, user.Username, string(user.UserType), s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWT.AccessTokenTTL * 3600,
	}, nil
}
