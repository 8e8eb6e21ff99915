package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/meinhoongagan/roadside-assist/db"
	"github.com/meinhoongagan/roadside-assist/logger"
	"github.com/meinhoongagan/roadside-assist/models"
	"github.com/meinhoongagan/roadside-assist/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	verificationTTL = 24 * time.Hour
	otpTTL          = 10 * time.Minute
	minPasswordLen  = 6
	// wrong codes tolerated before a reset OTP is thrown away
	maxOTPAttempts  = 5
)

type AuthConfig struct {
	Secret    []byte
	TokenTTL  time.Duration
	ClientURL string
}

type RegisterInput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	StoreName string `json:"storeName"`
}

// Profile is the account as shown to its owner.
type Profile struct {
	models.Contact
	Role       models.Role `json:"role"`
	IsVerified bool        `json:"isVerified"`
	StoreName  string      `json:"storeName,omitempty"`
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Profile   Profile   `json:"user"`
}

// accountRow reads either account table.
type accountRow struct {
	ID             uint
	models.Account `gorm:"embedded"`
	StoreName      string
}

func (r *accountRow) profile(role models.Role) Profile {
	return Profile{
		Contact:    models.Contact{ID: r.ID, Name: r.Name, Email: r.Email, Phone: r.Phone, ProfileImage: r.ProfileImage},
		Role:       role,
		IsVerified: r.IsVerified,
		StoreName:  r.StoreName,
	}
}

// AuthService handles both account tables. Users and mechanics are separate
// identity spaces, so every call names the role.
type AuthService struct {
	db     *gorm.DB
	mailer Mailer
	cfg    AuthConfig
	now    func() time.Time
}

func NewAuthService(conn *gorm.DB, mailer Mailer, cfg AuthConfig) *AuthService {
	return &AuthService{db: conn, mailer: mailer, cfg: cfg, now: time.Now}
}

func tableFor(role models.Role) (string, error) {
	switch role {
	case models.RoleUser:
		return "users", nil
	case models.RoleMechanic:
		return "mechanics", nil
	}
	return "", fmt.Errorf("unknown role %q", role)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) find(role models.Role, query string, args ...any) (*accountRow, error) {
	table, err := tableFor(role)
	if err != nil {
		return nil, err
	}
	var row accountRow
	err = s.db.Table(table).Where(query, args...).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *AuthService) update(role models.Role, id uint, fields map[string]any) error {
	table, err := tableFor(role)
	if err != nil {
		return err
	}
	fields["updated_at"] = s.now()
	return s.db.Table(table).Where("id = ?", id).Updates(fields).Error
}

// Register creates an unverified account and emails a verification link.
func (s *AuthService) Register(ctx context.Context, role models.Role, in RegisterInput) (*Profile, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	switch {
	case in.Name == "":
		return nil, invalid("name", "is required")
	case !strings.Contains(in.Email, "@"):
		return nil, invalid("email", "must be a valid email address")
	case len(in.Password) < minPasswordLen:
		return nil, invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLen))
	}

	if _, err := s.find(role, "email = ?", in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrAccountNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	expires := s.now().Add(verificationTTL)
	account := models.Account{
		Name:                  in.Name,
		Email:                 in.Email,
		Phone:                 strings.TrimSpace(in.Phone),
		Password:              string(hashed),
		VerificationToken:     utils.GenerateToken(),
		VerificationExpiresAt: &expires,
	}

	row := accountRow{Account: account}
	switch role {
	case models.RoleUser:
		u := models.User{Account: account}
		err = s.db.Create(&u).Error
		row.ID = u.ID
	case models.RoleMechanic:
		m := models.Mechanic{Account: account, StoreName: strings.TrimSpace(in.StoreName)}
		err = s.db.Create(&m).Error
		row.ID, row.StoreName = m.ID, m.StoreName
	default:
		_, err = tableFor(role)
	}
	if err != nil {
		if db.IsDuplicateKey(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.sendVerification(role, &row)
	logger.Audit(ctx, "account registered", "role", role, "accountId", row.ID)

	p := row.profile(role)
	return &p, nil
}

func (s *AuthService) sendVerification(role models.Role, row *accountRow) {
	if s.mailer == nil {
		return
	}
	link := fmt.Sprintf("%s/verify-email?token=%s&role=%s",
		s.cfg.ClientURL, url.QueryEscape(row.VerificationToken), role)
	if err := s.mailer.SendVerification(row.Email, row.Name, link); err != nil {
		logger.Warn("failed to send verification email", "role", role, "accountId", row.ID, "error", err)
	}
}

// VerifyEmail consumes a verification token.
func (s *AuthService) VerifyEmail(role models.Role, token string) (*Profile, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	row, err := s.find(role, "verification_token = ?", token)
	if errors.Is(err, ErrAccountNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if row.VerificationExpiresAt == nil || s.now().After(*row.VerificationExpiresAt) {
		return nil, ErrInvalidToken
	}

	err = s.update(role, row.ID, map[string]any{
		"is_verified":             true,
		"verification_token":      "",
		"verification_expires_at": nil,
	})
	if err != nil {
		return nil, err
	}
	row.IsVerified = true
	p := row.profile(role)
	return &p, nil
}

// Login checks the password and issues a token. Unverified accounts may log
// in; the profile carries isVerified=false.
func (s *AuthService) Login(role models.Role, email, password string) (*Session, error) {
	row, err := s.find(role, "email = ?", normalizeEmail(email))
	if errors.Is(err, ErrAccountNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(row.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expires, err := s.IssueToken(row.ID, role)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expires, Profile: row.profile(role)}, nil
}

// IssueToken signs an HS256 token carrying id, role and exp.
func (s *AuthService) IssueToken(id uint, role models.Role) (string, time.Time, error) {
	expires := s.now().Add(s.cfg.TokenTTL)
	claims := jwt.MapClaims{
		"id":   id,
		"role": string(role),
		"exp":  expires.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// ForgotPassword emails a reset OTP when the account exists. Unknown
// addresses succeed silently.
func (s *AuthService) ForgotPassword(ctx context.Context, role models.Role, email string) error {
	row, err := s.find(role, "email = ?", normalizeEmail(email))
	if errors.Is(err, ErrAccountNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		return err
	}
	expires := s.now().Add(otpTTL)
	if err := s.update(role, row.ID, map[string]any{"reset_otp": otp, "reset_otp_expires_at": expires, "reset_otp_attempts": 0}); err != nil {
		return err
	}

	if s.mailer != nil {
		if err := s.mailer.SendResetOTP(row.Email, row.Name, otp); err != nil {
			logger.Warn("failed to send reset otp", "role", role, "accountId", row.ID, "error", err)
		}
	}
	logger.Audit(ctx, "password reset requested", "role", role, "accountId", row.ID)
	return nil
}

// ResetPassword sets a new password when otp matches. Any earlier reset or
// verification state is cleared.
func (s *AuthService) ResetPassword(ctx context.Context, role models.Role, email, otp, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLen))
	}
	row, err := s.find(role, "email = ?", normalizeEmail(email))
	if errors.Is(err, ErrAccountNotFound) {
		return ErrInvalidOTP
	}
	if err != nil {
		return err
	}
	otp = strings.TrimSpace(otp)
	if otp == "" || row.ResetOTP == "" ||
		row.ResetOTPExpiresAt == nil || s.now().After(*row.ResetOTPExpiresAt) {
		return ErrInvalidOTP
	}
	if otp != row.ResetOTP {
		return s.failedOTP(ctx, role, row.ID)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	table, err := tableFor(role)
	if err != nil {
		return err
	}
	// Only the code that was checked may be consumed; a concurrent lockout wins.
	res := s.db.Table(table).Where("id = ? AND reset_otp = ?", row.ID, otp).Updates(map[string]any{
		"password":                string(hashed),
		"reset_otp":               "",
		"reset_otp_expires_at":    nil,
		"reset_otp_attempts":      0,
		"verification_token":      "",
		"verification_expires_at": nil,
		"updated_at":              s.now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvalidOTP
	}

	if s.mailer != nil {
		if err := s.mailer.SendPasswordChanged(row.Email, row.Name); err != nil {
			logger.Warn("failed to send password changed email", "role", role, "accountId", row.ID, "error", err)
		}
	}
	logger.Audit(ctx, "password reset", "role", role, "accountId", row.ID)
	return nil
}

func (s *AuthService) Me(role models.Role, id uint) (*Profile, error) {
	row, err := s.find(role, "id = ?", id)
	if err != nil {
		return nil, err
	}
	p := row.profile(role)
	return &p, nil
}

// failedOTP records a wrong reset code and discards the OTP once
// maxOTPAttempts have been used up.
func (s *AuthService) failedOTP(ctx context.Context, role models.Role, id uint) error {
	table, err := tableFor(role)
	if err != nil {
		return err
	}
	err = s.db.Table(table).Where("id = ?", id).
		Update("reset_otp_attempts", gorm.Expr("reset_otp_attempts + 1")).Error
	if err != nil {
		return err
	}
	res := s.db.Table(table).Where("id = ? AND reset_otp_attempts >= ?", id, maxOTPAttempts).
		Updates(map[string]any{"reset_otp": "", "reset_otp_expires_at": nil, "reset_otp_attempts": 0})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		logger.Audit(ctx, "reset otp discarded after failed attempts", "role", role, "accountId", id)
	}
	return ErrInvalidOTP
}
