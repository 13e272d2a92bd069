package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/smartrecipe/auth-service/internal/domain"
)

// DefaultResetTokenTTL bounds how long a password reset capability stays
// redeemable.
const DefaultResetTokenTTL = 30 * time.Minute

// UserStore is the user persistence surface the service needs.
// *repository.UsersRepository satisfies it.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	UpdatePasswordHash(ctx context.Context, userID uuid.UUID, hash string) error
	Deactivate(ctx context.Context, userID uuid.UUID) error
}

// ResetTokenStore is the reset token persistence surface.
// *repository.ResetTokensRepository satisfies it.
type ResetTokenStore interface {
	Create(ctx context.Context, token *domain.PasswordResetToken) error
	Redeem(ctx context.Context, tokenHash string, now time.Time) (*domain.PasswordResetToken, error)
}

// LinkStore is the third-party identity link persistence surface.
// *repository.ThirdPartyRepository satisfies it.
type LinkStore interface {
	Create(ctx context.Context, link *domain.ThirdPartyAuth) error
	GetActiveByProviderIdentity(ctx context.Context, provider, providerUserID string) (*domain.ThirdPartyAuth, error)
	DeactivateByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) error
}

// ResetLinkSender delivers a password reset link to an email address.
type ResetLinkSender interface {
	SendPasswordResetLink(ctx context.Context, email, token string, region domain.Region) error
}

// ServiceConfig tunes the orchestrator. A nil Policy permits everything.
type ServiceConfig struct {
	DefaultRegion domain.Region
	ResetTokenTTL time.Duration
	Policy        AccessPolicy
}

// Service orchestrates the authentication flows across credentials, codes,
// tokens, sessions and the lockout policy.
type Service struct {
	users       UserStore
	resetTokens ResetTokenStore
	links       LinkStore

	credentials *CredentialManager
	codes       *VerificationCodeService
	tokens      *TokenService
	sessions    *SessionManager
	lockout     *LockoutPolicy

	provider    ProviderClient
	resetSender ResetLinkSender
	policy      AccessPolicy

	config ServiceConfig
	logger *slog.Logger
}

// NewService wires the orchestrator.
func NewService(
	users UserStore,
	resetTokens ResetTokenStore,
	links LinkStore,
	credentials *CredentialManager,
	codes *VerificationCodeService,
	tokens *TokenService,
	sessions *SessionManager,
	lockout *LockoutPolicy,
	provider ProviderClient,
	resetSender ResetLinkSender,
	config ServiceConfig,
	logger *slog.Logger,
) *Service {
	if config.DefaultRegion == "" {
		config.DefaultRegion = domain.RegionUS
	}
	if config.ResetTokenTTL == 0 {
		config.ResetTokenTTL = DefaultResetTokenTTL
	}
	if config.Policy == nil {
		config.Policy = AllowAll{}
	}
	return &Service{
		users:       users,
		resetTokens: resetTokens,
		links:       links,
		credentials: credentials,
		codes:       codes,
		tokens:      tokens,
		sessions:    sessions,
		lockout:     lockout,
		provider:    provider,
		resetSender: resetSender,
		policy:      config.Policy,
		config:      config,
		logger:      logger,
	}
}

func (s *Service) region(region domain.Region) (domain.Region, error) {
	if region == "" {
		return s.config.DefaultRegion, nil
	}
	if !region.Valid() {
		return "", domain.ErrInvalidRegion
	}
	return region, nil
}

// SendRegisterCode issues a register-purpose verification code. Unlike the
// other purposes, registration checks for duplicate identities up front so
// the client learns of the conflict before submitting the full form.
func (s *Service) SendRegisterCode(ctx context.Context, identifier string, region domain.Region) error {
	region, err := s.region(region)
	if err != nil {
		return err
	}
	normalized, kind, err := NormalizeIdentifier(identifier, region)
	if err != nil {
		return err
	}

	switch kind {
	case LoginTypeEmail:
		taken, err := s.users.ExistsByEmail(ctx, normalized)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return domain.ErrEmailTaken
		}
	case LoginTypePhone:
		taken, err := s.users.ExistsByPhone(ctx, normalized)
		if err != nil {
			return fmt.Errorf("failed to check phone: %w", err)
		}
		if taken {
			return domain.ErrPhoneTaken
		}
	default:
		return domain.ErrMissingContact
	}

	return s.codes.Issue(ctx, normalized, domain.PurposeRegister, region)
}

// RegisterInput carries a code-gated registration request. Identifier is the
// email or phone the register code was sent to.
type RegisterInput struct {
	Username   string
	Identifier string
	Password   string
	Code       string
	Region     domain.Region
	DeviceInfo domain.DeviceInfo
	IPAddress  string
}

// LoginResult is the outcome of any flow that establishes a session.
type LoginResult struct {
	User   *domain.User
	Tokens *domain.TokenPair
}

// Register creates a verified account gated on a valid register code, then
// opens a session. Verification fails closed: no code, no account.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*LoginResult, error) {
	region, err := s.region(input.Region)
	if err != nil {
		return nil, err
	}
	normalized, kind, err := NormalizeIdentifier(input.Identifier, region)
	if err != nil {
		return nil, err
	}
	if kind == LoginTypeUsername {
		return nil, domain.ErrMissingContact
	}

	if err := s.codes.Verify(ctx, normalized, input.Code, domain.PurposeRegister); err != nil {
		return nil, err
	}

	if ok, violations := s.credentials.AssessStrength(input.Password); !ok {
		return nil, fmt.Errorf("%w: %v", domain.ErrWeakPassword, violations)
	}

	taken, err := s.users.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := s.credentials.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     input.Username,
		PasswordHash: hash,
		Active:       true,
		Verified:     true, // contact proven by the register code
		Region:       region,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	switch kind {
	case LoginTypeEmail:
		user.Email = &normalized
	case LoginTypePhone:
		user.Phone = &normalized
	}

	// Duplicate races past the precheck surface here as constraint errors.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("region", string(region)))

	input.DeviceInfo.LoginType = string(kind)
	return s.establishSession(ctx, user, input.DeviceInfo, input.IPAddress)
}

// LoginInput carries a credential login request. Identifier may be a
// username, email or phone; LoginType optionally declares which, overriding
// shape detection so an all-digit username stays a username.
type LoginInput struct {
	Identifier string
	LoginType  string
	Password   string
	Region     domain.Region
	DeviceInfo domain.DeviceInfo
	IPAddress  string
}

// Login verifies credentials and opens a session. The lock check runs before
// credential verification so a locked account rejects even the correct
// password; every outcome is recorded in the attempt log.
func (s *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	region, err := s.region(input.Region)
	if err != nil {
		return nil, err
	}
	var normalized string
	kind := LoginType(input.LoginType)
	if kind != "" {
		normalized, err = NormalizeAs(input.Identifier, kind, region)
	} else {
		normalized, kind, err = NormalizeIdentifier(input.Identifier, region)
	}
	if err != nil {
		return nil, err
	}
	input.DeviceInfo.LoginType = string(kind)

	user, err := s.lookupByLoginType(ctx, normalized, kind)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.lockout.RecordAttempt(ctx, normalized, input.IPAddress, input.DeviceInfo.UserAgent, false, domain.FailureWrongCredentials)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	locked, _, err := s.lockout.CheckLock(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if locked {
		s.lockout.RecordAttempt(ctx, normalized, input.IPAddress, input.DeviceInfo.UserAgent, false, domain.FailureAccountLocked)
		return nil, domain.ErrAccountLocked
	}

	if !user.Active {
		s.lockout.RecordAttempt(ctx, normalized, input.IPAddress, input.DeviceInfo.UserAgent, false, domain.FailureAccountInactive)
		return nil, domain.ErrAccountInactive
	}

	if !s.credentials.Verify(input.Password, user.PasswordHash) {
		s.lockout.RecordAttempt(ctx, normalized, input.IPAddress, input.DeviceInfo.UserAgent, false, domain.FailureWrongCredentials)
		if err := s.lockout.EvaluateAndLock(ctx, user.ID, userIdentifiers(user)); err != nil {
			s.logger.Error("lockout evaluation failed", slog.String("error", err.Error()))
		}
		return nil, domain.ErrInvalidCredentials
	}

	allowed, err := s.policy.Allow(ctx, user.ID, ActionLogin)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate access policy: %w", err)
	}
	if !allowed {
		s.lockout.RecordAttempt(ctx, normalized, input.IPAddress, input.DeviceInfo.UserAgent, false, domain.FailurePolicyDenied)
		return nil, domain.ErrPermissionDenied
	}

	s.lockout.RecordAttempt(ctx, normalized, input.IPAddress, input.DeviceInfo.UserAgent, true, "")
	return s.establishSession(ctx, user, input.DeviceInfo, input.IPAddress)
}

func (s *Service) lookupByLoginType(ctx context.Context, identifier string, kind LoginType) (*domain.User, error) {
	switch kind {
	case LoginTypeEmail:
		return s.users.GetByEmail(ctx, identifier)
	case LoginTypePhone:
		return s.users.GetByPhone(ctx, identifier)
	default:
		return s.users.GetByUsername(ctx, identifier)
	}
}

func userIdentifiers(user *domain.User) []string {
	identifiers := []string{user.Username}
	if user.Email != nil && *user.Email != "" {
		identifiers = append(identifiers, *user.Email)
	}
	if user.Phone != nil && *user.Phone != "" {
		identifiers = append(identifiers, *user.Phone)
	}
	return identifiers
}

func (s *Service) establishSession(ctx context.Context, user *domain.User, device domain.DeviceInfo, ipAddress string) (*LoginResult, error) {
	pair, err := s.issueTokenPair(ctx, user, device, ipAddress)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Tokens: pair}, nil
}

func (s *Service) issueTokenPair(ctx context.Context, user *domain.User, device domain.DeviceInfo, ipAddress string) (*domain.TokenPair, error) {
	access, err := s.tokens.IssueAccess(user.ID, user.Username, user.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}
	if _, err := s.sessions.Open(ctx, user.ID, refresh, device, ipAddress, s.tokens.RefreshTokenTTL()); err != nil {
		return nil, err
	}
	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(s.tokens.AccessTokenTTL().Seconds()),
	}, nil
}

// Refresh exchanges a live refresh token for a fresh pair. The presented
// token's session must still be active; it is rotated out, so each refresh
// token works exactly once.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.tokens.Verify(refreshToken, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrAccountInactive
	}
	allowed, err := s.policy.Allow(ctx, user.ID, ActionRefresh)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate access policy: %w", err)
	}
	if !allowed {
		return nil, domain.ErrPermissionDenied
	}

	access, err := s.tokens.IssueAccess(user.ID, user.Username, user.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	newRefresh, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}
	if _, err := s.sessions.Rotate(ctx, user.ID, refreshToken, newRefresh, s.tokens.RefreshTokenTTL()); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: newRefresh,
		TokenType:    "bearer",
		ExpiresIn:    int(s.tokens.AccessTokenTTL().Seconds()),
	}, nil
}

// Logout ends the session behind the given refresh token, or every session
// when allDevices is set. Logging out an already dead session is a no-op.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID, refreshToken string, allDevices bool) error {
	if allDevices {
		return s.sessions.RevokeAll(ctx, userID)
	}
	if refreshToken == "" {
		return nil
	}
	return s.sessions.RevokeByToken(ctx, userID, refreshToken)
}

// ForgotPassword starts a password recovery. Email identifiers get a reset
// link, phone identifiers get a reset_password code. The outcome is uniform
// whether or not the identifier matches an account: unknown identifiers,
// the code-issue window, and delivery failures all collapse to the same nil
// result, so repeat requests cannot distinguish a registered identifier.
func (s *Service) ForgotPassword(ctx context.Context, identifier string, region domain.Region) error {
	region, err := s.region(region)
	if err != nil {
		return err
	}
	normalized, kind, err := NormalizeIdentifier(identifier, region)
	if err != nil {
		return err
	}

	user, err := s.lookupByLoginType(ctx, normalized, kind)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.logger.Info("password recovery for unknown identifier")
		return nil
	}
	if err != nil {
		return err
	}

	switch kind {
	case LoginTypePhone:
		return s.suppressRecoverySignals(s.codes.Issue(ctx, normalized, domain.PurposeResetPassword, region))
	default:
		if user.Email == nil || *user.Email == "" {
			s.logger.Info("password recovery without email contact",
				slog.String("user_id", user.ID.String()))
			return nil
		}
		return s.suppressRecoverySignals(s.issueResetLink(ctx, user, region))
	}
}

// suppressRecoverySignals swallows the errors whose presence would reveal
// that a recovery identifier is registered. Real failures are still logged.
func (s *Service) suppressRecoverySignals(err error) error {
	if errors.Is(err, domain.ErrCodeRateLimited) || errors.Is(err, domain.ErrDeliveryFailed) {
		s.logger.Warn("password recovery outcome suppressed", slog.String("error", err.Error()))
		return nil
	}
	return err
}

func (s *Service) issueResetLink(ctx context.Context, user *domain.User, region domain.Region) error {
	raw, err := GenerateSecureToken(32)
	if err != nil {
		return err
	}
	now := time.Now()
	token := &domain.PasswordResetToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: HashToken(raw),
		ExpiresAt: now.Add(s.config.ResetTokenTTL),
		CreatedAt: now,
	}
	if err := s.resetTokens.Create(ctx, token); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	if err := s.resetSender.SendPasswordResetLink(ctx, *user.Email, raw, region); err != nil {
		s.logger.Error("reset link delivery failed", slog.String("error", err.Error()))
		return domain.ErrDeliveryFailed
	}
	return nil
}

// ResetPassword redeems a reset token and replaces the password, then
// revokes every session so stolen refresh tokens die with the old password.
func (s *Service) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	if ok, violations := s.credentials.AssessStrength(newPassword); !ok {
		return fmt.Errorf("%w: %v", domain.ErrWeakPassword, violations)
	}

	token, err := s.resetTokens.Redeem(ctx, HashToken(rawToken), time.Now())
	if err != nil {
		return err
	}

	hash, err := s.credentials.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, token.UserID, hash); err != nil {
		return err
	}
	if err := s.sessions.RevokeAll(ctx, token.UserID); err != nil {
		return err
	}

	s.logger.Info("password reset", slog.String("user_id", token.UserID.String()))
	return nil
}

// ChangePassword replaces the password after verifying the old one, then
// revokes every session, matching the reset-password revocation policy.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.credentials.Verify(oldPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}
	if ok, violations := s.credentials.AssessStrength(newPassword); !ok {
		return fmt.Errorf("%w: %v", domain.ErrWeakPassword, violations)
	}

	hash, err := s.credentials.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}
	if err := s.sessions.RevokeAll(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("password changed", slog.String("user_id", userID.String()))
	return nil
}

// DeactivateAccount soft-deactivates the account after verifying the
// password, and revokes every session. The user row is retained; only the
// active flag changes.
func (s *Service) DeactivateAccount(ctx context.Context, userID uuid.UUID, password string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.credentials.Verify(password, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	if err := s.users.Deactivate(ctx, userID); err != nil {
		return err
	}
	if err := s.sessions.RevokeAll(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("account deactivated", slog.String("user_id", userID.String()))
	return nil
}

// SendCode issues a purpose-typed verification code. Register-purpose
// requests go through SendRegisterCode for the duplicate precheck.
func (s *Service) SendCode(ctx context.Context, identifier string, purpose domain.CodePurpose, region domain.Region) error {
	if !purpose.Valid() {
		return domain.ErrInvalidPurpose
	}
	if purpose == domain.PurposeRegister {
		return s.SendRegisterCode(ctx, identifier, region)
	}

	region, err := s.region(region)
	if err != nil {
		return err
	}
	normalized, kind, err := NormalizeIdentifier(identifier, region)
	if err != nil {
		return err
	}
	if kind == LoginTypeUsername {
		return domain.ErrMissingContact
	}
	return s.codes.Issue(ctx, normalized, purpose, region)
}

// VerifyCodeResult is the outcome of a successful code verification. For
// the reset_password purpose it carries a one-time reset token so phone
// users complete the same reset-password flow as email users.
type VerifyCodeResult struct {
	Verified   bool
	ResetToken string
}

// VerifyCode checks a code against the active one for the identifier and
// purpose.
func (s *Service) VerifyCode(ctx context.Context, identifier, code string, purpose domain.CodePurpose, region domain.Region) (*VerifyCodeResult, error) {
	if !purpose.Valid() {
		return nil, domain.ErrInvalidPurpose
	}
	region, err := s.region(region)
	if err != nil {
		return nil, err
	}
	normalized, kind, err := NormalizeIdentifier(identifier, region)
	if err != nil {
		return nil, err
	}

	if err := s.codes.Verify(ctx, normalized, code, purpose); err != nil {
		return nil, err
	}

	result := &VerifyCodeResult{Verified: true}
	if purpose == domain.PurposeResetPassword {
		user, err := s.lookupByLoginType(ctx, normalized, kind)
		if errors.Is(err, domain.ErrUserNotFound) {
			// A reset code for an identifier with no account cannot
			// be converted into a capability.
			return nil, domain.ErrCodeInvalidOrExpired
		}
		if err != nil {
			return nil, err
		}
		raw, err := GenerateSecureToken(32)
		if err != nil {
			return nil, err
		}
		now := time.Now()
		token := &domain.PasswordResetToken{
			ID:        uuid.New(),
			UserID:    user.ID,
			TokenHash: HashToken(raw),
			ExpiresAt: now.Add(s.config.ResetTokenTTL),
			CreatedAt: now,
		}
		if err := s.resetTokens.Create(ctx, token); err != nil {
			return nil, fmt.Errorf("failed to store reset token: %w", err)
		}
		result.ResetToken = raw
	}
	return result, nil
}

// ThirdPartyLoginInput carries a provider exchange request.
type ThirdPartyLoginInput struct {
	Provider   string
	Code       string
	State      string
	Region     domain.Region
	DeviceInfo domain.DeviceInfo
	IPAddress  string
}

// ThirdPartyLoginResult is either an established session (identity already
// bound) or a bind requirement carrying a short-lived bind token and the
// provider's profile for the binding UI.
type ThirdPartyLoginResult struct {
	BindRequired bool
	BindToken    string
	Profile      *domain.ProviderProfile
	Login        *LoginResult
}

// ThirdPartyLogin exchanges a provider authorization code. A bound identity
// logs straight in; an unbound one gets a bind token to complete binding.
func (s *Service) ThirdPartyLogin(ctx context.Context, input ThirdPartyLoginInput) (*ThirdPartyLoginResult, error) {
	profile, err := s.provider.Exchange(ctx, input.Provider, input.Code, input.State)
	if err != nil {
		s.logger.Error("provider exchange failed",
			slog.String("provider", input.Provider),
			slog.String("error", err.Error()))
		return nil, domain.ErrProviderExchange
	}

	link, err := s.links.GetActiveByProviderIdentity(ctx, profile.Provider, profile.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		bindToken, err := s.tokens.IssueBind(profile)
		if err != nil {
			return nil, fmt.Errorf("failed to issue bind token: %w", err)
		}
		return &ThirdPartyLoginResult{
			BindRequired: true,
			BindToken:    bindToken,
			Profile:      profile,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, link.UserID)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrAccountInactive
	}
	allowed, err := s.policy.Allow(ctx, user.ID, ActionLogin)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate access policy: %w", err)
	}
	if !allowed {
		return nil, domain.ErrPermissionDenied
	}

	input.DeviceInfo.LoginType = input.Provider
	s.lockout.RecordAttempt(ctx, user.Username, input.IPAddress, input.DeviceInfo.UserAgent, true, "")
	login, err := s.establishSession(ctx, user, input.DeviceInfo, input.IPAddress)
	if err != nil {
		return nil, err
	}
	return &ThirdPartyLoginResult{Login: login}, nil
}

// ThirdPartyBindInput completes a binding: the bind token proves the
// provider identity, the credentials prove the local account.
type ThirdPartyBindInput struct {
	BindToken  string
	Identifier string
	Password   string
	Region     domain.Region
	DeviceInfo domain.DeviceInfo
	IPAddress  string
}

// ThirdPartyBind links the provider identity carried in a bind token to the
// local account proven by the credentials, then opens a session. The login
// step runs the full credential path including lockout.
func (s *Service) ThirdPartyBind(ctx context.Context, input ThirdPartyBindInput) (*LoginResult, error) {
	claims, err := s.tokens.Verify(input.BindToken, TokenTypeBind)
	if err != nil {
		return nil, err
	}

	login, err := s.Login(ctx, LoginInput{
		Identifier: input.Identifier,
		Password:   input.Password,
		Region:     input.Region,
		DeviceInfo: input.DeviceInfo,
		IPAddress:  input.IPAddress,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	link := &domain.ThirdPartyAuth{
		ID:             uuid.New(),
		UserID:         login.User.ID,
		Provider:       claims.Provider,
		ProviderUserID: claims.ProviderUserID,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if claims.ProviderEmail != "" {
		email := claims.ProviderEmail
		link.Email = &email
	}
	if err := s.links.Create(ctx, link); err != nil {
		return nil, err
	}

	s.logger.Info("third-party identity bound",
		slog.String("user_id", login.User.ID.String()),
		slog.String("provider", claims.Provider))
	return login, nil
}

// ThirdPartyUnbind unlinks a provider identity from the authenticated user.
// Password login is unaffected; only the provider shortcut dies.
func (s *Service) ThirdPartyUnbind(ctx context.Context, userID uuid.UUID, provider string) error {
	if err := s.links.DeactivateByUserAndProvider(ctx, userID, provider); err != nil {
		return err
	}
	s.logger.Info("third-party identity unbound",
		slog.String("user_id", userID.String()),
		slog.String("provider", provider))
	return nil
}

// VerificationStatus summarizes a user's contact verification state.
type VerificationStatus struct {
	Verified bool    `json:"verified"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// GetVerificationStatus returns the contact-verification summary.
func (s *Service) GetVerificationStatus(ctx context.Context, userID uuid.UUID) (*VerificationStatus, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &VerificationStatus{
		Verified: user.Verified,
		Email:    user.Email,
		Phone:    user.Phone,
	}, nil
}

// AccountStatus summarizes a user's security posture.
type AccountStatus struct {
	Active      bool       `json:"active"`
	Locked      bool       `json:"locked"`
	LockedUntil *time.Time `json:"locked_until,omitempty"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

// GetAccountStatus returns the lock and last-login summary.
func (s *Service) GetAccountStatus(ctx context.Context, userID uuid.UUID) (*AccountStatus, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	locked, until, err := s.lockout.CheckLock(ctx, userID)
	if err != nil {
		return nil, err
	}
	lastLogin, err := s.lockout.LastLogin(ctx, userIdentifiers(user))
	if err != nil {
		return nil, err
	}
	return &AccountStatus{
		Active:      user.Active,
		Locked:      locked,
		LockedUntil: until,
		LastLogin:   lastLogin,
	}, nil
}

// Sessions returns the user's live sessions for display.
func (s *Service) Sessions(ctx context.Context, userID uuid.UUID) ([]*domain.UserSession, error) {
	return s.sessions.List(ctx, userID)
}
