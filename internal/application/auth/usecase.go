package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/width"

	"github.com/jhoicas/ascensores-api/internal/application/dto"
	"github.com/jhoicas/ascensores-api/internal/application/session"
	"github.com/jhoicas/ascensores-api/internal/domain"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
	"github.com/jhoicas/ascensores-api/pkg/jwt"
	"github.com/jhoicas/ascensores-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// joinCodeLength largo de los códigos de unión emitidos.
const joinCodeLength = 8

// AuthUseCase casos de uso de identidad: registro, login, sesión, cambio de empresa
// y alta por código de unión.
type AuthUseCase struct {
	store    repository.Store
	tx       repository.TxRunner
	sessions *session.Service
	notifier *Notifier
	jwtCfg   JWTConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. Los cierres de sesión publicados
// en notifier borran la preferencia de empresa activa del cliente.
func NewAuthUseCase(store repository.Store, tx repository.TxRunner, sessions *session.Service, notifier *Notifier, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if notifier == nil {
		notifier = NewNotifier()
	}
	uc := &AuthUseCase{
		store:    store,
		tx:       tx,
		sessions: sessions,
		notifier: notifier,
		jwtCfg:   jwtCfg,
		log:      log.Component("auth"),
		now:      time.Now,
	}
	notifier.Subscribe(uc.clearPreferenceOnSignOut)
	return uc
}

// Notifier expone el flujo de eventos de autenticación.
func (uc *AuthUseCase) Notifier() *Notifier {
	return uc.notifier
}

// SignUp crea una identidad: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya está registrado.
func (uc *AuthUseCase) SignUp(ctx context.Context, in dto.SignUpRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(in.Email)
	existing, err := uc.store.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		CreatedAt:    uc.now(),
	}
	if err := uc.store.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	out := dto.FromUser(u)
	return &out, nil
}

// SignIn valida credenciales, resuelve la sesión y devuelve el token.
func (uc *AuthUseCase) SignIn(ctx context.Context, in dto.SignInRequest, clientID string) (*dto.SessionResponse, error) {
	u, err := uc.store.Users.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	sess := uc.sessions.Resolve(ctx, u.ID, clientID)
	out, err := uc.respond(u, sess, clientID)
	if err != nil {
		return nil, err
	}
	uc.notifier.Publish(Event{Type: EventSignedIn, UserID: u.ID, ClientID: clientID, CompanyID: sess.ActiveCompanyID})
	return out, nil
}

// SignOut revoca el token presentado hasta su vencimiento y publica el cierre;
// la preferencia de empresa del cliente se borra.
func (uc *AuthUseCase) SignOut(ctx context.Context, userID, clientID, tokenID string, expiresAt time.Time) error {
	if err := uc.sessions.Revoke(ctx, tokenID, expiresAt); err != nil {
		return fmt.Errorf("revocar token: %w", err)
	}
	uc.notifier.Publish(Event{Type: EventSignedOut, UserID: userID, ClientID: clientID})
	return nil
}

// Session vuelve a resolver la sesión actual y emite un token fresco.
func (uc *AuthUseCase) Session(ctx context.Context, userID, clientID string) (*dto.SessionResponse, error) {
	u, err := uc.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.respond(u, uc.sessions.Resolve(ctx, userID, clientID), clientID)
}

// SwitchCompany cambia la empresa activa entre las membresías de la identidad.
func (uc *AuthUseCase) SwitchCompany(ctx context.Context, userID, clientID, companyID string) (*dto.SessionResponse, error) {
	u, err := uc.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	sess, err := uc.sessions.Switch(ctx, userID, clientID, companyID)
	if err != nil {
		return nil, err
	}
	out, err := uc.respond(u, sess, clientID)
	if err != nil {
		return nil, err
	}
	uc.notifier.Publish(Event{Type: EventCompanySwitch, UserID: userID, ClientID: clientID, CompanyID: companyID})
	return out, nil
}

// CreateCompany crea una empresa y deja a la identidad como oficina de ella, activa.
// Los ingenieros no pueden tener membresías de empresa.
func (uc *AuthUseCase) CreateCompany(ctx context.Context, userID, clientID string, in dto.CreateCompanyRequest) (*dto.SessionResponse, error) {
	u, err := uc.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	if eng, err := uc.store.Engineers.GetByUserID(ctx, userID); err != nil {
		return nil, err
	} else if eng != nil {
		return nil, domain.ErrAlreadyEngineer
	}

	now := uc.now()
	company := &entity.Company{ID: uuid.New().String(), Name: strings.TrimSpace(in.Name), CreatedAt: now}
	err = uc.tx.Run(ctx, func(tx repository.Store) error {
		if err := tx.Companies.Create(ctx, company); err != nil {
			return err
		}
		return tx.Memberships.Create(ctx, &entity.CompanyMembership{
			ID:        uuid.New().String(),
			UserID:    userID,
			CompanyID: company.ID,
			Role:      entity.RoleOffice,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", company.ID).Str("user_id", userID).Msg("empresa creada")

	sess, err := uc.sessions.Switch(ctx, userID, clientID, company.ID)
	if err != nil {
		return nil, err
	}
	uc.notifier.Publish(Event{Type: EventCompanyCreated, UserID: userID, ClientID: clientID, CompanyID: company.ID})
	return uc.respond(u, sess, clientID)
}

// CreateJoinCode emite un código de unión para la empresa. ExpiresInHours 0 = sin vencimiento.
func (uc *AuthUseCase) CreateJoinCode(ctx context.Context, companyID string, in dto.CreateJoinCodeRequest) (*dto.JoinCodeResponse, error) {
	switch in.Role {
	case entity.RoleOffice, entity.RoleTechnician, entity.RoleEngineer:
	default:
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	j := &entity.JoinCode{Code: newJoinCode(), CompanyID: companyID, Role: in.Role, CreatedAt: now}
	if in.ExpiresInHours > 0 {
		exp := now.Add(time.Duration(in.ExpiresInHours) * time.Hour)
		j.ExpiresAt = &exp
	}
	if err := uc.store.JoinCodes.Create(ctx, j); err != nil {
		return nil, err
	}
	out := dto.FromJoinCode(j)
	return &out, nil
}

// Join canjea un código de unión: crea la membresía (o el vínculo de ingeniero)
// y deja esa empresa como activa.
func (uc *AuthUseCase) Join(ctx context.Context, userID, clientID string, in dto.JoinRequest) (*dto.SessionResponse, error) {
	u, err := uc.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	j, err := uc.store.JoinCodes.Get(ctx, NormalizeJoinCode(in.Code))
	if err != nil {
		return nil, err
	}
	if j == nil || j.Expired(uc.now()) {
		return nil, domain.ErrInvalidJoinCode
	}

	eng, err := uc.store.Engineers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	switch {
	case j.Role == entity.RoleEngineer:
		if eng == nil {
			return nil, domain.ErrForbidden
		}
		if err := uc.store.Engineers.AddCompany(ctx, eng.ID, j.CompanyID); err != nil {
			return nil, err
		}
	case eng != nil:
		// Un ingeniero no puede tener membresías de oficina o técnico.
		return nil, domain.ErrAlreadyEngineer
	default:
		err := uc.store.Memberships.Create(ctx, &entity.CompanyMembership{
			ID:        uuid.New().String(),
			UserID:    userID,
			CompanyID: j.CompanyID,
			Role:      j.Role,
			CreatedAt: uc.now(),
		})
		if err != nil && !errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
	}

	sess, err := uc.sessions.Switch(ctx, userID, clientID, j.CompanyID)
	if err != nil {
		return nil, err
	}
	uc.notifier.Publish(Event{Type: EventCompanyJoined, UserID: userID, ClientID: clientID, CompanyID: j.CompanyID})
	return uc.respond(u, sess, clientID)
}

// CreateEngineerProfile da de alta el perfil de ingeniero de la identidad.
// Rechaza identidades que ya pertenecen a una empresa como oficina o técnico.
func (uc *AuthUseCase) CreateEngineerProfile(ctx context.Context, userID, clientID string, in dto.CreateEngineerRequest) (*dto.SessionResponse, error) {
	u, err := uc.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	memberships, err := uc.store.Memberships.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(memberships) > 0 {
		return nil, domain.ErrConflict
	}
	e := &entity.Engineer{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      strings.TrimSpace(in.Name),
		Contact:   strings.TrimSpace(in.Contact),
		CreatedAt: uc.now(),
	}
	if err := uc.store.Engineers.Create(ctx, e); err != nil {
		return nil, err
	}
	return uc.respond(u, uc.sessions.Resolve(ctx, userID, clientID), clientID)
}

// LeaveCompany desvincula al ingeniero de una empresa.
func (uc *AuthUseCase) LeaveCompany(ctx context.Context, userID, clientID, companyID string) (*dto.SessionResponse, error) {
	u, err := uc.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	eng, err := uc.store.Engineers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if eng == nil {
		return nil, domain.ErrForbidden
	}
	removed, err := uc.store.Engineers.RemoveCompany(ctx, eng.ID, companyID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, domain.ErrNotFound
	}
	return uc.respond(u, uc.sessions.Resolve(ctx, userID, clientID), clientID)
}

func (uc *AuthUseCase) user(ctx context.Context, userID string) (*entity.User, error) {
	u, err := uc.store.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUnauthorized
	}
	return u, nil
}

// respond firma el token con la sesión resuelta.
func (uc *AuthUseCase) respond(u *entity.User, sess *session.Session, clientID string) (*dto.SessionResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes, jwt.Session{
		UserID:     u.ID,
		CompanyID:  sess.ActiveCompanyID,
		Role:       sess.Role,
		ClientID:   clientID,
		EngineerID: sess.EngineerID,
	})
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	memberships := make([]dto.MembershipResponse, 0, len(sess.Memberships))
	for _, m := range sess.Memberships {
		memberships = append(memberships, dto.MembershipResponse{CompanyID: m.CompanyID, CompanyName: m.CompanyName, Role: m.Role})
	}
	return &dto.SessionResponse{
		Token:           token,
		User:            dto.FromUser(u),
		Role:            sess.Role,
		ActiveCompanyID: sess.ActiveCompanyID,
		EngineerID:      sess.EngineerID,
		Memberships:     memberships,
	}, nil
}

func (uc *AuthUseCase) clearPreferenceOnSignOut(e Event) {
	if e.Type != EventSignedOut || e.ClientID == "" {
		return
	}
	if err := uc.sessions.SignOut(context.Background(), e.ClientID); err != nil {
		uc.log.Warn().Err(err).Str("client_id", e.ClientID).Msg("borrar empresa activa")
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeJoinCode pasa a mayúsculas, pliega caracteres de ancho completo y quita espacios y guiones.
func NormalizeJoinCode(s string) string {
	s = strings.ToUpper(width.Fold.String(s))
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '\t' {
			return -1
		}
		return r
	}, s)
}

func newJoinCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:joinCodeLength])
}
