// Package session resuelve el contexto de tenant de una identidad: faceta
// (oficina, técnico o ingeniero), empresas a las que pertenece y empresa activa.
package session

import (
	"context"
	"time"

	"github.com/jhoicas/ascensores-api/internal/domain"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/repository"
	"github.com/jhoicas/ascensores-api/pkg/logger"
)

// PreferenceStore persiste la empresa activa elegida por cada cliente (navegador).
type PreferenceStore interface {
	Get(ctx context.Context, clientID string) (string, error)
	Set(ctx context.Context, clientID, companyID string) error
	Clear(ctx context.Context, clientID string) error
}

// Revocations tokens dados de baja antes de vencer (cierre de sesión).
type Revocations interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	Revoked(ctx context.Context, tokenID string) (bool, error)
}

// Membership empresa accesible por la identidad con la faceta que le corresponde.
type Membership struct {
	CompanyID   string
	CompanyName string
	Role        string
}

// Session contexto resuelto. Role vacío = identidad sin empresa: las rutas de tenant quedan bloqueadas.
type Session struct {
	UserID          string
	Role            string
	EngineerID      string
	Memberships     []Membership
	ActiveCompanyID string
}

// Blocked informa si la sesión no tiene contexto de empresa.
func (s *Session) Blocked() bool {
	return s.Role == "" || s.ActiveCompanyID == ""
}

// Member busca la membresía de companyID.
func (s *Session) Member(companyID string) (Membership, bool) {
	for _, m := range s.Memberships {
		if m.CompanyID == companyID {
			return m, true
		}
	}
	return Membership{}, false
}

// Service resuelve y cambia el contexto de sesión.
type Service struct {
	engineers   repository.EngineerRepository
	memberships repository.MembershipRepository
	prefs       PreferenceStore
	revoked     Revocations
	log         *logger.Logger
}

// NewService construye el servicio de sesión.
func NewService(store repository.Store, prefs PreferenceStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		engineers:   store.Engineers,
		memberships: store.Memberships,
		prefs:       prefs,
		revoked:     NewMemoryRevocations(),
		log:         log.Component("session"),
	}
}

// UseRevocations reemplaza el registro de tokens revocados (Redis con varias réplicas).
func (s *Service) UseRevocations(r Revocations) {
	if r != nil {
		s.revoked = r
	}
}

// Resolve arma la sesión de userID. Prioridad: perfil de ingeniero (sus empresas
// vinculadas), luego membresías de empresa, luego ninguna. Los errores de lectura
// se registran y se tratan como "sin membresías".
func (s *Service) Resolve(ctx context.Context, userID, clientID string) *Session {
	sess := &Session{UserID: userID}

	if eng := s.engineer(ctx, userID); eng != nil {
		sess.EngineerID = eng.ID
		sess.Role = entity.RoleEngineer
		companies, err := s.engineers.ListCompanies(ctx, eng.ID)
		if err != nil {
			s.log.Error().Err(err).Str("user_id", userID).Msg("listar empresas del ingeniero")
		}
		for _, c := range companies {
			sess.Memberships = append(sess.Memberships, Membership{
				CompanyID: c.CompanyID, CompanyName: c.CompanyName, Role: entity.RoleEngineer,
			})
		}
	} else {
		list, err := s.memberships.ListByUser(ctx, userID)
		if err != nil {
			s.log.Error().Err(err).Str("user_id", userID).Msg("listar membresías")
		}
		for _, m := range list {
			sess.Memberships = append(sess.Memberships, Membership{
				CompanyID: m.CompanyID, CompanyName: m.CompanyName, Role: m.Role,
			})
		}
	}

	if len(sess.Memberships) == 0 {
		// Un ingeniero sin empresas conserva la faceta pero sin tenant activo.
		if sess.EngineerID == "" {
			sess.Role = ""
		}
		return sess
	}

	active := s.preferred(ctx, clientID, sess)
	sess.ActiveCompanyID = active.CompanyID
	sess.Role = active.Role
	return sess
}

// Switch cambia la empresa activa. Solo valida contra las membresías actuales
// y persiste la preferencia: no escribe nada más.
func (s *Service) Switch(ctx context.Context, userID, clientID, companyID string) (*Session, error) {
	sess := s.Resolve(ctx, userID, clientID)
	m, ok := sess.Member(companyID)
	if !ok {
		return nil, domain.ErrNotAMember
	}
	if clientID != "" {
		if err := s.prefs.Set(ctx, clientID, companyID); err != nil {
			s.log.Warn().Err(err).Str("client_id", clientID).Msg("guardar empresa activa")
		}
	}
	sess.ActiveCompanyID = m.CompanyID
	sess.Role = m.Role
	return sess, nil
}

// SignOut borra la preferencia de empresa activa del cliente.
func (s *Service) SignOut(ctx context.Context, clientID string) error {
	if clientID == "" {
		return nil
	}
	return s.prefs.Clear(ctx, clientID)
}

// Revoke da de baja el token hasta su vencimiento.
func (s *Service) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if tokenID == "" || !until.After(time.Now()) {
		return nil
	}
	return s.revoked.Revoke(ctx, tokenID, until)
}

// Revoked informa si el token fue dado de baja. Un error de lectura se registra
// y el token se acepta.
func (s *Service) Revoked(ctx context.Context, tokenID string) bool {
	if tokenID == "" {
		return false
	}
	revoked, err := s.revoked.Revoked(ctx, tokenID)
	if err != nil {
		s.log.Warn().Err(err).Msg("leer tokens revocados")
		return false
	}
	return revoked
}

// Authorize confirma contra la base que userID sigue perteneciendo a companyID
// con la faceta role. El token puede ser anterior a una baja o desvinculación.
func (s *Service) Authorize(ctx context.Context, userID, companyID, role string) error {
	if role == entity.RoleEngineer {
		eng, err := s.engineers.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if eng == nil {
			return domain.ErrNotAMember
		}
		companies, err := s.engineers.ListCompanies(ctx, eng.ID)
		if err != nil {
			return err
		}
		for _, c := range companies {
			if c.CompanyID == companyID {
				return nil
			}
		}
		return domain.ErrNotAMember
	}
	list, err := s.memberships.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, m := range list {
		if m.CompanyID == companyID && m.Role == role {
			return nil
		}
	}
	return domain.ErrNotAMember
}

func (s *Service) engineer(ctx context.Context, userID string) *entity.Engineer {
	eng, err := s.engineers.GetByUserID(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("buscar perfil de ingeniero")
		return nil
	}
	return eng
}

// preferred devuelve la membresía guardada para el cliente si sigue vigente;
// si no, la primera, y la deja persistida.
func (s *Service) preferred(ctx context.Context, clientID string, sess *Session) Membership {
	if clientID == "" {
		return sess.Memberships[0]
	}
	saved, err := s.prefs.Get(ctx, clientID)
	if err != nil {
		s.log.Warn().Err(err).Str("client_id", clientID).Msg("leer empresa activa")
	}
	if m, ok := sess.Member(saved); ok && saved != "" {
		return m
	}
	first := sess.Memberships[0]
	if err := s.prefs.Set(ctx, clientID, first.CompanyID); err != nil {
		s.log.Warn().Err(err).Str("client_id", clientID).Msg("guardar empresa activa")
	}
	return first
}
