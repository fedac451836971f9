package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ascensores-api/internal/application/auth"
	"github.com/jhoicas/ascensores-api/internal/application/dto"
	"github.com/jhoicas/ascensores-api/internal/application/session"
	"github.com/jhoicas/ascensores-api/internal/domain"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/infrastructure/memory"
	"github.com/jhoicas/ascensores-api/pkg/jwt"
)

const secret = "test-secret"

type fixture struct {
	uc       *auth.AuthUseCase
	prefs    *session.MemoryPreferences
	sessions *session.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := memory.NewStore()
	store := mem.Repositories()
	prefs := session.NewMemoryPreferences()
	sessions := session.NewService(store, prefs, nil)
	uc := auth.NewAuthUseCase(store, mem, sessions, auth.NewNotifier(), auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "test"}, nil)
	return &fixture{uc: uc, prefs: prefs, sessions: sessions}
}

func (f *fixture) signUp(t *testing.T, email string) string {
	t.Helper()
	u, err := f.uc.SignUp(context.Background(), dto.SignUpRequest{Email: email, Password: "secreto123", Name: "Ana"})
	require.NoError(t, err)
	return u.ID
}

func TestSignUp_EmailDuplicado(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, "ana@example.com")

	_, err := f.uc.SignUp(context.Background(), dto.SignUpRequest{Email: " ANA@example.com ", Password: "otraclave1", Name: "Ana"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestSignIn_CredencialesInvalidas(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, "ana@example.com")

	_, err := f.uc.SignIn(context.Background(), dto.SignInRequest{Email: "ana@example.com", Password: "mal"}, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.uc.SignIn(context.Background(), dto.SignInRequest{Email: "nadie@example.com", Password: "x"}, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSignIn_SinEmpresa_TokenSinContexto(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, "ana@example.com")

	out, err := f.uc.SignIn(context.Background(), dto.SignInRequest{Email: "ana@example.com", Password: "secreto123"}, "c-1")
	require.NoError(t, err)
	assert.Empty(t, out.Role)
	assert.Empty(t, out.ActiveCompanyID)

	claims, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Empty(t, claims.CompanyID)
	assert.Equal(t, "c-1", claims.ClientID)
}

func TestCreateCompany_QuedaComoOficinaActiva(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.signUp(t, "ana@example.com")

	out, err := f.uc.CreateCompany(ctx, uid, "client-1", dto.CreateCompanyRequest{Name: "Ascensores Norte"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleOffice, out.Role)
	require.Len(t, out.Memberships, 1)
	assert.Equal(t, out.Memberships[0].CompanyID, out.ActiveCompanyID)
	assert.Equal(t, "Ascensores Norte", out.Memberships[0].CompanyName)

	claims, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.ActiveCompanyID, claims.CompanyID)
	assert.Equal(t, entity.RoleOffice, claims.Role)
}

func TestJoin_CodigoTecnico(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.signUp(t, "owner@example.com")
	company, err := f.uc.CreateCompany(ctx, owner, "", dto.CreateCompanyRequest{Name: "Norte"})
	require.NoError(t, err)
	code, err := f.uc.CreateJoinCode(ctx, company.ActiveCompanyID, dto.CreateJoinCodeRequest{Role: entity.RoleTechnician})
	require.NoError(t, err)

	tech := f.signUp(t, "tec@example.com")
	// Se acepta el código en minúsculas y con guiones.
	input := strings.ToLower(code.Code[:4] + "-" + code.Code[4:])
	out, err := f.uc.Join(ctx, tech, "client-t", dto.JoinRequest{Code: " " + input + " "})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleTechnician, out.Role)
	assert.Equal(t, company.ActiveCompanyID, out.ActiveCompanyID)
}

func TestJoin_CodigoInexistenteOVencido(t *testing.T) {
	f := newFixture(t)
	uid := f.signUp(t, "ana@example.com")

	_, err := f.uc.Join(context.Background(), uid, "", dto.JoinRequest{Code: "NOEXISTE"})
	assert.ErrorIs(t, err, domain.ErrInvalidJoinCode)
}

func TestIngeniero_UnionYSalida(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.signUp(t, "owner@example.com")
	company, err := f.uc.CreateCompany(ctx, owner, "", dto.CreateCompanyRequest{Name: "Norte"})
	require.NoError(t, err)
	code, err := f.uc.CreateJoinCode(ctx, company.ActiveCompanyID, dto.CreateJoinCodeRequest{Role: entity.RoleEngineer})
	require.NoError(t, err)

	engUser := f.signUp(t, "ing@example.com")
	out, err := f.uc.CreateEngineerProfile(ctx, engUser, "", dto.CreateEngineerRequest{Name: "Ing. Pérez"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleEngineer, out.Role)
	assert.Empty(t, out.ActiveCompanyID)

	out, err = f.uc.Join(ctx, engUser, "", dto.JoinRequest{Code: code.Code})
	require.NoError(t, err)
	assert.Equal(t, company.ActiveCompanyID, out.ActiveCompanyID)
	assert.Equal(t, entity.RoleEngineer, out.Role)

	// Un ingeniero no puede crear empresas ni ser oficina.
	_, err = f.uc.CreateCompany(ctx, engUser, "", dto.CreateCompanyRequest{Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrAlreadyEngineer)

	out, err = f.uc.LeaveCompany(ctx, engUser, "", company.ActiveCompanyID)
	require.NoError(t, err)
	assert.Empty(t, out.ActiveCompanyID)

	_, err = f.uc.LeaveCompany(ctx, engUser, "", company.ActiveCompanyID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSignOut_BorraPreferenciaYNotifica(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.signUp(t, "ana@example.com")
	_, err := f.uc.CreateCompany(ctx, uid, "client-1", dto.CreateCompanyRequest{Name: "Norte"})
	require.NoError(t, err)

	var events []auth.Event
	unsubscribe := f.uc.Notifier().Subscribe(func(e auth.Event) { events = append(events, e) })
	defer unsubscribe()

	require.NoError(t, f.uc.SignOut(ctx, uid, "client-1", "tok-1", time.Now().Add(time.Hour)))

	saved, _ := f.prefs.Get(ctx, "client-1")
	assert.Empty(t, saved)
	require.Len(t, events, 1)
	assert.Equal(t, auth.EventSignedOut, events[0].Type)
	assert.True(t, f.sessions.Revoked(ctx, "tok-1"))
}

func TestNormalizeJoinCode(t *testing.T) {
	assert.Equal(t, "AB12CD34", auth.NormalizeJoinCode(" ab12-cd34 "))
	// Ancho completo (teclados asiáticos) se pliega a ASCII.
	assert.Equal(t, "AB12", auth.NormalizeJoinCode("ＡＢ１２"))
}
