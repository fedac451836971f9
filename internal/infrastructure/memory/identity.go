package memory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/ascensores-api/internal/domain"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
)

// ── Usuarios ─────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.db.users.rows {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	c := *u
	put(r.s, r.s.db.users, c.ID, &c)
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.db.users.rows[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.db.users.rows {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

// ── Empresas y membresías ────────────────────────────────────────────────────

type companyRepo struct{ s *Store }

func (r *companyRepo) Create(_ context.Context, co *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.db.companies.rows[co.ID]; ok {
		return domain.ErrDuplicate
	}
	c := *co
	put(r.s, r.s.db.companies, c.ID, &c)
	return nil
}

func (r *companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	co, ok := r.s.db.companies.rows[id]
	if !ok {
		return nil, nil
	}
	c := *co
	return &c, nil
}

type membershipRepo struct{ s *Store }

func (r *membershipRepo) Create(_ context.Context, m *entity.CompanyMembership) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.db.memberships.rows {
		if existing.UserID == m.UserID && existing.CompanyID == m.CompanyID {
			return domain.ErrDuplicate
		}
	}
	c := *m
	c.CompanyName = ""
	put(r.s, r.s.db.memberships, c.ID, &c)
	return nil
}

func (r *membershipRepo) ListByUser(_ context.Context, userID string) ([]*entity.CompanyMembership, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := selectRows(r.s.db.memberships,
		func(m *entity.CompanyMembership) bool { return m.UserID == userID },
		func(m *entity.CompanyMembership) time.Time { return m.CreatedAt })
	out := make([]*entity.CompanyMembership, 0, len(rows))
	for _, m := range rows {
		c := *m
		if co, ok := r.s.db.companies.rows[c.CompanyID]; ok {
			c.CompanyName = co.Name
		}
		out = append(out, &c)
	}
	return out, nil
}

type joinCodeRepo struct{ s *Store }

func (r *joinCodeRepo) Create(_ context.Context, j *entity.JoinCode) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.db.joinCodes.rows[j.Code]; ok {
		return domain.ErrDuplicate
	}
	c := *j
	put(r.s, r.s.db.joinCodes, c.Code, &c)
	return nil
}

func (r *joinCodeRepo) Get(_ context.Context, code string) (*entity.JoinCode, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	j, ok := r.s.db.joinCodes.rows[code]
	if !ok {
		return nil, nil
	}
	c := *j
	return &c, nil
}

// ── Ingenieros ───────────────────────────────────────────────────────────────

type engineerRepo struct{ s *Store }

func engCompanyKey(engineerID, companyID string) string { return engineerID + "|" + companyID }

func (r *engineerRepo) Create(_ context.Context, e *entity.Engineer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.db.engineers.rows {
		if existing.UserID == e.UserID {
			return domain.ErrAlreadyEngineer
		}
	}
	c := *e
	put(r.s, r.s.db.engineers, c.ID, &c)
	return nil
}

func (r *engineerRepo) GetByID(_ context.Context, id string) (*entity.Engineer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.db.engineers.rows[id]
	if !ok {
		return nil, nil
	}
	c := *e
	return &c, nil
}

func (r *engineerRepo) GetByUserID(_ context.Context, userID string) (*entity.Engineer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, e := range r.s.db.engineers.rows {
		if e.UserID == userID {
			c := *e
			return &c, nil
		}
	}
	return nil, nil
}

func (r *engineerRepo) AddCompany(_ context.Context, engineerID, companyID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := engCompanyKey(engineerID, companyID)
	if _, ok := r.s.db.engCompany.rows[key]; ok {
		return nil
	}
	put(r.s, r.s.db.engCompany, key, &entity.EngineerCompanyMembership{
		EngineerID: engineerID,
		CompanyID:  companyID,
		CreatedAt:  r.s.now(),
	})
	return nil
}

func (r *engineerRepo) RemoveCompany(_ context.Context, engineerID, companyID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := engCompanyKey(engineerID, companyID)
	if _, ok := r.s.db.engCompany.rows[key]; !ok {
		return false, nil
	}
	delete(r.s.db.engCompany.rows, key)
	delete(r.s.db.engCompany.seq, key)
	return true, nil
}

func (r *engineerRepo) ListCompanies(_ context.Context, engineerID string) ([]*entity.EngineerCompanyMembership, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := selectRows(r.s.db.engCompany,
		func(m *entity.EngineerCompanyMembership) bool { return m.EngineerID == engineerID },
		func(m *entity.EngineerCompanyMembership) time.Time { return m.CreatedAt })
	out := make([]*entity.EngineerCompanyMembership, 0, len(rows))
	for _, m := range rows {
		c := *m
		if co, ok := r.s.db.companies.rows[c.CompanyID]; ok {
			c.CompanyName = co.Name
		}
		out = append(out, &c)
	}
	return out, nil
}

func (r *engineerRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Engineer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Engineer
	for _, m := range selectRows(r.s.db.engCompany,
		func(m *entity.EngineerCompanyMembership) bool { return m.CompanyID == companyID },
		func(m *entity.EngineerCompanyMembership) time.Time { return m.CreatedAt }) {
		if e, ok := r.s.db.engineers.rows[m.EngineerID]; ok {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}
