package entity

import "time"

// Engineer perfil de ingeniero. No tiene CompanyMembership: se vincula a empresas
// mediante EngineerCompanyMembership (alta por código de unión, puede irse luego).
type Engineer struct {
	ID        string
	UserID    string
	Name      string
	Contact   string
	CreatedAt time.Time
}

// EngineerCompanyMembership relación muchos-a-muchos ingeniero ↔ empresa.
type EngineerCompanyMembership struct {
	EngineerID  string
	CompanyID   string
	CompanyName string
	CreatedAt   time.Time
}

// EngineerReport informe de inspección. Se crea sin leer y solo cambia isRead.
type EngineerReport struct {
	ID           string
	CompanyID    string
	EngineerID   string
	EngineerName string // denormalizado en lecturas
	Address      string
	Comments     *string
	IsRead       bool
	CreatedAt    time.Time
}
