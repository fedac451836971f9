// Package daykey calcula claves de día calendario (YYYY-MM-DD) en una zona horaria fija,
// independiente de la zona local del proceso o del cliente.
package daykey

import (
	"sync"
	"time"
	_ "time/tzdata" // la imagen de producción no siempre trae /usr/share/zoneinfo
)

// BuenosAires es la zona de referencia para "hoy" en tableros y remitos.
const BuenosAires = "America/Argentina/Buenos_Aires"

const layout = "2006-01-02"

var (
	baOnce sync.Once
	baLoc  *time.Location
)

// Location carga la zona por nombre. Si falla, Buenos Aires cae a UTC-3 fijo
// (Argentina no aplica horario de verano desde 2009).
func Location(name string) *time.Location {
	if name == "" {
		name = BuenosAires
	}
	if name == BuenosAires {
		baOnce.Do(func() {
			loc, err := time.LoadLocation(BuenosAires)
			if err != nil {
				loc = time.FixedZone("ART", -3*60*60)
			}
			baLoc = loc
		})
		return baLoc
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Location(BuenosAires)
	}
	return loc
}

// Key devuelve la clave de día de t en loc.
func Key(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(layout)
}

// SameDay informa si a y b caen el mismo día calendario en loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return Key(a, loc) == Key(b, loc)
}

// StartOfDay devuelve las 00:00 del día de t en loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// FormatDate formatea t como dd/mm/aaaa en loc (formato de remito).
func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("02/01/2006")
}
