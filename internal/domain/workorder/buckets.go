package workorder

import (
	"time"

	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/pkg/daykey"
)

// Buckets clasificación derivada para el tablero. Se recalcula en cada lectura y
// nunca se persiste. Backlog y DueToday se solapan: una orden de hoy sin técnico
// aparece en ambos.
type Buckets struct {
	DueToday       []*entity.WorkOrder
	Backlog        []*entity.WorkOrder
	Unassigned     []*entity.WorkOrder
	InProgress     []*entity.WorkOrder
	CompletedToday []*entity.WorkOrder
	Completed      []*entity.WorkOrder
}

// Bucket nombres estables (se usan como filtro en la API).
const (
	BucketDueToday       = "dueToday"
	BucketBacklog        = "backlog"
	BucketUnassigned     = "unassigned"
	BucketInProgress     = "inProgress"
	BucketCompletedToday = "completedToday"
	BucketCompleted      = "completed"
)

// Classify reparte las órdenes en baldes usando el día calendario de loc.
func Classify(orders []*entity.WorkOrder, now time.Time, loc *time.Location) Buckets {
	today := daykey.Key(now, loc)
	var b Buckets
	for _, o := range orders {
		switch o.Status {
		case entity.StatusPending:
			dueToday := o.DateTime != nil && daykey.Key(*o.DateTime, loc) == today
			if dueToday {
				b.DueToday = append(b.DueToday, o)
			}
			if !dueToday || o.TechnicianID == nil {
				b.Backlog = append(b.Backlog, o)
			}
			if o.TechnicianID == nil {
				b.Unassigned = append(b.Unassigned, o)
			}
		case entity.StatusInProgress:
			b.InProgress = append(b.InProgress, o)
		case entity.StatusCompleted:
			b.Completed = append(b.Completed, o)
			if o.FinishTime != nil && daykey.Key(*o.FinishTime, loc) == today {
				b.CompletedToday = append(b.CompletedToday, o)
			}
		}
	}
	return b
}

// Get devuelve el balde por nombre; ok=false si el nombre no existe.
func (b Buckets) Get(name string) (orders []*entity.WorkOrder, ok bool) {
	switch name {
	case BucketDueToday:
		return b.DueToday, true
	case BucketBacklog:
		return b.Backlog, true
	case BucketUnassigned:
		return b.Unassigned, true
	case BucketInProgress:
		return b.InProgress, true
	case BucketCompletedToday:
		return b.CompletedToday, true
	case BucketCompleted:
		return b.Completed, true
	}
	return nil, false
}

// Counts cantidades por balde.
func (b Buckets) Counts() map[string]int {
	return map[string]int{
		BucketDueToday:       len(b.DueToday),
		BucketBacklog:        len(b.Backlog),
		BucketUnassigned:     len(b.Unassigned),
		BucketInProgress:     len(b.InProgress),
		BucketCompletedToday: len(b.CompletedToday),
		BucketCompleted:      len(b.Completed),
	}
}
