package tracker

import (
	"time"

	"github.com/appusage/appusage/internal/models"
)

// Recorder persists one finished focus session. The session has already been
// closed in memory when Record is called, so an error only means the interval
// is lost.
type Recorder interface {
	Record(app string, end time.Time, duration time.Duration) error
}

// Store is the slice of the repository the tracker writes to.
type Store interface {
	AppendInterval(usage *models.AppUsage) error
	CreateErrorLog(errorLog *models.ErrorLog) error
}

// StoreRecorder writes sessions as app_usage rows.
type StoreRecorder struct {
	store Store
}

func NewStoreRecorder(store Store) *StoreRecorder {
	return &StoreRecorder{store: store}
}

func (r *StoreRecorder) Record(app string, end time.Time, duration time.Duration) error {
	return r.store.AppendInterval(models.NewAppUsage(app, end, duration))
}
