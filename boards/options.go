package boards

import (
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

type WriterOption func(*Writer)
type ServiceOption func(*Service)

// WithMaxWriteRate limits the writer to perSecond mutations. Zero or less
// means unlimited.
func WithMaxWriteRate(perSecond int) WriterOption {
	return func(w *Writer) {
		if perSecond <= 0 {
			w.limiter = ratelimit.NewUnlimited()
			return
		}
		w.limiter = ratelimit.New(perSecond, ratelimit.WithoutSlack)
	}
}

func WithWriterLogger(logger *log.Logger) WriterOption {
	return func(w *Writer) {
		w.logger = logger
	}
}

// WithClock sets the time source used for sticker ids.
func WithClock(now func() time.Time) ServiceOption {
	return func(svc *Service) {
		svc.ids = NewIDGenerator(now)
	}
}
