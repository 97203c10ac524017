package application

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vidtube-api/pkg/apperror"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

type HealthService struct {
	checks map[string]Check
	Logger logrus.FieldLogger
}

func NewHealthService(logger logrus.FieldLogger) *HealthService {
	return &HealthService{checks: map[string]Check{}, Logger: logger}
}

// Register adds a readiness probe under name.
func (s *HealthService) Register(name string, c Check) {
	s.checks[name] = c
}

// Ready runs every probe and reports each status. Any failure makes the
// result unavailable.
func (s *HealthService) Ready(ctx context.Context) (map[string]string, error) {
	names := make([]string, 0, len(s.checks))
	for n := range s.checks {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make(map[string]string, len(names))
	var failed error
	for _, n := range names {
		c, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := s.checks[n](c)
		cancel()
		if err != nil {
			s.Logger.WithError(err).WithField("dependency", n).Warn("readiness check failed")
			out[n] = "down"
			if failed == nil {
				failed = apperror.Unavailable(n+" is unavailable", err)
			}
			continue
		}
		out[n] = "up"
	}
	return out, failed
}
