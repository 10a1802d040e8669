package health

import (
	"context"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Status is the health payload.
type Status struct {
	OK        bool     `json:"ok"`
	Database  string   `json:"database"`
	Providers []string `json:"providers"`
}

// Service encapsulates health-related checks.
type Service struct {
	DB        Pinger
	Providers func() []string
	Timeout   time.Duration
}

// NewService constructs a new health service. db may be nil when running on in-memory repositories.
func NewService(db Pinger, providers func() []string) *Service {
	return &Service{DB: db, Providers: providers, Timeout: 2 * time.Second}
}

// Status reports liveness plus database reachability.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true, Database: "memory", Providers: []string{}}
	if s.Providers != nil {
		st.Providers = s.Providers()
	}
	if s.DB == nil {
		return st
	}
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		st.OK = false
		st.Database = "unreachable"
		return st
	}
	st.Database = "ok"
	return st
}
