package provider

import (
	"log/slog"

	"github.com/sony/gobreaker"

	"news-aggregator/internal/config"
	"news-aggregator/internal/repository"
	"news-aggregator/internal/resilience/circuitbreaker"
)

// Status describes one provider for the admin and health endpoints.
type Status struct {
	Name         string `json:"name"`
	Configured   bool   `json:"configured"`
	CircuitState string `json:"circuit_state,omitempty"`
}

// Registry owns the adapters whose API key is configured.
type Registry struct {
	sources []Source
	status  []Status
}

// NewRegistry builds the enabled adapters in the fixed order NewsAPI, GNews, Guardian, NYT.
func NewRegistry(cfg config.ProvidersConfig, logRepo repository.APILogRepository, logger *slog.Logger) *Registry {
	recorder := NewLogRecorder(logRepo, logger)
	r := &Registry{}
	for _, name := range config.ProviderNames {
		pc, _ := cfg.ByName(name)
		if !pc.Enabled() {
			r.status = append(r.status, Status{Name: name})
			continue
		}
		var src Source
		switch name {
		case config.ProviderNewsAPI:
			src = NewNewsAPI(*pc, recorder, logger)
		case config.ProviderGNews:
			src = NewGNews(*pc, recorder, logger)
		case config.ProviderGuardian:
			src = NewGuardian(*pc, recorder, logger)
		case config.ProviderNYT:
			src = NewNYT(*pc, recorder, logger)
		}
		r.sources = append(r.sources, src)
		r.status = append(r.status, Status{Name: name, Configured: true})
	}
	return r
}

// NewStaticRegistry wraps prebuilt sources, mainly for tests.
func NewStaticRegistry(sources ...Source) *Registry {
	r := &Registry{sources: sources}
	for _, s := range sources {
		r.status = append(r.status, Status{Name: s.Name(), Configured: true})
	}
	return r
}

// Sources returns the enabled adapters.
func (r *Registry) Sources() []Source {
	return r.sources
}

// Status reports every known provider, configured or not, with its breaker state.
func (r *Registry) Status() []Status {
	out := make([]Status, len(r.status))
	copy(out, r.status)
	for i := range out {
		if cb := r.breaker(out[i].Name); cb != nil {
			out[i].CircuitState = cb.State().String()
		}
	}
	return out
}

// Healthy reports whether no enabled provider has an open circuit.
func (r *Registry) Healthy() bool {
	for _, s := range r.sources {
		if cb := breakerOf(s); cb != nil && cb.State() == gobreaker.StateOpen {
			return false
		}
	}
	return true
}

func (r *Registry) breaker(name string) *circuitbreaker.CircuitBreaker {
	for _, s := range r.sources {
		if s.Name() == name {
			return breakerOf(s)
		}
	}
	return nil
}

func breakerOf(s Source) *circuitbreaker.CircuitBreaker {
	if b, ok := s.(interface {
		Breaker() *circuitbreaker.CircuitBreaker
	}); ok {
		return b.Breaker()
	}
	return nil
}
