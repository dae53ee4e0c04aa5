package application

import (
	"context"
	"fmt"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/openkraft/jsonkraft/internal/domain"
	"github.com/openkraft/jsonkraft/internal/domain/repair"
)

// RepairService runs the local rule engine and, when that fails, the
// rate-limited AI fallback.
type RepairService struct {
	engine  *repair.Engine
	ai      domain.AIRepairer
	limiter *RateLimiter
	timeout time.Duration
	logger  *charmlog.Logger
}

func NewRepairService(cfg domain.RepairConfig, ai domain.AIRepairer, logger *charmlog.Logger) *RepairService {
	if logger == nil {
		logger = discardLogger()
	}
	if !cfg.AI {
		ai = nil
	}
	return &RepairService{
		engine:  repair.New(),
		ai:      ai,
		limiter: NewRateLimiter(cfg.RateLimit, cfg.RateWindow),
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// Repair always returns the best result it has. When local rules fail and
// the fallback cannot help, the error wraps domain.ErrRepairUnavailable
// and the result is the local attempt.
func (s *RepairService) Repair(ctx context.Context, text string, allowAI bool) (domain.RepairResult, error) {
	local := s.engine.Repair(text)
	for _, name := range local.RulesApplied {
		s.logger.Debug("repair rule applied", "rule", name)
	}
	if local.Succeeded {
		return local, nil
	}

	if s.ai == nil || !allowAI {
		return local, fmt.Errorf("%w: local rules could not fix the input and the AI fallback is disabled", domain.ErrRepairUnavailable)
	}
	if !s.limiter.Allow() {
		s.logger.Warn("AI repair rate limited")
		return local, fmt.Errorf("%w: %w", domain.ErrRepairUnavailable, domain.ErrRateLimited)
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	fixed, err := s.ai.Repair(callCtx, text)
	if err != nil {
		s.logger.Warn("AI repair failed", "err", err)
		return local, fmt.Errorf("%w: %w", domain.ErrRepairUnavailable, err)
	}
	if !domain.Valid(fixed) {
		s.logger.Warn("AI repair returned invalid JSON")
		return local, fmt.Errorf("%w: fallback returned invalid JSON", domain.ErrRepairUnavailable)
	}

	s.logger.Debug("AI repair succeeded", "discarded_rules", len(local.RulesApplied))
	return domain.RepairResult{
		Text:         fixed,
		RulesApplied: []string{},
		Succeeded:    true,
		UsedFallback: true,
	}, nil
}
