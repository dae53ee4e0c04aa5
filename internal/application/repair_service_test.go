package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/jsonkraft/internal/application"
	"github.com/openkraft/jsonkraft/internal/domain"
	"github.com/openkraft/jsonkraft/internal/domain/repair"
)

const hopeless = "not json at all"

func repairConfig() domain.RepairConfig {
	cfg := domain.DefaultConfig().Repair
	cfg.Timeout = time.Second
	return cfg
}

func TestRepairService_LocalSuccessSkipsAI(t *testing.T) {
	ai := &fakeAI{reply: `{}`}
	svc := application.NewRepairService(repairConfig(), ai, nil)

	r, err := svc.Repair(context.Background(), `{"a":1,}`, true)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, r.Text)
	assert.Equal(t, []string{"Removed trailing commas"}, r.RulesApplied)
	assert.False(t, r.UsedFallback)
	assert.Equal(t, 0, ai.calls)
}

func TestRepairService_FallbackUsedWhenLocalFails(t *testing.T) {
	ai := &fakeAI{reply: `{"text":"not json at all"}`}
	svc := application.NewRepairService(repairConfig(), ai, nil)

	r, err := svc.Repair(context.Background(), hopeless, true)
	require.NoError(t, err)
	assert.True(t, r.Succeeded)
	assert.True(t, r.UsedFallback)
	assert.Equal(t, `{"text":"not json at all"}`, r.Text)
	assert.Equal(t, hopeless, ai.got, "the fallback sees the original text")
}

func TestRepairService_FallbackDropsLocalRules(t *testing.T) {
	in := `{"a": 1,} not json at all`
	local := repair.New().Repair(in)
	require.False(t, local.Succeeded)
	require.NotEmpty(t, local.RulesApplied)

	ai := &fakeAI{reply: `{"a":1}`}
	r, err := application.NewRepairService(repairConfig(), ai, nil).Repair(context.Background(), in, true)
	require.NoError(t, err)
	assert.True(t, r.UsedFallback)
	assert.Equal(t, `{"a":1}`, r.Text)
	assert.Empty(t, r.RulesApplied, "the fallback text owes nothing to local rules")
	assert.Equal(t, in, ai.got)
}

func TestRepairService_FallbackErrorIsRecoverable(t *testing.T) {
	ai := &fakeAI{err: errors.New("503")}
	svc := application.NewRepairService(repairConfig(), ai, nil)

	r, err := svc.Repair(context.Background(), hopeless, true)
	assert.ErrorIs(t, err, domain.ErrRepairUnavailable)
	assert.False(t, r.Succeeded)
	assert.False(t, r.UsedFallback)
	assert.NotEmpty(t, r.Text, "the local best effort is returned")
}

func TestRepairService_FallbackInvalidOutput(t *testing.T) {
	ai := &fakeAI{reply: `{still broken`}
	svc := application.NewRepairService(repairConfig(), ai, nil)

	_, err := svc.Repair(context.Background(), hopeless, true)
	assert.ErrorIs(t, err, domain.ErrRepairUnavailable)
}

func TestRepairService_NoAI(t *testing.T) {
	svc := application.NewRepairService(repairConfig(), nil, nil)
	_, err := svc.Repair(context.Background(), hopeless, true)
	assert.ErrorIs(t, err, domain.ErrRepairUnavailable)

	ai := &fakeAI{reply: `{}`}
	svc = application.NewRepairService(repairConfig(), ai, nil)
	_, err = svc.Repair(context.Background(), hopeless, false)
	assert.ErrorIs(t, err, domain.ErrRepairUnavailable)
	assert.Equal(t, 0, ai.calls)

	cfg := repairConfig()
	cfg.AI = false
	svc = application.NewRepairService(cfg, ai, nil)
	_, err = svc.Repair(context.Background(), hopeless, true)
	assert.ErrorIs(t, err, domain.ErrRepairUnavailable)
	assert.Equal(t, 0, ai.calls)
}

func TestRepairService_RateLimited(t *testing.T) {
	cfg := repairConfig()
	cfg.RateLimit = 2
	cfg.RateWindow = time.Hour
	ai := &fakeAI{reply: `{}`}
	svc := application.NewRepairService(cfg, ai, nil)

	for i := 0; i < 2; i++ {
		_, err := svc.Repair(context.Background(), hopeless, true)
		require.NoError(t, err)
	}
	r, err := svc.Repair(context.Background(), hopeless, true)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.ErrorIs(t, err, domain.ErrRepairUnavailable)
	assert.False(t, r.Succeeded)
	assert.Equal(t, 2, ai.calls)
}

func TestRepairService_Idempotent(t *testing.T) {
	svc := application.NewRepairService(repairConfig(), nil, nil)
	first, err := svc.Repair(context.Background(), `{a: 'x', b: [1,2,],}`, false)
	require.NoError(t, err)
	require.True(t, first.Succeeded)

	second, err := svc.Repair(context.Background(), first.Text, false)
	require.NoError(t, err)
	assert.Equal(t, first.Text, second.Text)
	assert.Empty(t, second.RulesApplied)
}
