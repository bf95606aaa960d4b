package doctor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/sheetmark/internal/core/config"
)

type fakeSweeper struct {
	ids      []string
	expired  int64
	listErr  error
	sweepErr error
	swept    bool
}

func (f *fakeSweeper) ListWorkbooks(context.Context) ([]string, error) {
	return f.ids, f.listErr
}

func (f *fakeSweeper) CountExpired(context.Context) (int64, error) {
	return f.expired, nil
}

func (f *fakeSweeper) SweepExpired(context.Context) (int64, error) {
	if f.sweepErr != nil {
		return 0, f.sweepErr
	}
	f.swept = true
	n := f.expired
	f.expired = 0
	return n, nil
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestRunAll_SetsStatusStrAndSummary(t *testing.T) {
	results := RunAll(context.Background(), []Check{
		NewCacheCheck(&fakeSweeper{ids: []string{"wb"}, expired: 2}, false),
		NewAPICheck("", nil),
	})

	require.Len(t, results, 2)
	assert.Equal(t, "pass", results[0].Items[0].StatusStr)
	assert.Equal(t, "warn", results[0].Items[1].StatusStr)

	passed, warned, failed := Summary(results)
	assert.Equal(t, 1, passed)
	assert.Equal(t, 2, warned)
	assert.Equal(t, 0, failed)
	assert.Equal(t, 1, CountFixable(results))
}

func TestCacheCheck_Disabled(t *testing.T) {
	result := NewCacheCheck(nil, false).Run(context.Background())
	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, "disabled", result.Items[0].Detail)
}

func TestCacheCheck_Autofix(t *testing.T) {
	sweeper := &fakeSweeper{expired: 3}
	result := NewCacheCheck(sweeper, true).Run(context.Background())

	require.Len(t, result.Items, 2)
	assert.True(t, sweeper.swept)
	assert.Equal(t, StatusPass, result.Items[1].Status)
	assert.Equal(t, "removed 3", result.Items[1].Detail)
}

func TestCacheCheck_SweepFails(t *testing.T) {
	sweeper := &fakeSweeper{expired: 1, sweepErr: errors.New("locked")}
	result := NewCacheCheck(sweeper, true).Run(context.Background())

	require.Len(t, result.Items, 2)
	assert.Equal(t, StatusFail, result.Items[1].Status)
	assert.Contains(t, result.Items[1].Detail, "locked")
}

func TestCacheCheck_DatabaseError(t *testing.T) {
	result := NewCacheCheck(&fakeSweeper{listErr: errors.New("disk I/O error")}, false).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusFail, result.Items[0].Status)
}

func TestAPICheck(t *testing.T) {
	ok := NewAPICheck("https://evidence.example.com", pingFunc(func(context.Context) error { return nil })).
		Run(context.Background())
	require.Len(t, ok.Items, 1)
	assert.Equal(t, StatusPass, ok.Items[0].Status)
	assert.Equal(t, "https://evidence.example.com", ok.Items[0].Label)

	down := NewAPICheck("https://evidence.example.com", pingFunc(func(context.Context) error {
		return errors.New("connection refused")
	})).Run(context.Background())
	require.Len(t, down.Items, 1)
	assert.Equal(t, StatusFail, down.Items[0].Status)
	assert.Equal(t, "connection refused", down.Items[0].Detail)
}

func TestAPICheck_AppliesTimeout(t *testing.T) {
	check := NewAPICheck("https://evidence.example.com", pingFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	check.timeout = 10 * time.Millisecond

	result := check.Run(context.Background())
	assert.Equal(t, StatusFail, result.Items[0].Status)
}

func TestConfigCheck(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	result := NewConfigCheck(&cfg, "").Run(context.Background())
	require.NotEmpty(t, result.Items)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, "defaults", result.Items[0].Detail)
	assert.Equal(t, "API.base_url", result.Items[1].Label, "missing api is a warning")
	assert.Equal(t, StatusWarn, result.Items[1].Status)
}

func TestConfigCheck_FieldErrors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.API.BaseURL = "ftp://evidence.example.com"

	result := NewConfigCheck(&cfg, "").Run(context.Background())
	require.NotEmpty(t, result.Items)
	assert.Equal(t, "api.base_url", result.Items[0].Label)
	assert.Equal(t, StatusFail, result.Items[0].Status)
}
