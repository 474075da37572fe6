package cronrunner

import (
	"context"
	"strings"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"gamecompare/internal/platform"
)

// Runner runs jobs on cron specs. A job that is still running when its next
// tick fires is skipped for that tick.
type Runner struct {
	cron    *cron.Cron
	logger  *zap.Logger
	baseCtx context.Context
}

func New(logger *zap.Logger, baseCtx context.Context) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cl := zapCronLogger{logger: logger}
	return &Runner{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger:  logger,
		baseCtx: baseCtx,
	}
}

func (r *Runner) Add(spec string, job func(context.Context)) (cron.EntryID, error) {
	return r.cron.AddFunc(spec, func() {
		job(r.baseCtx)
	})
}

// PlatformSyncer is the slice of platform.Manager the scheduled syncs need.
type PlatformSyncer interface {
	SyncPlatform(ctx context.Context, target string, opts platform.SyncOptions) ([]platform.SyncResult, error)
}

// AddSync schedules an unforced incremental sync of one platform. Empty specs are skipped.
func (r *Runner) AddSync(spec string, p platform.Platform, syncer PlatformSyncer) error {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil
	}
	_, err := r.Add(spec, func(ctx context.Context) {
		results, err := syncer.SyncPlatform(ctx, p.String(), platform.SyncOptions{Type: platform.SyncTypeIncremental})
		if err != nil {
			r.logger.Warn("cron sync failed", zap.String("platform", p.String()), zap.Error(err))
			return
		}
		for _, res := range results {
			fields := []zap.Field{
				zap.String("platform", res.Platform.String()),
				zap.String("status", res.Status),
				zap.Int("processed", res.GamesProcessed),
				zap.Int("added", res.GamesAdded),
				zap.Int("updated", res.GamesUpdated),
				zap.Int64("duration_ms", res.DurationMs),
			}
			if res.Success {
				r.logger.Info("cron sync ok", fields...)
				continue
			}
			r.logger.Warn("cron sync unsuccessful", append(fields, zap.Strings("errors", res.Errors))...)
		}
	})
	if err == nil {
		r.logger.Info("cron sync scheduled", zap.String("platform", p.String()), zap.String("spec", spec))
	}
	return err
}

func (r *Runner) Entries() int {
	return len(r.cron.Entries())
}

func (r *Runner) Start() {
	r.logger.Info("cron started")
	r.cron.Start()
}

func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("cron stopped")
}

// zapCronLogger adapts zap to cron.Logger.
type zapCronLogger struct {
	logger *zap.Logger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, zap.Any("kv", keysAndValues))
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, zap.Error(err), zap.Any("kv", keysAndValues))
}
