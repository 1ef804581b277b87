package sweeper

import (
	"context"
	"time"

	"mcid/internal/logs"
	"mcid/internal/repo"
)

// Sweeper периодически выметает протухшие записи: просроченные коды и
// истёкшие API-ключи. Уборка best-effort — все читатели и так фильтруют
// по expiration и не зависят от неё.
type Sweeper struct {
	codes    *repo.CodeStore
	keys     *repo.APIKeyStore
	interval time.Duration
}

func New(codes *repo.CodeStore, keys *repo.APIKeyStore, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{codes: codes, keys: keys, interval: interval}
}

// Run крутится до отмены контекста. Запускать отдельной горутиной.
func (s *Sweeper) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.Sweep(ctx, now.UTC())
		}
	}
}

// Sweep — один проход уборки. Ошибки логируем и едем дальше.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) {
	start := time.Now()

	nCodes, err := s.codes.DeleteExpired(ctx, now)
	if err != nil {
		logs.Logger.Errorf("sweep: expired codes: %v", err)
	}
	nKeys, err := s.keys.DeleteExpired(ctx, now)
	if err != nil {
		logs.Logger.Errorf("sweep: expired api keys: %v", err)
	}

	if nCodes > 0 || nKeys > 0 {
		logs.Logger.Infof("sweep: removed %d codes, %d api keys in %s", nCodes, nKeys, time.Since(start))
	}
}
