package reader

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hyperifyio/gohabr/internal/habr"
)

// ArticleGetter fetches a transformed article. *habr.Client satisfies it.
type ArticleGetter interface {
	GetArticle(ctx context.Context, id string) (habr.Article, error)
}

// Loader fetches articles in the background and publishes them to Store.
type Loader struct {
	Store  *Store
	Source ArticleGetter
	Log    zerolog.Logger

	wg sync.WaitGroup

	mu      sync.Mutex
	lastErr error
	errAt   Ticket
}

// Load requests id and returns immediately. The fetch runs on its own
// goroutine; a result that arrives after a newer Load is discarded.
func (l *Loader) Load(ctx context.Context, id string) Ticket {
	t := l.Store.Begin(id)
	t.RequestID = uuid.New().String()
	log := l.Log.With().Str("request_id", t.RequestID).Str("article", id).Logger()
	log.Debug().Uint64("gen", t.Gen).Msg("load started")

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		a, err := l.Source.GetArticle(ctx, id)
		if err != nil {
			log.Error().Err(err).Msg("load failed")
			l.mu.Lock()
			if t.Gen >= l.errAt.Gen {
				l.lastErr, l.errAt = err, t
			}
			l.mu.Unlock()
			return
		}
		if !l.Store.Publish(t, a) {
			log.Debug().Msg("stale result discarded")
			return
		}
		log.Debug().Int("blocks", len(a.Blocks)).Msg("article published")
	}()
	return t
}

// Err returns the failure of the latest request, if it failed.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lastErr == nil || !l.Store.IsLatest(l.errAt) {
		return nil
	}
	return l.lastErr
}

// Wait blocks until every started load has finished.
func (l *Loader) Wait() {
	l.wg.Wait()
}
