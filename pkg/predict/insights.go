package predict

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// ImportanceSource yields the feature-importance ranking.
type ImportanceSource interface {
	FeatureImportance(ctx context.Context) ([]FeatureImportance, error)
}

// Insights holds the feature-importance list shown next to the form. Fetch
// failures never reach the user: they are logged and the list stays empty.
type Insights struct {
	source ImportanceSource
	logger *zap.Logger

	once    sync.Once
	mu      sync.RWMutex
	entries []FeatureImportance
}

// NewInsights builds a fetcher backed by source.
func NewInsights(source ImportanceSource, opts ...InsightsOption) *Insights {
	i := &Insights{
		source: source,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}
	return i
}

// Load fetches the ranking the first time it is called. Later calls return
// immediately.
func (i *Insights) Load(ctx context.Context) {
	i.once.Do(func() {
		_ = i.fetch(ctx)
	})
}

// Refresh re-fetches the ranking on demand. On failure the previous list is
// kept and the error is returned to the caller only.
func (i *Insights) Refresh(ctx context.Context) error {
	return i.fetch(ctx)
}

// Entries returns a copy of the current ranking in service order.
func (i *Insights) Entries() []FeatureImportance {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if len(i.entries) == 0 {
		return nil
	}
	return append([]FeatureImportance(nil), i.entries...)
}

func (i *Insights) fetch(ctx context.Context) error {
	if i.source == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	entries, err := i.source.FeatureImportance(ctx)
	if err != nil {
		i.logger.Warn("feature importance unavailable", zap.Error(err))
		return err
	}

	i.mu.Lock()
	i.entries = append([]FeatureImportance(nil), entries...)
	i.mu.Unlock()

	i.logger.Debug("feature importance loaded", zap.Int("entries", len(entries)))
	return nil
}
