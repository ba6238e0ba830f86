package badgerfx

import (
	"errors"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// GC periodically reclaims value log space left by deleted and replaced
// entries.
type GC struct {
	config Config
	db     *badger.DB

	logger *zap.Logger

	once sync.Once
	stop chan struct{}
	done chan struct{}
}

func NewGC(config Config, db *badger.DB, logger *zap.Logger) *GC {
	return &GC{
		config: config,
		db:     db,

		logger: logger,

		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Start runs collection every GCInterval until Stop. It does nothing for
// in-memory databases or when the interval is not set.
func (g *GC) Start() {
	if g.config.InMemory || g.config.GCInterval <= 0 {
		close(g.done)
		return
	}

	go g.loop()

	g.logger.Info("value log gc started", zap.Duration("interval", g.config.GCInterval))
}

// Stop waits for a collection in progress to finish.
func (g *GC) Stop() {
	g.once.Do(func() { close(g.stop) })
	<-g.done
}

func (g *GC) loop() {
	defer close(g.done)

	ticker := time.NewTicker(g.config.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-g.stop:
			return
		case <-ticker.C:
			g.Run()
		}
	}
}

// Run rewrites value log files until nothing more can be reclaimed and
// returns the number of files rewritten.
func (g *GC) Run() int {
	rewritten := 0
	for {
		err := g.db.RunValueLogGC(g.config.discardRatio())
		if err == nil {
			rewritten++
			continue
		}

		if !errors.Is(err, badger.ErrNoRewrite) && !errors.Is(err, badger.ErrGCInMemoryMode) {
			g.logger.Warn("value log gc failed", zap.Error(err))
		}
		break
	}

	if rewritten > 0 {
		g.logger.Info("value log gc finished", zap.Int("rewritten", rewritten))
	}

	return rewritten
}
