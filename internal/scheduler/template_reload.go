package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sageverse/tree/internal/domain"
	"github.com/sageverse/tree/internal/logger"
	"github.com/sageverse/tree/internal/seed"
)

// TemplateLoader reads the default template from its file.
type TemplateLoader interface {
	Load() (*domain.Template, error)
}

// TemplateReloader keeps the seed source in sync with the template file.
// It reloads on a ticker and whenever something is sent on manualTrigger.
type TemplateReloader struct {
	loader        TemplateLoader
	source        *seed.Source
	logger        logger.Logger
	interval      time.Duration
	manualTrigger <-chan struct{}

	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewTemplateReloader creates a new template reloader
func NewTemplateReloader(
	loader TemplateLoader,
	source *seed.Source,
	log logger.Logger,
	interval time.Duration,
	manualTrigger <-chan struct{},
) *TemplateReloader {
	return &TemplateReloader{
		loader:        loader,
		source:        source,
		logger:        log,
		interval:      interval,
		manualTrigger: manualTrigger,
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start loads the template once and then keeps reloading it in the
// background. Only the initial load can fail Start.
func (tr *TemplateReloader) Start(ctx context.Context) error {
	if err := tr.Reload(); err != nil {
		close(tr.done)
		return fmt.Errorf("initial template load failed: %w", err)
	}

	ticker := time.NewTicker(tr.interval)
	go func() {
		defer close(tr.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := tr.Reload(); err != nil {
					tr.logger.Error("failed to reload template, keeping previous one",
						logger.Error(err))
				}
			case <-tr.manualTrigger:
				tr.logger.Info("manual template reload triggered")
				if err := tr.Reload(); err != nil {
					tr.logger.Error("failed to reload template, keeping previous one",
						logger.Error(err))
				}
			case <-tr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader and waits for the loop to exit.
func (tr *TemplateReloader) Stop() {
	tr.stopOnce.Do(func() { close(tr.stopCh) })
	<-tr.done
}

// Reload reads the file and swaps the template in. On error the current
// template stays in effect.
func (tr *TemplateReloader) Reload() error {
	tpl, err := tr.loader.Load()
	if err != nil {
		return err
	}
	tr.source.Replace(tpl)
	tr.logger.Info("default template loaded",
		logger.String("name", tpl.Name),
		logger.Int("links", len(tpl.Links)))
	return nil
}
