package inference

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/clinicportal/internal/common"
	"github.com/dmitrijs2005/clinicportal/internal/logging"
	"github.com/dmitrijs2005/clinicportal/internal/server/models"
)

type loadedModel struct {
	spec  ModelSpec
	model Model
}

// Classifier holds every enabled model from its registry. After Load
// returns it is safe for concurrent use.
type Classifier struct {
	registry  Registry
	fetcher   Fetcher
	runtime   Runtime
	maxPixels int64
	logger    logging.Logger

	mu     sync.RWMutex
	models map[string]loadedModel
}

func NewClassifier(registry Registry, fetcher Fetcher, runtime Runtime, maxPixels int64, logger logging.Logger) *Classifier {
	return &Classifier{
		registry:  registry,
		fetcher:   fetcher,
		runtime:   runtime,
		maxPixels: maxPixels,
		logger:    logger,
		models:    make(map[string]loadedModel),
	}
}

// Load fetches and compiles every enabled model. Any failure is returned and
// nothing is kept.
func (c *Classifier) Load(ctx context.Context) error {
	loaded := make(map[string]loadedModel)

	for _, spec := range c.registry.Enabled() {
		m, err := c.loadOne(ctx, spec)
		if err != nil {
			closeModels(loaded)
			return fmt.Errorf("load model %q: %w", spec.Key, err)
		}
		loaded[spec.Key] = loadedModel{spec: spec, model: m}
		in := m.Input()
		c.logger.Info(ctx, "model loaded", "key", spec.Key, "file", spec.Filename,
			"classes", spec.Classes, "input", fmt.Sprintf("%dx%dx%d", in.Width, in.Height, in.Channels))
	}

	c.mu.Lock()
	previous := c.models
	c.models = loaded
	c.mu.Unlock()

	closeModels(previous)
	return nil
}

func (c *Classifier) loadOne(ctx context.Context, spec ModelSpec) (Model, error) {
	rc, err := c.fetcher.Fetch(ctx, spec.Filename)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	artifact, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return c.runtime.Load(spec, artifact)
}

func (c *Classifier) model(key string) (loadedModel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.models[key]
	return m, ok
}

// Ready reports whether the model under key is loaded.
func (c *Classifier) Ready(key string) bool {
	_, ok := c.model(key)
	return ok
}

// Classify runs the model registered under key on an encoded image and
// returns one prediction per model class, in the registry's class order.
func (c *Classifier) Classify(ctx context.Context, key string, image []byte) ([]models.Prediction, error) {
	m, ok := c.model(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrorModelNotFound, key)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	x, err := Preprocess(image, m.model.Input(), m.spec.Scale, c.maxPixels)
	if err != nil {
		return nil, err
	}

	out, err := m.model.Predict(x)
	if err != nil {
		return nil, err
	}
	if len(out) != len(m.spec.Classes) {
		return nil, fmt.Errorf("model %q returned %d values, want %d", key, len(out), len(m.spec.Classes))
	}

	probs := probabilities(out)
	preds := make([]models.Prediction, len(probs))
	for i, p := range probs {
		preds[i] = models.Prediction{Label: m.spec.Classes[i], Probability: p}
	}
	return preds, nil
}

// Close releases every loaded model.
func (c *Classifier) Close() error {
	c.mu.Lock()
	loaded := c.models
	c.models = make(map[string]loadedModel)
	c.mu.Unlock()

	return closeModels(loaded)
}

func closeModels(loaded map[string]loadedModel) error {
	var errs []error
	for key, m := range loaded {
		if err := m.model.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close model %q: %w", key, err))
		}
	}
	return errors.Join(errs...)
}
