// Package classify provides the statistical half of the ensemble: a
// TF-IDF vectorizer plus a small MLP, loaded from exported artifacts and
// run in-process, and the deterministic rule that blends its probability
// with the generative model's score.
package classify

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/merchguard/merchguard/engine/domain"
)

// Artifact file names inside the configured model directory.
const (
	VectorizerFile = "vectorizer.json"
	WeightsFile    = "model.json"
)

// Classifier predicts how scam-like a text blob looks. Artifacts are
// loaded lazily on first use and cached for the lifetime of the instance;
// construct one per model directory and share it across requests.
type Classifier struct {
	dir    string
	logger *slog.Logger

	mu  sync.Mutex
	vec *Vectorizer
	mlp *MLP
}

// New creates a Classifier for the given artifact directory. Nothing is
// read from disk until Load or the first prediction.
func New(dir string, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{dir: dir, logger: logger}
}

// Load reads both artifacts. It is idempotent: once a load has succeeded
// the cached instances are reused and the call is a no-op. A failed load
// leaves the classifier unloaded so a later call can retry after the
// operator fixes the deployment.
func (c *Classifier) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked()
}

func (c *Classifier) loadLocked() error {
	if c.mlp != nil {
		return nil
	}

	vecPath := filepath.Join(c.dir, VectorizerFile)
	vec, err := LoadVectorizer(vecPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrVectorizerMissing, vecPath)
		}
		return err
	}

	mlpPath := filepath.Join(c.dir, WeightsFile)
	mlp, err := LoadMLP(mlpPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrModelWeightsMissing, mlpPath)
		}
		return err
	}

	if mlp.InDim != vec.Dim() {
		return fmt.Errorf("classify: model expects %d features, vectorizer produces %d", mlp.InDim, vec.Dim())
	}

	c.vec = vec
	c.mlp = mlp
	c.logger.Info("classifier loaded", "dir", c.dir, "features", vec.Dim(), "hidden", mlp.Hidden)
	return nil
}

// PredictScamProbability returns the probability in [0, 1] that text is a
// scam post. Identical input yields identical output.
func (c *Classifier) PredictScamProbability(text string) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.loadLocked(); err != nil {
		return 0, err
	}
	return c.mlp.Forward(c.vec.Transform(text)), nil
}
