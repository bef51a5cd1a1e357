// SPDX-License-Identifier: EPL-2.0

package classify

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ik5/hapsync/errs"
)

// Engine pairs a model with its class map. It is created once per process
// and shared read-only.
type Engine struct {
	taxonomy *Taxonomy
	model    Model
	log      *zap.Logger
}

// NewEngine checks that model and taxonomy agree on the class count.
func NewEngine(taxonomy *Taxonomy, model Model, log *zap.Logger) (*Engine, error) {
	const op = "classify.NewEngine"

	if taxonomy == nil || model == nil {
		return nil, errs.Input(op, "model and class map are required", nil)
	}
	if taxonomy.Len() != model.Classes() {
		return nil, errs.Input(op, "cannot pair model with class map",
			fmt.Errorf("%w: model %d, class map %d", ErrClassMismatch, model.Classes(), taxonomy.Len()))
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Engine{taxonomy: taxonomy, model: model, log: log}, nil
}

// Load reads a LinearModel and a class map. Any failure is an
// input error (errs.ErrInput).
func Load(modelPath, classMapPath string, log *zap.Logger) (*Engine, error) {
	const op = "classify.Load"

	model, err := LoadLinearModel(modelPath)
	if err != nil {
		return nil, errs.Input(op, "cannot load model", err)
	}

	taxonomy, err := LoadTaxonomy(classMapPath)
	if err != nil {
		return nil, errs.Input(op, "cannot load class map", err)
	}

	e, err := NewEngine(taxonomy, model, log)
	if err != nil {
		return nil, err
	}

	e.log.Info("classifier loaded",
		zap.String("model", modelPath),
		zap.Int("classes", taxonomy.Len()))

	return e, nil
}

func (e *Engine) Taxonomy() *Taxonomy { return e.taxonomy }
