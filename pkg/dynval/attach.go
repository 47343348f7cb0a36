package dynval

import (
	"github.com/thoreinstein/dynval/pkg/pipeline"
)

// StepName is the name of the pipeline step added by Attach.
const StepName = "dynamic_validators"

// Host is a record type that owns a Registry.
type Host interface {
	Record
	DynamicValidators() *Registry
}

// Attach adds the dynamic step to p. The step is shared by every record p
// validates and always runs the calling record's own registry. Attaching the
// same pipeline again has no effect.
func Attach[T Host](p *pipeline.Pipeline[T]) {
	p.UseOnce(StepName, func(rec T) {
		rec.DynamicValidators().Run(rec)
	})
}
