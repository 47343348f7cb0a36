// Package pipeline provides the type-level validation pipeline that host
// record types run on every validation pass.
//
// A Pipeline is declared once per record type and shared by all of its
// instances. It holds an ordered list of named steps; each pass resets the
// record's error collection, runs every step against the record, and reports
// the record valid when no step appended an error.
//
//	var accounts = pipeline.Must(pipeline.New[*Account]("account", pipeline.WithStructTags()))
//
//	func (a *Account) Valid() bool { return accounts.Valid(a) }
package pipeline

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/thoreinstein/dynval/pkg/result"
)

// StructTagsStep is the name of the step registered by WithStructTags.
const StructTagsStep = "struct_tags"

// Record is anything that exposes a shared error collection.
type Record interface {
	Errors() *result.Result
}

// Step is a named unit of work run on every pass.
type Step[T Record] struct {
	Name string
	Run  func(T)
}

// Option configures a Pipeline.
type Option func(*settings)

type settings struct {
	logger     *slog.Logger
	structTags bool
}

// WithLogger sets the logger used for pass diagnostics.
// By default the pipeline logs through slog.Default at the time of each pass.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithStructTags registers a first step that checks go-playground `validate`
// struct tags and records failures with English messages keyed by json name.
func WithStructTags() Option {
	return func(s *settings) {
		s.structTags = true
	}
}

// Pipeline is the ordered set of validation steps for records of type T.
// Steps may be added while other goroutines validate distinct records.
type Pipeline[T Record] struct {
	name   string
	logger *slog.Logger
	tags   *tagEngine

	mu    sync.RWMutex
	steps []Step[T]
}

// New creates a pipeline named after the record type it serves.
func New[T Record](name string, opts ...Option) (*Pipeline[T], error) {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	p := &Pipeline[T]{
		name:   name,
		logger: s.logger,
	}

	if s.structTags {
		engine, err := newTagEngine()
		if err != nil {
			return nil, errors.Wrapf(err, "configuring struct tags for %s pipeline", name)
		}
		p.tags = engine
		p.Use(StructTagsStep, func(rec T) {
			engine.check(rec, rec.Errors())
		})
	}

	return p, nil
}

// Must is like New's result but panics on error. It is meant for package-level
// pipeline declarations.
func Must[T Record](p *Pipeline[T], err error) *Pipeline[T] {
	if err != nil {
		panic(err)
	}
	return p
}

// Name returns the pipeline name.
func (p *Pipeline[T]) Name() string {
	return p.name
}

// Use appends a step. Steps run in the order they were added.
func (p *Pipeline[T]) Use(name string, fn func(T)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.steps = append(p.steps, Step[T]{Name: name, Run: fn})
}

// UseOnce appends a step unless one with the same name already exists.
// It reports whether the step was added.
func (p *Pipeline[T]) UseOnce(name string, fn func(T)) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.indexLocked(name) >= 0 {
		return false
	}
	p.steps = append(p.steps, Step[T]{Name: name, Run: fn})
	return true
}

// Has reports whether a step with the given name is registered.
func (p *Pipeline[T]) Has(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.indexLocked(name) >= 0
}

// Steps returns the registered step names in run order.
func (p *Pipeline[T]) Steps() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name
	}
	return names
}

// RegisterTag adds a custom struct-tag rule. message is the English text used
// when the rule fails; "{0}" is replaced by the field name.
func (p *Pipeline[T]) RegisterTag(tag string, fn validator.Func, message string) error {
	if p.tags == nil {
		return errors.Newf("pipeline %s was created without struct tags", p.name)
	}
	return p.tags.register(tag, fn, message)
}

// Validate resets rec's error collection, runs every step, and returns the
// collection. A panic in a step is not recovered.
func (p *Pipeline[T]) Validate(rec T) *result.Result {
	res := rec.Errors()
	res.Reset()

	p.mu.RLock()
	steps := slices.Clone(p.steps)
	p.mu.RUnlock()

	for _, s := range steps {
		s.Run(rec)
	}

	p.log().Debug("validation pass",
		"pipeline", p.name,
		"steps", len(steps),
		"issues", res.Len(),
		"valid", !res.HasErrors(),
	)

	return res
}

// Valid runs a pass and reports whether no error-severity issue was recorded.
func (p *Pipeline[T]) Valid(rec T) bool {
	return !p.Validate(rec).HasErrors()
}

func (p *Pipeline[T]) indexLocked(name string) int {
	return slices.IndexFunc(p.steps, func(s Step[T]) bool { return s.Name == name })
}

func (p *Pipeline[T]) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return slog.Default()
}
