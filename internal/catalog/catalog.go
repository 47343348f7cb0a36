package catalog

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/thoreinstein/dynval/internal/errors"
	"github.com/thoreinstein/dynval/internal/logging"
	"github.com/thoreinstein/dynval/pkg/dynval"
)

// Sentinel errors for catalog operations.
var (
	// ErrKindAlreadyRegistered is returned when a kind name is already in use.
	ErrKindAlreadyRegistered = errors.New("validator kind already registered")

	// ErrInvalidKindName is returned for names that are empty or contain
	// characters ParseRule treats as separators.
	ErrInvalidKindName = errors.New("invalid validator kind name")
)

// BuildFunc constructs a unit from a rule's options. Its result is checked
// against dynval.Unit when the rule is added to a record.
type BuildFunc = func(dynval.Options) (any, error)

// OptionDoc describes one option a kind accepts.
type OptionDoc struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Required bool   `json:"required" yaml:"required"`
	Doc      string `json:"doc" yaml:"doc"`
}

// Kind is a registered validator kind.
type Kind struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Options     []OptionDoc `json:"options,omitempty" yaml:"options,omitempty"`

	ref *dynval.Ref
}

// Ref returns the identity shared by every rule of this kind.
func (k Kind) Ref() *dynval.Ref {
	return k.ref
}

// Catalog maps kind names to validator refs. It is safe for concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	kinds map[string]Kind
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{kinds: make(map[string]Kind)}
}

// Default creates a catalog holding the built-in kinds.
func Default() *Catalog {
	c := New()
	for _, b := range builtins() {
		if err := c.Register(b.name, b.description, b.build, b.options...); err != nil {
			panic(err)
		}
	}
	return c
}

// Register adds a kind built by build. It returns ErrInvalidKindName or
// ErrKindAlreadyRegistered when the name cannot be used.
func (c *Catalog) Register(name, description string, build BuildFunc, options ...OptionDoc) error {
	if name == "" || strings.ContainsAny(name, ":,= \t") {
		return errors.Wrapf(ErrInvalidKindName, "%q", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.kinds[name]; exists {
		return errors.Wrapf(ErrKindAlreadyRegistered, "%q", name)
	}

	c.kinds[name] = Kind{
		Name:        name,
		Description: description,
		Options:     options,
		ref:         dynval.Dynamic(name, build),
	}
	return nil
}

// Lookup returns the ref for name, or an error matching
// errors.ErrUnknownValidator.
func (c *Catalog) Lookup(name string) (*dynval.Ref, error) {
	k, ok := c.Kind(name)
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnknownValidator, "%q", name)
	}
	return k.ref, nil
}

// Kind returns the registered kind called name.
func (c *Catalog) Kind(name string) (Kind, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	k, ok := c.kinds[name]
	return k, ok
}

// Has reports whether name is registered.
func (c *Catalog) Has(name string) bool {
	_, ok := c.Kind(name)
	return ok
}

// Names returns the registered kind names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := lo.Keys(c.kinds)
	slices.Sort(names)
	return names
}

// Kinds returns the registered kinds sorted by name.
func (c *Catalog) Kinds() []Kind {
	names := c.Names()

	c.mu.RLock()
	defer c.mu.RUnlock()

	return lo.FilterMap(names, func(name string, _ int) (Kind, bool) {
		k, ok := c.kinds[name]
		return k, ok
	})
}

// Describe returns the description registered for name.
func (c *Catalog) Describe(name string) (string, error) {
	k, ok := c.Kind(name)
	if !ok {
		return "", errors.Wrapf(errors.ErrUnknownValidator, "%q", name)
	}
	return k.Description, nil
}

// Apply adds every rule to reg in order. Rules of the same kind share one
// identity, so a later rule replaces an earlier one; this is logged as a
// warning. Apply stops at the first rule that fails.
func (c *Catalog) Apply(ctx context.Context, reg *dynval.Registry, rules []Rule) error {
	logger := logging.FromContext(ctx)

	for _, dup := range lo.FindDuplicates(lo.Map(rules, func(r Rule, _ int) string { return r.Kind })) {
		logger.Warn("rule replaces an earlier rule of the same kind", "kind", dup)
	}

	for i, rule := range rules {
		ref, err := c.Lookup(rule.Kind)
		if err != nil {
			return errors.Wrapf(err, "rule %d", i+1)
		}
		if err := reg.AddValidator(ref, rule.Options); err != nil {
			return errors.Wrapf(err, "rule %d (%s)", i+1, rule.Kind)
		}
		logger.Log(ctx, logging.LevelTrace, "added rule", "kind", rule.Kind, "options", rule.Options)
	}
	return nil
}

// Validate checks every rule names a registered kind without building it.
func (c *Catalog) Validate(rules []Rule) error {
	var errs []error
	for i, rule := range rules {
		if !c.Has(rule.Kind) {
			errs = append(errs, errors.Wrapf(errors.ErrUnknownValidator, "rule %d: %q", i+1, rule.Kind))
		}
	}
	return errors.Join(errs...)
}
