package dynval

import (
	"maps"

	"github.com/cockroachdb/errors"
	"github.com/go-viper/mapstructure/v2"
)

// Options are the construction options passed to a Ref when it is added.
type Options map[string]any

// Clone returns a shallow copy. A nil receiver yields an empty map.
func (o Options) Clone() Options {
	if o == nil {
		return Options{}
	}
	return maps.Clone(o)
}

// Get returns the value stored under key.
func (o Options) Get(key string) (any, bool) {
	v, ok := o[key]
	return v, ok
}

// Decode copies the options into out, a pointer to a struct, using
// `mapstructure` tags. Values are converted weakly (for example "7" into an
// int field) and keys that match no field are an error.
func (o Options) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return errors.Wrap(err, "creating options decoder")
	}
	return errors.Wrap(dec.Decode(map[string]any(o)), "decoding options")
}
