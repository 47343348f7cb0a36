package catalog

import (
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cast"

	"github.com/thoreinstein/dynval/pkg/dynval"
)

func sortedKeys(opts dynval.Options) []string {
	keys := lo.Keys(opts)
	slices.Sort(keys)
	return keys
}

func writeOption(b *strings.Builder, key string, value any) {
	if values, err := cast.ToStringSliceE(value); err == nil {
		if _, isString := value.(string); !isString {
			for i, v := range values {
				if i > 0 {
					b.WriteByte(',')
				}
				b.WriteString(key + "=" + v)
			}
			return
		}
	}
	b.WriteString(key + "=" + cast.ToString(value))
}
