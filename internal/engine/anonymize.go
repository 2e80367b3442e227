package engine

// anonymize.go is the dispatcher: the single function every consumer
// (preview rendering, export serializers) calls to anonymize a value.
// Consumers must not reimplement masking logic.

// FallbackValue is the sentinel returned when no applicable transform
// exists at all, e.g. a column bound to a tool that no longer resolves.
const FallbackValue = "****"

// Anonymize applies the column's configured transform to a raw value and
// returns the derived result. It is the identity when the column is not
// marked for anonymization. It never panics and never returns the raw
// value once anonymization is requested: transform failures and unknown
// method names degrade to a full mask.
func Anonymize(value string, col Column, tool *Tool) string {
	if !col.ShouldAnonymize {
		return value
	}

	if col.ToolID != nil {
		if tool == nil || tool.ID != *col.ToolID {
			return FallbackValue
		}
		if col.Method == tool.Method && tool.Method != MethodMask {
			return ApplyToolPattern(tool.Regexp, value)
		}
		// The only other method a bound column offers is the full mask;
		// anything else on the descriptor is treated the same way.
		return Mask(value)
	}

	method := col.Method
	if method == "" {
		method = MethodMask
	}
	tr, ok := transformFor(col.Type, method)
	if !ok {
		// Unknown method for this type: the universal mask applies.
		return Mask(value)
	}
	out, err := tr.Apply(value)
	if err != nil {
		return Mask(value)
	}
	return out
}
