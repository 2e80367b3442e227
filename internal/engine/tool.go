package engine

// tool.go resolves custom anonymization tools into transforms. A column
// bound to a tool offers exactly two methods: the generic full mask and
// the tool's own pattern method. Tool methods replace the type's built-in
// list for that column; built-ins are not merged in.

import (
	"fmt"
	"regexp"
	"unicode"
)

// ValidatePattern checks that the tool's stored pattern compiles. Tools
// without a pattern are valid; their method degrades to a full mask.
func (t Tool) ValidatePattern() error {
	if t.Regexp == "" {
		return nil
	}
	if _, err := regexp.Compile(t.Regexp); err != nil {
		return fmt.Errorf("invalid tool pattern: %w", err)
	}
	return nil
}

// ApplyToolPattern masks every substring of v matching pattern, keeping
// separator characters inside the match so formats stay recognizable. A
// pattern that does not compile, is empty, or does not match the value
// degrades to a full mask: a misconfigured tool must never pass data
// through unmasked.
func ApplyToolPattern(pattern, v string) string {
	if pattern == "" {
		return Mask(v)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Mask(v)
	}
	if !re.MatchString(v) {
		return Mask(v)
	}
	return re.ReplaceAllStringFunc(v, maskMatch)
}

// maskMatch asterisks the letters and digits of a matched substring and
// keeps separators.
func maskMatch(m string) string {
	out := []rune(m)
	for i, r := range out {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out[i] = '*'
		}
	}
	return string(out)
}

// ToolMethods returns the selectable transforms for a column bound to the
// given tool.
func ToolMethods(tool Tool) []Transform {
	pattern := tool.Regexp
	own := Transform{
		Name:        tool.Method,
		Description: tool.Description,
		Apply: func(v string) (string, error) {
			return ApplyToolPattern(pattern, v), nil
		},
	}
	return []Transform{maskTransform, own}
}
