package pretend

import (
	"fmt"

	"github.com/toyz/pretend/pkg/pretend/descriptor"
)

// Render substitutes every {name} placeholder of the template with the
// matching argument. A template without placeholders is returned unchanged;
// "{}" is not a placeholder. There is no escape syntax.
func Render(template string, args map[string]string) (string, error) {
	out, missing, ok := descriptor.Expand(template, func(name string) (string, bool) {
		value, found := args[name]
		return value, found
	})
	if !ok {
		return "", fmt.Errorf("%w: %s in %q", ErrMissingTemplateArgument, missing, template)
	}
	return out, nil
}

// TemplateParams lists the distinct placeholder names of a template in order
// of first appearance.
func TemplateParams(template string) []string {
	return descriptor.TemplateParams(template)
}
