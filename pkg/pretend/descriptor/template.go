package descriptor

import "regexp"

var placeholder = regexp.MustCompile(`\{([^}]+)\}`)

// TemplateParams lists the distinct {name} placeholders of a path or header
// template in order of first appearance. "{}" is not a placeholder.
func TemplateParams(template string) []string {
	matches := placeholder.FindAllStringSubmatch(template, -1)
	seen := make(map[string]struct{}, len(matches))
	var names []string
	for _, m := range matches {
		name := m[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// Expand replaces every placeholder of template with lookup(name). When
// lookup does not know a name, the first such name is returned with ok
// false.
func Expand(template string, lookup func(name string) (string, bool)) (out, missing string, ok bool) {
	if !placeholder.MatchString(template) {
		return template, "", true
	}

	ok = true
	out = placeholder.ReplaceAllStringFunc(template, func(group string) string {
		name := group[1 : len(group)-1]
		value, found := lookup(name)
		if !found {
			if ok {
				missing, ok = name, false
			}
			return group
		}
		return value
	})
	if !ok {
		return "", missing, false
	}
	return out, "", true
}
