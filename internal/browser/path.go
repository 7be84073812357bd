package browser

import "strings"

// Separator is the remote path separator
const Separator = "/"

// Crumb is one breadcrumb segment: the directory it links to and its display name
type Crumb struct {
	URL  string
	Name string
}

// Normalize coerces p to an absolute, separator-terminated directory path.
// The empty string becomes the root.
func Normalize(p string) string {
	if p == "" {
		return Separator
	}
	if !strings.HasPrefix(p, Separator) {
		p = Separator + p
	}
	if !strings.HasSuffix(p, Separator) {
		p += Separator
	}
	return p
}

// Join returns the identity key of name inside dir
func Join(dir, name string) string {
	return Normalize(dir) + name
}

// Breadcrumbs splits highlighted (when set) or p into crumbs, root first.
// For a selected file key the last segment is the file itself and yields no crumb.
func Breadcrumbs(p, highlighted string) []Crumb {
	view := highlighted
	if view == "" {
		view = Normalize(p)
	}

	crumbs := []Crumb{{URL: Separator, Name: ""}}
	parts := strings.Split(view, Separator)
	prefix := Separator
	for i := 1; i < len(parts)-1; i++ {
		if parts[i] == "" {
			continue
		}
		prefix += parts[i] + Separator
		crumbs = append(crumbs, Crumb{URL: prefix, Name: parts[i]})
	}
	return crumbs
}

// Ascend walks -levels segments up from p. It returns the new directory and
// the identity keys of the folders that were exited, nearest to the result
// first. levels >= 0 leaves p unchanged.
func Ascend(p string, levels int) (string, []string, error) {
	p = Normalize(p)
	if levels >= 0 {
		return p, nil, nil
	}

	var exited []string
	end := len(p) - 1 // separator closing the current directory
	for levels < 0 && end > 0 {
		exited = append(exited, p[:end])
		end = strings.LastIndex(p[:end], Separator)
		levels++
	}
	if levels != 0 {
		return p, nil, ErrAtRoot
	}

	for i, j := 0, len(exited)-1; i < j; i, j = i+1, j-1 {
		exited[i], exited[j] = exited[j], exited[i]
	}
	return p[:end+1], exited, nil
}

// Parent returns the directory containing key
func Parent(key string) string {
	trimmed := strings.TrimSuffix(key, Separator)
	i := strings.LastIndex(trimmed, Separator)
	if i < 0 {
		return Separator
	}
	return trimmed[:i+1]
}
