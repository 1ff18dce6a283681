package handler

import (
	"fmt"
	"html/template"
	"path/filepath"
)

// parsePage builds the template set for one page: the shared base layout
// plus the page's content block.
//
// WHY ONE SET PER PAGE? Every page template defines a block named
// "content", so they cannot all live in a single template set — the last
// definition would silently win. Each handler therefore holds its own
// parsed set and executes "base" on it.
func parsePage(templateDir, page string) (*template.Template, error) {
	tmpl, err := template.ParseFiles(
		filepath.Join(templateDir, "base.html"),
		filepath.Join(templateDir, page),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", page, err)
	}
	return tmpl, nil
}
