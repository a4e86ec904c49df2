package convert

import (
	"bytes"
	"fmt"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"bidicss/config"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context string
	// Name is source file name without extension.
	Name string
	// Source is source path relative to processed directory or archive.
	Source string
	// Direction stylesheet was written for.
	Direction string
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values.Context = string(name)

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", fmt.Errorf("unable to expand template field %s: %w", name, err)
	}
	return buf.String(), nil
}
