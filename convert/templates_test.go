package convert

import (
	"strings"
	"testing"

	"bidicss/config"
)

func TestExpandTemplate(t *testing.T) {
	values := Values{Name: "main", Source: "theme/main.css", Direction: "ltr"}

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"simple text", "output", "output"},
		{"name", "{{ .Name }}", "main"},
		{"source", "{{ .Source }}", "theme/main.css"},
		{"direction", "{{ .Direction }}", "ltr"},
		{"context", "{{ .Context }}", string(config.OutputNameTemplateFieldName)},
		{"sprig functions", "{{ .Name | upper }}-{{ .Source | base }}", "MAIN-main.css"},
		{"conditional", "{{ if eq .Direction \"rtl\" }}rtl-{{ end }}{{ .Name }}", "main"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandTemplate(config.OutputNameTemplateFieldName, tt.template, values)
			if err != nil {
				t.Fatalf("expandTemplate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("expandTemplate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandTemplate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		template string
		errText  string
	}{
		{"invalid template", "{{ .Name", "unable to parse"},
		{"invalid field", "{{ .Title }}", "unable to expand"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := expandTemplate(config.OutputNameTemplateFieldName, tt.template, Values{})
			if err == nil || !strings.Contains(err.Error(), tt.errText) {
				t.Errorf("expandTemplate() error = %v, want it to contain %q", err, tt.errText)
			}
		})
	}
}
