// Package codegen renders the generated Dart asset reference file.
package codegen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/wizzomafizzo/assetgen/internal/naming"
)

// GeneratedMarker opens every generated file so editors and reviewers can
// recognize it.
const GeneratedMarker = "// GENERATED CODE - DO NOT MODIFY BY HAND"

// File describes one generated Dart unit.
type File struct {
	ClassName  string
	PathPrefix string
	Constants  []naming.Constant
}

type constantView struct {
	Name  string
	Value string
}

type fileView struct {
	Marker    string
	ClassName string
	Constants []constantView
}

var dartTemplate = template.Must(template.New("dart").Funcs(template.FuncMap{
	"dartString": dartString,
}).Parse(`{{ .Marker }}
// Regenerate with: assetgen generate

// ignore_for_file: constant_identifier_names, lines_longer_than_80_chars

class {{ .ClassName }} {
  {{ .ClassName }}._();
{{- if .Constants }}
{{ range .Constants }}
  static const String {{ .Name }} = {{ dartString .Value }};
{{- end }}
{{- end }}
}
`))

// RenderDart renders f. Output depends only on its input, so identical trees
// produce identical bytes.
func RenderDart(f File) ([]byte, error) {
	view := fileView{
		Marker:    GeneratedMarker,
		ClassName: f.ClassName,
		Constants: make([]constantView, 0, len(f.Constants)),
	}
	for _, c := range f.Constants {
		view.Constants = append(view.Constants, constantView{
			Name:  c.Name,
			Value: AssetPath(f.PathPrefix, c.Entry.RelPath, c.Entry.IsDir),
		})
	}

	var buf bytes.Buffer
	if err := dartTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", f.ClassName, err)
	}
	return buf.Bytes(), nil
}

// AssetPath joins the mount prefix and a slash-separated relative path.
// Directories keep a trailing slash, matching pubspec asset declarations.
func AssetPath(prefix, rel string, isDir bool) string {
	value := rel
	if prefix != "" {
		value = strings.TrimSuffix(prefix, "/") + "/" + rel
	}
	if isDir {
		value += "/"
	}
	return value
}

// dartString quotes s as a single-quoted Dart literal. Every rune below
// 0x20 is escaped so a stray control character cannot end the line.
func dartString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\', '\'', '$':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\x%02X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
