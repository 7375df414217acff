// Package naming derives Dart identifiers from asset names and keeps them unique.
package naming

import (
	"regexp"
	"strings"
	"unicode"
)

// fallbackIdentifier is used when nothing usable survives normalization.
const fallbackIdentifier = "asset"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Dart reserved words plus the Object members a static field would shadow.
var reservedWords = map[string]bool{
	"assert": true, "await": true, "break": true, "case": true, "catch": true,
	"class": true, "const": true, "continue": true, "default": true, "do": true,
	"else": true, "enum": true, "extends": true, "false": true, "final": true,
	"finally": true, "for": true, "if": true, "in": true, "is": true,
	"new": true, "null": true, "rethrow": true, "return": true, "super": true,
	"switch": true, "this": true, "throw": true, "true": true, "try": true,
	"var": true, "void": true, "while": true, "with": true, "yield": true,
	"hashCode": true, "noSuchMethod": true, "runtimeType": true, "toString": true,
}

// Identifier converts a raw name into a lower camel case Dart identifier.
// Runs of characters outside [A-Za-z0-9] split words; a leading digit gets an
// "a" prefix and reserved words get a trailing underscore.
func Identifier(raw string) string {
	words := splitWords(raw)
	if len(words) == 0 {
		return fallbackIdentifier
	}

	var b strings.Builder
	for i, word := range words {
		if i == 0 {
			b.WriteString(lowerFirst(word))
			continue
		}
		b.WriteString(upperFirst(word))
	}

	name := b.String()
	if name[0] >= '0' && name[0] <= '9' {
		name = "a" + name
	}
	if reservedWords[name] {
		name += "_"
	}
	return name
}

// IsValidIdentifier reports whether name is usable as a Dart identifier.
func IsValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name) && !reservedWords[name]
}

// IsReserved reports whether name is a Dart reserved word.
func IsReserved(name string) bool {
	return reservedWords[name]
}

func splitWords(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})
}

func lowerFirst(s string) string {
	return strings.ToLower(s[:1]) + s[1:]
}

func upperFirst(s string) string {
	return strings.ToUpper(s[:1]) + s[1:]
}
