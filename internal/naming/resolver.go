package naming

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/wizzomafizzo/assetgen/internal/assets"
)

// DefaultMaxSuffix bounds the numeric fallback for a single colliding name.
const DefaultMaxSuffix = 10000

// ErrCollisionPolicyExhausted means no unique identifier could be found
// within the numeric suffix limit.
var ErrCollisionPolicyExhausted = errors.New("identifier collision policy exhausted")

// Constant pairs a discovered entry with its unique identifier.
type Constant struct {
	Name  string
	Entry assets.Entry
}

// Options controls collision handling.
type Options struct {
	// Reserved names may not be assigned, e.g. the enclosing class name.
	Reserved []string
	// MaxSuffix defaults to DefaultMaxSuffix when zero.
	MaxSuffix int
	// NamedWithParent prefixes colliding names with their parent directory.
	NamedWithParent bool
}

// Resolve assigns identifiers to entries in order. Entries are expected to
// be sorted already; the assignment is deterministic for a given order.
func Resolve(entries []assets.Entry, opts Options) ([]Constant, error) {
	maxSuffix := opts.MaxSuffix
	if maxSuffix <= 0 {
		maxSuffix = DefaultMaxSuffix
	}

	bases := make([]string, len(entries))
	counts := make(map[string]int, len(entries))
	for i, entry := range entries {
		bases[i] = baseIdentifier(entry)
		counts[bases[i]]++
	}

	used := make(map[string]bool, len(entries)+len(opts.Reserved))
	for _, name := range opts.Reserved {
		used[name] = true
	}

	constants := make([]Constant, 0, len(entries))
	for i, entry := range entries {
		candidate := bases[i]
		if opts.NamedWithParent && counts[candidate] > 1 && entry.ParentName() != "" {
			candidate = parentIdentifier(entry)
		}

		name, err := claim(candidate, used, maxSuffix)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.RelPath, err)
		}
		constants = append(constants, Constant{Name: name, Entry: entry})
	}

	return constants, nil
}

func baseIdentifier(entry assets.Entry) string {
	if entry.IsDir {
		return Identifier(entry.BaseName() + " dir")
	}
	return Identifier(entry.BaseName())
}

func parentIdentifier(entry assets.Entry) string {
	if entry.IsDir {
		return Identifier(entry.ParentName() + " " + entry.BaseName() + " dir")
	}
	return Identifier(entry.ParentName() + " " + entry.BaseName())
}

// claim returns candidate or the first free candidate+N, marking it used.
func claim(candidate string, used map[string]bool, maxSuffix int) (string, error) {
	if !used[candidate] {
		used[candidate] = true
		return candidate, nil
	}
	for n := 1; n <= maxSuffix; n++ {
		name := candidate + strconv.Itoa(n)
		if !used[name] {
			used[name] = true
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %q has more than %d collisions", ErrCollisionPolicyExhausted, candidate, maxSuffix)
}
