// Package keywords holds the Helix reserved-word table.
//
// The scanner never consults this table: every word comes out of the lexer as
// an Identifier and the parser decides whether it is reserved. Tools that only
// need the token stream (formatters, highlighters, diagnostics) use Lookup and
// Suggest directly.
package keywords

import (
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Category groups keywords by the construct they introduce.
type Category string

const (
	ControlFlow         Category = "control-flow"
	Loop                Category = "loop"
	LoopControl         Category = "loop-control"
	CaseControl         Category = "case-control"
	FunctionDeclaration Category = "function-declaration"
	FunctionModifier    Category = "function-modifier"
	FunctionControl     Category = "function-control"
	ClassDeclaration    Category = "class-declaration"
	TypeDeclaration     Category = "type-declaration"
	ClassModifier       Category = "class-modifier"
	ErrorHandling       Category = "error-handling"
	Core                Category = "core"
	AccessModifier      Category = "access-modifier"
	VariableDeclaration Category = "variable-declaration"
	ModuleImport        Category = "module-import"
	AsyncControl        Category = "async-control"
)

// Keyword describes one reserved word.
type Keyword struct {
	Name string
	// Scoped keywords open a new scope (fn, class, for).
	Scoped bool
	// BodyRequired keywords must be followed by a block.
	BodyRequired bool
	Category     Category
}

var table = map[string]Keyword{}

// sorted by name, built once
var all []Keyword

func init() {
	for _, kw := range []Keyword{
		{"if", false, true, ControlFlow},
		{"elif", false, true, ControlFlow},
		{"else", false, true, ControlFlow},
		{"unless", false, true, ControlFlow},
		{"while", false, true, Loop},
		{"for", true, true, Loop},
		{"continue", false, false, LoopControl},
		{"break", false, false, Core},
		{"case", false, true, CaseControl},
		{"default", false, true, CaseControl},
		{"switch", false, false, CaseControl},
		{"match", false, false, CaseControl},
		{"fn", true, true, FunctionDeclaration},
		{"lambda", false, false, FunctionDeclaration},
		{"thread", true, true, FunctionDeclaration},
		{"macro", true, true, FunctionDeclaration},
		{"async", false, false, FunctionModifier},
		{"return", false, false, FunctionControl},
		{"class", true, true, ClassDeclaration},
		{"interface", true, true, TypeDeclaration},
		{"struct", true, true, TypeDeclaration},
		{"union", true, true, TypeDeclaration},
		{"enum", true, true, TypeDeclaration},
		{"abstract", true, true, ClassModifier},
		{"try", false, true, ErrorHandling},
		{"catch", false, true, ErrorHandling},
		{"except", false, true, ErrorHandling},
		{"finally", false, true, ErrorHandling},
		{"throw", false, false, ErrorHandling},
		{"delegate", false, false, Core},
		{"with", false, true, Core},
		{"private", false, false, AccessModifier},
		{"protected", false, false, AccessModifier},
		{"public", false, false, AccessModifier},
		{"final", false, false, AccessModifier},
		{"static", false, false, AccessModifier},
		{"unsafe", false, false, AccessModifier},
		{"let", false, false, VariableDeclaration},
		{"const", false, false, VariableDeclaration},
		{"var", false, false, VariableDeclaration},
		{"include", false, false, ModuleImport},
		{"import", false, false, ModuleImport},
		{"using", false, false, ModuleImport},
		{"from", false, false, ModuleImport},
		{"yield", false, false, AsyncControl},
		{"await", false, false, AsyncControl},
	} {
		table[kw.Name] = kw
		all = append(all, kw)
	}

	slices.SortFunc(all, func(a, b Keyword) int {
		return strings.Compare(a.Name, b.Name)
	})
}

// Lookup returns the keyword named name.
func Lookup(name string) (Keyword, bool) {
	kw, ok := table[name]
	return kw, ok
}

// IsKeyword reports whether the token text is a reserved word. The map
// index with a converted []byte does not allocate.
func IsKeyword(text []byte) bool {
	_, ok := table[string(text)]
	return ok
}

// All returns every keyword sorted by name.
func All() []Keyword {
	return slices.Clone(all)
}

// ByCategory returns the keywords in one category, sorted by name.
func ByCategory(c Category) []Keyword {
	var out []Keyword
	for _, kw := range all {
		if kw.Category == c {
			out = append(out, kw)
		}
	}
	return out
}

// Suggest returns up to limit keywords that look like name, closest first.
// It is meant for "did you mean" hints on misspelled identifiers, so an exact
// keyword yields no suggestions.
func Suggest(name string, limit int) []string {
	if name == "" || limit <= 0 {
		return nil
	}
	if _, ok := table[name]; ok {
		return nil
	}

	names := make([]string, len(all))
	for i, kw := range all {
		names[i] = kw.Name
	}

	// Subsequence matches first (clas -> class), then edit distance for typos
	// that are not subsequences (retrun -> return).
	ranks := fuzzy.RankFindFold(name, names)
	ranks = slices.DeleteFunc(ranks, func(r fuzzy.Rank) bool {
		return r.Distance > maxDistance(name)
	})
	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		return strings.Compare(a.Target, b.Target)
	})

	var out []string
	seen := map[string]bool{}
	for _, r := range ranks {
		out = append(out, r.Target)
		seen[r.Target] = true
	}

	type near struct {
		name string
		dist int
	}
	var close []near
	for _, candidate := range names {
		if seen[candidate] {
			continue
		}
		if d := fuzzy.LevenshteinDistance(strings.ToLower(name), candidate); d <= maxDistance(name) {
			close = append(close, near{candidate, d})
		}
	}
	slices.SortStableFunc(close, func(a, b near) int {
		if a.dist != b.dist {
			return a.dist - b.dist
		}
		return strings.Compare(a.name, b.name)
	})
	for _, n := range close {
		out = append(out, n.name)
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// maxDistance bounds how different a suggestion may be. Short names get
// less slack so "x" does not suggest every keyword.
func maxDistance(name string) int {
	switch n := len(name); {
	case n <= 2:
		return 1
	case n <= 5:
		return 2
	default:
		return 3
	}
}
