// Package filter reduces a classified byte stream to the regions a
// user asked to see. Filter tokens start with one or two '+'
// characters followed by a comma-separated pattern list; a pattern
// wrapped in /…/ is a regular expression matched against the whole
// label name, anything else is a literal.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/ZacharyZcR/elfplot/internal/elf"
)

// Pattern matches region label names either literally or as an
// anchored regular expression.
type Pattern struct {
	raw string
	re  *regexp.Regexp // nil for literal patterns
}

// Matches reports whether the pattern accepts the label name.
func (p Pattern) Matches(name string) bool {
	if p.re != nil {
		return p.re.MatchString(name)
	}
	return p.raw == name
}

// String returns the pattern as written on the command line.
func (p Pattern) String() string { return p.raw }

// Spec is one parsed filter token: an ordered pattern list plus the
// strip flag ('++' tokens remove non-matching regions instead of
// dimming them).
type Spec struct {
	Patterns []Pattern
	Strip    bool
}

// Empty reports whether the spec constrains nothing. An empty spec
// highlights every region.
func (s *Spec) Empty() bool { return s == nil || len(s.Patterns) == 0 }

func (s *Spec) matches(name string) bool {
	return lo.SomeBy(s.Patterns, func(p Pattern) bool { return p.Matches(name) })
}

// BadPatternError reports an invalid regular expression inside a
// filter token.
type BadPatternError struct {
	Token   string
	Pattern string
	Err     error
}

// Error implements the error interface.
func (e *BadPatternError) Error() string {
	return fmt.Sprintf("filter token %q: bad pattern %s: %v", e.Token, e.Pattern, e.Err)
}

// Unwrap returns the regexp compilation error.
func (e *BadPatternError) Unwrap() error { return e.Err }

// ParseToken parses a "+pat,pat,..." or "++pat,..." token.
func ParseToken(tok string) (*Spec, error) {
	body, ok := strings.CutPrefix(tok, "+")
	if !ok {
		return nil, fmt.Errorf("filter token %q does not start with '+'", tok)
	}
	spec := &Spec{}
	if rest, doubled := strings.CutPrefix(body, "+"); doubled {
		spec.Strip = true
		body = rest
	}

	for _, raw := range strings.Split(body, ",") {
		if raw == "" {
			continue
		}
		if len(raw) >= 2 && strings.HasPrefix(raw, "/") && strings.HasSuffix(raw, "/") {
			// Full-pattern match, not substring: anchor the expression.
			re, err := regexp.Compile("^(?:" + raw[1:len(raw)-1] + ")$")
			if err != nil {
				return nil, &BadPatternError{Token: tok, Pattern: raw, Err: err}
			}
			spec.Patterns = append(spec.Patterns, Pattern{raw: raw, re: re})
			continue
		}
		spec.Patterns = append(spec.Patterns, Pattern{raw: raw})
	}
	return spec, nil
}

// merge folds src into dst, preserving pattern order.
func merge(dst, src *Spec) *Spec {
	if dst == nil {
		return src
	}
	dst.Patterns = append(dst.Patterns, src.Patterns...)
	dst.Strip = dst.Strip || src.Strip
	return dst
}

// View is a filtered region with its rendering state.
type View struct {
	Region      elf.Region
	Highlighted bool
}

// Apply resolves the spec against a region sequence. With no patterns
// every region comes back highlighted. With Strip set, non-matching
// regions are removed from the sequence instead of dimmed.
func Apply(regions []elf.Region, spec *Spec) []View {
	views := lo.Map(regions, func(r elf.Region, _ int) View {
		return View{Region: r, Highlighted: spec.Empty() || spec.matches(r.Label.Canonical())}
	})
	if spec != nil && spec.Strip {
		views = lo.Filter(views, func(v View, _ int) bool { return v.Highlighted })
	}
	return views
}
