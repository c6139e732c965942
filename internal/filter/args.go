package filter

import "strings"

// Input is one file plus the filter spec bound to it. A nil Spec
// means the invocation's global spec applies.
type Input struct {
	Path string
	Spec *Spec
}

// SpecOr returns the input's own spec, or the global fallback.
func (in Input) SpecOr(global *Spec) *Spec {
	if in.Spec != nil {
		return in.Spec
	}
	return global
}

// ParseArgs splits the positional argument list into input files and
// filter specs. A token before any file name becomes the global
// default; a token right after a file name binds to that file.
// Multiple tokens in the same position merge in order. A token that
// fails to parse is dropped and reported; the rest of the invocation
// proceeds without it.
func ParseArgs(args []string) ([]Input, *Spec, []error) {
	var inputs []Input
	var global *Spec
	var errs []error

	for _, arg := range args {
		if !strings.HasPrefix(arg, "+") {
			inputs = append(inputs, Input{Path: arg})
			continue
		}
		spec, err := ParseToken(arg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(inputs) == 0 {
			global = merge(global, spec)
		} else {
			last := &inputs[len(inputs)-1]
			last.Spec = merge(last.Spec, spec)
		}
	}
	return inputs, global, errs
}

// PropagateStrip applies the historical global strip toggle: one '++'
// token anywhere in the invocation makes every spec strip. Must run
// before any per-file filtering.
func PropagateStrip(global *Spec, inputs []Input) {
	strip := global != nil && global.Strip
	for _, in := range inputs {
		strip = strip || (in.Spec != nil && in.Spec.Strip)
	}
	if !strip {
		return
	}
	if global != nil {
		global.Strip = true
	}
	for _, in := range inputs {
		if in.Spec != nil {
			in.Spec.Strip = true
		}
	}
}
