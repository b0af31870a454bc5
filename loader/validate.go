package loader

import (
	"fmt"
	"strings"

	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/types"
)

// validate trims every rule of f and drops the ones with an empty target or
// value. It returns one message per dropped rule. Anything else is left for
// the tokenizer to judge.
func validate(f *types.File) []string {
	var problems []string
	kept := f.Rules[:0]
	for i, r := range f.Rules {
		r.Target = strings.TrimSpace(r.Target)
		r.Value = strings.TrimSpace(r.Value)
		switch {
		case r.Target == "":
			problems = append(problems, fmt.Sprintf("rule %d (%q): empty target", i+1, r.Value))
		case r.Value == "":
			problems = append(problems, fmt.Sprintf("rule %d (%s): empty value", i+1, r.Target))
		default:
			kept = append(kept, r)
		}
	}
	f.Rules = kept
	return problems
}
