package loader

import (
	"fmt"
	"log/slog"

	lua "github.com/yuin/gopher-lua"

	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/types"
)

// rawDistribution holds one Distribute call before compilation.
type rawDistribution struct {
	target string
	rules  lua.LValue
	where  string
}

// collector accumulates Distribute calls while a pack runs.
type collector struct {
	calls []rawDistribution
}

func (c *collector) add(target string, rules lua.LValue, where string) {
	c.calls = append(c.calls, rawDistribution{target: target, rules: rules, where: where})
}

// compile flattens the collected calls into rules, in call order and then
// table order. Values that are not strings are logged and skipped.
func compile(coll *collector) types.File {
	var f types.File
	for _, call := range coll.calls {
		for _, v := range ruleValues(call) {
			f.Rules = append(f.Rules, types.Rule{Target: call.target, Value: v})
		}
	}
	return f
}

func ruleValues(call rawDistribution) []string {
	switch v := call.rules.(type) {
	case lua.LString:
		return []string{string(v)}
	case *lua.LTable:
		out := make([]string, 0, v.MaxN())
		for i := 1; i <= v.MaxN(); i++ {
			s, ok := v.RawGetInt(i).(lua.LString)
			if !ok {
				slog.Warn("skipping rule value", "where", call.where, "target", call.target,
					"index", i, "type", v.RawGetInt(i).Type().String())
				continue
			}
			out = append(out, string(s))
		}
		return out
	default:
		slog.Warn("skipping rule value", "where", call.where, "target", call.target,
			"err", fmt.Errorf("rules must be a string or a list of strings, got %s", call.rules.Type()))
		return nil
	}
}
