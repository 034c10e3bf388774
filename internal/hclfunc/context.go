package hclfunc

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// NewEvalContext creates an evaluation context with Functions() and the given
// variables exposed under the 'var' namespace (var.name). variables may be nil.
func NewEvalContext(variables map[string]string) *hcl.EvalContext {
	ctx := &hcl.EvalContext{
		Functions: Functions(),
	}
	if len(variables) == 0 {
		return ctx
	}

	varMap := make(map[string]cty.Value, len(variables))
	for k, v := range variables {
		varMap[k] = cty.StringVal(v)
	}
	ctx.Variables = map[string]cty.Value{
		"var": cty.ObjectVal(varMap),
	}
	return ctx
}
