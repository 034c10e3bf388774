// Package hclfunc provides the functions available inside opscheck.hcl
package hclfunc

import (
	"os"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// EnvFunc returns the value of an environment variable, or "" when unset.
//
//	token = env("VERCEL_TOKEN")
func EnvFunc() function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "varname", Type: cty.String},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			return cty.StringVal(os.Getenv(args[0].AsString())), nil
		},
	})
}

// CoalesceFunc returns the first non-empty string argument.
//
//	project = coalesce(env("VERCEL_PROJECT_ID"), env("VERCEL_PROJECT_NAME"), "audiojones")
func CoalesceFunc() function.Function {
	return function.New(&function.Spec{
		VarParam: &function.Parameter{
			Name:      "vals",
			Type:      cty.String,
			AllowNull: true,
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			for _, arg := range args {
				if arg.IsNull() {
					continue
				}
				if s := arg.AsString(); s != "" {
					return cty.StringVal(s), nil
				}
			}
			return cty.StringVal(""), nil
		},
	})
}

func stringFunc(name string, fn func(string) string) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: name, Type: cty.String},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			return cty.StringVal(fn(args[0].AsString())), nil
		},
	})
}

// Functions returns every function exposed to configuration files
func Functions() map[string]function.Function {
	return map[string]function.Function{
		"env":      EnvFunc(),
		"coalesce": CoalesceFunc(),
		"lower":    stringFunc("str", strings.ToLower),
		"upper":    stringFunc("str", strings.ToUpper),
		"trim":     stringFunc("str", strings.TrimSpace),
	}
}
