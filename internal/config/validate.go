package config

import (
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mun-lang/munbench/internal/compiler"
	"github.com/mun-lang/munbench/internal/native"
)

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails on an empty tag or a nil func.
	_ = v.RegisterValidation("optlevel", func(fl validator.FieldLevel) bool {
		_, err := compiler.ParseOptLevel(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("has_source", containsPlaceholder(compiler.PlaceholderSource))
	_ = v.RegisterValidation("has_artifact", containsPlaceholder(native.PlaceholderArtifact))
	return v
}

// containsPlaceholder checks that some argument mentions placeholder.
func containsPlaceholder(placeholder string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		args, ok := fl.Field().Interface().([]string)
		if !ok {
			return false
		}
		return slices.ContainsFunc(args, func(arg string) bool {
			return strings.Contains(arg, placeholder)
		})
	}
}
