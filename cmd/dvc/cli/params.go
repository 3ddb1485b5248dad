// Copyright 2026 The DVC Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// FlagsFromParams builds a [pflag.FlagSet] bound to the tagged fields
// of params, which must be a pointer to a struct. Panics on a
// malformed params type: that is a programming error in the command
// definition, not runtime input.
//
// Fields are declared with three struct tags:
//
//   - flag:"name" or flag:"name,n" — the long name with an optional
//     single-character shorthand. Untagged fields are skipped.
//   - desc:"help text" — the flag description.
//   - default:"value" — the default, parsed per the field type; zero
//     value when omitted.
//
// Supported field types are string and bool — the two the command
// set uses. Embedded structs (like [JSONOutput]) contribute their
// own tagged fields.
func FlagsFromParams(name string, params any) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	if err := BindFlags(params, flagSet); err != nil {
		panic(fmt.Sprintf("cli.FlagsFromParams(%q): %v", name, err))
	}
	return flagSet
}

// BindFlags registers a pflag entry on flagSet for each tagged field
// of params. See [FlagsFromParams] for the tag grammar.
func BindFlags(params any, flagSet *pflag.FlagSet) error {
	value := reflect.ValueOf(params)
	if value.Kind() != reflect.Ptr || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("params must be a pointer to a struct, got %T", params)
	}
	return bindStructFields(value.Elem(), flagSet)
}

func bindStructFields(structValue reflect.Value, flagSet *pflag.FlagSet) error {
	structType := structValue.Type()

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldValue := structValue.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if err := bindStructFields(fieldValue, flagSet); err != nil {
				return fmt.Errorf("embedded %s: %w", field.Name, err)
			}
			continue
		}

		flagTag := field.Tag.Get("flag")
		if flagTag == "" {
			continue
		}
		name, shorthand, _ := strings.Cut(flagTag, ",")
		description := field.Tag.Get("desc")
		defaultString := field.Tag.Get("default")

		if !fieldValue.CanAddr() {
			return fmt.Errorf("field %s: not addressable", field.Name)
		}
		switch target := fieldValue.Addr().Interface().(type) {
		case *string:
			flagSet.StringVarP(target, name, shorthand, defaultString, description)
		case *bool:
			defaultValue := false
			if defaultString != "" {
				parsed, err := strconv.ParseBool(defaultString)
				if err != nil {
					return fmt.Errorf("field %s: default for --%s: %w", field.Name, name, err)
				}
				defaultValue = parsed
			}
			flagSet.BoolVarP(target, name, shorthand, defaultValue, description)
		default:
			return fmt.Errorf("field %s: unsupported type %s for flag --%s", field.Name, field.Type, name)
		}
	}

	return nil
}
