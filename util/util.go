// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"fmt"
	"log"
	"reflect"
	"runtime/debug"

	"github.com/mitchellh/mapstructure"
)

// PanicHandler handles panic recovery and logging.
// It can be called directly with recover() without checking for nil first.
// Example usage:
//
//	defer func() {
//	    util.PanicHandler("operation name", recover())
//	}()
func PanicHandler(debugStr string, recoverVal any) error {
	if recoverVal == nil {
		return nil
	}
	log.Printf("[panic] in %s: %v\n", debugStr, recoverVal)
	debug.PrintStack()
	if err, ok := recoverVal.(error); ok {
		return fmt.Errorf("panic in %s: %w", debugStr, err)
	}
	return fmt.Errorf("panic in %s: %v", debugStr, recoverVal)
}

// MapToStruct decodes a props map into the struct pointed to by out, using
// "json" tags for field names.  String values decode into any field whose
// type implements encoding.TextUnmarshaler.
func MapToStruct(in map[string]any, out any) error {
	outValue := reflect.ValueOf(out)
	if outValue.Kind() != reflect.Ptr {
		return fmt.Errorf("out parameter must be a pointer, got %v", outValue.Kind())
	}
	if outValue.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("out parameter must be a pointer to struct, got pointer to %v", outValue.Elem().Kind())
	}
	dconfig := &mapstructure.DecoderConfig{
		Result:     out,
		TagName:    "json",
		DecodeHook: mapstructure.TextUnmarshallerHookFunc(),
	}
	decoder, err := mapstructure.NewDecoder(dconfig)
	if err != nil {
		return err
	}
	return decoder.Decode(in)
}
