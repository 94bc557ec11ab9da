/*
 * Copyright (C) 2022 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */
package main

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/netobserv/prefix-resolver/pkg/api"
)

func iterate(output io.Writer, data interface{}, indent int) {
	newIndent := indent + 1
	d := reflect.ValueOf(data)
	switch d.Kind() {
	case reflect.Slice, reflect.Map:
		zeroElement := reflect.Zero(d.Type().Elem()).Interface()
		iterate(output, zeroElement, newIndent)
	case reflect.Ptr:
		// the pointed struct is printed at the same level
		zeroElement := reflect.Zero(d.Type().Elem()).Interface()
		iterate(output, zeroElement, indent)
	case reflect.Struct:
		for i := 0; i < d.NumField(); i++ {
			field := d.Type().Field(i)
			fieldName := strings.ReplaceAll(field.Tag.Get(api.TagYaml), ",omitempty", "")
			fieldDocTag := field.Tag.Get(api.TagDoc)
			fieldEnumTag := field.Tag.Get(api.TagEnum)

			if fieldEnumTag != "" {
				enumType := api.GetEnumReflectionTypeByFieldName(fieldEnumTag)
				fmt.Fprintf(output, "%s %s: (enum) %s\n", strings.Repeat(" ", 4*newIndent), fieldName, fieldDocTag)
				iterate(output, reflect.Zero(enumType).Interface(), newIndent)
				continue
			}
			if fieldDocTag == "" {
				continue
			}
			if strings.HasPrefix(fieldDocTag, "#") {
				fmt.Fprintf(output, "\n%s\n", fieldDocTag)
				fmt.Fprintf(output, "<pre>")
				fmt.Fprintf(output, "\n%s %s:\n", strings.Repeat(" ", 4*indent), fieldName)
				iterate(output, d.Field(i).Interface(), newIndent)
				fmt.Fprintf(output, "</pre>")
			} else {
				fmt.Fprintf(output, "%s %s: %s\n", strings.Repeat(" ", 4*newIndent), fieldName, fieldDocTag)
				iterate(output, d.Field(i).Interface(), newIndent)
			}
		}
	}
}

func main() {
	output := new(bytes.Buffer)
	iterate(output, api.API{}, 0)
	fmt.Print(output)
}
