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
package test

import (
	"bytes"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/netobserv/prefix-resolver/pkg/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// InitConfig reads a YAML configuration the way the command does, then applies
// the defaults and validates it.
func InitConfig(t *testing.T, conf string) (*viper.Viper, config.Options) {
	var json = jsoniter.ConfigCompatibleWithStandardLibrary
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewReader([]byte(conf))))

	b, err := json.Marshal(v.AllSettings())
	require.NoError(t, err)
	opts := config.NewOptions()
	require.NoError(t, config.JsonUnmarshalStrict(b, &opts))

	out, err := config.ParseConfig(&opts)
	require.NoError(t, err)
	return v, out
}
