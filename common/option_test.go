// Copyright 2025 The amqpd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsGetters(t *testing.T) {
	opts := NewOptions()
	opts.Merge("port", "5672")
	opts.Merge("stdout", true)
	opts.Merge("hostname", "localhost")
	opts.Merge("timeout", "30s")
	opts.Merge("hosts", []string{"a", "b"})

	assert.True(t, opts.Has("port"))
	assert.False(t, opts.Has("missing"))

	n, err := opts.GetInt("port")
	require.NoError(t, err)
	assert.Equal(t, 5672, n)

	u16, err := opts.GetUint16("port")
	require.NoError(t, err)
	assert.Equal(t, uint16(5672), u16)

	b, err := opts.GetBool("stdout")
	require.NoError(t, err)
	assert.True(t, b)

	s, err := opts.GetString("hostname")
	require.NoError(t, err)
	assert.Equal(t, "localhost", s)

	d, err := opts.GetDuration("timeout")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)

	lst, err := opts.GetStringSlice("hosts")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, lst)

	_, err = opts.GetInt("hostname")
	require.Error(t, err)
}

func TestOptionsDecode(t *testing.T) {
	opts := NewOptions()
	opts.Merge("hostname", "broker.local")
	opts.Merge("port", "5673")
	opts.Merge("timeout", "15s")

	var config struct {
		Hostname string        `mapstructure:"hostname"`
		Port     uint16        `mapstructure:"port"`
		Timeout  time.Duration `mapstructure:"timeout"`
	}
	require.NoError(t, opts.Decode(&config))
	assert.Equal(t, "broker.local", config.Hostname)
	assert.Equal(t, uint16(5673), config.Port)
	assert.Equal(t, 15*time.Second, config.Timeout)
}
