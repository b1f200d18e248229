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

package confengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const content = `
logger:
  stdout: true
  level: debug

connection:
  hostname: broker.local
  port: 5673
  containerId: file-app

network:
  enabled: true
  hostname: broker.local
  keepAlive: 5s
`

func TestLoadContent(t *testing.T) {
	config, err := LoadContent([]byte(content))
	require.NoError(t, err)

	assert.True(t, config.Has("logger"))
	assert.True(t, config.Has("connection"))
	assert.False(t, config.Has("missing"))
	assert.True(t, config.Enabled("network"))
	assert.False(t, config.Disabled("network"))
}

func TestUnpackLogger(t *testing.T) {
	config, err := LoadContent([]byte(content))
	require.NoError(t, err)

	opt, err := config.UnpackLogger()
	require.NoError(t, err)
	assert.True(t, opt.Stdout)
	assert.Equal(t, "debug", opt.Level)

	// 缺失 logger 段时返回默认值
	config, err = LoadContent([]byte("connection:\n  port: 1\n"))
	require.NoError(t, err)
	opt, err = config.UnpackLogger()
	require.NoError(t, err)
	assert.True(t, opt.Stdout)
	assert.Equal(t, "info", opt.Level)
}

func TestUnpackOptions(t *testing.T) {
	config, err := LoadContent([]byte(content))
	require.NoError(t, err)

	opts, err := config.UnpackOptions("connection")
	require.NoError(t, err)

	hostname, err := opts.GetString("hostname")
	require.NoError(t, err)
	assert.Equal(t, "broker.local", hostname)

	port, err := opts.GetUint16("port")
	require.NoError(t, err)
	assert.Equal(t, uint16(5673), port)

	// 缺失段返回空 Options
	opts, err = config.UnpackOptions("missing")
	require.NoError(t, err)
	assert.Equal(t, 0, len(opts))
}

func TestChild(t *testing.T) {
	config, err := LoadContent([]byte(content))
	require.NoError(t, err)

	child, err := config.Child("connection")
	require.NoError(t, err)
	assert.True(t, child.Has("hostname"))

	_, err = config.Child("missing")
	require.Error(t, err)
}

func TestMustChild(t *testing.T) {
	config, err := LoadContent([]byte(content))
	require.NoError(t, err)

	child := config.MustChild("connection")
	assert.True(t, child.Has("hostname"))

	assert.Panics(t, func() {
		config.MustChild("missing")
	})
}
