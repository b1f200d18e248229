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
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
)

// Options 松散的 key/value 配置集合
//
// 各层 Config 均可由 Options 构建 取值时做类型转换
type Options map[string]any

func NewOptions() Options {
	return make(Options)
}

func (o Options) Has(k string) bool {
	_, ok := o[k]
	return ok
}

func (o Options) GetInt(k string) (int, error) {
	return cast.ToIntE(o[k])
}

func (o Options) GetUint16(k string) (uint16, error) {
	return cast.ToUint16E(o[k])
}

func (o Options) GetUint32(k string) (uint32, error) {
	return cast.ToUint32E(o[k])
}

func (o Options) GetBool(k string) (bool, error) {
	return cast.ToBoolE(o[k])
}

func (o Options) GetString(k string) (string, error) {
	return cast.ToStringE(o[k])
}

func (o Options) GetDuration(k string) (time.Duration, error) {
	return cast.ToDurationE(o[k])
}

func (o Options) GetStringSlice(k string) ([]string, error) {
	return cast.ToStringSliceE(o[k])
}

func (o Options) Merge(k string, v any) {
	o[k] = v
}

// Decode 将 Options 解析至结构体 字段匹配遵循 mapstructure 规则
//
// 允许弱类型转换 时间字段支持 "30s" 形式的字符串
func (o Options) Decode(to any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           to,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(map[string]any(o))
}
