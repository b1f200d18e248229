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

const (
	// App 应用程序名称
	App = "amqpd"

	// Version 应用程序版本
	Version = "v0.0.1"

	// DefaultHostname AMQP 默认主机
	DefaultHostname = "localhost"

	// DefaultPort AMQP 默认端口
	//
	// IANA 为 AMQP 1.0 分配的标准端口 5672（TLS 5671 不在本实现范围内）
	DefaultPort = 5672

	// FrameHeaderLength 帧头固定长度
	//
	// Size (4B) + DataOffset (1B) + FrameType (1B) + Channel (2B)
	FrameHeaderLength = 8
)
