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

package transport

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/amqpd/amqpd/common"
	"github.com/amqpd/amqpd/errs"
)

// Builder 构建并建立 Transport 连接
type Builder struct {
	hostname string
	port     uint16
	timeout  time.Duration
}

func NewBuilder() *Builder {
	return &Builder{
		hostname: common.DefaultHostname,
		port:     common.DefaultPort,
		timeout:  30 * time.Second,
	}
}

func (b *Builder) Hostname(hostname string) *Builder {
	b.hostname = hostname
	return b
}

func (b *Builder) Port(port uint16) *Builder {
	b.port = port
	return b
}

func (b *Builder) Timeout(timeout time.Duration) *Builder {
	b.timeout = timeout
	return b
}

// Connect 按配置的超时建连 超时转换为 timeout 错误
func (b *Builder) Connect(ctx context.Context) (*Transport, error) {
	dialer := &net.Dialer{Timeout: b.timeout}

	addr := fmt.Sprintf("%s:%d", b.hostname, b.port)
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, errs.Timeoutf("connection timeout: %s", addr)
		}
		return nil, errs.Wrapf(errs.KindConnection, err, "connect %s failed", addr)
	}
	return New(conn), nil
}
