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

package types

import (
	"github.com/amqpd/amqpd/condition"
)

// Error AMQP 描述性错误 由对端在 performative 中携带
type Error struct {
	Condition   condition.Condition
	Description string
	Info        Map
}

func NewError(cond condition.Condition) *Error {
	return &Error{Condition: cond}
}

func (e *Error) WithDescription(s string) *Error {
	e.Description = s
	return e
}

func (e *Error) WithInfo(info Map) *Error {
	e.Info = info
	return e
}

func (e *Error) Error() string {
	if e.Description == "" {
		return e.Condition.String()
	}
	return e.Condition.String() + ": " + e.Description
}
