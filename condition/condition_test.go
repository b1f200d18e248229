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

package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoundTrip(t *testing.T) {
	known := []Condition{
		Ok, Accepted, Released, Modified,
		ConnectionForced, FramingError, ConnectionRedirect,
		WindowViolation, ErrantLink, HandleInUse, DetachForced, TransferLimitExceeded,
		MessageSizeExceeded, LinkRedirect, TransferRefused, Stolen,
		ResourceDeleted, ResourceLimitExceeded, ResourceLocked, PreconditionFailed, ResourceNameCollision,
		UnauthorizedAccess, NotAllowed,
		DecodeError, InvalidField, NotAccepted, Rejected,
		NotImplemented, NotModified, InternalError, IllegalState,
	}

	for _, cond := range known {
		t.Run(cond.String(), func(t *testing.T) {
			assert.Equal(t, cond, Parse(cond.String()))
			assert.False(t, cond.IsCustom())
		})
	}
}

func TestParseCustom(t *testing.T) {
	cond := Parse("vendor:something-else")
	assert.Equal(t, "vendor:something-else", cond.String())
	assert.True(t, cond.IsCustom())
	assert.Equal(t, CategoryCustom, cond.Category())
	assert.Equal(t, uint16(0), cond.CodeNum())
	assert.True(t, cond.IsError())
}

func TestResourceDeleted(t *testing.T) {
	cond := Parse("amqp:resource:deleted")
	assert.Equal(t, ResourceDeleted, cond)
	assert.Equal(t, "amqp:resource:deleted", cond.String())
	assert.Equal(t, CategoryResource, cond.Category())
	assert.True(t, cond.IsError())
	assert.Equal(t, uint16(404), cond.CodeNum())
}

func TestCategories(t *testing.T) {
	tests := []struct {
		cond     Condition
		category Category
	}{
		{Ok, CategorySuccess},
		{ConnectionForced, CategoryConnection},
		{WindowViolation, CategorySession},
		{TransferRefused, CategoryLink},
		{ResourceLocked, CategoryResource},
		{NotAllowed, CategoryAccess},
		{DecodeError, CategoryContent},
		{InternalError, CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.cond.String(), func(t *testing.T) {
			assert.Equal(t, tt.category, tt.cond.Category())
		})
	}
}

func TestCodeNums(t *testing.T) {
	tests := []struct {
		cond Condition
		code uint16
	}{
		{Ok, 200},
		{Accepted, 202},
		{Released, 200},
		{Modified, 200},
		{MessageSizeExceeded, 311},
		{DecodeError, 320},
		{UnauthorizedAccess, 403},
		{ResourceDeleted, 404},
		{ResourceNameCollision, 405},
		{ResourceLocked, 406},
		{InternalError, 500},
		{NotImplemented, 530},
		// 未显式分桶的规范错误统一 500
		{ConnectionForced, 500},
		{Stolen, 500},
	}

	for _, tt := range tests {
		t.Run(tt.cond.String(), func(t *testing.T) {
			assert.Equal(t, tt.code, tt.cond.CodeNum())
		})
	}
}

func TestIsSuccess(t *testing.T) {
	assert.True(t, Ok.IsSuccess())
	assert.True(t, Accepted.IsSuccess())
	assert.True(t, Released.IsSuccess())
	assert.True(t, Modified.IsSuccess())

	assert.False(t, InternalError.IsSuccess())
	assert.True(t, InternalError.IsError())
	assert.False(t, Parse("vendor:custom").IsSuccess())
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "Success", CategorySuccess.String())
	assert.Equal(t, "Resource", CategoryResource.String())
	assert.Equal(t, "Custom", CategoryCustom.String())
}
