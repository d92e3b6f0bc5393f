// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package merr

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/suite"
)

type ErrSuite struct {
	suite.Suite
}

func (s *ErrSuite) TestCode() {
	err := WrapErrSchemaNotRegistered("book")
	errors.Wrap(err, "failed to build schema")
	s.ErrorIs(err, ErrSchemaNotRegistered)
	s.Equal(Code(ErrSchemaNotRegistered), Code(err))
	s.Equal(TimeoutCode, Code(context.DeadlineExceeded))
	s.Equal(CanceledCode, Code(context.Canceled))
	s.Equal(errUnexpected.errCode, Code(errUnexpected))

	sameCodeErr := newGardenError("new error", ErrSchemaNotRegistered.errCode, false)
	s.True(sameCodeErr.Is(ErrSchemaNotRegistered))
}

func (s *ErrSuite) TestErrorType() {
	s.Equal(InputError, GetErrorType(ErrCoercionFailed))
	s.Equal(SystemError, GetErrorType(ErrCycleDetected))
	s.Equal(SystemError, GetErrorType(errors.New("plain")))

	marked := WrapErrAsInputError(ErrCycleDetected)
	s.Equal(InputError, GetErrorType(marked))
}

func (s *ErrSuite) TestWrap() {
	// Schema 相关错误。
	s.ErrorIs(WrapErrSchemaNotRegistered("book", "decode failed"), ErrSchemaNotRegistered)
	s.ErrorIs(WrapErrSchemaDuplicated("book"), ErrSchemaDuplicated)
	s.ErrorIs(WrapErrSchemaInvalid("book", "missing constructor"), ErrSchemaInvalid)

	// Value 相关错误。
	s.ErrorIs(WrapErrValueNotMapping("array", "top-level decode"), ErrValueNotMapping)
	s.ErrorIs(WrapErrValueParse(errors.New("unexpected token")), ErrValueParse)
	s.ErrorIs(WrapErrValueEncode(errors.New("bad float")), ErrValueEncode)

	// Coercion 相关错误。
	s.ErrorIs(WrapErrCoercionFailed("page", "string", "int"), ErrCoercionFailed)
	s.ErrorIs(WrapErrCoercionOverflow("page", 1e300, "int"), ErrCoercionOverflow)
	s.ErrorIs(WrapErrCoercionBinarySize("size", 4, 16), ErrCoercionBinarySize)
	s.ErrorIs(WrapErrCoercionNoEncoding("ratio"), ErrCoercionNoEncoding)

	// 键解析相关错误。
	s.ErrorIs(WrapErrKeyNotFound("bookID"), ErrKeyNotFound)

	// Transform 相关错误。
	s.ErrorIs(WrapErrModelRejected("book", "post-decode"), ErrModelRejected)
	s.ErrorIs(WrapErrCycleDetected("node"), ErrCycleDetected)

	// State coder 相关错误。
	s.ErrorIs(WrapErrCoderSlotMissing("name"), ErrCoderSlotMissing)
	s.ErrorIs(WrapErrCoderSlotType("pages", "string", "int"), ErrCoderSlotType)
	s.ErrorIs(WrapErrCoderArchive(errors.New("marshal failed")), ErrCoderArchive)

	// 批量解码相关错误。
	s.ErrorIs(WrapErrBatchNotArray("object"), ErrBatchNotArray)
}

func (s *ErrSuite) TestCombine() {
	var (
		errFirst  = errors.New("first")
		errSecond = errors.New("second")
		errThird  = errors.New("third")
	)

	err := Combine(errFirst, errSecond)
	s.True(errors.Is(err, errFirst))
	s.True(errors.Is(err, errSecond))
	s.False(errors.Is(err, errThird))

	s.Equal("first: second", err.Error())
}

func (s *ErrSuite) TestCombineWithNil() {
	err := errors.New("non-nil")

	err = Combine(nil, err)
	s.NotNil(err)
}

func (s *ErrSuite) TestCombineOnlyNil() {
	err := Combine(nil, nil)
	s.Nil(err)
}

func (s *ErrSuite) TestCombineCode() {
	err := Combine(WrapErrKeyNotFound("page"), WrapErrSchemaNotRegistered("book"))
	s.Equal(Code(ErrSchemaNotRegistered), Code(err))
}

func TestErrors(t *testing.T) {
	suite.Run(t, new(ErrSuite))
}
