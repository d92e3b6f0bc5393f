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
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

const (
	CanceledCode int32 = 10000
	TimeoutCode  int32 = 10001
)

type ErrorType int32

const (
	SystemError ErrorType = 0
	InputError  ErrorType = 1
)

var ErrorTypeName = map[ErrorType]string{
	SystemError: "system_error",
	InputError:  "input_error",
}

func (err ErrorType) String() string {
	return ErrorTypeName[err]
}

// Define leaf errors here,
// WARN: take care to add new error,
// check whether you can use the errors below before adding a new one.
// Name: Err + related prefix + error name
var (
	// Schema 相关错误
	ErrSchemaNotRegistered = newGardenError("model type not registered", 1, false, WithErrorType(InputError))
	ErrSchemaDuplicated    = newGardenError("model type already registered", 2, false, WithErrorType(InputError))
	ErrSchemaInvalid       = newGardenError("invalid model declaration", 3, false, WithErrorType(InputError))

	// Value 相关错误
	ErrValueNotMapping = newGardenError("value is not a mapping", 100, false, WithErrorType(InputError))
	ErrValueParse      = newGardenError("failed to parse json into value tree", 101, false, WithErrorType(InputError))
	ErrValueEncode     = newGardenError("failed to encode value tree", 102, false)

	// Coercion 相关错误。仅在单个字段范围内可见，转换流程会就地吸收。
	ErrCoercionFailed      = newGardenError("value not coercible to declared kind", 200, false, WithErrorType(InputError))
	ErrCoercionOverflow    = newGardenError("numeric value out of representable range", 201, false, WithErrorType(InputError))
	ErrCoercionBinarySize  = newGardenError("binary payload size mismatch", 202, false, WithErrorType(InputError))
	ErrCoercionNoEncoding  = newGardenError("field value has no representable encoding", 203, false)

	// 键解析相关错误
	ErrKeyNotFound = newGardenError("no candidate key present", 300, false, WithErrorType(InputError))

	// Transform 相关错误
	ErrModelRejected = newGardenError("model rejected by transform hook", 400, false, WithErrorType(InputError))
	ErrCycleDetected = newGardenError("record already being serialized", 401, false)

	// State coder 相关错误
	ErrCoderSlotMissing = newGardenError("coder slot not found", 500, false, WithErrorType(InputError))
	ErrCoderSlotType    = newGardenError("coder slot has incompatible representation", 501, false, WithErrorType(InputError))
	ErrCoderArchive     = newGardenError("failed to archive coder content", 502, false)

	// 批量解码相关错误
	ErrBatchNotArray = newGardenError("batch input is not a json array", 600, false, WithErrorType(InputError))

	// 通用错误
	ErrParameterInvalid = newGardenError("invalid parameter", 700, false, WithErrorType(InputError))
	ErrSystemPanic      = newGardenError("system panic", 701, false)

	// Do NOT export this,
	// never allow programmer using this, keep only for converting unknown error to gardenError
	errUnexpected = newGardenError("unexpected error", (1<<16)-1, false)
)

type errorOption func(*gardenError)

func WithDetail(detail string) errorOption {
	return func(err *gardenError) {
		err.detail = detail
	}
}

func WithErrorType(etype ErrorType) errorOption {
	return func(err *gardenError) {
		err.errType = etype
	}
}

type gardenError struct {
	msg       string
	detail    string
	retriable bool
	errCode   int32
	errType   ErrorType
}

func newGardenError(msg string, code int32, retriable bool, options ...errorOption) gardenError {
	err := gardenError{
		msg:       msg,
		detail:    msg,
		retriable: retriable,
		errCode:   code,
	}

	for _, option := range options {
		option(&err)
	}
	return err
}

func (e gardenError) code() int32 {
	return e.errCode
}

func (e gardenError) Error() string {
	return e.msg
}

func (e gardenError) Detail() string {
	return e.detail
}

func (e gardenError) Is(err error) bool {
	cause := errors.Cause(err)
	if cause, ok := cause.(gardenError); ok {
		return e.errCode == cause.errCode
	}
	return false
}

type multiErrors struct {
	errs []error
}

func (e multiErrors) Unwrap() error {
	if len(e.errs) <= 1 {
		return nil
	}
	// To make merr work for multi errors,
	// we need cause of multi errors, which defined as the last error
	if len(e.errs) == 2 {
		return e.errs[1]
	}

	return multiErrors{
		errs: e.errs[1:],
	}
}

func (e multiErrors) Error() string {
	final := e.errs[0]
	for i := 1; i < len(e.errs); i++ {
		final = errors.Wrap(e.errs[i], final.Error())
	}
	return final.Error()
}

func (e multiErrors) Is(err error) bool {
	for _, item := range e.errs {
		if errors.Is(item, err) {
			return true
		}
	}
	return false
}

func Combine(errs ...error) error {
	errs = lo.Filter(errs, func(err error, _ int) bool { return err != nil })
	if len(errs) == 0 {
		return nil
	}
	return multiErrors{
		errs,
	}
}
