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
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Code 返回给定错误对应的错误码。
func Code(err error) int32 {
	if err == nil {
		return 0
	}

	cause := errors.Cause(err)
	switch specificErr := cause.(type) {
	case gardenError:
		return specificErr.code()

	default:
		if errors.Is(specificErr, context.Canceled) {
			return CanceledCode
		} else if errors.Is(specificErr, context.DeadlineExceeded) {
			return TimeoutCode
		} else {
			return errUnexpected.code()
		}
	}
}

func IsRetryableErr(err error) bool {
	if err, ok := err.(gardenError); ok {
		return err.retriable
	}

	return false
}

func IsCanceledOrTimeout(err error) bool {
	return errors.IsAny(err, context.Canceled, context.DeadlineExceeded)
}

func GetErrorType(err error) ErrorType {
	if merr, ok := err.(gardenError); ok {
		return merr.errType
	}

	return SystemError
}

func WrapErrAsInputError(err error) error {
	if merr, ok := err.(gardenError); ok {
		WithErrorType(InputError)(&merr)
		return merr
	}
	return err
}

// Schema 相关错误封装。
func WrapErrSchemaNotRegistered(typeName string, msg ...string) error {
	err := wrapFields(ErrSchemaNotRegistered, value("type", typeName))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrSchemaDuplicated(typeName string, msg ...string) error {
	err := wrapFields(ErrSchemaDuplicated, value("type", typeName))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrSchemaInvalid(typeName string, reason string, msg ...string) error {
	err := wrapFieldsWithDesc(ErrSchemaInvalid, reason, value("type", typeName))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// Value 相关错误封装。
func WrapErrValueNotMapping(got string, msg ...string) error {
	err := wrapFields(ErrValueNotMapping, value("got", got))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrValueParse(cause error, msg ...string) error {
	err := wrapFields(ErrValueParse, value("cause", cause))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrValueEncode(cause error, msg ...string) error {
	err := wrapFields(ErrValueEncode, value("cause", cause))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// Coercion 相关错误封装。
func WrapErrCoercionFailed(field string, got string, want string, msg ...string) error {
	err := wrapFields(ErrCoercionFailed,
		value("field", field),
		value("got", got),
		value("want", want),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrCoercionOverflow(field string, raw any, want string, msg ...string) error {
	err := wrapFields(ErrCoercionOverflow,
		value("field", field),
		value("raw", raw),
		value("want", want),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrCoercionBinarySize(field string, got int, want int, msg ...string) error {
	err := wrapFields(ErrCoercionBinarySize,
		value("field", field),
		value("got", got),
		value("want", want),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrCoercionNoEncoding(field string, msg ...string) error {
	err := wrapFields(ErrCoercionNoEncoding, value("field", field))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// 键解析相关错误封装。
func WrapErrKeyNotFound(field string, msg ...string) error {
	err := wrapFields(ErrKeyNotFound, value("field", field))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// Transform 相关错误封装。
func WrapErrModelRejected(typeName string, stage string, msg ...string) error {
	err := wrapFields(ErrModelRejected,
		value("type", typeName),
		value("stage", stage),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrCycleDetected(typeName string, msg ...string) error {
	err := wrapFields(ErrCycleDetected, value("type", typeName))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// State coder 相关错误封装。
func WrapErrCoderSlotMissing(slot string, msg ...string) error {
	err := wrapFields(ErrCoderSlotMissing, value("slot", slot))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrCoderSlotType(slot string, got string, want string, msg ...string) error {
	err := wrapFields(ErrCoderSlotType,
		value("slot", slot),
		value("got", got),
		value("want", want),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrCoderArchive(cause error, msg ...string) error {
	err := wrapFields(ErrCoderArchive, value("cause", cause))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// 批量解码相关错误封装。
func WrapErrBatchNotArray(got string, msg ...string) error {
	err := wrapFields(ErrBatchNotArray, value("got", got))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// 通用错误封装。
func WrapErrParameterInvalidMsg(fmtMsg string, args ...any) error {
	return wrapFieldsWithDesc(ErrParameterInvalid, fmt.Sprintf(fmtMsg, args...))
}

func WrapErrSystemPanic(detail string, msg ...string) error {
	err := wrapFieldsWithDesc(ErrSystemPanic, detail)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func wrapFields(err gardenError, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.detail = err.msg
	return err
}

func wrapFieldsWithDesc(err gardenError, desc string, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.msg += ": " + desc
	err.detail = err.msg
	return err
}

type errorField interface {
	String() string
}

type valueField struct {
	name  string
	value any
}

func value(name string, value any) valueField {
	return valueField{
		name,
		value,
	}
}

func (f valueField) String() string {
	return fmt.Sprintf("%s=%v", f.name, f.value)
}
