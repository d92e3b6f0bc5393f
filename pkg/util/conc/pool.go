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

package conc

import (
	"fmt"
	"runtime"
	"sync"

	ants "github.com/panjf2000/ants/v2"

	"github.com/lk2023060901/model-garden-go/pkg/util/merr"
)

// Pool 是 ants 协程池的泛型封装，
// 任务通过 Future 返回结果而非回调。
type Pool[T any] struct {
	inner *ants.Pool
	opt   *poolOption
}

// NewPool 创建固定容量的协程池。
func NewPool[T any](cap int, opts ...PoolOption) *Pool[T] {
	opt := defaultPoolOption()
	for _, o := range opts {
		o(opt)
	}

	pool, err := ants.NewPool(cap, opt.antsOptions()...)
	if err != nil {
		panic(err)
	}

	return &Pool[T]{
		inner: pool,
		opt:   opt,
	}
}

// NewDefaultPool 创建容量为 CPU 核数的协程池。
func NewDefaultPool[T any]() *Pool[T] {
	return NewPool[T](runtime.GOMAXPROCS(0), WithPreAlloc(true))
}

// Submit 提交任务，返回其 Future。
func (pool *Pool[T]) Submit(method func() (T, error)) *Future[T] {
	future := newFuture[T]()
	err := pool.inner.Submit(func() {
		defer close(future.ch)
		// 回填 panic 信息，避免调用方永久阻塞在 Await 上。
		defer func() {
			if x := recover(); x != nil {
				future.err = merr.WrapErrSystemPanic(fmt.Sprint(x))
				if !pool.opt.concealPanic {
					panic(x)
				}
			}
		}()
		if pool.opt.preHandler != nil {
			pool.opt.preHandler()
		}
		res, err := method()
		future.value = res
		future.err = err
	})
	if err != nil {
		future.err = err
		close(future.ch)
	}

	return future
}

// Cap 返回协程池容量。
func (pool *Pool[T]) Cap() int {
	return pool.inner.Cap()
}

// Running 返回当前正在执行任务的 worker 数。
func (pool *Pool[T]) Running() int {
	return pool.inner.Running()
}

// Free 返回当前可用的 worker 数。
func (pool *Pool[T]) Free() int {
	return pool.inner.Free()
}

// Resize 调整协程池容量，非阻塞池不支持调整。
func (pool *Pool[T]) Resize(size int) error {
	if pool.opt.nonBlocking {
		return merr.WrapErrParameterInvalidMsg("cannot resize non-blocking pool")
	}
	if size <= 0 {
		return merr.WrapErrParameterInvalidMsg("cannot set pool size to %d", size)
	}
	pool.inner.Tune(size)
	return nil
}

// Release 等待所有任务结束后释放协程池。
func (pool *Pool[T]) Release() {
	pool.inner.Release()
}

var (
	batchPool     *Pool[any]
	batchPoolOnce sync.Once
)

// BatchPool 返回批量转换共用的协程池，按需懒加载。
func BatchPool() *Pool[any] {
	batchPoolOnce.Do(func() {
		batchPool = NewDefaultPool[any]()
	})
	return batchPool
}
