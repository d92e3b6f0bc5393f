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

// future 是 Future 的内部只读视图，供不关心具体类型的调用方使用。
type future interface {
	wait()
	OK() bool
	Err() error
}

// Future 表示协程池中一个异步任务的结果句柄。
type Future[T any] struct {
	ch    chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{
		ch: make(chan struct{}),
	}
}

func (future *Future[T]) wait() {
	<-future.ch
}

// Await 阻塞等待任务完成并返回其结果与错误。
func (future *Future[T]) Await() (T, error) {
	future.wait()
	return future.value, future.err
}

// Value 阻塞等待任务完成并返回其结果，忽略错误。
func (future *Future[T]) Value() T {
	future.wait()
	return future.value
}

// OK 在任务完成后报告其是否成功。
func (future *Future[T]) OK() bool {
	future.wait()
	return future.err == nil
}

// Err 阻塞等待任务完成并返回其错误。
func (future *Future[T]) Err() error {
	future.wait()
	return future.err
}

// Inner 返回完成通知通道，可用于 select。
func (future *Future[T]) Inner() <-chan struct{} {
	return future.ch
}

// Go 在新协程中执行 fn 并返回对应的 Future。
func Go[T any](fn func() (T, error)) *Future[T] {
	future := newFuture[T]()
	go func() {
		defer close(future.ch)
		future.value, future.err = fn()
	}()
	return future
}

// AwaitAll 等待所有 Future 完成，返回第一个出现的错误。
func AwaitAll[T future](futures ...T) error {
	for i := range futures {
		if !futures[i].OK() {
			return futures[i].Err()
		}
	}

	return nil
}
