/*
Copyright The Ratify Authors.
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package syncutil

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

var errPoolCompleted = errors.New("pool has already been completed")

// WorkerPool runs tasks with bounded concurrency and collects their results
// in submission order.
type WorkerPool[Result any] struct {
	eg    *errgroup.Group
	egctx context.Context

	// slots limits the number of tasks running at once.
	slots chan struct{}

	results   []Result
	resultsMu sync.Mutex

	// hasWaited is used to ensure Wait() can only be called once
	hasWaited atomic.Bool
}

// NewWorkerPool creates a worker pool running at most size tasks at once.
// If size is less than or equal to 0, it defaults to 1.
//
// The returned context is canceled as soon as a task fails or Wait returns.
func NewWorkerPool[Result any](ctx context.Context, size int) (*WorkerPool[Result], context.Context) {
	if size <= 0 {
		size = 1
	}
	eg, egCtx := errgroup.WithContext(ctx)
	return &WorkerPool[Result]{
		eg:    eg,
		egctx: egCtx,
		slots: make(chan struct{}, size),
	}, egCtx
}

// Go starts task once a slot is free, blocking until then.
//
// It returns an error if the pool has already been completed or if the
// context is done.
func (p *WorkerPool[Result]) Go(task func() (Result, error)) error {
	if p.hasWaited.Load() {
		return errPoolCompleted
	}

	// check cancellation first so that a free slot never wins over it.
	select {
	case <-p.egctx.Done():
		return context.Cause(p.egctx)
	default:
	}

	select {
	case <-p.egctx.Done():
		return context.Cause(p.egctx)
	case p.slots <- struct{}{}:
	}

	// reserve the result position before the task starts.
	p.resultsMu.Lock()
	idx := len(p.results)
	var zero Result
	p.results = append(p.results, zero)
	p.resultsMu.Unlock()

	p.eg.Go(func() error {
		defer func() {
			<-p.slots
		}()

		result, err := task()

		p.resultsMu.Lock()
		p.results[idx] = result
		p.resultsMu.Unlock()
		return err
	})
	return nil
}

// Wait blocks until all submitted tasks have completed and returns their
// results in submission order along with the first error encountered.
func (p *WorkerPool[Result]) Wait() ([]Result, error) {
	if !p.hasWaited.CompareAndSwap(false, true) {
		return nil, errors.New("WorkerPool.Wait() can only be called once")
	}
	err := p.eg.Wait()
	return p.results, err
}
