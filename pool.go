/*
 * pool.go, part of idock.
 *
 * Copyright 2024 Anna Nguyen <annanguyen99{at}gmailDOTcom>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package dock

import "sync"

// Pool is a fixed-size worker pool. Tasks are fire-and-forget; completion
// is tracked by the Counter a batch of tasks shares. Close drains the queue
// and joins the workers; a closed pool refuses further posts.
type Pool struct {
	tasks  chan func()
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// NewPool starts a pool of n workers. n must be at least 1.
func NewPool(n int) *Pool {
	p := &Pool{tasks: make(chan func(), 256)}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer p.wg.Done()
			for f := range p.tasks {
				f()
			}
		}()
	}
	return p
}

// Post queues f for execution. Posting to a closed pool is a no-op. The
// lock is held across the send so a racing Close cannot close the channel
// under a blocked sender.
func (p *Pool) Post(f func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.tasks <- f
}

// Close stops accepting tasks, drains the queue and joins all workers.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()
	close(p.tasks)
	p.wg.Wait()
}

// Counter counts task completions so a dispatcher can wait for a batch.
type Counter struct {
	mu   sync.Mutex
	cond *sync.Cond
	left int
}

// Init arms the counter for n completions. Must be called before posting
// the batch.
func (c *Counter) Init(n int) {
	c.mu.Lock()
	if c.cond == nil {
		c.cond = sync.NewCond(&c.mu)
	}
	c.left = n
	c.mu.Unlock()
}

// Increment records one completion.
func (c *Counter) Increment() {
	c.mu.Lock()
	c.left--
	if c.left <= 0 {
		c.cond.Broadcast()
	}
	c.mu.Unlock()
}

// Wait blocks until as many completions as armed have been recorded.
func (c *Counter) Wait() {
	c.mu.Lock()
	for c.left > 0 {
		c.cond.Wait()
	}
	c.mu.Unlock()
}

// SafePrint serializes writes to a shared stream so concurrent completion
// handlers do not interleave their lines.
type SafePrint struct {
	mu sync.Mutex
}

// Do runs f while holding the serialization lock.
func (s *SafePrint) Do(f func()) {
	s.mu.Lock()
	f()
	s.mu.Unlock()
}
