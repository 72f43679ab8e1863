/*
 * pool_test.go, part of idock.
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

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolRunsAllTasks(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	const n = 1000
	var done int64
	var cnt Counter
	cnt.Init(n)
	for i := 0; i < n; i++ {
		pool.Post(func() {
			atomic.AddInt64(&done, 1)
			cnt.Increment()
		})
	}
	cnt.Wait()
	assert.Equal(t, int64(n), atomic.LoadInt64(&done))
}

func TestCounterReusable(t *testing.T) {
	pool := NewPool(2)
	defer pool.Close()

	var cnt Counter
	for round := 0; round < 3; round++ {
		var done int64
		cnt.Init(10)
		for i := 0; i < 10; i++ {
			pool.Post(func() {
				atomic.AddInt64(&done, 1)
				cnt.Increment()
			})
		}
		cnt.Wait()
		assert.Equal(t, int64(10), done)
	}
}

func TestPoolCloseRefusesNewPosts(t *testing.T) {
	pool := NewPool(1)
	pool.Close()
	// Must neither panic nor deadlock.
	pool.Post(func() { t.Error("task ran on a closed pool") })
	pool.Close()
}

func TestCounterZero(t *testing.T) {
	var cnt Counter
	cnt.Init(0)
	cnt.Wait() // must not block
}
