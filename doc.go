/*
Package containers is the root of a small library of generic, arena-backed
container engines.

Containers

Three engines are provided, each in its own package:

	list       circular doubly linked list with one sentinel
	avl        AVL tree with cached minimum and maximum
	hashtable  bucket array over one shared list ring

and two map adapters on top of them:

	omap       ordered map over avl
	umap       unordered map over hashtable

All engines allocate their nodes from a pluggable arena (package arena) and
address them with integer handles instead of pointers. Containers which share
an arena may exchange nodes or their complete state without copying values.

_________________________________________________________________________

Iterators

Iterators denote nodes, and they are registered with the container they point
into (package registry). Structural mutation invalidates exactly the
iterators whose node disappears: erasing a node orphans the iterators
denoting it and leaves every other iterator valid. Operations which move nodes
between containers, like tree merges or whole-container swaps, take the
iterators along.

The registry refers to iterators through weak pointers. Dropping an iterator
is therefore always safe; calling Release merely unregisters it earlier.

Using an orphaned iterator for anything but Valid, Equal or Release is a
programming error and panics. Running out of node storage is not: it is
reported as an error, and single-value inserts leave the container unchanged.

_________________________________________________________________________

Concurrency

Containers are not synchronized. Concurrent readers are fine as long as no
writer is active; every mutation, including creating or releasing iterators,
needs exclusive access to the container.

_________________________________________________________________________

BSD 3-Clause License

Copyright (c) 2020–26, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are met:

1. Redistributions of source code must retain the above copyright notice, this
list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright notice,
this list of conditions and the following disclaimer in the documentation
and/or other materials provided with the distribution.

3. Neither the name of the copyright holder nor the names of its
contributors may be used to endorse or promote products derived from
this software without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

*/
package containers

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

// ContainerError is an error type for the containers module.
type ContainerError string

func (e ContainerError) Error() string {
	return string(e)
}

// ErrKeyNotFound is flagged by map lookups which require a key to be present.
const ErrKeyNotFound = ContainerError("key not found")
