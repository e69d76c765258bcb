//go:build mpi

package mpi

// This header is almost the same as the one used by
// github.com/marcusthierfelder/mpi with some minor changes as well as a
// changes to the way that compilation is done. I'd import this package like
// normal, but these changes impact the underlying type system and compilation
// instructions, so that's not possible. As such, here is his license:
//
// Copyright (c) 2017 Marcus Thierfelder
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// NOTE: Use
// $ mpicc --showme:compile
// $ mpicc --showme:link
// To figure out CFLAGS and LDFLAGS, respectively

/*
#cgo LDFLAGS: -pthread -L/usr/lib/x86_64-linux-gnu/openmpi/lib -lmpi
#cgo CFLAGS: -std=gnu99 -Wall -I/usr/lib/x86_64-linux-gnu/openmpi/include/openmpi -I/usr/lib/x86_64-linux-gnu/openmpi/include -pthread
#include <mpi.h>
#include <stdlib.h>

MPI_Comm get_MPI_COMM_WORLD() {
    return (MPI_Comm)(MPI_COMM_WORLD);
}

MPI_Datatype get_MPI_DOUBLE() {
    return (MPI_Datatype)MPI_DOUBLE;
}

MPI_Op get_MPI_MAX() {
    return (MPI_Op)MPI_MAX;
}
*/
import "C"

import (
	"errors"
	"unsafe"
)

// Enabled is true when parkit was built against a real MPI library.
const Enabled = true

var (
	commWorld C.MPI_Comm
	float64Type C.MPI_Datatype
	opMax C.MPI_Op
)

// Init starts MPI. It must be called before anything else in this package.
func Init() error {
	if err := processError(C.MPI_Init(nil, nil)); err != nil { return err }
	commWorld = C.get_MPI_COMM_WORLD()
	float64Type = C.get_MPI_DOUBLE()
	opMax = C.get_MPI_MAX()
	return nil
}

// Finalize shuts MPI down.
func Finalize() error {
	return processError(C.MPI_Finalize())
}

// Rank returns this process's rank in the world communicator.
func (*Comm) Rank() int {
	n := C.int(-1)
	if processError(C.MPI_Comm_rank(commWorld, &n)) != nil { return -1 }
	return int(n)
}

// Size returns the number of processes in the world communicator.
func (*Comm) Size() int {
	n := C.int(-1)
	if processError(C.MPI_Comm_size(commWorld, &n)) != nil { return -1 }
	return int(n)
}

func (*Comm) Barrier() error {
	return processError(C.MPI_Barrier(commWorld))
}

// AllreduceMax replaces every element of x with its maximum across all ranks.
func (*Comm) AllreduceMax(x []float64) error {
	if len(x) == 0 { return nil }
	recv := make([]float64, len(x))
	err := C.MPI_Allreduce(unsafe.Pointer(&x[0]), unsafe.Pointer(&recv[0]),
		C.int(len(x)), float64Type, opMax, commWorld)
	if err := processError(err); err != nil { return err }
	copy(x, recv)
	return nil
}

func processError(err C.int) error {
	if err == 0 { return nil }

	buf := make([]C.char, C.MPI_MAX_ERROR_STRING)
	n := C.int(0)
	C.MPI_Error_string(err, &buf[0], &n)
	return errors.New("mpi: " + C.GoString(&buf[0]))
}
