// Package arena implements the bump allocator named ArenaAllocator in the
// reference design: a linked list of variably-sized superblocks with no
// individual free, torn down in one pass when the owning handle closes. It
// keeps the intended model: a handle-owned vector of blocks, handing out
// borrowed slices whose lifetime is tied to the handle.
package arena

import (
	"fmt"
	"os"
	"reflect"
	"unsafe"

	"github.com/Manu343726/dwarfkit/pkg/utils"
)

// defaultBlockSize is the minimum superblock size used when an Arena is
// constructed with New instead of NewSize.
const defaultBlockSize = 64 * 1024

// blockHeaderOverhead is a small slack reserved when sizing a block grown to
// fit an oversized single allocation, mirroring a "2*min_size + header"
// sizing rule.
const blockHeaderOverhead = 64

type block struct {
	buf  []byte
	prev *block
}

// terminate is called by the default OOM handler. It is a package variable,
// not a direct os.Exit call, purely so tests can override it to observe
// "the handler is terminal" without ending the test process.
var terminate = os.Exit

// Arena is a bump allocator of variable-sized blocks. All memory it hands
// out is released together when the Arena is discarded; there is no way to
// free an individual allocation.
type Arena struct {
	head       *block
	minSize    int
	maxTotal   int // 0 means unlimited
	total      int
	numBlocks  int
	oomHandler func(requested int)
}

// New creates an Arena using the default minimum block size.
func New() *Arena { return NewSize(defaultBlockSize) }

// NewSize creates an Arena whose superblocks are at least minSize bytes,
// growing only when a single allocation would not fit.
func NewSize(minSize int) *Arena {
	if minSize <= 0 {
		minSize = defaultBlockSize
	}
	a := &Arena{minSize: minSize, oomHandler: defaultOOMHandler}
	a.pushBlock(minSize)
	return a
}

// SetMaxTotal caps the cumulative number of bytes this Arena will ever hand
// out; exceeding it triggers the OOM handler. Zero (the default) means
// unlimited, deferring to the Go runtime's own allocator limits.
func (a *Arena) SetMaxTotal(max int) { a.maxTotal = max }

// SetOOMHandler overrides the handler invoked when an allocation cannot be
// satisfied. The handler is terminal: installing one that returns normally
// is a contract violation, not a supported use case.
func (a *Arena) SetOOMHandler(h func(requested int)) {
	if h != nil {
		a.oomHandler = h
	}
}

func defaultOOMHandler(requested int) {
	fmt.Fprintf(os.Stderr, "dwarfkit: arena out of memory, requested %d bytes\n", requested)
	terminate(1)
}

func (a *Arena) pushBlock(size int) bool {
	buf := make([]byte, 0, size)
	if cap(buf) < size {
		return false
	}
	a.head = &block{buf: buf, prev: a.head}
	a.numBlocks++
	return true
}

// Bytes carves n bytes out of the current head block, allocating a new
// block if the head does not have enough room left. The returned slice is
// zeroed and borrowed from the Arena: it must not outlive it.
func (a *Arena) Bytes(n int) []byte {
	if n < 0 {
		n = 0
	}
	if a.maxTotal > 0 && a.total+n > a.maxTotal {
		a.oomHandler(n)
		// oomHandler is documented as terminal; if a test override
		// returns anyway, fail the allocation rather than panic.
		return nil
	}
	if a.head == nil || cap(a.head.buf)-len(a.head.buf) < n {
		size := a.minSize
		if need := 2*n + blockHeaderOverhead; need > size {
			size = need
		}
		if !a.pushBlock(size) {
			a.oomHandler(n)
			return nil
		}
	}
	start := len(a.head.buf)
	a.head.buf = a.head.buf[:start+n]
	a.total += n
	return a.head.buf[start : start+n]
}

// Alloc bump-allocates space for one T, zero-initialized, and returns a
// pointer to it. The pointer is only valid for the Arena's lifetime.
//
// T must be pointer-free (no slice, map, string, chan, func, interface or
// pointer field, at any depth). The arena's backing storage is a []byte,
// a noscan allocation the garbage collector never traces into — a pointer
// stored inside it would not keep its target alive, and that target can be
// collected or reused while the arena-allocated value still references it.
// Alloc panics if T is not pointer-free; callers needing a pointer-bearing
// type should use a plain Go heap allocation instead.
func Alloc[T any](a *Arena) *T {
	if hasPointer(reflect.TypeOf((*T)(nil)).Elem()) {
		panic(fmt.Sprintf("arena: Alloc[%s]: type contains a pointer-bearing field, not safe to allocate from a noscan arena block", reflect.TypeOf((*T)(nil)).Elem()))
	}

	size := utils.Sizeof[T]()
	if size == 0 {
		size = 1
	}
	buf := a.Bytes(size)
	if buf == nil {
		return nil
	}
	return (*T)(unsafe.Pointer(&buf[0]))
}

// AllocSlice bump-allocates space for n zero-initialized Ts and returns a
// slice over them. The same pointer-free restriction as Alloc applies to T,
// for the same reason: the backing bytes are a noscan block the garbage
// collector won't trace into.
//
// Unlike Alloc, this is meant for the common case of a variable-length run
// of small pointer-free records (e.g. a parsed table's fixed-shape rows)
// whose count isn't known until the caller has finished building them up,
// so the caller typically accumulates into a normal slice first and copies
// the result into an AllocSlice once the final length is known.
func AllocSlice[T any](a *Arena, n int) []T {
	if n == 0 {
		return nil
	}
	if hasPointer(reflect.TypeOf((*T)(nil)).Elem()) {
		panic(fmt.Sprintf("arena: AllocSlice[%s]: type contains a pointer-bearing field, not safe to allocate from a noscan arena block", reflect.TypeOf((*T)(nil)).Elem()))
	}

	elemSize := utils.Sizeof[T]()
	if elemSize == 0 {
		elemSize = 1
	}
	buf := a.Bytes(elemSize * n)
	if buf == nil {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&buf[0])), n)
}

// hasPointer reports whether t contains a pointer, slice, map, string, chan,
// func or interface anywhere in its layout — anything the garbage collector
// would need to scan for, which a noscan arena block cannot provide.
func hasPointer(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.String,
		reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return true
	case reflect.Array:
		return hasPointer(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointer(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// NumBlocks reports how many superblocks the Arena currently owns, useful
// for verifying the teardown-is-O(#blocks) property.
func (a *Arena) NumBlocks() int { return a.numBlocks }

// Total reports the cumulative number of bytes handed out so far.
func (a *Arena) Total() int { return a.total }

// Release drops every block, making all previously returned slices/pointers
// unsafe to use. It is called once, by the owning handle's Close.
func (a *Arena) Release() {
	a.head = nil
	a.numBlocks = 0
	a.total = 0
}
