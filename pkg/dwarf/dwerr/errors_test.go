package dwerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ClassifiesAsItsKind(t *testing.T) {
	err := New(KindInvalidDwarf, "unit length %d exceeds section", 1234)
	require.Error(t, err)
	assert.ErrorIs(t, err, InvalidDwarf)
	assert.Equal(t, KindInvalidDwarf, Classify(err))
	assert.Contains(t, err.Error(), "unit length 1234")
}

func TestWrap_PreservesCauseAndKind(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(KindIOError, cause, "reading section %q", ".debug_info")

	assert.ErrorIs(t, err, IOError)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindIOError, Classify(err))
}

func TestPropagationDoesNotRewrap(t *testing.T) {
	inner := New(KindNoMatch, "address 0x%x", 0xdeadbeef)

	// Even when an intermediate layer adds a wrapping layer of its own, the
	// Kind is unchanged.
	outer := fmt.Errorf("addr_die: %w", inner)

	assert.Equal(t, KindNoMatch, Classify(outer))
	assert.ErrorIs(t, outer, NoMatch)
}

func TestClassify_UnrelatedErrorIsKindNone(t *testing.T) {
	assert.Equal(t, KindNone, Classify(errors.New("boom")))
}

func TestKindString_CoversTaxonomy(t *testing.T) {
	cases := map[Kind]string{
		KindInvalidDwarf:     "INVALID_DWARF",
		KindNoEntry:          "NO_ENTRY",
		KindAddrOutOfRange:   "ADDR_OUTOFRANGE",
		KindNoMem:            "NOMEM",
		KindWrongOrderEhdr:   "WRONG_ORDER_EHDR",
		KindInvalidReference: "INVALID_REFERENCE",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
}
