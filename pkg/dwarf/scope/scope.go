// Package scope implements ScopeWalker: a depth-first visitor over a DIE
// subtree that keeps the chain of ancestors from the Compilation Unit root
// down to the current node on the call stack rather than a heap-allocated
// tree, so callers can answer "which lexical scopes contain this DIE"
// without building the whole tree first.
package scope

import (
	"errors"

	"github.com/Manu343726/dwarfkit/pkg/dwarf/die"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/dwerr"
)

// Verdict steers traversal after a PreFunc call: Descend continues into the
// node's children, Skip leaves its subtree unvisited, Abort unwinds the
// whole walk immediately.
type Verdict int

const (
	Descend Verdict = iota
	Skip
	Abort
)

func (v Verdict) String() string {
	switch v {
	case Descend:
		return "descend"
	case Skip:
		return "skip"
	case Abort:
		return "abort"
	default:
		return "unknown"
	}
}

// ErrAborted is returned by Walk when a PreFunc returned Abort. It is not
// itself an error in the DWARF sense — it's the signal a caller uses to
// stop the walk early, the same role fs.SkipAll plays in filepath.WalkDir.
var ErrAborted = errors.New("scope: walk aborted")

// PreFunc is called on entering a node, chain root-first ending at the
// node itself. Its Verdict decides whether the walk descends into the
// node's children.
type PreFunc func(depth int, chain []*die.Cursor) (Verdict, error)

// PostFunc is called after a node's children (if any were visited),
// with the same chain and depth PreFunc saw. A nil PostFunc is legal.
type PostFunc func(depth int, chain []*die.Cursor) error

// Walk depth-first visits root and its descendants, depth starting at 1
// for root itself. It returns ErrAborted if any PreFunc returned Abort,
// or the first error either callback produced.
func Walk(root *die.Cursor, pre PreFunc, post PostFunc) error {
	return walk(root, 1, nil, pre, post)
}

func walk(d *die.Cursor, depth int, chain []*die.Cursor, pre PreFunc, post PostFunc) error {
	chain = append(chain, d)

	verdict, err := pre(depth, chain)
	if err != nil {
		return err
	}
	if verdict == Abort {
		return ErrAborted
	}

	if verdict == Descend {
		hasChildren, err := d.HasChildren()
		if err != nil {
			return err
		}
		if hasChildren {
			child, err := d.FirstChild()
			if err != nil {
				return err
			}
			for child != nil {
				if err := walk(child, depth+1, chain, pre, post); err != nil {
					return err
				}
				next, err := child.NextSibling()
				if err != nil {
					return err
				}
				isNull, err := next.IsNull()
				if err != nil {
					return err
				}
				if isNull {
					child = nil
				} else {
					child = next
				}
			}
		}
	}

	if post != nil {
		return post(depth, chain)
	}
	return nil
}

// GetScopes finds target within root's subtree and returns the chain of
// DIEs enclosing it, target first and the Compilation Unit root last —
// the order elfutils's dwarf_getscopes_die builds by walking parent links
// from the match back up to the root. It fails with dwerr.NoEntry if
// target is never visited.
func GetScopes(root *die.Cursor, target *die.Cursor) ([]*die.Cursor, error) {
	var found []*die.Cursor

	pre := func(depth int, chain []*die.Cursor) (Verdict, error) {
		leaf := chain[len(chain)-1]
		if leaf.Unit == target.Unit && leaf.Offset == target.Offset {
			found = make([]*die.Cursor, len(chain))
			for i, d := range chain {
				found[len(chain)-1-i] = d
			}
			return Abort, nil
		}
		return Descend, nil
	}

	if err := Walk(root, pre, nil); err != nil && !errors.Is(err, ErrAborted) {
		return nil, err
	}
	if found == nil {
		return nil, dwerr.New(dwerr.KindNoEntry, "no DIE in this subtree matches the target DIE")
	}
	return found, nil
}
