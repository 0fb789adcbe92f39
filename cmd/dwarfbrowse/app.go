package dwarfbrowse

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/Manu343726/dwarfkit/pkg/dwarf"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/attr"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/die"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/format"
	"github.com/Manu343726/dwarfkit/pkg/utils"
)

// browser is the tview application state: a DIE tree on the left, an
// attribute panel on the right, over one open dwarf.Handle.
type browser struct {
	path string
	h    *dwarf.Handle

	app    *tview.Application
	tree   *tview.TreeView
	detail *tview.TextView
}

func newBrowser(path string, h *dwarf.Handle) *browser {
	return &browser{path: path, h: h, app: tview.NewApplication()}
}

// Run builds the widget tree and blocks until the user quits (q or Ctrl-C).
func (b *browser) Run() error {
	root := tview.NewTreeNode(b.path).SetColor(tcell.ColorYellow)
	b.tree = tview.NewTreeView().SetRoot(root).SetCurrentNode(root)

	if err := b.loadCompilationUnits(root); err != nil {
		return err
	}

	b.detail = tview.NewTextView().SetDynamicColors(true).SetWrap(true)
	b.detail.SetBorder(true).SetTitle("attributes")
	b.tree.SetBorder(true).SetTitle("DIE tree")

	b.tree.SetSelectedFunc(b.onSelect)
	b.tree.SetChangedFunc(b.onSelect)

	flex := tview.NewFlex().
		AddItem(b.tree, 0, 1, true).
		AddItem(b.detail, 0, 2, false)

	b.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Rune() == 'q' {
			b.app.Stop()
			return nil
		}
		return event
	})

	return b.app.SetRoot(flex, true).SetFocus(b.tree).Run()
}

// cuNode remembers which *die.Cursor a tree node was built for, so
// onSelect/expansion can resolve it without re-walking from the root.
type cuNode struct {
	cursor   *die.Cursor
	expanded bool
}

// loadCompilationUnits enumerates every Compilation Unit and adds one
// collapsed tree node per unit, its children populated lazily on first
// expansion the same way cmd/cpu/debug.go's disassembly view only decodes
// the instructions actually scrolled into view.
func (b *browser) loadCompilationUnits(root *tview.TreeNode) error {
	offset := uint64(0)
	index := 0
	for {
		unit, next, done, err := b.h.NextCU(offset)
		if err != nil {
			return fmt.Errorf("dwarfbrowse: reading compilation unit at offset %d: %w", offset, err)
		}
		if done {
			break
		}

		cur := b.h.Root(unit)
		label := fmt.Sprintf("CU %d (offset 0x%08x)", index, offset)
		node := tview.NewTreeNode(label).SetColor(tcell.ColorGreen).SetSelectable(true)
		node.SetReference(&cuNode{cursor: cur})
		node.SetExpanded(false)
		root.AddChild(node)

		offset = next
		index++
	}
	b.tree.GetRoot().SetExpanded(true)
	return nil
}

// onSelect populates a node's children on first visit (lazy expansion) and
// refreshes the attribute panel for whatever DIE is now current.
func (b *browser) onSelect(node *tview.TreeNode) {
	ref, ok := node.GetReference().(*cuNode)
	if !ok {
		return
	}

	if !ref.expanded {
		b.expandChildren(node, ref.cursor)
		ref.expanded = true
	}
	if len(node.GetChildren()) > 0 {
		node.SetExpanded(!node.IsExpanded())
	}

	b.showAttributes(ref.cursor)
}

func (b *browser) expandChildren(node *tview.TreeNode, cur *die.Cursor) {
	hasChildren, err := cur.HasChildren()
	if err != nil || !hasChildren {
		return
	}
	child, err := cur.FirstChild()
	for err == nil && child != nil {
		isNull, nerr := child.IsNull()
		if nerr != nil || isNull {
			break
		}
		tag, terr := child.Tag()
		label := "<die>"
		if terr == nil {
			label = tag.String()
		}
		childNode := tview.NewTreeNode(label).SetColor(tcell.ColorWhite)
		childNode.SetReference(&cuNode{cursor: child})
		node.AddChild(childNode)

		child, err = child.NextSibling()
	}
}

// attrRow is one rendered attribute, shaped so utils.MapMember can pull its
// Name/Value columns back out generically instead of this package hand
// -writing two parallel slices.
type attrRow struct {
	Name  string
	Value string
}

func (b *browser) showAttributes(cur *die.Cursor) {
	tag, err := cur.Tag()
	if err != nil {
		b.detail.SetText(fmt.Sprintf("[red]error reading tag: %v", err))
		return
	}

	var rows []attrRow
	_, err = cur.GetAttrs(func(name format.Attr, form format.Form, pos uint64) bool {
		rows = append(rows, attrRow{Name: name.String(), Value: formatValue(form, cur, pos)})
		return true
	})
	if err != nil {
		b.detail.SetText(fmt.Sprintf("[red]error reading attributes: %v", err))
		return
	}

	items := make([]any, len(rows))
	for i, r := range rows {
		items[i] = r
	}
	names, _ := utils.MapMember("Name", items)
	values, _ := utils.MapMember("Value", items)

	var out strings.Builder
	fmt.Fprintf(&out, "[yellow]%s[white] (offset 0x%08x)\n\n", tag.String(), cur.Offset)
	for i := range names {
		fmt.Fprintf(&out, "  [cyan]%-20s[white] %v\n", names[i], values[i])
	}
	b.detail.SetText(out.String())
}

func formatValue(form format.Form, cur *die.Cursor, pos uint64) string {
	switch format.ClassOf(form) {
	case format.ClassAddress:
		if v, err := attr.Addr(form, cur.Unit, pos); err == nil {
			return fmt.Sprintf("0x%016x", v)
		}
	case format.ClassConstant:
		if v, err := attr.UData(form, cur.Unit, pos); err == nil {
			return fmt.Sprintf("%d", v)
		}
	case format.ClassString:
		if v, err := attr.String(form, cur.Unit, nil, pos); err == nil {
			return fmt.Sprintf("%q", v)
		}
	case format.ClassFlag:
		if v, err := attr.Flag(form, cur.Unit, pos); err == nil {
			return fmt.Sprintf("%v", v)
		}
	case format.ClassReference:
		if v, err := attr.Ref(form, cur.Unit, pos); err == nil {
			return fmt.Sprintf("<0x%08x>", v)
		}
	}
	return fmt.Sprintf("(unrepresentable, form %s)", form)
}
