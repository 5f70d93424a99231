package suffixer

import (
	"slices"
)

type nodeID int32

const nilNode nodeID = -1

type nodeKind uint8

const (
	internalNode nodeKind = iota
	leafNode
)

// trieNode is a blind trie node. Internal nodes only remember the depth at
// which their children differ; leaves remember a suffix.
type trieNode struct {
	kind         nodeKind
	firstChar    int32
	rightSibling nodeID
	depth        int    // internal: branching depth relative to the trie offset
	firstChild   nodeID // internal
	start        int    // leaf: suffix position
}

type trieFrame struct {
	node nodeID
	lcp  int
}

// blindTrie sorts small groups of suffixes that agree on their first offset
// symbols. Nodes live in an arena that is reused across groups.
type blindTrie struct {
	v      *view
	nodes  []trieNode
	stack  []nodeID
	frames []trieFrame
	root   nodeID
	offset int
	limit  int
}

func newBlindTrie(v *view, width int) *blindTrie {
	return &blindTrie{
		v:     v,
		nodes: make([]trieNode, 0, 2*width+1),
	}
}

func (bt *blindTrie) newNode(n trieNode) nodeID {
	bt.nodes = append(bt.nodes, n)
	return nodeID(len(bt.nodes) - 1)
}

// charAt reads the symbol of suffix s at depth relative to the offset.
func (bt *blindTrie) charAt(s, depth int) int {
	d := bt.offset + depth
	if d >= bt.limit {
		return terminator
	}
	return bt.v.at(s + d)
}

// compareChars orders an existing child character old against new.
// Terminators compare below everything, and an existing terminator also
// below a new terminator so equal suffixes keep insertion order.
func compareChars(old, new int) int {
	switch {
	case old > new:
		return 1
	case old < new || old == terminator:
		return -1
	}
	return 0
}

// sort orders suffixes, which must be in ascending position order and agree
// on their first offset symbols, and fills lcp[1:] with absolute common
// prefix lengths when lcp is not nil.
func (bt *blindTrie) sort(suffixes, lcp []int, offset, limit int) {
	if len(suffixes) < 2 {
		return
	}
	bt.nodes = bt.nodes[:0]
	bt.offset, bt.limit = offset, limit

	bt.root = bt.newNode(trieNode{kind: internalNode, firstChar: terminator, rightSibling: nilNode})
	first := bt.newNode(trieNode{
		kind:         leafNode,
		firstChar:    int32(bt.charAt(suffixes[0], 0)),
		rightSibling: nilNode,
		start:        suffixes[0],
	})
	bt.nodes[bt.root].firstChild = first

	for _, s := range suffixes[1:] {
		bt.insert(s)
	}
	bt.enumerate(suffixes, lcp)
}

func (bt *blindTrie) leftmostLeaf(id nodeID) nodeID {
	for bt.nodes[id].kind == internalNode {
		id = bt.nodes[id].firstChild
	}
	return id
}

func (bt *blindTrie) findSucc(id nodeID, c int) nodeID {
	for id != nilNode {
		switch compareChars(int(bt.nodes[id].firstChar), c) {
		case 0:
			return id
		case 1:
			return nilNode
		}
		id = bt.nodes[id].rightSibling
	}
	return nilNode
}

// findCompanion descends along the symbols of s and returns a leaf sharing
// the longest prefix with s that the blind descent can establish. The
// visited nodes are left on the stack.
func (bt *blindTrie) findCompanion(s int) nodeID {
	bt.stack = bt.stack[:0]
	head := bt.root
	for bt.nodes[head].kind == internalNode {
		bt.stack = append(bt.stack, head)
		c := bt.charAt(s, bt.nodes[head].depth)
		if c == terminator {
			return bt.leftmostLeaf(head)
		}
		succ := bt.findSucc(bt.nodes[head].firstChild, c)
		if succ == nilNode {
			return bt.leftmostLeaf(head)
		}
		head = succ
	}
	bt.stack = append(bt.stack, head)
	return head
}

func (bt *blindTrie) insert(s int) {
	leaf := bt.findCompanion(s)
	lcp, oldChar, newChar := bt.v.mismatch(bt.nodes[leaf].start, s, bt.offset, bt.limit)
	lcp -= bt.offset

	node := bt.stack[len(bt.stack)-1]
	for _, id := range bt.stack {
		if bt.nodes[id].kind == leafNode || bt.nodes[id].depth >= lcp {
			node = id
			break
		}
	}

	if bt.nodes[node].kind == leafNode || bt.nodes[node].depth != lcp {
		moved := bt.nodes[node]
		moved.firstChar = int32(oldChar)
		moved.rightSibling = nilNode
		movedID := bt.newNode(moved)

		n := &bt.nodes[node]
		n.kind = internalNode
		n.depth = lcp
		n.firstChild = movedID
		n.start = 0
	}

	prev, cur := nilNode, bt.nodes[node].firstChild
	for cur != nilNode && compareChars(int(bt.nodes[cur].firstChar), newChar) < 0 {
		prev, cur = cur, bt.nodes[cur].rightSibling
	}
	id := bt.newNode(trieNode{
		kind:         leafNode,
		firstChar:    int32(newChar),
		rightSibling: cur,
		start:        s,
	})
	if prev == nilNode {
		bt.nodes[node].firstChild = id
	} else {
		bt.nodes[prev].rightSibling = id
	}
}

// enumerate writes the leaves in order into dst. Each leaf's common prefix
// with its predecessor is the depth of the lowest node where they branch.
func (bt *blindTrie) enumerate(dst, lcp []int) {
	frames := append(bt.frames[:0], trieFrame{node: bt.root})
	next := 0
	for len(frames) > 0 {
		f := frames[len(frames)-1]
		frames = frames[:len(frames)-1]

		n := bt.nodes[f.node]
		if n.kind == leafNode {
			dst[next] = n.start
			if next > 0 && lcp != nil {
				lcp[next] = f.lcp + bt.offset
			}
			next++
			continue
		}
		mark := len(frames)
		inherited := f.lcp
		for c := n.firstChild; c != nilNode; c = bt.nodes[c].rightSibling {
			frames = append(frames, trieFrame{node: c, lcp: inherited})
			inherited = n.depth
		}
		slices.Reverse(frames[mark:])
	}
	bt.frames = frames
}
