package avl

import (
	"fmt"
	"io"

	"github.com/npillmayer/containers/arena"
)

// Tree2Dot outputs the internal structure of a tree in Graphviz DOT format
// (for debugging purposes). Nodes are labelled with their key and height.
func Tree2Dot[K, T any](t *Tree[K, T], w io.Writer) {
	io.WriteString(w, "strict digraph {\n")
	io.WriteString(w, "\tnode [fontname=Arial,fontsize=12];\n")
	if t.size == 0 {
		io.WriteString(w, "}\n")
		return
	}
	nodelist, edgelist := "", ""
	var walk func(x arena.Handle)
	walk = func(x arena.Handle) {
		n := t.n(x)
		label := fmt.Sprintf("%v\\nh=%d", t.keyAt(x), n.height)
		nodelist += fmt.Sprintf("\"%d\" [label=\"%s\" %s];\n", x, label, nodeDotStyles(t.balance(x)))
		for _, c := range [2]arena.Handle{n.left, n.right} {
			if c == t.head {
				nilid := fmt.Sprintf("nil%d_%d", x, len(edgelist))
				nodelist += fmt.Sprintf("\"%s\" %s;\n", nilid, emptyNode())
				edgelist += fmt.Sprintf("\"%d\" -> \"%s\";\n", x, nilid)
				continue
			}
			edgelist += fmt.Sprintf("\"%d\" -> \"%d\";\n", x, c)
			walk(c)
		}
	}
	walk(t.root())
	io.WriteString(w, nodelist)
	io.WriteString(w, edgelist)
	io.WriteString(w, "}\n")
}

func emptyNode() string {
	return "[label=\"\",color=black,shape=circle,fixedsize=true,width=.2]"
}

func nodeDotStyles(balance int32) string {
	s := ",style=filled,color=black,shape=circle"
	switch {
	case balance < 0:
		s += ",fillcolor=\"#CCDDFF\""
	case balance > 0:
		s += ",fillcolor=\"#FFDDCC\""
	default:
		s += ",fillcolor=\"#a3d7e4\""
	}
	return s
}
