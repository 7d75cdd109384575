package ast

// Walk traverses the tree rooted at n in depth-first source order. It calls
// fn for each node; when fn returns false the node's children are skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children() {
		Walk(child, fn)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n Node) int {
	count := 0
	Walk(n, func(Node) bool {
		count++
		return true
	})
	return count
}

// Kinds returns the kinds of every node under n in walk order.
func Kinds(n Node) []Kind {
	var kinds []Kind
	Walk(n, func(node Node) bool {
		kinds = append(kinds, node.Kind())
		return true
	})
	return kinds
}
