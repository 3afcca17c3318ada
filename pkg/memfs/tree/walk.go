package tree

// WalkFunc is called for every node visited by Walk. depth is 0 for the
// starting directory.
type WalkFunc func(n Node, depth int) error

// Walk visits dir and its subtree in pre-order, children in name order.
func Walk(dir *Directory, fn WalkFunc) error {
	return walk(dir, 0, fn)
}

func walk(n Node, depth int, fn WalkFunc) error {
	if err := fn(n, depth); err != nil {
		return err
	}
	dir, ok := n.(*Directory)
	if !ok {
		return nil
	}
	for _, child := range dir.Children() {
		if err := walk(child, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// BreadthFirst visits dir and every directory below it level by level,
// siblings in name order.
func BreadthFirst(dir *Directory, fn func(d *Directory) error) error {
	queue := []*Directory{dir}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if err := fn(cur); err != nil {
			return err
		}
		queue = append(queue, cur.Dirs()...)
	}
	return nil
}
