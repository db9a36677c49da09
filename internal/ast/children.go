package ast

// Children returns the direct children of n in source order. None entries
// are skipped.
func Children(n Node) []NodeID {
	var out []NodeID

	add := func(ids ...NodeID) {
		for _, id := range ids {
			if id.IsValid() {
				out = append(out, id)
			}
		}
	}

	switch n := n.(type) {
	case *Vector:
		add(n.Elem)
	case *Matrix:
		add(n.Elem)
	case *Array:
		add(n.Elem)
	case *SampledTexture:
		add(n.Elem)
	case *Binary:
		add(n.LHS, n.RHS)
	case *Unary:
		add(n.Expr)
	case *Call:
		add(n.Target)
		add(n.Args...)
	case *Index:
		add(n.Object, n.Index)
	case *Member:
		add(n.Object)
	case *Block:
		add(n.Statements...)
	case *VarDecl:
		add(n.Variable)
	case *Assign:
		add(n.LHS, n.RHS)
	case *Increment:
		add(n.LHS)
	case *CallStatement:
		add(n.Call)
	case *If:
		add(n.Condition, n.Body, n.Else)
	case *For:
		add(n.Initializer, n.Condition, n.Continuing, n.Body)
	case *While:
		add(n.Condition, n.Body)
	case *Loop:
		add(n.Body, n.Continuing)
	case *Return:
		add(n.Value)
	case Variable:
		f := n.Fields()
		add(f.Attributes...)
		add(f.Type, f.Initializer)
	case *Function:
		add(n.Attributes...)
		add(n.Params...)
		add(n.ReturnAttributes...)
		add(n.ReturnType, n.Body)
	case *Struct:
		add(n.Attributes...)
		add(n.Members...)
	case *StructMember:
		add(n.Attributes...)
		add(n.Type)
	case *Alias:
		add(n.Type)
	case *Module:
		add(n.Globals...)
	case *WorkgroupAttribute:
		add(n.X, n.Y, n.Z)
	}

	return out
}

// Lists returns the child lists of n: the positions where an element may
// be removed, or a sibling inserted, without changing the shape of n.
func Lists(n Node) [][]NodeID {
	switch n := n.(type) {
	case *Module:
		return [][]NodeID{n.Globals}
	case *Block:
		return [][]NodeID{n.Statements}
	case *Struct:
		return [][]NodeID{n.Members, n.Attributes}
	case *StructMember:
		return [][]NodeID{n.Attributes}
	case *Function:
		return [][]NodeID{n.Params, n.Attributes, n.ReturnAttributes}
	case *Call:
		return [][]NodeID{n.Args}
	case Variable:
		return [][]NodeID{n.Fields().Attributes}
	}

	return nil
}

// InList reports whether child is an element of one of parent's lists.
func InList(parent Node, child NodeID) bool {
	for _, list := range Lists(parent) {
		for _, id := range list {
			if id == child {
				return true
			}
		}
	}

	return false
}
