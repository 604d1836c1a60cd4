package traverse

import (
	"jssema/internal/ast"
	"jssema/internal/semantic"
)

// checkMutable raises a violation unless parent or one of its ancestors is
// currently entered.
func (c *Ctx) checkMutable(parent ast.NodeID) {
	for p := parent; p.IsValid(); p = c.Tree.Parent(p) {
		if c.State(p) == Entered {
			return
		}
	}
	ast.Violatef("mutating %s %d outside of its traversal", c.Tree.Kind(parent), parent)
}

func (c *Ctx) placeholder(scope semantic.ScopeID) ast.NodeID {
	ph := c.Builder().Placeholder()
	c.Sem.SetScopeOf(ph, scope)
	return ph
}

// MoveOut detaches the child in slot of parent, leaves a placeholder in its
// place and returns the detached subtree. Its semantic records stay valid
// for when it is re-attached.
func (c *Ctx) MoveOut(parent ast.NodeID, slot ast.Slot) ast.NodeID {
	c.checkMutable(parent)
	old := c.Tree.Kid(parent, slot)
	if !old.IsValid() {
		ast.Violatef("%s %d has nothing to move out of %s", c.Tree.Kind(parent), parent, slot)
	}
	c.Tree.SetKid(parent, slot, c.placeholder(c.Sem.ScopeOf(old)))
	return old
}

// MoveOutAt is MoveOut for list elements.
func (c *Ctx) MoveOutAt(parent ast.NodeID, index int) ast.NodeID {
	c.checkMutable(parent)
	list := c.Tree.List(parent)
	if index < 0 || index >= len(list) {
		ast.Violatef("%s %d has no list element %d", c.Tree.Kind(parent), parent, index)
	}
	return c.Tree.SetAt(parent, index, c.placeholder(c.Sem.ScopeOf(list[index])))
}

// Replace attaches node into slot of parent and returns the detached
// previous child. Nodes of the new subtree without a scope annotation are
// annotated with the scope the slot executes in.
func (c *Ctx) Replace(parent ast.NodeID, slot ast.Slot, node ast.NodeID) ast.NodeID {
	c.checkMutable(parent)
	scope := c.slotScope(parent, slot, c.Tree.Kid(parent, slot))
	old := c.Tree.SetKid(parent, slot, node)
	c.annotate(node, scope)
	c.moveFrame(old, node)
	return old
}

// ReplaceAt is Replace for list elements.
func (c *Ctx) ReplaceAt(parent ast.NodeID, index int, node ast.NodeID) ast.NodeID {
	c.checkMutable(parent)
	list := c.Tree.List(parent)
	if index < 0 || index >= len(list) {
		ast.Violatef("%s %d has no list element %d", c.Tree.Kind(parent), parent, index)
	}
	scope := c.slotScope(parent, c.Tree.Kind(parent).Describe().List, list[index])
	old := c.Tree.SetAt(parent, index, node)
	c.annotate(node, scope)
	c.moveFrame(old, node)
	return old
}

// ReplaceCurrent swaps the current node for node. Called from Enter, the
// walk continues into node's children; Exit then receives node.
func (c *Ctx) ReplaceCurrent(node ast.NodeID) ast.NodeID {
	parent := c.Parent()
	if !parent.Node.IsValid() {
		ast.Violatef("cannot replace the program root")
	}
	cur := c.Current()
	if cur.Index >= 0 {
		return c.ReplaceAt(parent.Node, cur.Index, node)
	}
	return c.Replace(parent.Node, cur.Slot, node)
}

// moveFrame keeps the ancestor stack pointing at live nodes.
func (c *Ctx) moveFrame(old, node ast.NodeID) {
	if !old.IsValid() {
		return
	}
	for i := range c.stack {
		if c.stack[i].Node == old {
			c.stack[i].Node = node
			c.stack[i].Kind = c.Tree.Kind(node)
			c.setState(node, Entered)
			c.setState(old, Exited)
		}
	}
}

func (c *Ctx) slotScope(parent ast.NodeID, slot ast.Slot, old ast.NodeID) semantic.ScopeID {
	if old.IsValid() {
		if sc := c.Sem.ScopeOf(old); sc.IsValid() {
			return sc
		}
	}
	if owned := c.Sem.ScopeOwnedBy(parent); owned.IsValid() && !outerSlot(c.Tree.Kind(parent), slot) {
		return owned
	}
	return c.Sem.ScopeOf(parent)
}

// annotate gives every unannotated node of a new subtree the scope it
// executes in, descending into scopes the subtree already owns.
func (c *Ctx) annotate(root ast.NodeID, scope semantic.ScopeID) {
	if !root.IsValid() || !scope.IsValid() {
		return
	}
	var visit func(id ast.NodeID, scope semantic.ScopeID)
	visit = func(id ast.NodeID, scope semantic.ScopeID) {
		if !c.Sem.ScopeOf(id).IsValid() {
			c.Sem.SetScopeOf(id, scope)
		}
		owned := c.Sem.ScopeOwnedBy(id)
		k := c.Tree.Kind(id)
		for slot, kid := range c.Tree.Children(id) {
			if owned.IsValid() && !outerSlot(k, slot) {
				visit(kid, owned)
			} else {
				visit(kid, scope)
			}
		}
	}
	visit(root, scope)
}

// GenerateUniqueBinding declares a fresh symbol in scope whose name is
// derived from hint and collides with no binding visible from scope, no
// declared name and no global in use.
func (c *Ctx) GenerateUniqueBinding(hint string, scope semantic.ScopeID, flags semantic.SymbolFlags) BoundIdentifier {
	name := c.Sem.UniqueName(hint, scope)
	sym := c.Sem.DeclareGenerated(scope, name, flags, ast.NoNodeID)
	return BoundIdentifier{Name: name, Symbol: sym, Scope: scope}
}

// GenerateUniqueVar declares a function-scoped temporary in the current
// var scope.
func (c *Ctx) GenerateUniqueVar(hint string) BoundIdentifier {
	return c.GenerateUniqueBinding(hint, c.VarScope(), semantic.SymFunctionScoped|semantic.SymValueOnly)
}

// CreateReference builds an identifier named name, used from scope, and
// registers it as a reference to sym.
func (c *Ctx) CreateReference(name string, sym semantic.SymbolID, flags semantic.RefFlags, scope semantic.ScopeID) ast.NodeID {
	if v := c.Sem.Symbol(sym); v == nil || c.Sem.Name(v.Name) != name {
		ast.Violatef("reference %q does not match symbol %d", name, sym)
	}
	id := c.Builder().Ident(name)
	c.Sem.AddReference(id, sym, scope, flags)
	return id
}

// CreateUnboundReference builds a use of a global name.
func (c *Ctx) CreateUnboundReference(name string, flags semantic.RefFlags, scope semantic.ScopeID) ast.NodeID {
	id := c.Builder().Ident(name)
	c.Sem.AddReference(id, semantic.NoSymbolID, scope, flags)
	return id
}

// CreateResolvedReference builds a use of name resolved through scope's chain.
func (c *Ctx) CreateResolvedReference(name string, flags semantic.RefFlags, scope semantic.ScopeID) ast.NodeID {
	id := c.Builder().Ident(name)
	c.Sem.ResolveReference(id, scope, flags)
	return id
}

// CloneReference builds another use of whatever ident refers to.
func (c *Ctx) CloneReference(ident ast.NodeID, flags semantic.RefFlags) ast.NodeID {
	ref := c.Sem.Reference(c.Sem.ReferenceOf(ident))
	if ref == nil {
		ast.Violatef("node %d is not a reference", ident)
	}
	name := c.Sem.Name(ref.Name)
	if ref.Resolved() {
		return c.CreateReference(name, ref.Symbol, flags, ref.Scope)
	}
	return c.CreateUnboundReference(name, flags, ref.Scope)
}

// DeleteReference unregisters the use at node.
func (c *Ctx) DeleteReference(node ast.NodeID) {
	ref := c.Sem.ReferenceOf(node)
	if !ref.IsValid() {
		ast.Violatef("node %d is not a reference", node)
	}
	c.Sem.DeleteReference(ref)
}

// DeleteReferencesIn unregisters every use inside a removed subtree.
func (c *Ctx) DeleteReferencesIn(root ast.NodeID) { c.Sem.DeleteReferencesIn(root) }

// CreateChildScope opens a scope under parent owned by owner.
func (c *Ctx) CreateChildScope(parent semantic.ScopeID, flags semantic.ScopeFlags, owner ast.NodeID) semantic.ScopeID {
	return c.Sem.NewScope(parent, flags, owner)
}

// AdoptScopes moves subtree, which executed in from, under to. Used when a
// pass wraps a subtree in a new function or block.
func (c *Ctx) AdoptScopes(subtree ast.NodeID, from, to semantic.ScopeID) {
	if c.Sem.Scope(from) == nil || c.Sem.Scope(to) == nil {
		ast.Violatef("adopting from scope %d into scope %d", from, to)
	}
	c.Sem.AdoptScopes(subtree, from, to)
}
