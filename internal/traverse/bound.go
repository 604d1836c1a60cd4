package traverse

import (
	"jssema/internal/ast"
	"jssema/internal/semantic"
)

// BoundIdentifier is a synthesized binding. It builds the declaring
// identifier and any number of uses, each registered with the model.
type BoundIdentifier struct {
	Name   string
	Symbol semantic.SymbolID
	Scope  semantic.ScopeID
}

// CreateBinding builds the binding identifier that declares the symbol.
func (b BoundIdentifier) CreateBinding(c *Ctx) ast.NodeID {
	id := c.Builder().Bind(b.Name)
	c.Sem.BindNode(id, b.Symbol)
	c.Sem.SetScopeOf(id, b.Scope)
	return id
}

// CreateRead builds a read of the symbol from the current scope.
func (b BoundIdentifier) CreateRead(c *Ctx) ast.NodeID {
	return c.CreateReference(b.Name, b.Symbol, semantic.RefRead, c.Scope())
}

// CreateWrite builds an assignment target for the symbol.
func (b BoundIdentifier) CreateWrite(c *Ctx) ast.NodeID {
	return c.CreateReference(b.Name, b.Symbol, semantic.RefWrite, c.Scope())
}

func (b BoundIdentifier) CreateReadWrite(c *Ctx) ast.NodeID {
	return c.CreateReference(b.Name, b.Symbol, semantic.RefReadWrite, c.Scope())
}
