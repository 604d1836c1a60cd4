package lintscript

import (
	"context"
	"errors"

	"fortio.org/safecast"
	"github.com/risor-io/risor/object"

	"jssema/internal/ast"
	"jssema/internal/lint"
	"jssema/internal/semantic"
	"jssema/internal/source"
)

// hostGlobals builds the functions a script can call.
//
//	symbols()          list of symbol maps
//	references(sym)    list of reference maps for a symbol id
//	scope(id)          scope map
//	scope_of(node)     scope id a node executes in
//	unresolved()       list of {name, refs} for names with no declaration
//	is_global(name)    whether name is a known global
//	report(item, msg)  report at item's start/end
func hostGlobals(c *lint.Context) map[string]any {
	return map[string]any{
		"symbols":    makeSymbolsFn(c),
		"references": makeReferencesFn(c),
		"scope":      makeScopeFn(c),
		"scope_of":   makeScopeOfFn(c),
		"unresolved": makeUnresolvedFn(c),
		"is_global":  makeIsGlobalFn(c),
		"report":     makeReportFn(c),
	}
}

func spanFields(m map[string]object.Object, sp source.Span) {
	m["start"] = object.NewInt(int64(sp.Start))
	m["end"] = object.NewInt(int64(sp.End))
}

func symbolMap(sem *semantic.Semantic, sym *semantic.Symbol) *object.Map {
	m := map[string]object.Object{
		"id":    object.NewInt(int64(sym.ID)),
		"name":  object.NewString(sem.Name(sym.Name)),
		"scope": object.NewInt(int64(sym.Scope)),
		"flags": object.NewString(sym.Flags.String()),
		"refs":  object.NewInt(int64(len(sym.References))),
		"decl":  object.NewInt(int64(sym.Decl)),
	}
	spanFields(m, sym.Span)
	return object.NewMap(m)
}

func referenceMap(sem *semantic.Semantic, ref *semantic.Reference) *object.Map {
	m := map[string]object.Object{
		"id":       object.NewInt(int64(ref.ID)),
		"name":     object.NewString(sem.Name(ref.Name)),
		"node":     object.NewInt(int64(ref.Node)),
		"scope":    object.NewInt(int64(ref.Scope)),
		"symbol":   object.NewInt(int64(ref.Symbol)),
		"flags":    object.NewString(ref.Flags.String()),
		"resolved": object.NewBool(ref.Resolved()),
	}
	spanFields(m, sem.Tree().Span(ref.Node))
	return object.NewMap(m)
}

func makeSymbolsFn(c *lint.Context) *object.Builtin {
	return object.NewBuiltin("symbols", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("symbols", 0, len(args))
		}
		syms := c.Sem.Symbols()
		out := make([]object.Object, 0, len(syms))
		for i := range syms {
			out = append(out, symbolMap(c.Sem, &syms[i]))
		}
		return object.NewList(out)
	})
}

func makeReferencesFn(c *lint.Context) *object.Builtin {
	return object.NewBuiltin("references", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("references", 1, len(args))
		}
		id, ok := args[0].(*object.Int)
		if !ok {
			return object.Errorf("references: symbol id must be an int, got %s", args[0].Type())
		}
		sym := c.Sem.Symbol(semantic.SymbolID(id.Value()))
		if sym == nil {
			return object.Errorf("references: no symbol %d", id.Value())
		}
		out := make([]object.Object, 0, len(sym.References))
		for _, ref := range c.Sem.ReferencesOf(sym.ID) {
			out = append(out, referenceMap(c.Sem, c.Sem.Reference(ref)))
		}
		return object.NewList(out)
	})
}

func makeScopeFn(c *lint.Context) *object.Builtin {
	return object.NewBuiltin("scope", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("scope", 1, len(args))
		}
		id, ok := args[0].(*object.Int)
		if !ok {
			return object.Errorf("scope: id must be an int, got %s", args[0].Type())
		}
		sc := c.Sem.Scope(semantic.ScopeID(id.Value()))
		if sc == nil {
			return object.Nil
		}
		m := map[string]object.Object{
			"id":      object.NewInt(int64(sc.ID)),
			"parent":  object.NewInt(int64(sc.Parent)),
			"flags":   object.NewString(sc.Flags.String()),
			"owner":   object.NewString(c.Tree.Kind(sc.Node).String()),
			"symbols": object.NewInt(int64(len(sc.Symbols))),
			"strict":  object.NewBool(c.Sem.IsStrict(sc.ID)),
		}
		spanFields(m, c.Tree.Span(sc.Node))
		return object.NewMap(m)
	})
}

func makeScopeOfFn(c *lint.Context) *object.Builtin {
	return object.NewBuiltin("scope_of", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("scope_of", 1, len(args))
		}
		id, ok := args[0].(*object.Int)
		if !ok {
			return object.Errorf("scope_of: node must be an int, got %s", args[0].Type())
		}
		node := ast.NodeID(id.Value())
		if id.Value() <= 0 || int(id.Value()) > c.Tree.Len() {
			return object.Errorf("scope_of: no node %d", id.Value())
		}
		return object.NewInt(int64(c.Sem.ScopeOf(node)))
	})
}

func makeUnresolvedFn(c *lint.Context) *object.Builtin {
	return object.NewBuiltin("unresolved", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("unresolved", 0, len(args))
		}
		names := c.Sem.Unresolved()
		out := make([]object.Object, 0, len(names))
		for _, u := range names {
			refs := make([]object.Object, 0, len(u.Refs))
			for _, ref := range u.Refs {
				refs = append(refs, referenceMap(c.Sem, c.Sem.Reference(ref)))
			}
			out = append(out, object.NewMap(map[string]object.Object{
				"name": object.NewString(u.Name),
				"refs": object.NewList(refs),
			}))
		}
		return object.NewList(out)
	})
}

func makeIsGlobalFn(c *lint.Context) *object.Builtin {
	return object.NewBuiltin("is_global", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("is_global", 1, len(args))
		}
		name, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("is_global: name must be a string, got %s", args[0].Type())
		}
		return object.NewBool(c.IsGlobal(name.Value()))
	})
}

// report(item, message) where item is any map carrying start and end.
func makeReportFn(c *lint.Context) *object.Builtin {
	return object.NewBuiltin("report", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("report", 2, len(args))
		}
		item, ok := args[0].(*object.Map)
		if !ok {
			return object.Errorf("report: item must be a map, got %s", args[0].Type())
		}
		msg, ok := args[1].(*object.String)
		if !ok {
			return object.Errorf("report: message must be a string, got %s", args[1].Type())
		}
		m := item.Value()
		start, errStart := safecast.Conv[uint32](getInt(m, "start"))
		end, errEnd := safecast.Conv[uint32](getInt(m, "end"))
		if err := errors.Join(errStart, errEnd); err != nil {
			return object.Errorf("report: bad span: %v", err)
		}
		span := source.Span{File: c.Tree.File, Start: start, End: end}
		c.Report(span, msg.Value()).Emit()
		return object.Nil
	})
}

func getInt(m map[string]object.Object, key string) int64 {
	switch v := m[key].(type) {
	case *object.Int:
		return v.Value()
	case *object.Float:
		return int64(v.Value())
	}
	return 0
}
