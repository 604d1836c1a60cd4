package lint

// builtinGlobals are names every JavaScript host provides, plus the common
// browser and Node.js ones.
var builtinGlobals = toSet(
	// language
	"undefined", "NaN", "Infinity", "globalThis", "eval", "isFinite", "isNaN",
	"parseFloat", "parseInt", "decodeURI", "decodeURIComponent", "encodeURI",
	"encodeURIComponent", "Object", "Function", "Array", "Number", "Boolean",
	"String", "Symbol", "BigInt", "Date", "RegExp", "Error", "EvalError",
	"RangeError", "ReferenceError", "SyntaxError", "TypeError", "URIError",
	"AggregateError", "Math", "JSON", "Reflect", "Proxy", "Promise", "Map",
	"Set", "WeakMap", "WeakSet", "WeakRef", "FinalizationRegistry",
	"ArrayBuffer", "SharedArrayBuffer", "DataView", "Atomics", "Int8Array",
	"Uint8Array", "Uint8ClampedArray", "Int16Array", "Uint16Array",
	"Int32Array", "Uint32Array", "Float32Array", "Float64Array",
	"BigInt64Array", "BigUint64Array", "Intl", "arguments",
	// hosts
	"console", "setTimeout", "clearTimeout", "setInterval", "clearInterval",
	"queueMicrotask", "structuredClone", "fetch", "URL", "URLSearchParams",
	"TextEncoder", "TextDecoder", "AbortController", "crypto", "performance",
	// node
	"process", "require", "module", "exports", "__dirname", "__filename",
	"Buffer", "global",
)

func toSet(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}
