package fuzztests

import "testing"

const (
	maxSeedBytes = 64 << 10 // 64 KiB
	maxFuzzInput = 1 << 16
)

var jsSeeds = []string{
	"",
	"let x = 1;\n",
	"function f(a, b = a) { return a ** b; }\n",
	"const g = (p) => p ?? 0;\nif (typeof q === 'undefined') {}\n",
	"for (let i = 0; i < 3; i++) { setTimeout(() => i); }\n",
	"class A { m() { return this; } }\nexport default A;\n",
	"try { throw 1; } catch (e) { var e = 2; }\n",
	"label: for (const k of xs) { continue label; }\n",
	"var a = 1; var a = 2; function a() {}\n",
	"import { x as y } from 'm';\nexport { y };\n",
	"switch (v) { case 1: let w = 2; break; default: }\n",
	"let { a, b: [c, ...d] = [] } = o;\n",
	"(function () { 'use strict'; arguments; })();\n",
	"let s = `a${b}c`;\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range jsSeeds {
		f.Add(clampSeed([]byte(s)))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
