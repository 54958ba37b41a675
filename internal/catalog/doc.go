// Package catalog defines declarative test cases and the categories that
// group them.
//
// Three categories ship with the runner (String, Math and Array operations).
// Further categories can be declared in CUE files:
//
//	category: strings_extra: {
//	    name: "Extra String Operations"
//	    id:   "ExtraStringTests" // optional, defaults to the struct label
//	    cases: [{
//	        name:        "Reverse Word"
//	        description: "Reverse a short word"
//	        operation:   "reverse"
//	        args: ["abc"]
//	        expected: "cba"
//	    }]
//	}
//
// Argument and expected values are integers (any width), strings, or lists
// of those. Floats, booleans, null and structs are rejected.
package catalog
