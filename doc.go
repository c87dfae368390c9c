// Package confl implements parsing and serializing of confl, an
// indentation-based configuration format.
//
// confl is designed to be easy to read, easy to edit, and friendly to
// hand-authored config files: significant indentation for nesting, a
// JSON-like set of scalar types deferred to decode time, triple-quoted
// block strings for multi-line text, inline and multi-line arrays, and
// file imports.
//
//	# a basic confl document
//	name "example"
//	tags [a, b, c]
//	server
//	  host "localhost"
//	  port 8080
//	notes """
//	  line one
//	  line two
//	"""
//
// [Decode] turns such text into a [Value] tree; [Encode] turns a [Value]
// tree back into text. [Marshal] and [Unmarshal] bridge between a [Value]
// tree and ordinary Go structs, maps, slices, and scalars, in the same
// spirit as [encoding/json].
package confl
