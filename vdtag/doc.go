// Package vdtag extracts ownership tags from source-code comments.
//
// A tag is a span of code bounded by a start annotation and an end
// annotation, both written as comments:
//
//	// @VD alice,bob|carol start
//	func critical() {}
//	// @VD end
//
// The start annotation names the owner groups responsible for the span. The
// text grammar is supplied by a [Matcher]; see package
// [go.jacobcolvin.com/vivadoc/vdtag/annotation] for the default one.
//
// # Pipeline
//
// [Extractor.ExtractComments] runs four stages, each producing a fresh
// structure owned by the call:
//
//  1. Raw index: comments from a [Tokenizer] are stored in a [RawFileAst]
//     keyed by ending line. Single-line comments go in one map (at most one
//     per line, last write wins), multi-line comments in another (a list per
//     line).
//
//  2. Squish and assemble: [SquishSingleLineComments] merges vertically
//     adjacent single-line comments with equal indent index into one node,
//     then [RawFileAst.FileAst] unions them with the multi-line comments.
//
//  3. Reduce: [FileAst.Reduce] requires exactly one comment per line and
//     classifies each one with the [Matcher], keeping only annotations.
//
//  4. Pair: [ReducedFileAst.Tags] closes each start annotation with the
//     first unclaimed end annotation at or after it and slices the source
//     lines of the span.
//
// # Errors
//
// Every failure is fatal to the file and reported as a single [*ParseError]
// whose Name is one of the [ErrorName] constants. Use [errors.Is] with the
// matching sentinel (for example [ErrNoEndAnnotation]) or [errors.As] to
// inspect it. No partial tag list is returned alongside an error.
package vdtag
