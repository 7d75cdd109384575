// Package parser turns GraphQL source text into the syntax tree of package ast.
//
// # Overview
//
// A parse runs a fixed pipeline and stops at the first problem:
//
//	┌──────────────────┐     ┌─────────┐     ┌──────────┐
//	│ MultiSourceReader│────▶│  Lexer  │────▶│  parser  │────▶ ast.Document
//	│   (fragments)    │     │ (lazy)  │     │ (LL(1))  │
//	└──────────────────┘     └─────────┘     └──────────┘
//	                                              │
//	                                   ┌──────────┴──────────┐
//	                                   ▼                     ▼
//	                              ┌─────────┐         ┌──────────────┐
//	                              │  guard  │         │ bailStrategy │
//	                              └─────────┘         └──────────────┘
//
// # Fragments
//
// Input is one or more named fragments, for example the files that make up
// a schema. The reader joins them into one stream and every location the
// parser reports, in nodes as well as in errors, names the fragment and the
// line within that fragment:
//
//	src := parser.NewMultiSourceReader(
//	    parser.Fragment{Name: "a.graphql", Text: a},
//	    parser.Fragment{Name: "b.graphql", Text: b},
//	)
//	doc, err := parser.New().ParseDocument(src)
//
// # Tokens
//
// The lexer yields every lexeme, including whitespace, commas, line
// terminators and comments, tagged with ChannelIgnored. The parser skips
// ignored tokens but keeps them around to fill NodeBase.IgnoredChars and
// NodeBase.Comments, and to answer ParseComments.
//
// # Errors
//
// There is no error recovery. The first malformed token produces an
// *InvalidSyntaxError carrying the location, a message and a preview of the
// surrounding lines. Tokens left over after a complete document, value or
// type are reported the same way.
//
// Each parse counts the significant tokens it consumes. Once the count
// passes Options.MaxTokens the parse stops with *ParseCancelledError. The
// ParsingListener sees every counted token before the check.
//
// # Options
//
// New starts from DefaultOptions, a process-wide value that
// SetDefaultOptions replaces and ResetDefaultOptions restores. A Parser
// never observes later changes to the defaults.
package parser
