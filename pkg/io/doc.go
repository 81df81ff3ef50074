// Package io reads and writes railroad diagram descriptions.
//
// # Overview
//
// A description is a tree of nodes in JSON, YAML or TOML, plus a few
// diagram-level settings. It is the file format of the railroad command and
// the request body of its HTTP endpoint:
//
//	name: select
//	stylesheet: light
//	root:
//	  kind: sequence
//	  children:
//	    - kind: terminal
//	      text: SELECT
//	    - kind: optional
//	      children:
//	        - kind: terminal
//	          text: DISTINCT
//	    - kind: repeat
//	      children:
//	        - kind: nonterminal
//	          text: column
//	      repeat:
//	        kind: terminal
//	        text: ","
//
// # Node Fields
//
//   - kind: one of [Kinds]; required
//   - text: label of terminal, nonterminal and comment; box label shorthand
//   - class: extra CSS classes of a labelled leaf
//   - children: child nodes of composites. optional, repeat, box and link
//     take exactly one
//   - through: index of the choice branch on the main line
//   - skip: "above" (default) or "below" for optional
//   - repeat, above: loop-back node and placement of a repeat
//   - label: box label node
//   - href, target: link destination and browsing context
//
// # Diagram Fields
//
//   - name: defaults to the file name when loaded with [Load]
//   - stylesheet: light, dark or none
//   - markers: false to leave out the implicit Start and End
//
// # Import and Export
//
// [Load] and [Decode] read descriptions and reject unknown fields. [Encode]
// and [Export] write them. [Describe] turns a tree built in code back into a
// description, so diagrams can be converted between formats or stored.
//
// Building a description with [Document.Build] reports construction errors
// with the path of the failing node:
//
//	INVALID_STRUCTURE: root.children[1]: choice needs at least one branch
package io
