// Package scope implements the lexical-scope tracker consumed by the
// emission engine: parent-linked name tables with hoisted declarations,
// fresh-name generation, and the compilation-session helper registry.
//
// The compiler proper treats this package as an external collaborator;
// it only relies on the exported methods of Scope and Session.
package scope
