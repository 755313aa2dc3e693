/*
Package domain contains the core domain models of the blend formulation engine.

It defines the entities shared by the expression engine, the edit sessions and
the storage adapters. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture
principles.

# Key Entities

  - Identifier: An addressable input from the Registry (id, display name, kind).
  - Term: One weighted reference to an input inside a Combination.
  - Combination: A named, described, ordered list of Terms (a weighted sum).
  - EditSession: The transient direct-entry state of one Combination (buffer, caret, mention).
*/
package domain
