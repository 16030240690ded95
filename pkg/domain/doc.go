/*
Package domain contains the core models of the Journey step ledger.

It defines the entities of the journaling state machine: the read-only Step catalog,
the per-step answer Entry, and the Ledger that maps step ids to entries. This package
is kept pure and free of I/O; persistence, navigation cursors and rendering live in
adapters behind the interfaces of package ports.

# Key Entities

  - Step: One authored prompt of the journey (title, question, optional video and transcript).
  - Catalog: The ordered list of Steps. Catalog order is the order of the compiled artifact.
  - Entry: A tagged union of the plain (string) and dual-mode (type/ink) answer schemas.
  - Ledger: The persisted mapping of step id to Entry, preserving unknown fields.
*/
package domain
