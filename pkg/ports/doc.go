/*
Package ports defines the driven ports (interfaces) of the Journey engine.

These interfaces decouple the step-ledger core from its surroundings, so the same
engine can persist to a JSON file, SQLite, Redis or memory, read its catalog from a
steps file or a Markdown directory, and keep its cursor wherever the host wants.

# Key Interfaces

  - LedgerStore: Loads, saves and clears the persisted ledger slot.
  - CatalogLoader: Supplies the ordered Step catalog once per session.
  - Cursor: Holds the externally visible current step id (or the "complete" sentinel).
  - DistributedLocker: Serializes read-modify-write cycles across processes.
  - Journal: The engine surface consumed by the HTTP and MCP adapters.
*/
package ports
