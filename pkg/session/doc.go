/*
Package session serializes access to persisted ledgers.

Every mutation of a ledger is a read-modify-write of the whole slot. The Manager runs
those cycles under a per-slot lock (and, optionally, a distributed lock) so that two
writers never lose each other's entries.
*/
package session
