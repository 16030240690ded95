/*
Package artifact compiles a ledger into the plain-text artifact handed to the user at the
end of a journey.

Compile is pure: for the same catalog, ledger and clock it returns the same bytes. Steps
are emitted in catalog order, never in ledger key order or visit order.
*/
package artifact
