/*
Package observability turns engine lifecycle hooks into logs and Prometheus metrics.

Hooks from several sources are combined with ChainHooks, so a host can log every
transition at debug level and count it at the same time.
*/
package observability
