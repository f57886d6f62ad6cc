// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the query interpreter, the case-law
// backend, the reranker, and configuration storage. The research
// service depends on these interfaces only; concrete HTTP clients live
// under internal/adapters/driven.
package driven
