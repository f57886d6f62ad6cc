// Package domain defines the core business entities for Yevrah.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - SearchIntent: Structured search parameters extracted from a user turn
//   - SearchResult: One retrieved case-law record, tagged with its branch
//   - PresentationList: The merged, capped result list shown for one turn
//   - Session: Conversation context plus the most recent results
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, google/uuid
//   - Cannot Import: Any other internal/ package, any adapter dependency
package domain
