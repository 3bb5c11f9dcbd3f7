// Package models defines domain entities for the MovieSir client.
//
// The package contains two categories of types:
//
// 1. Session state: client-held authentication and user records
//   - [Session] : token pair plus the signed-in user, owned by the local store
//   - [User] : account record with genre/OTT preference profile
//
// 2. Catalog and activity records: read-only snapshots from the backend
//   - [Movie] : the single normalized movie shape; wire variants are converted
//     at the API boundary and tagged with a [MovieSource] discriminant
//   - [WatchHistoryEntry] : append-only viewing record
//   - [Recommendation] : a recorded recommendation with its reason
//   - [RecommendationFilters] : transient chatbot filter state
//
// Genre identifiers follow the backend's numeric mapping; [GenreID] resolves
// Korean and English genre names to the same id.
package models
