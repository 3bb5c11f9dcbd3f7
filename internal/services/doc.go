// Package services implements the typed MovieSir API modules over a shared
// HTTP [Client].
//
// # Client
//
// [Client] owns the transport concerns: every outbound request attaches the
// stored access token as a bearer credential, and a 401 response triggers a
// single-flight token refresh. While a refresh is in flight, concurrent
// callers that also hit 401 are parked in a FIFO wait queue and settled
// together once the refresh resolves, so at most one POST /auth/refresh is
// ever outstanding. The originating request is retried exactly once with the
// new token; a second 401 passes through as a final failure.
//
// An absent refresh token, or a failed refresh, destroys the session and
// surfaces as [shared.ErrSessionExpired] - the caller is expected to return
// the user to the entry flow.
//
// # API modules
//
// [AuthService], [MovieService], [OnboardingService], and [UserService] are
// thin typed wrappers mapping wire shapes to [models] types. The three movie
// wire variants (catalog, chatbot recommendation, onboarding card) are
// normalized into [models.Movie] at this boundary.
//
// # Error Handling
//
// Transport failures wrap [shared.ErrAPIRequest]. Non-2xx responses surface
// as [StatusError] carrying the backend's message; each module maps failures
// to a localized message exactly once and re-wraps for its caller. A 404 from
// the chatbot recommend endpoint is a valid empty result, not an error.
package services
