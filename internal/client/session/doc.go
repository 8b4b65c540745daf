// Package session holds the authenticated user's session on the client:
// the Basic credential and the user profile, kept in memory and mirrored
// into durable client storage so a restart does not log the user out.
//
// # Lifecycle
//
//	absent  -> pending  (Load found a stored credential)
//	absent  -> active   (SetAuth after a successful login)
//	pending -> active   (ConfirmUser after the identity service confirmed it)
//	any     -> absent   (ClearAuth on logout or failed validation)
//
// A profile never exists without a credential; a credential may exist
// without a profile while pending.
//
// # Security caveat
//
// The credential is the base64 of "username:password", exactly what an
// HTTP Basic header carries. It is an encoding, not encryption, and it is
// written to storage as is. Anyone who can read the storage can recover
// the password.
package session
