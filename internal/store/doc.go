// package store is the data access module for the music review platform.
//
// [Open] builds a [Store] over a single pooled database handle. Every operation is an
// independent request/response cycle: it borrows a connection for one statement (plus the
// reference checks that precede a write), applies the configured query timeout, logs failures,
// and returns typed records from package models.
//
// Operations:
//   - [Store.CheckLogin] : Match a login (case-insensitive) and password (exact)
//   - [Store.ListTracks], [Store.FindTracks] : Track summaries with average ratings
//   - [Store.ListUsers] : Account profiles ordered by role and login
//   - [Store.ListReviews] : Reviews, newest first
//   - [Store.AddUser], [Store.UpdateUser]
//   - [Store.AddReview], [Store.UpdateReview]
//   - [Store.UpdateTrack]
//
// List operations report an empty result as [shared.ErrNotFound]. All errors can be matched with
// errors.Is against the sentinels in package shared.
package store
