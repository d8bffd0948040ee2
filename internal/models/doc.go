// Package models defines the records exchanged between the data access layer and its callers.
//
// The package contains two categories of types:
//
// 1. Read projections, built from named query columns:
//   - [Session] : The identity returned by a successful login check
//   - [TrackSummary] : A track with singer/composer names and its average rating
//   - [UserProfile] : The public fields of an account
//   - [ReviewSummary] : A review with its track title and reviewer name
//
// 2. Write requests, validated before any statement runs:
//   - [NewAccount], [AccountUpdate]
//   - [NewReview], [ReviewUpdate]
//   - [TrackUpdate]
//
// Every write request implements [Validator]. Validation failures wrap [shared.ErrInvalidInput].
package models
