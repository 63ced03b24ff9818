// Package tokenstore provides durable storage for platform credentials.
//
// The two API clients need credentials that outlive a process: the Garmin
// OAuth session and the Withings refresh token (which rotates on every
// refresh). This package abstracts where those live behind the Store
// interface with two implementations:
//
//   - FileStore: JSON files in a local directory. Local development and
//     single-host deployments.
//   - ObjectStore: JSON objects in an S3/MinIO bucket (via core/storage).
//     Deployments where the local filesystem is ephemeral.
//
// # Selection
//
// The New factory picks the backend from configuration:
//
//	store, err := tokenstore.New(cfg.Tokens, storageClient, cfg.Storage.Bucket)
//
// The Garmin session is stored as an opaque blob; its shape is owned by the
// garmin client package.
package tokenstore
