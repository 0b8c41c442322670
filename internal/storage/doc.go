// Package storage persists subscriptions and the fixture snapshots that each
// run is compared against.
//
// The snapshot is kept as two views of the same state: the list of fixture
// hashes per team and the full fixtures per team. A missing snapshot reads as
// an empty mapping. FileStore keeps everything as JSON files in a data
// directory (default ~/.local/share/amfb-notifier/); the redisstore
// subpackage provides a Redis-backed implementation.
package storage
