// Package fixture provides the fixture model and the change-detection rules
// used to decide which subscribers must hear about a schedule update.
//
// Every fixture carries a deterministic SHA1-based hash of its team, opponent
// and date, which is the only equality key used when comparing snapshots.
// Diff classifies changes between two snapshots of a team's schedule and
// SelectNotifyTargets reduces those changes to the fixtures worth sending.
package fixture
