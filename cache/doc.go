// Package cache provides the local store repositories read from and write to.
//
// Entries are addressed by a (kind, key) pair: the kind names the type of
// data held and the key identifies one value of that kind. [Kind] wraps a
// kind name with its Go type so typed helpers ([Read], [SaveAs], [Update])
// never hand back a value of the wrong type.
//
// [MemoryStore] is the in-process implementation, with optional TTL expiry
// configured through [Policy]. [Keyer] derives deterministic keys from
// structured query parameters.
package cache
