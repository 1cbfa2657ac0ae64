// Package arena provides an index-addressed slot arena for immutable records.
//
// Records are appended and addressed by a dense ID. Freeing a record
// tombstones its slot; slots are never reused, so IDs stay unique for the
// arena's lifetime and iteration over live IDs follows allocation order.
//
// # Concurrency Model
//
// An Arena is not safe for concurrent mutation. Concurrent Get calls are
// safe as long as no Alloc or Free runs at the same time.
package arena
