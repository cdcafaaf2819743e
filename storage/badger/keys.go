package badger

import (
	"encoding/binary"
	"time"
)

// Key prefixes and fixed keys for the logical tables
const (
	documentPrefix     = "docrec"
	documentUserPrefix = "docusr"
	userPrefix         = "usrrec"
	recentListKey      = "recents"
	currentUserKey     = "session:current"
)

// makeDocumentKey generates a key for a document by Id.
func makeDocumentKey(id string) []byte {
	return []byte(documentPrefix + ":" + id)
}

// makeDocumentUserDateKey generates a composite key for the owner/date index.
// Format: prefix:userID:timestamp+id
func makeDocumentUserDateKey(userID string, timestamp time.Time, id string) []byte {
	prefix := makePartialDocumentUserKey(userID)
	buf := make([]byte, len(prefix)+8+len(id))
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	copy(buf[offset:], id)
	return buf
}

// makePartialDocumentUserKey generates the per-owner index prefix.
// Format: prefix:userID:
func makePartialDocumentUserKey(userID string) []byte {
	return []byte(documentUserPrefix + ":" + userID + ":")
}

// makeUserKey generates a key for a user record by Id.
func makeUserKey(id string) []byte {
	return []byte(userPrefix + ":" + id)
}
