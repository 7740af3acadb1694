package badger

const (
	documentPrefix = "tcdoc:"
)

// makeDocumentKey generates the key a document is stored under.
// Document IDs are UUIDv7 strings, so key order follows insertion order.
func makeDocumentKey(id string) []byte {
	return []byte(documentPrefix + id)
}

// documentIDFromKey strips the prefix from a document key.
func documentIDFromKey(key []byte) string {
	return string(key[len(documentPrefix):])
}
