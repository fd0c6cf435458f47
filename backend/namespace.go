package backend

// NamespacedKey combines collection and id for flat key indexes.
// Returns "collection:id" format.
func NamespacedKey(collection, id string) string {
	return collection + ":" + id
}
