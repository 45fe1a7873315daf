package storage

import "fmt"

// Keys are the two storage keys of one session.
type Keys struct {
	Cart string
	Open string
}

// KeysFor builds "<namespace>:cart:<session>" and "<namespace>:cart_open:<session>".
func KeysFor(namespace, sessionID string) Keys {
	if namespace == "" {
		return Keys{
			Cart: fmt.Sprintf("cart:%s", sessionID),
			Open: fmt.Sprintf("cart_open:%s", sessionID),
		}
	}
	return Keys{
		Cart: fmt.Sprintf("%s:cart:%s", namespace, sessionID),
		Open: fmt.Sprintf("%s:cart_open:%s", namespace, sessionID),
	}
}

// NamespacePrefix is the key prefix shared by every cart key of namespace.
func NamespacePrefix(namespace string) string {
	if namespace == "" {
		return "cart"
	}
	return namespace + ":"
}
