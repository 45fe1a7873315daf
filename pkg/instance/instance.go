package instance

import "github.com/angelmondragon/storefront-cart/pkg/env"

// GetID returns the process instance identifier used in logs.
func GetID() string {
	if id := env.Get("STOREFRONT_INSTANCE_ID", ""); id != "" {
		return id
	}
	return env.Get("DYNO", "local")
}
