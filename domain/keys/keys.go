package keys

import "strings"

const (
	// PfxNonce prefixes the one-time sign-in nonce of an address
	PfxNonce = "nonce"
	// PfxPrecheck prefixes cached purchase prechecks
	PfxPrecheck = "precheck"
	// PfxHttp prefixes cached http responses
	PfxHttp        = "http"
	PfxHealthCheck = "healthcheck"
	// PfxEns prefixes resolved ENS names
	PfxEns = "ens"
)

// CacheKey joins the components of a cache key
func CacheKey(components ...string) string {
	return strings.Join(components, ":")
}
