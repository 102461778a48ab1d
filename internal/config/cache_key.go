package config

import "fmt"

type CacheKeyStruct struct{}

// CacheKey groups the Redis key builders used across the app.
var CacheKey = &CacheKeyStruct{}

// SessionKey returns the cache key for a registrant's login session.
// The stored value is the JWT jti of the active session.
func (r *CacheKeyStruct) SessionKey(kind string, id int) string {
	return fmt.Sprintf("login:%s:%d", kind, id)
}

// ClassBrowseKey returns the cache key for the open-class browse list.
func (r *CacheKeyStruct) ClassBrowseKey() string {
	return "classes:browse"
}
