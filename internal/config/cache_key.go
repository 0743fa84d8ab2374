package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AdminSessionKey returns the cache key for an admin's active session JTI.
func (r *CacheKeyStruct) AdminSessionKey(adminID int) string {
	return fmt.Sprintf("login:admin:%d", adminID)
}

var CacheKey = NewCacheKeyStruct()
