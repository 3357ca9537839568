package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// QuestionPayloadKey returns the cache key for an assembled question payload
// (question row plus its answer options).
func (r *CacheKeyStruct) QuestionPayloadKey(questionID int64) string {
	return fmt.Sprintf("question:%d:payload", questionID)
}

var CacheKey = NewCacheKeyStruct()
