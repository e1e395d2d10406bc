package s3

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey("Air Max 90.JPG")

	assert.True(t, strings.HasPrefix(key, productImagePrefix))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.NotEqual(t, key, ObjectKey("Air Max 90.JPG"))
}

func TestObjectKey_NoExtension(t *testing.T) {
	key := ObjectKey("blob")
	assert.Len(t, strings.TrimPrefix(key, productImagePrefix), 36)
}
