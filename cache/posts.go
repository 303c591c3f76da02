/*
Package cache memoizes parsed posts using groupcache.

groupcache does not support expiration or removal, so entries are keyed by the
source identifier together with the modification time and size of the document.
An edited document therefore produces a new key and is parsed again, and the
stale entry is eventually evicted by the LRU.

	posts := cache.New("posts", 8<<20)
	repo := post.NewFS(os.DirFS("content/blog"), post.WithDecoder(posts))
*/
package cache

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"io/fs"
	"net/url"
	"strconv"

	"github.com/golang/groupcache"

	"github.com/folio-site/folio/post"
)

// ctxKey is the type used to pass the document reader to the group getter.
type ctxKey string

const readerKey ctxKey = "read"

// Posts is a post.Decoder that caches parse results.
type Posts struct {
	cache *groupcache.Group
}

// New creates a post cache with the given groupcache group name and size in bytes.
// Group names must be unique within a process.
func New(groupName string, sizeInBytes int64) *Posts {
	return &Posts{
		cache: groupcache.NewGroup(groupName, sizeInBytes, groupcache.GetterFunc(
			func(ctx context.Context, key string, dest groupcache.Sink) error {
				q, err := url.ParseQuery(key)
				if err != nil {
					return fmt.Errorf("posts group: invalid cache key: %w", err)
				}
				read, ok := ctx.Value(readerKey).(func() ([]byte, error))
				if !ok {
					return fmt.Errorf("posts group: no reader for %q", q.Get("id"))
				}
				b, err := read()
				if err != nil {
					return err
				}
				p, err := post.Parse(q.Get("id"), b)
				if err != nil {
					return err
				}
				var buf bytes.Buffer
				err = gob.NewEncoder(&buf).Encode(p)
				if err != nil {
					return fmt.Errorf("posts group: %w", err)
				}
				return dest.SetBytes(buf.Bytes())
			})),
	}
}

// Decode implements post.Decoder.
func (c *Posts) Decode(identifier string, info fs.FileInfo, read func() ([]byte, error)) (post.Post, error) {
	var (
		buf groupcache.ByteView
		p   post.Post
	)
	ctx := context.WithValue(context.Background(), readerKey, read)
	err := c.cache.Get(ctx, key(identifier, info), groupcache.ByteViewSink(&buf))
	if err != nil {
		return p, err
	}
	err = gob.NewDecoder(buf.Reader()).Decode(&p)
	if err != nil {
		return p, fmt.Errorf("Decode: %w", err)
	}
	return p, nil
}

// Stats returns the groupcache statistics of the cache.
func (c *Posts) Stats() *groupcache.Stats {
	return &c.cache.Stats
}

// key builds the cache key for a document.
func key(identifier string, info fs.FileInfo) string {
	q := make(url.Values, 3)
	q.Set("id", identifier)
	q.Set("mod", strconv.FormatInt(info.ModTime().UnixNano(), 10))
	q.Set("size", strconv.FormatInt(info.Size(), 10))
	return q.Encode()
}
