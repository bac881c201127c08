package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"

	"perch/internal/store"
)

// Dump is the on-disk shape of a feed dump file: the same ingest-ready
// records the fetch boundary delivers, in one JSON document.
type Dump struct {
	Accounts []store.Account `json:"accounts"`
	Posts    []store.Post    `json:"posts"`
}

// FileSource serves a local JSON feed dump through the Source
// interface, paging newest-first. It stands in for the network client
// (which, with its authentication, is outside this program).
type FileSource struct {
	path string

	once sync.Once
	err  error
	dump Dump
}

// NewFileSource creates a source over the dump at path. The file is
// read lazily on first use.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// ReadDump parses a feed dump file. Shared with perchctl.
func ReadDump(path string) (Dump, error) {
	var d Dump
	b, err := os.ReadFile(path)
	if err != nil {
		return d, fmt.Errorf("reading feed dump %s: %w", path, err)
	}
	if err := json.Unmarshal(b, &d); err != nil {
		return d, fmt.Errorf("parsing feed dump %s: %w", path, err)
	}
	sort.Slice(d.Posts, func(i, j int) bool {
		if d.Posts[i].CreatedAt != d.Posts[j].CreatedAt {
			return d.Posts[i].CreatedAt > d.Posts[j].CreatedAt
		}
		return d.Posts[i].ID > d.Posts[j].ID
	})
	return d, nil
}

func (fs *FileSource) load() error {
	fs.once.Do(func() {
		fs.dump, fs.err = ReadDump(fs.path)
	})
	return fs.err
}

// Timeline returns a page of all posts, newest first.
func (fs *FileSource) Timeline(ctx context.Context, pageToken string, pageSize int) (Batch, error) {
	return fs.page(ctx, pageToken, pageSize, func(store.Post) bool { return true })
}

// UserPosts returns a page of one author's posts.
func (fs *FileSource) UserPosts(ctx context.Context, userID, pageToken string, pageSize int) (Batch, error) {
	return fs.page(ctx, pageToken, pageSize, func(p store.Post) bool { return p.AuthorID == userID })
}

func (fs *FileSource) page(ctx context.Context, pageToken string, pageSize int, keep func(store.Post) bool) (Batch, error) {
	if err := fs.load(); err != nil {
		return Batch{}, err
	}
	if err := ctx.Err(); err != nil {
		return Batch{}, err
	}

	offset := 0
	if pageToken != "" {
		n, err := strconv.Atoi(pageToken)
		if err != nil || n < 0 {
			return Batch{}, fmt.Errorf("bad page token %q", pageToken)
		}
		offset = n
	}

	var posts []store.Post
	matched := 0
	next := ""
	for _, p := range fs.dump.Posts {
		if !keep(p) {
			continue
		}
		matched++
		if matched <= offset {
			continue
		}
		if len(posts) == pageSize {
			next = strconv.Itoa(offset + pageSize)
			break
		}
		posts = append(posts, p)
	}

	// Every page carries the full account set; the store's merge makes
	// re-ingest harmless and this keeps author references resolvable.
	return Batch{Accounts: fs.dump.Accounts, Posts: posts, NextPage: next}, nil
}

// LookupUser resolves a handle against the dump's accounts.
func (fs *FileSource) LookupUser(ctx context.Context, handle string) (store.Account, error) {
	if err := fs.load(); err != nil {
		return store.Account{}, err
	}
	if err := ctx.Err(); err != nil {
		return store.Account{}, err
	}
	for _, a := range fs.dump.Accounts {
		if a.Handle == handle {
			return a, nil
		}
	}
	return store.Account{}, fmt.Errorf("unknown user @%s", handle)
}
