// Package gitio reads staged files out of a git index with libgit2, so
// generated UI source can be validated exactly as it would be committed,
// before it ever reaches a tree.
package gitio

import (
	"errors"
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// ErrRepoClosed reports use of a repository after Free.
var ErrRepoClosed = errors.New("repository is closed")

// StagedFile is one file staged in the index, with its staged content
// (which may differ from the working tree).
type StagedFile struct {
	Path    string
	Content []byte
}

// Repository wraps a libgit2 repository handle.
type Repository struct {
	repo *git2go.Repository
	path string
}

// Open opens the repository at path.
func Open(path string) (*Repository, error) {
	repo, err := git2go.OpenRepository(path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return &Repository{repo: repo, path: path}, nil
}

// Path returns the repository path.
func (r *Repository) Path() string {
	return r.path
}

// Free releases the repository resources.
func (r *Repository) Free() {
	if r.repo != nil {
		r.repo.Free()
		r.repo = nil
	}
}

// StagedFiles returns the files whose staged (index) state differs from
// HEAD, with their staged content. On an unborn HEAD every index entry
// is staged. Deletions are omitted: there is nothing to validate.
func (r *Repository) StagedFiles() ([]StagedFile, error) {
	if r.repo == nil {
		return nil, ErrRepoClosed
	}

	index, err := r.repo.Index()
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	defer index.Free()

	headTree, err := r.headTree()
	if err != nil {
		return nil, err
	}

	if headTree != nil {
		defer headTree.Free()
	}

	opts, err := git2go.DefaultDiffOptions()
	if err != nil {
		return nil, fmt.Errorf("default diff options: %w", err)
	}

	diff, err := r.repo.DiffTreeToIndex(headTree, index, &opts)
	if err != nil {
		return nil, fmt.Errorf("diff tree to index: %w", err)
	}
	defer diff.Free()

	numDeltas, err := diff.NumDeltas()
	if err != nil {
		return nil, fmt.Errorf("get num deltas: %w", err)
	}

	files := make([]StagedFile, 0, numDeltas)

	for i := range numDeltas {
		delta, deltaErr := diff.Delta(i)
		if deltaErr != nil {
			return nil, fmt.Errorf("get delta %d: %w", i, deltaErr)
		}

		if delta.Status == git2go.DeltaDeleted {
			continue
		}

		content, blobErr := r.blobContent(delta.NewFile.Oid)
		if blobErr != nil {
			return nil, fmt.Errorf("load staged %s: %w", delta.NewFile.Path, blobErr)
		}

		files = append(files, StagedFile{Path: delta.NewFile.Path, Content: content})
	}

	return files, nil
}

// headTree returns the tree of HEAD, or nil on an unborn branch.
func (r *Repository) headTree() (*git2go.Tree, error) {
	ref, err := r.repo.Head()
	if err != nil {
		// No commits yet: diff against an empty tree.
		if git2go.IsErrorCode(err, git2go.ErrorCodeUnbornBranch) ||
			git2go.IsErrorCode(err, git2go.ErrorCodeNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("get HEAD: %w", err)
	}
	defer ref.Free()

	commit, err := r.repo.LookupCommit(ref.Target())
	if err != nil {
		return nil, fmt.Errorf("lookup HEAD commit: %w", err)
	}
	defer commit.Free()

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("lookup HEAD tree: %w", err)
	}

	return tree, nil
}

func (r *Repository) blobContent(oid *git2go.Oid) ([]byte, error) {
	blob, err := r.repo.LookupBlob(oid)
	if err != nil {
		return nil, fmt.Errorf("lookup blob: %w", err)
	}
	defer blob.Free()

	content := make([]byte, len(blob.Contents()))
	copy(content, blob.Contents())

	return content, nil
}
