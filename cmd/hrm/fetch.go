package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"gopkg.in/yaml.v3"
)

// Level packs are git repositories of level files and programs, cloned
// once into the user cache and addressed afterwards as
// "pack:<name>/<path>".

type packEntry struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Revision string `yaml:"revision"`
	Commit   string `yaml:"commit"`
	Checksum string `yaml:"checksum"`
}

type packLockfile struct {
	Packs []packEntry `yaml:"packs"`
}

func runFetch(args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "hrm fetch: expected a pack name and a git URL")
		return 2
	}
	name, url := args[0], args[1]
	revision := "refs/heads/main"
	descriptor := "main"
	for i := 2; i < len(args); i++ {
		flag := args[i]
		i++
		if i >= len(args) {
			fmt.Fprintf(os.Stderr, "hrm fetch: %s requires a value\n", flag)
			return 2
		}
		switch flag {
		case "--rev":
			revision, descriptor = args[i], args[i]
		case "--tag":
			revision, descriptor = "refs/tags/"+args[i], args[i]
		case "--branch":
			revision, descriptor = "refs/heads/"+args[i], args[i]
		default:
			fmt.Fprintf(os.Stderr, "hrm fetch: unknown flag %q\n", flag)
			return 2
		}
	}
	if !validPackName(name) {
		fmt.Fprintf(os.Stderr, "hrm fetch: pack name %q may only contain letters, digits, '-' and '_'\n", name)
		return 2
	}

	entry, err := fetchPack(name, url, revision, descriptor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hrm fetch: %v\n", err)
		return 1
	}
	fmt.Printf("fetched %s@%s (%s)\n", name, descriptor, entry.Commit)
	return 0
}

func fetchPack(name, url, revision, descriptor string) (*packEntry, error) {
	root, err := packCacheRoot()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp(root, "fetch-*")
	if err != nil {
		return nil, err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return nil, err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{URL: url})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("git clone %s: %w", url, err)
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("resolve revision %s: %w", revision, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("git checkout %s: %w", revision, err)
	}

	targetDir := filepath.Join(root, name)
	if err := os.RemoveAll(targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, err
	}
	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, err
	}

	checksum, err := dirChecksum(targetDir)
	if err != nil {
		return nil, err
	}
	entry := &packEntry{
		Name:     name,
		URL:      url,
		Revision: descriptor,
		Commit:   hash.String(),
		Checksum: checksum,
	}
	if err := recordPack(root, *entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// resolvePackPath maps "name/relative/path" onto the pack cache.
func resolvePackPath(ref string) (string, error) {
	name, rest, ok := strings.Cut(ref, "/")
	if !ok || name == "" || rest == "" {
		return "", fmt.Errorf("pack reference %q must look like pack:<name>/<path>", ref)
	}
	root, err := packCacheRoot()
	if err != nil {
		return "", err
	}
	packDir := filepath.Join(root, name)
	if _, err := os.Stat(packDir); err != nil {
		return "", fmt.Errorf("pack %q not fetched (run hrm fetch first): %w", name, err)
	}
	resolved := filepath.Join(packDir, filepath.FromSlash(rest))
	if !strings.HasPrefix(resolved, packDir+string(filepath.Separator)) {
		return "", fmt.Errorf("pack reference %q escapes the pack", ref)
	}
	return resolved, nil
}

func packCacheRoot() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "hrm", "packs"), nil
}

func recordPack(root string, entry packEntry) error {
	lockPath := filepath.Join(root, "packs.yml")
	var lock packLockfile
	if data, err := os.ReadFile(lockPath); err == nil {
		if err := yaml.Unmarshal(data, &lock); err != nil {
			return fmt.Errorf("parse %s: %w", lockPath, err)
		}
	}

	replaced := false
	for i := range lock.Packs {
		if lock.Packs[i].Name == entry.Name {
			lock.Packs[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		lock.Packs = append(lock.Packs, entry)
	}
	sort.Slice(lock.Packs, func(i, j int) bool { return lock.Packs[i].Name < lock.Packs[j].Name })

	data, err := yaml.Marshal(&lock)
	if err != nil {
		return err
	}
	return os.WriteFile(lockPath, data, 0o644)
}

func dirChecksum(path string) (string, error) {
	h := sha256.New()
	err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		h.Write([]byte(filepath.Base(p)))
		h.Write(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func validPackName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
		if !ok {
			return false
		}
	}
	return true
}
