package storage

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/dpshade/promptshelf/internal/errors"
	"github.com/dpshade/promptshelf/internal/logger"
	"github.com/dpshade/promptshelf/internal/models"
)

// PromptsDir is the subdirectory of the base path that holds prompt files
const PromptsDir = "prompts"

// Storage handles all file system operations for prompts. Every path it accepts
// is relative to the prompts directory.
type Storage struct {
	rootPath string
	cache    *metadataCache
}

// NewStorage creates a new storage instance rooted at rootPath. An empty
// rootPath selects ~/.promptshelf.
func NewStorage(rootPath string) (*Storage, error) {
	if rootPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, apperrors.IOError("resolve home directory", err)
		}
		rootPath = filepath.Join(homeDir, ".promptshelf")
	}

	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, apperrors.IOError("resolve base path", err)
	}

	return &Storage{
		rootPath: abs,
		cache:    newMetadataCache(),
	}, nil
}

// InitLibrary creates the prompts directory
func (s *Storage) InitLibrary() error {
	if err := os.MkdirAll(s.PromptsPath(), 0755); err != nil {
		return apperrors.IOError("create prompts directory", err)
	}
	return nil
}

// GetBaseDir returns the root path of the storage
func (s *Storage) GetBaseDir() string {
	return s.rootPath
}

// PromptsPath returns the absolute prompts directory
func (s *Storage) PromptsPath() string {
	return filepath.Join(s.rootPath, PromptsDir)
}

// AbsPath resolves a prompt path to an absolute path inside the prompts
// directory. Absolute paths and paths escaping the directory are rejected.
func (s *Storage) AbsPath(path string) (string, error) {
	if path == "" || filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return "", apperrors.InvalidPathError(path)
	}

	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", apperrors.InvalidPathError(path)
	}

	return filepath.Join(s.PromptsPath(), clean), nil
}

// ListPrompts returns metadata for every prompt file whose header parses,
// ordered by name. Files that fail to parse are skipped with a warning.
func (s *Storage) ListPrompts() ([]models.PromptMetadata, error) {
	promptsDir := s.PromptsPath()

	var prompts []models.PromptMetadata
	seen := make(map[string]string)
	existingFiles := make(map[string]bool)

	err := filepath.WalkDir(promptsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == promptsDir && os.IsNotExist(err) {
				return fs.SkipAll
			}
			return err
		}

		// Hidden entries include our own temp files
		if path != promptsDir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isMarkdown(d.Name()) {
			return nil
		}

		relPath, err := filepath.Rel(promptsDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)
		existingFiles[relPath] = true

		info, err := d.Info()
		if err != nil {
			return err
		}

		meta, ok := s.cache.get(relPath, info)
		if !ok {
			meta, _, err = s.ReadPrompt(relPath)
			if err != nil {
				logger.Logger.Warnw("skipping prompt file",
					logger.FieldPath, relPath,
					logger.FieldError, err,
				)
				return nil
			}
			s.cache.set(relPath, info, meta)
		}

		if other, dup := seen[meta.Name]; dup {
			logger.Logger.Warnw("skipping prompt with duplicate name",
				logger.FieldPath, relPath,
				logger.FieldPrompt, meta.Name,
				"first", other,
			)
			return nil
		}
		seen[meta.Name] = relPath
		prompts = append(prompts, meta)
		return nil
	})
	if err != nil {
		return nil, apperrors.IOError("scan prompts directory", err)
	}

	s.cache.cleanup(existingFiles)

	sort.SliceStable(prompts, func(i, j int) bool {
		return strings.ToLower(prompts[i].Name) < strings.ToLower(prompts[j].Name)
	})
	return prompts, nil
}

// FindByName returns the prompt whose normalized name matches name, or nil
func (s *Storage) FindByName(name string) (*models.PromptMetadata, error) {
	prompts, err := s.ListPrompts()
	if err != nil {
		return nil, err
	}

	want := models.Normalize(name)
	for i := range prompts {
		if prompts[i].Name == want {
			return &prompts[i], nil
		}
	}
	return nil, nil
}

// Exists reports whether a prompt named name is present
func (s *Storage) Exists(name string) bool {
	meta, err := s.FindByName(name)
	return err == nil && meta != nil
}

// Read returns the full text of a prompt file
func (s *Storage) Read(path string) (string, error) {
	fullPath, err := s.AbsPath(path)
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.NotFoundError(stem(path))
		}
		return "", apperrors.IOError("read prompt file", err)
	}
	return string(content), nil
}

// ReadPrompt reads and parses a prompt file into metadata and body
func (s *Storage) ReadPrompt(path string) (models.PromptMetadata, string, error) {
	content, err := s.Read(path)
	if err != nil {
		return models.PromptMetadata{}, "", err
	}

	displayName, tags, body, err := ParsePrompt(content)
	if err != nil {
		return models.PromptMetadata{}, "", apperrors.Wrapf(err, "%s", path)
	}

	return models.PromptMetadata{
		Name:        models.Normalize(stem(path)),
		DisplayName: displayName,
		Tags:        tags,
		FilePath:    filepath.ToSlash(path),
	}, body, nil
}

// Write atomically replaces a prompt file: the text goes to a temp file in the
// same directory which is then renamed over the target. Readers see either the
// old or the new file, never a partial one.
func (s *Storage) Write(path, text string) error {
	fullPath, err := s.AbsPath(path)
	if err != nil {
		return err
	}

	perm := fs.FileMode(0644)
	if info, err := os.Stat(fullPath); err == nil {
		perm = info.Mode().Perm()
	}

	tmpPath, err := writeTemp(fullPath, text, perm)
	if err != nil {
		return err
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return apperrors.IOError("replace prompt file", err)
	}

	s.cache.invalidate(filepath.ToSlash(path))
	return nil
}

// writeTemp writes text to a hidden temp file next to fullPath, synced to
// disk, and returns its path
func writeTemp(fullPath, text string, perm fs.FileMode) (string, error) {
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", apperrors.IOError("create directory", err)
	}

	tmpPath := filepath.Join(dir, "."+filepath.Base(fullPath)+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return "", apperrors.IOError("create temp file", err)
	}

	if _, err := f.WriteString(text); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", apperrors.IOError("write temp file", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", apperrors.IOError("sync temp file", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return "", apperrors.IOError("close temp file", err)
	}
	return tmpPath, nil
}

// CreatePrompt writes a new prompt file <name>.md. It fails with AlreadyExists
// when a prompt with that name is already present. The complete file is
// linked into place, so a concurrent create of the same name never
// overwrites it.
func (s *Storage) CreatePrompt(name, text string) (models.PromptMetadata, error) {
	if err := validateName(name); err != nil {
		return models.PromptMetadata{}, err
	}

	path := name + ".md"
	fullPath, err := s.AbsPath(path)
	if err != nil {
		return models.PromptMetadata{}, err
	}

	// A file with another stem may already carry this name
	if s.Exists(name) {
		return models.PromptMetadata{}, apperrors.AlreadyExistsError(name)
	}

	tmpPath, err := writeTemp(fullPath, text, 0644)
	if err != nil {
		return models.PromptMetadata{}, err
	}
	defer os.Remove(tmpPath)

	// os.Link fails when the target exists, unlike os.Rename
	if err := os.Link(tmpPath, fullPath); err != nil {
		if os.IsExist(err) {
			return models.PromptMetadata{}, apperrors.AlreadyExistsError(name)
		}
		return models.PromptMetadata{}, apperrors.IOError("create prompt file", err)
	}
	s.cache.invalidate(path)

	meta, _, err := s.ReadPrompt(path)
	return meta, err
}

// RenamePrompt moves the prompt at path to the file named after displayName
// and updates the header's name to match.
func (s *Storage) RenamePrompt(path, displayName string) (models.PromptMetadata, error) {
	newName := models.Normalize(displayName)
	if err := validateName(newName); err != nil {
		return models.PromptMetadata{}, err
	}

	content, err := s.Read(path)
	if err != nil {
		return models.PromptMetadata{}, err
	}
	doc, err := ParseDocument(content)
	if err != nil {
		return models.PromptMetadata{}, err
	}
	doc.SetName(displayName)
	text, err := doc.String()
	if err != nil {
		return models.PromptMetadata{}, err
	}

	newPath := newName + ".md"
	if dir := filepath.ToSlash(filepath.Dir(filepath.FromSlash(path))); dir != "." {
		newPath = dir + "/" + newPath
	}

	if newPath == filepath.ToSlash(path) {
		if err := s.Write(path, text); err != nil {
			return models.PromptMetadata{}, err
		}
	} else {
		if existing, _ := s.FindByName(newName); existing != nil {
			return models.PromptMetadata{}, apperrors.AlreadyExistsError(newName)
		}
		if err := s.Write(newPath, text); err != nil {
			return models.PromptMetadata{}, err
		}
		if err := s.DeletePrompt(path); err != nil {
			return models.PromptMetadata{}, err
		}
	}

	meta, _, err := s.ReadPrompt(newPath)
	return meta, err
}

// DeletePrompt deletes a prompt file from the file system
func (s *Storage) DeletePrompt(path string) error {
	fullPath, err := s.AbsPath(path)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return apperrors.NotFoundError(stem(path))
		}
		return apperrors.IOError("delete prompt file", err)
	}

	s.cache.invalidate(filepath.ToSlash(path))
	return nil
}

// MisnamedPrompts returns prompts whose file stem is not in normal form
func (s *Storage) MisnamedPrompts() ([]models.PromptMetadata, error) {
	prompts, err := s.ListPrompts()
	if err != nil {
		return nil, err
	}

	var misnamed []models.PromptMetadata
	for _, p := range prompts {
		if stem(p.FilePath) != p.Name {
			misnamed = append(misnamed, p)
		}
	}
	return misnamed, nil
}

// NormalizeFileName renames the file at path so its stem is the normalized
// name, keeping the directory and extension. It returns the new path.
func (s *Storage) NormalizeFileName(path string) (string, error) {
	fullPath, err := s.AbsPath(path)
	if err != nil {
		return "", err
	}
	name := models.Normalize(stem(path))
	if err := validateName(name); err != nil {
		return "", err
	}

	newPath := name + filepath.Ext(path)
	if dir := filepath.ToSlash(filepath.Dir(filepath.FromSlash(path))); dir != "." {
		newPath = dir + "/" + newPath
	}
	if newPath == filepath.ToSlash(path) {
		return newPath, nil
	}
	newFullPath, err := s.AbsPath(newPath)
	if err != nil {
		return "", err
	}

	src, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.NotFoundError(stem(path))
		}
		return "", apperrors.IOError("stat prompt file", err)
	}
	// Case-insensitive file systems report the target as the source itself
	if dst, err := os.Stat(newFullPath); err == nil && !os.SameFile(src, dst) {
		return "", apperrors.AlreadyExistsError(name)
	}

	if err := os.Rename(fullPath, newFullPath); err != nil {
		return "", apperrors.IOError("rename prompt file", err)
	}

	s.cache.invalidate(filepath.ToSlash(path))
	s.cache.invalidate(newPath)
	return newPath, nil
}

// Search returns prompts matching query, ignoring case, against the part of
// the prompt selected by kind.
func (s *Storage) Search(query string, kind models.SearchKind) ([]models.PromptMetadata, error) {
	prompts, err := s.ListPrompts()
	if err != nil {
		return nil, err
	}

	var results []models.PromptMetadata
	for _, p := range prompts {
		matched := false
		if kind == models.SearchName || kind == models.SearchAll {
			matched = p.MatchesName(query)
		}
		if !matched && (kind == models.SearchTag || kind == models.SearchAll) {
			matched = p.MatchesTag(query)
		}
		if !matched && (kind == models.SearchContent || kind == models.SearchAll) {
			_, body, err := s.ReadPrompt(p.FilePath)
			if err != nil {
				logger.Logger.Warnw("skipping prompt during content search",
					logger.FieldPath, p.FilePath,
					logger.FieldError, err,
				)
				continue
			}
			matched = models.ContainsFold(body, query)
		}
		if matched {
			results = append(results, p)
		}
	}
	return results, nil
}

// validateName checks that name is usable as a file stem
func validateName(name string) error {
	if name == "" {
		return apperrors.MissingRequiredError("name")
	}
	if strings.ContainsAny(name, `/\`) {
		return apperrors.InvalidPathError(name)
	}
	// Hidden files are skipped when listing, so such a prompt could never
	// be found again
	if strings.HasPrefix(name, ".") {
		return apperrors.InvalidPathError(name)
	}
	if name != models.Normalize(name) {
		return apperrors.InvalidInputError("name", "name must be lowercase without spaces: "+name)
	}
	return nil
}

func isMarkdown(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	default:
		return false
	}
}

func stem(path string) string {
	base := filepath.Base(filepath.FromSlash(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
