package service

import (
	"context"
	"sort"
	"strings"

	"github.com/dpshade/promptshelf/internal/clipboard"
	apperrors "github.com/dpshade/promptshelf/internal/errors"
	"github.com/dpshade/promptshelf/internal/logger"
	"github.com/dpshade/promptshelf/internal/models"
	"github.com/dpshade/promptshelf/internal/renderer"
	"github.com/dpshade/promptshelf/internal/storage"
)

// EditorRunner opens a file in an editor and waits for it to close
type EditorRunner interface {
	Run(path string) error
}

// Service provides business logic for prompt management. Both the command
// line and the interactive surface go through it.
type Service struct {
	storage *storage.Storage
}

// NewService creates a new service over the library at basePath
func NewService(basePath string) (*Service, error) {
	store, err := storage.NewStorage(basePath)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to initialize storage")
	}
	return &Service{storage: store}, nil
}

// InitLibrary initializes a new prompt library
func (s *Service) InitLibrary() error {
	return s.storage.InitLibrary()
}

// BaseDir returns the library base directory
func (s *Service) BaseDir() string {
	return s.storage.GetBaseDir()
}

// ListPrompts returns every prompt, ordered by name
func (s *Service) ListPrompts() ([]models.PromptMetadata, error) {
	return s.storage.ListPrompts()
}

// FilterPromptsByTag returns prompts carrying any of the given tags. No tags
// means no filtering.
func (s *Service) FilterPromptsByTag(tags ...string) ([]models.PromptMetadata, error) {
	prompts, err := s.ListPrompts()
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return prompts, nil
	}

	var filtered []models.PromptMetadata
	for _, p := range prompts {
		for _, tag := range tags {
			if p.HasTag(tag) {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}

// TagCount is a tag and the number of prompts carrying it
type TagCount struct {
	Tag   string
	Count int
}

// GetAllTags returns all unique tags from all prompts with their usage,
// ordered by tag
func (s *Service) GetAllTags() ([]TagCount, error) {
	prompts, err := s.ListPrompts()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, p := range prompts {
		for _, tag := range p.Tags {
			counts[tag]++
		}
	}

	tags := make([]TagCount, 0, len(counts))
	for tag, n := range counts {
		tags = append(tags, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Tag < tags[j].Tag })
	return tags, nil
}

// GetPrompt returns the metadata of the prompt named name
func (s *Service) GetPrompt(name string) (models.PromptMetadata, error) {
	meta, err := s.storage.FindByName(name)
	if err != nil {
		return models.PromptMetadata{}, err
	}
	if meta == nil {
		return models.PromptMetadata{}, apperrors.NotFoundError(name)
	}
	return *meta, nil
}

// GetPromptContent returns the metadata and body of the prompt named name
func (s *Service) GetPromptContent(name string) (models.PromptMetadata, string, error) {
	meta, err := s.GetPrompt(name)
	if err != nil {
		return models.PromptMetadata{}, "", err
	}
	return s.storage.ReadPrompt(meta.FilePath)
}

// PromptFilePath returns the absolute path of the prompt file
func (s *Service) PromptFilePath(name string) (string, error) {
	meta, err := s.GetPrompt(name)
	if err != nil {
		return "", err
	}
	return s.storage.AbsPath(meta.FilePath)
}

// CreateOptions configures a new prompt
type CreateOptions struct {
	// Template names the scaffold for the body; empty selects "none"
	Template string
	// Content, when set, is used as the body instead of the template
	Content string
	Tags    []string
}

// CreatePrompt creates <normalized name>.md with the display name as typed
func (s *Service) CreatePrompt(displayName string, opts CreateOptions) (models.PromptMetadata, error) {
	displayName = strings.TrimSpace(displayName)
	name := models.Normalize(displayName)
	if name == "" {
		return models.PromptMetadata{}, apperrors.MissingRequiredError("name")
	}

	body := opts.Content
	if body == "" {
		rendered, err := renderer.RenderBody(opts.Template, displayName)
		if err != nil {
			return models.PromptMetadata{}, err
		}
		body = rendered
	} else if opts.Template != "" {
		if _, err := renderer.Lookup(opts.Template); err != nil {
			return models.PromptMetadata{}, err
		}
	}

	text, err := storage.Serialize(displayName, opts.Tags, body)
	if err != nil {
		return models.PromptMetadata{}, err
	}

	meta, err := s.storage.CreatePrompt(name, text)
	if err != nil {
		return models.PromptMetadata{}, err
	}

	logger.Logger.Infow("prompt created",
		logger.FieldPrompt, meta.Name,
		logger.FieldPath, meta.FilePath,
	)
	return meta, nil
}

// DeletePrompt removes the prompt named name. Without force nothing is
// deleted and an InvalidInput error asks for --force.
func (s *Service) DeletePrompt(name string, force bool) error {
	meta, err := s.GetPrompt(name)
	if err != nil {
		return err
	}

	if !force {
		return apperrors.InvalidInputError("confirmation", "Deletion cancelled. Use --force to skip confirmation.")
	}

	if err := s.storage.DeletePrompt(meta.FilePath); err != nil {
		return err
	}

	logger.Logger.Infow("prompt deleted", logger.FieldPrompt, meta.Name)
	return nil
}

// RenamePrompt gives the prompt named name a new display name and file name
func (s *Service) RenamePrompt(name, newDisplayName string) (models.PromptMetadata, error) {
	meta, err := s.GetPrompt(name)
	if err != nil {
		return models.PromptMetadata{}, err
	}
	return s.storage.RenamePrompt(meta.FilePath, strings.TrimSpace(newDisplayName))
}

// UpdateTags replaces the tags of the prompt named name. The body and other
// header keys are kept byte for byte.
func (s *Service) UpdateTags(name string, tags []string) (models.PromptMetadata, error) {
	meta, err := s.GetPrompt(name)
	if err != nil {
		return models.PromptMetadata{}, err
	}

	content, err := s.storage.Read(meta.FilePath)
	if err != nil {
		return models.PromptMetadata{}, err
	}
	updated, err := storage.UpdateTags(content, tags)
	if err != nil {
		return models.PromptMetadata{}, err
	}
	if err := s.storage.Write(meta.FilePath, updated); err != nil {
		return models.PromptMetadata{}, err
	}

	meta.Tags = models.CleanTags(tags)
	return meta, nil
}

// AddTag appends tag to the prompt's tags unless it is already there
func (s *Service) AddTag(name, tag string) (models.PromptMetadata, error) {
	tag = models.NormalizeTag(tag)
	if tag == "" {
		return models.PromptMetadata{}, apperrors.MissingRequiredError("tag")
	}

	meta, err := s.GetPrompt(name)
	if err != nil {
		return models.PromptMetadata{}, err
	}
	if meta.HasTag(tag) {
		return meta, nil
	}
	return s.UpdateTags(name, append(append([]string{}, meta.Tags...), tag))
}

// RemoveTag drops tag from the prompt's tags
func (s *Service) RemoveTag(name, tag string) (models.PromptMetadata, error) {
	meta, err := s.GetPrompt(name)
	if err != nil {
		return models.PromptMetadata{}, err
	}

	tags := make([]string, 0, len(meta.Tags))
	for _, t := range meta.Tags {
		if t != tag {
			tags = append(tags, t)
		}
	}
	return s.UpdateTags(name, tags)
}

// CopyPrompt places the body of the prompt named name on the clipboard
func (s *Service) CopyPrompt(name string, clip clipboard.Writer) (models.PromptMetadata, error) {
	meta, body, err := s.GetPromptContent(name)
	if err != nil {
		return models.PromptMetadata{}, err
	}
	if err := clip.WriteText(body); err != nil {
		return models.PromptMetadata{}, err
	}
	return meta, nil
}

// EditPrompt opens the prompt file in the editor and waits for it to exit
func (s *Service) EditPrompt(name string, editor EditorRunner) error {
	path, err := s.PromptFilePath(name)
	if err != nil {
		return err
	}
	return editor.Run(path)
}

// SearchPrompts matches query against the parts of each prompt selected by kind
func (s *Service) SearchPrompts(query string, kind models.SearchKind) ([]models.PromptMetadata, error) {
	return s.storage.Search(query, kind)
}

// MisnamedPrompts returns prompts whose file name is not their normalized name
func (s *Service) MisnamedPrompts() ([]models.PromptMetadata, error) {
	return s.storage.MisnamedPrompts()
}

// NormalizeFileName renames the prompt's file to its normalized name and
// returns the new relative path
func (s *Service) NormalizeFileName(meta models.PromptMetadata) (string, error) {
	newPath, err := s.storage.NormalizeFileName(meta.FilePath)
	if err != nil {
		return "", err
	}
	logger.Logger.Infow("prompt file renamed",
		logger.FieldPrompt, meta.Name,
		logger.FieldPath, newPath,
	)
	return newPath, nil
}

// Watch reports library changes until ctx is done
func (s *Service) Watch(ctx context.Context) (<-chan struct{}, error) {
	return s.storage.Watch(ctx)
}
