package storage

import (
	"bytes"
	"fmt"
	"strings"

	apperrors "github.com/dpshade/promptshelf/internal/errors"
	"github.com/dpshade/promptshelf/internal/models"
	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// Document is a prompt file split into its YAML header and its body. The header
// is kept as a yaml.Node so keys this package does not know about survive a
// rewrite unchanged.
type Document struct {
	header *yaml.Node // mapping node
	Body   string
}

// header fields the store relies on
type promptHeader struct {
	Name string   `yaml:"name"`
	Tags []string `yaml:"tags"`
}

// ParseDocument splits content into header and body. The body is everything
// after the closing delimiter line, byte for byte.
func ParseDocument(content string) (*Document, error) {
	first, rest, ok := cutLine(content)
	if !ok || first != frontmatterDelimiter {
		return nil, apperrors.InvalidFormatError("missing frontmatter delimiter")
	}

	headerStart := len(content) - len(rest)
	pos := headerStart
	for {
		line, next, hasNewline := cutLine(content[pos:])
		if line == frontmatterDelimiter {
			header, err := parseHeader(content[headerStart:pos])
			if err != nil {
				return nil, err
			}
			bodyStart := len(content)
			if hasNewline {
				bodyStart = len(content) - len(next)
			}
			return &Document{header: header, Body: content[bodyStart:]}, nil
		}
		if !hasNewline {
			break
		}
		pos = len(content) - len(next)
	}

	return nil, apperrors.InvalidFormatError("missing closing frontmatter delimiter")
}

// cutLine returns the first line of s without its line ending, the remainder
// after the newline, and whether a newline was found.
func cutLine(s string) (line, rest string, found bool) {
	line, rest, found = strings.Cut(s, "\n")
	return strings.TrimSuffix(line, "\r"), rest, found
}

func parseHeader(text string) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, apperrors.InvalidFormatError(fmt.Sprintf("failed to parse frontmatter: %v", err))
	}

	// An empty header decodes to a zero node
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, apperrors.InvalidFormatError("frontmatter is not a key-value block")
	}
	return root, nil
}

// Metadata decodes the header fields. The name is required; tags may be absent.
func (d *Document) Metadata() (displayName string, tags []string, err error) {
	var h promptHeader
	if err := d.header.Decode(&h); err != nil {
		return "", nil, apperrors.InvalidFormatError(fmt.Sprintf("invalid frontmatter fields: %v", err))
	}
	if strings.TrimSpace(h.Name) == "" {
		return "", nil, apperrors.InvalidFormatError("missing name in frontmatter")
	}
	return h.Name, models.CleanTags(h.Tags), nil
}

// SetTags replaces the tag list, deduplicated and in the given order
func (d *Document) SetTags(tags []string) {
	d.setValue("tags", tagsNode(models.CleanTags(tags)))
}

// SetName replaces the display name
func (d *Document) SetName(displayName string) {
	d.setValue("name", quotedNode(displayName))
}

func (d *Document) setValue(key string, value *yaml.Node) {
	for i := 0; i+1 < len(d.header.Content); i += 2 {
		if d.header.Content[i].Value == key {
			d.header.Content[i+1] = value
			return
		}
	}
	d.header.Content = append(d.header.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

// String serializes the document back into prompt-file text
func (d *Document) String() (string, error) {
	var buf bytes.Buffer
	buf.WriteString(frontmatterDelimiter + "\n")

	if len(d.header.Content) > 0 {
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(d.header); err != nil {
			return "", fmt.Errorf("failed to encode frontmatter: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return "", fmt.Errorf("failed to encode frontmatter: %w", err)
		}
	}

	buf.WriteString(frontmatterDelimiter + "\n")
	buf.WriteString(d.Body)
	return buf.String(), nil
}

// NewDocument builds a document with the two required header keys
func NewDocument(displayName string, tags []string, body string) *Document {
	d := &Document{
		header: &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"},
		Body:   body,
	}
	d.SetName(displayName)
	d.SetTags(tags)
	return d
}

// Serialize renders a complete prompt file
func Serialize(displayName string, tags []string, body string) (string, error) {
	return NewDocument(displayName, tags, body).String()
}

// ParsePrompt parses prompt-file text into its display name, tags and body
func ParsePrompt(content string) (displayName string, tags []string, body string, err error) {
	doc, err := ParseDocument(content)
	if err != nil {
		return "", nil, "", err
	}
	displayName, tags, err = doc.Metadata()
	if err != nil {
		return "", nil, "", err
	}
	return displayName, tags, doc.Body, nil
}

// UpdateTags rewrites the tag list of a prompt file. The body and any other
// header keys are left as they were.
func UpdateTags(content string, tags []string) (string, error) {
	doc, err := ParseDocument(content)
	if err != nil {
		return "", err
	}
	if _, _, err := doc.Metadata(); err != nil {
		return "", err
	}
	doc.SetTags(tags)
	return doc.String()
}

func quotedNode(value string) *yaml.Node {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!str",
		Style: yaml.DoubleQuotedStyle,
		Value: value,
	}
}

func tagsNode(tags []string) *yaml.Node {
	seq := &yaml.Node{
		Kind:  yaml.SequenceNode,
		Tag:   "!!seq",
		Style: yaml.FlowStyle,
	}
	for _, tag := range tags {
		seq.Content = append(seq.Content, quotedNode(tag))
	}
	return seq
}
