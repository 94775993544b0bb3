package scanner

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doctags/doctags/internal/errors"
	"github.com/doctags/doctags/internal/logging"
	"github.com/doctags/doctags/internal/types"
)

var frontmatterDelimiter = []byte("---")

// PageScanner discovers documentation pages under the configured paths and
// extracts their tag references from YAML frontmatter.
type PageScanner struct {
	Paths           []string
	ExcludePatterns []string
	Logger          logging.Logger
}

// NewPageScanner creates a scanner over the given root directories.
func NewPageScanner(paths []string, excludePatterns []string, logger logging.Logger) *PageScanner {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &PageScanner{
		Paths:           paths,
		ExcludePatterns: excludePatterns,
		Logger:          logger.WithComponent("scanner"),
	}
}

// Pages implements processor.PageProvider. It walks every configured path
// for markdown files, in lexical order, and returns one PageReference per
// file. Pages without frontmatter or without tags still appear, with an
// empty tag list, so the cross-reference index sees the whole corpus.
func (s *PageScanner) Pages(ctx context.Context) ([]types.PageReference, error) {
	var pages []types.PageReference
	for _, root := range s.Paths {
		rootPages, err := s.scanRoot(ctx, root)
		if err != nil {
			return nil, err
		}
		pages = append(pages, rootPages...)
	}
	return pages, nil
}

func (s *PageScanner) scanRoot(ctx context.Context, root string) ([]types.PageReference, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		s.Logger.Debug(ctx, "docs path does not exist, skipping", "path", root)
		return nil, nil
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
				return filepath.SkipDir
			}
			return nil
		}
		ext := filepath.Ext(name)
		if ext != ".md" && ext != ".mdx" {
			return nil
		}
		for _, pattern := range s.ExcludePatterns {
			if matched, _ := filepath.Match(pattern, name); matched {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errors.NewIOError("docs_walk", fmt.Sprintf("walking %s", root), err)
	}
	sort.Strings(files)

	pages := make([]types.PageReference, 0, len(files))
	for _, path := range files {
		page, err := s.loadPage(ctx, root, path)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func (s *PageScanner) loadPage(ctx context.Context, root, path string) (types.PageReference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.PageReference{}, errors.NewIOError("page_read", fmt.Sprintf("reading %s", path), err)
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	page := types.PageReference{
		ID:   rel,
		Slug: strings.TrimSuffix(rel, filepath.Ext(rel)),
	}

	frontmatter, body := splitFrontmatter(data)
	if frontmatter != nil {
		var meta struct {
			ID          string   `yaml:"id"`
			Slug        string   `yaml:"slug"`
			Title       string   `yaml:"title"`
			Description string   `yaml:"description"`
			Tags        []string `yaml:"tags"`
		}
		if err := yaml.Unmarshal(frontmatter, &meta); err != nil {
			s.Logger.Warn(ctx, err, "unparseable frontmatter, treating page as untagged", "page", rel)
		} else {
			if meta.ID != "" {
				page.ID = meta.ID
			}
			if meta.Slug != "" {
				page.Slug = meta.Slug
			}
			page.Title = meta.Title
			page.Description = meta.Description
			page.Tags = meta.Tags

			var bag map[string]interface{}
			if err := yaml.Unmarshal(frontmatter, &bag); err == nil {
				page.Frontmatter = bag
			}
		}
	}
	if page.Title == "" {
		page.Title = firstHeading(body)
	}
	if page.Title == "" {
		page.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return page, nil
}

// splitFrontmatter returns the YAML frontmatter block and the remaining
// body. The block must start on the first line with "---" and end with a
// matching delimiter line; anything else means no frontmatter.
func splitFrontmatter(data []byte) (frontmatter, body []byte) {
	trimmed := bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM
	if !bytes.HasPrefix(trimmed, frontmatterDelimiter) {
		return nil, data
	}
	rest := trimmed[len(frontmatterDelimiter):]
	if len(rest) == 0 || (rest[0] != '\n' && !bytes.HasPrefix(rest, []byte("\r\n"))) {
		return nil, data
	}
	rest = bytes.TrimPrefix(rest, []byte("\r"))
	rest = bytes.TrimPrefix(rest, []byte("\n"))

	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, data
	}
	frontmatter = rest[:end+1]
	body = rest[end+1:]
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}
	return frontmatter, body
}

// firstHeading returns the text of the first level-one markdown heading.
func firstHeading(body []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(body))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return ""
}

// StaticPageProvider serves a pre-fetched corpus. Used by integrations that
// already hold the page list, and by tests.
type StaticPageProvider struct {
	Corpus []types.PageReference
}

// Pages implements processor.PageProvider.
func (s *StaticPageProvider) Pages(ctx context.Context) ([]types.PageReference, error) {
	return s.Corpus, nil
}
