package crossref

import (
	"errors"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/vporoshin/docdecay/internal/model"
)

// Checker validates corpus-internal references against the scanned corpus.
type Checker struct {
	tocFile      string
	orphanExempt map[string]struct{}

	// Logf receives progress lines in verbose mode. Nil disables it.
	Logf func(format string, args ...any)
}

// New creates a checker from the corpus config section.
func New(cfg model.CorpusConfig) *Checker {
	exempt := make(map[string]struct{}, len(cfg.OrphanExempt))
	for _, f := range cfg.OrphanExempt {
		exempt[f] = struct{}{}
	}
	return &Checker{tocFile: cfg.TOCFile, orphanExempt: exempt}
}

// Run validates every internal reference of the corpus and produces the
// crossref report. The table of contents is walked first so its coverage is
// known before orphan detection uses the referenced-file set.
func (c *Checker) Run(docs []model.Document) *model.CrossrefReport {
	report := &model.CrossrefReport{Timestamp: time.Now().UTC()}

	anchors := make(map[string]AnchorSet, len(docs))
	byPath := make(map[string]model.Document, len(docs))
	for _, doc := range docs {
		anchors[doc.Path] = NewAnchorSet(doc.Headings)
		byPath[doc.Path] = doc
	}

	// Only the TOC's own valid links count as coverage: a file reachable
	// solely through another chapter is still orphaned.
	tocReferenced := make(map[string]struct{})

	// TOC first.
	if toc, ok := byPath[c.tocFile]; ok {
		for _, ref := range toc.Internal {
			report.TOC.TotalLinks++
			failure, target := c.checkRef(toc.Path, ref, anchors)
			if failure == nil {
				report.TOC.Valid++
				tocReferenced[target] = struct{}{}
				continue
			}
			report.TOC.Broken++
			report.Failures = append(report.Failures, *failure)
		}
	}

	for _, doc := range docs {
		if doc.Path == c.tocFile {
			continue
		}
		for _, ref := range doc.Internal {
			report.TotalLinks++
			failure, _ := c.checkRef(doc.Path, ref, anchors)
			if failure == nil {
				report.Valid++
				continue
			}
			report.Broken++
			report.Failures = append(report.Failures, *failure)
			c.logf("broken ref %s:%d -> %s (%s)", doc.Path, ref.Line, ref.TargetPath, failure.Error)
		}
	}

	report.OrphanedFiles = c.orphans(docs, tocReferenced)
	report.BackLinks = c.backLinks(docs)

	sort.Slice(report.Failures, func(i, j int) bool {
		if report.Failures[i].SourceFile != report.Failures[j].SourceFile {
			return report.Failures[i].SourceFile < report.Failures[j].SourceFile
		}
		return report.Failures[i].Line < report.Failures[j].Line
	})
	return report
}

// checkRef validates one reference and returns its resolved target path on
// success. Anchor-only references resolve to the source file itself.
func (c *Checker) checkRef(source string, ref model.InternalRef, anchors map[string]AnchorSet) (*model.RefFailure, string) {
	target := source
	if ref.TargetPath != "" {
		resolved, err := resolveTarget(source, ref.TargetPath)
		if err != nil {
			return &model.RefFailure{
				SourceFile:      source,
				Line:            ref.Line,
				Target:          ref.TargetPath,
				Error:           err.Error(),
				SuggestedAction: "Fix the path so it stays inside the corpus",
			}, ""
		}
		target = resolved
	}

	set, exists := anchors[target]
	if !exists {
		return &model.RefFailure{
			SourceFile:      source,
			Line:            ref.Line,
			Target:          ref.TargetPath,
			ResolvedPath:    target,
			Error:           "target file does not exist",
			SuggestedAction: "Update the link or restore the file",
		}, ""
	}

	// Fragments are written in heading form as often as anchor form, so
	// run them through the same canonicalization as headings.
	if want := CanonicalAnchor(ref.Anchor); ref.Anchor != "" && !set.Has(want) {
		return &model.RefFailure{
			SourceFile:      source,
			Line:            ref.Line,
			Target:          ref.TargetPath + "#" + ref.Anchor,
			ResolvedPath:    target,
			Error:           "anchor not found in target",
			Suggestions:     set.Suggest(want),
			SuggestedAction: "Point the fragment at an existing heading",
		}, ""
	}

	return nil, target
}

// resolveTarget resolves a link target against the source file's directory.
// A leading slash means corpus-root-relative; anything escaping the root is
// an error.
func resolveTarget(source, target string) (string, error) {
	var resolved string
	if strings.HasPrefix(target, "/") {
		resolved = path.Clean(strings.TrimPrefix(target, "/"))
	} else {
		resolved = path.Clean(path.Join(path.Dir(source), target))
	}
	if resolved == ".." || strings.HasPrefix(resolved, "../") {
		return "", errors.New("path escapes the corpus root")
	}
	return resolved, nil
}

// orphans lists files the table of contents does not reach, minus the
// exempt set and the table of contents itself.
func (c *Checker) orphans(docs []model.Document, referenced map[string]struct{}) []string {
	var orphaned []string
	for _, doc := range docs {
		if doc.Path == c.tocFile {
			continue
		}
		if _, exempt := c.orphanExempt[path.Base(doc.Path)]; exempt {
			continue
		}
		if _, ok := referenced[doc.Path]; !ok {
			orphaned = append(orphaned, doc.Path)
		}
	}
	sort.Strings(orphaned)
	return orphaned
}

var backLinkTextRe = regexp.MustCompile(`(?i)back.*table.*of.*contents`)

// backLinks checks that every chapter links back to the table of contents.
// Exempt files are top-level documents that never carry one.
func (c *Checker) backLinks(docs []model.Document) model.BackLinks {
	var result model.BackLinks
	for _, doc := range docs {
		if doc.Path == c.tocFile {
			continue
		}
		if _, exempt := c.orphanExempt[path.Base(doc.Path)]; exempt {
			continue
		}

		found := false
		for _, ref := range doc.Internal {
			if path.Base(ref.TargetPath) != c.tocFile {
				continue
			}
			if backLinkTextRe.MatchString(ref.LinkText) {
				found = true
				break
			}
		}

		if found {
			result.WithBackLink++
		} else {
			result.WithoutBackLink++
			result.MissingIn = append(result.MissingIn, doc.Path)
		}
	}
	sort.Strings(result.MissingIn)
	return result
}

func (c *Checker) logf(format string, args ...any) {
	if c.Logf != nil {
		c.Logf(format, args...)
	}
}
