package crossref

import (
	"testing"

	"github.com/vporoshin/docdecay/internal/model"
)

func testConfig() model.CorpusConfig {
	return model.CorpusConfig{
		TOCFile:      "TABLE_OF_CONTENTS.md",
		OrphanExempt: []string{"README.md"},
	}
}

func backRef(target string, line int) model.InternalRef {
	return model.InternalRef{
		TargetPath: target,
		Line:       line,
		LinkText:   "Back to Table of Contents",
	}
}

func TestRunValidCorpus(t *testing.T) {
	docs := []model.Document{
		{
			Path: "TABLE_OF_CONTENTS.md",
			Internal: []model.InternalRef{
				{TargetPath: "chapters/one.md", Line: 3, LinkText: "One"},
				{TargetPath: "chapters/two.md", Line: 4, LinkText: "Two"},
			},
		},
		{
			Path:     "chapters/one.md",
			Headings: []model.Heading{{Text: "Chapter One", Line: 1}},
			Internal: []model.InternalRef{
				{TargetPath: "two.md", Anchor: "chapter-two", Line: 5, LinkText: "next"},
				backRef("../TABLE_OF_CONTENTS.md", 20),
			},
		},
		{
			Path:     "chapters/two.md",
			Headings: []model.Heading{{Text: "Chapter Two", Line: 1}},
			Internal: []model.InternalRef{backRef("../TABLE_OF_CONTENTS.md", 30)},
		},
		{Path: "README.md"},
	}

	report := New(testConfig()).Run(docs)

	if report.Broken != 0 || report.TOC.Broken != 0 {
		t.Fatalf("broken = %d toc broken = %d, failures: %+v", report.Broken, report.TOC.Broken, report.Failures)
	}
	if report.TOC.TotalLinks != 2 || report.TOC.Valid != 2 {
		t.Errorf("toc coverage = %+v", report.TOC)
	}
	if len(report.OrphanedFiles) != 0 {
		t.Errorf("orphans = %v, README must be exempt", report.OrphanedFiles)
	}
	if report.BackLinks.WithoutBackLink != 0 {
		t.Errorf("missing back links in %v", report.BackLinks.MissingIn)
	}
	if report.Severity() != model.SeverityPass {
		t.Errorf("severity = %v", report.Severity())
	}
}

func TestBrokenTargetAndAnchor(t *testing.T) {
	docs := []model.Document{
		{Path: "TABLE_OF_CONTENTS.md", Internal: []model.InternalRef{
			{TargetPath: "a.md", Line: 1, LinkText: "A"},
		}},
		{
			Path:     "a.md",
			Headings: []model.Heading{{Text: "Fee Schedule", Line: 1}},
			Internal: []model.InternalRef{
				{TargetPath: "missing.md", Line: 4, LinkText: "gone"},
				{TargetPath: "", Anchor: "fee-shedule", Line: 7, LinkText: "typo"},
				backRef("TABLE_OF_CONTENTS.md", 9),
			},
		},
	}

	report := New(testConfig()).Run(docs)

	if report.Broken != 2 {
		t.Fatalf("broken = %d, want 2: %+v", report.Broken, report.Failures)
	}

	var anchorFailure *model.RefFailure
	for i := range report.Failures {
		if report.Failures[i].Line == 7 {
			anchorFailure = &report.Failures[i]
		}
	}
	if anchorFailure == nil {
		t.Fatal("anchor failure not reported")
	}
	if len(anchorFailure.Suggestions) == 0 || anchorFailure.Suggestions[0] != "fee-schedule" {
		t.Errorf("suggestions = %v, want fee-schedule first", anchorFailure.Suggestions)
	}
	if report.Severity() != model.SeverityAction {
		t.Errorf("severity = %v", report.Severity())
	}
}

func TestAnchorOnlyRefChecksOwnFile(t *testing.T) {
	docs := []model.Document{
		{Path: "TABLE_OF_CONTENTS.md", Internal: []model.InternalRef{{TargetPath: "solo.md", Line: 1}}},
		{
			Path:     "solo.md",
			Headings: []model.Heading{{Text: "Intro", Line: 1}},
			Internal: []model.InternalRef{
				{TargetPath: "", Anchor: "intro", Line: 3, LinkText: "up"},
				backRef("TABLE_OF_CONTENTS.md", 5),
			},
		},
	}

	report := New(testConfig()).Run(docs)
	if report.Broken != 0 {
		t.Errorf("failures: %+v", report.Failures)
	}
}

func TestPathEscapeRejected(t *testing.T) {
	docs := []model.Document{
		{Path: "TABLE_OF_CONTENTS.md", Internal: []model.InternalRef{{TargetPath: "deep/a.md", Line: 1}}},
		{Path: "deep/a.md", Internal: []model.InternalRef{
			{TargetPath: "../../outside.md", Line: 2, LinkText: "escape"},
			backRef("../TABLE_OF_CONTENTS.md", 4),
		}},
	}

	report := New(testConfig()).Run(docs)
	if report.Broken != 1 {
		t.Fatalf("broken = %d: %+v", report.Broken, report.Failures)
	}
	if report.Failures[0].Error != "path escapes the corpus root" {
		t.Errorf("error = %q", report.Failures[0].Error)
	}
}

func TestOrphanDetection(t *testing.T) {
	docs := []model.Document{
		{Path: "TABLE_OF_CONTENTS.md", Internal: []model.InternalRef{{TargetPath: "linked.md", Line: 1}}},
		{Path: "linked.md", Internal: []model.InternalRef{backRef("TABLE_OF_CONTENTS.md", 2)}},
		{Path: "floating.md", Internal: []model.InternalRef{backRef("TABLE_OF_CONTENTS.md", 2)}},
		{Path: "README.md"},
	}

	report := New(testConfig()).Run(docs)
	if len(report.OrphanedFiles) != 1 || report.OrphanedFiles[0] != "floating.md" {
		t.Errorf("orphans = %v, want [floating.md]", report.OrphanedFiles)
	}
	if report.Severity() != model.SeverityAction {
		t.Errorf("severity = %v, orphans require action", report.Severity())
	}
}

func TestOrphanRequiresTOCReference(t *testing.T) {
	// b.md is reachable, but only through a.md. Coverage is defined by the
	// table of contents alone, so b.md is still orphaned.
	docs := []model.Document{
		{Path: "TABLE_OF_CONTENTS.md", Internal: []model.InternalRef{{TargetPath: "a.md", Line: 1}}},
		{Path: "a.md", Internal: []model.InternalRef{
			{TargetPath: "b.md", Line: 2, LinkText: "details"},
			backRef("TABLE_OF_CONTENTS.md", 4),
		}},
		{Path: "b.md", Internal: []model.InternalRef{backRef("TABLE_OF_CONTENTS.md", 2)}},
	}

	report := New(testConfig()).Run(docs)
	if report.Broken != 0 {
		t.Fatalf("failures: %+v", report.Failures)
	}
	if len(report.OrphanedFiles) != 1 || report.OrphanedFiles[0] != "b.md" {
		t.Errorf("orphans = %v, want [b.md]", report.OrphanedFiles)
	}
	if report.Severity() != model.SeverityAction {
		t.Errorf("severity = %v, want action", report.Severity())
	}
}

func TestAnchorFragmentInHeadingForm(t *testing.T) {
	// Fragments written in heading form must canonicalize the same way the
	// headings did: #Fees-&-Charges hits the anchor for "Fees & Charges".
	docs := []model.Document{
		{Path: "TABLE_OF_CONTENTS.md", Internal: []model.InternalRef{{TargetPath: "fees.md", Line: 1}}},
		{
			Path:     "fees.md",
			Headings: []model.Heading{{Text: "Fees & Charges", Line: 1}},
			Internal: []model.InternalRef{
				{TargetPath: "", Anchor: "Fees-&-Charges", Line: 3, LinkText: "fees"},
				backRef("TABLE_OF_CONTENTS.md", 5),
			},
		},
	}

	report := New(testConfig()).Run(docs)
	if report.Broken != 0 {
		t.Errorf("fragment in heading form reported broken: %+v", report.Failures)
	}
}

func TestMissingBackLinkIsWarn(t *testing.T) {
	docs := []model.Document{
		{Path: "TABLE_OF_CONTENTS.md", Internal: []model.InternalRef{{TargetPath: "ch.md", Line: 1}}},
		{Path: "ch.md", Internal: []model.InternalRef{
			// Links to the TOC, but not phrased as a back-link.
			{TargetPath: "TABLE_OF_CONTENTS.md", Line: 2, LinkText: "see also"},
		}},
	}

	report := New(testConfig()).Run(docs)
	if report.BackLinks.WithoutBackLink != 1 {
		t.Fatalf("back links = %+v", report.BackLinks)
	}
	if report.BackLinks.MissingIn[0] != "ch.md" {
		t.Errorf("missing in = %v", report.BackLinks.MissingIn)
	}
	if report.Severity() != model.SeverityWarn {
		t.Errorf("severity = %v, want warn", report.Severity())
	}
}
