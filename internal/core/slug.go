package core

import (
	"regexp"
	"strings"

	"github.com/learnanything/server/internal/store"
)

var (
	slugStripRe    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaceRe    = regexp.MustCompile(`\s+`)
	slugCollapseRe = regexp.MustCompile(`-+`)
)

// Slugify derives a URL path segment from a title: lowercase, strip
// everything but letters, digits, spaces and hyphens, then hyphenate.
// It is total — any input yields a (possibly empty) slug. Two titles
// can slugify identically; lookups resolve to the first match.
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugStripRe.ReplaceAllString(slug, "")
	slug = slugSpaceRe.ReplaceAllString(slug, "-")
	slug = slugCollapseRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// FindLessonBySlug returns the first plan lesson whose slugified title
// matches slug, or nil.
func FindLessonBySlug(plan *store.LearningPlan, slug string) *store.PlanLesson {
	for i := range plan.Lessons {
		if Slugify(plan.Lessons[i].Lesson) == slug {
			return &plan.Lessons[i]
		}
	}
	return nil
}

// FindSectionBySlug returns the first section title whose slugified
// form matches slug, or "".
func FindSectionBySlug(sections []string, slug string) string {
	for _, section := range sections {
		if Slugify(section) == slug {
			return section
		}
	}
	return ""
}
