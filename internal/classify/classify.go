// Package classify holds the pure heuristics that infer an experience band
// and a role category from posting text. Both functions are best-effort:
// absence of a match yields the zero value, never an error, and downstream
// callers treat "no match" as pass-through rather than rejection.
package classify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/job-radar/internal/types"
)

var (
	internPattern = regexp.MustCompile(`\b(intern|internship|co-op)\b`)
	juniorPattern = regexp.MustCompile(`\b(new ?grad|entry[ -]level|entry|junior|associate|early career|graduate)\b`)
	rangePattern  = regexp.MustCompile(`(\d+)\s*-\s*(\d+)\s*\+?\s*years?`)
	plusPattern   = regexp.MustCompile(`(\d+)\s*\+?\s*years?`)
)

// InferExperienceBand maps free-form posting text to a coarse experience
// band. Rules are evaluated in order; the first match wins:
// intern keyword, junior/new-grad keyword, an explicit "N-M years" range
// (banded by the upper bound), then an "N+ years" floor.
func InferExperienceBand(text string) types.ExperienceBand {
	t := strings.ToLower(text)

	if internPattern.MatchString(t) {
		return types.BandIntern
	}
	if juniorPattern.MatchString(t) {
		return types.BandZeroTwo
	}
	if m := rangePattern.FindStringSubmatch(t); m != nil {
		upper, err := strconv.Atoi(m[2])
		if err == nil {
			switch {
			case upper <= 1:
				return types.BandZeroOne
			case upper <= 3:
				return types.BandOneThree
			case upper <= 5:
				return types.BandThreeFive
			default:
				return types.ExperienceBand(m[1] + "+")
			}
		}
	}
	if m := plusPattern.FindStringSubmatch(t); m != nil {
		return types.ExperienceBand(m[1] + "+")
	}
	return types.BandNone
}

// roleRule binds a category bucket to its ordered match patterns.
type roleRule struct {
	category types.Category
	patterns []*regexp.Regexp
}

// phrases compiles a keyword list into case-anchored substring patterns.
// Short tokens that would over-match inside longer words get \b anchors.
func phrases(words ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		out = append(out, regexp.MustCompile(regexp.QuoteMeta(w)))
	}
	return out
}

func exact(words ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		out = append(out, regexp.MustCompile(`\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return out
}

// roleRules is the ordered bucket table. Earlier buckets win when text
// matches more than one, so the more specific data buckets come before the
// generic software bucket.
var roleRules = []roleRule{
	{types.CategoryDataEngineering, append(
		phrases("data engineer", "analytics engineer", "data pipeline", "data platform"),
		exact("etl", "elt", "airflow", "dbt", "spark", "kafka")...)},
	{types.CategoryDataScience, append(
		phrases("data scientist", "machine learning", "deep learning", "applied scientist", "research engineer", "computer vision"),
		exact("ml engineer", "mle", "nlp", "llm")...)},
	{types.CategoryDevOps, append(
		phrases("site reliability", "platform engineer", "cloud engineer", "infrastructure engineer", "observability"),
		exact("devops", "sre", "kubernetes", "terraform")...)},
	{types.CategorySecurity, append(
		phrases("security engineer", "security analyst", "application security"),
		exact("security", "appsec", "secops", "iam", "grc", "soc", "threat")...)},
	{types.CategoryQA, append(
		phrases("test automation", "automation engineer", "test engineer", "quality engineer"),
		exact("qa", "sdet")...)},
	{types.CategoryAnalytics, append(
		phrases("data analyst", "business analyst", "product analyst"),
		exact("analytics")...)},
	{types.CategoryProduct, phrases("product manager", "technical product manager", "product owner")},
	{types.CategorySoftware, append(
		phrases("software engineer", "software developer", "backend", "back-end", "frontend", "front-end",
			"full stack", "full-stack", "mobile engineer", "distributed systems", "web developer"),
		exact("sde", "swe", "ios", "android", "golang")...)},
}

// seniorExclusions suppress a role match: this feed targets early-career
// roles, so leadership titles are filtered out unless a junior qualifier
// appears in the same text (juniorOverride). "Senior Software Engineer
// (New Grad Program)" is therefore accepted.
var (
	seniorExclusions = regexp.MustCompile(`\b(senior|sr\.?|staff|principal|director|vp|vice president|head of|lead)\b`)
	juniorOverride   = regexp.MustCompile(`\b(intern(ship)?|new ?grad|junior|associate|entry|early career|graduate)\b`)
)

// CategoryOf returns the first role bucket whose patterns match the text.
// Leadership titles without a junior qualifier never match.
func CategoryOf(text string) (types.Category, bool) {
	t := strings.ToLower(text)

	if seniorExclusions.MatchString(t) && !juniorOverride.MatchString(t) {
		return "", false
	}
	for _, rule := range roleRules {
		for _, p := range rule.patterns {
			if p.MatchString(t) {
				return rule.category, true
			}
		}
	}
	return "", false
}

// MatchesRole reports whether the text falls into any role bucket.
func MatchesRole(text string) bool {
	_, ok := CategoryOf(text)
	return ok
}

// BandLabel renders a band for logs and API payloads; the zero band reads
// as "none".
func BandLabel(b types.ExperienceBand) string {
	if b == types.BandNone {
		return "none"
	}
	return string(b)
}
