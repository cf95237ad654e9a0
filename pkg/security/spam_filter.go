package security

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	defaultMaxURLs   = 3
	defaultMaxRepeat = 10
)

// SpamRule is one named content pattern.
type SpamRule struct {
	Name    string
	Pattern *regexp.Regexp
}

var (
	ruleCallToAction = SpamRule{
		Name:    "call_to_action",
		Pattern: regexp.MustCompile(`(?i)\b(click here|act now|limited time|free money|make money fast)\b`),
	}
	ruleInjection = SpamRule{
		Name:    "markup_injection",
		Pattern: regexp.MustCompile(`(?i)<script|javascript:|data:[a-z]+/[a-z0-9.+-]+`),
	}
	ruleLinkMarkup = SpamRule{
		Name:    "link_markup",
		Pattern: regexp.MustCompile(`(?i)\[url=|<a\s+href`),
	}
	ruleChainedURLs = SpamRule{
		Name:    "chained_urls",
		Pattern: regexp.MustCompile(`(?i)(https?://){2,}`),
	}

	urlPattern = regexp.MustCompile(`(?i)https?://`)
)

// SpamFilter flags text that looks machine-generated. It never decides what
// to tell the client; callers drop the submission silently.
type SpamFilter struct {
	rules []SpamRule
	// maxURLs of 0 disables the URL count.
	maxURLs   int
	maxRepeat int
}

func NewSpamFilter(maxURLs int, rules ...SpamRule) *SpamFilter {
	return &SpamFilter{
		rules:     rules,
		maxURLs:   maxURLs,
		maxRepeat: defaultMaxRepeat,
	}
}

// ContactSpamFilter targets link farms and financial scams. Markup is left to
// the email escaping.
func ContactSpamFilter() *SpamFilter {
	return NewSpamFilter(defaultMaxURLs,
		SpamRule{
			Name:    "spam_vocabulary",
			Pattern: regexp.MustCompile(`(?i)\b(viagra|cialis|casino|lottery|winner|bitcoin|crypto|investment|forex)\b`),
		},
		ruleCallToAction,
		ruleChainedURLs,
	)
}

// JoinSpamFilter leaves out "investment": the financial partner form offers
// "Impact Investment" as a support type. Callers pass CV, portfolio and
// LinkedIn fields as links so they do not count towards the URL cap.
func JoinSpamFilter() *SpamFilter {
	return NewSpamFilter(defaultMaxURLs,
		SpamRule{
			Name:    "spam_vocabulary",
			Pattern: regexp.MustCompile(`(?i)\b(viagra|cialis|lottery|winner|congratulations|inheritance)\b`),
		},
		ruleInjection,
		ruleLinkMarkup,
	)
}

// Check scans the concatenated texts and returns the name of the first
// signal that fired.
func (f *SpamFilter) Check(texts ...string) (bool, string) {
	return f.CheckWithLinks(texts, nil)
}

// CheckWithLinks applies every signal to prose. Links get every signal
// except the URL count.
func (f *SpamFilter) CheckWithLinks(prose, links []string) (bool, string) {
	proseText := strings.Join(prose, " ")
	text := proseText
	if len(links) > 0 {
		text = strings.Join(append(append([]string{}, prose...), links...), " ")
	}

	for _, rule := range f.rules {
		if rule.Pattern.MatchString(text) {
			return true, rule.Name
		}
	}

	if f.maxURLs > 0 && len(urlPattern.FindAllStringIndex(proseText, f.maxURLs+1)) > f.maxURLs {
		return true, "too_many_urls"
	}

	if hasRepeatedRun(text, f.maxRepeat+1) {
		return true, "repeated_characters"
	}

	return false, ""
}

// hasRepeatedRun reports whether any character other than a newline occurs
// at least n times in a row, ignoring case.
func hasRepeatedRun(s string, n int) bool {
	var prev rune = -1
	run := 0
	for _, r := range s {
		if r == '\n' {
			prev, run = -1, 0
			continue
		}
		r = unicode.ToLower(r)
		if r == prev {
			run++
		} else {
			prev, run = r, 1
		}
		if run >= n {
			return true
		}
	}
	return false
}
