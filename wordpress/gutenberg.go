package wordpress

import (
	"fmt"
	"regexp"
	"strings"
)

var h1Re = regexp.MustCompile(`(?is)<h1[^>]*>.*?</h1>`)

// FormatForGutenberg prepares article content for the Gutenberg editor. The
// post title renders its own h1, so the first <h1> block is removed from the
// body. HTML content passes through as is; plain text content is converted to
// Gutenberg block comments.
func FormatForGutenberg(content string) string {
	cleaned := replaceFirst(content, h1Re)

	if hasHTMLFormatting(cleaned) {
		return cleaned
	}

	return textToBlocks(content)
}

func replaceFirst(s string, re *regexp.Regexp) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + s[loc[1]:]
}

func hasHTMLFormatting(content string) bool {
	for _, tag := range []string{"<h1>", "<h2>", "<p>", "<ul>", "<ol>"} {
		if strings.Contains(content, tag) {
			return true
		}
	}
	return false
}

var (
	headingRe       = regexp.MustCompile(`^#+`)
	headingPrefixRe = regexp.MustCompile(`^#+\s*`)
	orderedRe       = regexp.MustCompile(`^\d+\.\s`)
	itemRe          = regexp.MustCompile(`^(\d+\.|-)\s+`)
)

// textToBlocks converts markdown-ish plain text into Gutenberg block comments.
// Legacy path for content produced without HTML formatting.
func textToBlocks(content string) string {
	var b strings.Builder

	for _, paragraph := range strings.Split(content, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}

		switch {
		case strings.HasPrefix(paragraph, "#"):
			// Hashtags like "#shorts" have no space after the hashes;
			// treat them as headings too rather than bailing out.
			level := len(headingRe.FindString(paragraph))
			text := headingPrefixRe.ReplaceAllString(paragraph, "")
			fmt.Fprintf(&b, "<!-- wp:heading {\"level\":%d} -->\n<h%d>%s</h%d>\n<!-- /wp:heading -->\n\n", level, level, text, level)

		case orderedRe.MatchString(paragraph) || strings.HasPrefix(paragraph, "- "):
			items := strings.Split(paragraph, "\n")
			ordered := orderedRe.MatchString(items[0])
			listTag := "ul"
			if ordered {
				listTag = "ol"
			}
			cleaned := make([]string, 0, len(items))
			for _, item := range items {
				cleaned = append(cleaned, itemRe.ReplaceAllString(item, ""))
			}
			fmt.Fprintf(&b, "<!-- wp:list {\"ordered\":%t} -->\n<%s><li>%s</li></%s>\n<!-- /wp:list -->\n\n",
				ordered, listTag, strings.Join(cleaned, "</li><li>"), listTag)

		default:
			fmt.Fprintf(&b, "<!-- wp:paragraph -->\n<p>%s</p>\n<!-- /wp:paragraph -->\n\n", paragraph)
		}
	}

	if b.Len() == 0 {
		return content
	}
	return b.String()
}
