package textutil

import "strings"

// slugReplacer drops punctuation that the external catalog omits from its
// URL path segments.
var slugReplacer = strings.NewReplacer(
	":", "",
	".", "",
	"'", "",
	"(", "",
	")", "",
	"[", "",
	"]", "",
	"/", "",
	"#", "",
	"&", "",
	"!", "",
	"?", "",
	",", "",
	"\"", "",
)

// Slug converts a title to the hyphenated lowercase form used in catalog
// URLs: "Legend of Zelda: Ocarina of Time" becomes
// "legend-of-zelda-ocarina-of-time".
func Slug(title string) string {
	lowered := strings.ToLower(strings.TrimSpace(title))
	stripped := slugReplacer.Replace(lowered)
	return strings.Join(strings.Fields(stripped), "-")
}

// PlatformSlug converts a platform name to its catalog URL segment. The
// catalog drops the "new" qualifier from platform paths, so "New Nintendo
// 3DS" maps to the same segment as "Nintendo 3DS".
func PlatformSlug(platform string) string {
	lowered := strings.ToLower(strings.TrimSpace(platform))
	fields := strings.Fields(slugReplacer.Replace(lowered))
	kept := fields[:0]
	for _, f := range fields {
		if f == "new" {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, "-")
}
