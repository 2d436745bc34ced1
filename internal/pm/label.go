package pm

import "strings"

// brandNames maps well-known package identifiers to their product names,
// which cannot be derived from the identifier itself.
var brandNames = map[string]string{
	"com.google.android.youtube": "YouTube",
	"com.google.android.gms":     "Google Play Services",
	"com.android.vending":        "Google Play Store",
	"com.whatsapp":               "WhatsApp",
	"com.facebook.katana":        "Facebook",
	"com.facebook.orca":          "Messenger",
	"com.instagram.android":      "Instagram",
}

// skipSegments are identifier segments that carry no naming information.
var skipSegments = map[string]bool{
	"com":     true,
	"net":     true,
	"org":     true,
	"io":      true,
	"android": true,
	"google":  true,
	"app":     true,
}

// Label derives a human-readable name from a package identifier. The package
// manager exposes no display label on the command line, so the meaningful
// segments of the identifier are title-cased and joined instead.
func Label(identifier string) string {
	if identifier == "" {
		return ""
	}

	if brand, ok := brandNames[identifier]; ok {
		return brand
	}

	parts := strings.Split(identifier, ".")

	var meaningful []string
	for _, part := range parts {
		if !skipSegments[strings.ToLower(part)] && len(part) > 2 {
			meaningful = append(meaningful, part)
		}
	}

	if len(meaningful) == 0 {
		meaningful = parts[len(parts)-1:]
	}

	for i, part := range meaningful {
		if part == "" {
			continue
		}

		meaningful[i] = strings.ToUpper(part[:1]) + part[1:]
	}

	return strings.Join(meaningful, " ")
}
