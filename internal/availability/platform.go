package availability

import "fmt"

// Platform identifies an operating system a symbol can be available on.
// Identity is the mask, not the display name: two Platforms with the same
// mask compare equal even if they were constructed with different names.
type Platform struct {
	Name string `json:"name"`
	Mask uint64 `json:"mask"`
}

var (
	PlatformUndefined = Platform{Name: "undefined", Mask: 0}
	PlatformMacOS     = Platform{Name: "macOS", Mask: 1 << 0}
	PlatformIOS       = Platform{Name: "iOS", Mask: 1 << 1}
	PlatformWatchOS   = Platform{Name: "watchOS", Mask: 1 << 2}
	PlatformTvOS      = Platform{Name: "tvOS", Mask: 1 << 3}
	PlatformVisionOS  = Platform{Name: "visionOS", Mask: 1 << 4}
	PlatformLinux     = Platform{Name: "linux", Mask: 1 << 5}

	// PlatformAny matches every platform; it never appears in the
	// enumerable platform set of an Index.
	PlatformAny = Platform{Name: "any", Mask: ^uint64(0)}
)

// Equal reports whether two platforms are the same, comparing masks only.
func (p Platform) Equal(other Platform) bool {
	return p.Mask == other.Mask
}

// PlatformNamed maps a display name to one of the predefined platforms.
// Unrecognized names get PlatformUndefined.
func PlatformNamed(name string) Platform {
	switch name {
	case "macOS", "macos", "osx":
		return PlatformMacOS
	case "iOS", "ios", "iPadOS":
		return PlatformIOS
	case "watchOS", "watchos":
		return PlatformWatchOS
	case "tvOS", "tvos":
		return PlatformTvOS
	case "visionOS", "visionos", "xrOS":
		return PlatformVisionOS
	case "linux", "Linux":
		return PlatformLinux
	case "any", "*":
		return PlatformAny
	default:
		return Platform{Name: name, Mask: 0}
	}
}

// Language identifies an interface language a page can be curated for.
// The mask is 8 bits wide; values 3 through 7 are reserved for custom
// languages registered at runtime.
type Language struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Mask uint8  `json:"mask"`
}

var (
	LanguageUndefined = Language{Name: "undefined", ID: "undefined", Mask: 0}
	LanguageSwift     = Language{Name: "Swift", ID: "swift", Mask: 1}
	LanguageObjC      = Language{Name: "Objective-C", ID: "occ", Mask: 2}
	LanguageData      = Language{Name: "Data", ID: "data", Mask: 8}

	// LanguageAny matches every language.
	LanguageAny = Language{Name: "any", ID: "any", Mask: 0xFF}
)

const (
	customLanguageMin = 3
	customLanguageMax = 7
)

// customLanguages holds runtime-registered languages keyed by id.
var customLanguages = map[string]Language{}

// RegisterLanguage adds a custom interface language, assigning it the next
// free custom slot. At most five custom languages can exist in a process;
// registering the same id twice returns the existing entry.
func RegisterLanguage(name, id string) (Language, error) {
	if lang, ok := customLanguages[id]; ok {
		return lang, nil
	}
	mask := uint8(customLanguageMin + len(customLanguages))
	if mask > customLanguageMax {
		return Language{}, fmt.Errorf("no free custom language slots for %q (max %d custom languages)", id, customLanguageMax-customLanguageMin+1)
	}
	lang := Language{Name: name, ID: id, Mask: mask}
	customLanguages[id] = lang
	return lang, nil
}

// LanguageWithID resolves a short language id to a built-in or previously
// registered custom language.
func LanguageWithID(id string) (Language, bool) {
	switch id {
	case LanguageSwift.ID:
		return LanguageSwift, true
	case LanguageObjC.ID, "objective-c", "objc":
		return LanguageObjC, true
	case LanguageData.ID:
		return LanguageData, true
	case LanguageAny.ID:
		return LanguageAny, true
	}
	lang, ok := customLanguages[id]
	return lang, ok
}
