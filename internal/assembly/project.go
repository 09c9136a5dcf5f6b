package assembly

import (
	"github.com/docpack/docpack/internal/availability"
	"github.com/docpack/docpack/internal/navigator"
	"github.com/docpack/docpack/internal/render"
)

// ProjectItem projects a page's render metadata into a navigator item,
// registering its availability triples in ix as a side effect. The item's
// availability id references the first platform's triple; the platform mask
// is the union of all declared platforms, or "any" when the page declares
// none. The index is not safe for concurrent mutation, so callers run one
// projection pass per bundle.
func ProjectItem(meta render.Metadata, kind, path string, lang availability.Language, ix *availability.Index) navigator.Item {
	pageType := PageType(meta, kind)
	title := NavigatorTitle(meta, pageType, lang.ID)

	var mask uint64
	var availabilityID uint64
	platforms := make([]availability.Platform, 0, len(meta.Platforms))

	for i, pa := range meta.Platforms {
		platform := availability.PlatformNamed(pa.Name)
		mask |= platform.Mask
		platforms = append(platforms, platform)

		info := availability.Info{Platform: platform}
		if pa.Introduced != "" {
			if v, err := availability.ParseVersion(pa.Introduced); err == nil {
				info.Introduced = &v
			}
		}
		if pa.Deprecated != "" {
			if v, err := availability.ParseVersion(pa.Deprecated); err == nil {
				info.Deprecated = &v
			}
		}

		id, _ := ix.ID(info, true)
		if i == 0 {
			availabilityID = uint64(id)
		}
	}
	if mask == 0 {
		mask = availability.PlatformAny.Mask
	}
	ix.RecordLanguage(lang, platforms...)

	return navigator.NewItem(pageType, lang.Mask, title, mask, availabilityID, path)
}
