package assembly

import (
	"testing"

	"github.com/docpack/docpack/internal/navigator"
	"github.com/docpack/docpack/internal/render"
)

func TestPageType_Precedence(t *testing.T) {
	cases := []struct {
		name string
		meta render.Metadata
		kind string
		want uint8
	}{
		{
			name: "role heading beats symbol kind",
			meta: render.Metadata{RoleHeading: "Property List Key", SymbolKind: "class", Role: "symbol"},
			kind: "symbol",
			want: navigator.PageTypePropertyListKey,
		},
		{
			name: "symbol kind beats role",
			meta: render.Metadata{SymbolKind: "class", Role: "article"},
			kind: "article",
			want: navigator.PageTypeClass,
		},
		{
			name: "role beats kind default",
			meta: render.Metadata{Role: "collectionGroup"},
			kind: "article",
			want: navigator.PageTypeGroup,
		},
		{
			name: "collection role is a framework",
			meta: render.Metadata{Role: "collection"},
			kind: "symbol",
			want: navigator.PageTypeFramework,
		},
		{
			name: "kind default for tutorials",
			meta: render.Metadata{},
			kind: "tutorial",
			want: navigator.PageTypeTutorial,
		},
		{
			name: "unrecognized everything defaults to article",
			meta: render.Metadata{SymbolKind: "quasar", Role: "mystery"},
			kind: "exotic",
			want: navigator.PageTypeArticle,
		},
		{
			name: "objc-style symbol kinds resolve",
			meta: render.Metadata{SymbolKind: "instm"},
			kind: "symbol",
			want: navigator.PageTypeMethod,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PageType(tc.meta, tc.kind); got != tc.want {
				t.Errorf("PageType() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestNavigatorTitle(t *testing.T) {
	declFragments := []render.Fragment{
		{Text: "func", Kind: "keyword"},
		{Text: " connect()", Kind: "identifier"},
	}

	t.Run("primary language variants win outright", func(t *testing.T) {
		meta := render.Metadata{
			Title:     "NetworkSession",
			Fragments: declFragments,
			NavigatorTitleVariants: render.VariantCollection[[]render.Fragment]{
				Overrides: []render.VariantOverride[[]render.Fragment]{{
					Traits: []render.Trait{{InterfaceLanguage: "swift"}},
					Value:  []render.Fragment{{Text: "Session (authored)", Kind: "identifier"}},
				}},
			},
		}
		got := NavigatorTitle(meta, navigator.PageTypeClass, "swift")
		if got != "Session (authored)" {
			t.Errorf("NavigatorTitle() = %q", got)
		}
	})

	t.Run("container page types use the plain title", func(t *testing.T) {
		meta := render.Metadata{Title: "NetworkSession", Fragments: declFragments}
		for _, pt := range []uint8{
			navigator.PageTypeFramework, navigator.PageTypeClass,
			navigator.PageTypeStructure, navigator.PageTypeEnumeration,
			navigator.PageTypeProtocol, navigator.PageTypeTypeAlias,
			navigator.PageTypeAssociatedType, navigator.PageTypeExtension,
		} {
			if got := NavigatorTitle(meta, pt, "swift"); got != "NetworkSession" {
				t.Errorf("page type %d: NavigatorTitle() = %q, want plain title", pt, got)
			}
		}
	})

	t.Run("symbol pages prefer fragments", func(t *testing.T) {
		meta := render.Metadata{Title: "connect", Fragments: declFragments}
		if got := NavigatorTitle(meta, navigator.PageTypeMethod, "swift"); got != "func connect()" {
			t.Errorf("NavigatorTitle() = %q", got)
		}
	})

	t.Run("plain title fallback without fragments", func(t *testing.T) {
		meta := render.Metadata{Title: "Getting Started"}
		if got := NavigatorTitle(meta, navigator.PageTypeArticle, "swift"); got != "Getting Started" {
			t.Errorf("NavigatorTitle() = %q", got)
		}
	})
}
