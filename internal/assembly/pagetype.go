package assembly

import (
	"github.com/docpack/docpack/internal/navigator"
	"github.com/docpack/docpack/internal/render"
)

// PageType derives the navigator page type for a page from its render
// metadata. Precedence is fixed: special-cased role headings first, then
// symbol kind, then the generic role, then a kind-based default. Ties
// resolve by this ordering, never by input order.
func PageType(meta render.Metadata, kind string) uint8 {
	switch meta.RoleHeading {
	case "Property List Key", "Property List Key Reference":
		return navigator.PageTypePropertyListKey
	}
	if t, ok := pageTypeForSymbolKind(meta.SymbolKind); ok {
		return t
	}
	if t, ok := pageTypeForRole(meta.Role); ok {
		return t
	}
	return pageTypeForKind(kind)
}

func pageTypeForSymbolKind(kind string) (uint8, bool) {
	switch kind {
	case "module", "framework":
		return navigator.PageTypeFramework, true
	case "class", "cl":
		return navigator.PageTypeClass, true
	case "struct", "structure":
		return navigator.PageTypeStructure, true
	case "enum", "enumeration":
		return navigator.PageTypeEnumeration, true
	case "protocol", "intf":
		return navigator.PageTypeProtocol, true
	case "typealias", "tdef":
		return navigator.PageTypeTypeAlias, true
	case "associatedtype":
		return navigator.PageTypeAssociatedType, true
	case "func", "function":
		return navigator.PageTypeFunction, true
	case "func.op", "operator", "op":
		return navigator.PageTypeOperator, true
	case "method", "instm":
		return navigator.PageTypeMethod, true
	case "type.method", "clm":
		return navigator.PageTypeTypeMethod, true
	case "property", "instp":
		return navigator.PageTypeProperty, true
	case "type.property", "clp":
		return navigator.PageTypeTypeProperty, true
	case "var", "variable":
		return navigator.PageTypeVariable, true
	case "init", "initializer":
		return navigator.PageTypeInitializer, true
	case "case", "enum.case":
		return navigator.PageTypeCase, true
	case "macro":
		return navigator.PageTypeMacro, true
	case "subscript":
		return navigator.PageTypeSubscript, true
	case "extension":
		return navigator.PageTypeExtension, true
	default:
		return 0, false
	}
}

func pageTypeForRole(role string) (uint8, bool) {
	switch role {
	case "article":
		return navigator.PageTypeArticle, true
	case "collection":
		return navigator.PageTypeFramework, true
	case "collectionGroup":
		return navigator.PageTypeGroup, true
	case "sampleCode":
		return navigator.PageTypeSampleCode, true
	case "tutorial", "project":
		return navigator.PageTypeTutorial, true
	case "overview":
		return navigator.PageTypeContainer, true
	default:
		return 0, false
	}
}

func pageTypeForKind(kind string) uint8 {
	switch kind {
	case "tutorial", "project":
		return navigator.PageTypeTutorial
	case "section":
		return navigator.PageTypeSection
	case "overview":
		return navigator.PageTypeContainer
	case "symbol":
		return navigator.PageTypeContainer
	default:
		return navigator.PageTypeArticle
	}
}

// NavigatorTitle derives the title shown in the navigator column.
// Authored navigator-title fragments for the page's primary language win
// outright. Container-like page types (framework, class, structure,
// enumeration, protocol, typeAlias, associatedType, extension) use the plain
// title; every other symbol page prefers its declaration fragments.
func NavigatorTitle(meta render.Metadata, pageType uint8, primaryLangID string) string {
	if frags := meta.NavigatorTitleVariants.ForLanguage(primaryLangID); len(frags) > 0 {
		return render.FragmentsText(frags)
	}
	if len(meta.NavigatorTitle) > 0 {
		return render.FragmentsText(meta.NavigatorTitle)
	}

	switch pageType {
	case navigator.PageTypeFramework,
		navigator.PageTypeClass,
		navigator.PageTypeStructure,
		navigator.PageTypeEnumeration,
		navigator.PageTypeProtocol,
		navigator.PageTypeTypeAlias,
		navigator.PageTypeAssociatedType,
		navigator.PageTypeExtension:
		return meta.Title
	}

	if len(meta.Fragments) > 0 {
		return render.FragmentsText(meta.Fragments)
	}
	return meta.Title
}
