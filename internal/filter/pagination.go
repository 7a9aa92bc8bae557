package filter

import (
	"strconv"

	"collection-filter-service/internal/dom"
	"collection-filter-service/internal/domain"
)

// dataPage marks filtered pagination links with their target page.
const dataPage = "data-page"

// FilteredPaginationFragment clones the pagination templates of the page for
// every nav item. Items whose template is missing, is not a <template> or
// lacks the expected li/a structure are skipped. It returns nil when no
// item was produced.
func FilteredPaginationFragment(doc *dom.Document, items []domain.PageNavItem) *dom.Fragment {
	frag := dom.NewFragment()
	for _, item := range items {
		templateID := domain.PaginationItemID(domain.PaginationItemIDOptions{
			ItemType:      item.Type,
			IsCurrentPage: item.IsCurrentPage,
			IDType:        domain.PaginationIDTemplate,
		})

		clone, err := doc.CloneTemplate(templateID)
		if err != nil {
			continue
		}

		li := clone.FirstElement()
		if li == nil || li.Data != "li" {
			li = dom.Find(li, "li")
		}
		if li == nil {
			continue
		}
		dom.RemoveAttr(li, "id")

		if item.Type != domain.NavItemOverflow {
			link := dom.Find(li, "a")
			if link == nil {
				continue
			}

			page := strconv.Itoa(item.PageNumber)
			dom.SetAttr(link, "href", dom.Attr(link, "href")+page)
			dom.SetAttr(link, "id", domain.PaginationItemID(domain.PaginationItemIDOptions{
				ItemType: item.Type,
				PageID:   page,
				IDType:   domain.PaginationIDLinkFiltered,
			}))
			dom.SetAttr(link, dataPage, page)
			if item.Type == domain.NavItemPage {
				dom.SetTextContent(link, page)
			}
		}

		frag.Append(li)
	}

	if frag.Len() == 0 {
		return nil
	}

	return frag
}

// GetFirstPageLinkURL returns the href of the static link to page 1, or ""
// when the page has none.
func GetFirstPageLinkURL(doc *dom.Document) string {
	link := doc.ElementByID(domain.PaginationItemID(domain.PaginationItemIDOptions{
		ItemType: domain.NavItemPage,
		PageID:   "1",
		IDType:   domain.PaginationIDLink,
	}))

	return dom.Attr(link, "href")
}
