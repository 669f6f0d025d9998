package direct

import "strconv"

// nextCursor resolves the continuation cursor for the next "older" page
// from a page response. The API does not place the cursor consistently,
// so a fixed fallback chain is probed in order; the first hit wins:
//
//  1. thread-level oldest_cursor
//  2. thread-level next_cursor
//  3. the last item's timestamp, stringified
//  4. top-level paging_info.max_id
//  5. the last item's identifier (item_id, id, or client_context)
//
// The result is opaque: cursors of different origin are not comparable
// and must only be echoed back to the API. ok is false when no strategy
// applies, which after the first page means end-of-history.
func nextCursor(page *threadPage, paging *pagingInfo) (cursor string, ok bool) {
	if page == nil {
		return "", false
	}

	if page.OldestCursor != "" {
		return page.OldestCursor, true
	}
	if page.NextCursor != "" {
		return page.NextCursor, true
	}

	var last *Item
	if n := len(page.Items); n > 0 {
		last = &page.Items[n-1]
	}

	if last != nil && last.Timestamp != 0 {
		return strconv.FormatInt(last.Timestamp, 10), true
	}

	if paging != nil && paging.MaxID != "" {
		return paging.MaxID, true
	}

	if last != nil {
		if id, idOK := last.Identifier(); idOK {
			return id, true
		}
	}

	return "", false
}
